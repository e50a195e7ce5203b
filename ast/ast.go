// Package ast defines the arena-allocated abstract syntax tree
// produced by the parser. Nodes own no heap data: identifier and
// literal text fields are sub-slices of the source buffer, and every
// variable-length payload is an arena slice.
package ast

import "github.com/wudi/php-parser/source"

// Node 表示抽象语法树中的节点接口
type Node interface {
	// GetKind 返回节点的 Kind 类型
	GetKind() Kind
	// GetSpan 返回节点在源代码中的字节区间
	GetSpan() source.Span
}

// Statement 表示语句节点
type Statement interface {
	Node
	statementNode()
}

// Expression 表示表达式节点
type Expression interface {
	Node
	expressionNode()
}

// TypeNode 表示类型标注节点
type TypeNode interface {
	Node
	typeNode()
}

// ClassMember 表示类体成员节点
type ClassMember interface {
	Node
	classMemberNode()
}

// BaseNode 基础节点，提供公共字段和方法
type BaseNode struct {
	Kind Kind        `json:"kind"`
	Span source.Span `json:"span"`
}

// GetKind 返回节点的 Kind 类型
func (b *BaseNode) GetKind() Kind { return b.Kind }

// GetSpan 返回节点区间
func (b *BaseNode) GetSpan() source.Span { return b.Span }

// Base 构造一个 BaseNode
func Base(kind Kind, span source.Span) BaseNode {
	return BaseNode{Kind: kind, Span: span}
}

// Program 表示整个 PHP 程序，区间覆盖全部输入
type Program struct {
	BaseNode
	Body []Statement `json:"body"`
}
