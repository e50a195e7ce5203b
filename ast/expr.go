package ast

import (
	"github.com/wudi/php-parser/lexer"
)

// ErrorExpr 占位一段解析失败的表达式。区间覆盖失败尝试消耗的
// 全部 Token。
type ErrorExpr struct {
	BaseNode
}

func (e *ErrorExpr) expressionNode() {}

// IntLit 整数字面量。Raw 是源字节（可能含下划线分隔符和进制前缀），
// Value 是解释后的值。
type IntLit struct {
	BaseNode
	Raw   []byte `json:"raw"`
	Value int64  `json:"value"`
}

func (e *IntLit) expressionNode() {}

// FloatLit 浮点数字面量，包括溢出提升的整数字面量
type FloatLit struct {
	BaseNode
	Raw   []byte  `json:"raw"`
	Value float64 `json:"value"`
}

func (e *FloatLit) expressionNode() {}

// StringLit 无插值的字符串字面量。Raw 含引号；Nowdoc 的 Raw 是
// 正文字节。
type StringLit struct {
	BaseNode
	Raw []byte `json:"raw"`
}

func (e *StringLit) expressionNode() {}

// StringFragment 插值字符串中的一段纯文本
type StringFragment struct {
	BaseNode
	Raw []byte `json:"raw"`
}

func (e *StringFragment) expressionNode() {}

// InterpString 插值字符串（双引号或 heredoc），Parts 交替为
// StringFragment 与表达式。
type InterpString struct {
	BaseNode
	Parts []Expression `json:"parts"`
}

func (e *InterpString) expressionNode() {}

// ShellExec 反引号命令执行，Parts 同 InterpString
type ShellExec struct {
	BaseNode
	Parts []Expression `json:"parts"`
}

func (e *ShellExec) expressionNode() {}

// BoolLit true/false 字面量（大小写不敏感识别非限定名）
type BoolLit struct {
	BaseNode
	Value bool `json:"value"`
}

func (e *BoolLit) expressionNode() {}

// NullLit null 字面量
type NullLit struct {
	BaseNode
}

func (e *NullLit) expressionNode() {}

// Variable 普通变量 $name。Name 含 $ 前缀。
type Variable struct {
	BaseNode
	Name []byte `json:"name"`
}

func (e *Variable) expressionNode() {}

// VariableVariable 变量变量 $$x 和 ${expr}
type VariableVariable struct {
	BaseNode
	Inner Expression `json:"inner"`
}

func (e *VariableVariable) expressionNode() {}

// NameKind 区分名字的限定形式
type NameKind uint8

const (
	NameUnqualified NameKind = iota
	NameQualified
	NameFullyQualified
	NameRelative
)

var nameKindNames = [...]string{"unqualified", "qualified", "fully-qualified", "relative"}

// String 返回限定形式的字符串表示
func (k NameKind) String() string {
	if int(k) < len(nameKindNames) {
		return nameKindNames[k]
	}
	return "unknown"
}

// Name 常量、函数和类引用中的名字，可能带命名空间限定
type Name struct {
	BaseNode
	Value    []byte   `json:"value"`
	NameKind NameKind `json:"nameKind"`
}

func (e *Name) expressionNode() {}

// Identifier 成员名、标签等裸标识符
type Identifier struct {
	BaseNode
	Value []byte `json:"value"`
}

// MagicKind 枚举九个魔术常量
type MagicKind uint8

const (
	MagicLine MagicKind = iota
	MagicFile
	MagicDir
	MagicClass
	MagicTrait
	MagicMethod
	MagicFunction
	MagicNamespace
	MagicProperty
)

var magicKindNames = [...]string{
	"Line", "File", "Dir", "Class", "Trait", "Method", "Function", "Namespace", "Property",
}

// String 返回魔术常量类别名
func (k MagicKind) String() string {
	if int(k) < len(magicKindNames) {
		return magicKindNames[k]
	}
	return "Unknown"
}

// MagicConst 魔术常量表达式（__LINE__ 等）
type MagicConst struct {
	BaseNode
	Magic MagicKind `json:"magic"`
}

func (e *MagicConst) expressionNode() {}

// Unary 前缀和后缀一元运算。Postfix 仅对 ++/-- 为真。
type Unary struct {
	BaseNode
	Op      lexer.TokenType `json:"op"`
	Operand Expression      `json:"operand"`
	Postfix bool            `json:"postfix,omitempty"`
}

func (e *Unary) expressionNode() {}

// Binary 二元运算，包括 instanceof、?? 和管道 |>
type Binary struct {
	BaseNode
	Op    lexer.TokenType `json:"op"`
	Left  Expression      `json:"left"`
	Right Expression      `json:"right"`
}

func (e *Binary) expressionNode() {}

// Assign 赋值及复合赋值。ByRef 表示 =& 引用赋值。
type Assign struct {
	BaseNode
	Op    lexer.TokenType `json:"op"`
	Var   Expression      `json:"var"`
	Value Expression      `json:"value"`
	ByRef bool            `json:"byRef,omitempty"`
}

func (e *Assign) expressionNode() {}

// Ternary 三元条件。Then 为 nil 时是短三元 a ?: c。
type Ternary struct {
	BaseNode
	Cond Expression `json:"cond"`
	Then Expression `json:"then,omitempty"`
	Else Expression `json:"else"`
}

func (e *Ternary) expressionNode() {}

// Arg 调用实参
type Arg struct {
	BaseNode
	Name   *Identifier `json:"name,omitempty"` // 命名实参
	Spread bool        `json:"spread,omitempty"`
	Value  Expression  `json:"value"`
}

// Call 函数调用。FirstClass 表示 f(...) 一等可调用语法。
type Call struct {
	BaseNode
	Callee     Expression `json:"callee"`
	Args       []*Arg     `json:"args"`
	FirstClass bool       `json:"firstClass,omitempty"`
}

func (e *Call) expressionNode() {}

// MethodCall $obj->m(...) 与 $obj?->m(...)
type MethodCall struct {
	BaseNode
	Object     Expression `json:"object"`
	Method     Node       `json:"method"` // Identifier、Variable 或 {expr}
	Args       []*Arg     `json:"args"`
	Nullsafe   bool       `json:"nullsafe,omitempty"`
	FirstClass bool       `json:"firstClass,omitempty"`
}

func (e *MethodCall) expressionNode() {}

// StaticCall C::m(...)
type StaticCall struct {
	BaseNode
	Class      Node   `json:"class"` // Name 或表达式
	Method     Node   `json:"method"`
	Args       []*Arg `json:"args"`
	FirstClass bool   `json:"firstClass,omitempty"`
}

func (e *StaticCall) expressionNode() {}

// PropertyFetch $obj->p 与 $obj?->p
type PropertyFetch struct {
	BaseNode
	Object   Expression `json:"object"`
	Property Node       `json:"property"`
	Nullsafe bool       `json:"nullsafe,omitempty"`
}

func (e *PropertyFetch) expressionNode() {}

// StaticPropertyFetch C::$p
type StaticPropertyFetch struct {
	BaseNode
	Class    Node `json:"class"`
	Property Node `json:"property"`
}

func (e *StaticPropertyFetch) expressionNode() {}

// ClassConstFetch C::K 与 C::{expr}
type ClassConstFetch struct {
	BaseNode
	Class Node `json:"class"`
	Const Node `json:"const"`
}

func (e *ClassConstFetch) expressionNode() {}

// ArrayDim 下标访问 $a[i]；Dim 为 nil 表示 $a[] 推入形式
type ArrayDim struct {
	BaseNode
	Var Expression `json:"var"`
	Dim Expression `json:"dim,omitempty"`
}

func (e *ArrayDim) expressionNode() {}

// ArrayItem 数组字面量或解构模式中的一项
type ArrayItem struct {
	BaseNode
	Key    Expression `json:"key,omitempty"`
	Value  Expression `json:"value"`
	ByRef  bool       `json:"byRef,omitempty"`
	Spread bool       `json:"spread,omitempty"`
}

// Array 数组字面量，[...] 或 array(...)
type Array struct {
	BaseNode
	Items []*ArrayItem `json:"items"`
}

func (e *Array) expressionNode() {}

// List list(...) 解构
type List struct {
	BaseNode
	Items []*ArrayItem `json:"items"`
}

func (e *List) expressionNode() {}

// ClosureUse 闭包 use 子句中的一个捕获
type ClosureUse struct {
	BaseNode
	Var   *Variable `json:"var"`
	ByRef bool      `json:"byRef,omitempty"`
}

// Closure 匿名函数
type Closure struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Static     bool              `json:"static,omitempty"`
	ByRef      bool              `json:"byRef,omitempty"`
	Params     []*Param          `json:"params"`
	Uses       []*ClosureUse     `json:"uses,omitempty"`
	ReturnType TypeNode          `json:"returnType,omitempty"`
	Body       *Block            `json:"body"`
}

func (e *Closure) expressionNode() {}

// ArrowFn 箭头函数 fn(...) => expr
type ArrowFn struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Static     bool              `json:"static,omitempty"`
	ByRef      bool              `json:"byRef,omitempty"`
	Params     []*Param          `json:"params"`
	ReturnType TypeNode          `json:"returnType,omitempty"`
	Body       Expression        `json:"body"`
}

func (e *ArrowFn) expressionNode() {}

// MatchArm match 的一个分支；Conds 为 nil 表示 default
type MatchArm struct {
	BaseNode
	Conds []Expression `json:"conds,omitempty"`
	Body  Expression   `json:"body"`
}

// Match match 表达式
type Match struct {
	BaseNode
	Subject Expression  `json:"subject"`
	Arms    []*MatchArm `json:"arms"`
}

func (e *Match) expressionNode() {}

// New 对象实例化。Class 是 Name、表达式或 AnonClass。
type New struct {
	BaseNode
	Class Node   `json:"class"`
	Args  []*Arg `json:"args"`
}

func (e *New) expressionNode() {}

// AnonClass new class(...) {...} 中的匿名类体
type AnonClass struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Args       []*Arg            `json:"args"`
	Extends    *Name             `json:"extends,omitempty"`
	Implements []*Name           `json:"implements,omitempty"`
	Members    []ClassMember     `json:"members"`
}

func (e *AnonClass) expressionNode() {}

// Clone 克隆表达式。Args 非 nil 时是 PHP 8.4 的 clone(...) 形式。
type Clone struct {
	BaseNode
	Operand Expression `json:"operand,omitempty"`
	Args    []*Arg     `json:"args,omitempty"`
}

func (e *Clone) expressionNode() {}

// Cast 类型转换
type Cast struct {
	BaseNode
	CastType lexer.TokenType `json:"castType"`
	Operand  Expression      `json:"operand"`
}

func (e *Cast) expressionNode() {}

// Yield 生成器让出。Key 和 Value 均可为 nil。
type Yield struct {
	BaseNode
	Key   Expression `json:"key,omitempty"`
	Value Expression `json:"value,omitempty"`
}

func (e *Yield) expressionNode() {}

// YieldFrom yield from 委托
type YieldFrom struct {
	BaseNode
	Operand Expression `json:"operand"`
}

func (e *YieldFrom) expressionNode() {}

// Throw 抛出表达式（PHP 8 起 throw 是表达式）
type Throw struct {
	BaseNode
	Operand Expression `json:"operand"`
}

func (e *Throw) expressionNode() {}

// Isset isset(...) 检查
type Isset struct {
	BaseNode
	Vars []Expression `json:"vars"`
}

func (e *Isset) expressionNode() {}

// Empty empty(...) 检查
type Empty struct {
	BaseNode
	Operand Expression `json:"operand"`
}

func (e *Empty) expressionNode() {}

// Exit exit/die，Operand 可为 nil
type Exit struct {
	BaseNode
	Operand Expression `json:"operand,omitempty"`
}

func (e *Exit) expressionNode() {}

// Eval eval(...)
type Eval struct {
	BaseNode
	Operand Expression `json:"operand"`
}

func (e *Eval) expressionNode() {}

// Include include/include_once/require/require_once
type Include struct {
	BaseNode
	Op      lexer.TokenType `json:"op"`
	Operand Expression      `json:"operand"`
}

func (e *Include) expressionNode() {}

// Print print 表达式
type Print struct {
	BaseNode
	Operand Expression `json:"operand"`
}

func (e *Print) expressionNode() {}
