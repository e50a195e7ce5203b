package ast

// NamedType 命名类型，包括内建标量名和类名
type NamedType struct {
	BaseNode
	Name *Name `json:"name"`
}

func (t *NamedType) typeNode() {}

// NullableType ?T
type NullableType struct {
	BaseNode
	Inner TypeNode `json:"inner"`
}

func (t *NullableType) typeNode() {}

// UnionType A|B|C。DNF 类型表示为联合中嵌套带括号的交集。
type UnionType struct {
	BaseNode
	Types []TypeNode `json:"types"`
}

func (t *UnionType) typeNode() {}

// IntersectionType A&B&C
type IntersectionType struct {
	BaseNode
	Types []TypeNode `json:"types"`
}

func (t *IntersectionType) typeNode() {}
