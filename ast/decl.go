package ast

import "strings"

// Modifier 类成员修饰符位集
type Modifier uint16

const (
	ModPublic Modifier = 1 << iota
	ModProtected
	ModPrivate
	ModPublicSet
	ModProtectedSet
	ModPrivateSet
	ModStatic
	ModAbstract
	ModFinal
	ModReadonly
	ModVar // 传统 var 声明
)

var modifierNames = []struct {
	bit  Modifier
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModPublicSet, "public(set)"},
	{ModProtectedSet, "protected(set)"},
	{ModPrivateSet, "private(set)"},
	{ModStatic, "static"},
	{ModAbstract, "abstract"},
	{ModFinal, "final"},
	{ModReadonly, "readonly"},
	{ModVar, "var"},
}

// Has 检查位集是否包含 m
func (ms Modifier) Has(m Modifier) bool { return ms&m != 0 }

// String 按声明顺序渲染修饰符集合
func (ms Modifier) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if ms&mn.bit != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// Attribute 单个属性，如 #[Route('/x', method: 'GET')] 中的 Route(...)
type Attribute struct {
	BaseNode
	Name *Name  `json:"name"`
	Args []*Arg `json:"args,omitempty"`
}

// AttributeGroup 一个 #[...] 组
type AttributeGroup struct {
	BaseNode
	Attrs []*Attribute `json:"attrs"`
}

// Param 形参。Modifiers 非零时是构造器属性提升；提升形参还可以
// 携带属性钩子。
type Param struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Modifiers  Modifier          `json:"modifiers,omitempty"`
	Type       TypeNode          `json:"type,omitempty"`
	ByRef      bool              `json:"byRef,omitempty"`
	Variadic   bool              `json:"variadic,omitempty"`
	Var        *Variable         `json:"var"`
	Default    Expression        `json:"default,omitempty"`
	Hooks      []*PropertyHook   `json:"hooks,omitempty"`
}

// HookKind 属性钩子类别
type HookKind uint8

const (
	HookGet HookKind = iota
	HookSet
)

// String 返回钩子类别名
func (k HookKind) String() string {
	if k == HookSet {
		return "set"
	}
	return "get"
}

// PropertyHook 属性钩子 (PHP 8.4)。三种体：Block、箭头 Expr，
// 两者皆 nil 表示抽象钩子（仅 ;）。
type PropertyHook struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Modifiers  Modifier          `json:"modifiers,omitempty"`
	ByRef      bool              `json:"byRef,omitempty"`
	Hook       HookKind          `json:"hook"`
	Params     []*Param          `json:"params,omitempty"` // 仅 set 可声明一个形参
	Block      *Block            `json:"block,omitempty"`
	Expr       Expression        `json:"expr,omitempty"`
}

// FunctionDecl 顶层函数声明
type FunctionDecl struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	ByRef      bool              `json:"byRef,omitempty"`
	Name       *Identifier       `json:"name"`
	Params     []*Param          `json:"params"`
	ReturnType TypeNode          `json:"returnType,omitempty"`
	Body       *Block            `json:"body"`
}

func (s *FunctionDecl) statementNode() {}

// ClassDecl 类声明
type ClassDecl struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Modifiers  Modifier          `json:"modifiers,omitempty"` // abstract/final/readonly
	Name       *Identifier       `json:"name"`
	Extends    *Name             `json:"extends,omitempty"`
	Implements []*Name           `json:"implements,omitempty"`
	Members    []ClassMember     `json:"members"`
}

func (s *ClassDecl) statementNode() {}

// InterfaceDecl 接口声明
type InterfaceDecl struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Name       *Identifier       `json:"name"`
	Extends    []*Name           `json:"extends,omitempty"`
	Members    []ClassMember     `json:"members"`
}

func (s *InterfaceDecl) statementNode() {}

// TraitDecl trait 声明
type TraitDecl struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Name       *Identifier       `json:"name"`
	Members    []ClassMember     `json:"members"`
}

func (s *TraitDecl) statementNode() {}

// EnumDecl 枚举声明。BackingType 非 nil 时是 backed enum。
type EnumDecl struct {
	BaseNode
	Attributes  []*AttributeGroup `json:"attributes,omitempty"`
	Name        *Identifier       `json:"name"`
	BackingType TypeNode          `json:"backingType,omitempty"`
	Implements  []*Name           `json:"implements,omitempty"`
	Members     []ClassMember     `json:"members"`
}

func (s *EnumDecl) statementNode() {}

// EnumCase 枚举成员；Value 非 nil 时是 backed case
type EnumCase struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Name       *Identifier       `json:"name"`
	Value      Expression        `json:"value,omitempty"`
}

func (m *EnumCase) classMemberNode() {}

// PropertyEntry 属性声明中的一个变量绑定
type PropertyEntry struct {
	BaseNode
	Var     *Variable  `json:"var"`
	Default Expression `json:"default,omitempty"`
}

// PropertyDecl 属性声明，可携带钩子列表
type PropertyDecl struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Modifiers  Modifier          `json:"modifiers,omitempty"`
	Type       TypeNode          `json:"type,omitempty"`
	Entries    []*PropertyEntry  `json:"entries"`
	Hooks      []*PropertyHook   `json:"hooks,omitempty"`
}

func (m *PropertyDecl) classMemberNode() {}

// MethodDecl 方法声明；Body 为 nil 表示抽象或接口方法
type MethodDecl struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Modifiers  Modifier          `json:"modifiers,omitempty"`
	ByRef      bool              `json:"byRef,omitempty"`
	Name       *Identifier       `json:"name"`
	Params     []*Param          `json:"params"`
	ReturnType TypeNode          `json:"returnType,omitempty"`
	Body       *Block            `json:"body,omitempty"`
}

func (m *MethodDecl) classMemberNode() {}

// ClassConstDecl 类常量声明
type ClassConstDecl struct {
	BaseNode
	Attributes []*AttributeGroup `json:"attributes,omitempty"`
	Modifiers  Modifier          `json:"modifiers,omitempty"`
	Type       TypeNode          `json:"type,omitempty"`
	Consts     []*ConstDecl      `json:"consts"`
}

func (m *ClassConstDecl) classMemberNode() {}

// TraitPrecedence insteadof 适配：A::m insteadof B, C
type TraitPrecedence struct {
	BaseNode
	Trait     *Name       `json:"trait"`
	Method    *Identifier `json:"method"`
	Insteadof []*Name     `json:"insteadof"`
}

// TraitAlias as 适配：A::m as protected n。Trait 可为 nil。
// NewModifier 为 0 表示未改可见性；NewName 可为 nil。
type TraitAlias struct {
	BaseNode
	Trait       *Name       `json:"trait,omitempty"`
	Method      *Identifier `json:"method"`
	NewModifier Modifier    `json:"newModifier,omitempty"`
	NewName     *Identifier `json:"newName,omitempty"`
}

// TraitUse 类体内的 use T1, T2 { ... }
type TraitUse struct {
	BaseNode
	Traits      []*Name `json:"traits"`
	Adaptations []Node  `json:"adaptations,omitempty"` // TraitPrecedence 或 TraitAlias
}

func (m *TraitUse) classMemberNode() {}

// ErrorMember 占位一段解析失败的类成员
type ErrorMember struct {
	BaseNode
}

func (m *ErrorMember) classMemberNode() {}
