package ast

// Kind 标识 AST 节点类别。值按声明顺序分配：新增类别追加在末尾的
// 追加段，已发布的值不再变动。
type Kind uint16

const (
	KindUnknown Kind = iota

	// 根
	KindProgram

	// 表达式
	KindErrorExpr
	KindIntLit
	KindFloatLit
	KindStringLit
	KindInterpString
	KindStringFragment
	KindShellExec
	KindBoolLit
	KindNullLit
	KindVariable
	KindVariableVariable
	KindName
	KindIdentifier
	KindMagicConst
	KindUnary
	KindBinary
	KindAssign
	KindTernary
	KindCall
	KindMethodCall
	KindStaticCall
	KindPropertyFetch
	KindStaticPropertyFetch
	KindClassConstFetch
	KindArrayDim
	KindArray
	KindArrayItem
	KindList
	KindClosure
	KindClosureUse
	KindArrowFn
	KindMatch
	KindMatchArm
	KindNew
	KindAnonClass
	KindClone
	KindCast
	KindYield
	KindYieldFrom
	KindThrow
	KindIsset
	KindEmpty
	KindExit
	KindEval
	KindInclude
	KindPrint

	// 语句
	KindErrorStmt
	KindBlock
	KindExpressionStmt
	KindEcho
	KindInlineHTML
	KindIf
	KindWhile
	KindDoWhile
	KindFor
	KindForeach
	KindSwitch
	KindSwitchCase
	KindTry
	KindCatch
	KindReturn
	KindBreak
	KindContinue
	KindGoto
	KindLabel
	KindGlobal
	KindStaticStmt
	KindStaticVar
	KindUnset
	KindDeclare
	KindDeclareDirective
	KindHaltCompiler
	KindNamespace
	KindUse
	KindUseClause
	KindConstStmt
	KindConstDecl

	// 声明
	KindFunctionDecl
	KindClassDecl
	KindInterfaceDecl
	KindTraitDecl
	KindEnumDecl
	KindEnumCase
	KindPropertyDecl
	KindPropertyEntry
	KindPropertyHook
	KindMethodDecl
	KindClassConstDecl
	KindTraitUse
	KindTraitPrecedence
	KindTraitAlias
	KindParam
	KindArg
	KindAttribute
	KindAttributeGroup

	// 类型
	KindNamedType
	KindNullableType
	KindUnionType
	KindIntersectionType

	// 追加段：保持既有值稳定
	KindErrorMember
)

// kindNames 提供 Kind 到名称的映射
var kindNames = map[Kind]string{
	KindUnknown:             "Unknown",
	KindProgram:             "Program",
	KindErrorExpr:           "ErrorExpr",
	KindIntLit:              "IntLit",
	KindFloatLit:            "FloatLit",
	KindStringLit:           "StringLit",
	KindInterpString:        "InterpString",
	KindStringFragment:      "StringFragment",
	KindShellExec:           "ShellExec",
	KindBoolLit:             "BoolLit",
	KindNullLit:             "NullLit",
	KindVariable:            "Variable",
	KindVariableVariable:    "VariableVariable",
	KindName:                "Name",
	KindIdentifier:          "Identifier",
	KindMagicConst:          "MagicConst",
	KindUnary:               "Unary",
	KindBinary:              "Binary",
	KindAssign:              "Assign",
	KindTernary:             "Ternary",
	KindCall:                "Call",
	KindMethodCall:          "MethodCall",
	KindStaticCall:          "StaticCall",
	KindPropertyFetch:       "PropertyFetch",
	KindStaticPropertyFetch: "StaticPropertyFetch",
	KindClassConstFetch:     "ClassConstFetch",
	KindArrayDim:            "ArrayDim",
	KindArray:               "Array",
	KindArrayItem:           "ArrayItem",
	KindList:                "List",
	KindClosure:             "Closure",
	KindClosureUse:          "ClosureUse",
	KindArrowFn:             "ArrowFn",
	KindMatch:               "Match",
	KindMatchArm:            "MatchArm",
	KindNew:                 "New",
	KindAnonClass:           "AnonClass",
	KindClone:               "Clone",
	KindCast:                "Cast",
	KindYield:               "Yield",
	KindYieldFrom:           "YieldFrom",
	KindThrow:               "Throw",
	KindIsset:               "Isset",
	KindEmpty:               "Empty",
	KindExit:                "Exit",
	KindEval:                "Eval",
	KindInclude:             "Include",
	KindPrint:               "Print",
	KindErrorStmt:           "ErrorStmt",
	KindBlock:               "Block",
	KindExpressionStmt:      "ExpressionStmt",
	KindEcho:                "Echo",
	KindInlineHTML:          "InlineHTML",
	KindIf:                  "If",
	KindWhile:               "While",
	KindDoWhile:             "DoWhile",
	KindFor:                 "For",
	KindForeach:             "Foreach",
	KindSwitch:              "Switch",
	KindSwitchCase:          "SwitchCase",
	KindTry:                 "Try",
	KindCatch:               "Catch",
	KindReturn:              "Return",
	KindBreak:               "Break",
	KindContinue:            "Continue",
	KindGoto:                "Goto",
	KindLabel:               "Label",
	KindGlobal:              "Global",
	KindStaticStmt:          "StaticStmt",
	KindStaticVar:           "StaticVar",
	KindUnset:               "Unset",
	KindDeclare:             "Declare",
	KindDeclareDirective:    "DeclareDirective",
	KindHaltCompiler:        "HaltCompiler",
	KindNamespace:           "Namespace",
	KindUse:                 "Use",
	KindUseClause:           "UseClause",
	KindConstStmt:           "ConstStmt",
	KindConstDecl:           "ConstDecl",
	KindFunctionDecl:        "FunctionDecl",
	KindClassDecl:           "ClassDecl",
	KindInterfaceDecl:       "InterfaceDecl",
	KindTraitDecl:           "TraitDecl",
	KindEnumDecl:            "EnumDecl",
	KindEnumCase:            "EnumCase",
	KindPropertyDecl:        "PropertyDecl",
	KindPropertyEntry:       "PropertyEntry",
	KindPropertyHook:        "PropertyHook",
	KindMethodDecl:          "MethodDecl",
	KindClassConstDecl:      "ClassConstDecl",
	KindTraitUse:            "TraitUse",
	KindTraitPrecedence:     "TraitPrecedence",
	KindTraitAlias:          "TraitAlias",
	KindParam:               "Param",
	KindArg:                 "Arg",
	KindAttribute:           "Attribute",
	KindAttributeGroup:      "AttributeGroup",
	KindNamedType:           "NamedType",
	KindNullableType:        "NullableType",
	KindUnionType:           "UnionType",
	KindIntersectionType:    "IntersectionType",
	KindErrorMember:         "ErrorMember",
}

// String 返回 Kind 的字符串表示
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
