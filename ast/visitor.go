package ast

// Visitor 在 Walk 前序遍历中访问节点；返回 false 跳过子树
type Visitor interface {
	Visit(node Node) bool
}

// VisitorFunc 使普通函数可以作为 Visitor 使用
type VisitorFunc func(node Node) bool

// Visit 调用函数本身
func (f VisitorFunc) Visit(node Node) bool { return f(node) }

// Walk 前序遍历以 node 为根的子树
func Walk(node Node, v Visitor) {
	if node == nil || !v.Visit(node) {
		return
	}
	for _, c := range Children(node) {
		Walk(c, v)
	}
}

func appendNode(dst []Node, n Node) []Node {
	switch x := n.(type) {
	case nil:
		return dst
	case *Identifier:
		if x == nil {
			return dst
		}
	case *Name:
		if x == nil {
			return dst
		}
	case *Variable:
		if x == nil {
			return dst
		}
	case *Block:
		if x == nil {
			return dst
		}
	}
	return append(dst, n)
}

func appendExpr(dst []Node, e Expression) []Node {
	if e == nil {
		return dst
	}
	return append(dst, e)
}

func appendStmt(dst []Node, s Statement) []Node {
	if s == nil {
		return dst
	}
	return append(dst, s)
}

func appendType(dst []Node, t TypeNode) []Node {
	if t == nil {
		return dst
	}
	return append(dst, t)
}

func appendAttrs(dst []Node, groups []*AttributeGroup) []Node {
	for _, g := range groups {
		dst = append(dst, g)
	}
	return dst
}

func appendParams(dst []Node, params []*Param) []Node {
	for _, p := range params {
		dst = append(dst, p)
	}
	return dst
}

func appendArgs(dst []Node, args []*Arg) []Node {
	for _, a := range args {
		dst = append(dst, a)
	}
	return dst
}

func appendHooks(dst []Node, hooks []*PropertyHook) []Node {
	for _, h := range hooks {
		dst = append(dst, h)
	}
	return dst
}

// Children 按源顺序返回节点的直接子节点
func Children(n Node) []Node {
	var out []Node
	switch x := n.(type) {
	case *Program:
		for _, s := range x.Body {
			out = appendStmt(out, s)
		}

	// ============= 表达式 =============
	case *InterpString:
		for _, p := range x.Parts {
			out = appendExpr(out, p)
		}
	case *ShellExec:
		for _, p := range x.Parts {
			out = appendExpr(out, p)
		}
	case *VariableVariable:
		out = appendExpr(out, x.Inner)
	case *Unary:
		out = appendExpr(out, x.Operand)
	case *Binary:
		out = appendExpr(out, x.Left)
		out = appendExpr(out, x.Right)
	case *Assign:
		out = appendExpr(out, x.Var)
		out = appendExpr(out, x.Value)
	case *Ternary:
		out = appendExpr(out, x.Cond)
		out = appendExpr(out, x.Then)
		out = appendExpr(out, x.Else)
	case *Arg:
		out = appendNode(out, x.Name)
		out = appendExpr(out, x.Value)
	case *Call:
		out = appendExpr(out, x.Callee)
		out = appendArgs(out, x.Args)
	case *MethodCall:
		out = appendExpr(out, x.Object)
		out = appendNode(out, x.Method)
		out = appendArgs(out, x.Args)
	case *StaticCall:
		out = appendNode(out, x.Class)
		out = appendNode(out, x.Method)
		out = appendArgs(out, x.Args)
	case *PropertyFetch:
		out = appendExpr(out, x.Object)
		out = appendNode(out, x.Property)
	case *StaticPropertyFetch:
		out = appendNode(out, x.Class)
		out = appendNode(out, x.Property)
	case *ClassConstFetch:
		out = appendNode(out, x.Class)
		out = appendNode(out, x.Const)
	case *ArrayDim:
		out = appendExpr(out, x.Var)
		out = appendExpr(out, x.Dim)
	case *ArrayItem:
		out = appendExpr(out, x.Key)
		out = appendExpr(out, x.Value)
	case *Array:
		for _, it := range x.Items {
			out = append(out, it)
		}
	case *List:
		for _, it := range x.Items {
			out = append(out, it)
		}
	case *ClosureUse:
		out = appendNode(out, x.Var)
	case *Closure:
		out = appendAttrs(out, x.Attributes)
		out = appendParams(out, x.Params)
		for _, u := range x.Uses {
			out = append(out, u)
		}
		out = appendType(out, x.ReturnType)
		out = appendNode(out, x.Body)
	case *ArrowFn:
		out = appendAttrs(out, x.Attributes)
		out = appendParams(out, x.Params)
		out = appendType(out, x.ReturnType)
		out = appendExpr(out, x.Body)
	case *MatchArm:
		for _, c := range x.Conds {
			out = appendExpr(out, c)
		}
		out = appendExpr(out, x.Body)
	case *Match:
		out = appendExpr(out, x.Subject)
		for _, a := range x.Arms {
			out = append(out, a)
		}
	case *New:
		out = appendNode(out, x.Class)
		out = appendArgs(out, x.Args)
	case *AnonClass:
		out = appendAttrs(out, x.Attributes)
		out = appendArgs(out, x.Args)
		out = appendNode(out, x.Extends)
		for _, im := range x.Implements {
			out = appendNode(out, im)
		}
		for _, m := range x.Members {
			out = append(out, m)
		}
	case *Clone:
		out = appendExpr(out, x.Operand)
		out = appendArgs(out, x.Args)
	case *Cast:
		out = appendExpr(out, x.Operand)
	case *Yield:
		out = appendExpr(out, x.Key)
		out = appendExpr(out, x.Value)
	case *YieldFrom:
		out = appendExpr(out, x.Operand)
	case *Throw:
		out = appendExpr(out, x.Operand)
	case *Isset:
		for _, v := range x.Vars {
			out = appendExpr(out, v)
		}
	case *Empty:
		out = appendExpr(out, x.Operand)
	case *Exit:
		out = appendExpr(out, x.Operand)
	case *Eval:
		out = appendExpr(out, x.Operand)
	case *Include:
		out = appendExpr(out, x.Operand)
	case *Print:
		out = appendExpr(out, x.Operand)

	// ============= 语句 =============
	case *Block:
		for _, s := range x.Stmts {
			out = appendStmt(out, s)
		}
	case *ExpressionStmt:
		out = appendExpr(out, x.Expr)
	case *Echo:
		for _, e := range x.Exprs {
			out = appendExpr(out, e)
		}
	case *If:
		out = appendExpr(out, x.Cond)
		out = appendStmt(out, x.Then)
		out = appendStmt(out, x.Else)
	case *While:
		out = appendExpr(out, x.Cond)
		out = appendStmt(out, x.Body)
	case *DoWhile:
		out = appendStmt(out, x.Body)
		out = appendExpr(out, x.Cond)
	case *For:
		for _, e := range x.Init {
			out = appendExpr(out, e)
		}
		for _, e := range x.Cond {
			out = appendExpr(out, e)
		}
		for _, e := range x.Loop {
			out = appendExpr(out, e)
		}
		out = appendStmt(out, x.Body)
	case *Foreach:
		out = appendExpr(out, x.Subject)
		out = appendExpr(out, x.KeyVar)
		out = appendExpr(out, x.ValueVar)
		out = appendStmt(out, x.Body)
	case *SwitchCase:
		out = appendExpr(out, x.Cond)
		for _, s := range x.Stmts {
			out = appendStmt(out, s)
		}
	case *Switch:
		out = appendExpr(out, x.Subject)
		for _, c := range x.Cases {
			out = append(out, c)
		}
	case *Catch:
		for _, t := range x.Types {
			out = appendNode(out, t)
		}
		out = appendNode(out, x.Var)
		out = appendNode(out, x.Body)
	case *Try:
		out = appendNode(out, x.Body)
		for _, c := range x.Catches {
			out = append(out, c)
		}
		out = appendNode(out, x.Finally)
	case *Return:
		out = appendExpr(out, x.Value)
	case *Break:
		out = appendExpr(out, x.Level)
	case *Continue:
		out = appendExpr(out, x.Level)
	case *Goto:
		out = appendNode(out, x.Label)
	case *Label:
		out = appendNode(out, x.Name)
	case *Global:
		for _, v := range x.Vars {
			out = appendExpr(out, v)
		}
	case *StaticVar:
		out = appendNode(out, x.Var)
		out = appendExpr(out, x.Default)
	case *StaticStmt:
		for _, v := range x.Vars {
			out = append(out, v)
		}
	case *Unset:
		for _, v := range x.Vars {
			out = appendExpr(out, v)
		}
	case *DeclareDirective:
		out = appendNode(out, x.Name)
		out = appendExpr(out, x.Value)
	case *Declare:
		for _, d := range x.Directives {
			out = append(out, d)
		}
		out = appendStmt(out, x.Body)
	case *Namespace:
		out = appendNode(out, x.Name)
		out = appendNode(out, x.Body)
	case *UseClause:
		out = appendNode(out, x.Name)
		out = appendNode(out, x.Alias)
	case *Use:
		out = appendNode(out, x.Prefix)
		for _, c := range x.Clauses {
			out = append(out, c)
		}
	case *ConstDecl:
		out = appendNode(out, x.Name)
		out = appendExpr(out, x.Value)
	case *ConstStmt:
		for _, c := range x.Consts {
			out = append(out, c)
		}

	// ============= 声明 =============
	case *Attribute:
		out = appendNode(out, x.Name)
		out = appendArgs(out, x.Args)
	case *AttributeGroup:
		for _, a := range x.Attrs {
			out = append(out, a)
		}
	case *Param:
		out = appendAttrs(out, x.Attributes)
		out = appendType(out, x.Type)
		out = appendNode(out, x.Var)
		out = appendExpr(out, x.Default)
		out = appendHooks(out, x.Hooks)
	case *PropertyHook:
		out = appendAttrs(out, x.Attributes)
		out = appendParams(out, x.Params)
		out = appendNode(out, x.Block)
		out = appendExpr(out, x.Expr)
	case *FunctionDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendNode(out, x.Name)
		out = appendParams(out, x.Params)
		out = appendType(out, x.ReturnType)
		out = appendNode(out, x.Body)
	case *ClassDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendNode(out, x.Name)
		out = appendNode(out, x.Extends)
		for _, im := range x.Implements {
			out = appendNode(out, im)
		}
		for _, m := range x.Members {
			out = append(out, m)
		}
	case *InterfaceDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendNode(out, x.Name)
		for _, e := range x.Extends {
			out = appendNode(out, e)
		}
		for _, m := range x.Members {
			out = append(out, m)
		}
	case *TraitDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendNode(out, x.Name)
		for _, m := range x.Members {
			out = append(out, m)
		}
	case *EnumDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendNode(out, x.Name)
		out = appendType(out, x.BackingType)
		for _, im := range x.Implements {
			out = appendNode(out, im)
		}
		for _, m := range x.Members {
			out = append(out, m)
		}
	case *EnumCase:
		out = appendAttrs(out, x.Attributes)
		out = appendNode(out, x.Name)
		out = appendExpr(out, x.Value)
	case *PropertyEntry:
		out = appendNode(out, x.Var)
		out = appendExpr(out, x.Default)
	case *PropertyDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendType(out, x.Type)
		for _, e := range x.Entries {
			out = append(out, e)
		}
		out = appendHooks(out, x.Hooks)
	case *MethodDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendNode(out, x.Name)
		out = appendParams(out, x.Params)
		out = appendType(out, x.ReturnType)
		out = appendNode(out, x.Body)
	case *ClassConstDecl:
		out = appendAttrs(out, x.Attributes)
		out = appendType(out, x.Type)
		for _, c := range x.Consts {
			out = append(out, c)
		}
	case *TraitPrecedence:
		out = appendNode(out, x.Trait)
		out = appendNode(out, x.Method)
		for _, n := range x.Insteadof {
			out = appendNode(out, n)
		}
	case *TraitAlias:
		out = appendNode(out, x.Trait)
		out = appendNode(out, x.Method)
		out = appendNode(out, x.NewName)
	case *TraitUse:
		for _, t := range x.Traits {
			out = appendNode(out, t)
		}
		for _, a := range x.Adaptations {
			out = appendNode(out, a)
		}

	// ============= 类型 =============
	case *NamedType:
		out = appendNode(out, x.Name)
	case *NullableType:
		out = appendType(out, x.Inner)
	case *UnionType:
		for _, t := range x.Types {
			out = appendType(out, t)
		}
	case *IntersectionType:
		for _, t := range x.Types {
			out = appendType(out, t)
		}
	}
	return out
}
