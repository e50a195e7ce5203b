package ast

import (
	"fmt"
	"strings"
)

// Dump 渲染以 node 为根的子树的稳定文本形式。字段顺序与字面量
// 渲染在版本间保持确定，快照测试依赖逐字节一致的输出。
func Dump(node Node) string {
	var b strings.Builder
	dumpNode(&b, node, 0)
	return b.String()
}

func dumpNode(b *strings.Builder, n Node, depth int) {
	if n == nil {
		return
	}
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteString(n.GetKind().String())
	if d := nodeDetail(n); d != "" {
		b.WriteString("(")
		b.WriteString(d)
		b.WriteString(")")
	}
	fmt.Fprintf(b, " %s\n", n.GetSpan())
	for _, c := range Children(n) {
		dumpNode(b, c, depth+1)
	}
}

// nodeDetail 返回节点头部括号内的细节字段，顺序固定
func nodeDetail(n Node) string {
	switch x := n.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", x.Value)
	case *FloatLit:
		return fmt.Sprintf("%g", x.Value)
	case *StringLit:
		return fmt.Sprintf("%q", x.Raw)
	case *StringFragment:
		return fmt.Sprintf("%q", x.Raw)
	case *BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *Variable:
		return string(x.Name)
	case *Name:
		if x.NameKind == NameUnqualified {
			return string(x.Value)
		}
		return string(x.Value) + ", " + x.NameKind.String()
	case *Identifier:
		return string(x.Value)
	case *MagicConst:
		return x.Magic.String()
	case *Unary:
		if x.Postfix {
			return x.Op.String() + ", postfix"
		}
		return x.Op.String()
	case *Binary:
		return x.Op.String()
	case *Assign:
		s := x.Op.String()
		if x.ByRef {
			s += ", byref"
		}
		return s
	case *Cast:
		return x.CastType.String()
	case *Include:
		return x.Op.String()
	case *Call:
		if x.FirstClass {
			return "first-class"
		}
	case *MethodCall:
		return joinFlags(flag(x.Nullsafe, "nullsafe"), flag(x.FirstClass, "first-class"))
	case *StaticCall:
		if x.FirstClass {
			return "first-class"
		}
	case *PropertyFetch:
		if x.Nullsafe {
			return "nullsafe"
		}
	case *ArrayItem:
		return joinFlags(flag(x.ByRef, "byref"), flag(x.Spread, "spread"))
	case *ClosureUse:
		if x.ByRef {
			return "byref"
		}
	case *Closure:
		return joinFlags(flag(x.Static, "static"), flag(x.ByRef, "byref"))
	case *ArrowFn:
		return joinFlags(flag(x.Static, "static"), flag(x.ByRef, "byref"))
	case *MatchArm:
		if x.Conds == nil {
			return "default"
		}
	case *InlineHTML:
		return fmt.Sprintf("%d bytes", len(x.Raw))
	case *HaltCompiler:
		return fmt.Sprintf("%d bytes", len(x.Remaining))
	case *If:
		if x.Alt {
			return "alt"
		}
	case *While:
		if x.Alt {
			return "alt"
		}
	case *For:
		if x.Alt {
			return "alt"
		}
	case *Foreach:
		return joinFlags(flag(x.ByRef, "byref"), flag(x.Alt, "alt"))
	case *Switch:
		if x.Alt {
			return "alt"
		}
	case *SwitchCase:
		if x.Cond == nil {
			return "default"
		}
	case *Declare:
		if x.Alt {
			return "alt"
		}
	case *Use:
		return x.UseKind.String()
	case *UseClause:
		return x.UseKind.String()
	case *FunctionDecl:
		if x.ByRef {
			return "byref"
		}
	case *ClassDecl:
		return x.Modifiers.String()
	case *EnumDecl:
		if x.BackingType != nil {
			return "backed"
		}
	case *PropertyDecl:
		return x.Modifiers.String()
	case *MethodDecl:
		return joinFlags(x.Modifiers.String(), flag(x.ByRef, "byref"))
	case *ClassConstDecl:
		return x.Modifiers.String()
	case *TraitAlias:
		if x.NewModifier != 0 {
			return x.NewModifier.String()
		}
	case *Param:
		return joinFlags(x.Modifiers.String(), flag(x.ByRef, "byref"), flag(x.Variadic, "variadic"))
	case *PropertyHook:
		return joinFlags(x.Hook.String(), x.Modifiers.String(), flag(x.ByRef, "byref"))
	case *Arg:
		if x.Spread {
			return "spread"
		}
	}
	return ""
}

func flag(on bool, name string) string {
	if on {
		return name
	}
	return ""
}

func joinFlags(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
