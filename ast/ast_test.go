package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/php-parser/lexer"
	"github.com/wudi/php-parser/source"
)

func sampleTree() *Program {
	v := &Variable{BaseNode: Base(KindVariable, source.NewSpan(6, 8)), Name: []byte("$a")}
	lit := &IntLit{BaseNode: Base(KindIntLit, source.NewSpan(11, 12)), Raw: []byte("1"), Value: 1}
	assign := &Assign{
		BaseNode: Base(KindAssign, source.NewSpan(6, 12)),
		Op:       lexer.TOKEN_EQUAL,
		Var:      v,
		Value:    lit,
	}
	stmt := &ExpressionStmt{BaseNode: Base(KindExpressionStmt, source.NewSpan(6, 13)), Expr: assign}
	return &Program{
		BaseNode: Base(KindProgram, source.NewSpan(0, 13)),
		Body:     []Statement{stmt},
	}
}

func TestWalk_PreOrder(t *testing.T) {
	var kinds []Kind
	Walk(sampleTree(), VisitorFunc(func(n Node) bool {
		kinds = append(kinds, n.GetKind())
		return true
	}))
	assert.Equal(t, []Kind{
		KindProgram, KindExpressionStmt, KindAssign, KindVariable, KindIntLit,
	}, kinds)
}

func TestWalk_Prune(t *testing.T) {
	var kinds []Kind
	Walk(sampleTree(), VisitorFunc(func(n Node) bool {
		kinds = append(kinds, n.GetKind())
		return n.GetKind() != KindAssign
	}))
	assert.Equal(t, []Kind{KindProgram, KindExpressionStmt, KindAssign}, kinds)
}

func TestDump_Shape(t *testing.T) {
	out := Dump(sampleTree())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Program [0, 13)", lines[0])
	assert.Equal(t, "  ExpressionStmt [6, 13)", lines[1])
	assert.Equal(t, "    Assign(=) [6, 12)", lines[2])
	assert.Equal(t, "      Variable($a) [6, 8)", lines[3])
	assert.Equal(t, "      IntLit(1) [11, 12)", lines[4])
}

func TestModifier_String(t *testing.T) {
	m := ModPublic | ModPrivateSet | ModReadonly
	assert.Equal(t, "public private(set) readonly", m.String())
	assert.True(t, m.Has(ModPublic))
	assert.False(t, m.Has(ModStatic))
}

func TestKind_Names(t *testing.T) {
	assert.Equal(t, "PropertyHook", KindPropertyHook.String())
	assert.Equal(t, "Unknown", Kind(9999).String())
}

func TestMagicKind_Names(t *testing.T) {
	assert.Equal(t, "Property", MagicProperty.String())
	assert.Equal(t, "Line", MagicLine.String())
}

func TestHookKind_Names(t *testing.T) {
	assert.Equal(t, "get", HookGet.String())
	assert.Equal(t, "set", HookSet.String())
}
