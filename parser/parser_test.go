package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
	"github.com/wudi/php-parser/source"
)

func parseSource(t *testing.T, input string) (*ast.Program, *errors.DiagnosticList) {
	t.Helper()
	src := source.New("test.php", []byte(input))
	program, diags := Parse(src, arena.NewArena())
	require.NotNil(t, program)
	return program, diags
}

func firstStmt(t *testing.T, program *ast.Program) ast.Statement {
	t.Helper()
	require.NotEmpty(t, program.Body)
	return program.Body[0]
}

func exprOf(t *testing.T, s ast.Statement) ast.Expression {
	t.Helper()
	es, ok := s.(*ast.ExpressionStmt)
	require.True(t, ok, "expected expression statement, got %T", s)
	return es.Expr
}

func TestParsing_AsymmetricVisibilityWithHook(t *testing.T) {
	input := `<?php class C { public private(set) int $x { get => $this->y; } }`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	class, ok := firstStmt(t, program).(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "C", string(class.Name.Value))
	require.Len(t, class.Members, 1)

	prop, ok := class.Members[0].(*ast.PropertyDecl)
	require.True(t, ok)
	assert.True(t, prop.Modifiers.Has(ast.ModPublic))
	assert.True(t, prop.Modifiers.Has(ast.ModPrivateSet))
	require.Len(t, prop.Entries, 1)
	assert.Equal(t, "$x", string(prop.Entries[0].Var.Name))

	named, ok := prop.Type.(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "int", string(named.Name.Value))

	require.Len(t, prop.Hooks, 1)
	hook := prop.Hooks[0]
	assert.Equal(t, ast.HookGet, hook.Hook)
	require.NotNil(t, hook.Expr)
	fetch, ok := hook.Expr.(*ast.PropertyFetch)
	require.True(t, ok)
	obj, ok := fetch.Object.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "$this", string(obj.Name))
}

func TestParsing_MagicPropertyInsideHook(t *testing.T) {
	input := `<?php class C { public int $x { get => __PROPERTY__; } }`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	class := firstStmt(t, program).(*ast.ClassDecl)
	prop := class.Members[0].(*ast.PropertyDecl)
	require.Len(t, prop.Hooks, 1)
	magic, ok := prop.Hooks[0].Expr.(*ast.MagicConst)
	require.True(t, ok)
	assert.Equal(t, ast.MagicProperty, magic.Magic)
}

func TestParsing_RecoveryAcrossStatements(t *testing.T) {
	input := `<?php $a = 1 + ; $b = 2;`
	program, diags := parseSource(t, input)
	require.Len(t, program.Body, 2)
	assert.Equal(t, 1, diags.Len(), "diagnostics: %s", diags)

	first, ok := exprOf(t, program.Body[0]).(*ast.Assign)
	require.True(t, ok)
	bin, ok := first.Value.(*ast.Binary)
	require.True(t, ok)
	_, isErr := bin.Right.(*ast.ErrorExpr)
	assert.True(t, isErr, "rhs of + should be an error expression, got %T", bin.Right)

	// 诊断落在 ; 的位置
	semiOffset := uint32(15)
	assert.Equal(t, semiOffset, diags.Items()[0].Span.Start)

	second, ok := exprOf(t, program.Body[1]).(*ast.Assign)
	require.True(t, ok)
	v := second.Var.(*ast.Variable)
	assert.Equal(t, "$b", string(v.Name))
	lit := second.Value.(*ast.IntLit)
	assert.Equal(t, int64(2), lit.Value)
}

func TestParsing_MatchTrailingCommaAndDefault(t *testing.T) {
	input := `<?php $r = match($x) { 1, 2 => 'a', default => 'b', };`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	assign := exprOf(t, firstStmt(t, program)).(*ast.Assign)
	m, ok := assign.Value.(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	assert.Len(t, m.Arms[0].Conds, 2)
	assert.Nil(t, m.Arms[1].Conds, "second arm is default")
}

func TestParsing_HeredocInterpolationWithIndent(t *testing.T) {
	raw := "<?php $s = <<<EOT\n    Hello, {$name}!\n    EOT;"
	program, diags := parseSource(t, raw)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	assign := exprOf(t, firstStmt(t, program)).(*ast.Assign)
	interp, ok := assign.Value.(*ast.InterpString)
	require.True(t, ok, "expected interpolated string, got %T", assign.Value)
	require.Len(t, interp.Parts, 3)

	frag1, ok := interp.Parts[0].(*ast.StringFragment)
	require.True(t, ok)
	assert.Equal(t, "Hello, ", string(frag1.Raw))

	v, ok := interp.Parts[1].(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "$name", string(v.Name))

	frag2, ok := interp.Parts[2].(*ast.StringFragment)
	require.True(t, ok)
	assert.Equal(t, "!", string(frag2.Raw))
}

func TestParsing_PipeOperatorLeftAssociative(t *testing.T) {
	input := `<?php $r = $x |> f(...) |> g(...);`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	assign := exprOf(t, firstStmt(t, program)).(*ast.Assign)
	outer, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, lexer.T_PIPE, outer.Op)

	inner, ok := outer.Left.(*ast.Binary)
	require.True(t, ok, "left operand of outer pipe should be a pipe, got %T", outer.Left)
	assert.Equal(t, lexer.T_PIPE, inner.Op)

	right, ok := outer.Right.(*ast.Call)
	require.True(t, ok)
	assert.True(t, right.FirstClass)
	name := right.Callee.(*ast.Name)
	assert.Equal(t, "g", string(name.Value))
}

func TestParsing_OperatorPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, e ast.Expression)
	}{
		{
			name:  "multiplication binds tighter than addition",
			input: `<?php 1 + 2 * 3;`,
			expected: func(t *testing.T, e ast.Expression) {
				b := e.(*ast.Binary)
				assert.Equal(t, lexer.TOKEN_PLUS, b.Op)
				right := b.Right.(*ast.Binary)
				assert.Equal(t, lexer.TOKEN_MULTIPLY, right.Op)
			},
		},
		{
			name:  "power is right associative",
			input: `<?php 2 ** 3 ** 2;`,
			expected: func(t *testing.T, e ast.Expression) {
				b := e.(*ast.Binary)
				assert.Equal(t, lexer.T_POW, b.Op)
				right := b.Right.(*ast.Binary)
				assert.Equal(t, lexer.T_POW, right.Op)
			},
		},
		{
			name:  "assignment is right associative",
			input: `<?php $a = $b = 1;`,
			expected: func(t *testing.T, e ast.Expression) {
				a := e.(*ast.Assign)
				inner := a.Value.(*ast.Assign)
				lit := inner.Value.(*ast.IntLit)
				assert.Equal(t, int64(1), lit.Value)
			},
		},
		{
			name:  "coalesce binds tighter than ternary",
			input: `<?php $a ?? $b ? $c : $d;`,
			expected: func(t *testing.T, e ast.Expression) {
				tern := e.(*ast.Ternary)
				cond := tern.Cond.(*ast.Binary)
				assert.Equal(t, lexer.T_COALESCE, cond.Op)
			},
		},
		{
			name:  "concat binds tighter than pipe",
			input: `<?php $a . $b |> strlen(...);`,
			expected: func(t *testing.T, e ast.Expression) {
				pipe := e.(*ast.Binary)
				assert.Equal(t, lexer.T_PIPE, pipe.Op)
				left := pipe.Left.(*ast.Binary)
				assert.Equal(t, lexer.TOKEN_DOT, left.Op)
			},
		},
		{
			name:  "instanceof binds tighter than negation",
			input: `<?php !$a instanceof Foo;`,
			expected: func(t *testing.T, e ast.Expression) {
				u := e.(*ast.Unary)
				assert.Equal(t, lexer.TOKEN_EXCLAMATION, u.Op)
				b := u.Operand.(*ast.Binary)
				assert.Equal(t, lexer.T_INSTANCEOF, b.Op)
			},
		},
		{
			name:  "short ternary collapses left",
			input: `<?php $a ?: $b;`,
			expected: func(t *testing.T, e ast.Expression) {
				tern := e.(*ast.Ternary)
				assert.Nil(t, tern.Then)
				require.NotNil(t, tern.Else)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := parseSource(t, tt.input)
			assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
			tt.expected(t, exprOf(t, firstStmt(t, program)))
		})
	}
}

func TestParsing_NestedTernaryDiagnostic(t *testing.T) {
	program, diags := parseSource(t, `<?php $x = $a ? $b : $c ? $d : $e;`)
	require.Len(t, program.Body, 1)
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, errors.CodeNestedTernary, diags.Items()[0].Code)

	// 括号消除诊断
	_, diags = parseSource(t, `<?php $x = $a ? $b : ($c ? $d : $e);`)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
}

func TestParsing_CloneForms(t *testing.T) {
	program, diags := parseSource(t, `<?php $a = clone $b; $c = clone($d);`)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
	require.Len(t, program.Body, 2)

	bare := exprOf(t, program.Body[0]).(*ast.Assign).Value.(*ast.Clone)
	assert.NotNil(t, bare.Operand)
	assert.Nil(t, bare.Args)

	called := exprOf(t, program.Body[1]).(*ast.Assign).Value.(*ast.Clone)
	assert.Nil(t, called.Operand)
	require.Len(t, called.Args, 1)
}

func TestParsing_CloneNamedArgumentDiagnostic(t *testing.T) {
	_, diags := parseSource(t, `<?php $a = clone(object: $b);`)
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, errors.CodeNamedArgumentInClone, diags.Items()[0].Code)
}

func TestParsing_InterpolatedStringForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, parts []ast.Expression)
	}{
		{
			name:  "simple variable",
			input: `<?php $s = "a $b c";`,
			expected: func(t *testing.T, parts []ast.Expression) {
				require.Len(t, parts, 3)
				_, ok := parts[1].(*ast.Variable)
				assert.True(t, ok)
			},
		},
		{
			name:  "array offset",
			input: `<?php $s = "x $a[0] y";`,
			expected: func(t *testing.T, parts []ast.Expression) {
				require.Len(t, parts, 3)
				dim, ok := parts[1].(*ast.ArrayDim)
				require.True(t, ok)
				lit := dim.Dim.(*ast.IntLit)
				assert.Equal(t, int64(0), lit.Value)
			},
		},
		{
			name:  "property access",
			input: `<?php $s = "x $a->b y";`,
			expected: func(t *testing.T, parts []ast.Expression) {
				require.Len(t, parts, 3)
				_, ok := parts[1].(*ast.PropertyFetch)
				assert.True(t, ok)
			},
		},
		{
			name:  "curly expression",
			input: `<?php $s = "x {$a->b()} y";`,
			expected: func(t *testing.T, parts []ast.Expression) {
				require.Len(t, parts, 3)
				_, ok := parts[1].(*ast.MethodCall)
				assert.True(t, ok)
			},
		},
		{
			name:  "dollar curly varname",
			input: `<?php $s = "x ${a} y";`,
			expected: func(t *testing.T, parts []ast.Expression) {
				require.Len(t, parts, 3)
				v, ok := parts[1].(*ast.Variable)
				require.True(t, ok)
				assert.Equal(t, "a", string(v.Name))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := parseSource(t, tt.input)
			assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
			interp, ok := exprOf(t, firstStmt(t, program)).(*ast.Assign).Value.(*ast.InterpString)
			require.True(t, ok)
			tt.expected(t, interp.Parts)
		})
	}
}

func TestParsing_PlainDoubleQuotedIsConstant(t *testing.T) {
	program, diags := parseSource(t, `<?php $s = "no interpolation";`)
	assert.Equal(t, 0, diags.Len())
	_, ok := exprOf(t, firstStmt(t, program)).(*ast.Assign).Value.(*ast.StringLit)
	assert.True(t, ok)
}

func TestParsing_NewWithVariableClass(t *testing.T) {
	program, diags := parseSource(t, `<?php $o = new $class(1, 2); $p = new $factory->cls();`)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	n1 := exprOf(t, program.Body[0]).(*ast.Assign).Value.(*ast.New)
	_, ok := n1.Class.(*ast.Variable)
	require.True(t, ok, "class ref is the variable, got %T", n1.Class)
	assert.Len(t, n1.Args, 2, "constructor arguments belong to new")

	n2 := exprOf(t, program.Body[1]).(*ast.Assign).Value.(*ast.New)
	_, ok = n2.Class.(*ast.PropertyFetch)
	require.True(t, ok)
	assert.Empty(t, n2.Args)
}

func TestParsing_ProgramSpanCoversFile(t *testing.T) {
	input := `<?php $a = 1; $b = 2;`
	program, _ := parseSource(t, input)
	assert.Equal(t, uint32(0), program.Span.Start)
	assert.Equal(t, uint32(len(input)), program.Span.End)
}

func TestParsing_DumpIsDeterministic(t *testing.T) {
	input := `<?php class C { public function f(int $x = 3): static { return $this; } }`
	p1, _ := parseSource(t, input)
	p2, _ := parseSource(t, input)
	assert.Equal(t, ast.Dump(p1), ast.Dump(p2))
	assert.NotEmpty(t, ast.Dump(p1))
}
