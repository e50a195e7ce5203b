package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/php-parser/ast"
)

func TestParsing_ControlFlow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, program *ast.Program)
	}{
		{
			name:  "if elseif else",
			input: `<?php if ($a) { f(); } elseif ($b) { g(); } else { h(); }`,
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.If)
				require.NotNil(t, s.Else)
				elseif := s.Else.(*ast.If)
				require.NotNil(t, elseif.Else)
				_, ok := elseif.Else.(*ast.Block)
				assert.True(t, ok)
			},
		},
		{
			name:  "alternative if syntax",
			input: "<?php if ($a): f(); elseif ($b): g(); else: h(); endif;",
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.If)
				assert.True(t, s.Alt)
				elseif := s.Else.(*ast.If)
				assert.True(t, elseif.Alt)
			},
		},
		{
			name:  "while and do-while",
			input: `<?php while ($a) f(); do { g(); } while ($b);`,
			expected: func(t *testing.T, program *ast.Program) {
				require.Len(t, program.Body, 2)
				_, ok := program.Body[0].(*ast.While)
				assert.True(t, ok)
				_, ok = program.Body[1].(*ast.DoWhile)
				assert.True(t, ok)
			},
		},
		{
			name:  "for with all clauses",
			input: `<?php for ($i = 0; $i < 10; $i++) { f($i); }`,
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.For)
				assert.Len(t, s.Init, 1)
				assert.Len(t, s.Cond, 1)
				assert.Len(t, s.Loop, 1)
			},
		},
		{
			name:  "foreach with key and by-ref value",
			input: `<?php foreach ($xs as $k => &$v) { $v *= 2; }`,
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.Foreach)
				require.NotNil(t, s.KeyVar)
				assert.True(t, s.ByRef)
			},
		},
		{
			name:  "foreach endforeach",
			input: "<?php foreach ($xs as $v): f($v); endforeach;",
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.Foreach)
				assert.True(t, s.Alt)
			},
		},
		{
			name:  "switch with default",
			input: `<?php switch ($x) { case 1: f(); break; default: g(); }`,
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.Switch)
				require.Len(t, s.Cases, 2)
				assert.NotNil(t, s.Cases[0].Cond)
				assert.Nil(t, s.Cases[1].Cond)
			},
		},
		{
			name:  "try catch finally",
			input: `<?php try { f(); } catch (A|B $e) { g(); } finally { h(); }`,
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.Try)
				require.Len(t, s.Catches, 1)
				assert.Len(t, s.Catches[0].Types, 2)
				assert.NotNil(t, s.Catches[0].Var)
				assert.NotNil(t, s.Finally)
			},
		},
		{
			name:  "catch without variable",
			input: `<?php try { f(); } catch (Throwable) { g(); }`,
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.Try)
				require.Len(t, s.Catches, 1)
				assert.Nil(t, s.Catches[0].Var)
			},
		},
		{
			name:  "goto and label",
			input: "<?php start: f(); goto start;",
			expected: func(t *testing.T, program *ast.Program) {
				require.Len(t, program.Body, 3)
				l := program.Body[0].(*ast.Label)
				assert.Equal(t, "start", string(l.Name.Value))
				g := program.Body[2].(*ast.Goto)
				assert.Equal(t, "start", string(g.Label.Value))
			},
		},
		{
			name:  "declare strict types",
			input: `<?php declare(strict_types=1);`,
			expected: func(t *testing.T, program *ast.Program) {
				s := program.Body[0].(*ast.Declare)
				require.Len(t, s.Directives, 1)
				assert.Equal(t, "strict_types", string(s.Directives[0].Name.Value))
			},
		},
		{
			name:  "global static unset echo",
			input: `<?php global $a, $b; static $c = 1; unset($d); echo $a, $b;`,
			expected: func(t *testing.T, program *ast.Program) {
				require.Len(t, program.Body, 4)
				g := program.Body[0].(*ast.Global)
				assert.Len(t, g.Vars, 2)
				st := program.Body[1].(*ast.StaticStmt)
				require.Len(t, st.Vars, 1)
				assert.NotNil(t, st.Vars[0].Default)
				u := program.Body[2].(*ast.Unset)
				assert.Len(t, u.Vars, 1)
				e := program.Body[3].(*ast.Echo)
				assert.Len(t, e.Exprs, 2)
			},
		},
		{
			name:  "return break continue with values",
			input: `<?php function f() { return 1; } while (1) { break 2; continue; }`,
			expected: func(t *testing.T, program *ast.Program) {
				fn := program.Body[0].(*ast.FunctionDecl)
				ret := fn.Body.Stmts[0].(*ast.Return)
				assert.NotNil(t, ret.Value)
				w := program.Body[1].(*ast.While)
				body := w.Body.(*ast.Block)
				br := body.Stmts[0].(*ast.Break)
				assert.NotNil(t, br.Level)
				co := body.Stmts[1].(*ast.Continue)
				assert.Nil(t, co.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := parseSource(t, tt.input)
			assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
			tt.expected(t, program)
		})
	}
}

func TestParsing_NamespaceAndUse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, program *ast.Program)
	}{
		{
			name:  "namespace with body",
			input: `<?php namespace App\Core { $a = 1; }`,
			expected: func(t *testing.T, program *ast.Program) {
				ns := program.Body[0].(*ast.Namespace)
				assert.Equal(t, `App\Core`, string(ns.Name.Value))
				require.NotNil(t, ns.Body)
				assert.Len(t, ns.Body.Stmts, 1)
			},
		},
		{
			name:  "bare namespace",
			input: `<?php namespace App; $a = 1;`,
			expected: func(t *testing.T, program *ast.Program) {
				ns := program.Body[0].(*ast.Namespace)
				assert.Equal(t, "App", string(ns.Name.Value))
				assert.Nil(t, ns.Body)
			},
		},
		{
			name:  "use with alias",
			input: `<?php use App\Foo as Bar;`,
			expected: func(t *testing.T, program *ast.Program) {
				u := program.Body[0].(*ast.Use)
				require.Len(t, u.Clauses, 1)
				assert.Equal(t, `App\Foo`, string(u.Clauses[0].Name.Value))
				assert.Equal(t, "Bar", string(u.Clauses[0].Alias.Value))
			},
		},
		{
			name:  "use function and const",
			input: `<?php use function strlen; use const PHP_EOL;`,
			expected: func(t *testing.T, program *ast.Program) {
				u1 := program.Body[0].(*ast.Use)
				assert.Equal(t, ast.UseFunction, u1.UseKind)
				u2 := program.Body[1].(*ast.Use)
				assert.Equal(t, ast.UseConst, u2.UseKind)
			},
		},
		{
			name:  "group use",
			input: `<?php use App\{Foo, function bar, const BAZ};`,
			expected: func(t *testing.T, program *ast.Program) {
				u := program.Body[0].(*ast.Use)
				require.NotNil(t, u.Prefix)
				assert.Equal(t, "App", string(u.Prefix.Value))
				require.Len(t, u.Clauses, 3)
				assert.Equal(t, ast.UseNormal, u.Clauses[0].UseKind)
				assert.Equal(t, ast.UseFunction, u.Clauses[1].UseKind)
				assert.Equal(t, ast.UseConst, u.Clauses[2].UseKind)
			},
		},
		{
			name:  "top-level const",
			input: `<?php const A = 1, B = 2;`,
			expected: func(t *testing.T, program *ast.Program) {
				c := program.Body[0].(*ast.ConstStmt)
				assert.Len(t, c.Consts, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := parseSource(t, tt.input)
			assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
			tt.expected(t, program)
		})
	}
}

func TestParsing_InlineHTMLAndTags(t *testing.T) {
	input := "<p>a</p><?php $x = 1; ?><p>b</p>"
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
	require.Len(t, program.Body, 3)
	_, ok := program.Body[0].(*ast.InlineHTML)
	assert.True(t, ok)
	_, ok = program.Body[1].(*ast.ExpressionStmt)
	assert.True(t, ok)
	_, ok = program.Body[2].(*ast.InlineHTML)
	assert.True(t, ok)
}

func TestParsing_ShortEchoTag(t *testing.T) {
	program, diags := parseSource(t, `<?= $title, "!" ?>`)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
	e := program.Body[0].(*ast.Echo)
	assert.Len(t, e.Exprs, 2)
}

func TestParsing_HaltCompiler(t *testing.T) {
	input := "<?php $a = 1; __halt_compiler(); raw ; not ) php"
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
	require.Len(t, program.Body, 2)
	h := program.Body[1].(*ast.HaltCompiler)
	assert.Equal(t, " raw ; not ) php", string(h.Remaining))
}

func TestParsing_ListDestructuring(t *testing.T) {
	program, diags := parseSource(t, `<?php list($a, , $b) = $xs; [$c, $d] = $ys;`)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
	first := exprOf(t, program.Body[0]).(*ast.Assign)
	l := first.Var.(*ast.List)
	assert.Len(t, l.Items, 2)
	second := exprOf(t, program.Body[1]).(*ast.Assign)
	arr := second.Var.(*ast.Array)
	assert.Len(t, arr.Items, 2)
}
