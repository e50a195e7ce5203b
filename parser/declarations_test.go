package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
)

func TestParsing_ClassMembers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, class *ast.ClassDecl)
	}{
		{
			name:  "methods with modifiers",
			input: `<?php class C { public static function f() {} abstract protected function g(); final public function h(): void {} }`,
			expected: func(t *testing.T, class *ast.ClassDecl) {
				require.Len(t, class.Members, 3)
				f := class.Members[0].(*ast.MethodDecl)
				assert.True(t, f.Modifiers.Has(ast.ModPublic))
				assert.True(t, f.Modifiers.Has(ast.ModStatic))
				g := class.Members[1].(*ast.MethodDecl)
				assert.True(t, g.Modifiers.Has(ast.ModAbstract))
				assert.Nil(t, g.Body)
				h := class.Members[2].(*ast.MethodDecl)
				assert.True(t, h.Modifiers.Has(ast.ModFinal))
				require.NotNil(t, h.ReturnType)
			},
		},
		{
			name:  "typed properties with defaults",
			input: `<?php class C { private ?int $a = null, $b = 2; public readonly string $c; }`,
			expected: func(t *testing.T, class *ast.ClassDecl) {
				require.Len(t, class.Members, 2)
				p1 := class.Members[0].(*ast.PropertyDecl)
				require.Len(t, p1.Entries, 2)
				_, ok := p1.Type.(*ast.NullableType)
				assert.True(t, ok)
				p2 := class.Members[1].(*ast.PropertyDecl)
				assert.True(t, p2.Modifiers.Has(ast.ModReadonly))
			},
		},
		{
			name:  "class constants with type",
			input: `<?php class C { const int A = 1, B = 2; final public const X = 'x'; }`,
			expected: func(t *testing.T, class *ast.ClassDecl) {
				require.Len(t, class.Members, 2)
				c1 := class.Members[0].(*ast.ClassConstDecl)
				require.NotNil(t, c1.Type)
				assert.Len(t, c1.Consts, 2)
				c2 := class.Members[1].(*ast.ClassConstDecl)
				assert.True(t, c2.Modifiers.Has(ast.ModFinal))
			},
		},
		{
			name:  "extends and implements",
			input: `<?php final class C extends B implements I, J {}`,
			expected: func(t *testing.T, class *ast.ClassDecl) {
				assert.True(t, class.Modifiers.Has(ast.ModFinal))
				assert.Equal(t, "B", string(class.Extends.Value))
				assert.Len(t, class.Implements, 2)
			},
		},
		{
			name:  "trait use with adaptations",
			input: `<?php class C { use A, B { A::f insteadof B; B::f as protected g; } }`,
			expected: func(t *testing.T, class *ast.ClassDecl) {
				u := class.Members[0].(*ast.TraitUse)
				assert.Len(t, u.Traits, 2)
				require.Len(t, u.Adaptations, 2)
				prec := u.Adaptations[0].(*ast.TraitPrecedence)
				assert.Equal(t, "A", string(prec.Trait.Value))
				assert.Equal(t, "f", string(prec.Method.Value))
				require.Len(t, prec.Insteadof, 1)
				alias := u.Adaptations[1].(*ast.TraitAlias)
				assert.True(t, alias.NewModifier.Has(ast.ModProtected))
				assert.Equal(t, "g", string(alias.NewName.Value))
			},
		},
		{
			name:  "semi-reserved member names",
			input: `<?php class C { public function list() {} const DEFAULT = 1; }`,
			expected: func(t *testing.T, class *ast.ClassDecl) {
				m := class.Members[0].(*ast.MethodDecl)
				assert.Equal(t, "list", string(m.Name.Value))
				c := class.Members[1].(*ast.ClassConstDecl)
				assert.Equal(t, "DEFAULT", string(c.Consts[0].Name.Value))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := parseSource(t, tt.input)
			assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
			class, ok := program.Body[0].(*ast.ClassDecl)
			require.True(t, ok)
			tt.expected(t, class)
		})
	}
}

func TestParsing_PropertyHooks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, hooks []*ast.PropertyHook)
	}{
		{
			name:  "arrow get and block set",
			input: `<?php class C { public int $x { get => $this->y; set { $this->y = $value; } } }`,
			expected: func(t *testing.T, hooks []*ast.PropertyHook) {
				require.Len(t, hooks, 2)
				assert.Equal(t, ast.HookGet, hooks[0].Hook)
				assert.NotNil(t, hooks[0].Expr)
				assert.Equal(t, ast.HookSet, hooks[1].Hook)
				require.NotNil(t, hooks[1].Block)
			},
		},
		{
			name:  "set hook with parameter",
			input: `<?php class C { public string $x { set(string $v) => strtolower($v); } }`,
			expected: func(t *testing.T, hooks []*ast.PropertyHook) {
				require.Len(t, hooks, 1)
				require.Len(t, hooks[0].Params, 1)
				assert.Equal(t, "$v", string(hooks[0].Params[0].Var.Name))
			},
		},
		{
			name:  "abstract hooks",
			input: `<?php abstract class C { abstract public int $x { get; set; } }`,
			expected: func(t *testing.T, hooks []*ast.PropertyHook) {
				require.Len(t, hooks, 2)
				assert.Nil(t, hooks[0].Block)
				assert.Nil(t, hooks[0].Expr)
			},
		},
		{
			name:  "by-ref get hook with attribute",
			input: `<?php class C { public array $xs { #[Deep] &get { return $this->data; } } }`,
			expected: func(t *testing.T, hooks []*ast.PropertyHook) {
				require.Len(t, hooks, 1)
				assert.True(t, hooks[0].ByRef)
				assert.Len(t, hooks[0].Attributes, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := parseSource(t, tt.input)
			assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
			class := program.Body[0].(*ast.ClassDecl)
			prop, ok := class.Members[len(class.Members)-1].(*ast.PropertyDecl)
			require.True(t, ok)
			tt.expected(t, prop.Hooks)
		})
	}
}

func TestParsing_AsymmetricVisibilityMisuseDiagnostic(t *testing.T) {
	_, diags := parseSource(t, `<?php class C { public private(set) function f() {} }`)
	require.GreaterOrEqual(t, diags.Len(), 1)
	assert.Equal(t, errors.CodeSetVisibilityMisuse, diags.Items()[0].Code)
}

func TestParsing_ConstructorPromotion(t *testing.T) {
	input := `<?php class C {
		public function __construct(
			public readonly int $a,
			private(set) string $b = 'x',
			#[Attr] protected ?array $c = null,
			int $plain,
		) {}
	}`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	class := program.Body[0].(*ast.ClassDecl)
	ctor := class.Members[0].(*ast.MethodDecl)
	require.Len(t, ctor.Params, 4)

	a := ctor.Params[0]
	assert.True(t, a.Modifiers.Has(ast.ModPublic))
	assert.True(t, a.Modifiers.Has(ast.ModReadonly))

	b := ctor.Params[1]
	assert.True(t, b.Modifiers.Has(ast.ModPrivateSet))
	assert.NotNil(t, b.Default)

	c := ctor.Params[2]
	assert.Len(t, c.Attributes, 1)
	assert.True(t, c.Modifiers.Has(ast.ModProtected))

	plain := ctor.Params[3]
	assert.Equal(t, ast.Modifier(0), plain.Modifiers)
}

func TestParsing_PromotedParamWithHooks(t *testing.T) {
	input := `<?php class C { public function __construct(public int $x { get => 1; }) {} }`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
	class := program.Body[0].(*ast.ClassDecl)
	ctor := class.Members[0].(*ast.MethodDecl)
	require.Len(t, ctor.Params, 1)
	require.Len(t, ctor.Params[0].Hooks, 1)
	assert.Equal(t, ast.HookGet, ctor.Params[0].Hooks[0].Hook)
}

func TestParsing_Enums(t *testing.T) {
	input := `<?php enum Suit: string implements HasColor {
		case Hearts = 'H';
		case Spades = 'S';
		const WILD = 'W';
		public function color(): string { return match($this) { Suit::Hearts => 'red', default => 'black' }; }
	}`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	e := program.Body[0].(*ast.EnumDecl)
	assert.Equal(t, "Suit", string(e.Name.Value))
	require.NotNil(t, e.BackingType)
	assert.Len(t, e.Implements, 1)
	require.Len(t, e.Members, 4)

	c1 := e.Members[0].(*ast.EnumCase)
	assert.Equal(t, "Hearts", string(c1.Name.Value))
	assert.NotNil(t, c1.Value)
	_, ok := e.Members[2].(*ast.ClassConstDecl)
	assert.True(t, ok)
	_, ok = e.Members[3].(*ast.MethodDecl)
	assert.True(t, ok)
}

func TestParsing_InterfaceAndTrait(t *testing.T) {
	input := `<?php interface I extends A, B { public function f(): int; }
	trait T { public function g() { return 1; } }`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	i := program.Body[0].(*ast.InterfaceDecl)
	assert.Len(t, i.Extends, 2)
	m := i.Members[0].(*ast.MethodDecl)
	assert.Nil(t, m.Body)

	tr := program.Body[1].(*ast.TraitDecl)
	assert.Equal(t, "T", string(tr.Name.Value))
	assert.Len(t, tr.Members, 1)
}

func TestParsing_ClosuresAndArrowFns(t *testing.T) {
	input := `<?php
	$f = function ($a) use (&$b): int { return $a + $b; };
	$g = static fn(int $x): int => $x * 2;
	$h = #[Pure] fn($x) => $x;`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	f := exprOf(t, program.Body[0]).(*ast.Assign).Value.(*ast.Closure)
	require.Len(t, f.Uses, 1)
	assert.True(t, f.Uses[0].ByRef)
	require.NotNil(t, f.ReturnType)

	g := exprOf(t, program.Body[1]).(*ast.Assign).Value.(*ast.ArrowFn)
	assert.True(t, g.Static)

	h := exprOf(t, program.Body[2]).(*ast.Assign).Value.(*ast.ArrowFn)
	assert.Len(t, h.Attributes, 1)
}

func TestParsing_AnonymousClass(t *testing.T) {
	input := `<?php $o = new class(1) extends Base implements I { public function f() {} };`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	n := exprOf(t, program.Body[0]).(*ast.Assign).Value.(*ast.New)
	anon, ok := n.Class.(*ast.AnonClass)
	require.True(t, ok)
	require.Len(t, anon.Args, 1)
	assert.Equal(t, "Base", string(anon.Extends.Value))
	assert.Len(t, anon.Members, 1)
}

func TestParsing_TypeForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, typ ast.TypeNode)
	}{
		{
			name:  "union",
			input: `<?php function f(): int|string|null {}`,
			expected: func(t *testing.T, typ ast.TypeNode) {
				u := typ.(*ast.UnionType)
				assert.Len(t, u.Types, 3)
			},
		},
		{
			name:  "intersection",
			input: `<?php function f(): Countable&Traversable {}`,
			expected: func(t *testing.T, typ ast.TypeNode) {
				i := typ.(*ast.IntersectionType)
				assert.Len(t, i.Types, 2)
			},
		},
		{
			name:  "DNF",
			input: `<?php function f(): (A&B)|C {}`,
			expected: func(t *testing.T, typ ast.TypeNode) {
				u := typ.(*ast.UnionType)
				require.Len(t, u.Types, 2)
				_, ok := u.Types[0].(*ast.IntersectionType)
				assert.True(t, ok)
			},
		},
		{
			name:  "nullable",
			input: `<?php function f(): ?static {}`,
			expected: func(t *testing.T, typ ast.TypeNode) {
				n := typ.(*ast.NullableType)
				named := n.Inner.(*ast.NamedType)
				assert.Equal(t, "static", string(named.Name.Value))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := parseSource(t, tt.input)
			assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)
			fn := program.Body[0].(*ast.FunctionDecl)
			tt.expected(t, fn.ReturnType)
		})
	}
}

func TestParsing_AttributesOnDeclarations(t *testing.T) {
	input := `<?php
	#[Route('/x', method: 'GET'), Cached]
	#[Deprecated]
	final class C {
		#[Inject] private Logger $log;
	}`
	program, diags := parseSource(t, input)
	assert.Equal(t, 0, diags.Len(), "diagnostics: %s", diags)

	class := program.Body[0].(*ast.ClassDecl)
	require.Len(t, class.Attributes, 2)
	require.Len(t, class.Attributes[0].Attrs, 2)
	route := class.Attributes[0].Attrs[0]
	assert.Equal(t, "Route", string(route.Name.Value))
	require.Len(t, route.Args, 2)
	assert.NotNil(t, route.Args[1].Name, "second argument is named")

	prop := class.Members[0].(*ast.PropertyDecl)
	assert.Len(t, prop.Attributes, 1)
}
