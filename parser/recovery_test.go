package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
	"github.com/wudi/php-parser/source"
)

func TestRecovery_SingleBrokenStatementAmongMany(t *testing.T) {
	input := `<?php
$a = 1;
$b = @@@;
$c = 3;
$d = 4;`
	program, diags := parseSource(t, input)
	require.Len(t, program.Body, 4)
	assert.True(t, diags.HasErrors())

	// 损坏语句前后的语句都完好
	first := exprOf(t, program.Body[0]).(*ast.Assign)
	assert.Equal(t, "$a", string(first.Var.(*ast.Variable).Name))
	third := exprOf(t, program.Body[2]).(*ast.Assign)
	assert.Equal(t, "$c", string(third.Var.(*ast.Variable).Name))
	fourth := exprOf(t, program.Body[3]).(*ast.Assign)
	assert.Equal(t, "$d", string(fourth.Var.(*ast.Variable).Name))
}

func TestRecovery_UnclosedBrace(t *testing.T) {
	program, diags := parseSource(t, `<?php function f() { if ($a) { g(); `)
	require.NotEmpty(t, program.Body)
	assert.True(t, diags.HasErrors())
}

func TestRecovery_ClassBodyResync(t *testing.T) {
	input := `<?php class C {
	public $ok1;
	wild tokens here %%%;
	public $ok2;
}`
	program, diags := parseSource(t, input)
	assert.True(t, diags.HasErrors())
	class, ok := program.Body[0].(*ast.ClassDecl)
	require.True(t, ok)

	var props []string
	for _, m := range class.Members {
		if p, ok := m.(*ast.PropertyDecl); ok {
			props = append(props, string(p.Entries[0].Var.Name))
		}
	}
	assert.Contains(t, props, "$ok1")
	assert.Contains(t, props, "$ok2")
}

func TestRecovery_DiagnosticCountBoundedByTokens(t *testing.T) {
	input := `<?php $ = ; ) } ( { ; @@ ## %% $a = ;`
	src := source.New("test.php", []byte(input))
	tokens, _ := lexer.Tokenize(src)

	_, diags := parseSource(t, input)
	assert.LessOrEqual(t, diags.Len(), len(tokens))
}

func TestRecovery_DiagnosticsInSourceOrder(t *testing.T) {
	input := `<?php $a = @@; $b = ^; $c = ~; class { }`
	_, diags := parseSource(t, input)
	require.NotEmpty(t, diags.Items())
	var last uint32
	for _, d := range diags.Items() {
		assert.GreaterOrEqual(t, d.Span.Start, last,
			"diagnostics must be in non-decreasing span order")
		last = d.Span.Start
	}
}

// walkInvariants 检查所有节点的区间封闭性
func walkInvariants(t *testing.T, src *source.Source, program *ast.Program) {
	t.Helper()
	ast.Walk(program, ast.VisitorFunc(func(n ast.Node) bool {
		sp := n.GetSpan()
		assert.LessOrEqual(t, sp.Start, sp.End, "%s span is well-formed", n.GetKind())
		assert.LessOrEqual(t, int(sp.End), src.Len(), "%s span within source", n.GetKind())
		prevEnd := uint32(0)
		for _, c := range ast.Children(n) {
			cs := c.GetSpan()
			assert.True(t, sp.Contains(cs),
				"parent %s %s must enclose child %s %s", n.GetKind(), sp, c.GetKind(), cs)
			assert.GreaterOrEqual(t, cs.Start, prevEnd,
				"siblings of %s must be in source order", n.GetKind())
			prevEnd = cs.End
		}
		return true
	}))
}

func TestInvariants_SpansNestAndOrder(t *testing.T) {
	inputs := []string{
		`<?php $a = 1 + 2 * f($x, $y[3]); class C extends B { public int $v { get => 1; } }`,
		`<?php foreach ($xs as $k => $v) { echo "$k => {$v->name}"; }`,
		`<?php $r = match(true) { $a > 1, $a < 5 => 'mid', default => throw new E() };`,
		`<?php try { f(); } catch (A|B $e) { } finally { }`,
		`<?php $broken = 1 + ; $fine = 2;`,
		"<?php $s = <<<EOT\n  a {$x} b\n  EOT; $t = 1;",
	}
	for _, input := range inputs {
		src := source.New("test.php", []byte(input))
		program, _ := Parse(src, arena.NewArena())
		walkInvariants(t, src, program)
	}
}

func TestInvariants_TokensNonOverlappingAndOrdered(t *testing.T) {
	input := "<?php function f($a) { return \"x $a y\" . <<<EOT\n z\n EOT; }"
	src := source.New("test.php", []byte(input))
	tokens, _ := lexer.Tokenize(src)
	var prevEnd uint32
	for _, tok := range tokens {
		assert.GreaterOrEqual(t, tok.Span.Start, prevEnd, "token %s overlaps", tok.Type)
		assert.LessOrEqual(t, int(tok.Span.End), src.Len())
		prevEnd = tok.Span.End
	}
}

func TestRecovery_PathologicalNesting(t *testing.T) {
	input := "<?php $x = " + strings.Repeat("(", 100000) + "1;"
	program, diags := parseSource(t, input)
	require.NotNil(t, program)
	var found bool
	for _, d := range diags.Items() {
		if d.Code == errors.CodeNestingTooDeep {
			found = true
		}
	}
	assert.True(t, found, "deep nesting must surface as a diagnostic, not a crash")
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"<?php",
		"<?php $a = 1;",
		"<?php class C { public private(set) int $x { get => $this->y; } }",
		"<?php $s = \"a {$b[1]} ${c} $d->e\";",
		"<?php $s = <<<EOT\n $x\n EOT;",
		"<?php $s = <<<'EOT'\n raw\n EOT;",
		"<?php match($x) { 1, => 2 };",
		"<?php enum E: string { case A = 'a'; }",
		"<?php fn($x) => $x |> f(...);",
		"<?php \xff\xfe\x00 garbage",
		"<?php $a = \"unterminated",
		"<?php $h = <<<EOT\nnever closed",
		"<?php if ($a): while ($b): endwhile; endif;",
		"#!/usr/bin/php\n<?php echo 1;",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		src := source.New("fuzz.php", data)
		program, diags := Parse(src, arena.NewArena())
		if program == nil {
			t.Fatal("Parse returned nil program")
		}
		// 诊断必须按源顺序
		var last uint32
		for _, d := range diags.Items() {
			if d.Span.Start < last {
				t.Fatalf("diagnostic out of order: %d after %d", d.Span.Start, last)
			}
			last = d.Span.Start
		}
	})
}

func BenchmarkParse(b *testing.B) {
	input := []byte(`<?php
namespace App;

use App\Contracts\Repo;

final class UserRepo implements Repo {
	public function __construct(private readonly PDO $db) {}

	public function find(int $id): ?User {
		$row = $this->db->query("SELECT * FROM users WHERE id = $id")->fetch();
		return match(true) {
			$row === false => null,
			default => new User(...$row),
		};
	}

	public function names(array $rows): array {
		return $rows |> array_column(...) |> array_values(...);
	}
}
`)
	b.ReportAllocs()
	b.SetBytes(int64(len(input)))
	for i := 0; i < b.N; i++ {
		src := source.New("bench.php", input)
		Parse(src, arena.NewArena())
	}
}
