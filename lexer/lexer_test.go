package lexer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/source"
)

// lex 返回去掉 T_EOF 的 Token 流
func lex(t *testing.T, input string) ([]Token, *errors.DiagnosticList, *source.Source) {
	t.Helper()
	src := source.New("test.php", []byte(input))
	tokens, diags := Tokenize(src)
	require.NotEmpty(t, tokens)
	require.Equal(t, T_EOF, tokens[len(tokens)-1].Type)
	return tokens[:len(tokens)-1], diags, src
}

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexer_BasicScripting(t *testing.T) {
	tokens, diags, src := lex(t, `<?php $a = 1 + 2.5;`)
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, []TokenType{
		T_OPEN_TAG, T_VARIABLE, TOKEN_EQUAL, T_LNUMBER, TOKEN_PLUS, T_DNUMBER, TOKEN_SEMICOLON,
	}, types(tokens))
	assert.Equal(t, "$a", string(tokens[1].Text(src)))
	assert.Equal(t, "2.5", string(tokens[5].Text(src)))
}

func TestLexer_TokensStay16Bytes(t *testing.T) {
	var tok Token
	assert.LessOrEqual(t, int(unsafe.Sizeof(tok)), 16)
}

func TestLexer_InlineHTMLAndTags(t *testing.T) {
	tokens, diags, src := lex(t, "<h1>hi</h1><?php echo 1; ?>tail")
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, []TokenType{
		T_INLINE_HTML, T_OPEN_TAG, T_ECHO, T_LNUMBER, TOKEN_SEMICOLON, T_CLOSE_TAG, T_INLINE_HTML,
	}, types(tokens))
	assert.Equal(t, "<h1>hi</h1>", string(tokens[0].Text(src)))
	assert.Equal(t, "tail", string(tokens[6].Text(src)))
}

func TestLexer_ShortOpenTagIsHTML(t *testing.T) {
	tokens, _, _ := lex(t, "<? not php")
	require.Len(t, tokens, 1)
	assert.Equal(t, T_INLINE_HTML, tokens[0].Type)
}

func TestLexer_Shebang(t *testing.T) {
	tokens, diags, _ := lex(t, "#!/usr/bin/env php\n<?php echo 1;")
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, T_OPEN_TAG, tokens[0].Type)
}

func TestLexer_Keywords(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"if", T_IF},
		{"IF", T_IF},
		{"Function", T_FUNCTION},
		{"die", T_EXIT},
		{"insteadof", T_INSTEADOF},
		{"yield", T_YIELD},
		{"__CLASS__", T_CLASS_C},
		{"__property__", T_PROPERTY_C},
		{"get", T_GET},
		{"set", T_SET},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, _, _ := lex(t, "<?php "+tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.expected, tokens[1].Type)
		})
	}
}

func TestLexer_YieldFrom(t *testing.T) {
	tokens, _, src := lex(t, "<?php yield  from $gen;")
	assert.Equal(t, T_YIELD_FROM, tokens[1].Type)
	assert.Equal(t, "yield  from", string(tokens[1].Text(src)))
}

func TestLexer_AsymmetricVisibility(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected TokenType
	}{
		{"private(set)", "private(set)", T_PRIVATE_SET},
		{"protected(set)", "protected(set)", T_PROTECTED_SET},
		{"public(set)", "public(set)", T_PUBLIC_SET},
		{"whitespace inside", "public ( set )", T_PUBLIC_SET},
		{"case insensitive", "PUBLIC(SET)", T_PUBLIC_SET},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _, _ := lex(t, "<?php "+tt.input)
			require.NotEmpty(t, tokens[1:])
			assert.Equal(t, tt.expected, tokens[1].Type)
		})
	}

	// 不匹配时回退为普通可见性关键字
	tokens, _, _ := lex(t, "<?php private(settings)")
	assert.Equal(t, T_PRIVATE, tokens[1].Type)
	assert.Equal(t, TOKEN_LPAREN, tokens[2].Type)
}

func TestLexer_AmpersandDisambiguation(t *testing.T) {
	tokens, _, _ := lex(t, "<?php f(&$a); g(& ...$b); $c & $d;")
	var amps []TokenType
	for _, tok := range tokens {
		if tok.Type == T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG ||
			tok.Type == T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG {
			amps = append(amps, tok.Type)
		}
	}
	require.Len(t, amps, 3)
	assert.Equal(t, T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG, amps[0])
	assert.Equal(t, T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG, amps[1])
	assert.Equal(t, T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG, amps[2])
}

func TestLexer_AmpersandNotFollowedByVar(t *testing.T) {
	tokens, _, _ := lex(t, "<?php A&B;")
	assert.Equal(t, T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG, tokens[2].Type)
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"123", T_LNUMBER},
		{"1_000_000", T_LNUMBER},
		{"0x1F", T_LNUMBER},
		{"0b1010", T_LNUMBER},
		{"0o777", T_LNUMBER},
		{"0777", T_LNUMBER},
		{"1.5", T_DNUMBER},
		{".5", T_DNUMBER},
		{"1e10", T_DNUMBER},
		{"1.5e-3", T_DNUMBER},
		{"9223372036854775807", T_LNUMBER},
		// 溢出提升为浮点
		{"9223372036854775808", T_DNUMBER},
		{"0xFFFFFFFFFFFFFFFF", T_DNUMBER},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, diags, src := lex(t, "<?php "+tt.input+";")
			require.GreaterOrEqual(t, len(tokens), 2)
			assert.Equal(t, tt.expected, tokens[1].Type)
			assert.Equal(t, tt.input, string(tokens[1].Text(src)))
			assert.Equal(t, 0, diags.Len())
		})
	}
}

func TestLexer_InvalidOctal(t *testing.T) {
	tokens, diags, _ := lex(t, "<?php 08;")
	assert.Equal(t, T_ERROR, tokens[1].Type)
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, errors.CodeInvalidNumber, diags.Items()[0].Code)
}

func TestLexer_ExponentBacktrack(t *testing.T) {
	// 1e 后没有数字：拆为数字和标识符
	tokens, _, _ := lex(t, "<?php 1e;")
	assert.Equal(t, T_LNUMBER, tokens[1].Type)
	assert.Equal(t, T_STRING, tokens[2].Type)
}

func TestLexer_Strings(t *testing.T) {
	tokens, diags, src := lex(t, `<?php 'a\'b' "plain" "has $var";`)
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, T_CONSTANT_ENCAPSED_STRING, tokens[1].Type)
	assert.Equal(t, `'a\'b'`, string(tokens[1].Text(src)))
	assert.Equal(t, T_CONSTANT_ENCAPSED_STRING, tokens[2].Type)
	// 有插值的字符串拆分为引号、片段和变量
	assert.Equal(t, TOKEN_QUOTE, tokens[3].Type)
	assert.Equal(t, T_ENCAPSED_AND_WHITESPACE, tokens[4].Type)
	assert.Equal(t, T_VARIABLE, tokens[5].Type)
	assert.Equal(t, TOKEN_QUOTE, tokens[6].Type)
}

func TestLexer_UnterminatedString(t *testing.T) {
	tokens, diags, _ := lex(t, `<?php $a = "never ends`)
	last := tokens[len(tokens)-1]
	assert.Equal(t, T_ERROR, last.Type)
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, errors.CodeUnterminatedString, diags.Items()[0].Code)
}

func TestLexer_InterpolationForms(t *testing.T) {
	tokens, diags, _ := lex(t, `<?php "$a[0] $b->c {$d} ${e}";`)
	assert.Equal(t, 0, diags.Len())
	expected := []TokenType{
		T_OPEN_TAG,
		TOKEN_QUOTE,
		T_VARIABLE, TOKEN_LBRACKET, T_NUM_STRING, TOKEN_RBRACKET,
		T_ENCAPSED_AND_WHITESPACE,
		T_VARIABLE, T_OBJECT_OPERATOR, T_STRING,
		T_ENCAPSED_AND_WHITESPACE,
		T_CURLY_OPEN, T_VARIABLE, TOKEN_RBRACE,
		T_ENCAPSED_AND_WHITESPACE,
		T_DOLLAR_OPEN_CURLY_BRACES, T_STRING_VARNAME, TOKEN_RBRACE,
		TOKEN_QUOTE, TOKEN_SEMICOLON,
	}
	assert.Equal(t, expected, types(tokens))
}

func TestLexer_Casts(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"(int)", T_INT_CAST},
		{"(integer)", T_INT_CAST},
		{"( bool )", T_BOOL_CAST},
		{"(FLOAT)", T_DOUBLE_CAST},
		{"(string)", T_STRING_CAST},
		{"(array)", T_ARRAY_CAST},
		{"(object)", T_OBJECT_CAST},
		{"(unset)", T_UNSET_CAST},
		{"(void)", T_VOID_CAST},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, _, _ := lex(t, "<?php "+tt.input+"$x;")
			assert.Equal(t, tt.expected, tokens[1].Type)
		})
	}

	// 不是类型转换时回退为括号
	tokens, _, _ := lex(t, "<?php (foo)$x;")
	assert.Equal(t, TOKEN_LPAREN, tokens[1].Type)
}

func TestLexer_OperatorLongestMatch(t *testing.T) {
	tokens, _, _ := lex(t, "<?php $a <=> $b ?? $c ??= $d |> $e |>= $f ** $g **= $h;")
	var ops []TokenType
	for _, tok := range tokens {
		switch tok.Type {
		case T_SPACESHIP, T_COALESCE, T_COALESCE_EQUAL, T_PIPE, T_PIPE_EQUAL, T_POW, T_POW_EQUAL:
			ops = append(ops, tok.Type)
		}
	}
	assert.Equal(t, []TokenType{
		T_SPACESHIP, T_COALESCE, T_COALESCE_EQUAL, T_PIPE, T_PIPE_EQUAL, T_POW, T_POW_EQUAL,
	}, ops)
}

func TestLexer_CommentsAreTrivia(t *testing.T) {
	tokens, diags, _ := lex(t, "<?php // line\n# hash\n/* block */ /** doc */ $a;")
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, []TokenType{T_OPEN_TAG, T_VARIABLE, TOKEN_SEMICOLON}, types(tokens))
}

func TestLexer_UnterminatedComment(t *testing.T) {
	_, diags, _ := lex(t, "<?php /* never")
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, errors.CodeUnterminatedComment, diags.Items()[0].Code)
}

func TestLexer_AttributeVsComment(t *testing.T) {
	tokens, _, _ := lex(t, "<?php #[Attr] $a; # comment\n$b;")
	assert.Equal(t, T_ATTRIBUTE, tokens[1].Type)
	// # 注释被跳过
	var vars int
	for _, tok := range tokens {
		if tok.Type == T_VARIABLE {
			vars++
		}
	}
	assert.Equal(t, 2, vars)
}

func TestLexer_QualifiedNames(t *testing.T) {
	tokens, _, src := lex(t, `<?php \A\B A\B namespace\C A;`)
	assert.Equal(t, T_NAME_FULLY_QUALIFIED, tokens[1].Type)
	assert.Equal(t, `\A\B`, string(tokens[1].Text(src)))
	assert.Equal(t, T_NAME_QUALIFIED, tokens[2].Type)
	assert.Equal(t, T_NAME_RELATIVE, tokens[3].Type)
	assert.Equal(t, T_STRING, tokens[4].Type)
}

func TestLexer_ReadonlyFunctionCall(t *testing.T) {
	tokens, _, _ := lex(t, "<?php readonly(1); readonly $x;")
	assert.Equal(t, T_STRING, tokens[1].Type)
	var found bool
	for _, tok := range tokens {
		if tok.Type == T_READONLY {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLexer_EnumContextual(t *testing.T) {
	tokens, _, _ := lex(t, "<?php enum Suit {} $enum = enum();")
	assert.Equal(t, T_ENUM, tokens[1].Type)
	// enum() 是普通调用
	var strs int
	for _, tok := range tokens {
		if tok.Type == T_STRING {
			strs++
		}
	}
	assert.GreaterOrEqual(t, strs, 2)
}

func TestLexer_ModeDepthBalanced(t *testing.T) {
	src := source.New("test.php", []byte(`<?php class C { public function f() { return "a {$b['k']} c"; } }`))
	diags := &errors.DiagnosticList{}
	l := New(src, diags)
	for {
		tok := l.Next()
		if tok.Type == T_EOF {
			break
		}
	}
	assert.Equal(t, 0, l.ModeDepth())
	assert.Equal(t, 0, diags.Len())
}

func TestLexer_CheckpointRestore(t *testing.T) {
	src := source.New("test.php", []byte(`<?php "a $b c" . $d;`))
	diags := &errors.DiagnosticList{}
	l := New(src, diags)

	l.Next() // open tag
	cp := l.Checkpoint()
	first := l.Next()
	l.Next()
	l.Restore(cp)
	again := l.Next()
	assert.Equal(t, first, again)
}

func TestLexer_BadByte(t *testing.T) {
	tokens, diags, _ := lex(t, "<?php $a \x01 $b;")
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, errors.CodeUnexpectedCharacter, diags.Items()[0].Code)
	var bad int
	for _, tok := range tokens {
		if tok.Type == T_BAD_CHARACTER {
			bad++
		}
	}
	assert.Equal(t, 1, bad)
}
