// Package parser implements the fault-tolerant PHP 8.4 parser:
// recursive descent for statements and declarations, a Pratt core for
// expressions, and a recovery engine that keeps every production total.
package parser

import (
	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
	"github.com/wudi/php-parser/source"
)

// Parser 解析器。持有词法分析器之上的两个 Token 前瞻缓冲，
// 以及少数 LL(3) 判定所需的推测保存点。
type Parser struct {
	src   *source.Source
	arena *arena.Arena
	lex   *lexer.Lexer
	diags *errors.DiagnosticList

	cur  lexer.Token // peek(0)
	peek lexer.Token // peek(1)

	// prevEnd 是最近消耗的 Token 的结束偏移，用于区间折叠
	prevEnd uint32

	// consumed 统计已消耗的 Token 数，恢复循环用它保证前进
	consumed int

	// depth 限制递归深度：病态嵌套输入以诊断收场而不是栈溢出
	depth         int
	depthReported bool
}

// maxNestingDepth 表达式与语句的最大嵌套深度
const maxNestingDepth = 4096

// enterNesting 在进入递归产生式时调用；超限时报告一次诊断并把
// 余下输入全部消耗掉，保证终止。
func (p *Parser) enterNesting() bool {
	p.depth++
	if p.depth <= maxNestingDepth {
		return true
	}
	p.depth--
	if !p.depthReported {
		p.depthReported = true
		p.errorf(errors.CodeNestingTooDeep, p.cur.Span, "nesting level too deep")
	}
	for !p.curIs(lexer.T_EOF) {
		p.next()
	}
	return false
}

func (p *Parser) leaveNesting() {
	p.depth--
}

// Parse 是主入口：对 src 做一次完整解析，返回根节点和诊断。
// 对任何输入都不会 panic，也不会返回 nil Program。
func Parse(src *source.Source, a *arena.Arena) (*ast.Program, *errors.DiagnosticList) {
	diags := &errors.DiagnosticList{}
	p := New(src, a, diags)
	program := p.ParseProgram()
	diags.SortBySpan()
	return program, diags
}

// New 创建解析器。诊断写入 diags，供词法和语法共享。
func New(src *source.Source, a *arena.Arena, diags *errors.DiagnosticList) *Parser {
	p := &Parser{
		src:   src,
		arena: a,
		lex:   lexer.New(src, diags),
		diags: diags,
	}
	// 填充两级前瞻
	p.cur = p.lex.Next()
	p.peek = p.lex.Next()
	return p
}

// ============= Token Source =============

func (p *Parser) next() {
	p.prevEnd = p.cur.Span.End
	p.consumed++
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

// checkpoint 捕获 token source 与词法分析器的完整状态。
// 少数超过 LL(2) 的判定在探测前保存、失配时回退。
type checkpoint struct {
	lex      lexer.Checkpoint
	cur      lexer.Token
	peek     lexer.Token
	prevEnd  uint32
	consumed int
	diags    int
}

func (p *Parser) save() checkpoint {
	return checkpoint{
		lex:      p.lex.Checkpoint(),
		cur:      p.cur,
		peek:     p.peek,
		prevEnd:  p.prevEnd,
		consumed: p.consumed,
		diags:    p.diags.Len(),
	}
}

func (p *Parser) restore(cp checkpoint) {
	p.lex.Restore(cp.lex)
	p.cur = cp.cur
	p.peek = cp.peek
	p.prevEnd = cp.prevEnd
	p.consumed = cp.consumed
	p.diags.Truncate(cp.diags)
}

// ============= 诊断与期望 =============

func (p *Parser) errorf(code errors.Code, span source.Span, format string, args ...any) {
	p.diags.Error(code, span, format, args...)
}

// expect 要求当前 Token 是 t：命中则消耗并返回其区间；否则记录
// 诊断且不消耗，由调用方的恢复逻辑决定如何前进。
func (p *Parser) expect(t lexer.TokenType) (source.Span, bool) {
	if p.cur.Type == t {
		sp := p.cur.Span
		p.next()
		return sp, true
	}
	p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected %s, found %s", t, p.cur.Type)
	return p.cur.Span, false
}

// expectSemicolon 语句终结符：; 或关闭标签 ?> 或 EOF 都可接受
func (p *Parser) expectSemicolon() {
	switch p.cur.Type {
	case lexer.TOKEN_SEMICOLON:
		p.next()
	case lexer.T_CLOSE_TAG, lexer.T_EOF:
		// 关闭标签隐含语句结束；T_CLOSE_TAG 由语句循环消耗
	default:
		p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected \";\", found %s", p.cur.Type)
	}
}

// spanFrom 构造从 start 到最近消耗 Token 结束的区间
func (p *Parser) spanFrom(start uint32) source.Span {
	if p.prevEnd < start {
		return source.NewSpan(start, start)
	}
	return source.NewSpan(start, p.prevEnd)
}

// text 返回 Token 的源字节
func (p *Parser) text(tok lexer.Token) []byte {
	return p.src.Slice(tok.Span)
}

// ============= 同步 =============

// statementStart 判断 t 是否可以开始一条语句，同步在这些 Token
// 之前停下。
func statementStart(t lexer.TokenType) bool {
	switch t {
	case lexer.T_IF, lexer.T_WHILE, lexer.T_DO, lexer.T_FOR, lexer.T_FOREACH,
		lexer.T_SWITCH, lexer.T_MATCH, lexer.T_TRY, lexer.T_RETURN,
		lexer.T_BREAK, lexer.T_CONTINUE, lexer.T_ECHO, lexer.T_GLOBAL,
		lexer.T_UNSET, lexer.T_GOTO, lexer.T_DECLARE, lexer.T_NAMESPACE,
		lexer.T_USE, lexer.T_CONST, lexer.T_FUNCTION, lexer.T_CLASS,
		lexer.T_INTERFACE, lexer.T_TRAIT, lexer.T_ENUM, lexer.T_ABSTRACT,
		lexer.T_FINAL, lexer.T_THROW:
		return true
	}
	return false
}

// syncStatement 语句级同步：跳到 { } ; 关闭标签或语句起始关键字。
// 遇到 ; 时消耗它。
func (p *Parser) syncStatement() {
	for {
		switch p.cur.Type {
		case lexer.T_EOF, lexer.TOKEN_RBRACE, lexer.TOKEN_LBRACE,
			lexer.T_CLOSE_TAG, lexer.T_OPEN_TAG, lexer.T_INLINE_HTML:
			return
		case lexer.TOKEN_SEMICOLON:
			p.next()
			return
		default:
			if statementStart(p.cur.Type) {
				return
			}
			p.next()
		}
	}
}

// syncToCloser 括号级同步：跳到与嵌套匹配的 closer 之前
func (p *Parser) syncToCloser(closer lexer.TokenType) {
	depth := 0
	for {
		switch p.cur.Type {
		case lexer.T_EOF:
			return
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET, lexer.TOKEN_LBRACE, lexer.T_ATTRIBUTE:
			depth++
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_RBRACE:
			if depth == 0 {
				if p.cur.Type == closer {
					return
				}
				// 不匹配的 closer 也作为停靠点，交还上层
				return
			}
			depth--
		}
		p.next()
	}
}

// syncClassBody 类体同步：跳到 ; 或下一个成员起始
func (p *Parser) syncClassBody() {
	for {
		switch p.cur.Type {
		case lexer.T_EOF, lexer.TOKEN_RBRACE:
			return
		case lexer.TOKEN_SEMICOLON:
			p.next()
			return
		case lexer.T_PUBLIC, lexer.T_PROTECTED, lexer.T_PRIVATE,
			lexer.T_PUBLIC_SET, lexer.T_PROTECTED_SET, lexer.T_PRIVATE_SET,
			lexer.T_STATIC, lexer.T_ABSTRACT, lexer.T_FINAL, lexer.T_READONLY,
			lexer.T_VAR, lexer.T_FUNCTION, lexer.T_CONST, lexer.T_CASE,
			lexer.T_USE, lexer.T_ATTRIBUTE:
			return
		default:
			p.next()
		}
	}
}

// ============= Error 节点 =============

func (p *Parser) errorExpr(start uint32) *ast.ErrorExpr {
	e := arena.New[ast.ErrorExpr](p.arena)
	e.BaseNode = ast.Base(ast.KindErrorExpr, p.spanFrom(start))
	return e
}

// errorExprHere 构造零宽 Error 表达式，用于完全没有消耗 Token 的
// 失败。锚定在最近消耗的 Token 末尾，保证父区间封闭子区间。
func (p *Parser) errorExprHere() *ast.ErrorExpr {
	e := arena.New[ast.ErrorExpr](p.arena)
	e.BaseNode = ast.Base(ast.KindErrorExpr, source.NewSpan(p.prevEnd, p.prevEnd))
	return e
}

func (p *Parser) errorStmt(start uint32) *ast.ErrorStmt {
	s := arena.New[ast.ErrorStmt](p.arena)
	s.BaseNode = ast.Base(ast.KindErrorStmt, p.spanFrom(start))
	return s
}

// ============= 程序入口 =============

// ParseProgram 解析整个输入。循环保证前进：每轮至少消耗一个
// Token 或到达 EOF。
func (p *Parser) ParseProgram() *ast.Program {
	prog := arena.New[ast.Program](p.arena)
	var body []ast.Statement

	for !p.curIs(lexer.T_EOF) {
		before := p.consumed
		switch p.cur.Type {
		case lexer.T_INLINE_HTML:
			h := arena.New[ast.InlineHTML](p.arena)
			h.BaseNode = ast.Base(ast.KindInlineHTML, p.cur.Span)
			h.Raw = p.text(p.cur)
			p.next()
			body = append(body, h)
		case lexer.T_OPEN_TAG:
			p.next()
		case lexer.T_OPEN_TAG_WITH_ECHO:
			body = append(body, p.parseShortEcho())
		case lexer.T_CLOSE_TAG:
			p.next()
		default:
			body = append(body, p.parseTopStatement())
		}
		if p.consumed == before && !p.curIs(lexer.T_EOF) {
			// 恢复逻辑没有前进：强制消耗，绝不允许死循环
			p.next()
		}
	}

	prog.Body = arena.Slice(p.arena, body)
	prog.BaseNode = ast.Base(ast.KindProgram, source.NewSpan(0, uint32(p.src.Len())))
	return prog
}

// parseShortEcho 处理 <?= expr, expr; 形式
func (p *Parser) parseShortEcho() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	e := arena.New[ast.Echo](p.arena)
	var exprs []ast.Expression
	exprs = append(exprs, p.parseExpression())
	for p.curIs(lexer.TOKEN_COMMA) {
		p.next()
		exprs = append(exprs, p.parseExpression())
	}
	e.Exprs = arena.Slice(p.arena, exprs)
	if p.curIs(lexer.TOKEN_SEMICOLON) {
		p.next()
	}
	e.BaseNode = ast.Base(ast.KindEcho, p.spanFrom(start))
	return e
}
