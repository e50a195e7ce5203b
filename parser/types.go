package parser

import (
	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
)

// parseTypeHint 类型标注入口：可空、联合、交集与 DNF 形式。
// 词法层的 & 区分保证交集只在 & 后不是变量时成立。
func (p *Parser) parseTypeHint() ast.TypeNode {
	start := p.cur.Span.Start

	if p.curIs(lexer.TOKEN_QUESTION) {
		p.next()
		n := arena.New[ast.NullableType](p.arena)
		n.Inner = p.parseTypeAtom()
		n.BaseNode = ast.Base(ast.KindNullableType, p.spanFrom(start))
		return n
	}

	first := p.parseTypeIntersection()

	if !p.curIs(lexer.TOKEN_PIPE) {
		return first
	}
	var types []ast.TypeNode
	types = append(types, first)
	for p.curIs(lexer.TOKEN_PIPE) {
		p.next()
		types = append(types, p.parseTypeIntersection())
	}
	u := arena.New[ast.UnionType](p.arena)
	u.Types = arena.Slice(p.arena, types)
	u.BaseNode = ast.Base(ast.KindUnionType, p.spanFrom(start))
	return u
}

// parseTypeIntersection 一个联合分量：原子或 A&B&C（含 DNF 的
// 带括号交集）
func (p *Parser) parseTypeIntersection() ast.TypeNode {
	start := p.cur.Span.Start
	if !p.enterNesting() {
		return p.parseTypeAtom()
	}
	defer p.leaveNesting()

	if p.curIs(lexer.TOKEN_LPAREN) {
		// DNF：(A&B)|C
		p.next()
		inner := p.parseTypeIntersection()
		if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
			p.syncToCloser(lexer.TOKEN_RPAREN)
			if p.curIs(lexer.TOKEN_RPAREN) {
				p.next()
			}
		}
		return inner
	}

	first := p.parseTypeAtom()
	if !p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		return first
	}
	var types []ast.TypeNode
	types = append(types, first)
	for p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		p.next()
		types = append(types, p.parseTypeAtom())
	}
	i := arena.New[ast.IntersectionType](p.arena)
	i.Types = arena.Slice(p.arena, types)
	i.BaseNode = ast.Base(ast.KindIntersectionType, p.spanFrom(start))
	return i
}

// parseTypeAtom 单个类型名
func (p *Parser) parseTypeAtom() ast.TypeNode {
	start := p.cur.Span.Start
	if !p.enterNesting() {
		t := arena.New[ast.NamedType](p.arena)
		n := arena.New[ast.Name](p.arena)
		n.BaseNode = ast.Base(ast.KindName, p.spanFrom(start))
		t.Name = n
		t.BaseNode = ast.Base(ast.KindNamedType, p.spanFrom(start))
		return t
	}
	defer p.leaveNesting()

	if p.curIs(lexer.TOKEN_QUESTION) {
		p.next()
		n := arena.New[ast.NullableType](p.arena)
		n.Inner = p.parseTypeAtom()
		n.BaseNode = ast.Base(ast.KindNullableType, p.spanFrom(start))
		return n
	}

	t := arena.New[ast.NamedType](p.arena)
	switch p.cur.Type {
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED,
		lexer.T_NAME_FULLY_QUALIFIED, lexer.T_NAME_RELATIVE:
		t.Name = p.parseName()
	case lexer.T_ARRAY, lexer.T_CALLABLE, lexer.T_STATIC:
		t.Name = p.parseNameFromKeyword()
	default:
		p.errorf(errors.CodeExpectedType, p.cur.Span,
			"expected type, found %s", p.cur.Type)
		n := arena.New[ast.Name](p.arena)
		n.BaseNode = ast.Base(ast.KindName, p.spanFrom(start))
		t.Name = n
	}
	t.BaseNode = ast.Base(ast.KindNamedType, p.spanFrom(start))
	return t
}
