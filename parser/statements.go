package parser

import (
	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
)

// parseTopStatement 顶层分发：声明优先，其余落到 parseStatement
func (p *Parser) parseTopStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.T_NAMESPACE:
		return p.parseNamespace()
	case lexer.T_USE:
		return p.parseUse()
	case lexer.T_CONST:
		return p.parseConstStmt()
	case lexer.T_HALT_COMPILER:
		return p.parseHaltCompiler()
	}
	return p.parseStatement()
}

// parseStatement 语句分发
func (p *Parser) parseStatement() ast.Statement {
	start := p.cur.Span.Start
	if !p.enterNesting() {
		return p.errorStmt(start)
	}
	defer p.leaveNesting()

	switch p.cur.Type {
	case lexer.TOKEN_LBRACE:
		return p.parseBlock()

	case lexer.TOKEN_SEMICOLON:
		// 空语句
		b := arena.New[ast.Block](p.arena)
		b.BaseNode = ast.Base(ast.KindBlock, p.cur.Span)
		p.next()
		return b

	case lexer.T_IF:
		return p.parseIf()
	case lexer.T_WHILE:
		return p.parseWhile()
	case lexer.T_DO:
		return p.parseDoWhile()
	case lexer.T_FOR:
		return p.parseFor()
	case lexer.T_FOREACH:
		return p.parseForeach()
	case lexer.T_SWITCH:
		return p.parseSwitch()
	case lexer.T_TRY:
		return p.parseTry()
	case lexer.T_DECLARE:
		return p.parseDeclare()

	case lexer.T_RETURN:
		p.next()
		r := arena.New[ast.Return](p.arena)
		if !p.statementEnd() {
			r.Value = p.parseExpression()
		}
		p.expectSemicolon()
		r.BaseNode = ast.Base(ast.KindReturn, p.spanFrom(start))
		return r

	case lexer.T_BREAK:
		p.next()
		b := arena.New[ast.Break](p.arena)
		if !p.statementEnd() {
			b.Level = p.parseExpression()
		}
		p.expectSemicolon()
		b.BaseNode = ast.Base(ast.KindBreak, p.spanFrom(start))
		return b

	case lexer.T_CONTINUE:
		p.next()
		c := arena.New[ast.Continue](p.arena)
		if !p.statementEnd() {
			c.Level = p.parseExpression()
		}
		p.expectSemicolon()
		c.BaseNode = ast.Base(ast.KindContinue, p.spanFrom(start))
		return c

	case lexer.T_ECHO:
		p.next()
		e := arena.New[ast.Echo](p.arena)
		var exprs []ast.Expression
		exprs = append(exprs, p.parseExpression())
		for p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			exprs = append(exprs, p.parseExpression())
		}
		e.Exprs = arena.Slice(p.arena, exprs)
		p.expectSemicolon()
		e.BaseNode = ast.Base(ast.KindEcho, p.spanFrom(start))
		return e

	case lexer.T_GLOBAL:
		p.next()
		g := arena.New[ast.Global](p.arena)
		var vars []ast.Expression
		for {
			vars = append(vars, p.parseExpr(PrecPostfix))
			if p.curIs(lexer.TOKEN_COMMA) {
				p.next()
				continue
			}
			break
		}
		g.Vars = arena.Slice(p.arena, vars)
		p.expectSemicolon()
		g.BaseNode = ast.Base(ast.KindGlobal, p.spanFrom(start))
		return g

	case lexer.T_STATIC:
		if p.peekIs(lexer.T_VARIABLE) {
			return p.parseStaticVars()
		}
		// static:: 等表达式形式
		return p.parseExpressionStatement()

	case lexer.T_UNSET:
		p.next()
		u := arena.New[ast.Unset](p.arena)
		p.expect(lexer.TOKEN_LPAREN)
		var vars []ast.Expression
		for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.T_EOF) {
			vars = append(vars, p.parseExpression())
			if p.curIs(lexer.TOKEN_COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(lexer.TOKEN_RPAREN)
		u.Vars = arena.Slice(p.arena, vars)
		p.expectSemicolon()
		u.BaseNode = ast.Base(ast.KindUnset, p.spanFrom(start))
		return u

	case lexer.T_GOTO:
		p.next()
		g := arena.New[ast.Goto](p.arena)
		g.Label = p.parseIdentifier()
		p.expectSemicolon()
		g.BaseNode = ast.Base(ast.KindGoto, p.spanFrom(start))
		return g

	case lexer.T_STRING:
		// 标签 label:（后面不能是 ::）
		if p.peekIs(lexer.TOKEN_COLON) {
			l := arena.New[ast.Label](p.arena)
			l.Name = p.parseIdentifier()
			p.next() // :
			l.BaseNode = ast.Base(ast.KindLabel, p.spanFrom(start))
			return l
		}
		return p.parseExpressionStatement()

	case lexer.T_FUNCTION:
		// function name 是声明；function ( / function & ( 是闭包表达式
		if p.peekIs(lexer.T_STRING) || lexer.CanBeMemberName(p.peek.Type) {
			return p.parseFunctionDecl(nil)
		}
		if p.peekIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
			p.peekIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
			cp := p.save()
			p.next() // function
			p.next() // &
			isDecl := p.curIs(lexer.T_STRING) || lexer.CanBeMemberName(p.cur.Type)
			p.restore(cp)
			if isDecl {
				return p.parseFunctionDecl(nil)
			}
		}
		return p.parseExpressionStatement()

	case lexer.T_ABSTRACT, lexer.T_FINAL, lexer.T_READONLY:
		return p.parseClassLike(nil)

	case lexer.T_CLASS:
		return p.parseClassLike(nil)
	case lexer.T_INTERFACE:
		return p.parseInterface(nil)
	case lexer.T_TRAIT:
		return p.parseTrait(nil)
	case lexer.T_ENUM:
		return p.parseEnum(nil)

	case lexer.T_ATTRIBUTE:
		return p.parseAttributedStatement()

	case lexer.T_INLINE_HTML:
		h := arena.New[ast.InlineHTML](p.arena)
		h.BaseNode = ast.Base(ast.KindInlineHTML, p.cur.Span)
		h.Raw = p.text(p.cur)
		p.next()
		return h

	case lexer.T_CLOSE_TAG:
		p.next()
		if p.curIs(lexer.T_EOF) {
			b := arena.New[ast.Block](p.arena)
			b.BaseNode = ast.Base(ast.KindBlock, p.spanFrom(start))
			return b
		}
		return p.parseStatement()

	case lexer.T_OPEN_TAG:
		p.next()
		if p.curIs(lexer.T_EOF) {
			b := arena.New[ast.Block](p.arena)
			b.BaseNode = ast.Base(ast.KindBlock, p.spanFrom(start))
			return b
		}
		return p.parseStatement()

	case lexer.T_OPEN_TAG_WITH_ECHO:
		return p.parseShortEcho()

	case lexer.T_ERROR, lexer.T_BAD_CHARACTER, lexer.T_UNKNOWN:
		// 词法层已报诊断，这里只消耗并占位
		p.next()
		return p.errorStmt(start)
	}

	return p.parseExpressionStatement()
}

// statementEnd 判断当前 Token 是否终结一条语句
func (p *Parser) statementEnd() bool {
	switch p.cur.Type {
	case lexer.TOKEN_SEMICOLON, lexer.T_CLOSE_TAG, lexer.T_EOF:
		return true
	}
	return false
}

// parseExpressionStatement 表达式语句；失败时构造 Error 语句并
// 同步到语句边界。
func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.cur.Span.Start
	expr := p.parseExpression()
	if _, isErr := expr.(*ast.ErrorExpr); isErr {
		p.syncStatement()
		return p.errorStmt(start)
	}
	p.expectSemicolon()
	s := arena.New[ast.ExpressionStmt](p.arena)
	s.Expr = expr
	s.BaseNode = ast.Base(ast.KindExpressionStmt, p.spanFrom(start))
	return s
}

// parseIdentifier 读取一个裸标识符（允许半保留字）
func (p *Parser) parseIdentifier() *ast.Identifier {
	id := arena.New[ast.Identifier](p.arena)
	if p.curIs(lexer.T_STRING) || lexer.CanBeMemberName(p.cur.Type) {
		id.BaseNode = ast.Base(ast.KindIdentifier, p.cur.Span)
		id.Value = p.text(p.cur)
		p.next()
		return id
	}
	p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
		"expected identifier, found %s", p.cur.Type)
	id.BaseNode = ast.Base(ast.KindIdentifier, p.cur.Span)
	return id
}

// parseBlock 解析 {...} 语句块
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Span.Start
	b := arena.New[ast.Block](p.arena)
	p.expect(lexer.TOKEN_LBRACE)
	var stmts []ast.Statement
	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.T_EOF) {
		before := p.consumed
		stmts = append(stmts, p.parseStatement())
		if p.consumed == before {
			p.next()
		}
	}
	if _, ok := p.expect(lexer.TOKEN_RBRACE); !ok {
		p.errorf(errors.CodeUnclosedDelimiter, p.spanFrom(start), "unclosed block")
	}
	b.Stmts = arena.Slice(p.arena, stmts)
	b.BaseNode = ast.Base(ast.KindBlock, p.spanFrom(start))
	return b
}

// parseAltBody 替代语法体：收集语句直到 enders 之一
func (p *Parser) parseAltBody(enders ...lexer.TokenType) *ast.Block {
	start := p.cur.Span.Start
	b := arena.New[ast.Block](p.arena)
	var stmts []ast.Statement
	for !p.curIs(lexer.T_EOF) {
		stop := false
		for _, e := range enders {
			if p.curIs(e) {
				stop = true
				break
			}
		}
		if stop {
			break
		}
		before := p.consumed
		stmts = append(stmts, p.parseStatement())
		if p.consumed == before {
			p.next()
		}
	}
	b.Stmts = arena.Slice(p.arena, stmts)
	b.BaseNode = ast.Base(ast.KindBlock, p.spanFrom(start))
	return b
}

// ============= 控制流 =============

func (p *Parser) parseParenExpr() ast.Expression {
	if _, ok := p.expect(lexer.TOKEN_LPAREN); !ok {
		return p.errorExprHere()
	}
	cond := p.parseExpression()
	if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
		p.syncToCloser(lexer.TOKEN_RPAREN)
		if p.curIs(lexer.TOKEN_RPAREN) {
			p.next()
		}
	}
	return cond
}

func (p *Parser) parseIf() ast.Statement {
	start := p.cur.Span.Start
	p.next() // if
	s := arena.New[ast.If](p.arena)
	s.Cond = p.parseParenExpr()

	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		s.Alt = true
		s.Then = p.parseAltBody(lexer.T_ELSEIF, lexer.T_ELSE, lexer.T_ENDIF)
		s.Else = p.parseAltElse()
		if p.curIs(lexer.T_ENDIF) {
			p.next()
			p.expectSemicolon()
		} else {
			p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected endif, found %s", p.cur.Type)
		}
		s.BaseNode = ast.Base(ast.KindIf, p.spanFrom(start))
		return s
	}

	s.Then = p.parseStatement()
	switch p.cur.Type {
	case lexer.T_ELSEIF:
		s.Else = p.parseElseIfChain()
	case lexer.T_ELSE:
		p.next()
		s.Else = p.parseStatement()
	}
	s.BaseNode = ast.Base(ast.KindIf, p.spanFrom(start))
	return s
}

// parseElseIfChain elseif 链转换为嵌套 If
func (p *Parser) parseElseIfChain() ast.Statement {
	start := p.cur.Span.Start
	p.next() // elseif
	s := arena.New[ast.If](p.arena)
	s.Cond = p.parseParenExpr()
	s.Then = p.parseStatement()
	switch p.cur.Type {
	case lexer.T_ELSEIF:
		s.Else = p.parseElseIfChain()
	case lexer.T_ELSE:
		p.next()
		s.Else = p.parseStatement()
	}
	s.BaseNode = ast.Base(ast.KindIf, p.spanFrom(start))
	return s
}

// parseAltElse 替代语法中的 elseif/else 链
func (p *Parser) parseAltElse() ast.Statement {
	switch p.cur.Type {
	case lexer.T_ELSEIF:
		start := p.cur.Span.Start
		p.next()
		s := arena.New[ast.If](p.arena)
		s.Alt = true
		s.Cond = p.parseParenExpr()
		p.expect(lexer.TOKEN_COLON)
		s.Then = p.parseAltBody(lexer.T_ELSEIF, lexer.T_ELSE, lexer.T_ENDIF)
		s.Else = p.parseAltElse()
		s.BaseNode = ast.Base(ast.KindIf, p.spanFrom(start))
		return s
	case lexer.T_ELSE:
		p.next()
		p.expect(lexer.TOKEN_COLON)
		return p.parseAltBody(lexer.T_ENDIF)
	}
	return nil
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	s := arena.New[ast.While](p.arena)
	s.Cond = p.parseParenExpr()
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		s.Alt = true
		s.Body = p.parseAltBody(lexer.T_ENDWHILE)
		if p.curIs(lexer.T_ENDWHILE) {
			p.next()
			p.expectSemicolon()
		} else {
			p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected endwhile, found %s", p.cur.Type)
		}
	} else {
		s.Body = p.parseStatement()
	}
	s.BaseNode = ast.Base(ast.KindWhile, p.spanFrom(start))
	return s
}

func (p *Parser) parseDoWhile() ast.Statement {
	start := p.cur.Span.Start
	p.next() // do
	s := arena.New[ast.DoWhile](p.arena)
	s.Body = p.parseStatement()
	if _, ok := p.expect(lexer.T_WHILE); !ok {
		p.syncStatement()
		s.Cond = p.errorExprHere()
		s.BaseNode = ast.Base(ast.KindDoWhile, p.spanFrom(start))
		return s
	}
	s.Cond = p.parseParenExpr()
	p.expectSemicolon()
	s.BaseNode = ast.Base(ast.KindDoWhile, p.spanFrom(start))
	return s
}

func (p *Parser) parseExprList(enders ...lexer.TokenType) []ast.Expression {
	var exprs []ast.Expression
	for {
		stop := p.curIs(lexer.T_EOF)
		for _, e := range enders {
			if p.curIs(e) {
				stop = true
			}
		}
		if stop {
			break
		}
		exprs = append(exprs, p.parseExpression())
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	return arena.Slice(p.arena, exprs)
}

func (p *Parser) parseFor() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	s := arena.New[ast.For](p.arena)
	p.expect(lexer.TOKEN_LPAREN)
	s.Init = p.parseExprList(lexer.TOKEN_SEMICOLON)
	p.expect(lexer.TOKEN_SEMICOLON)
	s.Cond = p.parseExprList(lexer.TOKEN_SEMICOLON)
	p.expect(lexer.TOKEN_SEMICOLON)
	s.Loop = p.parseExprList(lexer.TOKEN_RPAREN)
	if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
		p.syncToCloser(lexer.TOKEN_RPAREN)
		if p.curIs(lexer.TOKEN_RPAREN) {
			p.next()
		}
	}
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		s.Alt = true
		s.Body = p.parseAltBody(lexer.T_ENDFOR)
		if p.curIs(lexer.T_ENDFOR) {
			p.next()
			p.expectSemicolon()
		} else {
			p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected endfor, found %s", p.cur.Type)
		}
	} else {
		s.Body = p.parseStatement()
	}
	s.BaseNode = ast.Base(ast.KindFor, p.spanFrom(start))
	return s
}

func (p *Parser) parseForeach() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	s := arena.New[ast.Foreach](p.arena)
	p.expect(lexer.TOKEN_LPAREN)
	s.Subject = p.parseExpression()
	p.expect(lexer.T_AS)

	first := p.parseForeachTarget()
	if p.curIs(lexer.T_DOUBLE_ARROW) {
		p.next()
		s.KeyVar = first
		if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
			p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
			s.ByRef = true
			p.next()
		}
		s.ValueVar = p.parseForeachTarget()
	} else {
		s.ValueVar = first
	}

	if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
		p.syncToCloser(lexer.TOKEN_RPAREN)
		if p.curIs(lexer.TOKEN_RPAREN) {
			p.next()
		}
	}
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		s.Alt = true
		s.Body = p.parseAltBody(lexer.T_ENDFOREACH)
		if p.curIs(lexer.T_ENDFOREACH) {
			p.next()
			p.expectSemicolon()
		} else {
			p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected endforeach, found %s", p.cur.Type)
		}
	} else {
		s.Body = p.parseStatement()
	}
	s.BaseNode = ast.Base(ast.KindForeach, p.spanFrom(start))
	return s
}

// parseForeachTarget 值位置：&$v、list(...)、[...] 或一般变量表达式
func (p *Parser) parseForeachTarget() ast.Expression {
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		p.next()
		return p.parseExpr(PrecPostfix)
	}
	if p.curIs(lexer.T_LIST) {
		return p.parseListExpr()
	}
	if p.curIs(lexer.TOKEN_LBRACKET) {
		return p.parseArrayLiteral(lexer.TOKEN_LBRACKET)
	}
	return p.parseExpression()
}

func (p *Parser) parseSwitch() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	s := arena.New[ast.Switch](p.arena)
	s.Subject = p.parseParenExpr()

	ender := lexer.TOKEN_RBRACE
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		s.Alt = true
		ender = lexer.T_ENDSWITCH
	} else {
		p.expect(lexer.TOKEN_LBRACE)
	}

	var cases []*ast.SwitchCase
	for !p.curIs(ender) && !p.curIs(lexer.T_EOF) {
		before := p.consumed
		switch p.cur.Type {
		case lexer.T_CASE:
			cstart := p.cur.Span.Start
			p.next()
			c := arena.New[ast.SwitchCase](p.arena)
			c.Cond = p.parseExpression()
			if p.curIs(lexer.TOKEN_COLON) || p.curIs(lexer.TOKEN_SEMICOLON) {
				p.next()
			} else {
				p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected \":\", found %s", p.cur.Type)
			}
			c.Stmts = p.parseCaseBody(ender)
			c.BaseNode = ast.Base(ast.KindSwitchCase, p.spanFrom(cstart))
			cases = append(cases, c)
		case lexer.T_DEFAULT:
			cstart := p.cur.Span.Start
			p.next()
			c := arena.New[ast.SwitchCase](p.arena)
			if p.curIs(lexer.TOKEN_COLON) || p.curIs(lexer.TOKEN_SEMICOLON) {
				p.next()
			}
			c.Stmts = p.parseCaseBody(ender)
			c.BaseNode = ast.Base(ast.KindSwitchCase, p.spanFrom(cstart))
			cases = append(cases, c)
		default:
			p.errorf(errors.CodeUnexpectedToken, p.cur.Span,
				"expected case or default, found %s", p.cur.Type)
			p.syncStatement()
		}
		if p.consumed == before {
			p.next()
		}
	}
	if p.curIs(ender) {
		p.next()
		if s.Alt {
			p.expectSemicolon()
		}
	}
	s.Cases = arena.Slice(p.arena, cases)
	s.BaseNode = ast.Base(ast.KindSwitch, p.spanFrom(start))
	return s
}

func (p *Parser) parseCaseBody(ender lexer.TokenType) []ast.Statement {
	var stmts []ast.Statement
	for !p.curIs(lexer.T_CASE) && !p.curIs(lexer.T_DEFAULT) &&
		!p.curIs(ender) && !p.curIs(lexer.T_EOF) {
		before := p.consumed
		stmts = append(stmts, p.parseStatement())
		if p.consumed == before {
			p.next()
		}
	}
	return arena.Slice(p.arena, stmts)
}

func (p *Parser) parseTry() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	s := arena.New[ast.Try](p.arena)
	s.Body = p.parseBlock()

	var catches []*ast.Catch
	for p.curIs(lexer.T_CATCH) {
		cstart := p.cur.Span.Start
		p.next()
		c := arena.New[ast.Catch](p.arena)
		p.expect(lexer.TOKEN_LPAREN)
		var types []*ast.Name
		for {
			switch p.cur.Type {
			case lexer.T_STRING, lexer.T_NAME_QUALIFIED,
				lexer.T_NAME_FULLY_QUALIFIED, lexer.T_NAME_RELATIVE:
				types = append(types, p.parseName())
			default:
				p.errorf(errors.CodeExpectedType, p.cur.Span,
					"expected exception type, found %s", p.cur.Type)
			}
			if p.curIs(lexer.TOKEN_PIPE) {
				p.next()
				continue
			}
			break
		}
		c.Types = arena.Slice(p.arena, types)
		if p.curIs(lexer.T_VARIABLE) {
			c.Var = p.parseVariable()
		}
		if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
			p.syncToCloser(lexer.TOKEN_RPAREN)
			if p.curIs(lexer.TOKEN_RPAREN) {
				p.next()
			}
		}
		c.Body = p.parseBlock()
		c.BaseNode = ast.Base(ast.KindCatch, p.spanFrom(cstart))
		catches = append(catches, c)
	}
	s.Catches = arena.Slice(p.arena, catches)

	if p.curIs(lexer.T_FINALLY) {
		p.next()
		s.Finally = p.parseBlock()
	}
	if len(s.Catches) == 0 && s.Finally == nil {
		p.errorf(errors.CodeExpectedToken, p.cur.Span,
			"try without catch or finally")
	}
	s.BaseNode = ast.Base(ast.KindTry, p.spanFrom(start))
	return s
}

func (p *Parser) parseDeclare() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	s := arena.New[ast.Declare](p.arena)
	p.expect(lexer.TOKEN_LPAREN)
	var dirs []*ast.DeclareDirective
	for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.T_EOF) {
		dstart := p.cur.Span.Start
		d := arena.New[ast.DeclareDirective](p.arena)
		d.Name = p.parseIdentifier()
		p.expect(lexer.TOKEN_EQUAL)
		d.Value = p.parseExpression()
		d.BaseNode = ast.Base(ast.KindDeclareDirective, p.spanFrom(dstart))
		dirs = append(dirs, d)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.TOKEN_RPAREN)
	s.Directives = arena.Slice(p.arena, dirs)

	switch p.cur.Type {
	case lexer.TOKEN_SEMICOLON:
		p.next()
	case lexer.TOKEN_COLON:
		p.next()
		s.Alt = true
		s.Body = p.parseAltBody(lexer.T_ENDDECLARE)
		if p.curIs(lexer.T_ENDDECLARE) {
			p.next()
			p.expectSemicolon()
		} else {
			p.errorf(errors.CodeExpectedToken, p.cur.Span, "expected enddeclare, found %s", p.cur.Type)
		}
	default:
		s.Body = p.parseStatement()
	}
	s.BaseNode = ast.Base(ast.KindDeclare, p.spanFrom(start))
	return s
}

func (p *Parser) parseStaticVars() ast.Statement {
	start := p.cur.Span.Start
	p.next() // static
	s := arena.New[ast.StaticStmt](p.arena)
	var vars []*ast.StaticVar
	for {
		vstart := p.cur.Span.Start
		v := arena.New[ast.StaticVar](p.arena)
		if p.curIs(lexer.T_VARIABLE) {
			v.Var = p.parseVariable()
		} else {
			p.errorf(errors.CodeExpectedToken, p.cur.Span,
				"expected variable, found %s", p.cur.Type)
			break
		}
		if p.curIs(lexer.TOKEN_EQUAL) {
			p.next()
			v.Default = p.parseExpression()
		}
		v.BaseNode = ast.Base(ast.KindStaticVar, p.spanFrom(vstart))
		vars = append(vars, v)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	s.Vars = arena.Slice(p.arena, vars)
	p.expectSemicolon()
	s.BaseNode = ast.Base(ast.KindStaticStmt, p.spanFrom(start))
	return s
}

// ============= 命名空间与导入 =============

func (p *Parser) parseNamespace() ast.Statement {
	start := p.cur.Span.Start
	p.next()
	s := arena.New[ast.Namespace](p.arena)
	switch p.cur.Type {
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED:
		s.Name = p.parseName()
	}
	if p.curIs(lexer.TOKEN_LBRACE) {
		s.Body = p.parseBlock()
	} else {
		p.expectSemicolon()
	}
	s.BaseNode = ast.Base(ast.KindNamespace, p.spanFrom(start))
	return s
}

func (p *Parser) parseUseKind() ast.UseKind {
	switch p.cur.Type {
	case lexer.T_FUNCTION:
		p.next()
		return ast.UseFunction
	case lexer.T_CONST:
		p.next()
		return ast.UseConst
	}
	return ast.UseNormal
}

func (p *Parser) parseUse() ast.Statement {
	start := p.cur.Span.Start
	p.next() // use
	s := arena.New[ast.Use](p.arena)
	s.UseKind = p.parseUseKind()

	var clauses []*ast.UseClause
	for {
		var name *ast.Name
		switch p.cur.Type {
		case lexer.T_STRING, lexer.T_NAME_QUALIFIED, lexer.T_NAME_FULLY_QUALIFIED:
			name = p.parseName()
		default:
			p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
				"expected import name, found %s", p.cur.Type)
			p.syncStatement()
			s.Clauses = arena.Slice(p.arena, clauses)
			s.BaseNode = ast.Base(ast.KindUse, p.spanFrom(start))
			return s
		}

		// 组导入 use A\B\{...};
		if p.curIs(lexer.T_NS_SEPARATOR) && p.peekIs(lexer.TOKEN_LBRACE) {
			p.next()
			p.next()
			s.Prefix = name
			for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.T_EOF) {
				clauses = append(clauses, p.parseUseClause(true))
				if p.curIs(lexer.TOKEN_COMMA) {
					p.next()
					continue
				}
				break
			}
			p.expect(lexer.TOKEN_RBRACE)
			break
		}

		cstart := name.GetSpan().Start
		c := arena.New[ast.UseClause](p.arena)
		c.UseKind = s.UseKind
		c.Name = name
		if p.curIs(lexer.T_AS) {
			p.next()
			c.Alias = p.parseIdentifier()
		}
		c.BaseNode = ast.Base(ast.KindUseClause, p.spanFrom(cstart))
		clauses = append(clauses, c)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}

	p.expectSemicolon()
	s.Clauses = arena.Slice(p.arena, clauses)
	s.BaseNode = ast.Base(ast.KindUse, p.spanFrom(start))
	return s
}

// parseUseClause 组导入内的一项，可带自身的 function/const 前缀
func (p *Parser) parseUseClause(inGroup bool) *ast.UseClause {
	start := p.cur.Span.Start
	c := arena.New[ast.UseClause](p.arena)
	if inGroup {
		c.UseKind = p.parseUseKind()
	}
	switch p.cur.Type {
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED:
		c.Name = p.parseName()
	default:
		p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
			"expected import name, found %s", p.cur.Type)
	}
	if p.curIs(lexer.T_AS) {
		p.next()
		c.Alias = p.parseIdentifier()
	}
	c.BaseNode = ast.Base(ast.KindUseClause, p.spanFrom(start))
	return c
}

func (p *Parser) parseConstStmt() ast.Statement {
	start := p.cur.Span.Start
	p.next() // const
	s := arena.New[ast.ConstStmt](p.arena)
	var consts []*ast.ConstDecl
	for {
		cstart := p.cur.Span.Start
		c := arena.New[ast.ConstDecl](p.arena)
		c.Name = p.parseIdentifier()
		p.expect(lexer.TOKEN_EQUAL)
		c.Value = p.parseExpression()
		c.BaseNode = ast.Base(ast.KindConstDecl, p.spanFrom(cstart))
		consts = append(consts, c)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	s.Consts = arena.Slice(p.arena, consts)
	p.expectSemicolon()
	s.BaseNode = ast.Base(ast.KindConstStmt, p.spanFrom(start))
	return s
}

// parseHaltCompiler 词法层把 __halt_compiler(); 整体作为单个 Token
// 接受，其后的输入是单个原始尾部 Token
func (p *Parser) parseHaltCompiler() ast.Statement {
	start := p.cur.Span.Start
	span := p.cur.Span
	p.next()
	s := arena.New[ast.HaltCompiler](p.arena)
	if span.Len() == len("__halt_compiler") {
		// 词法层没有接受到 ( ) ;
		p.errorf(errors.CodeExpectedToken, p.cur.Span,
			"expected \"();\" after __halt_compiler")
		p.syncStatement()
	} else if p.curIs(lexer.T_INLINE_HTML) {
		s.Remaining = p.text(p.cur)
		p.next()
	}
	s.BaseNode = ast.Base(ast.KindHaltCompiler, p.spanFrom(start))
	return s
}
