package parser

import (
	"strconv"

	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
	"github.com/wudi/php-parser/source"
)

// parseInterpolated 解析双引号字符串与反引号命令：交替的文本片段
// 和受限形式的嵌入表达式编织为一个列表。
func (p *Parser) parseInterpolated(closing lexer.TokenType, kind ast.Kind) ast.Expression {
	start := p.cur.Span.Start
	p.next() // 开引号

	var parts []ast.Expression
	for !p.curIs(closing) && !p.curIs(lexer.T_EOF) && !p.curIs(lexer.T_ERROR) {
		before := p.consumed
		parts = append(parts, p.parseEncapsedPart())
		if p.consumed == before {
			p.next()
		}
	}
	if p.curIs(lexer.T_ERROR) {
		p.next()
	} else if p.curIs(closing) {
		p.next()
	}

	if kind == ast.KindShellExec {
		s := arena.New[ast.ShellExec](p.arena)
		s.Parts = arena.Slice(p.arena, parts)
		s.BaseNode = ast.Base(ast.KindShellExec, p.spanFrom(start))
		return s
	}
	s := arena.New[ast.InterpString](p.arena)
	s.Parts = arena.Slice(p.arena, parts)
	s.BaseNode = ast.Base(ast.KindInterpString, p.spanFrom(start))
	return s
}

// parseEncapsedPart 插值字符串中的一个片段或嵌入表达式
func (p *Parser) parseEncapsedPart() ast.Expression {
	switch p.cur.Type {
	case lexer.T_ENCAPSED_AND_WHITESPACE:
		f := arena.New[ast.StringFragment](p.arena)
		f.BaseNode = ast.Base(ast.KindStringFragment, p.cur.Span)
		f.Raw = p.text(p.cur)
		p.next()
		return f

	case lexer.T_VARIABLE:
		return p.parseEncapsedVariable()

	case lexer.T_CURLY_OPEN:
		// {$expr}：大括号内回到完整表达式语法
		p.next()
		inner := p.parseExpression()
		p.expect(lexer.TOKEN_RBRACE)
		return inner

	case lexer.T_DOLLAR_OPEN_CURLY_BRACES:
		return p.parseDollarCurly()
	}

	p.errorf(errors.CodeInvalidEncapsedTarget, p.cur.Span,
		"unexpected %s in interpolated string", p.cur.Type)
	e := p.errorExprHere()
	p.next()
	return e
}

// parseEncapsedVariable $var、$var[dim]、$var->prop 三种简单形式
func (p *Parser) parseEncapsedVariable() ast.Expression {
	start := p.cur.Span.Start
	v := p.parseVariable()

	switch p.cur.Type {
	case lexer.TOKEN_LBRACKET:
		p.next()
		d := arena.New[ast.ArrayDim](p.arena)
		d.Var = v
		d.Dim = p.parseEncapsedOffset()
		p.expect(lexer.TOKEN_RBRACKET)
		d.BaseNode = ast.Base(ast.KindArrayDim, p.spanFrom(start))
		return d

	case lexer.T_OBJECT_OPERATOR:
		p.next()
		f := arena.New[ast.PropertyFetch](p.arena)
		f.Object = v
		id := arena.New[ast.Identifier](p.arena)
		if p.curIs(lexer.T_STRING) {
			id.BaseNode = ast.Base(ast.KindIdentifier, p.cur.Span)
			id.Value = p.text(p.cur)
			p.next()
		} else {
			p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
				"expected property name, found %s", p.cur.Type)
			id.BaseNode = ast.Base(ast.KindIdentifier, source.NewSpan(p.cur.Span.Start, p.cur.Span.Start))
		}
		f.Property = id
		f.BaseNode = ast.Base(ast.KindPropertyFetch, p.spanFrom(start))
		return f
	}
	return v
}

// parseEncapsedOffset "$a[...]" 内的受限下标：数字、裸字符串或变量
func (p *Parser) parseEncapsedOffset() ast.Expression {
	neg := false
	nstart := p.cur.Span.Start
	if p.curIs(lexer.TOKEN_MINUS) {
		neg = true
		p.next()
	}
	switch p.cur.Type {
	case lexer.T_NUM_STRING:
		raw := p.text(p.cur)
		span := source.NewSpan(nstart, p.cur.Span.End)
		p.next()
		v, _ := strconv.ParseInt(stripUnderscores(raw), 0, 64)
		if neg {
			v = -v
		}
		lit := arena.New[ast.IntLit](p.arena)
		lit.BaseNode = ast.Base(ast.KindIntLit, span)
		lit.Raw = raw
		lit.Value = v
		return lit
	case lexer.T_STRING:
		// 裸下标按字符串常量处理
		lit := arena.New[ast.StringLit](p.arena)
		lit.BaseNode = ast.Base(ast.KindStringLit, p.cur.Span)
		lit.Raw = p.text(p.cur)
		p.next()
		return lit
	case lexer.T_VARIABLE:
		return p.parseVariable()
	}
	p.errorf(errors.CodeInvalidEncapsedTarget, p.cur.Span,
		"unexpected %s in string offset", p.cur.Type)
	return p.errorExprHere()
}

// parseDollarCurly ${name}、${name[dim]} 与 ${expr}
func (p *Parser) parseDollarCurly() ast.Expression {
	start := p.cur.Span.Start
	p.next() // ${

	if p.curIs(lexer.T_STRING_VARNAME) {
		v := arena.New[ast.Variable](p.arena)
		v.BaseNode = ast.Base(ast.KindVariable, p.cur.Span)
		v.Name = p.text(p.cur)
		p.next()
		if p.curIs(lexer.TOKEN_LBRACKET) {
			p.next()
			d := arena.New[ast.ArrayDim](p.arena)
			d.Var = v
			d.Dim = p.parseExpression()
			p.expect(lexer.TOKEN_RBRACKET)
			p.expect(lexer.TOKEN_RBRACE)
			d.BaseNode = ast.Base(ast.KindArrayDim, p.spanFrom(start))
			return d
		}
		p.expect(lexer.TOKEN_RBRACE)
		return v
	}

	vv := arena.New[ast.VariableVariable](p.arena)
	vv.Inner = p.parseExpression()
	p.expect(lexer.TOKEN_RBRACE)
	vv.BaseNode = ast.Base(ast.KindVariableVariable, p.spanFrom(start))
	return vv
}

// ============= Heredoc / Nowdoc =============

// parseHeredoc heredoc 与 nowdoc。heredoc 中关闭标签的缩进按 PHP 7.3
// 规则从每个行首片段统一剥离；nowdoc 正文保持原样，不剥离缩进。
func (p *Parser) parseHeredoc() ast.Expression {
	start := p.cur.Span.Start
	opener := p.text(p.cur)
	nowdoc := false
	for _, b := range opener {
		if b == '\'' {
			nowdoc = true
			break
		}
		if b == '"' || b == '\n' {
			break
		}
	}
	p.next() // T_START_HEREDOC

	var rawParts []ast.Expression
	for !p.curIs(lexer.T_END_HEREDOC) && !p.curIs(lexer.T_EOF) && !p.curIs(lexer.T_ERROR) {
		before := p.consumed
		rawParts = append(rawParts, p.parseEncapsedPart())
		if p.consumed == before {
			p.next()
		}
	}

	indent := 0
	if p.curIs(lexer.T_END_HEREDOC) {
		for _, b := range p.text(p.cur) {
			if b == ' ' || b == '\t' {
				indent++
				continue
			}
			break
		}
		p.next()
	} else if p.curIs(lexer.T_ERROR) {
		p.next()
	}

	if nowdoc {
		// Nowdoc 正文保持原始字节（单一连续切片），缩进不剥离
		indent = 0
	}
	parts := p.weaveHeredocParts(rawParts, indent)

	if nowdoc {
		lit := arena.New[ast.StringLit](p.arena)
		var raw []byte
		span := p.spanFrom(start)
		if len(parts) == 1 {
			if f, ok := parts[0].(*ast.StringFragment); ok {
				raw = f.Raw
			}
		}
		lit.BaseNode = ast.Base(ast.KindStringLit, span)
		lit.Raw = raw
		return lit
	}

	// 只剩单个文本片段的纯文本 heredoc 折叠为字符串字面量；剥离缩进后
	// 切成多行片段的正文仍是 InterpString
	if len(parts) == 1 {
		if f, ok := parts[0].(*ast.StringFragment); ok {
			lit := arena.New[ast.StringLit](p.arena)
			lit.BaseNode = ast.Base(ast.KindStringLit, p.spanFrom(start))
			lit.Raw = f.Raw
			return lit
		}
	}

	s := arena.New[ast.InterpString](p.arena)
	s.Parts = arena.Slice(p.arena, parts)
	s.BaseNode = ast.Base(ast.KindInterpString, p.spanFrom(start))
	return s
}

// weaveHeredocParts 处理缩进剥离和结尾换行：文本片段按行切开，
// 行首片段剥掉关闭标签的缩进；关闭标签前的最后一个换行不属于
// 内容。
func (p *Parser) weaveHeredocParts(rawParts []ast.Expression, indent int) []ast.Expression {
	var parts []ast.Expression
	for _, part := range rawParts {
		f, ok := part.(*ast.StringFragment)
		if !ok {
			parts = append(parts, part)
			continue
		}
		parts = append(parts, p.splitFragment(f, indent)...)
	}

	// 去掉最后片段的结尾换行
	if n := len(parts); n > 0 {
		if f, ok := parts[n-1].(*ast.StringFragment); ok {
			raw := f.Raw
			end := f.Span.End
			if ln := len(raw); ln > 0 && raw[ln-1] == '\n' {
				cut := 1
				if ln > 1 && raw[ln-2] == '\r' {
					cut = 2
				}
				raw = raw[:ln-cut]
				end -= uint32(cut)
			}
			if len(raw) == 0 {
				parts = parts[:n-1]
			} else {
				nf := arena.New[ast.StringFragment](p.arena)
				nf.BaseNode = ast.Base(ast.KindStringFragment, source.NewSpan(f.Span.Start, end))
				nf.Raw = raw
				parts[n-1] = nf
			}
		}
	}
	return parts
}

// splitFragment 把文本片段按行切开并剥离行首缩进。每个子片段仍是
// 源缓冲区的连续切片，保持零拷贝。
func (p *Parser) splitFragment(f *ast.StringFragment, indent int) []ast.Expression {
	raw := f.Raw
	base := f.Span.Start
	src := p.src.Bytes()
	atLineStart := base == 0 || (int(base) <= len(src) && int(base) > 0 && src[base-1] == '\n')

	if indent == 0 || len(raw) == 0 {
		// 无缩进时保持原片段
		return []ast.Expression{f}
	}

	var out []ast.Expression
	ls := 0
	for ls < len(raw) {
		le := ls
		for le < len(raw) && raw[le] != '\n' {
			le++
		}
		if le < len(raw) {
			le++ // 包含换行
		}
		strip := 0
		if atLineStart {
			for strip < indent && ls+strip < le {
				b := raw[ls+strip]
				if b != ' ' && b != '\t' {
					break
				}
				strip++
			}
		}
		if ls+strip < le {
			nf := arena.New[ast.StringFragment](p.arena)
			nf.BaseNode = ast.Base(ast.KindStringFragment,
				source.NewSpan(base+uint32(ls+strip), base+uint32(le)))
			nf.Raw = raw[ls+strip : le]
			out = append(out, nf)
		}
		atLineStart = true
		ls = le
	}
	return out
}
