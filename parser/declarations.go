package parser

import (
	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
	"github.com/wudi/php-parser/source"
)

// ============= 属性 (Attributes) =============

// parseAttributeGroups 解析连续的 #[...] 组
func (p *Parser) parseAttributeGroups() []*ast.AttributeGroup {
	var groups []*ast.AttributeGroup
	for p.curIs(lexer.T_ATTRIBUTE) {
		groups = append(groups, p.parseAttributeGroup())
	}
	return arena.Slice(p.arena, groups)
}

func (p *Parser) parseAttributeGroup() *ast.AttributeGroup {
	start := p.cur.Span.Start
	p.next() // #[
	g := arena.New[ast.AttributeGroup](p.arena)
	var attrs []*ast.Attribute
	for !p.curIs(lexer.TOKEN_RBRACKET) && !p.curIs(lexer.T_EOF) {
		astart := p.cur.Span.Start
		a := arena.New[ast.Attribute](p.arena)
		switch p.cur.Type {
		case lexer.T_STRING, lexer.T_NAME_QUALIFIED,
			lexer.T_NAME_FULLY_QUALIFIED, lexer.T_NAME_RELATIVE:
			a.Name = p.parseName()
		default:
			p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
				"expected attribute name, found %s", p.cur.Type)
			p.syncToCloser(lexer.TOKEN_RBRACKET)
		}
		if p.curIs(lexer.TOKEN_LPAREN) {
			a.Args, _ = p.parseArguments()
		}
		a.BaseNode = ast.Base(ast.KindAttribute, p.spanFrom(astart))
		attrs = append(attrs, a)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.TOKEN_RBRACKET); !ok {
		p.syncToCloser(lexer.TOKEN_RBRACKET)
		if p.curIs(lexer.TOKEN_RBRACKET) {
			p.next()
		}
	}
	g.Attrs = arena.Slice(p.arena, attrs)
	g.BaseNode = ast.Base(ast.KindAttributeGroup, p.spanFrom(start))
	return g
}

// parseAttributedStatement #[...] 之后必须是声明
func (p *Parser) parseAttributedStatement() ast.Statement {
	start := p.cur.Span.Start
	attrs := p.parseAttributeGroups()
	switch p.cur.Type {
	case lexer.T_FUNCTION:
		return p.parseFunctionDecl(attrs)
	case lexer.T_CLASS, lexer.T_ABSTRACT, lexer.T_FINAL, lexer.T_READONLY:
		return p.parseClassLikeWith(attrs)
	case lexer.T_INTERFACE:
		return p.parseInterface(attrs)
	case lexer.T_TRAIT:
		return p.parseTrait(attrs)
	case lexer.T_ENUM:
		return p.parseEnum(attrs)
	}
	p.errorf(errors.CodeExpectedStatement, p.cur.Span,
		"expected declaration after attributes, found %s", p.cur.Type)
	p.syncStatement()
	return p.errorStmt(start)
}

// ============= 函数与形参 =============

func (p *Parser) parseFunctionDecl(attrs []*ast.AttributeGroup) ast.Statement {
	start := p.declStart(attrs)
	p.next() // function
	f := arena.New[ast.FunctionDecl](p.arena)
	f.Attributes = attrs
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		f.ByRef = true
		p.next()
	}
	f.Name = p.parseIdentifier()
	f.Params = p.parseParams()
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		f.ReturnType = p.parseTypeHint()
	}
	f.Body = p.parseBlock()
	f.BaseNode = ast.Base(ast.KindFunctionDecl, p.spanFrom(start))
	return f
}

func (p *Parser) declStart(attrs []*ast.AttributeGroup) uint32 {
	if len(attrs) > 0 {
		return attrs[0].GetSpan().Start
	}
	return p.cur.Span.Start
}

// parseParams 解析 ( 形参列表 )
func (p *Parser) parseParams() []*ast.Param {
	if _, ok := p.expect(lexer.TOKEN_LPAREN); !ok {
		return nil
	}
	var params []*ast.Param
	for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.T_EOF) {
		before := p.consumed
		params = append(params, p.parseParam())
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		if p.consumed == before {
			// 形参没有前进：跳出由闭合恢复兜底
			break
		}
		if !p.curIs(lexer.TOKEN_RPAREN) {
			break
		}
	}
	if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
		p.syncToCloser(lexer.TOKEN_RPAREN)
		if p.curIs(lexer.TOKEN_RPAREN) {
			p.next()
		}
	}
	return arena.Slice(p.arena, params)
}

// parseParam 单个形参；携带可见性修饰符时是构造器属性提升，
// 提升形参还可以有属性钩子。
func (p *Parser) parseParam() *ast.Param {
	start := p.cur.Span.Start
	param := arena.New[ast.Param](p.arena)
	param.Attributes = p.parseAttributeGroups()
	if len(param.Attributes) > 0 {
		start = param.Attributes[0].GetSpan().Start
	}

	// 提升修饰符：按 Token 字面记录，合法性交给语义层
	for {
		mod, span, ok := p.modifierAt()
		if !ok {
			break
		}
		p.addModifier(&param.Modifiers, mod, span)
		p.next()
	}

	if p.typeStart() {
		param.Type = p.parseTypeHint()
	}
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		param.ByRef = true
		p.next()
	}
	if p.curIs(lexer.T_ELLIPSIS) {
		param.Variadic = true
		p.next()
	}
	if p.curIs(lexer.T_VARIABLE) {
		param.Var = p.parseVariable()
	} else {
		p.errorf(errors.CodeExpectedToken, p.cur.Span,
			"expected parameter variable, found %s", p.cur.Type)
		v := arena.New[ast.Variable](p.arena)
		v.BaseNode = ast.Base(ast.KindVariable, source.NewSpan(p.cur.Span.Start, p.cur.Span.Start))
		param.Var = v
	}
	if p.curIs(lexer.TOKEN_EQUAL) {
		p.next()
		param.Default = p.parseExpression()
	}
	if p.curIs(lexer.TOKEN_LBRACE) && param.Modifiers != 0 {
		// 提升属性上的钩子列表
		param.Hooks = p.parseHookList()
	}
	param.BaseNode = ast.Base(ast.KindParam, p.spanFrom(start))
	return param
}

// typeStart 判断当前 Token 能否开始一个类型标注
func (p *Parser) typeStart() bool {
	switch p.cur.Type {
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED, lexer.T_NAME_FULLY_QUALIFIED,
		lexer.T_NAME_RELATIVE, lexer.T_ARRAY, lexer.T_CALLABLE, lexer.T_STATIC,
		lexer.TOKEN_QUESTION, lexer.TOKEN_LPAREN:
		return true
	}
	return false
}

// ============= 类与接口 =============

// modifierAt 把当前 Token 映射为修饰符位
func (p *Parser) modifierAt() (ast.Modifier, source.Span, bool) {
	var m ast.Modifier
	switch p.cur.Type {
	case lexer.T_PUBLIC:
		m = ast.ModPublic
	case lexer.T_PROTECTED:
		m = ast.ModProtected
	case lexer.T_PRIVATE:
		m = ast.ModPrivate
	case lexer.T_PUBLIC_SET:
		m = ast.ModPublicSet
	case lexer.T_PROTECTED_SET:
		m = ast.ModProtectedSet
	case lexer.T_PRIVATE_SET:
		m = ast.ModPrivateSet
	case lexer.T_STATIC:
		m = ast.ModStatic
	case lexer.T_ABSTRACT:
		m = ast.ModAbstract
	case lexer.T_FINAL:
		m = ast.ModFinal
	case lexer.T_READONLY:
		m = ast.ModReadonly
	case lexer.T_VAR:
		m = ast.ModVar
	default:
		return 0, source.Span{}, false
	}
	return m, p.cur.Span, true
}

func (p *Parser) addModifier(set *ast.Modifier, m ast.Modifier, span source.Span) {
	if set.Has(m) {
		p.errorf(errors.CodeDuplicateModifier, span, "duplicate modifier %s", m)
		return
	}
	*set |= m
}

// parseClassLike 顶层 class 及其修饰符前缀
func (p *Parser) parseClassLike(attrs []*ast.AttributeGroup) ast.Statement {
	return p.parseClassLikeWith(attrs)
}

func (p *Parser) parseClassLikeWith(attrs []*ast.AttributeGroup) ast.Statement {
	start := p.declStart(attrs)
	var mods ast.Modifier
	for {
		switch p.cur.Type {
		case lexer.T_ABSTRACT:
			p.addModifier(&mods, ast.ModAbstract, p.cur.Span)
			p.next()
			continue
		case lexer.T_FINAL:
			p.addModifier(&mods, ast.ModFinal, p.cur.Span)
			p.next()
			continue
		case lexer.T_READONLY:
			p.addModifier(&mods, ast.ModReadonly, p.cur.Span)
			p.next()
			continue
		}
		break
	}
	if !p.curIs(lexer.T_CLASS) {
		p.errorf(errors.CodeExpectedToken, p.cur.Span,
			"expected class after modifiers, found %s", p.cur.Type)
		p.syncStatement()
		return p.errorStmt(start)
	}
	p.next() // class

	c := arena.New[ast.ClassDecl](p.arena)
	c.Attributes = attrs
	c.Modifiers = mods
	c.Name = p.parseIdentifier()
	if p.curIs(lexer.T_EXTENDS) {
		p.next()
		c.Extends = p.parseName()
	}
	if p.curIs(lexer.T_IMPLEMENTS) {
		p.next()
		c.Implements = p.parseNameList()
	}
	c.Members = p.parseClassBody()
	c.BaseNode = ast.Base(ast.KindClassDecl, p.spanFrom(start))
	return c
}

func (p *Parser) parseNameList() []*ast.Name {
	var names []*ast.Name
	for {
		switch p.cur.Type {
		case lexer.T_STRING, lexer.T_NAME_QUALIFIED,
			lexer.T_NAME_FULLY_QUALIFIED, lexer.T_NAME_RELATIVE:
			names = append(names, p.parseName())
		default:
			p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
				"expected name, found %s", p.cur.Type)
			return arena.Slice(p.arena, names)
		}
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	return arena.Slice(p.arena, names)
}

func (p *Parser) parseInterface(attrs []*ast.AttributeGroup) ast.Statement {
	start := p.declStart(attrs)
	p.next() // interface
	i := arena.New[ast.InterfaceDecl](p.arena)
	i.Attributes = attrs
	i.Name = p.parseIdentifier()
	if p.curIs(lexer.T_EXTENDS) {
		p.next()
		i.Extends = p.parseNameList()
	}
	i.Members = p.parseClassBody()
	i.BaseNode = ast.Base(ast.KindInterfaceDecl, p.spanFrom(start))
	return i
}

func (p *Parser) parseTrait(attrs []*ast.AttributeGroup) ast.Statement {
	start := p.declStart(attrs)
	p.next() // trait
	t := arena.New[ast.TraitDecl](p.arena)
	t.Attributes = attrs
	t.Name = p.parseIdentifier()
	t.Members = p.parseClassBody()
	t.BaseNode = ast.Base(ast.KindTraitDecl, p.spanFrom(start))
	return t
}

func (p *Parser) parseEnum(attrs []*ast.AttributeGroup) ast.Statement {
	start := p.declStart(attrs)
	p.next() // enum
	e := arena.New[ast.EnumDecl](p.arena)
	e.Attributes = attrs
	e.Name = p.parseIdentifier()
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		e.BackingType = p.parseTypeHint()
	}
	if p.curIs(lexer.T_IMPLEMENTS) {
		p.next()
		e.Implements = p.parseNameList()
	}
	e.Members = p.parseClassBody()
	e.BaseNode = ast.Base(ast.KindEnumDecl, p.spanFrom(start))
	return e
}

// parseAnonClass new class(...) { ... }
func (p *Parser) parseAnonClass() ast.Expression {
	start := p.cur.Span.Start
	a := arena.New[ast.AnonClass](p.arena)
	a.Attributes = p.parseAttributeGroups()
	if len(a.Attributes) > 0 {
		start = a.Attributes[0].GetSpan().Start
	}
	p.next() // class
	if p.curIs(lexer.TOKEN_LPAREN) {
		a.Args, _ = p.parseArguments()
	}
	if p.curIs(lexer.T_EXTENDS) {
		p.next()
		a.Extends = p.parseName()
	}
	if p.curIs(lexer.T_IMPLEMENTS) {
		p.next()
		a.Implements = p.parseNameList()
	}
	a.Members = p.parseClassBody()
	a.BaseNode = ast.Base(ast.KindAnonClass, p.spanFrom(start))
	return a
}

// ============= 类体成员 =============

func (p *Parser) parseClassBody() []ast.ClassMember {
	if _, ok := p.expect(lexer.TOKEN_LBRACE); !ok {
		return nil
	}
	var members []ast.ClassMember
	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.T_EOF) {
		before := p.consumed
		members = append(members, p.parseClassMember())
		if p.consumed == before {
			p.next()
		}
	}
	if _, ok := p.expect(lexer.TOKEN_RBRACE); !ok {
		p.errorf(errors.CodeUnclosedDelimiter, p.cur.Span, "unclosed class body")
	}
	return arena.Slice(p.arena, members)
}

// parseClassMember 类体里最密集的分发：修饰符位集 + 属性/方法/
// 常量/trait use/枚举成员。
func (p *Parser) parseClassMember() ast.ClassMember {
	start := p.cur.Span.Start
	attrs := p.parseAttributeGroups()
	if len(attrs) > 0 {
		start = attrs[0].GetSpan().Start
	}

	// use T1, T2 { ... }
	if p.curIs(lexer.T_USE) {
		return p.parseTraitUse(start)
	}

	// 枚举成员 case N = expr;（case 后必须跟名字，区别于 switch）
	if p.curIs(lexer.T_CASE) {
		return p.parseEnumCase(attrs, start)
	}

	var mods ast.Modifier
	var setVisSpans []source.Span
	for {
		mod, span, ok := p.modifierAt()
		if !ok {
			break
		}
		// static 可能是返回类型 static 的方法？不会：成员位置的
		// static 总是修饰符
		p.addModifier(&mods, mod, span)
		if lexer.IsSetVisibility(p.cur.Type) {
			setVisSpans = append(setVisSpans, span)
		}
		p.next()
	}

	switch {
	case p.curIs(lexer.T_CONST):
		for _, sp := range setVisSpans {
			p.errorf(errors.CodeSetVisibilityMisuse, sp,
				"asymmetric visibility is only allowed on properties")
		}
		return p.parseClassConst(attrs, mods, start)

	case p.curIs(lexer.T_FUNCTION):
		for _, sp := range setVisSpans {
			p.errorf(errors.CodeSetVisibilityMisuse, sp,
				"asymmetric visibility is only allowed on properties")
		}
		return p.parseMethod(attrs, mods, start)

	case p.curIs(lexer.T_VARIABLE):
		return p.parseProperty(attrs, mods, start)

	case p.typeStart():
		// 带类型标注的属性
		t := p.parseTypeHint()
		if p.curIs(lexer.T_VARIABLE) {
			return p.parsePropertyTyped(attrs, mods, t, start)
		}
		p.errorf(errors.CodeExpectedMember, p.cur.Span,
			"expected property variable after type, found %s", p.cur.Type)
		p.syncClassBody()
		return p.errorMember(start)
	}

	p.errorf(errors.CodeExpectedMember, p.cur.Span,
		"expected class member, found %s", p.cur.Type)
	p.syncClassBody()
	return p.errorMember(start)
}

func (p *Parser) errorMember(start uint32) *ast.ErrorMember {
	m := arena.New[ast.ErrorMember](p.arena)
	m.BaseNode = ast.Base(ast.KindErrorMember, p.spanFrom(start))
	return m
}

func (p *Parser) parseClassConst(attrs []*ast.AttributeGroup, mods ast.Modifier, start uint32) ast.ClassMember {
	p.next() // const
	c := arena.New[ast.ClassConstDecl](p.arena)
	c.Attributes = attrs
	c.Modifiers = mods

	// PHP 8.3 类型化常量：const 后若不是 NAME = 则先读类型
	if !p.peekIs(lexer.TOKEN_EQUAL) && p.typeStart() {
		cp := p.save()
		t := p.parseTypeHint()
		if (p.curIs(lexer.T_STRING) || lexer.CanBeMemberName(p.cur.Type)) &&
			p.peekIs(lexer.TOKEN_EQUAL) {
			c.Type = t
		} else {
			p.restore(cp)
		}
	}

	var consts []*ast.ConstDecl
	for {
		cstart := p.cur.Span.Start
		d := arena.New[ast.ConstDecl](p.arena)
		d.Name = p.parseIdentifier()
		p.expect(lexer.TOKEN_EQUAL)
		d.Value = p.parseExpression()
		d.BaseNode = ast.Base(ast.KindConstDecl, p.spanFrom(cstart))
		consts = append(consts, d)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	c.Consts = arena.Slice(p.arena, consts)
	p.expectSemicolon()
	c.BaseNode = ast.Base(ast.KindClassConstDecl, p.spanFrom(start))
	return c
}

func (p *Parser) parseMethod(attrs []*ast.AttributeGroup, mods ast.Modifier, start uint32) ast.ClassMember {
	p.next() // function
	m := arena.New[ast.MethodDecl](p.arena)
	m.Attributes = attrs
	m.Modifiers = mods
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		m.ByRef = true
		p.next()
	}
	m.Name = p.parseIdentifier()
	m.Params = p.parseParams()
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		m.ReturnType = p.parseTypeHint()
	}
	switch {
	case p.curIs(lexer.TOKEN_LBRACE):
		m.Body = p.parseBlock()
		if mods.Has(ast.ModAbstract) {
			p.errorf(errors.CodeAbstractWithBody, m.Name.GetSpan(),
				"abstract method cannot have a body")
		}
	case p.curIs(lexer.TOKEN_SEMICOLON):
		p.next()
	default:
		p.errorf(errors.CodeExpectedToken, p.cur.Span,
			"expected method body or \";\", found %s", p.cur.Type)
		p.syncClassBody()
	}
	m.BaseNode = ast.Base(ast.KindMethodDecl, p.spanFrom(start))
	return m
}

func (p *Parser) parseProperty(attrs []*ast.AttributeGroup, mods ast.Modifier, start uint32) ast.ClassMember {
	return p.parsePropertyTyped(attrs, mods, nil, start)
}

func (p *Parser) parsePropertyTyped(attrs []*ast.AttributeGroup, mods ast.Modifier, t ast.TypeNode, start uint32) ast.ClassMember {
	d := arena.New[ast.PropertyDecl](p.arena)
	d.Attributes = attrs
	d.Modifiers = mods
	d.Type = t

	var entries []*ast.PropertyEntry
	for {
		estart := p.cur.Span.Start
		e := arena.New[ast.PropertyEntry](p.arena)
		if p.curIs(lexer.T_VARIABLE) {
			e.Var = p.parseVariable()
		} else {
			p.errorf(errors.CodeExpectedToken, p.cur.Span,
				"expected property variable, found %s", p.cur.Type)
			break
		}
		if p.curIs(lexer.TOKEN_EQUAL) {
			p.next()
			e.Default = p.parseExpression()
		}
		e.BaseNode = ast.Base(ast.KindPropertyEntry, p.spanFrom(estart))
		entries = append(entries, e)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	d.Entries = arena.Slice(p.arena, entries)

	switch {
	case p.curIs(lexer.TOKEN_LBRACE):
		d.Hooks = p.parseHookList()
	case p.curIs(lexer.TOKEN_SEMICOLON):
		p.next()
	default:
		p.errorf(errors.CodeExpectedToken, p.cur.Span,
			"expected \";\" or hook list, found %s", p.cur.Type)
		p.syncClassBody()
	}
	d.BaseNode = ast.Base(ast.KindPropertyDecl, p.spanFrom(start))
	return d
}

// ============= 属性钩子 =============

// parseHookList { get ...; set ...; }
func (p *Parser) parseHookList() []*ast.PropertyHook {
	p.expect(lexer.TOKEN_LBRACE)
	var hooks []*ast.PropertyHook
	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.T_EOF) {
		before := p.consumed
		hooks = append(hooks, p.parseHook())
		if p.consumed == before {
			p.next()
		}
	}
	if _, ok := p.expect(lexer.TOKEN_RBRACE); !ok {
		p.errorf(errors.CodeUnclosedDelimiter, p.cur.Span, "unclosed hook list")
	}
	return arena.Slice(p.arena, hooks)
}

func (p *Parser) parseHook() *ast.PropertyHook {
	start := p.cur.Span.Start
	h := arena.New[ast.PropertyHook](p.arena)
	h.Attributes = p.parseAttributeGroups()
	if len(h.Attributes) > 0 {
		start = h.Attributes[0].GetSpan().Start
	}

	for {
		mod, span, ok := p.modifierAt()
		if !ok {
			break
		}
		p.addModifier(&h.Modifiers, mod, span)
		p.next()
	}
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		h.ByRef = true
		p.next()
	}

	switch p.cur.Type {
	case lexer.T_GET:
		h.Hook = ast.HookGet
		p.next()
	case lexer.T_SET:
		h.Hook = ast.HookSet
		p.next()
	default:
		p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
			"expected get or set, found %s", p.cur.Type)
		p.syncClassBody()
		h.BaseNode = ast.Base(ast.KindPropertyHook, p.spanFrom(start))
		return h
	}

	// set 钩子可以声明单个形参
	if p.curIs(lexer.TOKEN_LPAREN) {
		h.Params = p.parseParams()
		if h.Hook == ast.HookGet {
			p.errorf(errors.CodeInvalidHookBody, p.spanFrom(start),
				"get hook cannot declare parameters")
		}
	}

	switch p.cur.Type {
	case lexer.TOKEN_SEMICOLON:
		// 抽象钩子
		p.next()
	case lexer.TOKEN_LBRACE:
		h.Block = p.parseBlock()
	case lexer.T_DOUBLE_ARROW:
		p.next()
		h.Expr = p.parseExpression()
		p.expectSemicolon()
	default:
		p.errorf(errors.CodeInvalidHookBody, p.cur.Span,
			"expected \";\", body or => expression, found %s", p.cur.Type)
		p.syncClassBody()
	}
	h.BaseNode = ast.Base(ast.KindPropertyHook, p.spanFrom(start))
	return h
}

// ============= 枚举成员与 trait =============

func (p *Parser) parseEnumCase(attrs []*ast.AttributeGroup, start uint32) ast.ClassMember {
	p.next() // case
	c := arena.New[ast.EnumCase](p.arena)
	c.Attributes = attrs
	c.Name = p.parseIdentifier()
	if p.curIs(lexer.TOKEN_EQUAL) {
		p.next()
		c.Value = p.parseExpression()
	}
	p.expectSemicolon()
	c.BaseNode = ast.Base(ast.KindEnumCase, p.spanFrom(start))
	return c
}

func (p *Parser) parseTraitUse(start uint32) ast.ClassMember {
	p.next() // use
	u := arena.New[ast.TraitUse](p.arena)
	u.Traits = p.parseNameList()

	if p.curIs(lexer.TOKEN_LBRACE) {
		p.next()
		var adaptations []ast.Node
		for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.T_EOF) {
			before := p.consumed
			if a := p.parseTraitAdaptation(); a != nil {
				adaptations = append(adaptations, a)
			}
			if p.consumed == before {
				p.next()
			}
		}
		p.expect(lexer.TOKEN_RBRACE)
		u.Adaptations = arena.Slice(p.arena, adaptations)
	} else {
		p.expectSemicolon()
	}
	u.BaseNode = ast.Base(ast.KindTraitUse, p.spanFrom(start))
	return u
}

// parseTraitAdaptation insteadof 优先级与 as 别名两种适配
func (p *Parser) parseTraitAdaptation() ast.Node {
	start := p.cur.Span.Start

	var trait *ast.Name
	var method *ast.Identifier
	switch p.cur.Type {
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED,
		lexer.T_NAME_FULLY_QUALIFIED, lexer.T_NAME_RELATIVE:
		name := p.parseName()
		if p.curIs(lexer.T_PAAMAYIM_NEKUDOTAYIM) {
			p.next()
			trait = name
			method = p.parseIdentifier()
		} else {
			// 裸方法名
			id := arena.New[ast.Identifier](p.arena)
			id.BaseNode = name.BaseNode
			id.Kind = ast.KindIdentifier
			id.Value = name.Value
			method = id
		}
	default:
		if lexer.CanBeMemberName(p.cur.Type) {
			method = p.parseIdentifier()
		} else {
			p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
				"expected trait adaptation, found %s", p.cur.Type)
			p.syncClassBody()
			return nil
		}
	}

	switch p.cur.Type {
	case lexer.T_INSTEADOF:
		p.next()
		a := arena.New[ast.TraitPrecedence](p.arena)
		a.Trait = trait
		a.Method = method
		a.Insteadof = p.parseNameList()
		p.expectSemicolon()
		a.BaseNode = ast.Base(ast.KindTraitPrecedence, p.spanFrom(start))
		return a

	case lexer.T_AS:
		p.next()
		a := arena.New[ast.TraitAlias](p.arena)
		a.Trait = trait
		a.Method = method
		if mod, span, ok := p.modifierAt(); ok {
			p.addModifier(&a.NewModifier, mod, span)
			p.next()
		}
		if p.curIs(lexer.T_STRING) || lexer.CanBeMemberName(p.cur.Type) {
			a.NewName = p.parseIdentifier()
		}
		p.expectSemicolon()
		a.BaseNode = ast.Base(ast.KindTraitAlias, p.spanFrom(start))
		return a
	}

	p.errorf(errors.CodeExpectedToken, p.cur.Span,
		"expected insteadof or as, found %s", p.cur.Type)
	p.syncClassBody()
	return nil
}

// ============= 闭包与箭头函数 =============

// parseClosure 在 function Token 处调用（static 已被调用方消耗）
func (p *Parser) parseClosure(attrs []*ast.AttributeGroup, static bool) ast.Expression {
	start := p.declStart(attrs)
	p.next() // function
	c := arena.New[ast.Closure](p.arena)
	c.Attributes = attrs
	c.Static = static
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		c.ByRef = true
		p.next()
	}
	c.Params = p.parseParams()

	if p.curIs(lexer.T_USE) {
		p.next()
		p.expect(lexer.TOKEN_LPAREN)
		var uses []*ast.ClosureUse
		for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.T_EOF) {
			ustart := p.cur.Span.Start
			u := arena.New[ast.ClosureUse](p.arena)
			if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
				p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
				u.ByRef = true
				p.next()
			}
			if p.curIs(lexer.T_VARIABLE) {
				u.Var = p.parseVariable()
			} else {
				p.errorf(errors.CodeExpectedToken, p.cur.Span,
					"expected captured variable, found %s", p.cur.Type)
				break
			}
			u.BaseNode = ast.Base(ast.KindClosureUse, p.spanFrom(ustart))
			uses = append(uses, u)
			if p.curIs(lexer.TOKEN_COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(lexer.TOKEN_RPAREN)
		c.Uses = arena.Slice(p.arena, uses)
	}

	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		c.ReturnType = p.parseTypeHint()
	}
	c.Body = p.parseBlock()
	c.BaseNode = ast.Base(ast.KindClosure, p.spanFrom(start))
	return c
}

// parseArrowFn 在 fn Token 处调用
func (p *Parser) parseArrowFn(attrs []*ast.AttributeGroup, static bool) ast.Expression {
	start := p.declStart(attrs)
	p.next() // fn
	f := arena.New[ast.ArrowFn](p.arena)
	f.Attributes = attrs
	f.Static = static
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		f.ByRef = true
		p.next()
	}
	f.Params = p.parseParams()
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		f.ReturnType = p.parseTypeHint()
	}
	p.expect(lexer.T_DOUBLE_ARROW)
	f.Body = p.parseExpr(PrecYield)
	f.BaseNode = ast.Base(ast.KindArrowFn, p.spanFrom(start))
	return f
}
