package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
)

// Precedence 操作符优先级，数值越大结合越紧。层级对应 PHP 8.4
// 公布的操作符优先级表。
type Precedence int

const (
	PrecLowest     Precedence = iota
	PrecYield                 // throw yield print（右结合，语句位）
	PrecLogicalOr             // or
	PrecLogicalXor            // xor
	PrecLogicalAnd            // and
	PrecAssign                // = += ... ??= |>=（右结合）
	PrecTernary               // ? :（右结合）
	PrecCoalesce              // ??（右结合）
	PrecBooleanOr             // ||
	PrecBooleanAnd            // &&
	PrecBitOr                 // |
	PrecBitXor                // ^
	PrecBitAnd                // &
	PrecEquality              // == != === !== <>
	PrecComparison            // < <= > >= <=>
	PrecPipe                  // |>（左结合）
	PrecConcat                // .
	PrecShift                 // << >>
	PrecSum                   // + -
	PrecProduct               // * / %
	PrecBang                  // 前缀 !
	PrecInstanceof            // instanceof
	PrecPrefix                // 前缀 ~ + - ++ -- 类型转换 @
	PrecPow                   // **（右结合）
	PrecClone                 // clone
	PrecPostfix               // [] -> ?-> :: (...) ++ --
)

type infixInfo struct {
	prec       Precedence
	rightAssoc bool
}

// 中缀操作符优先级表
var infixTable = map[lexer.TokenType]infixInfo{
	lexer.T_LOGICAL_OR:  {PrecLogicalOr, false},
	lexer.T_LOGICAL_XOR: {PrecLogicalXor, false},
	lexer.T_LOGICAL_AND: {PrecLogicalAnd, false},

	lexer.TOKEN_EQUAL:      {PrecAssign, true},
	lexer.T_PLUS_EQUAL:     {PrecAssign, true},
	lexer.T_MINUS_EQUAL:    {PrecAssign, true},
	lexer.T_MUL_EQUAL:      {PrecAssign, true},
	lexer.T_DIV_EQUAL:      {PrecAssign, true},
	lexer.T_CONCAT_EQUAL:   {PrecAssign, true},
	lexer.T_MOD_EQUAL:      {PrecAssign, true},
	lexer.T_AND_EQUAL:      {PrecAssign, true},
	lexer.T_OR_EQUAL:       {PrecAssign, true},
	lexer.T_XOR_EQUAL:      {PrecAssign, true},
	lexer.T_SL_EQUAL:       {PrecAssign, true},
	lexer.T_SR_EQUAL:       {PrecAssign, true},
	lexer.T_POW_EQUAL:      {PrecAssign, true},
	lexer.T_COALESCE_EQUAL: {PrecAssign, true},
	lexer.T_PIPE_EQUAL:     {PrecAssign, true},

	lexer.TOKEN_QUESTION: {PrecTernary, true},
	lexer.T_COALESCE:     {PrecCoalesce, true},

	lexer.T_BOOLEAN_OR:  {PrecBooleanOr, false},
	lexer.T_BOOLEAN_AND: {PrecBooleanAnd, false},

	lexer.TOKEN_PIPE:  {PrecBitOr, false},
	lexer.TOKEN_CARET: {PrecBitXor, false},
	lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG:     {PrecBitAnd, false},
	lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG: {PrecBitAnd, false},

	lexer.T_IS_EQUAL:         {PrecEquality, false},
	lexer.T_IS_NOT_EQUAL:     {PrecEquality, false},
	lexer.T_IS_IDENTICAL:     {PrecEquality, false},
	lexer.T_IS_NOT_IDENTICAL: {PrecEquality, false},

	lexer.TOKEN_LT:              {PrecComparison, false},
	lexer.TOKEN_GT:              {PrecComparison, false},
	lexer.T_IS_SMALLER_OR_EQUAL: {PrecComparison, false},
	lexer.T_IS_GREATER_OR_EQUAL: {PrecComparison, false},
	lexer.T_SPACESHIP:           {PrecComparison, false},

	lexer.T_PIPE: {PrecPipe, false},

	lexer.TOKEN_DOT: {PrecConcat, false},

	lexer.T_SL: {PrecShift, false},
	lexer.T_SR: {PrecShift, false},

	lexer.TOKEN_PLUS:  {PrecSum, false},
	lexer.TOKEN_MINUS: {PrecSum, false},

	lexer.TOKEN_MULTIPLY: {PrecProduct, false},
	lexer.TOKEN_DIVIDE:   {PrecProduct, false},
	lexer.TOKEN_MODULO:   {PrecProduct, false},

	lexer.T_INSTANCEOF: {PrecInstanceof, false},

	lexer.T_POW: {PrecPow, true},

	lexer.TOKEN_LPAREN:               {PrecPostfix, false},
	lexer.TOKEN_LBRACKET:             {PrecPostfix, false},
	lexer.T_OBJECT_OPERATOR:          {PrecPostfix, false},
	lexer.T_NULLSAFE_OBJECT_OPERATOR: {PrecPostfix, false},
	lexer.T_PAAMAYIM_NEKUDOTAYIM:     {PrecPostfix, false},
	lexer.T_INC:                      {PrecPostfix, false},
	lexer.T_DEC:                      {PrecPostfix, false},
}

// parseExpression 从最低优先级解析一个完整表达式
func (p *Parser) parseExpression() ast.Expression {
	return p.parseExpr(PrecLowest)
}

// parseExpr Pratt 核心：前缀解析 + 按绑定力推进的中缀循环
func (p *Parser) parseExpr(minPrec Precedence) ast.Expression {
	if !p.enterNesting() {
		return p.errorExprHere()
	}
	defer p.leaveNesting()
	left := p.parsePrefix()
	for {
		info, ok := infixTable[p.cur.Type]
		if !ok || info.prec < minPrec {
			return left
		}
		left = p.parseInfix(left, info)
	}
}

func (p *Parser) parseInfix(left ast.Expression, info infixInfo) ast.Expression {
	start := left.GetSpan().Start
	op := p.cur.Type

	switch {
	case info.prec == PrecAssign:
		p.next()
		a := arena.New[ast.Assign](p.arena)
		a.Op = op
		a.Var = left
		if op == lexer.TOKEN_EQUAL &&
			(p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
				p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG)) {
			p.next()
			a.ByRef = true
		}
		a.Value = p.parseExpr(info.prec)
		a.BaseNode = ast.Base(ast.KindAssign, p.spanFrom(start))
		return a

	case op == lexer.TOKEN_QUESTION:
		return p.parseTernary(left)

	case op == lexer.T_INC || op == lexer.T_DEC:
		p.next()
		u := arena.New[ast.Unary](p.arena)
		u.Op = op
		u.Operand = left
		u.Postfix = true
		u.BaseNode = ast.Base(ast.KindUnary, p.spanFrom(start))
		return u

	case op == lexer.TOKEN_LPAREN:
		return p.parseCallOn(left)

	case op == lexer.TOKEN_LBRACKET:
		return p.parseArrayDim(left)

	case op == lexer.T_OBJECT_OPERATOR || op == lexer.T_NULLSAFE_OBJECT_OPERATOR:
		return p.parseObjectAccess(left, op == lexer.T_NULLSAFE_OBJECT_OPERATOR)

	case op == lexer.T_PAAMAYIM_NEKUDOTAYIM:
		return p.parseStaticAccess(left)

	case op == lexer.T_INSTANCEOF:
		p.next()
		b := arena.New[ast.Binary](p.arena)
		b.Op = op
		b.Left = left
		b.Right = p.parseClassRef()
		b.BaseNode = ast.Base(ast.KindBinary, p.spanFrom(start))
		return b

	default:
		p.next()
		b := arena.New[ast.Binary](p.arena)
		b.Op = op
		b.Left = left
		if info.rightAssoc {
			b.Right = p.parseExpr(info.prec)
		} else {
			b.Right = p.parseExpr(info.prec + 1)
		}
		b.BaseNode = ast.Base(ast.KindBinary, p.spanFrom(start))
		return b
	}
}

// parseTernary 处理完整与短三元；无括号的三元嵌套按 PHP 8 规则
// 报诊断但仍按右折叠产出节点。
func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	start := cond.GetSpan().Start
	p.next() // ?
	t := arena.New[ast.Ternary](p.arena)
	t.Cond = cond
	if p.curIs(lexer.TOKEN_COLON) {
		p.next()
		t.Else = p.parseExpr(PrecTernary)
	} else {
		t.Then = p.parseExpression()
		if _, ok := p.expect(lexer.TOKEN_COLON); !ok {
			t.Else = p.errorExprHere()
			t.BaseNode = ast.Base(ast.KindTernary, p.spanFrom(start))
			return t
		}
		t.Else = p.parseExpr(PrecTernary)
	}
	if inner, ok := t.Else.(*ast.Ternary); ok && !p.parenthesized(inner) {
		p.errorf(errors.CodeNestedTernary, inner.GetSpan(),
			"unparenthesized nested ternary is not allowed")
	}
	t.BaseNode = ast.Base(ast.KindTernary, p.spanFrom(start))
	return t
}

// parenthesized 检查表达式前紧邻的非空白字节是否为 (
func (p *Parser) parenthesized(e ast.Expression) bool {
	bytes := p.src.Bytes()
	i := int(e.GetSpan().Start) - 1
	for i >= 0 {
		b := bytes[i]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			i--
			continue
		}
		return b == '('
	}
	return false
}

// ============= 前缀 =============

func (p *Parser) parsePrefix() ast.Expression {
	start := p.cur.Span.Start

	switch p.cur.Type {
	case lexer.T_VARIABLE:
		return p.parseVariable()

	case lexer.TOKEN_DOLLAR:
		return p.parseVariableVariable()

	case lexer.T_LNUMBER:
		return p.parseIntLiteral()

	case lexer.T_DNUMBER:
		return p.parseFloatLiteral()

	case lexer.T_CONSTANT_ENCAPSED_STRING:
		lit := arena.New[ast.StringLit](p.arena)
		lit.BaseNode = ast.Base(ast.KindStringLit, p.cur.Span)
		lit.Raw = p.text(p.cur)
		p.next()
		return lit

	case lexer.TOKEN_QUOTE:
		return p.parseInterpolated(lexer.TOKEN_QUOTE, ast.KindInterpString)

	case lexer.T_BACKQUOTE:
		return p.parseInterpolated(lexer.T_BACKQUOTE, ast.KindShellExec)

	case lexer.T_START_HEREDOC:
		return p.parseHeredoc()

	case lexer.T_STRING, lexer.T_NAME_QUALIFIED, lexer.T_NAME_FULLY_QUALIFIED,
		lexer.T_NAME_RELATIVE:
		return p.parseNameExpr()

	case lexer.T_LINE, lexer.T_FILE, lexer.T_DIR, lexer.T_CLASS_C, lexer.T_TRAIT_C,
		lexer.T_METHOD_C, lexer.T_FUNC_C, lexer.T_NS_C, lexer.T_PROPERTY_C:
		return p.parseMagicConst()

	case lexer.T_GET, lexer.T_SET, lexer.T_ENUM:
		// 上下文关键字在表达式位置是普通名字
		return p.parseNameFromKeyword()

	case lexer.TOKEN_LPAREN:
		p.next()
		inner := p.parseExpression()
		if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
			p.syncToCloser(lexer.TOKEN_RPAREN)
			if p.curIs(lexer.TOKEN_RPAREN) {
				p.next()
			}
		}
		return inner

	case lexer.TOKEN_LBRACKET:
		return p.parseArrayLiteral(lexer.TOKEN_LBRACKET)

	case lexer.T_ARRAY:
		if p.peekIs(lexer.TOKEN_LPAREN) {
			return p.parseArrayLiteral(lexer.T_ARRAY)
		}
		return p.parseNameExpr()

	case lexer.T_LIST:
		return p.parseListExpr()

	case lexer.TOKEN_EXCLAMATION:
		return p.parseUnary(PrecBang)

	case lexer.TOKEN_PLUS, lexer.TOKEN_MINUS, lexer.TOKEN_TILDE,
		lexer.T_INC, lexer.T_DEC, lexer.TOKEN_AT:
		return p.parseUnary(PrecPrefix)

	case lexer.T_INT_CAST, lexer.T_DOUBLE_CAST, lexer.T_STRING_CAST,
		lexer.T_ARRAY_CAST, lexer.T_OBJECT_CAST, lexer.T_BOOL_CAST,
		lexer.T_UNSET_CAST, lexer.T_VOID_CAST:
		castType := p.cur.Type
		p.next()
		c := arena.New[ast.Cast](p.arena)
		c.CastType = castType
		c.Operand = p.parseExpr(PrecPrefix)
		c.BaseNode = ast.Base(ast.KindCast, p.spanFrom(start))
		return c

	case lexer.T_PRINT:
		p.next()
		e := arena.New[ast.Print](p.arena)
		e.Operand = p.parseExpr(PrecYield)
		e.BaseNode = ast.Base(ast.KindPrint, p.spanFrom(start))
		return e

	case lexer.T_THROW:
		p.next()
		e := arena.New[ast.Throw](p.arena)
		e.Operand = p.parseExpr(PrecYield)
		e.BaseNode = ast.Base(ast.KindThrow, p.spanFrom(start))
		return e

	case lexer.T_YIELD:
		return p.parseYield()

	case lexer.T_YIELD_FROM:
		p.next()
		e := arena.New[ast.YieldFrom](p.arena)
		e.Operand = p.parseExpr(PrecYield)
		e.BaseNode = ast.Base(ast.KindYieldFrom, p.spanFrom(start))
		return e

	case lexer.T_CLONE:
		return p.parseClone()

	case lexer.T_NEW:
		return p.parseNew()

	case lexer.T_MATCH:
		return p.parseMatch()

	case lexer.T_FUNCTION:
		return p.parseClosure(nil, false)

	case lexer.T_FN:
		return p.parseArrowFn(nil, false)

	case lexer.T_STATIC:
		if p.peekIs(lexer.T_FUNCTION) {
			p.next()
			return p.parseClosure(nil, true)
		}
		if p.peekIs(lexer.T_FN) {
			p.next()
			return p.parseArrowFn(nil, true)
		}
		// static:: 类引用
		return p.parseNameFromKeyword()

	case lexer.T_ATTRIBUTE:
		attrs := p.parseAttributeGroups()
		switch p.cur.Type {
		case lexer.T_FUNCTION:
			return p.parseClosure(attrs, false)
		case lexer.T_FN:
			return p.parseArrowFn(attrs, false)
		case lexer.T_STATIC:
			if p.peekIs(lexer.T_FN) {
				p.next()
				return p.parseArrowFn(attrs, true)
			}
			p.next()
			return p.parseClosure(attrs, true)
		}
		p.errorf(errors.CodeExpectedExpression, p.cur.Span,
			"expected closure or arrow function after attributes, found %s", p.cur.Type)
		return p.errorExpr(start)

	case lexer.T_ISSET:
		return p.parseIsset()

	case lexer.T_EMPTY:
		p.next()
		e := arena.New[ast.Empty](p.arena)
		p.expect(lexer.TOKEN_LPAREN)
		e.Operand = p.parseExpression()
		p.expect(lexer.TOKEN_RPAREN)
		e.BaseNode = ast.Base(ast.KindEmpty, p.spanFrom(start))
		return e

	case lexer.T_EXIT:
		p.next()
		e := arena.New[ast.Exit](p.arena)
		if p.curIs(lexer.TOKEN_LPAREN) {
			p.next()
			if !p.curIs(lexer.TOKEN_RPAREN) {
				e.Operand = p.parseExpression()
			}
			p.expect(lexer.TOKEN_RPAREN)
		}
		e.BaseNode = ast.Base(ast.KindExit, p.spanFrom(start))
		return e

	case lexer.T_EVAL:
		p.next()
		e := arena.New[ast.Eval](p.arena)
		p.expect(lexer.TOKEN_LPAREN)
		e.Operand = p.parseExpression()
		p.expect(lexer.TOKEN_RPAREN)
		e.BaseNode = ast.Base(ast.KindEval, p.spanFrom(start))
		return e

	case lexer.T_INCLUDE, lexer.T_INCLUDE_ONCE, lexer.T_REQUIRE, lexer.T_REQUIRE_ONCE:
		op := p.cur.Type
		p.next()
		e := arena.New[ast.Include](p.arena)
		e.Op = op
		e.Operand = p.parseExpr(PrecYield)
		e.BaseNode = ast.Base(ast.KindInclude, p.spanFrom(start))
		return e

	case lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG,
		lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG:
		// 引用只在赋值、实参、数组项等处合法；这里宽容解析，
		// 语义层再行检查
		p.next()
		return p.parseExpr(PrecPrefix)

	case lexer.T_ERROR, lexer.T_BAD_CHARACTER, lexer.T_UNKNOWN:
		// 词法层已经报告过诊断
		p.next()
		return p.errorExpr(start)
	}

	p.errorf(errors.CodeExpectedExpression, p.cur.Span,
		"expected expression, found %s", p.cur.Type)
	return p.errorExprHere()
}

func (p *Parser) parseUnary(prec Precedence) ast.Expression {
	start := p.cur.Span.Start
	op := p.cur.Type
	p.next()
	u := arena.New[ast.Unary](p.arena)
	u.Op = op
	u.Operand = p.parseExpr(prec)
	u.BaseNode = ast.Base(ast.KindUnary, p.spanFrom(start))
	return u
}

// ============= 基本项 =============

func (p *Parser) parseVariable() *ast.Variable {
	v := arena.New[ast.Variable](p.arena)
	v.BaseNode = ast.Base(ast.KindVariable, p.cur.Span)
	v.Name = p.text(p.cur)
	p.next()
	return v
}

// parseVariableVariable 处理 $$x 与 ${expr}
func (p *Parser) parseVariableVariable() ast.Expression {
	start := p.cur.Span.Start
	p.next() // $
	vv := arena.New[ast.VariableVariable](p.arena)
	switch p.cur.Type {
	case lexer.TOKEN_LBRACE:
		p.next()
		vv.Inner = p.parseExpression()
		p.expect(lexer.TOKEN_RBRACE)
	case lexer.T_VARIABLE:
		vv.Inner = p.parseVariable()
	case lexer.TOKEN_DOLLAR:
		vv.Inner = p.parseVariableVariable()
	default:
		p.errorf(errors.CodeExpectedExpression, p.cur.Span,
			"expected variable name after $, found %s", p.cur.Type)
		vv.Inner = p.errorExprHere()
	}
	vv.BaseNode = ast.Base(ast.KindVariableVariable, p.spanFrom(start))
	return vv
}

// stripUnderscores 去掉数字字面量中的下划线分隔符
func stripUnderscores(raw []byte) string {
	s := string(raw)
	if !strings.ContainsRune(s, '_') {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}

func (p *Parser) parseIntLiteral() ast.Expression {
	raw := p.text(p.cur)
	span := p.cur.Span
	p.next()
	text := stripUnderscores(raw)
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		// 0o 前缀和传统八进制
		if len(text) > 1 && text[0] == '0' {
			if text[1] == 'o' || text[1] == 'O' {
				v, err = strconv.ParseInt(text[2:], 8, 64)
			} else {
				v, err = strconv.ParseInt(text[1:], 8, 64)
			}
		}
	}
	lit := arena.New[ast.IntLit](p.arena)
	lit.BaseNode = ast.Base(ast.KindIntLit, span)
	lit.Raw = raw
	lit.Value = v
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	raw := p.text(p.cur)
	span := p.cur.Span
	p.next()
	text := stripUnderscores(raw)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// 溢出提升的整数按无符号或浮点语义再解
		if u, uerr := strconv.ParseUint(text, 0, 64); uerr == nil {
			v = float64(u)
		} else {
			v = math.Inf(1)
		}
	}
	lit := arena.New[ast.FloatLit](p.arena)
	lit.BaseNode = ast.Base(ast.KindFloatLit, span)
	lit.Raw = raw
	lit.Value = v
	return lit
}

func (p *Parser) parseMagicConst() ast.Expression {
	m := arena.New[ast.MagicConst](p.arena)
	m.BaseNode = ast.Base(ast.KindMagicConst, p.cur.Span)
	switch p.cur.Type {
	case lexer.T_LINE:
		m.Magic = ast.MagicLine
	case lexer.T_FILE:
		m.Magic = ast.MagicFile
	case lexer.T_DIR:
		m.Magic = ast.MagicDir
	case lexer.T_CLASS_C:
		m.Magic = ast.MagicClass
	case lexer.T_TRAIT_C:
		m.Magic = ast.MagicTrait
	case lexer.T_METHOD_C:
		m.Magic = ast.MagicMethod
	case lexer.T_FUNC_C:
		m.Magic = ast.MagicFunction
	case lexer.T_NS_C:
		m.Magic = ast.MagicNamespace
	case lexer.T_PROPERTY_C:
		m.Magic = ast.MagicProperty
	}
	p.next()
	return m
}

// parseName 读取一个（可能限定的）名字节点
func (p *Parser) parseName() *ast.Name {
	n := arena.New[ast.Name](p.arena)
	n.BaseNode = ast.Base(ast.KindName, p.cur.Span)
	n.Value = p.text(p.cur)
	switch p.cur.Type {
	case lexer.T_NAME_QUALIFIED:
		n.NameKind = ast.NameQualified
	case lexer.T_NAME_FULLY_QUALIFIED:
		n.NameKind = ast.NameFullyQualified
	case lexer.T_NAME_RELATIVE:
		n.NameKind = ast.NameRelative
	default:
		n.NameKind = ast.NameUnqualified
	}
	p.next()
	return n
}

// parseNameFromKeyword 把当前关键字 Token（static、array 等在类引用
// 或常量位置出现时）转换为 Name
func (p *Parser) parseNameFromKeyword() *ast.Name {
	n := arena.New[ast.Name](p.arena)
	n.BaseNode = ast.Base(ast.KindName, p.cur.Span)
	n.Value = p.text(p.cur)
	n.NameKind = ast.NameUnqualified
	p.next()
	return n
}

// parseNameExpr 名字在表达式位置：true/false/null 降格为字面量，
// 其余作为常量引用（后缀循环可将其变为调用或静态访问）。
func (p *Parser) parseNameExpr() ast.Expression {
	if p.cur.Type == lexer.T_STRING {
		text := p.text(p.cur)
		if foldIs(text, "true") {
			b := arena.New[ast.BoolLit](p.arena)
			b.BaseNode = ast.Base(ast.KindBoolLit, p.cur.Span)
			b.Value = true
			p.next()
			return b
		}
		if foldIs(text, "false") {
			b := arena.New[ast.BoolLit](p.arena)
			b.BaseNode = ast.Base(ast.KindBoolLit, p.cur.Span)
			p.next()
			return b
		}
		if foldIs(text, "null") {
			nl := arena.New[ast.NullLit](p.arena)
			nl.BaseNode = ast.Base(ast.KindNullLit, p.cur.Span)
			p.next()
			return nl
		}
	}
	return p.parseName()
}

func foldIs(b []byte, lower string) bool {
	if len(b) != len(lower) {
		return false
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}

// ============= 调用与访问 =============

// parseArguments 解析 ( 实参列表 )；一等可调用 f(...) 返回
// firstClass=true 与空列表。
func (p *Parser) parseArguments() ([]*ast.Arg, bool) {
	p.expect(lexer.TOKEN_LPAREN)
	if p.curIs(lexer.T_ELLIPSIS) && p.peekIs(lexer.TOKEN_RPAREN) {
		p.next()
		p.next()
		return nil, true
	}
	var args []*ast.Arg
	for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.T_EOF) {
		args = append(args, p.parseArg())
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
		p.syncToCloser(lexer.TOKEN_RPAREN)
		if p.curIs(lexer.TOKEN_RPAREN) {
			p.next()
		}
	}
	return arena.Slice(p.arena, args), false
}

func (p *Parser) parseArg() *ast.Arg {
	start := p.cur.Span.Start
	a := arena.New[ast.Arg](p.arena)

	// 命名实参：identifier: value。半保留字也可作实参名。
	if (p.curIs(lexer.T_STRING) || lexer.CanBeMemberName(p.cur.Type)) &&
		p.peekIs(lexer.TOKEN_COLON) {
		id := arena.New[ast.Identifier](p.arena)
		id.BaseNode = ast.Base(ast.KindIdentifier, p.cur.Span)
		id.Value = p.text(p.cur)
		a.Name = id
		p.next()
		p.next()
	}
	if p.curIs(lexer.T_ELLIPSIS) {
		a.Spread = true
		p.next()
	}
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		// 调用点引用在 PHP 8 已不合法，但容错接受
		p.next()
	}
	a.Value = p.parseExpression()
	a.BaseNode = ast.Base(ast.KindArg, p.spanFrom(start))
	return a
}

func (p *Parser) parseCallOn(callee ast.Expression) ast.Expression {
	start := callee.GetSpan().Start
	c := arena.New[ast.Call](p.arena)
	c.Callee = callee
	c.Args, c.FirstClass = p.parseArguments()
	c.BaseNode = ast.Base(ast.KindCall, p.spanFrom(start))
	return c
}

func (p *Parser) parseArrayDim(v ast.Expression) ast.Expression {
	start := v.GetSpan().Start
	p.next() // [
	d := arena.New[ast.ArrayDim](p.arena)
	d.Var = v
	if !p.curIs(lexer.TOKEN_RBRACKET) {
		d.Dim = p.parseExpression()
	}
	if _, ok := p.expect(lexer.TOKEN_RBRACKET); !ok {
		p.syncToCloser(lexer.TOKEN_RBRACKET)
		if p.curIs(lexer.TOKEN_RBRACKET) {
			p.next()
		}
	}
	d.BaseNode = ast.Base(ast.KindArrayDim, p.spanFrom(start))
	return d
}

// parseMemberName 解析 -> 和 :: 之后的成员名
func (p *Parser) parseMemberName() ast.Node {
	switch {
	case p.curIs(lexer.T_VARIABLE):
		return p.parseVariable()
	case p.curIs(lexer.TOKEN_LBRACE):
		p.next()
		inner := p.parseExpression()
		p.expect(lexer.TOKEN_RBRACE)
		return inner
	case p.curIs(lexer.TOKEN_DOLLAR):
		return p.parseVariableVariable()
	case p.curIs(lexer.T_STRING) || lexer.CanBeMemberName(p.cur.Type):
		id := arena.New[ast.Identifier](p.arena)
		id.BaseNode = ast.Base(ast.KindIdentifier, p.cur.Span)
		id.Value = p.text(p.cur)
		p.next()
		return id
	}
	p.errorf(errors.CodeExpectedIdentifier, p.cur.Span,
		"expected member name, found %s", p.cur.Type)
	return p.errorExprHere()
}

func (p *Parser) parseObjectAccess(obj ast.Expression, nullsafe bool) ast.Expression {
	start := obj.GetSpan().Start
	p.next() // -> 或 ?->
	member := p.parseMemberName()
	if p.curIs(lexer.TOKEN_LPAREN) {
		m := arena.New[ast.MethodCall](p.arena)
		m.Object = obj
		m.Method = member
		m.Nullsafe = nullsafe
		m.Args, m.FirstClass = p.parseArguments()
		m.BaseNode = ast.Base(ast.KindMethodCall, p.spanFrom(start))
		return m
	}
	f := arena.New[ast.PropertyFetch](p.arena)
	f.Object = obj
	f.Property = member
	f.Nullsafe = nullsafe
	f.BaseNode = ast.Base(ast.KindPropertyFetch, p.spanFrom(start))
	return f
}

func (p *Parser) parseStaticAccess(class ast.Expression) ast.Expression {
	start := class.GetSpan().Start
	p.next() // ::

	// C::class
	if p.curIs(lexer.T_CLASS) {
		id := arena.New[ast.Identifier](p.arena)
		id.BaseNode = ast.Base(ast.KindIdentifier, p.cur.Span)
		id.Value = p.text(p.cur)
		p.next()
		f := arena.New[ast.ClassConstFetch](p.arena)
		f.Class = class
		f.Const = id
		f.BaseNode = ast.Base(ast.KindClassConstFetch, p.spanFrom(start))
		return f
	}

	if p.curIs(lexer.T_VARIABLE) || p.curIs(lexer.TOKEN_DOLLAR) {
		member := p.parseMemberName()
		if p.curIs(lexer.TOKEN_LPAREN) {
			c := arena.New[ast.StaticCall](p.arena)
			c.Class = class
			c.Method = member
			c.Args, c.FirstClass = p.parseArguments()
			c.BaseNode = ast.Base(ast.KindStaticCall, p.spanFrom(start))
			return c
		}
		f := arena.New[ast.StaticPropertyFetch](p.arena)
		f.Class = class
		f.Property = member
		f.BaseNode = ast.Base(ast.KindStaticPropertyFetch, p.spanFrom(start))
		return f
	}

	member := p.parseMemberName()
	if p.curIs(lexer.TOKEN_LPAREN) {
		c := arena.New[ast.StaticCall](p.arena)
		c.Class = class
		c.Method = member
		c.Args, c.FirstClass = p.parseArguments()
		c.BaseNode = ast.Base(ast.KindStaticCall, p.spanFrom(start))
		return c
	}
	f := arena.New[ast.ClassConstFetch](p.arena)
	f.Class = class
	f.Const = member
	f.BaseNode = ast.Base(ast.KindClassConstFetch, p.spanFrom(start))
	return f
}

// parseClassRef instanceof 与 new 的类引用：名字、static 或变量
// 表达式。后缀只允许下标、属性访问和静态属性：调用括号属于
// 外层语法（如 new 的构造实参），不能在这里被吞掉。
func (p *Parser) parseClassRef() ast.Expression {
	switch p.cur.Type {
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED, lexer.T_NAME_FULLY_QUALIFIED,
		lexer.T_NAME_RELATIVE:
		var e ast.Expression = p.parseName()
		if p.curIs(lexer.T_PAAMAYIM_NEKUDOTAYIM) {
			e = p.parseClassRefStatic(e)
		}
		return e
	case lexer.T_STATIC:
		return p.parseNameFromKeyword()
	case lexer.T_VARIABLE, lexer.TOKEN_DOLLAR:
		return p.parseClassRefChain()
	default:
		return p.parseExpr(PrecPostfix)
	}
}

// parseClassRefStatic C::$p 形式（C::CONST 不是合法类引用，但容错
// 接受为常量取值）
func (p *Parser) parseClassRefStatic(class ast.Expression) ast.Expression {
	start := class.GetSpan().Start
	p.next() // ::
	member := p.parseMemberName()
	if _, ok := member.(*ast.Variable); ok {
		f := arena.New[ast.StaticPropertyFetch](p.arena)
		f.Class = class
		f.Property = member
		f.BaseNode = ast.Base(ast.KindStaticPropertyFetch, p.spanFrom(start))
		return f
	}
	f := arena.New[ast.ClassConstFetch](p.arena)
	f.Class = class
	f.Const = member
	f.BaseNode = ast.Base(ast.KindClassConstFetch, p.spanFrom(start))
	return f
}

// parseClassRefChain 变量类引用链：$c、$c[0]、$c->prop、$c::$p。
// 方法调用括号不属于类引用。
func (p *Parser) parseClassRefChain() ast.Expression {
	var e ast.Expression
	if p.curIs(lexer.TOKEN_DOLLAR) {
		e = p.parseVariableVariable()
	} else {
		e = p.parseVariable()
	}
	for {
		switch p.cur.Type {
		case lexer.TOKEN_LBRACKET:
			e = p.parseArrayDim(e)
		case lexer.T_OBJECT_OPERATOR, lexer.T_NULLSAFE_OBJECT_OPERATOR:
			nullsafe := p.curIs(lexer.T_NULLSAFE_OBJECT_OPERATOR)
			start := e.GetSpan().Start
			p.next()
			f := arena.New[ast.PropertyFetch](p.arena)
			f.Object = e
			f.Property = p.parseMemberName()
			f.Nullsafe = nullsafe
			f.BaseNode = ast.Base(ast.KindPropertyFetch, p.spanFrom(start))
			e = f
		case lexer.T_PAAMAYIM_NEKUDOTAYIM:
			e = p.parseClassRefStatic(e)
		default:
			return e
		}
	}
}

// ============= 复合表达式 =============

func (p *Parser) parseIsset() ast.Expression {
	start := p.cur.Span.Start
	p.next()
	e := arena.New[ast.Isset](p.arena)
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
	e.Vars = arena.Slice(p.arena, vars)
	e.BaseNode = ast.Base(ast.KindIsset, p.spanFrom(start))
	return e
}

func (p *Parser) parseYield() ast.Expression {
	start := p.cur.Span.Start
	p.next()
	y := arena.New[ast.Yield](p.arena)
	// yield 可以不带值；值位置出现终结符时保持为空
	switch p.cur.Type {
	case lexer.TOKEN_SEMICOLON, lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET,
		lexer.TOKEN_RBRACE, lexer.TOKEN_COMMA, lexer.T_CLOSE_TAG, lexer.T_EOF:
	default:
		v := p.parseExpr(PrecYield)
		if p.curIs(lexer.T_DOUBLE_ARROW) {
			p.next()
			y.Key = v
			y.Value = p.parseExpr(PrecYield)
		} else {
			y.Value = v
		}
	}
	y.BaseNode = ast.Base(ast.KindYield, p.spanFrom(start))
	return y
}

// parseClone clone $x 一元形式与 clone(...) 调用形式；调用形式
// 禁止命名实参，但仍保留在节点里供工具观察。
func (p *Parser) parseClone() ast.Expression {
	start := p.cur.Span.Start
	p.next()
	c := arena.New[ast.Clone](p.arena)
	if p.curIs(lexer.TOKEN_LPAREN) {
		args, _ := p.parseArguments()
		for _, a := range args {
			if a.Name != nil {
				p.errorf(errors.CodeNamedArgumentInClone, a.GetSpan(),
					"named arguments are not allowed in clone()")
			}
		}
		c.Args = args
	} else {
		c.Operand = p.parseExpr(PrecClone)
	}
	c.BaseNode = ast.Base(ast.KindClone, p.spanFrom(start))
	return c
}

func (p *Parser) parseNew() ast.Expression {
	start := p.cur.Span.Start
	p.next()
	n := arena.New[ast.New](p.arena)

	if p.curIs(lexer.T_CLASS) || (p.curIs(lexer.T_ATTRIBUTE) && p.anonClassAhead()) {
		n.Class = p.parseAnonClass()
		n.BaseNode = ast.Base(ast.KindNew, p.spanFrom(start))
		return n
	}

	switch p.cur.Type {
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED, lexer.T_NAME_FULLY_QUALIFIED,
		lexer.T_NAME_RELATIVE:
		n.Class = p.parseName()
	case lexer.T_STATIC:
		n.Class = p.parseNameFromKeyword()
	case lexer.T_VARIABLE, lexer.TOKEN_DOLLAR:
		n.Class = p.parseClassRefChain()
	case lexer.TOKEN_LPAREN:
		p.next()
		n.Class = p.parseExpression()
		p.expect(lexer.TOKEN_RPAREN)
	default:
		p.errorf(errors.CodeExpectedExpression, p.cur.Span,
			"expected class reference after new, found %s", p.cur.Type)
		n.Class = p.errorExprHere()
	}
	if p.curIs(lexer.TOKEN_LPAREN) {
		n.Args, _ = p.parseArguments()
	}
	n.BaseNode = ast.Base(ast.KindNew, p.spanFrom(start))
	return n
}

// anonClassAhead 推测 #[...] 之后是否跟着 class
func (p *Parser) anonClassAhead() bool {
	cp := p.save()
	defer p.restore(cp)
	p.parseAttributeGroups()
	return p.curIs(lexer.T_CLASS)
}

func (p *Parser) parseMatch() ast.Expression {
	start := p.cur.Span.Start
	p.next()
	m := arena.New[ast.Match](p.arena)
	p.expect(lexer.TOKEN_LPAREN)
	m.Subject = p.parseExpression()
	p.expect(lexer.TOKEN_RPAREN)
	p.expect(lexer.TOKEN_LBRACE)

	var arms []*ast.MatchArm
	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.T_EOF) {
		arms = append(arms, p.parseMatchArm())
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.TOKEN_RBRACE); !ok {
		p.syncToCloser(lexer.TOKEN_RBRACE)
		if p.curIs(lexer.TOKEN_RBRACE) {
			p.next()
		}
	}
	m.Arms = arena.Slice(p.arena, arms)
	m.BaseNode = ast.Base(ast.KindMatch, p.spanFrom(start))
	return m
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	start := p.cur.Span.Start
	arm := arena.New[ast.MatchArm](p.arena)
	if p.curIs(lexer.T_DEFAULT) {
		p.next()
	} else {
		var conds []ast.Expression
		for {
			conds = append(conds, p.parseExpression())
			if p.curIs(lexer.TOKEN_COMMA) && !p.peekIs(lexer.T_DOUBLE_ARROW) {
				p.next()
				continue
			}
			break
		}
		// 条件列表允许尾随逗号
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
		}
		arm.Conds = arena.Slice(p.arena, conds)
	}
	p.expect(lexer.T_DOUBLE_ARROW)
	arm.Body = p.parseExpression()
	arm.BaseNode = ast.Base(ast.KindMatchArm, p.spanFrom(start))
	return arm
}

// parseArrayLiteral 处理 [ ... ] 与 array( ... )
func (p *Parser) parseArrayLiteral(open lexer.TokenType) ast.Expression {
	start := p.cur.Span.Start
	closer := lexer.TOKEN_RBRACKET
	if open == lexer.T_ARRAY {
		p.next() // array
		p.expect(lexer.TOKEN_LPAREN)
		closer = lexer.TOKEN_RPAREN
	} else {
		p.next() // [
	}
	a := arena.New[ast.Array](p.arena)
	a.Items = p.parseArrayItems(closer)
	if _, ok := p.expect(closer); !ok {
		p.syncToCloser(closer)
		if p.curIs(closer) {
			p.next()
		}
	}
	a.BaseNode = ast.Base(ast.KindArray, p.spanFrom(start))
	return a
}

func (p *Parser) parseArrayItems(closer lexer.TokenType) []*ast.ArrayItem {
	var items []*ast.ArrayItem
	for !p.curIs(closer) && !p.curIs(lexer.T_EOF) {
		// 解构模式中的空槽 [, $b] = ...
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		items = append(items, p.parseArrayItem())
		if p.curIs(lexer.TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	return arena.Slice(p.arena, items)
}

func (p *Parser) parseArrayItem() *ast.ArrayItem {
	start := p.cur.Span.Start
	it := arena.New[ast.ArrayItem](p.arena)

	if p.curIs(lexer.T_ELLIPSIS) {
		it.Spread = true
		p.next()
		it.Value = p.parseExpression()
		it.BaseNode = ast.Base(ast.KindArrayItem, p.spanFrom(start))
		return it
	}

	byRef := false
	if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
		p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
		byRef = true
		p.next()
	}
	v := p.parseExpression()
	if p.curIs(lexer.T_DOUBLE_ARROW) {
		p.next()
		it.Key = v
		if p.curIs(lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG) ||
			p.curIs(lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG) {
			it.ByRef = true
			p.next()
		}
		it.Value = p.parseExpression()
	} else {
		it.ByRef = byRef
		it.Value = v
	}
	if byRef && it.Key != nil {
		// & 出现在键前：键不允许按引用
		p.errorf(errors.CodeUnexpectedToken, it.Key.GetSpan(), "array key cannot be by-reference")
	}
	it.BaseNode = ast.Base(ast.KindArrayItem, p.spanFrom(start))
	return it
}

func (p *Parser) parseListExpr() ast.Expression {
	start := p.cur.Span.Start
	p.next() // list
	p.expect(lexer.TOKEN_LPAREN)
	l := arena.New[ast.List](p.arena)
	l.Items = p.parseArrayItems(lexer.TOKEN_RPAREN)
	if _, ok := p.expect(lexer.TOKEN_RPAREN); !ok {
		p.syncToCloser(lexer.TOKEN_RPAREN)
		if p.curIs(lexer.TOKEN_RPAREN) {
			p.next()
		}
	}
	l.BaseNode = ast.Base(ast.KindList, p.spanFrom(start))
	return l
}
