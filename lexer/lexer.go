package lexer

import (
	"math"
	"strconv"

	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/source"
)

// Lexer 词法分析器。在状态栈驱动下把源字节流转换为 Token 流。
// 所有 Token 只携带区间，文本通过 Source 恢复。
type Lexer struct {
	src   *source.Source
	input []byte
	pos   int // 当前扫描偏移

	state State      // 当前状态
	stack stateStack // 状态栈

	// Heredoc/Nowdoc 标签栈
	heredocs []heredocInfo

	// 进行中的插值字符串的起始偏移，用于未终止诊断
	interpStart int

	diags *errors.DiagnosticList
}

// New 创建新的词法分析器。诊断写入 diags。
func New(src *source.Source, diags *errors.DiagnosticList) *Lexer {
	l := &Lexer{
		src:   src,
		input: src.Bytes(),
		state: StInitial,
		diags: diags,
	}
	l.skipShebang()
	return l
}

// skipShebang 跳过文件开头的 shebang 行（如 #!/usr/bin/php）
func (l *Lexer) skipShebang() {
	in := l.input
	if len(in) >= 2 && in[0] == '#' && in[1] == '!' {
		i := 0
		for i < len(in) && in[i] != '\n' {
			i++
		}
		if i < len(in) {
			i++
		}
		l.pos = i
	}
}

// Checkpoint 记录可完全恢复的词法分析器位置：字节偏移、当前状态、
// 状态栈和 heredoc 栈。token source 的推测机制使用它。
type Checkpoint struct {
	pos         int
	state       State
	stack       []State
	heredocs    []heredocInfo
	interpStart int
}

// Checkpoint 捕获当前词法位置
func (l *Lexer) Checkpoint() Checkpoint {
	hd := make([]heredocInfo, len(l.heredocs))
	copy(hd, l.heredocs)
	return Checkpoint{
		pos:         l.pos,
		state:       l.state,
		stack:       l.stack.Snapshot(),
		heredocs:    hd,
		interpStart: l.interpStart,
	}
}

// Restore 回退到之前捕获的位置
func (l *Lexer) Restore(cp Checkpoint) {
	l.pos = cp.pos
	l.state = cp.state
	l.stack.Restore(cp.stack)
	l.heredocs = l.heredocs[:0]
	l.heredocs = append(l.heredocs, cp.heredocs...)
	l.interpStart = cp.interpStart
}

// BeginHaltCompiler 切换到 __halt_compiler 之后的原始尾部模式：
// 剩余输入作为单个 T_INLINE_HTML 返回。解析器不调用本方法：
// 词法层把 __halt_compiler(); 识别为一个词法单元时已自行切换到该状态。
func (l *Lexer) BeginHaltCompiler() {
	l.state = StHaltCompiler
}

// ModeDepth 返回状态栈深度。成功解析结束时应为 0。
func (l *Lexer) ModeDepth() int {
	return l.stack.Size()
}

func (l *Lexer) pushState(s State) {
	l.stack.Push(l.state)
	l.state = s
}

func (l *Lexer) popState() {
	l.state = l.stack.Pop()
}

// Next 返回下一个 Token。空白与注释作为 trivia 跳过，不产生 Token。
// 到达输入末尾后持续返回 T_EOF。
func (l *Lexer) Next() Token {
	switch l.state {
	case StInitial:
		return l.lexInitial()
	case StInScripting:
		return l.lexScripting()
	case StDoubleQuotes:
		return l.lexInterpolated('"')
	case StBackquote:
		return l.lexInterpolated('`')
	case StHeredoc:
		return l.lexHeredoc()
	case StNowdoc:
		return l.lexNowdoc()
	case StVarOffset:
		return l.lexVarOffset()
	case StLookingForProperty:
		return l.lexLookingForProperty()
	case StLookingForVarname:
		return l.lexLookingForVarname()
	case StHaltCompiler:
		return l.lexHaltCompiler()
	}
	return l.eofToken()
}

func (l *Lexer) eofToken() Token {
	n := uint32(len(l.input))
	return Token{Type: T_EOF, Span: source.NewSpan(n, n)}
}

func (l *Lexer) token(t TokenType, start int) Token {
	return Token{Type: t, Span: source.NewSpan(uint32(start), uint32(l.pos))}
}

func (l *Lexer) byteAt(i int) byte {
	if i < 0 || i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

// ============= 字符分类 =============

func isLabelStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isLabelPart(b byte) bool {
	return isLabelStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isOctalDigit(b byte) bool  { return b >= '0' && b <= '7' }
func isBinaryDigit(b byte) bool { return b == '0' || b == '1' }

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func foldEqual(b []byte, lower string) bool {
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

// ============= ST_INITIAL =============

func (l *Lexer) lexInitial() Token {
	if l.pos >= len(l.input) {
		return l.eofToken()
	}
	start := l.pos
	i := l.pos
	for i < len(l.input) {
		if l.input[i] == '<' && l.byteAt(i+1) == '?' {
			if tagLen, tok := l.openTagAt(i); tagLen > 0 {
				if i > start {
					// 先返回标签前的 HTML 内容
					l.pos = i
					return l.token(T_INLINE_HTML, start)
				}
				l.pos = i + tagLen
				l.state = StInScripting
				return l.token(tok, start)
			}
		}
		i++
	}
	l.pos = len(l.input)
	return l.token(T_INLINE_HTML, start)
}

// openTagAt 识别 i 处的开放标签，返回标签长度和 Token 类型。
// 短标签 <? 默认关闭，按 HTML 处理。
func (l *Lexer) openTagAt(i int) (int, TokenType) {
	if l.byteAt(i+2) == '=' {
		return 3, T_OPEN_TAG_WITH_ECHO
	}
	if i+5 <= len(l.input) && foldEqual(l.input[i+2:i+5], "php") {
		// <?php 之后必须是空白或输入结束
		n := 5
		switch l.byteAt(i + 5) {
		case ' ', '\t':
			n = 6
		case '\r':
			n = 6
			if l.byteAt(i+6) == '\n' {
				n = 7
			}
		case '\n':
			n = 6
		case 0:
			if i+5 != len(l.input) {
				return 0, T_UNKNOWN
			}
		default:
			return 0, T_UNKNOWN
		}
		return n, T_OPEN_TAG
	}
	return 0, T_UNKNOWN
}

// ============= ST_IN_SCRIPTING =============

// skipTrivia 跳过空白和注释。遇到 #[ 属性起始时停下，由调用方
// 产生 T_ATTRIBUTE。
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.input) {
		b := l.input[l.pos]
		switch {
		case isWhitespace(b):
			l.pos++
		case b == '/' && l.byteAt(l.pos+1) == '/':
			l.skipLineComment(l.pos + 2)
		case b == '#' && l.byteAt(l.pos+1) != '[':
			l.skipLineComment(l.pos + 1)
		case b == '/' && l.byteAt(l.pos+1) == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipLineComment 行注释到换行或 ?> 为止（?> 不消耗）
func (l *Lexer) skipLineComment(from int) {
	i := from
	for i < len(l.input) {
		if l.input[i] == '\n' {
			i++
			break
		}
		if l.input[i] == '?' && l.byteAt(i+1) == '>' {
			break
		}
		i++
	}
	l.pos = i
}

func (l *Lexer) skipBlockComment() {
	start := l.pos
	i := l.pos + 2
	for i < len(l.input) {
		if l.input[i] == '*' && l.byteAt(i+1) == '/' {
			l.pos = i + 2
			return
		}
		i++
	}
	l.diags.Error(errors.CodeUnterminatedComment,
		source.NewSpan(uint32(start), uint32(len(l.input))),
		"unterminated comment")
	l.pos = len(l.input)
}

func (l *Lexer) lexScripting() Token {
	l.skipTrivia()
	if l.pos >= len(l.input) {
		return l.eofToken()
	}

	start := l.pos
	b := l.input[l.pos]

	switch {
	case b == '\\' || isLabelStart(b):
		return l.lexNameOrKeyword()
	case isDigit(b) || (b == '.' && isDigit(l.byteAt(l.pos+1))):
		return l.lexNumber()
	}

	switch b {
	case '$':
		if isLabelStart(l.byteAt(l.pos + 1)) {
			l.pos++
			for isLabelPart(l.byteAt(l.pos)) {
				l.pos++
			}
			return l.token(T_VARIABLE, start)
		}
		l.pos++
		return l.token(TOKEN_DOLLAR, start)

	case '\'':
		return l.lexSingleQuoted()

	case '"':
		return l.lexDoubleQuoteOpen()

	case '`':
		l.pos++
		l.interpStart = start
		l.pushState(StBackquote)
		return l.token(T_BACKQUOTE, start)

	case '#':
		// skipTrivia 保证这里只可能是 #[
		l.pos += 2
		return l.token(T_ATTRIBUTE, start)

	case '?':
		if l.byteAt(l.pos+1) == '>' {
			l.pos += 2
			// PHP 吃掉关闭标签后的一个换行
			if l.byteAt(l.pos) == '\n' {
				l.pos++
			} else if l.byteAt(l.pos) == '\r' && l.byteAt(l.pos+1) == '\n' {
				l.pos += 2
			}
			l.state = StInitial
			return l.token(T_CLOSE_TAG, start)
		}
		if l.byteAt(l.pos+1) == '-' && l.byteAt(l.pos+2) == '>' {
			l.pos += 3
			l.pushState(StLookingForProperty)
			return l.token(T_NULLSAFE_OBJECT_OPERATOR, start)
		}
		if l.byteAt(l.pos+1) == '?' {
			if l.byteAt(l.pos+2) == '=' {
				l.pos += 3
				return l.token(T_COALESCE_EQUAL, start)
			}
			l.pos += 2
			return l.token(T_COALESCE, start)
		}
		l.pos++
		return l.token(TOKEN_QUESTION, start)

	case '<':
		if l.byteAt(l.pos+1) == '<' && l.byteAt(l.pos+2) == '<' {
			return l.lexHeredocStart()
		}
		if l.byteAt(l.pos+1) == '=' {
			if l.byteAt(l.pos+2) == '>' {
				l.pos += 3
				return l.token(T_SPACESHIP, start)
			}
			l.pos += 2
			return l.token(T_IS_SMALLER_OR_EQUAL, start)
		}
		if l.byteAt(l.pos+1) == '<' {
			if l.byteAt(l.pos+2) == '=' {
				l.pos += 3
				return l.token(T_SL_EQUAL, start)
			}
			l.pos += 2
			return l.token(T_SL, start)
		}
		if l.byteAt(l.pos+1) == '>' {
			l.pos += 2
			return l.token(T_IS_NOT_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_LT, start)

	case '>':
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_IS_GREATER_OR_EQUAL, start)
		}
		if l.byteAt(l.pos+1) == '>' {
			if l.byteAt(l.pos+2) == '=' {
				l.pos += 3
				return l.token(T_SR_EQUAL, start)
			}
			l.pos += 2
			return l.token(T_SR, start)
		}
		l.pos++
		return l.token(TOKEN_GT, start)

	case '=':
		if l.byteAt(l.pos+1) == '=' {
			if l.byteAt(l.pos+2) == '=' {
				l.pos += 3
				return l.token(T_IS_IDENTICAL, start)
			}
			l.pos += 2
			return l.token(T_IS_EQUAL, start)
		}
		if l.byteAt(l.pos+1) == '>' {
			l.pos += 2
			return l.token(T_DOUBLE_ARROW, start)
		}
		l.pos++
		return l.token(TOKEN_EQUAL, start)

	case '!':
		if l.byteAt(l.pos+1) == '=' {
			if l.byteAt(l.pos+2) == '=' {
				l.pos += 3
				return l.token(T_IS_NOT_IDENTICAL, start)
			}
			l.pos += 2
			return l.token(T_IS_NOT_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_EXCLAMATION, start)

	case '+':
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_PLUS_EQUAL, start)
		}
		if l.byteAt(l.pos+1) == '+' {
			l.pos += 2
			return l.token(T_INC, start)
		}
		l.pos++
		return l.token(TOKEN_PLUS, start)

	case '-':
		if l.byteAt(l.pos+1) == '>' {
			l.pos += 2
			l.pushState(StLookingForProperty)
			return l.token(T_OBJECT_OPERATOR, start)
		}
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_MINUS_EQUAL, start)
		}
		if l.byteAt(l.pos+1) == '-' {
			l.pos += 2
			return l.token(T_DEC, start)
		}
		l.pos++
		return l.token(TOKEN_MINUS, start)

	case '*':
		if l.byteAt(l.pos+1) == '*' {
			if l.byteAt(l.pos+2) == '=' {
				l.pos += 3
				return l.token(T_POW_EQUAL, start)
			}
			l.pos += 2
			return l.token(T_POW, start)
		}
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_MUL_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_MULTIPLY, start)

	case '/':
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_DIV_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_DIVIDE, start)

	case '%':
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_MOD_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_MODULO, start)

	case '.':
		if l.byteAt(l.pos+1) == '.' && l.byteAt(l.pos+2) == '.' {
			l.pos += 3
			return l.token(T_ELLIPSIS, start)
		}
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_CONCAT_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_DOT, start)

	case '|':
		if l.byteAt(l.pos+1) == '>' {
			if l.byteAt(l.pos+2) == '=' {
				l.pos += 3
				return l.token(T_PIPE_EQUAL, start)
			}
			l.pos += 2
			return l.token(T_PIPE, start)
		}
		if l.byteAt(l.pos+1) == '|' {
			l.pos += 2
			return l.token(T_BOOLEAN_OR, start)
		}
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_OR_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_PIPE, start)

	case '&':
		if l.byteAt(l.pos+1) == '&' {
			l.pos += 2
			return l.token(T_BOOLEAN_AND, start)
		}
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_AND_EQUAL, start)
		}
		l.pos++
		return l.token(l.ampersandType(), start)

	case '^':
		if l.byteAt(l.pos+1) == '=' {
			l.pos += 2
			return l.token(T_XOR_EQUAL, start)
		}
		l.pos++
		return l.token(TOKEN_CARET, start)

	case '~':
		l.pos++
		return l.token(TOKEN_TILDE, start)

	case '@':
		l.pos++
		return l.token(TOKEN_AT, start)

	case '(':
		if tok, n := l.maybeCast(); n > 0 {
			l.pos += n
			return l.token(tok, start)
		}
		l.pos++
		return l.token(TOKEN_LPAREN, start)

	case ')':
		l.pos++
		return l.token(TOKEN_RPAREN, start)

	case '[':
		l.pos++
		return l.token(TOKEN_LBRACKET, start)

	case ']':
		l.pos++
		return l.token(TOKEN_RBRACKET, start)

	case '{':
		// 与 PHP 官方一致：每个 { 都压栈，使字符串插值中的 }
		// 能准确弹回字符串状态
		l.pos++
		l.pushState(StInScripting)
		return l.token(TOKEN_LBRACE, start)

	case '}':
		l.pos++
		if l.stack.Size() > 0 {
			l.popState()
		}
		return l.token(TOKEN_RBRACE, start)

	case ';':
		l.pos++
		return l.token(TOKEN_SEMICOLON, start)

	case ',':
		l.pos++
		return l.token(TOKEN_COMMA, start)

	case ':':
		if l.byteAt(l.pos+1) == ':' {
			l.pos += 2
			return l.token(T_PAAMAYIM_NEKUDOTAYIM, start)
		}
		l.pos++
		return l.token(TOKEN_COLON, start)
	}

	// 未知字节：诊断并前进一个字节
	l.pos++
	l.diags.Error(errors.CodeUnexpectedCharacter,
		source.NewSpan(uint32(start), uint32(l.pos)),
		"unexpected character %q", string(b))
	return l.token(T_BAD_CHARACTER, start)
}

// ampersandType 实现 & 的上下文区分：下一个非空白字节是 $ 或 ...
// 时返回 T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG。参数解析需要这个
// 区分来正确处理按引用传参。
func (l *Lexer) ampersandType() TokenType {
	i := l.pos
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if l.byteAt(i) == '$' ||
		(l.byteAt(i) == '.' && l.byteAt(i+1) == '.' && l.byteAt(i+2) == '.') {
		return T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG
	}
	return T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG
}

// castTypes 映射 (cast) 中的类型名
var castTypes = map[string]TokenType{
	"int":     T_INT_CAST,
	"integer": T_INT_CAST,
	"bool":    T_BOOL_CAST,
	"boolean": T_BOOL_CAST,
	"float":   T_DOUBLE_CAST,
	"double":  T_DOUBLE_CAST,
	"string":  T_STRING_CAST,
	"binary":  T_STRING_CAST,
	"array":   T_ARRAY_CAST,
	"object":  T_OBJECT_CAST,
	"unset":   T_UNSET_CAST,
	"void":    T_VOID_CAST,
}

// maybeCast 在 ( 处尝试识别类型转换，返回 Token 类型与消耗长度；
// 不匹配时长度为 0。
func (l *Lexer) maybeCast() (TokenType, int) {
	i := l.pos + 1
	for l.byteAt(i) == ' ' || l.byteAt(i) == '\t' {
		i++
	}
	ls := i
	for isLabelPart(l.byteAt(i)) && l.byteAt(i) < 0x80 {
		i++
	}
	if i == ls {
		return T_UNKNOWN, 0
	}
	le := i
	for l.byteAt(i) == ' ' || l.byteAt(i) == '\t' {
		i++
	}
	if l.byteAt(i) != ')' {
		return T_UNKNOWN, 0
	}
	var buf [8]byte
	if le-ls > len(buf) {
		return T_UNKNOWN, 0
	}
	for j := ls; j < le; j++ {
		c := l.input[j]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf[j-ls] = c
	}
	tok, ok := castTypes[string(buf[:le-ls])]
	if !ok {
		return T_UNKNOWN, 0
	}
	return tok, i + 1 - l.pos
}

// ============= 标识符与关键字 =============

func (l *Lexer) lexNameOrKeyword() Token {
	start := l.pos

	// 完全限定名 \Foo\Bar
	if l.input[l.pos] == '\\' {
		l.pos++
		if !isLabelStart(l.byteAt(l.pos)) {
			return l.token(T_NS_SEPARATOR, start)
		}
		l.readLabel()
		for l.byteAt(l.pos) == '\\' && isLabelStart(l.byteAt(l.pos+1)) {
			l.pos++
			l.readLabel()
		}
		return l.token(T_NAME_FULLY_QUALIFIED, start)
	}

	labelStart := l.pos
	l.readLabel()
	label := l.input[labelStart:l.pos]

	// 限定名 Foo\Bar 和相对名 namespace\Foo
	if l.byteAt(l.pos) == '\\' && isLabelStart(l.byteAt(l.pos+1)) {
		relative := foldEqual(label, "namespace")
		for l.byteAt(l.pos) == '\\' && isLabelStart(l.byteAt(l.pos+1)) {
			l.pos++
			l.readLabel()
		}
		if relative {
			return l.token(T_NAME_RELATIVE, start)
		}
		return l.token(T_NAME_QUALIFIED, start)
	}

	info, ok := LookupKeyword(label)
	if !ok {
		return l.token(T_STRING, start)
	}

	switch info.Type {
	case T_YIELD:
		// yield from 合并为单个 Token
		if end, ok := l.scanYieldFrom(); ok {
			l.pos = end
			return l.token(T_YIELD_FROM, start)
		}

	case T_PUBLIC, T_PROTECTED, T_PRIVATE:
		// 非对称可见性：public(set) / protected(set) / private(set)
		if end, ok := l.scanSetSuffix(); ok {
			l.pos = end
			switch info.Type {
			case T_PUBLIC:
				return l.token(T_PUBLIC_SET, start)
			case T_PROTECTED:
				return l.token(T_PROTECTED_SET, start)
			default:
				return l.token(T_PRIVATE_SET, start)
			}
		}

	case T_READONLY:
		// readonly( 是普通函数调用，与 PHP 8.2 起的规则一致
		i := l.pos
		for l.byteAt(i) == ' ' || l.byteAt(i) == '\t' {
			i++
		}
		if l.byteAt(i) == '(' {
			return l.token(T_STRING, start)
		}

	case T_ENUM:
		// enum 仅在后跟空白+标识符时是关键字
		i := l.pos
		for i < len(l.input) && isWhitespace(l.input[i]) {
			i++
		}
		if i == l.pos || !isLabelStart(l.byteAt(i)) {
			return l.token(T_STRING, start)
		}

	case T_HALT_COMPILER:
		// __halt_compiler(); 必须由词法层整体接受：两级前瞻意味着
		// 解析器看到它时，尾部可能已经按脚本模式误读
		if end, ok := l.scanHaltCompilerCall(); ok {
			l.pos = end
			l.state = StHaltCompiler
			return l.token(T_HALT_COMPILER, start)
		}
	}

	return l.token(info.Type, start)
}

func (l *Lexer) readLabel() {
	for isLabelPart(l.byteAt(l.pos)) {
		l.pos++
	}
}

// scanYieldFrom 在 yield 之后探测空白+from
func (l *Lexer) scanYieldFrom() (int, bool) {
	i := l.pos
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if i == l.pos {
		return 0, false
	}
	fs := i
	for isLabelPart(l.byteAt(i)) {
		i++
	}
	if foldEqual(l.input[fs:i], "from") {
		return i, true
	}
	return 0, false
}

// scanHaltCompilerCall 在 __halt_compiler 之后探测 ( ) ;
func (l *Lexer) scanHaltCompilerCall() (int, bool) {
	i := l.pos
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if l.byteAt(i) != '(' {
		return 0, false
	}
	i++
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if l.byteAt(i) != ')' {
		return 0, false
	}
	i++
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if l.byteAt(i) != ';' {
		return 0, false
	}
	return i + 1, true
}

// scanSetSuffix 在可见性关键字之后探测 (set)，允许空白。
// 不匹配时不消耗任何输入。
func (l *Lexer) scanSetSuffix() (int, bool) {
	i := l.pos
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if l.byteAt(i) != '(' {
		return 0, false
	}
	i++
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	ss := i
	for isLabelPart(l.byteAt(i)) {
		i++
	}
	if !foldEqual(l.input[ss:i], "set") {
		return 0, false
	}
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if l.byteAt(i) != ')' {
		return 0, false
	}
	return i + 1, true
}

// ============= 数字字面量 =============

func (l *Lexer) lexNumber() Token {
	start := l.pos

	// 以 . 开头的浮点数
	if l.input[l.pos] == '.' {
		l.pos++
		l.readDigits(isDigit)
		l.scanExponent()
		return l.token(T_DNUMBER, start)
	}

	if l.input[l.pos] == '0' {
		switch l.byteAt(l.pos + 1) {
		case 'x', 'X':
			l.pos += 2
			if !l.readDigits(isHexDigit) {
				return l.badNumber(start)
			}
			return l.intOrFloatToken(start, 16)
		case 'b', 'B':
			l.pos += 2
			if !l.readDigits(isBinaryDigit) {
				return l.badNumber(start)
			}
			return l.intOrFloatToken(start, 2)
		case 'o', 'O':
			l.pos += 2
			if !l.readDigits(isOctalDigit) {
				return l.badNumber(start)
			}
			return l.intOrFloatToken(start, 8)
		}
	}

	legacyOctal := l.input[l.pos] == '0' && isDigit(l.byteAt(l.pos+1))
	l.readDigits(isDigit)

	isFloat := false
	// 尾随小数点也是浮点（PHP 允许 1. 与 1.e5）；两个点让位给
	// 连接与展开运算符
	if l.byteAt(l.pos) == '.' && l.byteAt(l.pos+1) != '.' {
		l.pos++
		l.readDigits(isDigit)
		isFloat = true
	}
	if l.scanExponent() {
		isFloat = true
	}
	if isFloat {
		return l.token(T_DNUMBER, start)
	}

	if legacyOctal {
		// 传统八进制中出现 8/9 是非法数字字面量
		for _, d := range l.input[start:l.pos] {
			if d == '8' || d == '9' {
				return l.badNumber(start)
			}
		}
		return l.intOrFloatToken(start, 8)
	}
	return l.intOrFloatToken(start, 10)
}

// readDigits 读取带下划线分隔的数字序列。下划线必须处于两个数字
// 之间，尾随下划线停在下划线之前。返回是否读到至少一个数字。
func (l *Lexer) readDigits(valid func(byte) bool) bool {
	any := false
	for {
		b := l.byteAt(l.pos)
		if valid(b) {
			any = true
			l.pos++
			continue
		}
		if b == '_' && valid(l.byteAt(l.pos+1)) && any {
			l.pos++
			continue
		}
		return any
	}
}

// scanExponent 探测指数部分；1e 后没有数字时不消耗（PHP 将其拆成
// 数字和标识符）。
func (l *Lexer) scanExponent() bool {
	b := l.byteAt(l.pos)
	if b != 'e' && b != 'E' {
		return false
	}
	i := l.pos + 1
	if l.byteAt(i) == '+' || l.byteAt(i) == '-' {
		i++
	}
	if !isDigit(l.byteAt(i)) {
		return false
	}
	l.pos = i
	l.readDigits(isDigit)
	return true
}

// intOrFloatToken 判定整数是否溢出并提升为浮点
func (l *Lexer) intOrFloatToken(start, base int) Token {
	text := l.input[start:l.pos]
	stripped := make([]byte, 0, len(text))
	for _, b := range text {
		if b != '_' {
			stripped = append(stripped, b)
		}
	}
	digits := stripped
	switch base {
	case 16, 2:
		digits = digits[2:]
	case 8:
		if len(digits) > 1 && (digits[1] == 'o' || digits[1] == 'O') {
			digits = digits[2:]
		} else {
			digits = digits[1:]
		}
		if len(digits) == 0 {
			// 单独的 0
			return l.token(T_LNUMBER, start)
		}
	}
	v, err := strconv.ParseUint(string(digits), base, 64)
	if err != nil || v > math.MaxInt64 {
		return l.token(T_DNUMBER, start)
	}
	return l.token(T_LNUMBER, start)
}

func (l *Lexer) badNumber(start int) Token {
	// 把残余的数字字符吃掉，避免二次报告
	for isLabelPart(l.byteAt(l.pos)) {
		l.pos++
	}
	sp := source.NewSpan(uint32(start), uint32(l.pos))
	l.diags.Error(errors.CodeInvalidNumber, sp, "invalid numeric literal")
	return Token{Type: T_ERROR, Span: sp}
}

// ============= 字符串 =============

func (l *Lexer) lexSingleQuoted() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos += 2
		case '\'':
			l.pos++
			return l.token(T_CONSTANT_ENCAPSED_STRING, start)
		default:
			l.pos++
		}
	}
	l.pos = len(l.input)
	sp := source.NewSpan(uint32(start), uint32(len(l.input)))
	l.diags.Error(errors.CodeUnterminatedString, sp, "unterminated string literal")
	return Token{Type: T_ERROR, Span: sp}
}

// lexDoubleQuoteOpen 预扫描整个双引号字符串：无插值时作为单个
// 常量字符串返回，有插值时发出开引号并进入 ST_DOUBLE_QUOTES。
func (l *Lexer) lexDoubleQuoteOpen() Token {
	start := l.pos
	i := l.pos + 1
	interpolated := false
	for i < len(l.input) {
		switch l.input[i] {
		case '\\':
			i += 2
			continue
		case '"':
			if !interpolated {
				l.pos = i + 1
				return l.token(T_CONSTANT_ENCAPSED_STRING, start)
			}
			l.pos = start + 1
			l.interpStart = start
			l.pushState(StDoubleQuotes)
			return l.token(TOKEN_QUOTE, start)
		case '$':
			if isLabelStart(l.byteAt(i+1)) || l.byteAt(i+1) == '{' {
				interpolated = true
			}
		case '{':
			if l.byteAt(i+1) == '$' {
				interpolated = true
			}
		}
		i++
	}
	l.pos = len(l.input)
	sp := source.NewSpan(uint32(start), uint32(len(l.input)))
	l.diags.Error(errors.CodeUnterminatedString, sp, "unterminated string literal")
	return Token{Type: T_ERROR, Span: sp}
}

// interpSentinel 在插值上下文中处理 $var、${、{$ 哨兵。
// 返回 ok=false 表示当前位置不是哨兵。
func (l *Lexer) interpSentinel() (Token, bool) {
	start := l.pos
	b := l.byteAt(l.pos)
	if b == '$' && isLabelStart(l.byteAt(l.pos+1)) {
		l.pos++
		l.readLabel()
		// $var[expr] 与 $var->prop 的简单形式
		if l.byteAt(l.pos) == '[' {
			l.pushState(StVarOffset)
		} else if l.byteAt(l.pos) == '-' && l.byteAt(l.pos+1) == '>' && isLabelStart(l.byteAt(l.pos+2)) {
			l.pushState(StLookingForProperty)
		}
		return l.token(T_VARIABLE, start), true
	}
	if b == '$' && l.byteAt(l.pos+1) == '{' {
		l.pos += 2
		l.pushState(StLookingForVarname)
		return l.token(T_DOLLAR_OPEN_CURLY_BRACES, start), true
	}
	if b == '{' && l.byteAt(l.pos+1) == '$' {
		// 只消耗 {，$var 随后按脚本模式解析
		l.pos++
		l.pushState(StInScripting)
		return l.token(T_CURLY_OPEN, start), true
	}
	return Token{}, false
}

func isInterpSentinel(b, next byte) bool {
	if b == '$' && (isLabelStart(next) || next == '{') {
		return true
	}
	return b == '{' && next == '$'
}

// lexInterpolated 处理双引号与反引号内部
func (l *Lexer) lexInterpolated(quote byte) Token {
	if l.pos >= len(l.input) {
		sp := source.NewSpan(uint32(l.interpStart), uint32(len(l.input)))
		l.diags.Error(errors.CodeUnterminatedString, sp, "unterminated string literal")
		l.state = StInScripting
		l.stack.states = l.stack.states[:0]
		return Token{Type: T_ERROR, Span: sp}
	}
	start := l.pos
	if l.input[l.pos] == quote {
		l.pos++
		l.popState()
		if quote == '`' {
			return l.token(T_BACKQUOTE, start)
		}
		return l.token(TOKEN_QUOTE, start)
	}
	if tok, ok := l.interpSentinel(); ok {
		return tok
	}
	for l.pos < len(l.input) {
		b := l.input[l.pos]
		if b == quote || isInterpSentinel(b, l.byteAt(l.pos+1)) {
			break
		}
		if b == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		l.pos++
	}
	return l.token(T_ENCAPSED_AND_WHITESPACE, start)
}

// ============= Heredoc / Nowdoc =============

// lexHeredocStart 识别 <<<LABEL、<<<"LABEL"、<<<'LABEL'
func (l *Lexer) lexHeredocStart() Token {
	start := l.pos
	i := l.pos + 3
	for l.byteAt(i) == ' ' || l.byteAt(i) == '\t' {
		i++
	}
	var quote byte
	if l.byteAt(i) == '\'' || l.byteAt(i) == '"' {
		quote = l.byteAt(i)
		i++
	}
	ls := i
	for isLabelPart(l.byteAt(i)) {
		i++
	}
	if i == ls || (ls > l.pos+3 && !isLabelStart(l.input[ls])) {
		// 不是 heredoc：按 << 运算符返回
		l.pos += 2
		return l.token(T_SL, start)
	}
	le := i
	if quote != 0 {
		if l.byteAt(i) != quote {
			l.pos += 2
			return l.token(T_SL, start)
		}
		i++
	}
	if l.byteAt(i) == '\r' {
		i++
	}
	if l.byteAt(i) != '\n' {
		l.pos += 2
		return l.token(T_SL, start)
	}
	i++
	l.pos = i
	nowdoc := quote == '\''
	l.heredocs = append(l.heredocs, heredocInfo{
		label:  source.NewSpan(uint32(ls), uint32(le)),
		nowdoc: nowdoc,
	})
	if nowdoc {
		l.state = StNowdoc
	} else {
		l.state = StHeredoc
	}
	return l.token(T_START_HEREDOC, start)
}

// closerAt 检查 p 是否位于当前 heredoc 结束标签所在行（p 必须是
// 行首）。返回标签结束偏移。
func (l *Lexer) closerAt(p int) (int, bool) {
	if len(l.heredocs) == 0 {
		return 0, false
	}
	h := l.heredocs[len(l.heredocs)-1]
	label := l.src.Slice(h.label)
	i := p
	for l.byteAt(i) == ' ' || l.byteAt(i) == '\t' {
		i++
	}
	if i+len(label) > len(l.input) {
		return 0, false
	}
	for j := 0; j < len(label); j++ {
		if l.input[i+j] != label[j] {
			return 0, false
		}
	}
	if isLabelPart(l.byteAt(i + len(label))) {
		return 0, false
	}
	return i + len(label), true
}

func (l *Lexer) atLineStart(p int) bool {
	return p == 0 || l.byteAt(p-1) == '\n'
}

// finishHeredoc 发出 T_END_HEREDOC 并回到脚本状态
func (l *Lexer) finishHeredoc(end int) Token {
	start := l.pos
	l.pos = end
	l.heredocs = l.heredocs[:len(l.heredocs)-1]
	l.state = StInScripting
	return l.token(T_END_HEREDOC, start)
}

func (l *Lexer) unterminatedHeredoc() Token {
	h := l.heredocs[len(l.heredocs)-1]
	sp := source.NewSpan(uint32(l.pos), uint32(len(l.input)))
	d := errors.Diagnostic{
		Severity: errors.SeverityError,
		Code:     errors.CodeUnterminatedHeredoc,
		Message:  "unterminated heredoc",
		Span:     sp,
	}
	l.diags.Add(d.WithLabel(h.label, "heredoc starts here"))
	l.heredocs = l.heredocs[:len(l.heredocs)-1]
	l.state = StInScripting
	l.pos = len(l.input)
	return Token{Type: T_ERROR, Span: sp}
}

func (l *Lexer) lexHeredoc() Token {
	if l.atLineStart(l.pos) {
		if end, ok := l.closerAt(l.pos); ok {
			return l.finishHeredoc(end)
		}
	}
	if l.pos >= len(l.input) {
		return l.unterminatedHeredoc()
	}
	if tok, ok := l.interpSentinel(); ok {
		return tok
	}
	start := l.pos
	for l.pos < len(l.input) {
		b := l.input[l.pos]
		if isInterpSentinel(b, l.byteAt(l.pos+1)) {
			break
		}
		if b == '\\' && l.pos+1 < len(l.input) && l.byteAt(l.pos+1) != '\n' {
			l.pos += 2
			continue
		}
		l.pos++
		if b == '\n' {
			if _, ok := l.closerAt(l.pos); ok {
				break
			}
		}
	}
	return l.token(T_ENCAPSED_AND_WHITESPACE, start)
}

func (l *Lexer) lexNowdoc() Token {
	if l.atLineStart(l.pos) {
		if end, ok := l.closerAt(l.pos); ok {
			return l.finishHeredoc(end)
		}
	}
	if l.pos >= len(l.input) {
		return l.unterminatedHeredoc()
	}
	start := l.pos
	for l.pos < len(l.input) {
		b := l.input[l.pos]
		l.pos++
		if b == '\n' {
			if _, ok := l.closerAt(l.pos); ok {
				break
			}
		}
	}
	return l.token(T_ENCAPSED_AND_WHITESPACE, start)
}

// ============= 瞬态状态 =============

func (l *Lexer) lexLookingForProperty() Token {
	for l.pos < len(l.input) && isWhitespace(l.input[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.byteAt(l.pos) == '-' && l.byteAt(l.pos+1) == '>' {
		l.pos += 2
		return l.token(T_OBJECT_OPERATOR, start)
	}
	if l.byteAt(l.pos) == '?' && l.byteAt(l.pos+1) == '-' && l.byteAt(l.pos+2) == '>' {
		l.pos += 3
		return l.token(T_NULLSAFE_OBJECT_OPERATOR, start)
	}
	if isLabelStart(l.byteAt(l.pos)) {
		l.readLabel()
		l.popState()
		return l.token(T_STRING, start)
	}
	// 不是属性名：弹出状态重新解析
	l.popState()
	return l.Next()
}

func (l *Lexer) lexLookingForVarname() Token {
	start := l.pos
	if isLabelStart(l.byteAt(l.pos)) {
		save := l.pos
		l.readLabel()
		if l.byteAt(l.pos) == '}' || l.byteAt(l.pos) == '[' {
			l.popState()
			l.pushState(StInScripting)
			return l.token(T_STRING_VARNAME, start)
		}
		l.pos = save
	}
	// 一般表达式：${expr} 内部按脚本模式解析
	l.popState()
	l.pushState(StInScripting)
	return l.Next()
}

func (l *Lexer) lexVarOffset() Token {
	if l.pos >= len(l.input) {
		sp := source.NewSpan(uint32(l.interpStart), uint32(len(l.input)))
		l.diags.Error(errors.CodeUnterminatedString, sp, "unterminated string literal")
		l.state = StInScripting
		l.stack.states = l.stack.states[:0]
		return Token{Type: T_ERROR, Span: sp}
	}
	start := l.pos
	b := l.input[l.pos]
	switch {
	case b == '[':
		l.pos++
		return l.token(TOKEN_LBRACKET, start)
	case b == ']':
		l.pos++
		l.popState()
		return l.token(TOKEN_RBRACKET, start)
	case b == '-':
		l.pos++
		return l.token(TOKEN_MINUS, start)
	case isDigit(b):
		l.pos++
		for isLabelPart(l.byteAt(l.pos)) {
			l.pos++
		}
		return l.token(T_NUM_STRING, start)
	case b == '$' && isLabelStart(l.byteAt(l.pos+1)):
		l.pos++
		l.readLabel()
		return l.token(T_VARIABLE, start)
	case isLabelStart(b):
		l.readLabel()
		return l.token(T_STRING, start)
	}
	// 其他任何字符都终止下标模式
	l.popState()
	return l.Next()
}

// ============= __halt_compiler 尾部 =============

func (l *Lexer) lexHaltCompiler() Token {
	if l.pos >= len(l.input) {
		return l.eofToken()
	}
	start := l.pos
	l.pos = len(l.input)
	return l.token(T_INLINE_HTML, start)
}

// Tokenize 是仅需要词法结果的调用方的入口：返回完整 Token 序列
// （含结尾的 T_EOF）和诊断。
func Tokenize(src *source.Source) ([]Token, *errors.DiagnosticList) {
	diags := &errors.DiagnosticList{}
	l := New(src, diags)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == T_EOF {
			return tokens, diags
		}
	}
}
