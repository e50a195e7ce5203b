package lexer

import "github.com/wudi/php-parser/source"

// State 表示词法分析器的扫描状态
type State int

// PHP Lexer 状态枚举，基于 PHP 官方实现
const (
	// 初始状态 - 解析 HTML 内容
	StInitial State = iota

	// 脚本状态 - 解析 PHP 代码
	StInScripting

	// 双引号字符串状态
	StDoubleQuotes

	// Heredoc 状态
	StHeredoc

	// Nowdoc 状态
	StNowdoc

	// 字符串中的变量下标状态（如 "$arr[index]" 中的 index）
	StVarOffset

	// 查找对象属性状态（-> / ?-> 之后）
	StLookingForProperty

	// 查找变量名状态（${ 之后）
	StLookingForVarname

	// 反引号命令执行状态
	StBackquote

	// __halt_compiler(); 之后的原始尾部
	StHaltCompiler
)

// stateNames 提供状态到名称的映射，便于调试
var stateNames = map[State]string{
	StInitial:            "ST_INITIAL",
	StInScripting:        "ST_IN_SCRIPTING",
	StDoubleQuotes:       "ST_DOUBLE_QUOTES",
	StHeredoc:            "ST_HEREDOC",
	StNowdoc:             "ST_NOWDOC",
	StVarOffset:          "ST_VAR_OFFSET",
	StLookingForProperty: "ST_LOOKING_FOR_PROPERTY",
	StLookingForVarname:  "ST_LOOKING_FOR_VARNAME",
	StBackquote:          "ST_BACKQUOTE",
	StHaltCompiler:       "ST_HALT_COMPILER",
}

// String 返回状态的字符串表示
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN_STATE"
}

// stateStack 状态栈，用于嵌套状态管理。成功解析结束时栈是平衡的
// （回到空栈；开标签不压栈，当前状态通常仍是 StInScripting），
// 未闭合的 heredoc 等通过诊断报告。
type stateStack struct {
	states []State
}

// Push 压入新状态
func (s *stateStack) Push(state State) {
	s.states = append(s.states, state)
}

// Pop 弹出栈顶状态
func (s *stateStack) Pop() State {
	if len(s.states) == 0 {
		return StInitial
	}
	last := len(s.states) - 1
	state := s.states[last]
	s.states = s.states[:last]
	return state
}

// Peek 查看栈顶状态而不弹出
func (s *stateStack) Peek() State {
	if len(s.states) == 0 {
		return StInitial
	}
	return s.states[len(s.states)-1]
}

// Size 返回栈大小
func (s *stateStack) Size() int {
	return len(s.states)
}

// Snapshot 复制当前栈内容，用于 token source 的推测回退
func (s *stateStack) Snapshot() []State {
	out := make([]State, len(s.states))
	copy(out, s.states)
	return out
}

// Restore 用快照内容覆盖当前栈
func (s *stateStack) Restore(snapshot []State) {
	s.states = s.states[:0]
	s.states = append(s.states, snapshot...)
}

// heredocInfo 记录一个进行中的 heredoc/nowdoc
type heredocInfo struct {
	label  source.Span // 标签在源中的区间
	nowdoc bool        // <<<'LABEL' 形式
}
