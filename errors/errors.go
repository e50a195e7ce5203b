// Package errors defines the diagnostic values produced by the lexer
// and parser. Diagnostics are plain values on a side channel: the parse
// itself never fails and never throws.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wudi/php-parser/source"
)

// Severity 诊断级别
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String 返回级别的字符串表示
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Code 是稳定的诊断编号。1xxx 为词法错误，2xxx 为语法错误。
// 编号一旦发布不再复用。
type Code uint16

const (
	// 词法错误
	CodeUnterminatedString  Code = 1001
	CodeUnterminatedHeredoc Code = 1002
	CodeInvalidNumber       Code = 1003
	CodeUnexpectedCharacter Code = 1004
	CodeUnterminatedComment Code = 1005

	// 语法错误
	CodeUnexpectedToken       Code = 2001
	CodeExpectedToken         Code = 2002
	CodeExpectedExpression    Code = 2003
	CodeExpectedStatement     Code = 2004
	CodeExpectedIdentifier    Code = 2005
	CodeExpectedType          Code = 2006
	CodeUnclosedDelimiter     Code = 2007
	CodeExpectedMember        Code = 2008
	CodeInvalidHookBody       Code = 2009
	CodeSetVisibilityMisuse   Code = 2301
	CodeNestedTernary         Code = 2302
	CodeNamedArgumentInClone  Code = 2303
	CodeDuplicateModifier     Code = 2304
	CodeAbstractWithBody      Code = 2305
	CodeInvalidEncapsedTarget Code = 2306
	CodeNestingTooDeep        Code = 2307
)

// Label 是附加在诊断上的次级区间注记
type Label struct {
	Span source.Span `json:"span"`
	Note string      `json:"note"`
}

// Diagnostic 表示一条诊断：级别、稳定编号、消息、主区间和零个或
// 多个次级区间。
type Diagnostic struct {
	Severity Severity    `json:"severity"`
	Code     Code        `json:"code"`
	Message  string      `json:"message"`
	Span     source.Span `json:"span"`
	Labels   []Label     `json:"labels,omitempty"`
}

// WithLabel 追加一个次级区间注记
func (d Diagnostic) WithLabel(span source.Span, note string) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: span, Note: note})
	return d
}

// String 返回诊断的字符串表示（不含行列信息）
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%04d]: %s at %s", d.Severity, d.Code, d.Message, d.Span)
}

// Format 渲染带行列位置的诊断文本
func (d Diagnostic) Format(src *source.Source) string {
	pos := src.SpanPosition(d.Span)
	var b strings.Builder
	name := src.Name()
	if name == "" {
		name = "<input>"
	}
	fmt.Fprintf(&b, "%s:%d:%d: %s[%04d]: %s", name, pos.Line, pos.Column, d.Severity, d.Code, d.Message)
	for _, l := range d.Labels {
		lp := src.SpanPosition(l.Span)
		fmt.Fprintf(&b, "\n  note: %s (at %d:%d)", l.Note, lp.Line, lp.Column)
	}
	return b.String()
}

// DiagnosticList 按产生顺序收集诊断。词法层领先解析器两个词法单元，
// 词法诊断与语法诊断可能交错而偏离源顺序；parser.Parse 结束时调用
// SortBySpan 按主区间起点稳定排序。
type DiagnosticList struct {
	items []Diagnostic
}

// Add 追加一条诊断
func (dl *DiagnosticList) Add(d Diagnostic) {
	dl.items = append(dl.items, d)
}

// Error 追加一条 error 级诊断
func (dl *DiagnosticList) Error(code Code, span source.Span, format string, args ...any) {
	dl.Add(Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Warning 追加一条 warning 级诊断
func (dl *DiagnosticList) Warning(code Code, span source.Span, format string, args ...any) {
	dl.Add(Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Items 返回全部诊断
func (dl *DiagnosticList) Items() []Diagnostic {
	return dl.items
}

// Len 返回诊断数量
func (dl *DiagnosticList) Len() int {
	return len(dl.items)
}

// HasErrors 检查是否存在 error 级诊断
func (dl *DiagnosticList) HasErrors() bool {
	for _, d := range dl.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SortBySpan 按主区间起点稳定排序。词法层比语法层多看两个 Token，
// 两类诊断可能交错产生；解析结束时归一为源顺序。
func (dl *DiagnosticList) SortBySpan() {
	sort.SliceStable(dl.items, func(i, j int) bool {
		return dl.items[i].Span.Start < dl.items[j].Span.Start
	})
}

// Truncate 丢弃第 n 条之后的诊断，token source 推测回退时使用
func (dl *DiagnosticList) Truncate(n int) {
	if n >= 0 && n <= len(dl.items) {
		dl.items = dl.items[:n]
	}
}

// String 返回所有诊断的字符串表示
func (dl *DiagnosticList) String() string {
	var b strings.Builder
	for i, d := range dl.items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.String())
	}
	return b.String()
}
