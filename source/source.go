// Package source owns the input byte buffer and the span/position types
// every token and AST node refers back to.
package source

import (
	"fmt"
	"sort"
)

// Span 表示源代码中的半开字节区间 [Start, End)
type Span struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// NewSpan 创建一个新的 Span
func NewSpan(start, end uint32) Span {
	return Span{Start: start, End: end}
}

// Len 返回区间长度
func (s Span) Len() int {
	return int(s.End - s.Start)
}

// IsZero 检查是否为零值区间
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Join returns the smallest span covering both s and other. A zero span
// on either side yields the other side unchanged, so spans can be folded
// together without special-casing empty productions.
func (s Span) Join(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// String 返回区间的字符串表示
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Position 表示 Span 起点对应的行列位置
type Position struct {
	Line   int `json:"line"`   // 行号（从1开始）
	Column int `json:"column"` // 列号（从0开始）
	Offset int `json:"offset"` // 字节偏移（从0开始）
}

// String 返回位置的字符串表示
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Source 是一次解析的不可变输入缓冲区
type Source struct {
	name  string
	bytes []byte

	// 行起始偏移索引，首次请求位置时惰性构建
	lineStarts []uint32
}

// New 创建新的 Source
func New(name string, bytes []byte) *Source {
	return &Source{name: name, bytes: bytes}
}

// Name 返回缓冲区名称（通常为文件名，可为空）
func (s *Source) Name() string {
	return s.name
}

// Bytes 返回完整输入。调用方不得修改返回的切片。
func (s *Source) Bytes() []byte {
	return s.bytes
}

// Len 返回输入字节数
func (s *Source) Len() int {
	return len(s.bytes)
}

// Slice returns the bytes covered by sp. The span is clamped to the
// buffer so a malformed span can never panic a caller.
func (s *Source) Slice(sp Span) []byte {
	start, end := int(sp.Start), int(sp.End)
	if start > len(s.bytes) {
		start = len(s.bytes)
	}
	if end > len(s.bytes) {
		end = len(s.bytes)
	}
	if start > end {
		start = end
	}
	return s.bytes[start:end]
}

// Text 返回 Span 覆盖的文本（复制）
func (s *Source) Text(sp Span) string {
	return string(s.Slice(sp))
}

// PositionFor 计算偏移对应的行列位置
func (s *Source) PositionFor(offset uint32) Position {
	if s.lineStarts == nil {
		s.buildLineIndex()
	}
	off := int(offset)
	if off > len(s.bytes) {
		off = len(s.bytes)
	}
	// 找到最后一个 lineStarts[i] <= off 的 i
	i := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > uint32(off)
	}) - 1
	return Position{
		Line:   i + 1,
		Column: off - int(s.lineStarts[i]),
		Offset: off,
	}
}

// SpanPosition 返回 Span 起点的位置
func (s *Source) SpanPosition(sp Span) Position {
	return s.PositionFor(sp.Start)
}

func (s *Source) buildLineIndex() {
	starts := make([]uint32, 1, 64)
	starts[0] = 0
	for i, b := range s.bytes {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	s.lineStarts = starts
}
