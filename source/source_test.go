package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan_Basics(t *testing.T) {
	s := NewSpan(3, 8)
	assert.Equal(t, 5, s.Len())
	assert.False(t, s.IsZero())
	assert.True(t, s.Contains(NewSpan(4, 7)))
	assert.False(t, s.Contains(NewSpan(2, 7)))
	assert.Equal(t, "[3, 8)", s.String())
}

func TestSpan_Join(t *testing.T) {
	a := NewSpan(3, 8)
	b := NewSpan(10, 12)
	assert.Equal(t, NewSpan(3, 12), a.Join(b))
	assert.Equal(t, a, a.Join(Span{}))
	assert.Equal(t, a, Span{}.Join(a))
}

func TestSource_Slice(t *testing.T) {
	src := New("t.php", []byte("<?php echo 1;"))
	assert.Equal(t, "echo", string(src.Slice(NewSpan(6, 10))))
	// 越界区间被截断而不是 panic
	assert.Equal(t, "", string(src.Slice(NewSpan(100, 200))))
	assert.Equal(t, ";", string(src.Slice(NewSpan(12, 99))))
}

func TestSource_Positions(t *testing.T) {
	src := New("t.php", []byte("ab\ncd\n\nefg"))
	tests := []struct {
		offset uint32
		line   int
		column int
	}{
		{0, 1, 0},
		{1, 1, 1},
		{2, 1, 2}, // 换行符本身属于第一行
		{3, 2, 0},
		{6, 3, 0},
		{7, 4, 0},
		{9, 4, 2},
	}
	for _, tt := range tests {
		pos := src.PositionFor(tt.offset)
		assert.Equal(t, tt.line, pos.Line, "offset %d line", tt.offset)
		assert.Equal(t, tt.column, pos.Column, "offset %d column", tt.offset)
	}
}

func TestSource_PositionPastEnd(t *testing.T) {
	src := New("t.php", []byte("ab"))
	pos := src.PositionFor(50)
	assert.Equal(t, 2, pos.Offset)
}
