package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/php-parser/source"
)

func TestDiagnosticList_Basics(t *testing.T) {
	var dl DiagnosticList
	assert.False(t, dl.HasErrors())

	dl.Warning(CodeNestedTernary, source.NewSpan(5, 6), "warn")
	assert.False(t, dl.HasErrors())

	dl.Error(CodeUnexpectedToken, source.NewSpan(10, 12), "found %s", "x")
	assert.True(t, dl.HasErrors())
	require.Equal(t, 2, dl.Len())
	assert.Equal(t, "found x", dl.Items()[1].Message)
}

func TestDiagnosticList_Truncate(t *testing.T) {
	var dl DiagnosticList
	dl.Error(CodeUnexpectedToken, source.NewSpan(0, 1), "a")
	dl.Error(CodeUnexpectedToken, source.NewSpan(2, 3), "b")
	dl.Truncate(1)
	require.Equal(t, 1, dl.Len())
	assert.Equal(t, "a", dl.Items()[0].Message)
}

func TestDiagnosticList_SortBySpanIsStable(t *testing.T) {
	var dl DiagnosticList
	dl.Error(CodeUnexpectedToken, source.NewSpan(9, 10), "late")
	dl.Error(CodeUnexpectedToken, source.NewSpan(2, 3), "early-1")
	dl.Error(CodeExpectedToken, source.NewSpan(2, 3), "early-2")
	dl.SortBySpan()
	assert.Equal(t, "early-1", dl.Items()[0].Message)
	assert.Equal(t, "early-2", dl.Items()[1].Message)
	assert.Equal(t, "late", dl.Items()[2].Message)
}

func TestDiagnostic_Format(t *testing.T) {
	src := source.New("x.php", []byte("<?php\n$a = ;"))
	d := Diagnostic{
		Severity: SeverityError,
		Code:     CodeExpectedExpression,
		Message:  "expected expression",
		Span:     source.NewSpan(11, 12),
	}
	d = d.WithLabel(source.NewSpan(6, 8), "assignment starts here")
	out := d.Format(src)
	assert.Contains(t, out, "x.php:2:5")
	assert.Contains(t, out, "error[2003]")
	assert.Contains(t, out, "note: assignment starts here")
}
