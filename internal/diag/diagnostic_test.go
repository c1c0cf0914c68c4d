package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

func TestFromLexerError(t *testing.T) {
	err := lexer.LexerError{
		Kind:    lexer.ErrUnterminatedString,
		Message: "unterminated string literal",
		Span: lexer.Span{
			Line:   1,
			Column: 3,
			Start:  2,
			End:    6,
		},
	}

	diagnostic := err.ToDiagnostic()

	if diagnostic.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, diagnostic.Stage)
	}
	if diagnostic.Code != diag.CodeLexerUnterminatedString {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerUnterminatedString, diagnostic.Code)
	}
	if diagnostic.Message != err.Message {
		t.Fatalf("expected message %q, got %q", err.Message, diagnostic.Message)
	}
	if diagnostic.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, diagnostic.Severity)
	}

	wantSpan := diag.Span{
		Line:   err.Span.Line,
		Column: err.Span.Column,
		Start:  err.Span.Start,
		End:    err.Span.End,
	}
	if diagnostic.Span != wantSpan {
		t.Fatalf("expected span %+v, got %+v", wantSpan, diagnostic.Span)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Message:  "cannot assign to literal",
		Span:     diag.Span{Filename: "a.py", Line: 3, Column: 1},
	}
	assert.Equal(t, "a.py:3:1: error: cannot assign to literal", d.Error())

	d.Span = diag.Span{}
	assert.Equal(t, "error: cannot assign to literal", d.Error())
}

func TestFormatterRendersSnippet(t *testing.T) {
	const src = "x = 1\nf() = 2\ny = 3\n"

	var buf bytes.Buffer
	f := diag.NewFormatter(&buf, diag.WithContextLines(0))
	f.AddSource("t.py", src)

	span := diag.Span{Filename: "t.py", Line: 2, Column: 1, Start: 6, End: 9}
	f.Format(diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeParseInvalidTarget,
		Message:  "cannot assign to function call",
		Span:     span,
	}.WithPrimarySpan(span, "not a storage location").WithHelp("assign to a name, attribute or subscript"))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7, out)
	assert.Equal(t, "error[PARSE_INVALID_ASSIGNMENT_TARGET]: cannot assign to function call", lines[0])
	assert.Equal(t, "  --> t.py:2:1", lines[1])
	assert.Equal(t, "     |", lines[2])
	assert.Equal(t, "   2 | f() = 2", lines[3])
	assert.Equal(t, "     | ^^^ not a storage location", lines[4])
	assert.Equal(t, "     |", lines[5])
	assert.Equal(t, "help: assign to a name, attribute or subscript", lines[6])
}

func TestFormatterSecondarySpans(t *testing.T) {
	const src = "a, f() = g()\n"

	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("", src)

	whole := diag.Span{Line: 1, Column: 1, Start: 0, End: 6}
	call := diag.Span{Line: 1, Column: 4, Start: 3, End: 6}
	f.Format(diag.Diagnostic{Message: "invalid target", Span: call}.
		WithPrimarySpan(call, "here").
		WithSecondarySpan(whole, "in this target list"))

	out := buf.String()
	assert.Contains(t, out, "  --> <input>:1:1")
	assert.Contains(t, out, "~~~^^^ here")
	assert.Contains(t, out, "| in this target list")
}

func TestFormatterFallsBackWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)

	f.Format(diag.Diagnostic{Message: "no location"})
	assert.Equal(t, "error: no location\n", buf.String())
}

func TestJoin(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.SeverityWarning, Message: "w", Span: diag.Span{Line: 1, Column: 1}},
		{Severity: diag.SeverityError, Message: "e1", Span: diag.Span{Line: 2, Column: 1}},
		{Severity: diag.SeverityNote, Message: "n"},
		{Severity: diag.SeverityError, Message: "e2", Span: diag.Span{Line: 3, Column: 4}},
	}

	err := diag.Join(diags, false)
	require.Error(t, err)
	assert.Equal(t, "2:1: error: e1\n3:4: error: e2", err.Error())

	strict := diag.Join(diags, true)
	require.Error(t, strict)
	assert.Contains(t, strict.Error(), "warning: w")

	assert.NoError(t, diag.Join(diags[:1], false))
	assert.NoError(t, diag.Join(nil, true))
}

func TestHasErrorsAndSort(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.SeverityWarning, Span: diag.Span{Start: 9}},
		{Severity: diag.SeverityNote, Span: diag.Span{Start: 1}},
	}
	assert.False(t, diag.HasErrors(diags, false))
	assert.True(t, diag.HasErrors(diags, true))

	diag.Sort(diags)
	assert.Equal(t, 1, diags[0].Span.Start)
	assert.Equal(t, 9, diags[1].Span.Start)
}
