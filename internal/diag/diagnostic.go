package diag

import "fmt"

// Stage identifies which front-end phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// LabeledSpan represents a span with an optional label.
type LabeledSpan struct {
	Span  Span
	Label string // Optional label (e.g., "cannot assign to function call")
	Style string // "primary" or "secondary" - primary spans are emphasized
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedString Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerIllegalRune        Code = "LEXER_ILLEGAL_RUNE"
	CodeLexerInvalidNumber      Code = "LEXER_INVALID_NUMBER"
	CodeLexerUnbalancedBracket  Code = "LEXER_UNBALANCED_BRACKET"

	// Parser errors
	CodeParseUnexpectedToken     Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseExpectedToken       Code = "PARSE_EXPECTED_TOKEN"
	CodeParseInvalidTarget       Code = "PARSE_INVALID_ASSIGNMENT_TARGET"
	CodeParseInvalidAugTarget    Code = "PARSE_INVALID_AUG_ASSIGNMENT_TARGET"
	CodeParseInvalidDeleteTarget Code = "PARSE_INVALID_DELETE_TARGET"
	CodeParseInvalidNamedTarget  Code = "PARSE_INVALID_NAMED_EXPR_TARGET"
	CodeParseInvalidFString      Code = "PARSE_INVALID_FSTRING"
	CodeParseUnsupported         Code = "PARSE_UNSUPPORTED_SYNTAX"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a front-end diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span // Primary span
	// LabeledSpans allows multiple spans with labels; the first is primary.
	LabeledSpans []LabeledSpan
	Notes        []string // Additional notes to display
	Help         string
}

// Error renders the diagnostic on one line so it can travel as an error value.
func (d Diagnostic) Error() string {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Span, severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", severity, d.Message)
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
