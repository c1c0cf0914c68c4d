package parser

import (
	"fmt"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
	Code     diag.Code
	Help     string

	// PrimaryLabel annotates the underline of Span in rendered snippets.
	PrimaryLabel string
	// Related points at enclosing source that gives the error its context.
	Related []RelatedSpan
	Notes   []string
}

// RelatedSpan is a secondary location attached to a ParseError.
type RelatedSpan struct {
	Span  lexer.Span
	Label string
}

func (e ParseError) Error() string {
	return e.ToDiagnostic().Error()
}

// ToDiagnostic converts a parse error into a shared diagnostic structure.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	span := toDiagSpan(e.Span)
	code := e.Code
	if code == "" {
		code = diag.CodeParseUnexpectedToken
	}

	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: e.Severity,
		Code:     code,
		Message:  e.Message,
		Span:     span,
	}
	if e.PrimaryLabel != "" || len(e.Related) > 0 {
		d = d.WithPrimarySpan(span, e.PrimaryLabel)
	}
	for _, rel := range e.Related {
		d = d.WithSecondarySpan(toDiagSpan(rel.Span), rel.Label)
	}
	for _, note := range e.Notes {
		d = d.WithNote(note)
	}
	if e.Help != "" {
		d = d.WithHelp(e.Help)
	}
	return d
}

func toDiagSpan(span lexer.Span) diag.Span {
	return diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}
}

func (p *Parser) emitParseDiagnostic(err ParseError) {
	err.Span = p.spanWithFilename(err.Span)
	for i := range err.Related {
		err.Related[i].Span = p.spanWithFilename(err.Related[i].Span)
	}
	if err.Severity == "" {
		err.Severity = diag.SeverityError
	}
	p.errors = append(p.errors, err)
}

// reportError records a recoverable diagnostic without aborting parsing.
func (p *Parser) reportError(msg string, span lexer.Span) {
	p.emitParseDiagnostic(ParseError{Message: msg, Span: span, Code: diag.CodeParseUnexpectedToken})
}

// reportErrorCode records a diagnostic with a specific code.
func (p *Parser) reportErrorCode(code diag.Code, msg string, span lexer.Span) {
	p.emitParseDiagnostic(ParseError{Message: msg, Span: span, Code: code})
}

// reportTargetError records an invalid target. help suggests the accepted
// forms; it may be empty.
func (p *Parser) reportTargetError(code diag.Code, msg string, span lexer.Span, label, help string) {
	p.emitParseDiagnostic(ParseError{Message: msg, Span: span, Code: code, PrimaryLabel: label, Help: help})
}

// reportStarredValue flags a starred expression that stands alone where a
// value is required, as in "a = *b" or "(*b)".
func (p *Parser) reportStarredValue(expr ast.Expr) {
	if _, ok := expr.(*ast.Starred); !ok {
		return
	}
	p.emitParseDiagnostic(ParseError{
		Message:      "cannot use starred expression here",
		Span:         expr.Span(),
		Code:         diag.CodeParseUnexpectedToken,
		PrimaryLabel: "starred value",
		Notes:        []string{"unpacking needs an enclosing tuple, list or set; add a trailing comma to build a tuple"},
	})
}

// reportExpectedError reports that want was required but found was seen.
func (p *Parser) reportExpectedError(want string, found lexer.Token) {
	p.emitParseDiagnostic(ParseError{
		Message: fmt.Sprintf("expected %s, found %s", want, describeToken(found)),
		Span:    found.Span,
		Code:    diag.CodeParseExpectedToken,
	})
}

// reportUnexpectedError reports a token that cannot start or continue the
// construct named by context.
func (p *Parser) reportUnexpectedError(tok lexer.Token, context string) {
	msg := fmt.Sprintf("unexpected %s", describeToken(tok))
	if context != "" {
		msg += " in " + context
	}
	p.emitParseDiagnostic(ParseError{Message: msg, Span: tok.Span, Code: diag.CodeParseUnexpectedToken})
}

// describeToken renders a token for messages, e.g. "')'" or "end of input".
func describeToken(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.NEWLINE:
		return "newline"
	case lexer.IDENT:
		return fmt.Sprintf("name '%s'", tok.Raw)
	case lexer.NUMBER, lexer.STRING:
		return "literal " + tok.Raw
	}
	if tok.Raw != "" {
		return "'" + tok.Raw + "'"
	}
	return "'" + string(tok.Type) + "'"
}
