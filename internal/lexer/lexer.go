package lexer

import (
	"strings"
	"unicode"

	"github.com/malphas-lang/sidewinder/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrIllegalRune
	ErrInvalidNumber
	ErrUnbalancedBracket
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrInvalidNumber:
		return diag.CodeLexerInvalidNumber
	case ErrUnbalancedBracket:
		return diag.CodeLexerUnbalancedBracket
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// operators is ordered longest first so the scan below is a maximal munch.
var operators = []TokenType{
	ELLIPSIS, POWER_EQ, FLOORDIV_EQ, SHL_EQ, SHR_EQ,
	POWER, FLOORDIV, SHL, SHR, LE, GE, EQ, NOT_EQ, WALRUS, ARROW,
	PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ, AT_EQ, AMP_EQ, PIPE_EQ, CARET_EQ,
	PLUS, MINUS, ASTERISK, SLASH, PERCENT, AT, TILDE, AMPERSAND, PIPE, CARET,
	LT, GT, ASSIGN, BANG, COMMA, SEMICOLON, COLON, DOT,
	LPAREN, RPAREN, LBRACKET, RBRACKET, LBRACE, RBRACE,
}

// Lexer represents the lexer state
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	// depth counts open brackets; newlines inside brackets are not tokens.
	depth int

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	span.Filename = l.filename
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after first read()
	}
	l.read()
	return l
}

// NewNested creates a lexer for source that sits inside an enclosing bracket,
// such as an f-string replacement field, so line breaks are insignificant.
func NewNested(input string) *Lexer {
	l := New(input)
	l.depth = 1
	return l
}

// SetFilename attributes every emitted span to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// read advances the lexer to the next character.
// line/column always reflect the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		// Past the last rune; normalize position to virtual EOF.
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.pos = inputLen
		l.ch = 0
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekAt returns the rune n positions after the current one without advancing.
func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peek() rune {
	return l.peekAt(1)
}

func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos int, raw, value string) Token {
	return Token{
		Type:    tokType,
		Literal: value,
		Raw:     raw,
		Value:   value,
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      l.pos,
		},
	}
}

// skipInsignificant skips blanks, comments, explicit line joins and, inside
// brackets, newlines.
func (l *Lexer) skipInsignificant() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\f':
			l.read()
		case l.ch == '\\' && (l.peek() == '\n' || (l.peek() == '\r' && l.peekAt(2) == '\n')):
			l.read()
			if l.ch == '\r' {
				l.read()
			}
			l.read()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.read()
			}
		case (l.ch == '\n' || l.ch == '\r') && l.depth > 0:
			l.read()
		default:
			return
		}
	}
}

// NextToken returns the next significant token. Blank lines produce
// consecutive NEWLINE tokens; the parser skips them.
func (l *Lexer) NextToken() Token {
	l.skipInsignificant()

	startLine, startColumn, startPos := l.currentSpanStart()

	switch {
	case l.ch == 0:
		return l.makeToken(EOF, startLine, startColumn, startPos, "", "")

	case l.ch == '\n' || l.ch == '\r':
		raw := string(l.ch)
		l.read()
		if raw == "\r" && l.ch == '\n' {
			raw = "\r\n"
			l.read()
		}
		return l.makeToken(NEWLINE, startLine, startColumn, startPos, raw, raw)

	case l.ch == '"' || l.ch == '\'':
		return l.readString(startLine, startColumn, startPos, "")

	case isLetter(l.ch):
		ident := l.readIdentifier()
		if (l.ch == '"' || l.ch == '\'') && isStringPrefix(ident) {
			return l.readString(startLine, startColumn, startPos, ident)
		}
		return l.makeToken(LookupIdent(ident), startLine, startColumn, startPos, ident, ident)

	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peek())):
		return l.readNumber(startLine, startColumn, startPos)
	}

	for _, op := range operators {
		if !l.hasPrefix(string(op)) {
			continue
		}
		for range []rune(string(op)) {
			l.read()
		}
		l.trackDepth(op, startLine, startColumn, startPos)
		return l.makeToken(op, startLine, startColumn, startPos, string(op), string(op))
	}

	ch := l.ch
	l.read()
	l.addError(ErrIllegalRune, "illegal character '"+string(ch)+"'",
		Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
	return l.makeToken(ILLEGAL, startLine, startColumn, startPos, string(ch), string(ch))
}

func (l *Lexer) trackDepth(op TokenType, line, column, start int) {
	switch op {
	case LPAREN, LBRACKET, LBRACE:
		l.depth++
	case RPAREN, RBRACKET, RBRACE:
		if l.depth == 0 {
			l.addError(ErrUnbalancedBracket, "unmatched '"+string(op)+"'",
				Span{Line: line, Column: column, Start: start, End: l.pos})
			return
		}
		l.depth--
	}
}

func (l *Lexer) hasPrefix(s string) bool {
	i := l.pos
	for _, r := range s {
		if i >= len(l.input) || l.input[i] != r {
			return false
		}
		i++
	}
	return true
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber(startLine, startColumn, startPos int) Token {
	valid := true

	if l.ch == '0' && strings.ContainsRune("xXoObB", l.peek()) {
		l.read()
		l.read()
		digits := 0
		for isHexDigit(l.ch) || l.ch == '_' {
			if l.ch != '_' {
				digits++
			}
			l.read()
		}
		valid = digits > 0
	} else {
		l.readDigits()
		if l.ch == '.' && l.peek() != '.' {
			l.read()
			l.readDigits()
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			if !isDigit(l.ch) {
				valid = false
			}
			l.readDigits()
		}
		if l.ch == 'j' || l.ch == 'J' {
			l.read()
		}
	}

	raw := string(l.input[startPos:l.pos])
	if !valid {
		l.addError(ErrInvalidNumber, "invalid number literal '"+raw+"'",
			Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
	}
	return l.makeToken(NUMBER, startLine, startColumn, startPos, raw, raw)
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) || (l.ch == '_' && isDigit(l.peek())) {
		l.read()
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

// isStringPrefix accepts the prefixes r, b, u, f and the combinations rb, br,
// rf and fr in any letter case.
func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "b", "u", "f", "rb", "br", "rf", "fr":
		return true
	default:
		return false
	}
}

// readString reads a string literal starting at its opening quote. The token
// Raw covers the prefix and both delimiters; Value holds the decoded body.
func (l *Lexer) readString(startLine, startColumn, startPos int, prefix string) Token {
	quote := l.ch
	triple := l.peek() == quote && l.peekAt(2) == quote
	delim := 1
	if triple {
		delim = 3
	}
	for i := 0; i < delim; i++ {
		l.read()
	}

	raw := strings.ContainsAny(prefix, "rR")
	var decoded []rune
	terminated := false

	for l.ch != 0 {
		if l.ch == quote && (!triple || (l.peek() == quote && l.peekAt(2) == quote)) {
			for i := 0; i < delim; i++ {
				l.read()
			}
			terminated = true
			break
		}
		if !triple && (l.ch == '\n' || l.ch == '\r') {
			break
		}
		if l.ch == '\\' && l.peek() != 0 {
			l.read()
			if raw {
				decoded = append(decoded, '\\', l.ch)
			} else {
				decoded = append(decoded, decodeEscape(l.ch)...)
			}
			l.read()
			continue
		}
		decoded = append(decoded, l.ch)
		l.read()
	}

	if !terminated {
		msg := "unterminated string literal"
		if triple {
			msg = "unterminated triple-quoted string literal"
		}
		l.addError(ErrUnterminatedString, msg,
			Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos})
	}

	tok := l.makeToken(STRING, startLine, startColumn, startPos, string(l.input[startPos:l.pos]), string(decoded))
	tok.Prefix = prefix
	tok.Triple = triple
	tok.Unterminated = !terminated
	return tok
}

// DecodeEscapes resolves backslash escapes in s the way non-raw string
// literals are decoded.
func DecodeEscapes(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i] == '\\' && i+1 < len(in) {
			i++
			out = append(out, decodeEscape(in[i])...)
			continue
		}
		out = append(out, in[i])
	}
	return string(out)
}

func decodeEscape(ch rune) []rune {
	switch ch {
	case 'n':
		return []rune{'\n'}
	case 't':
		return []rune{'\t'}
	case 'r':
		return []rune{'\r'}
	case '0':
		return []rune{0}
	case '\\', '\'', '"':
		return []rune{ch}
	case '\n':
		return nil
	default:
		return []rune{'\\', ch}
	}
}
