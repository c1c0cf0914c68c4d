package parser

import (
	"sort"

	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// mergeSpan assumes start.End <= end.End and returns a span covering both.
// The parser relies on lexer spans being half-open; callers should pass the
// earliest start span first to preserve monotonic growth for AST nodes.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	return span
}

// spanAt builds a span for the rune range [start, end) of the parser's own
// source, recovering line and column from the line table.
func (p *Parser) spanAt(start, end int) lexer.Span {
	line := sort.Search(len(p.lineStarts), func(i int) bool {
		return p.lineStarts[i] > start
	})
	return lexer.Span{
		Filename: p.filename,
		Line:     line,
		Column:   start - p.lineStarts[line-1] + 1,
		Start:    start,
		End:      end,
	}
}

func lineStarts(src []rune) []int {
	starts := []int{0}
	for i, r := range src {
		switch {
		case r == '\n':
			starts = append(starts, i+1)
		case r == '\r' && (i+1 >= len(src) || src[i+1] != '\n'):
			starts = append(starts, i+1)
		}
	}
	return starts
}

// isStatementEnd reports whether tt terminates a simple statement.
func isStatementEnd(tt lexer.TokenType) bool {
	switch tt {
	case lexer.NEWLINE, lexer.SEMICOLON, lexer.EOF:
		return true
	default:
		return false
	}
}

// isCompoundStart reports whether tt opens a statement form this parser
// does not accept.
func isCompoundStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.DEF, lexer.CLASS, lexer.WHILE, lexer.WITH, lexer.TRY, lexer.IF, lexer.FOR,
		lexer.RETURN, lexer.IMPORT, lexer.FROM, lexer.PASS, lexer.ASYNC, lexer.ELSE:
		return true
	default:
		return false
	}
}

func (p *Parser) peekPrecedence() int {
	switch p.peekTok.Type {
	case lexer.NOT:
		// Only "not in" continues an expression; a bare "not" is a prefix.
		if p.peekTokenAt(1).Type == lexer.IN {
			return precedenceCompare
		}
		return precedenceLowest
	}
	if prec, ok := precedences[p.peekTok.Type]; ok {
		return prec
	}

	return precedenceLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curTok.Type]; ok {
		return prec
	}

	return precedenceLowest
}

// recoverStatement skips to the next statement boundary, leaving curTok on
// the NEWLINE, ';' or EOF token.
func (p *Parser) recoverStatement() {
	for !isStatementEnd(p.curTok.Type) {
		p.nextToken()
	}
}
