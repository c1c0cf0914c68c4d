package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

func (p *Parser) parseNumberLiteral() ast.Expr {
	return ast.NewLiteral(ast.LiteralNumber, p.curTok.Raw, p.curTok.Span)
}

func (p *Parser) parseConstant() ast.Expr {
	var kind ast.LiteralKind
	switch p.curTok.Type {
	case lexer.TRUE:
		kind = ast.LiteralTrue
	case lexer.FALSE:
		kind = ast.LiteralFalse
	case lexer.NONE:
		kind = ast.LiteralNone
	default:
		kind = ast.LiteralEllipsis
	}

	return ast.NewLiteral(kind, p.curTok.Raw, p.curTok.Span)
}

// parseStringAtom joins adjacent string tokens into one Literal, or into one
// FormattedString when any piece is an f-string.
func (p *Parser) parseStringAtom() ast.Expr {
	toks := []lexer.Token{p.curTok}
	for p.peekTok.Type == lexer.STRING {
		p.nextToken()
		toks = append(toks, p.curTok)
	}
	span := mergeSpan(toks[0].Span, p.curTok.Span)

	formatted := false
	bytesPieces := 0
	for _, tok := range toks {
		if tok.IsFormatted() {
			formatted = true
		}
		if tok.IsBytes() {
			bytesPieces++
		}
	}
	if bytesPieces > 0 && bytesPieces < len(toks) {
		p.reportError("cannot mix bytes and nonbytes literals", span)
	}

	if !formatted {
		kind := ast.LiteralString
		if bytesPieces > 0 {
			kind = ast.LiteralBytes
		}

		var value strings.Builder
		segments := make([]lexer.Span, 0, len(toks))
		for _, tok := range toks {
			value.WriteString(tok.Value)
			segments = append(segments, p.stringBody(tok))
		}

		lit := ast.NewLiteral(kind, value.String(), span)
		lit.Segments = segments
		return lit
	}

	var parts []ast.Expr
	for _, tok := range toks {
		body := p.stringBody(tok)
		if tok.IsFormatted() {
			parts = appendParts(parts, p.parseFStringBody(body.Start, body.End, tok.IsRaw())...)
			continue
		}
		parts = appendParts(parts, stringPart(tok.Value, body))
	}

	return ast.NewFormattedString(parts, span)
}

// stringBody returns the span of tok's body, without prefix and quotes. An
// unterminated string has no closing delimiter to trim.
func (p *Parser) stringBody(tok lexer.Token) lexer.Span {
	prefixLen := utf8.RuneCountInString(tok.Prefix)
	if !tok.Unterminated {
		return TrimQuoteSpan(tok.Span, prefixLen, tok.Triple)
	}

	quote := 1
	if tok.Triple {
		quote = 3
	}
	span := tok.Span
	span.Start = min(span.Start+prefixLen+quote, span.End)
	span.Column += span.Start - tok.Span.Start
	return span
}

func stringPart(value string, span lexer.Span) *ast.Literal {
	lit := ast.NewLiteral(ast.LiteralString, value, span)
	lit.Segments = []lexer.Span{span}
	return lit
}

// appendParts adds f-string parts, folding adjacent string pieces into one
// Literal whose span covers both.
func appendParts(parts []ast.Expr, more ...ast.Expr) []ast.Expr {
	for _, part := range more {
		lit, ok := part.(*ast.Literal)
		if ok && len(parts) > 0 {
			if prev, ok := parts[len(parts)-1].(*ast.Literal); ok {
				prev.Value += lit.Value
				prev.Segments = append(prev.Segments, lit.Segments...)
				SetExprSpan(prev, mergeSpan(prev.Span(), lit.Span()))
				continue
			}
		}
		parts = append(parts, part)
	}
	return parts
}

// parseFStringBody splits the f-string body src[start:end] into string parts
// and replacement fields.
func (p *Parser) parseFStringBody(start, end int, raw bool) []ast.Expr {
	var (
		parts     []ast.Expr
		text      []rune
		textStart = start
	)

	flush := func(upto int) {
		if len(text) == 0 {
			return
		}
		value := string(text)
		if !raw {
			value = lexer.DecodeEscapes(value)
		}
		parts = append(parts, stringPart(value, p.spanAt(textStart, upto)))
		text = text[:0]
	}

	for i := start; i < end; {
		ch := p.src[i]
		switch {
		case (ch == '{' || ch == '}') && i+1 < end && p.src[i+1] == ch:
			text = append(text, ch)
			i += 2

		case ch == '{':
			flush(i)
			field, next := p.parseReplacementField(i, end, raw)
			parts = append(parts, field)
			i = next
			textStart = i

		case ch == '}':
			p.reportErrorCode(diag.CodeParseInvalidFString, "f-string: single '}' is not allowed", p.spanAt(i, i+1))
			i++

		default:
			text = append(text, ch)
			i++
		}
	}
	flush(end)

	return parts
}

// parseReplacementField parses "{expr!c:spec}" starting at the '{' at open and
// returns the field with the offset just past its closing '}'.
func (p *Parser) parseReplacementField(open, end int, raw bool) (ast.Expr, int) {
	i := p.scanFieldExpr(open+1, end)
	value := p.parseEmbeddedExpr(open+1, i)

	var conversion rune
	if i < end && p.src[i] == '!' {
		i++
		if i < end && strings.ContainsRune("sra", p.src[i]) {
			conversion = p.src[i]
			i++
		} else {
			p.reportErrorCode(diag.CodeParseInvalidFString,
				"f-string: invalid conversion character: expected 's', 'r', or 'a'",
				p.spanAt(i-1, min(i+1, end)))
		}
	}

	var spec *ast.FormattedString
	if i < end && p.src[i] == ':' {
		i++
		specEnd := p.scanFormatSpec(i, end)
		spec = ast.NewFormattedString(p.parseFStringBody(i, specEnd, raw), p.spanAt(i, specEnd))
		i = specEnd
	}

	if i >= end || p.src[i] != '}' {
		p.reportErrorCode(diag.CodeParseInvalidFString, "f-string: expecting '}'", p.spanAt(open, min(i+1, end)))
		for i < end && p.src[i] != '}' {
			i++
		}
		if i < end {
			i++
		}
		return ast.NewFormattedValue(value, conversion, spec, p.spanAt(open, i)), i
	}

	i++
	return ast.NewFormattedValue(value, conversion, spec, p.spanAt(open, i)), i
}

// scanFieldExpr returns the offset where the expression of a replacement field
// ends: the first '!', ':' or '}' outside brackets and nested quotes.
func (p *Parser) scanFieldExpr(i, end int) int {
	depth := 0
	var quote rune

	for ; i < end; i++ {
		ch := p.src[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '!':
			if depth == 0 && (i+1 >= end || p.src[i+1] != '=') {
				return i
			}
		case ':':
			if depth == 0 {
				return i
			}
		}
	}

	return end
}

// scanFormatSpec returns the offset of the '}' closing a format spec that
// starts at i. Nested replacement fields are skipped.
func (p *Parser) scanFormatSpec(i, end int) int {
	depth := 0
	for ; i < end; i++ {
		switch p.src[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return end
}

// parseEmbeddedExpr parses the expression text src[start:end] of a replacement
// field with a nested parser, then moves every span and diagnostic it produced
// onto this parser's source.
func (p *Parser) parseEmbeddedExpr(start, end int) ast.Expr {
	if strings.TrimSpace(string(p.src[start:end])) == "" {
		p.reportErrorCode(diag.CodeParseInvalidFString, "f-string: empty expression not allowed", p.spanAt(start, end))
		return ast.NewInvalid(p.spanAt(start, end))
	}

	sub := New(string(p.src[start:end]), withNested(), WithFilename(p.filename))
	expr := sub.ParseExpression()
	p.rebase(expr, start)

	for _, err := range sub.errors {
		err.Span = p.rebaseSpan(err.Span, start)
		p.errors = append(p.errors, err)
	}
	for _, errs := range [][]lexer.LexerError{sub.lx.Errors, sub.nestedLexErrors} {
		for _, err := range errs {
			err.Span = p.rebaseSpan(err.Span, start)
			p.nestedLexErrors = append(p.nestedLexErrors, err)
		}
	}

	return expr
}

type spanSetter interface {
	Span() lexer.Span
	SetSpan(lexer.Span)
}

// rebase shifts every span under node, parsed from a substring starting at
// offset, onto this parser's source.
func (p *Parser) rebase(node ast.Node, offset int) {
	ast.Walk(node, func(n ast.Node) bool {
		switch n := n.(type) {
		case ast.Expr:
			SetExprSpan(n, p.rebaseSpan(n.Span(), offset))
			if lit, ok := n.(*ast.Literal); ok {
				for i, seg := range lit.Segments {
					lit.Segments[i] = p.rebaseSpan(seg, offset)
				}
			}
		case spanSetter:
			n.SetSpan(p.rebaseSpan(n.Span(), offset))
		}
		return true
	})
}

func (p *Parser) rebaseSpan(span lexer.Span, offset int) lexer.Span {
	return p.spanAt(span.Start+offset, span.End+offset)
}
