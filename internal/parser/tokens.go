package parser

import (
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// nextToken advances the parser's token window.
// Contract: after calling nextToken, curTok == old(peekTok). The lexer is only
// queried from this hop and from peekTokenAt, which fills tokenBuffer.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if len(p.tokenBuffer) > 0 {
		p.peekTok = p.tokenBuffer[0]
		p.tokenBuffer = p.tokenBuffer[1:]
		return
	}
	p.peekTok = p.lx.NextToken()
}

// peekTokenAt returns the token n positions after peekTok without consuming
// anything. peekTokenAt(0) is peekTok.
func (p *Parser) peekTokenAt(n int) lexer.Token {
	if n == 0 {
		return p.peekTok
	}
	for len(p.tokenBuffer) < n {
		tok := p.lx.NextToken()
		p.tokenBuffer = append(p.tokenBuffer, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	if len(p.tokenBuffer) >= n {
		return p.tokenBuffer[n-1]
	}
	return p.tokenBuffer[len(p.tokenBuffer)-1]
}

// expect asserts that the peek token matches the provided type.
// The caller is responsible for inspecting curTok before invoking expect,
// because expect never rewinds; on success it promotes peekTok into curTok.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.reportExpectedError("'"+string(tt)+"'", p.peekTok)
	return false
}

func (p *Parser) peekIs(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.peekTok.Type == tt {
			return true
		}
	}
	return false
}
