package parser

import (
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// delimitedConfig describes a separated list such as call arguments, subscript
// elements or lambda parameters.
type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	AllowEmpty    bool
	AllowTrailing bool

	MissingElementMsg   string
	MissingSeparatorMsg string
}

type delimitedResult[T any] struct {
	Items    []T
	Trailing bool
}

// parseDelimited parses items until cfg.Closing. On entry curTok is the first
// item or the closing token; on success curTok is the closing token. On
// failure curTok is left where the error was found.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func(idx int) (T, bool)) (delimitedResult[T], bool) {
	var result delimitedResult[T]

	if cfg.Separator == "" {
		cfg.Separator = lexer.COMMA
	}

	if cfg.Closing == "" {
		panic("parseDelimited requires a closing token")
	}

	missingElement := func() {
		msg := cfg.MissingElementMsg
		if msg == "" {
			msg = "expected element"
		}
		p.reportError(msg, p.curTok.Span)
	}

	if p.curTok.Type == cfg.Closing {
		if cfg.AllowEmpty {
			return result, true
		}
		missingElement()
		return result, false
	}

	for {
		item, ok := parseItem(len(result.Items))
		if !ok {
			return result, false
		}
		result.Items = append(result.Items, item)

		switch p.peekTok.Type {
		case cfg.Separator:
			p.nextToken() // move to separator
			p.nextToken() // move to next potential element

			if p.curTok.Type == cfg.Closing {
				if cfg.AllowTrailing {
					result.Trailing = true
					return result, true
				}
				missingElement()
				return result, false
			}
		case cfg.Closing:
			p.nextToken()
			return result, true
		default:
			msg := cfg.MissingSeparatorMsg
			if msg == "" {
				msg = "expected '" + string(cfg.Separator) + "' or '" + string(cfg.Closing) + "'"
			}
			p.reportError(msg, p.peekTok.Span)
			return result, false
		}
	}
}
