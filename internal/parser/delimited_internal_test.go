package parser

import (
	"testing"

	"github.com/malphas-lang/sidewinder/internal/lexer"
)

func TestParseDelimited_AllowsEmpty(t *testing.T) {
	p := New("()")

	// Advance into the list body, leaving curTok on the closing token.
	p.nextToken()

	res, ok := parseDelimited[string](p, delimitedConfig{
		Closing:    lexer.RPAREN,
		AllowEmpty: true,
	}, func(int) (string, bool) {
		t.Fatalf("unexpected element parse invocation for empty list")
		return "", false
	})

	if !ok {
		t.Fatalf("expected success for empty list, got parse failure")
	}
	if len(res.Items) != 0 || res.Trailing {
		t.Fatalf("expected empty result, got %#v", res)
	}
	if p.curTok.Type != lexer.RPAREN {
		t.Fatalf("expected parser to remain on closing token, got %s", p.curTok.Type)
	}
}

func TestParseDelimited_ParsesMultipleElements(t *testing.T) {
	p := New("(foo, bar, baz)")
	p.nextToken()

	res, ok := parseDelimited[string](p, delimitedConfig{Closing: lexer.RPAREN}, parseIdentRaw(p))
	if !ok {
		t.Fatalf("expected multi-element parse to succeed")
	}

	want := []string{"foo", "bar", "baz"}
	if len(res.Items) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(res.Items))
	}
	for i, v := range want {
		if res.Items[i] != v {
			t.Fatalf("expected element %d to be %q, got %q", i, v, res.Items[i])
		}
	}
	if res.Trailing {
		t.Fatalf("expected trailing flag to be false without trailing comma")
	}
	if p.curTok.Type != lexer.RPAREN {
		t.Fatalf("expected parser to end on ')', got %s", p.curTok.Type)
	}
}

func TestParseDelimited_TrailingCommaPolicies(t *testing.T) {
	t.Run("rejects trailing comma when disallowed", func(t *testing.T) {
		p := New("(foo,)")
		p.nextToken()

		res, ok := parseDelimited[string](p, delimitedConfig{
			Closing:           lexer.RPAREN,
			MissingElementMsg: "expected element after ','",
		}, parseIdentRaw(p))

		if ok {
			t.Fatalf("expected parse failure when trailing comma is disallowed, got success with %#v", res)
		}

		errs := p.Errors()
		if len(errs) == 0 {
			t.Fatalf("expected parser to record an error for trailing comma")
		}
		if errs[0].Message != "expected element after ','" {
			t.Fatalf("expected trailing comma error message, got %q", errs[0].Message)
		}
	})

	t.Run("accepts trailing comma when allowed", func(t *testing.T) {
		p := New("(foo,)")
		p.nextToken()

		res, ok := parseDelimited[string](p, delimitedConfig{
			Closing:       lexer.RPAREN,
			AllowTrailing: true,
		}, parseIdentRaw(p))

		if !ok {
			t.Fatalf("expected success when trailing comma is allowed, got failure")
		}
		if len(res.Items) != 1 || res.Items[0] != "foo" {
			t.Fatalf("expected single element 'foo', got %#v", res.Items)
		}
		if !res.Trailing {
			t.Fatalf("expected trailing flag to be true when trailing comma is present")
		}
		if len(p.Errors()) != 0 {
			t.Fatalf("expected no parse errors, got %v", p.Errors())
		}
	})
}

func TestParseDelimited_MissingSeparator(t *testing.T) {
	p := New("(foo bar)")
	p.nextToken()

	_, ok := parseDelimited[string](p, delimitedConfig{
		Closing:             lexer.RPAREN,
		MissingSeparatorMsg: "expected ',' or ')' after element",
	}, parseIdentRaw(p))

	if ok {
		t.Fatalf("expected parse failure when separator is missing")
	}

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected parser to record an error for missing separator")
	}
	if errs[0].Message != "expected ',' or ')' after element" {
		t.Fatalf("expected missing separator error message, got %q", errs[0].Message)
	}
}

func TestParseDelimited_ColonClosesLambdaParameters(t *testing.T) {
	p := New("lambda a, b: a")
	p.nextToken()

	res, ok := parseDelimited[string](p, delimitedConfig{
		Closing:       lexer.COLON,
		AllowEmpty:    true,
		AllowTrailing: true,
	}, parseIdentRaw(p))

	if !ok || len(res.Items) != 2 {
		t.Fatalf("expected two parameters, got %#v (ok=%v)", res.Items, ok)
	}
	if p.peekTok.Type != lexer.IDENT {
		t.Fatalf("expected the body to follow the closing ':', got %s", p.peekTok.Type)
	}
}

func parseIdentRaw(p *Parser) func(int) (string, bool) {
	return func(_ int) (string, bool) {
		if p.curTok.Type != lexer.IDENT {
			p.reportError("expected identifier", p.curTok.Span)
			return "", false
		}
		return p.curTok.Raw, true
	}
}
