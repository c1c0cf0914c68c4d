package parser

import (
	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Option func(*options)

type options struct {
	filename string
	nested   bool
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// withNested lexes the input as if it were inside brackets. Replacement
// fields of f-strings are parsed this way.
func withNested() Option {
	return func(o *options) {
		o.nested = true
	}
}

const (
	precedenceLowest = iota
	precedenceTernary
	precedenceOr
	precedenceAnd
	precedenceNot
	precedenceCompare
	precedenceBitOr
	precedenceBitXor
	precedenceBitAnd
	precedenceShift
	precedenceSum
	precedenceProduct
	precedenceUnary
	precedencePower
	precedenceAwait
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.IF:        precedenceTernary,
	lexer.OR:        precedenceOr,
	lexer.AND:       precedenceAnd,
	lexer.EQ:        precedenceCompare,
	lexer.NOT_EQ:    precedenceCompare,
	lexer.LT:        precedenceCompare,
	lexer.LE:        precedenceCompare,
	lexer.GT:        precedenceCompare,
	lexer.GE:        precedenceCompare,
	lexer.IN:        precedenceCompare,
	lexer.IS:        precedenceCompare,
	lexer.PIPE:      precedenceBitOr,
	lexer.CARET:     precedenceBitXor,
	lexer.AMPERSAND: precedenceBitAnd,
	lexer.SHL:       precedenceShift,
	lexer.SHR:       precedenceShift,
	lexer.PLUS:      precedenceSum,
	lexer.MINUS:     precedenceSum,
	lexer.ASTERISK:  precedenceProduct,
	lexer.SLASH:     precedenceProduct,
	lexer.FLOORDIV:  precedenceProduct,
	lexer.PERCENT:   precedenceProduct,
	lexer.AT:        precedenceProduct,
	lexer.POWER:     precedencePower,
	lexer.LPAREN:    precedencePostfix,
	lexer.LBRACKET:  precedencePostfix,
	lexer.DOT:       precedencePostfix,
}

// Parser implements a Pratt-style recursive descent parser for the expression
// and simple-statement subset of Python.
// Invariants:
//   - Lookahead: curTok always reflects the token currently under examination;
//     peekTok mirrors the next token pulled from the lexer. Both are only
//     mutated via nextToken. After a parse function returns, curTok is the
//     last token of the construct it parsed.
//   - Diagnostics: errors is an append-only accumulator of recoverable
//     diagnostics in the order they were found.
//   - Spans: AST node spans are composed via mergeSpan so that a parent span
//     always covers its children. Nodes rewritten after construction are
//     re-stamped through SetExprSpan.
type Parser struct {
	lx          *lexer.Lexer
	curTok      lexer.Token
	peekTok     lexer.Token
	tokenBuffer []lexer.Token

	src        []rune
	lineStarts []int

	errors []ParseError
	// nestedLexErrors holds lexer errors from f-string replacement fields,
	// already rebased onto this parser's source.
	nestedLexErrors []lexer.LexerError

	filename string

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	lx := lexer.New(input)
	if cfg.nested {
		lx = lexer.NewNested(input)
	}

	p := &Parser{
		lx:        lx,
		src:       []rune(input),
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
		filename:  cfg.filename,
	}
	p.lineStarts = lineStarts(p.src)

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	p.registerPrefix(lexer.IDENT, p.parseName)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringAtom)
	p.registerPrefix(lexer.TRUE, p.parseConstant)
	p.registerPrefix(lexer.FALSE, p.parseConstant)
	p.registerPrefix(lexer.NONE, p.parseConstant)
	p.registerPrefix(lexer.ELLIPSIS, p.parseConstant)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.PLUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.TILDE, p.parseUnaryExpr)
	p.registerPrefix(lexer.NOT, p.parseNotExpr)
	p.registerPrefix(lexer.ASTERISK, p.parseStarredExpr)
	p.registerPrefix(lexer.AWAIT, p.parseAwaitExpr)
	p.registerPrefix(lexer.LAMBDA, p.parseLambdaExpr)
	p.registerPrefix(lexer.YIELD, p.parseYieldExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseListDisplay)
	p.registerPrefix(lexer.LBRACE, p.parseBraceDisplay)

	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.FLOORDIV,
		lexer.PERCENT, lexer.AT, lexer.POWER, lexer.PIPE, lexer.CARET,
		lexer.AMPERSAND, lexer.SHL, lexer.SHR,
	} {
		p.registerInfix(tt, p.parseInfixExpr)
	}
	for _, tt := range []lexer.TokenType{
		lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.LE, lexer.GT, lexer.GE,
		lexer.IN, lexer.IS, lexer.NOT,
	} {
		p.registerInfix(tt, p.parseCompareExpr)
	}
	p.registerInfix(lexer.AND, p.parseBooleanExpr)
	p.registerInfix(lexer.OR, p.parseBooleanExpr)
	p.registerInfix(lexer.IF, p.parseConditionalExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseSubscriptExpr)
	p.registerInfix(lexer.DOT, p.parseAttributeExpr)

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn) {
	p.infixFns[tt] = fn
}

// Errors returns all recoverable parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Diagnostics returns lexer and parser diagnostics together, ordered by
// source position.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.lx.Errors)+len(p.nestedLexErrors)+len(p.errors))
	for _, err := range p.lx.Errors {
		out = append(out, err.ToDiagnostic())
	}
	for _, err := range p.nestedLexErrors {
		out = append(out, err.ToDiagnostic())
	}
	for _, err := range p.errors {
		out = append(out, err.ToDiagnostic())
	}
	diag.Sort(out)
	return out
}

// ParseModule parses a full source file. It always returns a module; bad
// statements are reported and skipped.
func (p *Parser) ParseModule() *ast.Module {
	module := ast.NewModule(p.spanAt(0, len(p.src)))

	for p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.NEWLINE || p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		stmt := p.parseStatement()
		if stmt != nil {
			module.Body = append(module.Body, stmt)
		}

		if !p.finishStatement() {
			p.recoverStatement()
		}
	}

	return module
}

// ParseExpression parses the whole input as a single expression list.
func (p *Parser) ParseExpression() ast.Expr {
	for p.curTok.Type == lexer.NEWLINE {
		p.nextToken()
	}

	expr := p.parseExprList()

	for p.peekTok.Type == lexer.NEWLINE {
		p.nextToken()
	}
	if p.peekTok.Type != lexer.EOF && !isStatementEnd(p.curTok.Type) {
		p.reportUnexpectedError(p.peekTok, "expression")
	}

	return expr
}

// ParseFile parses src as a module attributed to filename and returns the
// module with its diagnostics.
func ParseFile(filename, src string) (*ast.Module, []diag.Diagnostic) {
	p := New(src, WithFilename(filename))
	module := p.ParseModule()
	return module, p.Diagnostics()
}

// ParseExpr parses src as one expression. The error joins every diagnostic.
func ParseExpr(src string) (ast.Expr, error) {
	p := New(src)
	expr := p.ParseExpression()
	return expr, diag.Join(p.Diagnostics(), false)
}
