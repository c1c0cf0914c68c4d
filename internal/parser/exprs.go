package parser

import (
	"fmt"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// parseExpr parses a full expression: a conditional, a lambda or anything
// that binds tighter.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseExprPrecedence(precedenceLowest)
}

func (p *Parser) parseExprPrecedence(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		p.reportExpectedError("expression", p.curTok)
		return ast.NewInvalid(p.curTok.Span)
	}

	left := prefix()

	for !isStatementEnd(p.peekTok.Type) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			return left
		}

		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) startsExpr(tt lexer.TokenType) bool {
	_, ok := p.prefixFns[tt]
	return ok
}

// parseExprList parses "a, b, *c". A single element is returned as is; a
// comma makes an unparenthesized Tuple. A trailing comma is allowed.
func (p *Parser) parseExprList() ast.Expr {
	first := p.parseExpr()
	if p.peekTok.Type != lexer.COMMA {
		return first
	}

	elts := []ast.Expr{first}
	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		if !p.startsExpr(p.peekTok.Type) {
			break
		}
		p.nextToken()
		elts = append(elts, p.parseExpr())
	}

	return ast.NewTuple(elts, false, mergeSpan(first.Span(), p.curTok.Span))
}

// parseNamedExpr parses an expression that may be "name := value".
func (p *Parser) parseNamedExpr() ast.Expr {
	target := p.parseExpr()
	if p.peekTok.Type != lexer.WALRUS {
		return target
	}
	p.nextToken()

	if _, ok := target.(*ast.Name); ok {
		SetExprRole(target, ast.Store)
	} else if !isInvalid(target) {
		p.reportTargetError(diag.CodeParseInvalidNamedTarget,
			fmt.Sprintf("cannot use assignment expressions with %s", ast.Describe(target)),
			target.Span(), "not a name", "only a plain name can be bound with ':='")
	}

	p.nextToken()
	value := p.parseExpr()

	return ast.NewNamedExpr(target, value, mergeSpan(target.Span(), value.Span()))
}

func (p *Parser) parseName() ast.Expr {
	return ast.NewName(p.curTok.Raw, p.curTok.Span)
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	tok := p.curTok
	p.nextToken()
	operand := p.parseExprPrecedence(precedenceUnary)

	return ast.NewUnaryOp(tok.Type, operand, mergeSpan(tok.Span, operand.Span()))
}

func (p *Parser) parseNotExpr() ast.Expr {
	tok := p.curTok
	p.nextToken()
	operand := p.parseExprPrecedence(precedenceNot)

	return ast.NewUnaryOp(tok.Type, operand, mergeSpan(tok.Span, operand.Span()))
}

// parseStarredExpr parses "*value". The value binds at bitwise-or level so
// "*a, b" and "for *a, b in c" split where they should.
func (p *Parser) parseStarredExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	value := p.parseExprPrecedence(precedenceCompare)

	return ast.NewStarred(value, mergeSpan(start, value.Span()))
}

// parseDoubleStarred parses the operand of "**" in calls and dict displays.
func (p *Parser) parseDoubleStarred() ast.Expr {
	p.nextToken()
	return p.parseExprPrecedence(precedenceCompare)
}

func (p *Parser) parseAwaitExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	value := p.parseExprPrecedence(precedenceAwait)

	return ast.NewAwait(value, mergeSpan(start, value.Span()))
}

func (p *Parser) parseYieldExpr() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.FROM {
		p.nextToken()
		p.nextToken()
		value := p.parseExpr()
		return ast.NewYieldFrom(value, mergeSpan(start, value.Span()))
	}

	if !p.startsExpr(p.peekTok.Type) {
		return ast.NewYield(nil, start)
	}

	p.nextToken()
	value := p.parseExprList()

	return ast.NewYield(value, mergeSpan(start, value.Span()))
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	tok := p.curTok
	precedence := p.curPrecedence()
	if tok.Type == lexer.POWER {
		// Right associative: 2 ** 3 ** 2 == 2 ** (3 ** 2).
		precedence--
	}

	p.nextToken()
	right := p.parseExprPrecedence(precedence)

	return ast.NewBinaryOp(left, tok.Type, right, mergeSpan(left.Span(), right.Span()))
}

// parseCompareExpr collects a whole comparison chain into one Compare node.
func (p *Parser) parseCompareExpr(left ast.Expr) ast.Expr {
	var (
		ops         []ast.CmpOp
		comparators []ast.Expr
	)

	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}

		p.nextToken()
		right := p.parseExprPrecedence(precedenceCompare)
		ops = append(ops, op)
		comparators = append(comparators, right)

		if p.peekPrecedence() != precedenceCompare {
			break
		}
		p.nextToken()
	}

	if len(comparators) == 0 {
		return left
	}

	last := comparators[len(comparators)-1]
	return ast.NewCompare(left, ops, comparators, mergeSpan(left.Span(), last.Span()))
}

// compareOp reads the comparison operator at curTok, consuming the second
// word of "not in" and "is not".
func (p *Parser) compareOp() (ast.CmpOp, bool) {
	switch p.curTok.Type {
	case lexer.EQ:
		return ast.CmpEq, true
	case lexer.NOT_EQ:
		return ast.CmpNotEq, true
	case lexer.LT:
		return ast.CmpLt, true
	case lexer.LE:
		return ast.CmpLtE, true
	case lexer.GT:
		return ast.CmpGt, true
	case lexer.GE:
		return ast.CmpGtE, true
	case lexer.IN:
		return ast.CmpIn, true
	case lexer.IS:
		if p.peekTok.Type == lexer.NOT {
			p.nextToken()
			return ast.CmpIsNot, true
		}
		return ast.CmpIs, true
	case lexer.NOT:
		if p.expect(lexer.IN) {
			return ast.CmpNotIn, true
		}
	}
	return "", false
}

// parseBooleanExpr flattens "a and b and c" into a single BooleanOp.
func (p *Parser) parseBooleanExpr(left ast.Expr) ast.Expr {
	op := p.curTok.Type
	precedence := p.curPrecedence()
	values := []ast.Expr{left}

	for {
		p.nextToken()
		values = append(values, p.parseExprPrecedence(precedence))
		if p.peekTok.Type != op {
			break
		}
		p.nextToken()
	}

	last := values[len(values)-1]
	return ast.NewBooleanOp(op, values, mergeSpan(left.Span(), last.Span()))
}

func (p *Parser) parseConditionalExpr(body ast.Expr) ast.Expr {
	p.nextToken()
	test := p.parseExprPrecedence(precedenceTernary)

	if !p.expect(lexer.ELSE) {
		orElse := ast.NewInvalid(p.peekTok.Span)
		return ast.NewConditionalExpr(test, body, orElse, mergeSpan(body.Span(), test.Span()))
	}

	p.nextToken()
	orElse := p.parseExpr()

	return ast.NewConditionalExpr(test, body, orElse, mergeSpan(body.Span(), orElse.Span()))
}

func (p *Parser) parseLambdaExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()

	res, ok := parseDelimited[*ast.Param](p, delimitedConfig{
		Closing:             lexer.COLON,
		AllowEmpty:          true,
		AllowTrailing:       true,
		MissingSeparatorMsg: "expected ',' or ':' after lambda parameter",
	}, func(int) (*ast.Param, bool) {
		return p.parseLambdaParam()
	})

	var params []*ast.Param
	for _, param := range res.Items {
		if param != nil {
			params = append(params, param)
		}
	}

	if !ok {
		body := ast.NewInvalid(p.curTok.Span)
		return ast.NewLambda(params, body, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()
	body := p.parseExpr()

	return ast.NewLambda(params, body, mergeSpan(start, body.Span()))
}

// parseLambdaParam parses one parameter. The bare "*" and "/" markers yield
// no parameter.
func (p *Parser) parseLambdaParam() (*ast.Param, bool) {
	start := p.curTok.Span
	kind := ast.ParamPlain

	switch p.curTok.Type {
	case lexer.SLASH:
		return nil, true
	case lexer.ASTERISK:
		if p.peekTok.Type != lexer.IDENT {
			return nil, true
		}
		kind = ast.ParamVarArgs
		p.nextToken()
	case lexer.POWER:
		kind = ast.ParamKwArgs
		p.nextToken()
	}

	if p.curTok.Type != lexer.IDENT {
		p.reportExpectedError("parameter name", p.curTok)
		return nil, false
	}
	name := p.curTok.Raw

	var def ast.Expr
	if kind == ast.ParamPlain && p.peekTok.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		def = p.parseExpr()
	}

	return ast.NewParam(name, kind, def, mergeSpan(start, p.curTok.Span)), true
}

// parseGroupedExpr handles everything that starts with "(": the empty tuple,
// parenthesized tuples, generator expressions and plain grouping.
func (p *Parser) parseGroupedExpr() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return ast.NewTuple(nil, true, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()
	first := p.parseNamedExpr()

	if p.peekComprehension() {
		gens := p.parseComprehensionClauses()
		p.expect(lexer.RPAREN)
		return ast.NewGeneratorExp(first, gens, mergeSpan(start, p.curTok.Span))
	}

	if p.peekTok.Type == lexer.COMMA {
		elts := p.parseSequenceTail(first, lexer.RPAREN)
		p.expect(lexer.RPAREN)
		return ast.NewTuple(elts, true, mergeSpan(start, p.curTok.Span))
	}

	if !p.expect(lexer.RPAREN) {
		return first
	}

	p.reportStarredValue(first)

	// The grouped expression owns its parentheses.
	SetExprSpan(first, mergeSpan(start, p.curTok.Span))

	return first
}

// parseSequenceTail collects the remaining comma-separated elements of a
// display whose first element is already parsed. curTok ends on the last
// element or trailing comma; the caller consumes closing.
func (p *Parser) parseSequenceTail(first ast.Expr, closing lexer.TokenType) []ast.Expr {
	elts := []ast.Expr{first}

	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		if p.peekTok.Type == closing {
			break
		}
		p.nextToken()
		elts = append(elts, p.parseNamedExpr())
	}

	return elts
}

func (p *Parser) parseListDisplay() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RBRACKET {
		p.nextToken()
		return ast.NewList(nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()
	first := p.parseNamedExpr()

	if p.peekComprehension() {
		gens := p.parseComprehensionClauses()
		p.expect(lexer.RBRACKET)
		return ast.NewListComp(first, gens, mergeSpan(start, p.curTok.Span))
	}

	elts := p.parseSequenceTail(first, lexer.RBRACKET)
	p.expect(lexer.RBRACKET)

	return ast.NewList(elts, mergeSpan(start, p.curTok.Span))
}

// parseBraceDisplay parses dict and set displays and their comprehensions.
func (p *Parser) parseBraceDisplay() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RBRACE {
		p.nextToken()
		return ast.NewDict(nil, nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()

	if p.curTok.Type == lexer.POWER {
		return p.parseDictEntries(start, nil, p.parseDoubleStarred())
	}

	first := p.parseNamedExpr()

	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		p.nextToken()
		value := p.parseExpr()

		if p.peekComprehension() {
			gens := p.parseComprehensionClauses()
			p.expect(lexer.RBRACE)
			return ast.NewDictComp(first, value, gens, mergeSpan(start, p.curTok.Span))
		}

		return p.parseDictEntries(start, first, value)
	}

	if p.peekComprehension() {
		gens := p.parseComprehensionClauses()
		p.expect(lexer.RBRACE)
		return ast.NewSetComp(first, gens, mergeSpan(start, p.curTok.Span))
	}

	elts := p.parseSequenceTail(first, lexer.RBRACE)
	p.expect(lexer.RBRACE)

	return ast.NewSet(elts, mergeSpan(start, p.curTok.Span))
}

// parseDictEntries continues a dict display after its first entry. A nil key
// records a "**mapping" entry.
func (p *Parser) parseDictEntries(start lexer.Span, key, value ast.Expr) ast.Expr {
	keys := []ast.Expr{key}
	values := []ast.Expr{value}

	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		if p.peekTok.Type == lexer.RBRACE {
			break
		}
		p.nextToken()

		if p.curTok.Type == lexer.POWER {
			keys = append(keys, nil)
			values = append(values, p.parseDoubleStarred())
			continue
		}

		k := p.parseExpr()
		if !p.expect(lexer.COLON) {
			keys = append(keys, k)
			values = append(values, ast.NewInvalid(p.peekTok.Span))
			break
		}
		p.nextToken()
		keys = append(keys, k)
		values = append(values, p.parseExpr())
	}

	p.expect(lexer.RBRACE)

	return ast.NewDict(keys, values, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) peekComprehension() bool {
	switch p.peekTok.Type {
	case lexer.FOR:
		return true
	case lexer.ASYNC:
		return p.peekTokenAt(1).Type == lexer.FOR
	default:
		return false
	}
}

// parseComprehensionClauses parses one or more "[async] for target in iter
// [if cond]..." clauses. Targets are bound in the Store role.
func (p *Parser) parseComprehensionClauses() []*ast.Comprehension {
	var gens []*ast.Comprehension

	for p.peekComprehension() {
		p.nextToken()
		start := p.curTok.Span

		isAsync := false
		if p.curTok.Type == lexer.ASYNC {
			isAsync = true
			p.nextToken()
		}

		p.nextToken()
		target := p.parseTargetList()
		p.bindTarget(target, ast.Store, diag.CodeParseInvalidTarget, "assign to")

		var iter ast.Expr
		if p.expect(lexer.IN) {
			p.nextToken()
			// The iterable stops before "if", which starts a filter here.
			iter = p.parseExprPrecedence(precedenceTernary)
		} else {
			iter = ast.NewInvalid(p.peekTok.Span)
		}

		var ifs []ast.Expr
		for p.peekTok.Type == lexer.IF {
			p.nextToken()
			p.nextToken()
			ifs = append(ifs, p.parseExprPrecedence(precedenceTernary))
		}

		gens = append(gens, ast.NewComprehension(target, iter, ifs, isAsync, mergeSpan(start, p.curTok.Span)))
	}

	return gens
}

// parseTargetList parses the target of a for clause. Elements bind tighter
// than comparisons so the list stops before "in".
func (p *Parser) parseTargetList() ast.Expr {
	first := p.parseExprPrecedence(precedenceCompare)
	if p.peekTok.Type != lexer.COMMA {
		return first
	}

	elts := []ast.Expr{first}
	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		if p.peekTok.Type == lexer.IN {
			break
		}
		p.nextToken()
		elts = append(elts, p.parseExprPrecedence(precedenceCompare))
	}

	return ast.NewTuple(elts, false, mergeSpan(first.Span(), p.curTok.Span))
}

func (p *Parser) parseCallExpr(fn ast.Expr) ast.Expr {
	p.nextToken()

	res, _ := parseDelimited[ast.Node](p, delimitedConfig{
		Closing:             lexer.RPAREN,
		AllowEmpty:          true,
		AllowTrailing:       true,
		MissingSeparatorMsg: "expected ',' or ')' after call argument",
	}, func(int) (ast.Node, bool) {
		return p.parseCallArgument(), true
	})

	var (
		args     []ast.Expr
		keywords []*ast.Keyword
	)
	for _, item := range res.Items {
		switch arg := item.(type) {
		case *ast.Keyword:
			keywords = append(keywords, arg)
		case ast.Expr:
			args = append(args, arg)
		}
	}

	return ast.NewCall(fn, args, keywords, mergeSpan(fn.Span(), p.curTok.Span))
}

// parseCallArgument returns an ast.Expr for positional and "*" arguments and
// an *ast.Keyword for "name=value" and "**mapping".
func (p *Parser) parseCallArgument() ast.Node {
	switch {
	case p.curTok.Type == lexer.POWER:
		start := p.curTok.Span
		value := p.parseDoubleStarred()
		return ast.NewKeyword("", value, mergeSpan(start, value.Span()))

	case p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.ASSIGN:
		nameTok := p.curTok
		p.nextToken()
		p.nextToken()
		value := p.parseExpr()
		return ast.NewKeyword(nameTok.Raw, value, mergeSpan(nameTok.Span, value.Span()))
	}

	arg := p.parseNamedExpr()
	if p.peekComprehension() {
		gens := p.parseComprehensionClauses()
		arg = ast.NewGeneratorExp(arg, gens, mergeSpan(arg.Span(), p.curTok.Span))
	}
	return arg
}

func (p *Parser) parseSubscriptExpr(value ast.Expr) ast.Expr {
	p.nextToken()

	res, _ := parseDelimited[ast.Expr](p, delimitedConfig{
		Closing:             lexer.RBRACKET,
		AllowTrailing:       true,
		MissingElementMsg:   "expected subscript",
		MissingSeparatorMsg: "expected ',' or ']' in subscript",
	}, func(int) (ast.Expr, bool) {
		return p.parseSliceItem(), true
	})

	var index ast.Expr
	switch {
	case len(res.Items) == 0:
		index = ast.NewInvalid(p.curTok.Span)
	case len(res.Items) == 1 && !res.Trailing:
		index = res.Items[0]
	default:
		first, last := res.Items[0], res.Items[len(res.Items)-1]
		index = ast.NewTuple(res.Items, false, mergeSpan(first.Span(), last.Span()))
	}

	return ast.NewSubscript(value, index, mergeSpan(value.Span(), p.curTok.Span))
}

// parseSliceItem parses one subscript element: an expression or a
// "lower:upper:step" slice with any part omitted.
func (p *Parser) parseSliceItem() ast.Expr {
	start := p.curTok.Span

	var lower ast.Expr
	if p.curTok.Type != lexer.COLON {
		lower = p.parseNamedExpr()
		if p.peekTok.Type != lexer.COLON {
			return lower
		}
		p.nextToken()
	}

	var upper, step ast.Expr
	if !p.peekIs(lexer.COLON, lexer.COMMA, lexer.RBRACKET) {
		p.nextToken()
		upper = p.parseExpr()
	}
	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		if !p.peekIs(lexer.COMMA, lexer.RBRACKET) {
			p.nextToken()
			step = p.parseExpr()
		}
	}

	return ast.NewSlice(lower, upper, step, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseAttributeExpr(value ast.Expr) ast.Expr {
	if !p.expect(lexer.IDENT) {
		return ast.NewAttribute(value, "", mergeSpan(value.Span(), p.curTok.Span))
	}

	return ast.NewAttribute(value, p.curTok.Raw, mergeSpan(value.Span(), p.curTok.Span))
}

func isInvalid(expr ast.Expr) bool {
	_, ok := expr.(*ast.Invalid)
	return ok
}
