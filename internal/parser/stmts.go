package parser

import (
	"fmt"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.curTok.Type == lexer.DEL:
		return p.parseDeleteStmt()
	case isCompoundStart(p.curTok.Type):
		p.reportErrorCode(diag.CodeParseUnsupported,
			fmt.Sprintf("'%s' statements are not supported", p.curTok.Raw), p.curTok.Span)
		for !isStatementEnd(p.peekTok.Type) {
			p.nextToken()
		}
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

// finishStatement checks for a statement terminator and leaves curTok on it.
// An expression that already ended on a terminator, which happens after an
// error, counts as finished.
func (p *Parser) finishStatement() bool {
	if isStatementEnd(p.curTok.Type) {
		return true
	}
	if isStatementEnd(p.peekTok.Type) {
		p.nextToken()
		return true
	}

	p.reportExpectedError("newline or ';' after statement", p.peekTok)
	p.nextToken()
	return false
}

// parseExpressionStatement parses an expression statement or any of the
// assignment forms that start with an expression.
func (p *Parser) parseExpressionStatement() ast.Stmt {
	first := p.parseExprList()

	switch p.peekTok.Type {
	case lexer.ASSIGN:
		return p.parseAssignStmt(first)
	case lexer.COLON:
		return p.parseAnnAssignStmt(first)
	}

	if op, ok := lexer.AugmentedOperator(p.peekTok.Type); ok {
		return p.parseAugAssignStmt(first, op)
	}

	return ast.NewExprStmt(first, first.Span())
}

// parseAssignStmt parses "t1 = t2 = value". Every expression left of the last
// "=" is a target.
func (p *Parser) parseAssignStmt(first ast.Expr) ast.Stmt {
	targets := []ast.Expr{first}
	var value ast.Expr

	for p.peekTok.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		value = p.parseExprList()
		if p.peekTok.Type == lexer.ASSIGN {
			targets = append(targets, value)
		}
	}

	for _, target := range targets {
		p.bindTarget(target, ast.Store, diag.CodeParseInvalidTarget, "assign to")
	}
	p.reportStarredValue(value)

	return ast.NewAssignStmt(targets, value, mergeSpan(first.Span(), value.Span()))
}

func (p *Parser) parseAugAssignStmt(target ast.Expr, op lexer.TokenType) ast.Stmt {
	switch {
	case IsValidAugAssignmentTarget(target):
		SetExprRole(target, ast.Store)
	case !isInvalid(target):
		p.reportTargetError(diag.CodeParseInvalidAugTarget,
			fmt.Sprintf("'%s' is an illegal expression for augmented assignment", ast.Describe(target)),
			target.Span(), "not a single target", singleTargetHelp)
	}

	p.nextToken()
	p.nextToken()
	value := p.parseExprList()
	p.reportStarredValue(value)

	return ast.NewAugAssignStmt(target, op, value, mergeSpan(target.Span(), value.Span()))
}

func (p *Parser) parseAnnAssignStmt(target ast.Expr) ast.Stmt {
	switch t := target.(type) {
	case *ast.Tuple, *ast.List:
		p.reportTargetError(diag.CodeParseInvalidTarget,
			fmt.Sprintf("only single target (not %s) can be annotated", ast.Describe(t)),
			target.Span(), "", "annotate each element in a statement of its own")
	case *ast.Invalid:
	default:
		if IsValidAugAssignmentTarget(target) {
			SetExprRole(target, ast.Store)
		} else {
			p.reportTargetError(diag.CodeParseInvalidTarget, "illegal target for annotation",
				target.Span(), "not a single target", singleTargetHelp)
		}
	}

	p.nextToken()
	p.nextToken()
	annotation := p.parseExpr()
	end := annotation.Span()

	var value ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		value = p.parseExprList()
		p.reportStarredValue(value)
		end = value.Span()
	}

	return ast.NewAnnAssignStmt(target, annotation, value, mergeSpan(target.Span(), end))
}

func (p *Parser) parseDeleteStmt() ast.Stmt {
	start := p.curTok.Span

	if !p.startsExpr(p.peekTok.Type) {
		p.reportExpectedError("expression after 'del'", p.peekTok)
		return ast.NewDeleteStmt(nil, start)
	}

	var targets []ast.Expr
	for {
		p.nextToken()
		targets = append(targets, p.parseExpr())

		if p.peekTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
		if !p.startsExpr(p.peekTok.Type) {
			break
		}
	}

	for _, target := range targets {
		if starred := findStarred(target); starred != nil {
			p.reportTargetError(diag.CodeParseInvalidDeleteTarget, "cannot delete starred", starred.Span(), "cannot be deleted", "")
			continue
		}
		p.bindTarget(target, ast.Del, diag.CodeParseInvalidDeleteTarget, "delete")
	}

	return ast.NewDeleteStmt(targets, mergeSpan(start, p.curTok.Span))
}

// bindTarget validates expr as a target and marks it with role. Invalid
// targets are reported against their innermost offending expression and
// left in the Load role.
func (p *Parser) bindTarget(expr ast.Expr, role ast.Role, code diag.Code, verb string) {
	if IsValidAssignmentTarget(expr) {
		SetExprRole(expr, role)
		return
	}

	bad := firstInvalidTarget(expr)
	if bad == nil || isInvalid(bad) {
		return
	}

	err := ParseError{
		Message:      fmt.Sprintf("cannot %s %s", verb, ast.Describe(bad)),
		Span:         bad.Span(),
		Code:         code,
		PrimaryLabel: "not a storage location",
	}
	if bad != expr {
		err.Related = []RelatedSpan{{Span: expr.Span(), Label: "in this target"}}
	}
	p.emitParseDiagnostic(err)
}

const singleTargetHelp = "use a name, attribute or subscript as the target"

// findStarred returns the first Starred reachable through tuple and list
// nesting, or nil.
func findStarred(expr ast.Expr) ast.Expr {
	switch e := expr.(type) {
	case *ast.Starred:
		return e
	case *ast.Tuple:
		return findStarredIn(e.Elts)
	case *ast.List:
		return findStarredIn(e.Elts)
	}
	return nil
}

func findStarredIn(elts []ast.Expr) ast.Expr {
	for _, elt := range elts {
		if s := findStarred(elt); s != nil {
			return s
		}
	}
	return nil
}
