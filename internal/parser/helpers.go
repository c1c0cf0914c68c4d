package parser

import (
	"reflect"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

// TrimQuoteSpan returns the span of a string literal's body: prefixLen prefix
// runes plus the opening delimiter are dropped from the start and the closing
// delimiter from the end. Callers guarantee the span is long enough.
func TrimQuoteSpan(span lexer.Span, prefixLen int, triple bool) lexer.Span {
	quote := 1
	if triple {
		quote = 3
	}

	span.Start += prefixLen + quote
	span.Column += prefixLen + quote
	span.End -= quote

	return span
}

// SetExprRole marks expr as read, written or deleted. List and Tuple pass the
// role on to every element, and Starred to its value, so a destructuring
// target is consistent all the way down. Expressions that cannot carry a role
// are left untouched, as are nil and nil-pointer nodes.
func SetExprRole(expr ast.Expr, role ast.Role) {
	if absent(expr) {
		return
	}

	switch e := expr.(type) {
	case *ast.Name:
		e.Role = role
	case *ast.Attribute:
		e.Role = role
	case *ast.Subscript:
		e.Role = role
	case *ast.Starred:
		e.Role = role
		SetExprRole(e.Value, role)
	case *ast.List:
		e.Role = role
		for _, elt := range e.Elts {
			SetExprRole(elt, role)
		}
	case *ast.Tuple:
		e.Role = role
		for _, elt := range e.Elts {
			SetExprRole(elt, role)
		}
	}
}

// SetExprSpan re-stamps expr with span after it was synthesized or rewritten.
// Nil and nil-pointer nodes are ignored.
func SetExprSpan(expr ast.Expr, span lexer.Span) {
	if absent(expr) {
		return
	}
	expr.SetSpan(span)
}

// IsValidAssignmentTarget reports whether expr may appear on the left of "=",
// in a for clause or after "del".
func IsValidAssignmentTarget(expr ast.Expr) bool {
	if absent(expr) {
		return false
	}

	switch e := expr.(type) {
	case *ast.Starred:
		return IsValidAssignmentTarget(e.Value)
	case *ast.List:
		return allValidTargets(e.Elts)
	case *ast.Tuple:
		return allValidTargets(e.Elts)
	case *ast.Name, *ast.Attribute, *ast.Subscript:
		return true
	default:
		return false
	}
}

func allValidTargets(elts []ast.Expr) bool {
	for _, elt := range elts {
		if !IsValidAssignmentTarget(elt) {
			return false
		}
	}
	return true
}

// IsValidAugAssignmentTarget reports whether expr may appear on the left of an
// augmented assignment such as "+=". Only single storage locations qualify.
func IsValidAugAssignmentTarget(expr ast.Expr) bool {
	if absent(expr) {
		return false
	}

	switch expr.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
		return true
	default:
		return false
	}
}

// firstInvalidTarget returns the innermost expression that makes expr an
// invalid assignment target, or nil when expr is valid.
func firstInvalidTarget(expr ast.Expr) ast.Expr {
	if absent(expr) {
		return nil
	}

	switch e := expr.(type) {
	case *ast.Starred:
		return firstInvalidTarget(e.Value)
	case *ast.List:
		return firstInvalidElement(e.Elts)
	case *ast.Tuple:
		return firstInvalidElement(e.Elts)
	case *ast.Name, *ast.Attribute, *ast.Subscript:
		return nil
	default:
		return expr
	}
}

func firstInvalidElement(elts []ast.Expr) ast.Expr {
	for _, elt := range elts {
		if bad := firstInvalidTarget(elt); bad != nil {
			return bad
		}
	}
	return nil
}

// absent reports whether expr is nil or a typed nil node pointer.
func absent(expr ast.Expr) bool {
	if expr == nil {
		return true
	}
	v := reflect.ValueOf(expr)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
