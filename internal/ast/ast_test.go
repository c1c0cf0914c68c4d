package ast_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/lexer"
)

func span(start, end int) lexer.Span {
	return lexer.Span{Line: 1, Column: start + 1, Start: start, End: end}
}

func TestWalkVisitsChildrenInSourceOrder(t *testing.T) {
	// a[i] = f(x, k=y) if c else z
	a, i := ast.NewName("a", span(0, 1)), ast.NewName("i", span(2, 3))
	target := ast.NewSubscript(a, i, span(0, 4))
	f, x, y := ast.NewName("f", span(7, 8)), ast.NewName("x", span(9, 10)), ast.NewName("y", span(14, 15))
	call := ast.NewCall(f, []ast.Expr{x}, []*ast.Keyword{ast.NewKeyword("k", y, span(12, 15))}, span(7, 16))
	c, z := ast.NewName("c", span(20, 21)), ast.NewName("z", span(27, 28))
	value := ast.NewConditionalExpr(c, call, z, span(7, 28))

	module := ast.NewModule(span(0, 28))
	module.Body = []ast.Stmt{ast.NewAssignStmt([]ast.Expr{target}, value, span(0, 28))}

	var names []string
	ast.Inspect(module, func(e ast.Expr) {
		if n, ok := e.(*ast.Name); ok {
			names = append(names, n.ID)
		}
	})

	assert.Equal(t, []string{"a", "i", "f", "x", "y", "c", "z"}, names)
}

func TestWalkPrunesBranches(t *testing.T) {
	inner := ast.NewName("inner", span(1, 6))
	list := ast.NewList([]ast.Expr{inner}, span(0, 7))
	tuple := ast.NewTuple([]ast.Expr{list, ast.NewName("b", span(9, 10))}, true, span(0, 11))

	var visited []string
	ast.Walk(tuple, func(n ast.Node) bool {
		visited = append(visited, fmt.Sprintf("%T", n))
		_, isList := n.(*ast.List)
		return !isList
	})

	assert.Equal(t, []string{"*ast.Tuple", "*ast.List", "*ast.Name"}, visited)
}

func TestWalkReachesNonExpressionNodes(t *testing.T) {
	def := ast.NewLiteral(ast.LiteralNumber, "1", span(9, 10))
	lambda := ast.NewLambda([]*ast.Param{ast.NewParam("a", ast.ParamPlain, def, span(7, 10))},
		ast.NewName("a", span(12, 13)), span(0, 13))
	comp := ast.NewListComp(lambda, []*ast.Comprehension{
		ast.NewComprehension(ast.NewName("q", span(18, 19)), ast.NewName("qs", span(23, 25)), nil, false, span(14, 25)),
	}, span(0, 26))

	var kinds []string
	ast.Walk(comp, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Param, *ast.Comprehension:
			kinds = append(kinds, fmt.Sprintf("%T", n))
		}
		return true
	})

	assert.Equal(t, []string{"*ast.Param", "*ast.Comprehension"}, kinds)
}

func TestWalkSkipsAbsentChildren(t *testing.T) {
	nodes := []ast.Expr{
		ast.NewSlice(nil, nil, nil, span(0, 1)),
		ast.NewYield(nil, span(0, 5)),
		ast.NewDict([]ast.Expr{nil}, []ast.Expr{ast.NewName("m", span(3, 4))}, span(0, 5)),
		ast.NewFormattedValue(ast.NewName("v", span(1, 2)), 0, nil, span(0, 3)),
	}

	for _, node := range nodes {
		assert.NotPanics(t, func() {
			ast.Walk(node, func(ast.Node) bool { return true })
		}, "%T", node)
	}
}

func TestRoleText(t *testing.T) {
	for _, role := range []ast.Role{ast.Load, ast.Store, ast.Del} {
		text, err := role.MarshalText()
		require.NoError(t, err)

		var got ast.Role
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, role, got)
		assert.Equal(t, role.String(), string(text))
	}

	var r ast.Role
	assert.Error(t, r.UnmarshalText([]byte("param")))
	assert.Equal(t, "Role(9)", ast.Role(9).String())
}

func TestRoleOf(t *testing.T) {
	name := ast.NewName("x", span(0, 1))
	name.Role = ast.Del

	role, ok := ast.RoleOf(name)
	assert.True(t, ok)
	assert.Equal(t, ast.Del, role)

	_, ok = ast.RoleOf(ast.NewCall(name, nil, nil, span(0, 3)))
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	x := ast.NewName("x", span(0, 1))

	tests := []struct {
		expr ast.Expr
		want string
	}{
		{x, "name"},
		{ast.NewCall(x, nil, nil, span(0, 3)), "function call"},
		{ast.NewLiteral(ast.LiteralNone, "None", span(0, 4)), "None"},
		{ast.NewLiteral(ast.LiteralTrue, "True", span(0, 4)), "True"},
		{ast.NewLiteral(ast.LiteralEllipsis, "...", span(0, 3)), "ellipsis"},
		{ast.NewLiteral(ast.LiteralString, "s", span(0, 3)), "literal"},
		{ast.NewBinaryOp(x, lexer.PLUS, x, span(0, 5)), "expression"},
		{ast.NewCompare(x, []ast.CmpOp{ast.CmpIn}, []ast.Expr{x}, span(0, 6)), "comparison"},
		{ast.NewGeneratorExp(x, nil, span(0, 10)), "generator expression"},
		{ast.NewYieldFrom(x, span(0, 12)), "yield expression"},
		{ast.NewInvalid(span(0, 1)), "invalid expression"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ast.Describe(tt.expr), "%T", tt.expr)
	}
}
