package parser_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/lexer"
	"github.com/malphas-lang/sidewinder/internal/parser"
)

func sp(start, end int) lexer.Span {
	return lexer.Span{Line: 1, Column: start + 1, Start: start, End: end}
}

func name(id string) *ast.Name {
	return ast.NewName(id, sp(0, len(id)))
}

func TestTrimQuoteSpan(t *testing.T) {
	tests := []struct {
		src       string
		prefixLen int
		triple    bool
		body      string
	}{
		{src: `"abc"`, body: "abc"},
		{src: `''`, body: ""},
		{src: `rb'\d+'`, prefixLen: 2, body: `\d+`},
		{src: `f"""x{y}"""`, prefixLen: 1, triple: true, body: "x{y}"},
		{src: `''''''`, triple: true, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			runes := []rune(tt.src)
			full := lexer.Span{Line: 3, Column: 5, Start: 10, End: 10 + len(runes)}

			got := parser.TrimQuoteSpan(full, tt.prefixLen, tt.triple)

			delim := 1
			if tt.triple {
				delim = 3
			}
			assert.Equal(t, full.Start+tt.prefixLen+delim, got.Start)
			assert.Equal(t, full.End-delim, got.End)
			assert.Equal(t, full.Len()-tt.prefixLen-2*delim, got.Len())
			assert.Equal(t, full.Column+tt.prefixLen+delim, got.Column)
			assert.Equal(t, full.Line, got.Line)
			assert.Equal(t, tt.body, string(runes[got.Start-10:got.End-10]))
		})
	}
}

func TestSetExprRoleIsIdempotent(t *testing.T) {
	target := ast.NewTuple([]ast.Expr{
		name("a"),
		ast.NewStarred(name("b"), sp(0, 2)),
	}, false, sp(0, 6))

	parser.SetExprRole(target, ast.Store)
	once := fmt.Sprintf("%+v", roles(target))
	parser.SetExprRole(target, ast.Store)
	twice := fmt.Sprintf("%+v", roles(target))

	assert.Equal(t, once, twice)
}

func TestSetExprRolePropagatesThroughNesting(t *testing.T) {
	b, c := name("b"), name("c")
	inner := ast.NewList([]ast.Expr{b, c}, sp(0, 6))
	outer := ast.NewTuple([]ast.Expr{inner}, true, sp(0, 9))

	parser.SetExprRole(outer, ast.Store)

	assert.Equal(t, ast.Store, outer.Role)
	assert.Equal(t, ast.Store, inner.Role)
	assert.Equal(t, ast.Store, b.Role)
	assert.Equal(t, ast.Store, c.Role)
}

func TestSetExprRoleStarredReachesValue(t *testing.T) {
	value := name("rest")
	starred := ast.NewStarred(value, sp(0, 5))

	parser.SetExprRole(starred, ast.Del)

	assert.Equal(t, ast.Del, starred.Role)
	assert.Equal(t, ast.Del, value.Role)
}

func TestSetExprRoleLeavesAttributeValueAlone(t *testing.T) {
	obj := name("obj")
	attr := ast.NewAttribute(obj, "field", sp(0, 9))
	index := name("i")
	sub := ast.NewSubscript(name("xs"), index, sp(0, 5))

	parser.SetExprRole(attr, ast.Store)
	parser.SetExprRole(sub, ast.Store)

	assert.Equal(t, ast.Store, attr.Role)
	assert.Equal(t, ast.Load, obj.Role, "the object being written through is still read")
	assert.Equal(t, ast.Store, sub.Role)
	assert.Equal(t, ast.Load, index.Role)
}

func TestSetExprRoleIgnoresOtherVariants(t *testing.T) {
	arg := name("x")
	call := ast.NewCall(name("f"), []ast.Expr{arg}, nil, sp(0, 4))

	assert.NotPanics(t, func() {
		parser.SetExprRole(call, ast.Store)
		parser.SetExprRole(ast.NewLiteral(ast.LiteralNumber, "1", sp(0, 1)), ast.Del)
		parser.SetExprRole(nil, ast.Store)
	})
	assert.Equal(t, ast.Load, arg.Role)
}

func TestHelpersIgnoreNilNodes(t *testing.T) {
	nodes := []ast.Expr{
		(*ast.Name)(nil),
		(*ast.Attribute)(nil),
		(*ast.Starred)(nil),
		(*ast.Tuple)(nil),
		(*ast.Call)(nil),
	}

	for _, expr := range nodes {
		t.Run(fmt.Sprintf("%T", expr), func(t *testing.T) {
			assert.NotPanics(t, func() {
				parser.SetExprSpan(expr, sp(0, 1))
				parser.SetExprRole(expr, ast.Store)
			})
			assert.False(t, parser.IsValidAssignmentTarget(expr))
			assert.False(t, parser.IsValidAugAssignmentTarget(expr))
		})
	}

	// A nil element makes the enclosing target invalid without a panic.
	tuple := ast.NewTuple([]ast.Expr{name("a"), (*ast.Name)(nil)}, false, sp(0, 4))
	assert.NotPanics(t, func() { parser.SetExprRole(tuple, ast.Store) })
	assert.False(t, parser.IsValidAssignmentTarget(tuple))
	assert.Equal(t, ast.Store, tuple.Elts[0].(*ast.Name).Role)
}

func TestIsValidAssignmentTarget(t *testing.T) {
	// (a, [b, *c])
	nested := func(c ast.Expr) ast.Expr {
		return ast.NewTuple([]ast.Expr{
			name("a"),
			ast.NewList([]ast.Expr{
				name("b"),
				ast.NewStarred(c, sp(0, 2)),
			}, sp(0, 8)),
		}, true, sp(0, 12))
	}
	call := ast.NewCall(name("f"), nil, nil, sp(0, 3))

	tests := []struct {
		name string
		expr ast.Expr
		want bool
	}{
		{"name", name("a"), true},
		{"attribute", ast.NewAttribute(name("a"), "b", sp(0, 3)), true},
		{"subscript", ast.NewSubscript(name("a"), ast.NewLiteral(ast.LiteralNumber, "0", sp(2, 3)), sp(0, 4)), true},
		{"starred name", ast.NewStarred(name("a"), sp(0, 2)), true},
		{"empty tuple", ast.NewTuple(nil, true, sp(0, 2)), true},
		{"empty list", ast.NewList(nil, sp(0, 2)), true},
		{"nested destructuring", nested(name("c")), true},
		{"nested destructuring with call", nested(call), false},
		{"starred call", ast.NewStarred(call, sp(0, 4)), false},
		{"call", call, false},
		{"literal", ast.NewLiteral(ast.LiteralString, "s", sp(0, 3)), false},
		{"named expression", ast.NewNamedExpr(name("a"), name("b"), sp(0, 6)), false},
		{"invalid placeholder", ast.NewInvalid(sp(0, 1)), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.IsValidAssignmentTarget(tt.expr))
		})
	}
}

func TestIsValidAugAssignmentTarget(t *testing.T) {
	a, b := name("a"), name("b")

	assert.True(t, parser.IsValidAugAssignmentTarget(a))
	assert.True(t, parser.IsValidAugAssignmentTarget(ast.NewAttribute(a, "b", sp(0, 3))))
	assert.True(t, parser.IsValidAugAssignmentTarget(ast.NewSubscript(a, ast.NewLiteral(ast.LiteralNumber, "0", sp(2, 3)), sp(0, 4))))

	assert.False(t, parser.IsValidAugAssignmentTarget(ast.NewTuple([]ast.Expr{a, b}, true, sp(0, 6))))
	assert.False(t, parser.IsValidAugAssignmentTarget(ast.NewList([]ast.Expr{a, b}, sp(0, 6))))
	assert.False(t, parser.IsValidAugAssignmentTarget(ast.NewStarred(a, sp(0, 2))))
	assert.False(t, parser.IsValidAugAssignmentTarget(ast.NewCall(a, nil, nil, sp(0, 3))))
}

func TestSetExprSpanCoversEveryVariant(t *testing.T) {
	x := name("x")
	gens := []*ast.Comprehension{ast.NewComprehension(name("y"), name("ys"), nil, false, sp(0, 10))}

	variants := []ast.Expr{
		ast.NewName("n", sp(0, 1)),
		ast.NewAttribute(x, "a", sp(0, 3)),
		ast.NewSubscript(x, x, sp(0, 4)),
		ast.NewStarred(x, sp(0, 2)),
		ast.NewList(nil, sp(0, 2)),
		ast.NewTuple(nil, true, sp(0, 2)),
		ast.NewCall(x, nil, nil, sp(0, 3)),
		ast.NewDict(nil, nil, sp(0, 2)),
		ast.NewSet([]ast.Expr{x}, sp(0, 3)),
		ast.NewBinaryOp(x, lexer.PLUS, x, sp(0, 5)),
		ast.NewUnaryOp(lexer.MINUS, x, sp(0, 2)),
		ast.NewBooleanOp(lexer.AND, []ast.Expr{x, x}, sp(0, 7)),
		ast.NewCompare(x, []ast.CmpOp{ast.CmpLt}, []ast.Expr{x}, sp(0, 5)),
		ast.NewConditionalExpr(x, x, x, sp(0, 13)),
		ast.NewLambda(nil, x, sp(0, 9)),
		ast.NewNamedExpr(x, x, sp(0, 6)),
		ast.NewYield(nil, sp(0, 5)),
		ast.NewYieldFrom(x, sp(0, 12)),
		ast.NewAwait(x, sp(0, 7)),
		ast.NewSlice(nil, nil, nil, sp(0, 1)),
		ast.NewFormattedString(nil, sp(0, 3)),
		ast.NewFormattedValue(x, 'r', nil, sp(0, 5)),
		ast.NewListComp(x, gens, sp(0, 20)),
		ast.NewSetComp(x, gens, sp(0, 20)),
		ast.NewDictComp(x, x, gens, sp(0, 20)),
		ast.NewGeneratorExp(x, gens, sp(0, 20)),
		ast.NewLiteral(ast.LiteralNone, "None", sp(0, 4)),
		ast.NewInvalid(sp(0, 1)),
	}

	want := lexer.Span{Filename: "m.py", Line: 7, Column: 3, Start: 40, End: 52}
	for _, expr := range variants {
		t.Run(fmt.Sprintf("%T", expr), func(t *testing.T) {
			parser.SetExprSpan(expr, want)
			require.Equal(t, want, expr.Span())
		})
	}

	assert.NotPanics(t, func() { parser.SetExprSpan(nil, want) })
}

// roles lists the role of every role-capable node under expr in walk order.
func roles(expr ast.Expr) []ast.Role {
	var out []ast.Role
	ast.Inspect(expr, func(e ast.Expr) {
		if role, ok := ast.RoleOf(e); ok {
			out = append(out, role)
		}
	})
	return out
}
