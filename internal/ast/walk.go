package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch. Children are
// visited in source order.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Module:
		for _, stmt := range n.Body {
			Walk(stmt, fn)
		}

	case *ExprStmt:
		walkExpr(n.Value, fn)

	case *AssignStmt:
		for _, target := range n.Targets {
			walkExpr(target, fn)
		}
		walkExpr(n.Value, fn)

	case *AugAssignStmt:
		walkExpr(n.Target, fn)
		walkExpr(n.Value, fn)

	case *AnnAssignStmt:
		walkExpr(n.Target, fn)
		walkExpr(n.Annotation, fn)
		walkExpr(n.Value, fn)

	case *DeleteStmt:
		for _, target := range n.Targets {
			walkExpr(target, fn)
		}

	case *Attribute:
		walkExpr(n.Value, fn)

	case *Subscript:
		walkExpr(n.Value, fn)
		walkExpr(n.Index, fn)

	case *Starred:
		walkExpr(n.Value, fn)

	case *List:
		walkExprs(n.Elts, fn)

	case *Tuple:
		walkExprs(n.Elts, fn)

	case *Call:
		walkExpr(n.Func, fn)
		walkExprs(n.Args, fn)
		for _, kw := range n.Keywords {
			Walk(kw, fn)
		}

	case *Keyword:
		walkExpr(n.Value, fn)

	case *Dict:
		for i := range n.Values {
			if i < len(n.Keys) {
				walkExpr(n.Keys[i], fn)
			}
			walkExpr(n.Values[i], fn)
		}

	case *Set:
		walkExprs(n.Elts, fn)

	case *BinaryOp:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)

	case *UnaryOp:
		walkExpr(n.Operand, fn)

	case *BooleanOp:
		walkExprs(n.Values, fn)

	case *Compare:
		walkExpr(n.Left, fn)
		walkExprs(n.Comparators, fn)

	case *ConditionalExpr:
		walkExpr(n.Body, fn)
		walkExpr(n.Test, fn)
		walkExpr(n.OrElse, fn)

	case *Lambda:
		for _, param := range n.Params {
			Walk(param, fn)
		}
		walkExpr(n.Body, fn)

	case *Param:
		walkExpr(n.Default, fn)

	case *NamedExpr:
		walkExpr(n.Target, fn)
		walkExpr(n.Value, fn)

	case *Yield:
		walkExpr(n.Value, fn)

	case *YieldFrom:
		walkExpr(n.Value, fn)

	case *Await:
		walkExpr(n.Value, fn)

	case *Slice:
		walkExpr(n.Lower, fn)
		walkExpr(n.Upper, fn)
		walkExpr(n.Step, fn)

	case *FormattedString:
		walkExprs(n.Values, fn)

	case *FormattedValue:
		walkExpr(n.Value, fn)
		if n.FormatSpec != nil {
			Walk(n.FormatSpec, fn)
		}

	case *ListComp:
		walkExpr(n.Elt, fn)
		walkGenerators(n.Generators, fn)

	case *SetComp:
		walkExpr(n.Elt, fn)
		walkGenerators(n.Generators, fn)

	case *DictComp:
		walkExpr(n.Key, fn)
		walkExpr(n.Value, fn)
		walkGenerators(n.Generators, fn)

	case *GeneratorExp:
		walkExpr(n.Elt, fn)
		walkGenerators(n.Generators, fn)

	case *Comprehension:
		walkExpr(n.Target, fn)
		walkExpr(n.Iter, fn)
		walkExprs(n.Ifs, fn)
	}
}

// walkExpr skips absent optional children.
func walkExpr(expr Expr, fn func(Node) bool) {
	if expr == nil {
		return
	}
	Walk(expr, fn)
}

func walkExprs(exprs []Expr, fn func(Node) bool) {
	for _, expr := range exprs {
		walkExpr(expr, fn)
	}
}

func walkGenerators(gens []*Comprehension, fn func(Node) bool) {
	for _, gen := range gens {
		Walk(gen, fn)
	}
}

// Inspect calls fn for every expression in the tree rooted at node.
func Inspect(node Node, fn func(Expr)) {
	Walk(node, func(n Node) bool {
		if expr, ok := n.(Expr); ok {
			fn(expr)
		}
		return true
	})
}
