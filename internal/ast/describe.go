package ast

// Describe returns the noun used for expr in diagnostics, e.g. "function call".
func Describe(expr Expr) string {
	switch e := expr.(type) {
	case *Name:
		return "name"
	case *Attribute:
		return "attribute"
	case *Subscript:
		return "subscript"
	case *Starred:
		return "starred"
	case *List:
		return "list"
	case *Tuple:
		return "tuple"
	case *Call:
		return "function call"
	case *Dict:
		return "dict literal"
	case *Set:
		return "set display"
	case *BinaryOp, *UnaryOp:
		return "expression"
	case *BooleanOp:
		return "expression"
	case *Compare:
		return "comparison"
	case *ConditionalExpr:
		return "conditional expression"
	case *Lambda:
		return "lambda"
	case *NamedExpr:
		return "named expression"
	case *Yield, *YieldFrom:
		return "yield expression"
	case *Await:
		return "await expression"
	case *Slice:
		return "slice"
	case *FormattedString, *FormattedValue:
		return "f-string expression"
	case *ListComp:
		return "list comprehension"
	case *SetComp:
		return "set comprehension"
	case *DictComp:
		return "dict comprehension"
	case *GeneratorExp:
		return "generator expression"
	case *Literal:
		switch e.Kind {
		case LiteralTrue:
			return "True"
		case LiteralFalse:
			return "False"
		case LiteralNone:
			return "None"
		case LiteralEllipsis:
			return "ellipsis"
		default:
			return "literal"
		}
	case *Invalid:
		return "invalid expression"
	default:
		return "expression"
	}
}
