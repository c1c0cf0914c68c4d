package ast

import "github.com/malphas-lang/sidewinder/internal/lexer"

// Name represents an identifier reference.
type Name struct {
	ID   string
	Role Role
	span lexer.Span
}

// Span returns the identifier span.
func (e *Name) Span() lexer.Span { return e.span }

// SetSpan updates the identifier span.
func (e *Name) SetSpan(span lexer.Span) { e.span = span }

// NewName constructs a name node in the Load role.
func NewName(id string, span lexer.Span) *Name {
	return &Name{ID: id, span: span}
}

// exprNode marks Name as an expression.
func (*Name) exprNode() {}

// Attribute represents "value.attr".
type Attribute struct {
	Value Expr
	Attr  string
	Role  Role
	span  lexer.Span
}

// Span returns the attribute access span.
func (e *Attribute) Span() lexer.Span { return e.span }

// SetSpan updates the attribute access span.
func (e *Attribute) SetSpan(span lexer.Span) { e.span = span }

// NewAttribute constructs an attribute access node.
func NewAttribute(value Expr, attr string, span lexer.Span) *Attribute {
	return &Attribute{Value: value, Attr: attr, span: span}
}

func (*Attribute) exprNode() {}

// Subscript represents "value[index]". Index is a Slice or a Tuple for
// extended slicing.
type Subscript struct {
	Value Expr
	Index Expr
	Role  Role
	span  lexer.Span
}

// Span returns the subscript span.
func (e *Subscript) Span() lexer.Span { return e.span }

// SetSpan updates the subscript span.
func (e *Subscript) SetSpan(span lexer.Span) { e.span = span }

// NewSubscript constructs a subscript node.
func NewSubscript(value, index Expr, span lexer.Span) *Subscript {
	return &Subscript{Value: value, Index: index, span: span}
}

func (*Subscript) exprNode() {}

// Starred represents "*value" in a sequence, call or target list.
type Starred struct {
	Value Expr
	Role  Role
	span  lexer.Span
}

// Span returns the starred expression span.
func (e *Starred) Span() lexer.Span { return e.span }

// SetSpan updates the starred expression span.
func (e *Starred) SetSpan(span lexer.Span) { e.span = span }

// NewStarred constructs a starred node.
func NewStarred(value Expr, span lexer.Span) *Starred {
	return &Starred{Value: value, span: span}
}

func (*Starred) exprNode() {}

// List represents "[a, b]". Elts are kept in source order.
type List struct {
	Elts []Expr
	Role Role
	span lexer.Span
}

// Span returns the list display span.
func (e *List) Span() lexer.Span { return e.span }

// SetSpan updates the list display span.
func (e *List) SetSpan(span lexer.Span) { e.span = span }

// NewList constructs a list display node.
func NewList(elts []Expr, span lexer.Span) *List {
	return &List{Elts: elts, span: span}
}

func (*List) exprNode() {}

// Tuple represents "a, b" or "(a, b)". Elts are kept in source order.
type Tuple struct {
	Elts          []Expr
	Role          Role
	Parenthesized bool
	span          lexer.Span
}

// Span returns the tuple span.
func (e *Tuple) Span() lexer.Span { return e.span }

// SetSpan updates the tuple span.
func (e *Tuple) SetSpan(span lexer.Span) { e.span = span }

// NewTuple constructs a tuple node.
func NewTuple(elts []Expr, parenthesized bool, span lexer.Span) *Tuple {
	return &Tuple{Elts: elts, Parenthesized: parenthesized, span: span}
}

func (*Tuple) exprNode() {}

// Keyword is a "name=value" call argument. Arg is empty for "**value".
type Keyword struct {
	Arg   string
	Value Expr
	span  lexer.Span
}

// Span returns the keyword argument span.
func (k *Keyword) Span() lexer.Span { return k.span }

// SetSpan updates the keyword argument span.
func (k *Keyword) SetSpan(span lexer.Span) { k.span = span }

// NewKeyword constructs a keyword argument.
func NewKeyword(arg string, value Expr, span lexer.Span) *Keyword {
	return &Keyword{Arg: arg, Value: value, span: span}
}

// Call represents "fn(args, keywords)".
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
	span     lexer.Span
}

// Span returns the call span.
func (e *Call) Span() lexer.Span { return e.span }

// SetSpan updates the call span.
func (e *Call) SetSpan(span lexer.Span) { e.span = span }

// NewCall constructs a call node.
func NewCall(fn Expr, args []Expr, keywords []*Keyword, span lexer.Span) *Call {
	return &Call{Func: fn, Args: args, Keywords: keywords, span: span}
}

func (*Call) exprNode() {}

// Dict represents "{k: v, **m}". A nil key marks a "**" unpacking entry.
type Dict struct {
	Keys   []Expr
	Values []Expr
	span   lexer.Span
}

// Span returns the dict display span.
func (e *Dict) Span() lexer.Span { return e.span }

// SetSpan updates the dict display span.
func (e *Dict) SetSpan(span lexer.Span) { e.span = span }

// NewDict constructs a dict display node.
func NewDict(keys, values []Expr, span lexer.Span) *Dict {
	return &Dict{Keys: keys, Values: values, span: span}
}

func (*Dict) exprNode() {}

// Set represents "{a, b}".
type Set struct {
	Elts []Expr
	span lexer.Span
}

// Span returns the set display span.
func (e *Set) Span() lexer.Span { return e.span }

// SetSpan updates the set display span.
func (e *Set) SetSpan(span lexer.Span) { e.span = span }

// NewSet constructs a set display node.
func NewSet(elts []Expr, span lexer.Span) *Set {
	return &Set{Elts: elts, span: span}
}

func (*Set) exprNode() {}

// BinaryOp represents "left op right" for arithmetic and bitwise operators.
type BinaryOp struct {
	Left  Expr
	Op    lexer.TokenType
	Right Expr
	span  lexer.Span
}

// Span returns the binary expression span.
func (e *BinaryOp) Span() lexer.Span { return e.span }

// SetSpan updates the binary expression span.
func (e *BinaryOp) SetSpan(span lexer.Span) { e.span = span }

// NewBinaryOp constructs a binary operator node.
func NewBinaryOp(left Expr, op lexer.TokenType, right Expr, span lexer.Span) *BinaryOp {
	return &BinaryOp{Left: left, Op: op, Right: right, span: span}
}

func (*BinaryOp) exprNode() {}

// UnaryOp represents "op operand" for "+", "-", "~" and "not".
type UnaryOp struct {
	Op      lexer.TokenType
	Operand Expr
	span    lexer.Span
}

// Span returns the unary expression span.
func (e *UnaryOp) Span() lexer.Span { return e.span }

// SetSpan updates the unary expression span.
func (e *UnaryOp) SetSpan(span lexer.Span) { e.span = span }

// NewUnaryOp constructs a unary operator node.
func NewUnaryOp(op lexer.TokenType, operand Expr, span lexer.Span) *UnaryOp {
	return &UnaryOp{Op: op, Operand: operand, span: span}
}

func (*UnaryOp) exprNode() {}

// BooleanOp represents a flattened "a and b and c" (or "or") chain.
type BooleanOp struct {
	Op     lexer.TokenType
	Values []Expr
	span   lexer.Span
}

// Span returns the boolean expression span.
func (e *BooleanOp) Span() lexer.Span { return e.span }

// SetSpan updates the boolean expression span.
func (e *BooleanOp) SetSpan(span lexer.Span) { e.span = span }

// NewBooleanOp constructs a boolean operator node.
func NewBooleanOp(op lexer.TokenType, values []Expr, span lexer.Span) *BooleanOp {
	return &BooleanOp{Op: op, Values: values, span: span}
}

func (*BooleanOp) exprNode() {}

// CmpOp is a comparison operator. Two-word operators are spelled out.
type CmpOp string

const (
	CmpEq    CmpOp = "=="
	CmpNotEq CmpOp = "!="
	CmpLt    CmpOp = "<"
	CmpLtE   CmpOp = "<="
	CmpGt    CmpOp = ">"
	CmpGtE   CmpOp = ">="
	CmpIs    CmpOp = "is"
	CmpIsNot CmpOp = "is not"
	CmpIn    CmpOp = "in"
	CmpNotIn CmpOp = "not in"
)

// Compare represents a comparison chain "a < b <= c".
// len(Ops) == len(Comparators).
type Compare struct {
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
	span        lexer.Span
}

// Span returns the comparison span.
func (e *Compare) Span() lexer.Span { return e.span }

// SetSpan updates the comparison span.
func (e *Compare) SetSpan(span lexer.Span) { e.span = span }

// NewCompare constructs a comparison node.
func NewCompare(left Expr, ops []CmpOp, comparators []Expr, span lexer.Span) *Compare {
	return &Compare{Left: left, Ops: ops, Comparators: comparators, span: span}
}

func (*Compare) exprNode() {}

// ConditionalExpr represents "body if test else orelse".
type ConditionalExpr struct {
	Test   Expr
	Body   Expr
	OrElse Expr
	span   lexer.Span
}

// Span returns the conditional expression span.
func (e *ConditionalExpr) Span() lexer.Span { return e.span }

// SetSpan updates the conditional expression span.
func (e *ConditionalExpr) SetSpan(span lexer.Span) { e.span = span }

// NewConditionalExpr constructs a conditional expression node.
func NewConditionalExpr(test, body, orElse Expr, span lexer.Span) *ConditionalExpr {
	return &ConditionalExpr{Test: test, Body: body, OrElse: orElse, span: span}
}

func (*ConditionalExpr) exprNode() {}

// ParamKind distinguishes plain, "*args" and "**kwargs" lambda parameters.
type ParamKind uint8

const (
	ParamPlain ParamKind = iota
	ParamVarArgs
	ParamKwArgs
)

// Param is a lambda parameter. Default may be nil.
type Param struct {
	Name    string
	Kind    ParamKind
	Default Expr
	span    lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// SetSpan updates the parameter span.
func (p *Param) SetSpan(span lexer.Span) { p.span = span }

// NewParam constructs a lambda parameter.
func NewParam(name string, kind ParamKind, def Expr, span lexer.Span) *Param {
	return &Param{Name: name, Kind: kind, Default: def, span: span}
}

// Lambda represents "lambda params: body".
type Lambda struct {
	Params []*Param
	Body   Expr
	span   lexer.Span
}

// Span returns the lambda span.
func (e *Lambda) Span() lexer.Span { return e.span }

// SetSpan updates the lambda span.
func (e *Lambda) SetSpan(span lexer.Span) { e.span = span }

// NewLambda constructs a lambda node.
func NewLambda(params []*Param, body Expr, span lexer.Span) *Lambda {
	return &Lambda{Params: params, Body: body, span: span}
}

func (*Lambda) exprNode() {}

// NamedExpr represents "target := value".
type NamedExpr struct {
	Target Expr
	Value  Expr
	span   lexer.Span
}

// Span returns the named expression span.
func (e *NamedExpr) Span() lexer.Span { return e.span }

// SetSpan updates the named expression span.
func (e *NamedExpr) SetSpan(span lexer.Span) { e.span = span }

// NewNamedExpr constructs a named expression node.
func NewNamedExpr(target, value Expr, span lexer.Span) *NamedExpr {
	return &NamedExpr{Target: target, Value: value, span: span}
}

func (*NamedExpr) exprNode() {}

// Yield represents "yield [value]". Value may be nil.
type Yield struct {
	Value Expr
	span  lexer.Span
}

func (e *Yield) Span() lexer.Span        { return e.span }
func (e *Yield) SetSpan(span lexer.Span) { e.span = span }
func (*Yield) exprNode()                 {}

// NewYield constructs a yield node.
func NewYield(value Expr, span lexer.Span) *Yield {
	return &Yield{Value: value, span: span}
}

// YieldFrom represents "yield from value".
type YieldFrom struct {
	Value Expr
	span  lexer.Span
}

func (e *YieldFrom) Span() lexer.Span        { return e.span }
func (e *YieldFrom) SetSpan(span lexer.Span) { e.span = span }
func (*YieldFrom) exprNode()                 {}

// NewYieldFrom constructs a yield-from node.
func NewYieldFrom(value Expr, span lexer.Span) *YieldFrom {
	return &YieldFrom{Value: value, span: span}
}

// Await represents "await value".
type Await struct {
	Value Expr
	span  lexer.Span
}

func (e *Await) Span() lexer.Span        { return e.span }
func (e *Await) SetSpan(span lexer.Span) { e.span = span }
func (*Await) exprNode()                 {}

// NewAwait constructs an await node.
func NewAwait(value Expr, span lexer.Span) *Await {
	return &Await{Value: value, span: span}
}

// Slice represents "lower:upper:step" inside a subscript. Any part may be nil.
type Slice struct {
	Lower Expr
	Upper Expr
	Step  Expr
	span  lexer.Span
}

// Span returns the slice span.
func (e *Slice) Span() lexer.Span { return e.span }

// SetSpan updates the slice span.
func (e *Slice) SetSpan(span lexer.Span) { e.span = span }

// NewSlice constructs a slice node.
func NewSlice(lower, upper, step Expr, span lexer.Span) *Slice {
	return &Slice{Lower: lower, Upper: upper, Step: step, span: span}
}

func (*Slice) exprNode() {}

// FormattedString represents an f-string. Values holds string Literal parts and
// FormattedValue replacement fields in source order.
type FormattedString struct {
	Values []Expr
	span   lexer.Span
}

// Span returns the f-string span.
func (e *FormattedString) Span() lexer.Span { return e.span }

// SetSpan updates the f-string span.
func (e *FormattedString) SetSpan(span lexer.Span) { e.span = span }

// NewFormattedString constructs an f-string node.
func NewFormattedString(values []Expr, span lexer.Span) *FormattedString {
	return &FormattedString{Values: values, span: span}
}

func (*FormattedString) exprNode() {}

// FormattedValue represents a "{value!conversion:spec}" replacement field.
// Conversion is 0, 's', 'r' or 'a'; FormatSpec may be nil.
type FormattedValue struct {
	Value      Expr
	Conversion rune
	FormatSpec *FormattedString
	span       lexer.Span
}

// Span returns the replacement field span.
func (e *FormattedValue) Span() lexer.Span { return e.span }

// SetSpan updates the replacement field span.
func (e *FormattedValue) SetSpan(span lexer.Span) { e.span = span }

// NewFormattedValue constructs a replacement field node.
func NewFormattedValue(value Expr, conversion rune, spec *FormattedString, span lexer.Span) *FormattedValue {
	return &FormattedValue{Value: value, Conversion: conversion, FormatSpec: spec, span: span}
}

func (*FormattedValue) exprNode() {}

// Comprehension is one "for target in iter if cond" clause.
type Comprehension struct {
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
	span    lexer.Span
}

// Span returns the clause span.
func (c *Comprehension) Span() lexer.Span { return c.span }

// SetSpan updates the clause span.
func (c *Comprehension) SetSpan(span lexer.Span) { c.span = span }

// NewComprehension constructs a comprehension clause.
func NewComprehension(target, iter Expr, ifs []Expr, isAsync bool, span lexer.Span) *Comprehension {
	return &Comprehension{Target: target, Iter: iter, Ifs: ifs, IsAsync: isAsync, span: span}
}

// ListComp represents "[elt for ...]".
type ListComp struct {
	Elt        Expr
	Generators []*Comprehension
	span       lexer.Span
}

func (e *ListComp) Span() lexer.Span        { return e.span }
func (e *ListComp) SetSpan(span lexer.Span) { e.span = span }
func (*ListComp) exprNode()                 {}

// NewListComp constructs a list comprehension node.
func NewListComp(elt Expr, gens []*Comprehension, span lexer.Span) *ListComp {
	return &ListComp{Elt: elt, Generators: gens, span: span}
}

// SetComp represents "{elt for ...}".
type SetComp struct {
	Elt        Expr
	Generators []*Comprehension
	span       lexer.Span
}

func (e *SetComp) Span() lexer.Span        { return e.span }
func (e *SetComp) SetSpan(span lexer.Span) { e.span = span }
func (*SetComp) exprNode()                 {}

// NewSetComp constructs a set comprehension node.
func NewSetComp(elt Expr, gens []*Comprehension, span lexer.Span) *SetComp {
	return &SetComp{Elt: elt, Generators: gens, span: span}
}

// DictComp represents "{key: value for ...}".
type DictComp struct {
	Key        Expr
	Value      Expr
	Generators []*Comprehension
	span       lexer.Span
}

func (e *DictComp) Span() lexer.Span        { return e.span }
func (e *DictComp) SetSpan(span lexer.Span) { e.span = span }
func (*DictComp) exprNode()                 {}

// NewDictComp constructs a dict comprehension node.
func NewDictComp(key, value Expr, gens []*Comprehension, span lexer.Span) *DictComp {
	return &DictComp{Key: key, Value: value, Generators: gens, span: span}
}

// GeneratorExp represents "(elt for ...)".
type GeneratorExp struct {
	Elt        Expr
	Generators []*Comprehension
	span       lexer.Span
}

func (e *GeneratorExp) Span() lexer.Span        { return e.span }
func (e *GeneratorExp) SetSpan(span lexer.Span) { e.span = span }
func (*GeneratorExp) exprNode()                 {}

// NewGeneratorExp constructs a generator expression node.
func NewGeneratorExp(elt Expr, gens []*Comprehension, span lexer.Span) *GeneratorExp {
	return &GeneratorExp{Elt: elt, Generators: gens, span: span}
}

// LiteralKind classifies a Literal.
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralBytes
	LiteralNumber
	LiteralTrue
	LiteralFalse
	LiteralNone
	LiteralEllipsis
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralBytes:
		return "bytes"
	case LiteralNumber:
		return "number"
	case LiteralTrue:
		return "true"
	case LiteralFalse:
		return "false"
	case LiteralNone:
		return "none"
	case LiteralEllipsis:
		return "ellipsis"
	default:
		return "unknown"
	}
}

// Literal represents a constant. For strings and bytes Value is the decoded
// body of every adjacent piece concatenated, and Segments holds the span of
// each piece's body without prefix and quotes.
type Literal struct {
	Kind     LiteralKind
	Value    string
	Segments []lexer.Span
	span     lexer.Span
}

// Span returns the literal span.
func (e *Literal) Span() lexer.Span { return e.span }

// SetSpan updates the literal span.
func (e *Literal) SetSpan(span lexer.Span) { e.span = span }

// NewLiteral constructs a literal node.
func NewLiteral(kind LiteralKind, value string, span lexer.Span) *Literal {
	return &Literal{Kind: kind, Value: value, span: span}
}

func (*Literal) exprNode() {}

// Invalid is the placeholder the parser leaves where an expression could not
// be parsed. It keeps the tree total so later passes never see nil operands.
type Invalid struct {
	span lexer.Span
}

// Span returns the span of the unparsable source.
func (e *Invalid) Span() lexer.Span { return e.span }

// SetSpan updates the placeholder span.
func (e *Invalid) SetSpan(span lexer.Span) { e.span = span }

// NewInvalid constructs a placeholder node.
func NewInvalid(span lexer.Span) *Invalid {
	return &Invalid{span: span}
}

func (*Invalid) exprNode() {}
