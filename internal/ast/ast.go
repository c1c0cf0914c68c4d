package ast

import "github.com/malphas-lang/sidewinder/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node. The variant set is closed: every
// implementation lives in this package, and SetSpan is part of the interface so
// a new variant cannot be added without a span.
type Expr interface {
	Node
	SetSpan(lexer.Span)
	exprNode()
}

// Stmt represents a simple statement node.
type Stmt interface {
	Node
	SetSpan(lexer.Span)
	stmtNode()
}

// Module represents a parsed source file.
type Module struct {
	Body []Stmt
	span lexer.Span
}

// Span returns the span covering the entire module.
func (m *Module) Span() lexer.Span { return m.span }

// NewModule constructs a module node with the provided span.
func NewModule(span lexer.Span) *Module {
	return &Module{span: span}
}

// SetSpan updates the module span.
func (m *Module) SetSpan(span lexer.Span) {
	m.span = span
}

// ExprStmt represents an expression evaluated for its side effects.
type ExprStmt struct {
	Value Expr
	span  lexer.Span
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// NewExprStmt constructs an expression statement node.
func NewExprStmt(value Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{Value: value, span: span}
}

// SetSpan updates the statement span.
func (s *ExprStmt) SetSpan(span lexer.Span) { s.span = span }

func (*ExprStmt) stmtNode() {}

// AssignStmt represents "t1 = t2 = ... = value". Targets are in source order.
type AssignStmt struct {
	Targets []Expr
	Value   Expr
	span    lexer.Span
}

// Span returns the statement span.
func (s *AssignStmt) Span() lexer.Span { return s.span }

// NewAssignStmt constructs an assignment statement node.
func NewAssignStmt(targets []Expr, value Expr, span lexer.Span) *AssignStmt {
	return &AssignStmt{Targets: targets, Value: value, span: span}
}

// SetSpan updates the statement span.
func (s *AssignStmt) SetSpan(span lexer.Span) { s.span = span }

func (*AssignStmt) stmtNode() {}

// AugAssignStmt represents "target op= value". Op is the binary operator,
// e.g. lexer.PLUS for "+=".
type AugAssignStmt struct {
	Target Expr
	Op     lexer.TokenType
	Value  Expr
	span   lexer.Span
}

// Span returns the statement span.
func (s *AugAssignStmt) Span() lexer.Span { return s.span }

// NewAugAssignStmt constructs an augmented assignment statement node.
func NewAugAssignStmt(target Expr, op lexer.TokenType, value Expr, span lexer.Span) *AugAssignStmt {
	return &AugAssignStmt{Target: target, Op: op, Value: value, span: span}
}

// SetSpan updates the statement span.
func (s *AugAssignStmt) SetSpan(span lexer.Span) { s.span = span }

func (*AugAssignStmt) stmtNode() {}

// AnnAssignStmt represents "target: annotation [= value]". Value may be nil.
type AnnAssignStmt struct {
	Target     Expr
	Annotation Expr
	Value      Expr
	span       lexer.Span
}

// Span returns the statement span.
func (s *AnnAssignStmt) Span() lexer.Span { return s.span }

// NewAnnAssignStmt constructs an annotated assignment statement node.
func NewAnnAssignStmt(target, annotation, value Expr, span lexer.Span) *AnnAssignStmt {
	return &AnnAssignStmt{Target: target, Annotation: annotation, Value: value, span: span}
}

// SetSpan updates the statement span.
func (s *AnnAssignStmt) SetSpan(span lexer.Span) { s.span = span }

func (*AnnAssignStmt) stmtNode() {}

// DeleteStmt represents "del t1, t2".
type DeleteStmt struct {
	Targets []Expr
	span    lexer.Span
}

// Span returns the statement span.
func (s *DeleteStmt) Span() lexer.Span { return s.span }

// NewDeleteStmt constructs a delete statement node.
func NewDeleteStmt(targets []Expr, span lexer.Span) *DeleteStmt {
	return &DeleteStmt{Targets: targets, span: span}
}

// SetSpan updates the statement span.
func (s *DeleteStmt) SetSpan(span lexer.Span) { s.span = span }

func (*DeleteStmt) stmtNode() {}
