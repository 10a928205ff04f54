package ast

// DefineStmt is `name := expr` or `mut name := expr` (spec §6).
type DefineStmt struct {
	Base
	Name  string
	Mut   bool
	Value Expr
}

func (*DefineStmt) stmtNode() {}

// AssignStmt is `lhs = rhs`.
type AssignStmt struct {
	Base
	Target Expr
	Value  Expr
}

func (*AssignStmt) stmtNode() {}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) stmtNode() {}
