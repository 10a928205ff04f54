package ast

// IntLitExpr is an integer literal. Its seed Type is assigned by the type
// checker as the smallest signed integer type (>= i8) that fits Value
// (spec §3, "Integer-constant typing").
type IntLitExpr struct {
	Base
	Value int64
}

func (*IntLitExpr) exprNode() {}

// FloatLitExpr is a floating-point literal, always typed Float64.
type FloatLitExpr struct {
	Base
	Value float64
}

func (*FloatLitExpr) exprNode() {}

// BoolLitExpr is `true` / `false`.
type BoolLitExpr struct {
	Base
	Value bool
}

func (*BoolLitExpr) exprNode() {}

// NullLitExpr is `null`, assignable to any pointer type.
type NullLitExpr struct {
	Base
}

func (*NullLitExpr) exprNode() {}

// StringLitExpr is a string literal; it is interned as a package-wide
// const string with its own DefId (spec §4.1).
type StringLitExpr struct {
	Base
	Value string // raw bytes between the quotes, with `\NN` escapes intact
}

func (*StringLitExpr) exprNode() {}

// IdentExpr is a bare identifier use.
type IdentExpr struct {
	Base
	Name string
}

func (*IdentExpr) exprNode() {}

// PathExpr is a dotted path use: `pkg.x`, `a.b.c`.
type PathExpr struct {
	Base
	Segments []string
}

func (*PathExpr) exprNode() {}

// CallExpr is `f(a, b, ...)`.
type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// FieldExpr is `x.f` — field access or, when `f` resolves to an impl
// method, the receiver half of a method call (spec §4.3).
type FieldExpr struct {
	Base
	X     Expr
	Field string
}

func (*FieldExpr) exprNode() {}

// TupleFieldExpr is `x.0`.
type TupleFieldExpr struct {
	Base
	X     Expr
	Index int
}

func (*TupleFieldExpr) exprNode() {}

// IndexExpr is `x[i]`.
type IndexExpr struct {
	Base
	X     Expr
	Index Expr
}

func (*IndexExpr) exprNode() {}

// GroupExpr is `(e)`.
type GroupExpr struct {
	Base
	X Expr
}

func (*GroupExpr) exprNode() {}

// TupleExpr is `(a, b, ...)` with two or more elements.
type TupleExpr struct {
	Base
	Elems []Expr
}

func (*TupleExpr) exprNode() {}

// StructLitField is one `f: v` entry of a struct literal.
type StructLitField struct {
	Name  string
	Value Expr
}

// StructLitExpr is `Name { f: v, ... }`.
type StructLitExpr struct {
	Base
	Name   string
	Fields []StructLitField
}

func (*StructLitExpr) exprNode() {}

// BinaryExpr is a binary arithmetic or comparison expression.
type BinaryExpr struct {
	Base
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// BreakExpr is `break [e]`.
type BreakExpr struct {
	Base
	Value Expr // nil when no value
}

func (*BreakExpr) exprNode() {}

// ContinueExpr is `continue`.
type ContinueExpr struct {
	Base
}

func (*ContinueExpr) exprNode() {}

// ReturnExpr is `return [e]`.
type ReturnExpr struct {
	Base
	Value Expr // nil when no value
}

func (*ReturnExpr) exprNode() {}

// BlockExpr is `{ stmts... }`, used as a function body and as the bodies
// of if/loop expressions. Its value (when used in expression position) is
// the value of its trailing ExprStmt, if any.
type BlockExpr struct {
	Base
	Stmts []Stmt
}

func (*BlockExpr) exprNode() {}

// IfBranch is one `if`/`elif` condition+block pair.
type IfBranch struct {
	Cond Expr
	Body *BlockExpr
}

// IfExpr is `if c { A } [elif c { A }]* [else { B }]`. elif clauses are
// flattened into Branches in source order; Else is nil when absent.
type IfExpr struct {
	Base
	Branches []IfBranch
	Else     *BlockExpr
}

func (*IfExpr) exprNode() {}

// IfLetExpr is `if let P = E { A } [else { B }]` (spec §4.3, §4.4).
type IfLetExpr struct {
	Base
	Pattern Pattern
	Value   Expr
	Then    *BlockExpr
	Else    *BlockExpr
}

func (*IfLetExpr) exprNode() {}

// LoopExpr is `loop { ... }`.
type LoopExpr struct {
	Base
	Body *BlockExpr
}

func (*LoopExpr) exprNode() {}
