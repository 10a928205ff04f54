package ast

import "github.com/viskum-lang/viskumc/internal/ir"

// IdentTypeExpr is a bare identifier used as a type: a reserved primitive
// name, a user ADT name, or `Self` inside an impl block.
type IdentTypeExpr struct {
	Base
	Name string
}

func (*IdentTypeExpr) typeExprNode() {}

// PtrTypeExpr is `*T` or `*mut T`.
type PtrTypeExpr struct {
	Base
	Elem TypeExpr
	Mut  ir.Mutability
}

func (*PtrTypeExpr) typeExprNode() {}

// ManyPtrTypeExpr is `[*]T`.
type ManyPtrTypeExpr struct {
	Base
	Elem TypeExpr
}

func (*ManyPtrTypeExpr) typeExprNode() {}

// TupleTypeExpr is `(T, K, ...)`.
type TupleTypeExpr struct {
	Base
	Elems []TypeExpr
}

func (*TupleTypeExpr) typeExprNode() {}

// FnTypeExpr is `fn(T, ...) R`.
type FnTypeExpr struct {
	Base
	Params []TypeExpr
	Ret    TypeExpr
}

func (*FnTypeExpr) typeExprNode() {}

// VariadicTypeExpr is the `...` marker in `declare fn` parameter lists.
type VariadicTypeExpr struct {
	Base
}

func (*VariadicTypeExpr) typeExprNode() {}
