package cfg

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// Node is one instruction inside a BasicBlock (spec §4.4, "Nodes").
type Node interface {
	nodeKind()
}

// StoreKind distinguishes a place's first write (Init — the backend may
// skip zeroing) from a later overwrite (Assign).
type StoreKind int

const (
	StoreInit StoreKind = iota
	StoreAssign
)

// StoreNode writes Value into Setter.
type StoreNode struct {
	Setter Place
	Value  Operand
	Ty     types.Type
	Kind   StoreKind
}

func (*StoreNode) nodeKind() {}

// LoadNode reads From into the fresh temporary Result.
type LoadNode struct {
	Result ir.TempId
	From   Place
	Ty     types.Type
}

func (*LoadNode) nodeKind() {}

// BinaryNode computes Lhs Op Rhs into Result, both operands already coerced
// to Ty.
type BinaryNode struct {
	Result ir.TempId
	Op     ast.BinaryOp
	Ty     types.Type
	Lhs    Operand
	Rhs    Operand
}

func (*BinaryNode) nodeKind() {}

// BranchCondNode is a basic block terminator: branch to TrueBB if Cond
// holds, FalseBB otherwise.
type BranchCondNode struct {
	Cond    Operand
	TrueBB  ir.BasicBlockId
	FalseBB ir.BasicBlockId
}

func (*BranchCondNode) nodeKind() {}

// BranchNode is an unconditional basic block terminator.
type BranchNode struct {
	BB ir.BasicBlockId
}

func (*BranchNode) nodeKind() {}

// ReturnNode is a basic block terminator returning Value (nil for a void
// function).
type ReturnNode struct {
	Value *Operand
}

func (*ReturnNode) nodeKind() {}

// CallNode invokes Callee with Args (each already coerced to ArgTys),
// leaving the result (if RetTy != Void) in Result.
type CallNode struct {
	Result ir.TempId
	Callee Operand
	Args   []Operand
	ArgTys []types.Type
	RetTy  types.Type
}

func (*CallNode) nodeKind() {}

// IndexNode computes `Base[Index]`'s address into the temporary Result (the
// address of one ElemTy, which the builder types as a StackPtr place).
type IndexNode struct {
	Result ir.TempId
	Base   Operand
	Index  Operand
	ElemTy types.Type
}

func (*IndexNode) nodeKind() {}

// ByteAccessNode computes the address ByteOffset bytes into Base, typed Ty,
// into the temporary Result — the primitive struct/tuple/enum field-access
// and discriminant-read operation every ADT layout lowers to.
type ByteAccessNode struct {
	Result     ir.TempId
	Base       Place
	ByteOffset int
	Ty         types.Type
}

func (*ByteAccessNode) nodeKind() {}

// TyCastKind distinguishes the two integer-width coercions the emission
// contract allows (spec §4.4, "get_operand_from_visit_result" step 4).
type TyCastKind int

const (
	Sext TyCastKind = iota
	Trunc
)

// TyCastNode widens or narrows Operand from FromTy to ToTy into Result.
// Same-width signed/unsigned swaps never reach this node (spec §4.4: they
// are "no-ops on the SSA value").
type TyCastNode struct {
	Result  ir.TempId
	Kind    TyCastKind
	FromTy  types.Type
	ToTy    types.Type
	Operand Operand
}

func (*TyCastNode) nodeKind() {}
