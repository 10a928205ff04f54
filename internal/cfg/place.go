// Package cfg implements pass 4 (spec §4.4): it lowers a resolved,
// type-checked function body into a control flow graph of basic blocks
// containing typed nodes, and assembles the package's functions into one
// Icfg alongside its extern and const-string tables. Grounded on
// original_source/src/icfg/src/icfg_v2.rs for the node/place vocabulary and
// original_source/src/icfg_builder/src/lib.rs for lowering and the
// get_operand_from_visit_result coercion contract, generalized from the
// Rust arena-of-enums shape into a Go interface-of-concrete-node-structs
// shape matching how package ast represents its own node set.
package cfg

import (
	"fmt"

	"github.com/viskum-lang/viskumc/internal/ir"
)

// PlaceKind discriminates the three storage kinds a Place can name (spec
// §4.4, "Places").
type PlaceKind int

const (
	PlaceTemp PlaceKind = iota
	PlaceLocal
	PlaceResult
)

// Place names one storage location: an SSA-like temporary, an explicit
// stack-allocated local, or the implicit result storage of an if/tuple/
// struct-valued expression.
type Place struct {
	Kind   PlaceKind
	Temp   ir.TempId
	Local  ir.LocalMemId
	Result ir.ResultMemId
}

func TempPlace(id ir.TempId) Place     { return Place{Kind: PlaceTemp, Temp: id} }
func LocalPlace(id ir.LocalMemId) Place { return Place{Kind: PlaceLocal, Local: id} }
func ResultPlace(id ir.ResultMemId) Place { return Place{Kind: PlaceResult, Result: id} }

func (p Place) String() string {
	switch p.Kind {
	case PlaceTemp:
		return fmt.Sprintf("%%t%d", p.Temp)
	case PlaceLocal:
		return fmt.Sprintf("%%local%d", p.Local)
	case PlaceResult:
		return fmt.Sprintf("%%result%d", p.Result)
	default:
		return "%?"
	}
}

// ConstKind discriminates the closed set of constant operand shapes (spec
// §4.4, "Operand").
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstNull
	ConstVoid
	ConstFnPtr
	ConstStr
)

// Const is a compile-time-known operand value: an integer (carrying its
// bit width for emission), a float, a bool, null, void, a function pointer
// (by the function's DefId) or an interned string (by its const-string
// DefId). ConstFloat supplements spec §4.4's listed constant shapes — float
// literals need a constant representation too, and Void/Null/FnPtr/Str
// already establish the by-DefId-or-raw-value pattern it follows.
type Const struct {
	Kind       ConstKind
	IntValue   int64
	IntWidth   int
	FloatValue float64
	BoolVal    bool
	Def        ir.DefId
}

func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("%d", c.IntValue)
	case ConstFloat:
		return fmt.Sprintf("%g", c.FloatValue)
	case ConstBool:
		return fmt.Sprintf("%t", c.BoolVal)
	case ConstNull:
		return "null"
	case ConstVoid:
		return "void"
	case ConstFnPtr:
		return fmt.Sprintf("fnptr(%v)", c.Def)
	case ConstStr:
		return fmt.Sprintf("str(%v)", c.Def)
	default:
		return "?"
	}
}

// OperandKind discriminates whether an Operand names a Place or carries a
// Const directly.
type OperandKind int

const (
	OperandPlace OperandKind = iota
	OperandConst
)

// Operand is the value half of every node: either a place to read from or
// a constant baked into the instruction (spec §4.4, "Operand").
type Operand struct {
	Kind  OperandKind
	Place Place
	Const Const
}

func PlaceOperand(p Place) Operand { return Operand{Kind: OperandPlace, Place: p} }
func ConstOperand(c Const) Operand { return Operand{Kind: OperandConst, Const: c} }

func (o Operand) String() string {
	if o.Kind == OperandConst {
		return o.Const.String()
	}
	return o.Place.String()
}
