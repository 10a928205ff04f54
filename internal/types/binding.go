package types

import "github.com/viskum-lang/viskumc/internal/ir"

// NameBindingKind discriminates what a DefId is bound to (spec §3,
// "Name Bindings"). Exactly one field is meaningful per Kind; this mirrors
// original_source's `NameBindingKind` enum as a discriminated struct per
// spec §9 ("Sum types ... implement as a discriminated struct").
type NameBindingKind int

const (
	BindVariable NameBindingKind = iota
	BindFn
	BindAdt
	BindPkg
	BindConstStr
)

// StructField is one (DefId, Type) pair of a struct's field list, in
// declaration order.
type StructField struct {
	Def  ir.DefId
	Type Type
}

// AdtKind discriminates struct / enum / enum-variant / typedef (spec §3,
// "Adt").
type AdtKind int

const (
	AdtStruct AdtKind = iota
	AdtEnum
	AdtEnumVariant
	AdtTypedef
)

// Adt is the payload of a BindAdt NameBinding.
type Adt struct {
	Kind AdtKind

	// AdtStruct
	StructFields []StructField

	// AdtEnum
	Variants []ir.DefId

	// AdtEnumVariant
	EnumDef       ir.DefId
	VariantIndex  int
	VariantFields []Type

	// AdtTypedef
	Underlying Type
}

// NameBinding is what a DefId resolves to, produced once by the resolver
// and never mutated afterward (spec §3, "Lifecycle").
type NameBinding struct {
	Kind NameBindingKind

	// BindVariable
	Mut ir.Mutability

	// BindFn
	Sig        Type // Kind() == KFnSig
	HasSelf    ir.HasSelfArg
	Externism  ir.Externism

	// BindAdt
	Adt Adt

	// BindConstStr
	StrLen int
}

func (nb NameBinding) ResKind() ir.ResKind {
	switch nb.Kind {
	case BindVariable:
		return ir.ResVariable
	case BindFn:
		return ir.ResFn
	case BindAdt:
		return ir.ResAdt
	case BindConstStr:
		return ir.ResConstStr
	default:
		return ir.ResVariable
	}
}
