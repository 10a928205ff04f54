package typecheck

import (
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// smallestIntType returns the narrowest signed integer type (>= i8) that
// fits v (spec §3, "Integer-constant typing").
func smallestIntType(v int64) types.Type {
	switch {
	case v >= -128 && v <= 127:
		return types.Int8
	case v >= -32768 && v <= 32767:
		return types.Int16
	case v >= -2147483648 && v <= 2147483647:
		return types.Int32
	default:
		return types.Int64
	}
}

// derefValue peels one place wrapper (StackPtr) off t, turning a variable's
// place type into its value type (spec §4.3, "Place expressions evaluate to
// StackPtr(T, m) ... Value expressions evaluate to their value type").
func (w *walker) derefValue(t types.Type) types.Type {
	if t.Kind() == types.KStackPtr {
		return t.Elem()
	}
	return t
}

// mutOf reports the mutability carried by a place-or-pointer type, Immutable
// for anything else.
func (w *walker) mutOf(t types.Type) ir.Mutability {
	switch t.Kind() {
	case types.KStackPtr, types.KPtr, types.KManyPtr:
		return t.Mut()
	default:
		return ir.Immutable
	}
}

// adtDefOf peels StackPtr/Ptr/ManyPtr wrappers off t looking for an Adt
// payload, the receiver-type resolution every field access and method
// dispatch needs (spec §4.3, "Field access on a struct pointer...").
func (w *walker) adtDefOf(t types.Type) (ir.DefId, bool) {
	for range 4 {
		switch t.Kind() {
		case types.KAdt:
			return t.Def(), true
		case types.KStackPtr, types.KPtr, types.KManyPtr:
			t = t.Elem()
		default:
			return ir.DefId{}, false
		}
	}
	return ir.DefId{}, false
}

// unfoldAdt unwraps one level of typedef (spec §4.3, "loose type equality
// considers two types equal iff their expanded (Adt-unfolded...) forms are
// equal").
func (w *walker) unfoldAdt(t types.Type) types.Type {
	if t.Kind() != types.KAdt {
		return t
	}
	nb, ok := w.res.Bindings[t.Def()]
	if !ok || nb.Kind != types.BindAdt || nb.Adt.Kind != types.AdtTypedef {
		return t
	}
	return nb.Adt.Underlying
}

// looseEq is spec §4.3's loose type equality: once-deref'd, once-Adt-unfolded
// structural equality, with null assignable to/from any pointer-like type in
// either order. Unknown is accepted against anything to avoid cascading a
// single earlier mistake into many (spec §7, "local recovery rule").
func (w *walker) looseEq(a, b types.Type) bool {
	a = w.unfoldAdt(w.derefValue(a))
	b = w.unfoldAdt(w.derefValue(b))
	if a == b {
		return true
	}
	if a.Kind() == types.KUnknown || b.Kind() == types.KUnknown {
		return true
	}
	if a.Kind() == types.KNull && b.IsPtrLike() {
		return true
	}
	if b.Kind() == types.KNull && a.IsPtrLike() {
		return true
	}
	return false
}

// unifyArith computes spec §4.3's arithmetic unification: the larger
// operand's width wins; same-width operands preserve the left operand's
// signedness; float dominates int.
func (w *walker) unifyArith(a, b types.Type) (types.Type, bool) {
	a = w.derefValue(a)
	b = w.derefValue(b)
	switch {
	case a.IsFloat() && b.IsFloat():
		if a == types.Float64 || b == types.Float64 {
			return types.Float64, true
		}
		return types.Float32, true
	case a.IsFloat() && b.IsInt():
		return a, true
	case a.IsInt() && b.IsFloat():
		return b, true
	case a.IsInt() && b.IsInt():
		wa, wb := a.IntWidth(), b.IntWidth()
		switch {
		case wa > wb:
			return a, true
		case wb > wa:
			return b, true
		default:
			return a, true
		}
	default:
		return types.Unknown, false
	}
}
