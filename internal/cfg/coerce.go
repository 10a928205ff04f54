package cfg

import (
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// getOperand implements the emission contract's
// get_operand_from_visit_result (spec §4.4): it turns res into an Operand
// of exactly expectedTy, emitting Load/TyCast nodes as needed.
func (b *fnBuilder) getOperand(res exprResult, expectedTy types.Type) Operand {
	if res.isConst {
		if res.ty == expectedTy {
			return ConstOperand(res.constVal)
		}
		if casted, ok := b.tryIntCast(ConstOperand(res.constVal), res.ty, expectedTy); ok {
			return casted
		}
		return ConstOperand(res.constVal)
	}

	cur := res.place
	ty := res.ty
	if cur.Kind == PlaceTemp && ty == expectedTy {
		return PlaceOperand(cur)
	}

	for ty != expectedTy {
		switch ty.Kind() {
		case types.KStackPtr, types.KPtr, types.KManyPtr:
			t := b.newTemp()
			b.push(&LoadNode{Result: t, From: cur, Ty: ty.Elem()})
			cur = TempPlace(t)
			ty = ty.Elem()
		default:
			if casted, ok := b.tryIntCast(PlaceOperand(cur), ty, expectedTy); ok {
				return casted
			}
			b.diags.Addf(diagnostics.ErrInternal, diagnostics.Span{}, "cfg: cannot coerce %s to %s", ty, expectedTy)
			return PlaceOperand(cur)
		}
	}
	return PlaceOperand(cur)
}

// tryIntCast implements step 4 of the emission contract: integer width
// mismatches become a Sext (widening) or Trunc (narrowing) TyCastNode;
// same-width signed/unsigned swaps need no node at all (spec §4.4).
func (b *fnBuilder) tryIntCast(op Operand, from, to types.Type) (Operand, bool) {
	if !from.IsInt() || !to.IsInt() {
		return Operand{}, false
	}
	if from.IntWidth() == to.IntWidth() {
		return op, true
	}
	kind := Sext
	if from.IntWidth() > to.IntWidth() {
		kind = Trunc
	}
	t := b.newTemp()
	b.push(&TyCastNode{Result: t, Kind: kind, FromTy: from, ToTy: to, Operand: op})
	return PlaceOperand(TempPlace(t)), true
}

// derefValue peels one StackPtr wrapper off t, the CFG-builder analogue of
// typecheck's rule that place expressions carry StackPtr(T, m) (spec
// §4.3/§4.4).
func derefValue(t types.Type) types.Type {
	if t.Kind() == types.KStackPtr {
		return t.Elem()
	}
	return t
}

// mutOf reports the mutability carried by a place-or-pointer type, Immutable
// for anything else, mirroring typecheck's mutOf.
func mutOf(t types.Type) ir.Mutability {
	switch t.Kind() {
	case types.KStackPtr, types.KPtr, types.KManyPtr:
		return t.Mut()
	default:
		return ir.Immutable
	}
}

// adtDefOf peels StackPtr/Ptr/ManyPtr wrappers off t looking for an Adt
// payload.
func adtDefOf(t types.Type) (ir.DefId, bool) {
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

// unifyArith mirrors typecheck's arithmetic-unification rule (spec §4.3):
// the wider operand's width wins; float dominates int; equal widths keep
// the left operand's type. Type checking already rejected anything this
// can't resolve, so the builder only needs the success path.
func unifyArith(a, b types.Type) types.Type {
	switch {
	case a.IsFloat() && b.IsFloat():
		if a == types.Float64 || b == types.Float64 {
			return types.Float64
		}
		return types.Float32
	case a.IsFloat():
		return a
	case b.IsFloat():
		return b
	default:
		if a.IntWidth() >= b.IntWidth() {
			return a
		}
		return b
	}
}
