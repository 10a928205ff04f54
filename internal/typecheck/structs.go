package typecheck

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/types"
)

// checkStructLit types `Name { f: v, ... }`: every provided field must name
// a real field with a loosely-equal value type, and every declared field
// must be provided.
func (w *walker) checkStructLit(n *ast.StructLitExpr) types.Type {
	def, ok := w.res.UseDefs[n.ID()]
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined name %q", n.Name)
		for _, f := range n.Fields {
			w.checkExpr(f.Value)
		}
		return types.Unknown
	}
	nb, ok := w.res.Bindings[def]
	if !ok || nb.Kind != types.BindAdt || nb.Adt.Kind != types.AdtStruct {
		w.diags.Addf(diagnostics.ErrInvalidStruct, w.spanOf(n), "%q is not a struct", n.Name)
		for _, f := range n.Fields {
			w.checkExpr(f.Value)
		}
		return types.Unknown
	}

	provided := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		fsym := w.syms.Intern(f.Name)
		vt := w.derefValue(w.checkExpr(f.Value))

		var match *types.StructField
		for i := range nb.Adt.StructFields {
			if nb.Adt.StructFields[i].Def.Symbol == fsym {
				match = &nb.Adt.StructFields[i]
				break
			}
		}
		if match == nil {
			w.diags.Addf(diagnostics.ErrUndefinedStructField, w.spanOf(n), "%q has no field %q", n.Name, f.Name)
			continue
		}
		provided[f.Name] = true
		if !w.looseEq(match.Type, vt) {
			w.diags.Addf(diagnostics.ErrMismatchedFieldTypes, w.spanOf(n), "field %q: expected %s, got %s", f.Name, match.Type, vt)
		}
	}
	for i := range nb.Adt.StructFields {
		if !provided[w.syms.Get(nb.Adt.StructFields[i].Def.Symbol)] {
			w.diags.Addf(diagnostics.ErrInvalidStruct, w.spanOf(n), "missing field in %q literal", n.Name)
		}
	}
	return w.tyIn.Adt(def)
}

// checkField types `x.f` as a place: a StackPtr to the field, carrying the
// receiver's mutability (spec §4.3).
func (w *walker) checkField(n *ast.FieldExpr) types.Type {
	xt := w.checkExpr(n.X)
	adtDef, ok := w.adtDefOf(xt)
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedStructField, w.spanOf(n), "%q is not a struct value", n.Field)
		return types.Unknown
	}
	nb, ok := w.res.Bindings[adtDef]
	if !ok || nb.Kind != types.BindAdt || nb.Adt.Kind != types.AdtStruct {
		w.diags.Addf(diagnostics.ErrUndefinedStructField, w.spanOf(n), "%q is not a struct value", n.Field)
		return types.Unknown
	}
	fsym := w.syms.Intern(n.Field)
	for i := range nb.Adt.StructFields {
		if nb.Adt.StructFields[i].Def.Symbol == fsym {
			return w.tyIn.StackPtr(nb.Adt.StructFields[i].Type, w.mutOf(xt))
		}
	}
	w.diags.Addf(diagnostics.ErrUndefinedStructField, w.spanOf(n), "no field %q", n.Field)
	return types.Unknown
}

// checkTupleField types `x.0` as a place: a StackPtr to the tuple element.
func (w *walker) checkTupleField(n *ast.TupleFieldExpr) types.Type {
	xt := w.checkExpr(n.X)
	vt := w.derefValue(xt)
	if vt.Kind() != types.KTuple {
		w.diags.Addf(diagnostics.ErrInvalidTuple, w.spanOf(n), "tuple-field access on a non-tuple value")
		return types.Unknown
	}
	elems := vt.Elems()
	if n.Index < 0 || n.Index >= len(elems) {
		w.diags.Addf(diagnostics.ErrTupleAccessOutOfBounds, w.spanOf(n), "tuple index %d out of bounds (len %d)", n.Index, len(elems))
		return types.Unknown
	}
	return w.tyIn.StackPtr(elems[n.Index], w.mutOf(xt))
}

// checkIndex types `x[i]`: x must be a ManyPtr; i must be integer-typed.
// There is no enumerated error kind for "not indexable" (spec §4.3 only
// lists tuple/struct/binary/call/assignment/control-flow errors), so an
// ill-typed base best-effort-recovers to Unknown without a diagnostic,
// per the local-recovery rule (spec §7) rather than misreporting under an
// unrelated kind.
func (w *walker) checkIndex(n *ast.IndexExpr) types.Type {
	xt := w.checkExpr(n.X)
	it := w.derefValue(w.checkExpr(n.Index))
	if !it.IsInt() {
		w.diags.Addf(diagnostics.ErrBinaryExprTypeError, w.spanOf(n.Index), "index must be an integer, got %s", it)
	}
	vt := w.derefValue(xt)
	if vt.Kind() == types.KManyPtr {
		return w.tyIn.StackPtr(vt.Elem(), vt.Mut())
	}
	return types.Unknown
}
