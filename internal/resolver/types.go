package resolver

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// primitiveTypes maps every reserved type-name identifier to its Type
// (spec §4.2, "Reserved names map to their primitive types"). `int`/`uint`
// default to the 32-bit width, matching original_source's untyped-width
// names.
var primitiveTypes = map[string]types.Type{
	"int":     types.Int32,
	"int8":    types.Int8,
	"int16":   types.Int16,
	"int32":   types.Int32,
	"int64":   types.Int64,
	"uint":    types.Uint32,
	"uint8":   types.Uint8,
	"uint16":  types.Uint16,
	"uint32":  types.Uint32,
	"uint64":  types.Uint64,
	"float":   types.Float64,
	"float32": types.Float32,
	"float64": types.Float64,
	"bool":    types.Bool,
	"str":     types.Str,
	"void":    types.Void,
}

// materialize resolves a type expression to a Type, recording it in
// TypeExprs (spec §4.2, "Type materialization from a type expression").
// kind gates whether pointer constructors are legal here; implDef is the
// enclosing impl's implementor DefId, used to resolve `Self` (zero value
// when not inside an impl).
func (w *walker) materialize(t ast.TypeExpr, kind ItemKind, implDef ir.DefId, hasImpl bool) types.Type {
	if t == nil {
		return types.Void
	}
	var ty types.Type
	switch n := t.(type) {
	case *ast.IdentTypeExpr:
		ty = w.materializeIdent(n, hasImpl, implDef)
	case *ast.PtrTypeExpr:
		if kind == ItemNormal {
			w.diags.Addf(diagnostics.ErrRejectedPointerInRestrictedItem, w.spanOf(n),
				"pointer types are not allowed here; only `.C` functions and `declare fn` may use them")
		}
		elem := w.materialize(n.Elem, kind, implDef, hasImpl)
		ty = w.tyIn.Ptr(elem, n.Mut)
	case *ast.ManyPtrTypeExpr:
		if kind == ItemNormal {
			w.diags.Addf(diagnostics.ErrRejectedPointerInRestrictedItem, w.spanOf(n),
				"pointer types are not allowed here; only `.C` functions and `declare fn` may use them")
		}
		elem := w.materialize(n.Elem, kind, implDef, hasImpl)
		ty = w.tyIn.ManyPtr(elem, ir.Immutable)
	case *ast.TupleTypeExpr:
		elems := make([]types.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = w.materialize(e, kind, implDef, hasImpl)
		}
		ty = w.tyIn.Tuple(elems)
	case *ast.FnTypeExpr:
		args := make([]types.Type, len(n.Params))
		for i, p := range n.Params {
			args[i] = w.materialize(p, kind, implDef, hasImpl)
		}
		ret := types.Void
		if n.Ret != nil {
			ret = w.materialize(n.Ret, kind, implDef, hasImpl)
		}
		ty = w.tyIn.FnSig(args, ret)
	case *ast.VariadicTypeExpr:
		ty = types.VariadicArg
	default:
		ty = types.Unknown
	}
	w.result.setTypeExpr(t.ID(), ty)
	return ty
}

// materializeIdent resolves a bare identifier used as a type: a reserved
// primitive name, `Self` inside an impl, or a user ADT name looked up at
// package scope.
func (w *walker) materializeIdent(n *ast.IdentTypeExpr, hasImpl bool, implDef ir.DefId) types.Type {
	if prim, ok := primitiveTypes[n.Name]; ok {
		return prim
	}
	if n.Name == "Self" {
		if hasImpl {
			w.result.setUse(n.ID(), implDef)
			return w.tyIn.Adt(implDef)
		}
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "`Self` used outside an impl block")
		return types.Unknown
	}
	sym := w.syms.Intern(n.Name)
	def, ok := w.merged.Bindings[ir.LexicalBinding{Context: ir.PackageContext, Symbol: sym, Kind: ir.ResAdt}]
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined type %q", n.Name)
		return types.Unknown
	}
	w.result.setUse(n.ID(), def)
	return w.tyIn.Adt(def)
}
