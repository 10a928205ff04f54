package typecheck

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// checkCall types a call expression: method calls (`x.m(...)`) are tried
// first since their callee is a FieldExpr that would otherwise be
// misread as plain field access; everything else evaluates its callee
// normally and dispatches on the resulting marker type.
func (w *walker) checkCall(n *ast.CallExpr) types.Type {
	if field, ok := n.Callee.(*ast.FieldExpr); ok {
		if t, handled := w.tryMethodCall(n, field); handled {
			return t
		}
	}
	calleeType := w.checkExpr(n.Callee)
	return w.checkCallOnType(n, calleeType)
}

// tryMethodCall attempts `x.m(...)` dispatch via the TraitImplId registry
// (spec §4.3, "Method call via x.m(...) finds m in the
// TraitImplId(adt_def_id, None) table; the receiver argument is the
// dereffed lhs"). Returns handled=false when field.X isn't an Adt-rooted
// receiver or m isn't one of its methods, so the caller can fall back to
// ordinary field access.
func (w *walker) tryMethodCall(n *ast.CallExpr, field *ast.FieldExpr) (types.Type, bool) {
	recvType := w.checkExpr(field.X)
	adtDef, ok := w.adtDefOf(recvType)
	if !ok {
		return types.Unknown, false
	}
	implID := ir.TraitImplId{Implementor: adtDef}
	msym := w.syms.Intern(field.Field)
	for _, mdef := range w.res.Impls[implID] {
		if mdef.Symbol != msym {
			continue
		}
		nb, ok := w.res.Bindings[mdef]
		if !ok || nb.Kind != types.BindFn {
			continue
		}
		args := nb.Sig.Args()
		rest := args
		if nb.HasSelf && len(args) > 0 {
			rest = args[1:]
		}
		w.checkArgList(n, n.Args, rest)
		w.result.setNodeType(field.ID(), nb.Sig)
		return nb.Sig.Ret(), true
	}
	return types.Unknown, false
}

// checkCallOnType dispatches a call whose callee has already been typed:
// an FnDef marker calls a free function/method value; an AdtConstructor
// marker referring to an enum variant constructs that variant.
func (w *walker) checkCallOnType(n *ast.CallExpr, calleeType types.Type) types.Type {
	switch calleeType.Kind() {
	case types.KFnDef:
		nb, ok := w.res.Bindings[calleeType.Def()]
		if ok && nb.Kind == types.BindFn {
			w.checkArgList(n, n.Args, nb.Sig.Args())
			return nb.Sig.Ret()
		}
	case types.KAdtConstructor:
		def := calleeType.Def()
		nb, ok := w.res.Bindings[def]
		if ok && nb.Kind == types.BindAdt && nb.Adt.Kind == types.AdtEnumVariant {
			w.checkArgList(n, n.Args, nb.Adt.VariantFields)
			w.result.setConstructor(n.ID(), def)
			return w.tyIn.Adt(nb.Adt.EnumDef)
		}
	}
	w.diags.Addf(diagnostics.ErrNotCallable, w.spanOf(n), "value is not callable")
	for _, a := range n.Args {
		w.checkExpr(a)
	}
	return types.Unknown
}

// checkArgList matches call arguments against a parameter-type list,
// respecting a trailing VariadicArgs sentinel that matches any tail (spec
// §4.3, "VariadicArgs arguments are checked only for the fixed prefix; the
// tail is accepted as-is").
func (w *walker) checkArgList(n ast.Node, args []ast.Expr, params []types.Type) {
	variadic := len(params) > 0 && params[len(params)-1].Kind() == types.KVariadicArgs
	fixed := params
	if variadic {
		fixed = params[:len(params)-1]
	}
	if len(args) < len(fixed) {
		w.diags.Addf(diagnostics.ErrMissingArg, w.spanOf(n), "missing argument(s): expected %d, got %d", len(fixed), len(args))
	} else if !variadic && len(args) > len(fixed) {
		w.diags.Addf(diagnostics.ErrMissingArg, w.spanOf(n), "too many arguments: expected %d, got %d", len(fixed), len(args))
	}

	checked := len(args)
	if checked > len(fixed) {
		checked = len(fixed)
	}
	for i := range checked {
		at := w.derefValue(w.checkExpr(args[i]))
		if !w.looseEq(at, fixed[i]) {
			w.diags.Addf(diagnostics.ErrMismatchedFieldTypes, w.spanOf(args[i]), "argument %d: expected %s, got %s", i+1, fixed[i], at)
		}
	}
	for i := checked; i < len(args); i++ {
		w.checkExpr(args[i])
	}
}
