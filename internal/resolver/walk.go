package resolver

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/types"
)

// walker resolves one file against the package-wide merged pre-resolution
// state. implDef/hasImpl track the enclosing impl block (for `Self` and for
// the self-argument's mutability), reset on entry/exit of each ImplItem.
type walker struct {
	merged *preresolver.Merged
	syms   *symbols.Interner
	diags  *diagnostics.Bag
	result *Result
	tyIn   *types.Interner

	hasImpl bool
	implDef ir.DefId
}

func (w *walker) spanOf(n ast.Node) diagnostics.Span { return diagnostics.SpanOf(n.Tok()) }

// lexCtxOf fetches the LexicalContext the pre-resolver recorded for a
// use-site node. Every node this is called on was visited by the
// pre-resolver's walkTypeExpr/recordUse, so it is always present.
func (w *walker) lexCtxOf(n ast.Node) ir.LexicalContext {
	return w.merged.Uses[n.ID()]
}

func (w *walker) walkProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		w.walkItem(item)
	}
}

func (w *walker) walkItem(item ast.Item) {
	switch n := item.(type) {
	case *ast.FnItem:
		if n.ImplTarget == "" {
			w.walkTopLevelFn(n)
		}
		// Methods (ImplTarget != "") are resolved by walkImplItem itself;
		// top-level dispatch only handles free fns.
	case *ast.DeclareFnItem:
		w.walkDeclareFn(n)
	case *ast.StructItem:
		w.walkStruct(n)
	case *ast.EnumItem:
		w.walkEnum(n)
	case *ast.TypedefItem:
		w.walkTypedef(n)
	case *ast.ImplItem:
		w.walkImplItem(n)
	}
}

// fnSig builds a function's FnSig type and, as a side effect, registers a
// BindVariable NameBinding for every parameter (self included) — spec
// §4.2 step 3: "The self argument becomes a variable binding with the
// correct mutability derived from its form (self, *self, mut self,
// *mut self -> Ptr/MutPtr of the implementor)".
func (w *walker) fnSig(n *ast.FnItem, kind ItemKind) (types.Type, ir.HasSelfArg, ir.Mutability) {
	var args []types.Type
	hasSelf := ir.HasSelfArg(false)
	selfMut := ir.Immutable
	for i := range n.Params {
		p := &n.Params[i]
		if p.IsSelf {
			hasSelf = true
			selfMut = ir.Immutable
			if p.SelfMut {
				selfMut = ir.Mutable
			}
			args = append(args, w.tyIn.Ptr(w.tyIn.Adt(w.implDef), selfMut))
			w.registerParamBinding(p, selfMut)
			continue
		}
		args = append(args, w.materialize(p.Type, kind, w.implDef, w.hasImpl))
		w.registerParamBinding(p, ir.Mutable)
	}
	ret := types.Void
	if n.Ret != nil {
		ret = w.materialize(n.Ret, kind, w.implDef, w.hasImpl)
	}
	return w.tyIn.FnSig(args, ret), hasSelf, selfMut
}

// registerParamBinding attaches a BindVariable NameBinding to a parameter's
// DefId. Plain parameters are always mutable local bindings (spec has no
// `mut`-qualified parameter form beyond the self receiver); self's
// mutability is the pointer mutability derived from its receiver form.
func (w *walker) registerParamBinding(p *ast.Param, mut ir.Mutability) {
	def, ok := w.merged.Defs[p.NodeID]
	if !ok {
		return
	}
	w.result.setBinding(def, &types.NameBinding{Kind: types.BindVariable, Mut: mut})
}

func (w *walker) itemKindOf(n *ast.FnItem) ItemKind {
	if n.IsCABI {
		return ItemC
	}
	return ItemNormal
}

// walkTopLevelFn resolves a free function's signature and body, claiming
// `main` via the shared MainSlot the instant it is recognized.
func (w *walker) walkTopLevelFn(n *ast.FnItem) {
	def, ok := w.merged.Defs[n.ID()]
	if !ok {
		return
	}
	sig, hasSelf, _ := w.fnSig(n, w.itemKindOf(n))
	externism := ir.ExternNone
	if n.IsCABI {
		externism = ir.ExternCLib
	}
	w.result.setBinding(def, &types.NameBinding{
		Kind: types.BindFn, Sig: sig, HasSelf: hasSelf, Externism: externism,
	})
	if n.IsMain {
		if !w.result.claimMain(def) {
			w.diags.Addf(diagnostics.ErrDuplicateMain, w.spanOf(n),
				"duplicate `main` function: the package already has one")
			w.result.addPending(def)
		}
	} else {
		w.result.addPending(def)
	}
	w.walkFnBody(n)
}

// walkDeclareFn resolves an extern-C prototype's signature. It has no body
// and is never appended to Pending — the CFG builder has nothing to lower.
func (w *walker) walkDeclareFn(n *ast.DeclareFnItem) {
	def, ok := w.merged.Defs[n.ID()]
	if !ok {
		return
	}
	args := make([]types.Type, len(n.Params))
	for i := range n.Params {
		args[i] = w.materialize(n.Params[i].Type, ItemC, ir.DefId{}, false)
	}
	if n.Variadic {
		args = append(args, types.VariadicArg)
	}
	ret := types.Void
	if n.Ret != nil {
		ret = w.materialize(n.Ret, ItemC, ir.DefId{}, false)
	}
	sig := w.tyIn.FnSig(args, ret)
	w.result.setBinding(def, &types.NameBinding{Kind: types.BindFn, Sig: sig, Externism: ir.ExternCLib})
}

func (w *walker) walkStruct(n *ast.StructItem) {
	def, ok := w.merged.Defs[n.ID()]
	if !ok {
		return
	}
	fields := make([]types.StructField, len(n.Fields))
	for i := range n.Fields {
		f := &n.Fields[i]
		fields[i] = types.StructField{Def: w.merged.Defs[f.NodeID], Type: w.materialize(f.Type, ItemNormal, ir.DefId{}, false)}
	}
	w.result.setBinding(def, &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtStruct, StructFields: fields},
	})
}

func (w *walker) walkEnum(n *ast.EnumItem) {
	def, ok := w.merged.Defs[n.ID()]
	if !ok {
		return
	}
	variantDefs := make([]ir.DefId, len(n.Variants))
	for i := range n.Variants {
		v := &n.Variants[i]
		vdef := w.merged.Defs[v.NodeID]
		variantDefs[i] = vdef

		fieldTypes := make([]types.Type, len(v.Fields))
		for j, f := range v.Fields {
			fieldTypes[j] = w.materialize(f, ItemNormal, ir.DefId{}, false)
		}
		w.result.setBinding(vdef, &types.NameBinding{
			Kind: types.BindAdt,
			Adt: types.Adt{
				Kind: types.AdtEnumVariant, EnumDef: def, VariantIndex: i, VariantFields: fieldTypes,
			},
		})
	}
	w.result.setBinding(def, &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtEnum, Variants: variantDefs},
	})
}

func (w *walker) walkTypedef(n *ast.TypedefItem) {
	def, ok := w.merged.Defs[n.ID()]
	if !ok {
		return
	}
	underlying := w.materialize(n.Type, ItemNormal, ir.DefId{}, false)
	w.result.setBinding(def, &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtTypedef, Underlying: underlying},
	})
}

// walkImplItem registers every method under the impl's TraitImplId and
// resolves `Self` within each method against the implementor (spec §4.2
// step 3; inherent impls only, so Trait is always nil).
func (w *walker) walkImplItem(n *ast.ImplItem) {
	sym := w.syms.Intern(n.Target)
	implDef, ok := w.merged.Bindings[ir.LexicalBinding{Context: ir.PackageContext, Symbol: sym, Kind: ir.ResAdt}]
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined type %q in impl block", n.Target)
		return
	}
	implID := ir.TraitImplId{Implementor: implDef}

	saveHas, saveDef := w.hasImpl, w.implDef
	w.hasImpl, w.implDef = true, implDef
	defer func() { w.hasImpl, w.implDef = saveHas, saveDef }()

	for _, m := range n.Methods {
		def, ok := w.merged.Defs[m.ID()]
		if !ok {
			continue
		}
		sig, hasSelf, _ := w.fnSig(m, w.itemKindOf(m))
		externism := ir.ExternNone
		if m.IsCABI {
			externism = ir.ExternCLib
		}
		w.result.setBinding(def, &types.NameBinding{
			Kind: types.BindFn, Sig: sig, HasSelf: hasSelf, Externism: externism,
		})
		w.result.addImplMethod(implID, def)
		w.result.addPending(def)
		w.walkFnBody(m)
	}
}

func (w *walker) walkFnBody(n *ast.FnItem) {
	for _, s := range n.Body {
		w.walkStmt(s)
	}
}

func (w *walker) walkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.DefineStmt:
		w.walkExpr(n.Value)
		if def, ok := w.merged.Defs[n.ID()]; ok {
			mut := ir.Immutable
			if n.Mut {
				mut = ir.Mutable
			}
			w.result.setBinding(def, &types.NameBinding{Kind: types.BindVariable, Mut: mut})
		}
	case *ast.AssignStmt:
		w.walkExpr(n.Target)
		w.walkExpr(n.Value)
	case *ast.ExprStmt:
		w.walkExpr(n.X)
	}
}

func (w *walker) resolveUse(n ast.Node, name string) {
	sym := w.syms.Intern(name)
	ctx := w.lexCtxOf(n)
	def, _, ok := resolveIdent(w.merged, ctx, sym)
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined name %q", name)
		return
	}
	w.result.setUse(n.ID(), def)
}

func (w *walker) walkExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.IntLitExpr, *ast.FloatLitExpr, *ast.BoolLitExpr, *ast.NullLitExpr, *ast.StringLitExpr, *ast.ContinueExpr:
		// leaves; StringLitExpr's DefId was already minted by the pre-resolver
	case *ast.IdentExpr:
		w.resolveUse(n, n.Name)
	case *ast.PathExpr:
		w.resolvePath(n)
	case *ast.CallExpr:
		w.walkExpr(n.Callee)
		for _, a := range n.Args {
			w.walkExpr(a)
		}
	case *ast.FieldExpr:
		w.walkExpr(n.X)
	case *ast.TupleFieldExpr:
		w.walkExpr(n.X)
	case *ast.IndexExpr:
		w.walkExpr(n.X)
		w.walkExpr(n.Index)
	case *ast.GroupExpr:
		w.walkExpr(n.X)
	case *ast.TupleExpr:
		for _, el := range n.Elems {
			w.walkExpr(el)
		}
	case *ast.StructLitExpr:
		w.resolveUse(n, n.Name)
		for _, f := range n.Fields {
			w.walkExpr(f.Value)
		}
	case *ast.BinaryExpr:
		w.walkExpr(n.Left)
		w.walkExpr(n.Right)
	case *ast.BreakExpr:
		w.walkExpr(n.Value)
	case *ast.ReturnExpr:
		w.walkExpr(n.Value)
	case *ast.BlockExpr:
		for _, s := range n.Stmts {
			w.walkStmt(s)
		}
	case *ast.IfExpr:
		for _, br := range n.Branches {
			w.walkExpr(br.Cond)
			for _, s := range br.Body.Stmts {
				w.walkStmt(s)
			}
		}
		if n.Else != nil {
			for _, s := range n.Else.Stmts {
				w.walkStmt(s)
			}
		}
	case *ast.IfLetExpr:
		w.walkExpr(n.Value)
		w.walkPattern(n.Pattern)
		for _, s := range n.Then.Stmts {
			w.walkStmt(s)
		}
		if n.Else != nil {
			for _, s := range n.Else.Stmts {
				w.walkStmt(s)
			}
		}
	case *ast.LoopExpr:
		for _, s := range n.Body.Stmts {
			w.walkStmt(s)
		}
	}
}

// resolvePath resolves a dotted identifier path. `pkg.x` looks the tail up
// directly in the package export table (spec §4.2); any other dotted path
// is an enum-qualified variant reference (`EnumName.Variant`), so only the
// head segment is resolved lexically — the typechecker matches the
// remaining segment against the resolved enum's variant list.
func (w *walker) resolvePath(n *ast.PathExpr) {
	if len(n.Segments) == 0 {
		return
	}
	if n.Segments[0] == "pkg" && len(n.Segments) == 2 {
		sym := w.syms.Intern(n.Segments[1])
		def, _, ok := resolvePkgMember(w.merged, sym)
		if !ok {
			w.diags.Addf(diagnostics.ErrNotAPackageMember, w.spanOf(n), "%q is not a package member", n.Segments[1])
			return
		}
		w.result.setUse(n.ID(), def)
		return
	}
	sym := w.syms.Intern(n.Segments[0])
	ctx := w.lexCtxOf(n)
	def, _, ok := resolveIdent(w.merged, ctx, sym)
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined name %q", n.Segments[0])
		return
	}
	w.result.setUse(n.ID(), def)
}

func (w *walker) walkPattern(p ast.Pattern) {
	switch n := p.(type) {
	case *ast.IdentPat:
		// Binding occurrence: nothing to resolve against, the pre-resolver
		// already minted this pattern's own DefId.
	case *ast.TupleStructPat:
		if len(n.Path) == 0 {
			return
		}
		sym := w.syms.Intern(n.Path[0])
		ctx := w.lexCtxOf(n)
		def, _, ok := resolveIdent(w.merged, ctx, sym)
		if !ok {
			w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined name %q", n.Path[0])
		} else {
			w.result.setUse(n.ID(), def)
		}
		for _, sub := range n.SubPats {
			w.walkPattern(sub)
		}
	}
}
