package typecheck

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/types"
)

// loopFrame tracks the unified type of every `break e` seen so far inside
// one enclosing loop (spec §4.3, "loop-break values ... must agree with
// their expected type under loose equality").
type loopFrame struct {
	hasValue bool
	typ      types.Type
}

type walker struct {
	merged *preresolver.Merged
	res    *resolver.Result
	tyIn   *types.Interner
	syms   *symbols.Interner
	diags  *diagnostics.Bag
	result *Result

	inFn      bool
	curFnRet  types.Type
	loopStack []loopFrame
}

func (w *walker) spanOf(n ast.Node) diagnostics.Span { return diagnostics.SpanOf(n.Tok()) }

func (w *walker) walkProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		w.walkItem(item)
	}
}

func (w *walker) walkItem(item ast.Item) {
	switch n := item.(type) {
	case *ast.FnItem:
		if n.ImplTarget == "" {
			if def, ok := w.merged.Defs[n.ID()]; ok {
				w.checkFn(def, n)
			}
		}
	case *ast.ImplItem:
		for _, m := range n.Methods {
			if def, ok := w.merged.Defs[m.ID()]; ok {
				w.checkFn(def, m)
			}
		}
	}
	// DeclareFnItem/StructItem/EnumItem/TypedefItem have no body to check.
}

// checkFn types a function (or method) body: parameters (self included)
// get their Type from the already-resolved FnSig, positionally, since
// fnSig built args in the same order as n.Params (spec §4.2 step 3).
func (w *walker) checkFn(def ir.DefId, n *ast.FnItem) {
	nb, ok := w.res.Bindings[def]
	if !ok || nb.Kind != types.BindFn {
		return
	}
	args := nb.Sig.Args()
	for i := range n.Params {
		if i >= len(args) {
			break
		}
		p := &n.Params[i]
		if pdef, ok := w.merged.Defs[p.NodeID]; ok {
			w.result.setVarType(pdef, args[i])
		}
	}

	savedIn, savedRet, savedLoops := w.inFn, w.curFnRet, w.loopStack
	w.inFn = true
	w.curFnRet = nb.Sig.Ret()
	w.loopStack = nil

	for _, s := range n.Body {
		w.checkStmt(s)
	}

	w.inFn, w.curFnRet, w.loopStack = savedIn, savedRet, savedLoops
}

func (w *walker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.DefineStmt:
		vt := w.derefValue(w.checkExpr(n.Value))
		if def, ok := w.merged.Defs[n.ID()]; ok {
			w.result.setVarType(def, vt)
		}
	case *ast.AssignStmt:
		tt := w.checkExpr(n.Target)
		vt := w.checkExpr(n.Value)
		if tt.Kind() != types.KStackPtr || tt.Mut() != ir.Mutable {
			w.diags.Addf(diagnostics.ErrAssignmentToImmutable, w.spanOf(n), "left-hand side is not a mutable place")
		} else if !w.looseEq(tt.Elem(), vt) {
			w.diags.Addf(diagnostics.ErrMismatchedFieldTypes, w.spanOf(n), "assignment type mismatch: expected %s, got %s", tt.Elem(), vt)
		}
	case *ast.ExprStmt:
		w.checkExpr(n.X)
	}
}

// checkBlock types a block's statements and returns the trailing
// ExprStmt's value as the block's own value, Void otherwise — the value a
// block-expression contributes to an if/loop it is the body of.
func (w *walker) checkBlock(b *ast.BlockExpr) types.Type {
	t := types.Void
	if len(b.Stmts) == 0 {
		w.result.setNodeType(b.ID(), t)
		return t
	}
	for _, s := range b.Stmts[:len(b.Stmts)-1] {
		w.checkStmt(s)
	}
	last := b.Stmts[len(b.Stmts)-1]
	if es, ok := last.(*ast.ExprStmt); ok {
		t = w.checkExpr(es.X)
	} else {
		w.checkStmt(last)
	}
	w.result.setNodeType(b.ID(), t)
	return t
}

// checkExpr types one expression node and records its Type in NodeTypes
// (spec §8, testable property 2), regardless of which arm below produced
// it.
func (w *walker) checkExpr(e ast.Expr) types.Type {
	t := w.checkExprInner(e)
	w.result.setNodeType(e.ID(), t)
	return t
}

func (w *walker) checkExprInner(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.IntLitExpr:
		return smallestIntType(n.Value)
	case *ast.FloatLitExpr:
		return types.Float64
	case *ast.BoolLitExpr:
		return types.Bool
	case *ast.NullLitExpr:
		return types.Null
	case *ast.StringLitExpr:
		return types.Str
	case *ast.IdentExpr:
		return w.checkIdent(n)
	case *ast.PathExpr:
		return w.checkPath(n)
	case *ast.CallExpr:
		return w.checkCall(n)
	case *ast.FieldExpr:
		return w.checkField(n)
	case *ast.TupleFieldExpr:
		return w.checkTupleField(n)
	case *ast.IndexExpr:
		return w.checkIndex(n)
	case *ast.GroupExpr:
		return w.checkExpr(n.X)
	case *ast.TupleExpr:
		elems := make([]types.Type, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = w.derefValue(w.checkExpr(el))
		}
		return w.tyIn.Tuple(elems)
	case *ast.StructLitExpr:
		return w.checkStructLit(n)
	case *ast.BinaryExpr:
		return w.checkBinary(n)
	case *ast.BreakExpr:
		return w.checkBreak(n)
	case *ast.ContinueExpr:
		if len(w.loopStack) == 0 {
			w.diags.Addf(diagnostics.ErrBreakOutsideLoop, w.spanOf(n), "continue outside loop")
		}
		return types.Never
	case *ast.ReturnExpr:
		return w.checkReturn(n)
	case *ast.BlockExpr:
		return w.checkBlock(n)
	case *ast.IfExpr:
		return w.checkIf(n)
	case *ast.IfLetExpr:
		return w.checkIfLet(n)
	case *ast.LoopExpr:
		return w.checkLoop(n)
	}
	return types.Unknown
}

// identValueType computes the value a name reference yields, keyed by what
// kind of thing def is bound to: a Variable yields a place (StackPtr), a Fn
// yields an FnDef marker, an Adt name used bare yields an AdtConstructor
// marker, a const string yields Str directly.
func (w *walker) identValueType(def ir.DefId) types.Type {
	nb, ok := w.res.Bindings[def]
	if !ok {
		return types.Unknown
	}
	switch nb.Kind {
	case types.BindVariable:
		vt, ok := w.result.VarTypes[def]
		if !ok {
			vt = types.Unknown
		}
		return w.tyIn.StackPtr(vt, nb.Mut)
	case types.BindFn:
		return w.tyIn.FnDef(def)
	case types.BindAdt:
		return w.tyIn.AdtConstructor(def)
	case types.BindConstStr:
		return types.Str
	default:
		return types.Unknown
	}
}

func (w *walker) checkIdent(n *ast.IdentExpr) types.Type {
	def, ok := w.res.UseDefs[n.ID()]
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined name %q", n.Name)
		return types.Unknown
	}
	return w.identValueType(def)
}

// checkPath types a dotted path. `pkg.x` was fully resolved by the resolver
// (UseDefs holds the member's own DefId); any other 2-segment path is an
// enum-qualified variant reference where only the head was resolved
// lexically, so the tail is matched against the enum's variant list here.
func (w *walker) checkPath(n *ast.PathExpr) types.Type {
	def, ok := w.res.UseDefs[n.ID()]
	if !ok {
		w.diags.Addf(diagnostics.ErrUndefinedLookup, w.spanOf(n), "undefined path")
		return types.Unknown
	}
	if n.Segments[0] == "pkg" && len(n.Segments) == 2 {
		return w.identValueType(def)
	}
	if len(n.Segments) != 2 {
		return w.identValueType(def)
	}
	nb, ok := w.res.Bindings[def]
	if !ok || nb.Kind != types.BindAdt || nb.Adt.Kind != types.AdtEnum {
		return w.identValueType(def)
	}
	variantSym := w.syms.Intern(n.Segments[1])
	for _, vdef := range nb.Adt.Variants {
		if vdef.Symbol == variantSym {
			w.result.setConstructor(n.ID(), vdef)
			return w.tyIn.AdtConstructor(vdef)
		}
	}
	w.diags.Addf(diagnostics.ErrNotAPackageMember, w.spanOf(n), "%q has no variant %q", n.Segments[0], n.Segments[1])
	return types.Unknown
}
