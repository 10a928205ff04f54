package typecheck

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// checkBinary types an arithmetic or comparison expression (spec §4.3:
// "Comparisons return Bool"; "arithmetic unifies to the largest operand
// type").
func (w *walker) checkBinary(n *ast.BinaryExpr) types.Type {
	lt := w.derefValue(w.checkExpr(n.Left))
	rt := w.derefValue(w.checkExpr(n.Right))

	if n.Op.IsComparison() {
		switch n.Op {
		case ast.Eq, ast.Ne:
			if !w.looseEq(lt, rt) {
				w.diags.Addf(diagnostics.ErrBinaryExprTypeError, w.spanOf(n), "cannot compare %s and %s", lt, rt)
			}
		default:
			if !((lt.IsInt() || lt.IsFloat()) && (rt.IsInt() || rt.IsFloat())) {
				w.diags.Addf(diagnostics.ErrBinaryExprTypeError, w.spanOf(n), "ordering comparison requires numeric operands, got %s and %s", lt, rt)
			}
		}
		return types.Bool
	}

	unified, ok := w.unifyArith(lt, rt)
	if !ok {
		w.diags.Addf(diagnostics.ErrBinaryExprTypeError, w.spanOf(n), "operator %s requires numeric operands, got %s and %s", n.Op, lt, rt)
		return types.Unknown
	}
	return unified
}

// checkBreak types `break [e]`, unifying every break's value within one
// loop against the first one seen (spec §4.3, §4.4).
func (w *walker) checkBreak(n *ast.BreakExpr) types.Type {
	if len(w.loopStack) == 0 {
		w.diags.Addf(diagnostics.ErrBreakOutsideLoop, w.spanOf(n), "break outside loop")
		if n.Value != nil {
			w.checkExpr(n.Value)
		}
		return types.Never
	}
	vt := types.Void
	if n.Value != nil {
		vt = w.derefValue(w.checkExpr(n.Value))
	}
	frame := &w.loopStack[len(w.loopStack)-1]
	if !frame.hasValue {
		frame.hasValue = true
		frame.typ = vt
	} else if !w.looseEq(frame.typ, vt) {
		w.diags.Addf(diagnostics.ErrBreakTypeError, w.spanOf(n), "break value type mismatch: expected %s, got %s", frame.typ, vt)
	}
	return types.Never
}

// checkReturn types `return [e]` against the enclosing function's return
// type. Every ReturnExpr in a well-formed program is reachable only from
// inside a function body (the grammar allows it nowhere else), so the
// outside-fn branch is a defensive check rather than one any valid program
// can reach.
func (w *walker) checkReturn(n *ast.ReturnExpr) types.Type {
	vt := types.Void
	if n.Value != nil {
		vt = w.derefValue(w.checkExpr(n.Value))
	}
	if !w.inFn {
		w.diags.Addf(diagnostics.ErrReturnOutsideFn, w.spanOf(n), "return outside function")
		return types.Never
	}
	if !w.looseEq(w.curFnRet, vt) {
		w.diags.Addf(diagnostics.ErrMismatchedReturnTypes, w.spanOf(n), "return type mismatch: expected %s, got %s", w.curFnRet, vt)
	}
	return types.Never
}

// checkIf types `if c {A} [elif c {A}]* [else {B}]`: every condition must
// be Bool-coercible; every branch's value must agree under loose equality
// (spec §4.3). There is no dedicated "if-branch mismatch" kind in the
// enumerated error list, so a branch disagreement reuses
// MismatchedReturnTypes — the same "value must match its expected type"
// family spec §4.3 groups if/loop/return agreement under.
func (w *walker) checkIf(n *ast.IfExpr) types.Type {
	result := types.Void
	seen := false
	unify := func(t types.Type, span diagnostics.Span) {
		if !seen {
			result, seen = t, true
			return
		}
		if !w.looseEq(result, t) {
			w.diags.Addf(diagnostics.ErrMismatchedReturnTypes, span, "if-branch type mismatch: expected %s, got %s", result, t)
		}
	}
	for _, br := range n.Branches {
		ct := w.derefValue(w.checkExpr(br.Cond))
		if ct != types.Bool {
			w.diags.Addf(diagnostics.ErrExpectedBoolExpr, w.spanOf(br.Cond), "condition must be bool, got %s", ct)
		}
		unify(w.checkBlock(br.Body), w.spanOf(br.Body))
	}
	if n.Else != nil {
		unify(w.checkBlock(n.Else), w.spanOf(n.Else))
	} else {
		result = types.Void
	}
	return result
}

// checkIfLet types `if let P = E {A} [else {B}]` (spec §4.3, §4.4): E must
// be an enum value whose variant matches P's head; P's sub-patterns bind
// new variables of the variant's field types, visible in A.
func (w *walker) checkIfLet(n *ast.IfLetExpr) types.Type {
	vt := w.checkExpr(n.Value)
	adtDef, isAdt := w.adtDefOf(vt)
	enumNb, hasEnum := w.res.Bindings[adtDef]
	if !isAdt || !hasEnum || enumNb.Kind != types.BindAdt || enumNb.Adt.Kind != types.AdtEnum {
		w.diags.Addf(diagnostics.ErrInvalidStruct, w.spanOf(n.Value), "if-let scrutinee is not an enum value")
	} else {
		w.checkIfLetPattern(n.Pattern, adtDef)
	}

	thenT := w.checkBlock(n.Then)
	if n.Else == nil {
		return types.Void
	}
	elseT := w.checkBlock(n.Else)
	if !w.looseEq(thenT, elseT) {
		w.diags.Addf(diagnostics.ErrMismatchedReturnTypes, w.spanOf(n.Else), "if-let branch type mismatch: expected %s, got %s", thenT, elseT)
	}
	return thenT
}

// checkIfLetPattern matches a TupleStructPat's already-resolved variant
// (resolver recorded it in UseDefs) against enumDef and binds each
// IdentPat sub-pattern to its field's Type.
func (w *walker) checkIfLetPattern(p ast.Pattern, enumDef ir.DefId) {
	ts, ok := p.(*ast.TupleStructPat)
	if !ok {
		return
	}
	variantDef, ok := w.res.UseDefs[ts.ID()]
	if !ok {
		return
	}
	vnb, ok := w.res.Bindings[variantDef]
	if !ok || vnb.Kind != types.BindAdt || vnb.Adt.Kind != types.AdtEnumVariant || vnb.Adt.EnumDef != enumDef {
		w.diags.Addf(diagnostics.ErrInvalidStruct, w.spanOf(ts), "pattern does not match the scrutinee's enum")
		return
	}
	for i, sub := range ts.SubPats {
		if i >= len(vnb.Adt.VariantFields) {
			continue
		}
		ip, ok := sub.(*ast.IdentPat)
		if !ok {
			continue
		}
		if def, ok := w.merged.Defs[ip.ID()]; ok {
			w.result.setVarType(def, vnb.Adt.VariantFields[i])
		}
	}
}

// checkLoop types `loop { ... }`: its value, if any break carries one, is
// the unified type of every break inside it; Void otherwise.
func (w *walker) checkLoop(n *ast.LoopExpr) types.Type {
	w.loopStack = append(w.loopStack, loopFrame{})
	w.checkBlock(n.Body)
	frame := w.loopStack[len(w.loopStack)-1]
	w.loopStack = w.loopStack[:len(w.loopStack)-1]
	if frame.hasValue {
		return frame.typ
	}
	return types.Void
}
