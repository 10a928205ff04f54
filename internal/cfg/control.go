package cfg

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

func voidResult() exprResult { return constResult(Const{Kind: ConstVoid}, types.Void) }
func neverResult() exprResult { return constResult(Const{Kind: ConstVoid}, types.Never) }

// visitStmt lowers one statement. DefineStmt allocates a fresh LocalMem and
// emits a StoreInit; AssignStmt re-derives its target's place (already
// validated mutable and type-matching by pass 3) and emits a StoreAssign;
// ExprStmt evaluates and discards.
func (b *fnBuilder) visitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.DefineStmt:
		def, ok := b.merged.Defs[n.ID()]
		if !ok {
			b.visitExpr(n.Value)
			return
		}
		vt, ok := b.tc.VarTypes[def]
		if !ok {
			vt = derefValue(b.tc.NodeTypes[n.Value.ID()])
		}
		op := b.evalAs(n.Value, vt)
		local := b.newLocal(vt)
		b.defLocals[def] = local
		b.push(&StoreNode{Setter: LocalPlace(local), Value: op, Ty: vt, Kind: StoreInit})
	case *ast.AssignStmt:
		targetRes := b.visitExpr(n.Target)
		elemTy := derefValue(targetRes.ty)
		op := b.evalAs(n.Value, elemTy)
		b.push(&StoreNode{Setter: targetRes.place, Value: op, Ty: elemTy, Kind: StoreAssign})
	case *ast.ExprStmt:
		b.visitExpr(n.X)
	}
}

// visitBlockExpr lowers a block's statements and returns the trailing
// ExprStmt's value as the block's own value, Void otherwise — mirroring
// typecheck's checkBlock (spec §4.3).
func (b *fnBuilder) visitBlockExpr(blk *ast.BlockExpr) exprResult {
	if len(blk.Stmts) == 0 {
		return voidResult()
	}
	for _, s := range blk.Stmts[:len(blk.Stmts)-1] {
		b.visitStmt(s)
	}
	last := blk.Stmts[len(blk.Stmts)-1]
	if es, ok := last.(*ast.ExprStmt); ok {
		return b.visitExpr(es.X)
	}
	b.visitStmt(last)
	return voidResult()
}

// visitBinary lowers an arithmetic or comparison expression. Both operands
// are coerced to one unified operand type before the BinaryNode is emitted
// (spec §4.3's unifyArith, reused here since pass 3 already proved the
// operation well-typed).
func (b *fnBuilder) visitBinary(n *ast.BinaryExpr) exprResult {
	lRes := b.visitExpr(n.Left)
	rRes := b.visitExpr(n.Right)
	lVal := derefValue(lRes.ty)
	rVal := derefValue(rRes.ty)

	if n.Op.IsComparison() {
		opTy := lVal
		if lVal.IsInt() || lVal.IsFloat() {
			opTy = unifyArith(lVal, rVal)
		}
		lOp := b.getOperand(lRes, opTy)
		rOp := b.getOperand(rRes, opTy)
		t := b.newTemp()
		b.push(&BinaryNode{Result: t, Op: n.Op, Ty: opTy, Lhs: lOp, Rhs: rOp})
		return placeResult(TempPlace(t), types.Bool)
	}

	opTy := unifyArith(lVal, rVal)
	lOp := b.getOperand(lRes, opTy)
	rOp := b.getOperand(rRes, opTy)
	t := b.newTemp()
	b.push(&BinaryNode{Result: t, Op: n.Op, Ty: opTy, Lhs: lOp, Rhs: rOp})
	return placeResult(TempPlace(t), opTy)
}

// visitIf lowers `if c {A} [elif c {A}]* [else {B}]` as a chain of
// condition blocks, each branching to its own body or to the next
// condition/else slot, all bodies rejoining at a single end block (spec
// §4.4). When the if has a value, one ResultMem is allocated up front and
// every taken branch stores into it before rejoining.
func (b *fnBuilder) visitIf(n *ast.IfExpr) exprResult {
	ty := b.tc.NodeTypes[n.ID()]
	hasValue := ty != types.Void
	var result ir.ResultMemId
	if hasValue {
		result = b.resultMemFor(n.ID(), ty)
	}

	endBB := b.newBlock()
	for _, br := range n.Branches {
		condOp := b.evalAs(br.Cond, types.Bool)
		bodyBB := b.newBlock()
		nextBB := b.newBlock()
		b.terminate(&BranchCondNode{Cond: condOp, TrueBB: bodyBB, FalseBB: nextBB})

		b.curBB = bodyBB
		bodyRes := b.visitBlockExpr(br.Body)
		if hasValue && !b.block().Terminated {
			op := b.getOperand(bodyRes, ty)
			b.push(&StoreNode{Setter: ResultPlace(result), Value: op, Ty: ty, Kind: StoreInit})
		}
		if !b.block().Terminated {
			b.terminate(&BranchNode{BB: endBB})
		}
		b.curBB = nextBB
	}

	if n.Else != nil {
		elseRes := b.visitBlockExpr(n.Else)
		if hasValue && !b.block().Terminated {
			op := b.getOperand(elseRes, ty)
			b.push(&StoreNode{Setter: ResultPlace(result), Value: op, Ty: ty, Kind: StoreInit})
		}
	}
	if !b.block().Terminated {
		b.terminate(&BranchNode{BB: endBB})
	}
	b.curBB = endBB

	if hasValue {
		return placeResult(ResultPlace(result), ty)
	}
	return voidResult()
}

// visitIfLet lowers `if let P = E {A} [else {B}]`: E's discriminant (at
// byte offset 0) is compared against P's variant index; on match, each
// IdentPat sub-pattern is bound to a fresh local loaded from its field's
// byte offset (spec §4.4).
func (b *fnBuilder) visitIfLet(n *ast.IfLetExpr) exprResult {
	ty := b.tc.NodeTypes[n.ID()]
	hasValue := ty != types.Void
	var result ir.ResultMemId
	if hasValue {
		result = b.resultMemFor(n.ID(), ty)
	}

	scrutRes := b.visitExpr(n.Value)

	ts, isVariantPat := n.Pattern.(*ast.TupleStructPat)
	var vnb types.NameBinding
	matched := false
	if isVariantPat {
		if def, ok := b.res.UseDefs[ts.ID()]; ok {
			if nb, ok := b.res.Bindings[def]; ok && nb.Kind == types.BindAdt && nb.Adt.Kind == types.AdtEnumVariant {
				vnb, matched = nb, true
			}
		}
	}

	thenBB := b.newBlock()
	elseBB := b.newBlock()
	endBB := b.newBlock()

	if !matched {
		b.internalErr(n, "cfg: if-let pattern does not resolve to an enum variant")
		b.terminate(&BranchNode{BB: elseBB})
	} else {
		addrTemp := b.newTemp()
		b.push(&ByteAccessNode{Result: addrTemp, Base: scrutRes.place, ByteOffset: 0, Ty: types.Int64})
		discTemp := b.newTemp()
		b.push(&LoadNode{Result: discTemp, From: TempPlace(addrTemp), Ty: types.Int64})
		eqTemp := b.newTemp()
		b.push(&BinaryNode{
			Result: eqTemp,
			Op:     ast.Eq,
			Ty:     types.Int64,
			Lhs:    PlaceOperand(TempPlace(discTemp)),
			Rhs:    ConstOperand(Const{Kind: ConstInt, IntValue: int64(vnb.Adt.VariantIndex), IntWidth: 64}),
		})
		b.terminate(&BranchCondNode{Cond: PlaceOperand(TempPlace(eqTemp)), TrueBB: thenBB, FalseBB: elseBB})
	}

	b.curBB = thenBB
	if matched {
		offsets := variantFieldOffsets(vnb.Adt.VariantFields, b.res)
		for i, sub := range ts.SubPats {
			if i >= len(vnb.Adt.VariantFields) {
				break
			}
			ip, ok := sub.(*ast.IdentPat)
			if !ok {
				continue
			}
			def, ok := b.merged.Defs[ip.ID()]
			if !ok {
				continue
			}
			fieldTy := vnb.Adt.VariantFields[i]
			faddr := b.newTemp()
			b.push(&ByteAccessNode{Result: faddr, Base: scrutRes.place, ByteOffset: offsets[i], Ty: fieldTy})
			fval := b.newTemp()
			b.push(&LoadNode{Result: fval, From: TempPlace(faddr), Ty: fieldTy})
			local := b.newLocal(fieldTy)
			b.defLocals[def] = local
			b.push(&StoreNode{Setter: LocalPlace(local), Value: PlaceOperand(TempPlace(fval)), Ty: fieldTy, Kind: StoreInit})
		}
	}
	thenRes := b.visitBlockExpr(n.Then)
	if hasValue && !b.block().Terminated {
		op := b.getOperand(thenRes, ty)
		b.push(&StoreNode{Setter: ResultPlace(result), Value: op, Ty: ty, Kind: StoreInit})
	}
	if !b.block().Terminated {
		b.terminate(&BranchNode{BB: endBB})
	}

	b.curBB = elseBB
	if n.Else != nil {
		elseRes := b.visitBlockExpr(n.Else)
		if hasValue && !b.block().Terminated {
			op := b.getOperand(elseRes, ty)
			b.push(&StoreNode{Setter: ResultPlace(result), Value: op, Ty: ty, Kind: StoreInit})
		}
	}
	if !b.block().Terminated {
		b.terminate(&BranchNode{BB: endBB})
	}
	b.curBB = endBB

	if hasValue {
		return placeResult(ResultPlace(result), ty)
	}
	return voidResult()
}

// visitLoop lowers `loop { ... }`: the body's block branches back to its
// own head on fallthrough; every `break` site is recorded and patched to
// the after-loop block once it is allocated (spec §4.4).
func (b *fnBuilder) visitLoop(n *ast.LoopExpr) exprResult {
	ty := b.tc.NodeTypes[n.ID()]
	hasValue := ty != types.Void
	var result ir.ResultMemId
	if hasValue {
		result = b.resultMemFor(n.ID(), ty)
	}

	headBB := b.newBlock()
	if !b.block().Terminated {
		b.terminate(&BranchNode{BB: headBB})
	}
	b.curBB = headBB
	b.loops = append(b.loops, loopCtx{headBB: headBB, hasValue: hasValue, valTy: ty, resultMem: result})

	b.visitBlockExpr(n.Body)
	if !b.block().Terminated {
		b.terminate(&BranchNode{BB: headBB})
	}

	top := b.loops[len(b.loops)-1]
	b.loops = b.loops[:len(b.loops)-1]

	afterBB := b.newBlock()
	for _, brk := range top.breaks {
		bb := b.cfg.block(brk)
		if bb.Terminated {
			continue
		}
		bb.Nodes = append(bb.Nodes, &BranchNode{BB: afterBB})
		bb.Terminated = true
	}
	b.curBB = afterBB

	if hasValue {
		return placeResult(ResultPlace(result), ty)
	}
	return voidResult()
}

// visitBreak records the current block as a pending break site (patched to
// the after-loop block once visitLoop allocates it) and, if the loop
// carries a value, stores break's value into the loop's ResultMem first.
func (b *fnBuilder) visitBreak(n *ast.BreakExpr) exprResult {
	if len(b.loops) == 0 {
		b.internalErr(n, "cfg: break outside loop")
		return neverResult()
	}
	top := &b.loops[len(b.loops)-1]
	if top.hasValue {
		var op Operand
		if n.Value != nil {
			op = b.evalAs(n.Value, top.valTy)
		} else {
			op = ConstOperand(Const{Kind: ConstVoid})
		}
		b.push(&StoreNode{Setter: ResultPlace(top.resultMem), Value: op, Ty: top.valTy, Kind: StoreInit})
	} else if n.Value != nil {
		b.evalValue(n.Value)
	}
	top.breaks = append(top.breaks, b.curBB)
	b.curBB = b.newBlock()
	return neverResult()
}

// visitContinue branches straight back to the enclosing loop's head, which
// is already known (unlike break's target) since it was allocated before
// the loop body was visited.
func (b *fnBuilder) visitContinue(n *ast.ContinueExpr) exprResult {
	if len(b.loops) == 0 {
		b.internalErr(n, "cfg: continue outside loop")
		return neverResult()
	}
	head := b.loops[len(b.loops)-1].headBB
	b.terminate(&BranchNode{BB: head})
	b.curBB = b.newBlock()
	return neverResult()
}

// visitReturn lowers `return [e]`, coercing e to the enclosing function's
// return type.
func (b *fnBuilder) visitReturn(n *ast.ReturnExpr) exprResult {
	if n.Value == nil {
		b.terminate(&ReturnNode{})
	} else {
		op := b.evalAs(n.Value, b.curFnRet)
		b.terminate(&ReturnNode{Value: &op})
	}
	b.curBB = b.newBlock()
	return neverResult()
}
