package cfg

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

func (b *fnBuilder) internalErr(n ast.Node, format string, args ...any) exprResult {
	b.diags.Addf(diagnostics.ErrInternal, diagnostics.SpanOf(n.Tok()), format, args...)
	return exprResult{ty: types.Unknown}
}

// visitExpr dispatches one expression node to its lowering. Control-flow-
// bearing expressions (if/if-let/loop/break/continue/return/block/binary)
// live in control.go; everything else is here.
func (b *fnBuilder) visitExpr(e ast.Expr) exprResult {
	switch n := e.(type) {
	case *ast.IntLitExpr:
		ty := b.tc.NodeTypes[n.ID()]
		return constResult(Const{Kind: ConstInt, IntValue: n.Value, IntWidth: ty.IntWidth()}, ty)
	case *ast.FloatLitExpr:
		return constResult(Const{Kind: ConstFloat, FloatValue: n.Value}, types.Float64)
	case *ast.BoolLitExpr:
		return constResult(Const{Kind: ConstBool, BoolVal: n.Value}, types.Bool)
	case *ast.NullLitExpr:
		return constResult(Const{Kind: ConstNull}, types.Null)
	case *ast.StringLitExpr:
		def, ok := b.merged.ConstStrs[n.Value]
		if !ok {
			return b.internalErr(n, "cfg: string literal %q has no interned DefId", n.Value)
		}
		return constResult(Const{Kind: ConstStr, Def: def}, types.Str)
	case *ast.IdentExpr:
		return b.visitIdent(n)
	case *ast.PathExpr:
		return b.visitPath(n)
	case *ast.GroupExpr:
		return b.visitExpr(n.X)
	case *ast.CallExpr:
		return b.visitCall(n)
	case *ast.FieldExpr:
		return b.visitField(n)
	case *ast.TupleFieldExpr:
		return b.visitTupleField(n)
	case *ast.IndexExpr:
		return b.visitIndex(n)
	case *ast.TupleExpr:
		return b.visitTuple(n)
	case *ast.StructLitExpr:
		return b.visitStructLit(n)
	case *ast.BinaryExpr:
		return b.visitBinary(n)
	case *ast.BreakExpr:
		return b.visitBreak(n)
	case *ast.ContinueExpr:
		return b.visitContinue(n)
	case *ast.ReturnExpr:
		return b.visitReturn(n)
	case *ast.BlockExpr:
		return b.visitBlockExpr(n)
	case *ast.IfExpr:
		return b.visitIf(n)
	case *ast.IfLetExpr:
		return b.visitIfLet(n)
	case *ast.LoopExpr:
		return b.visitLoop(n)
	}
	return b.internalErr(e, "cfg: unhandled expression node %T", e)
}

// identLikeResult turns a resolved DefId into an exprResult: a variable
// reads from its LocalMem place; a function name becomes an FnPtr constant;
// a const-string name becomes a Str constant.
func (b *fnBuilder) identLikeResult(def ir.DefId, nodeID ir.NodeId) exprResult {
	ty := b.tc.NodeTypes[nodeID]
	nb, ok := b.res.Bindings[def]
	if !ok {
		return exprResult{ty: ty}
	}
	switch nb.Kind {
	case types.BindVariable:
		local, ok := b.defLocals[def]
		if !ok {
			b.diags.Addf(diagnostics.ErrInternal, diagnostics.Span{}, "cfg: variable %v has no local storage", def)
			return exprResult{ty: ty}
		}
		return placeResult(LocalPlace(local), ty)
	case types.BindFn:
		return constResult(Const{Kind: ConstFnPtr, Def: def}, ty)
	case types.BindConstStr:
		return constResult(Const{Kind: ConstStr, Def: def}, types.Str)
	default:
		return exprResult{ty: ty}
	}
}

func (b *fnBuilder) visitIdent(n *ast.IdentExpr) exprResult {
	def, ok := b.res.UseDefs[n.ID()]
	if !ok {
		return b.internalErr(n, "cfg: unresolved identifier %q", n.Name)
	}
	return b.identLikeResult(def, n.ID())
}

// visitPath handles both `pkg.x` references and enum-variant path
// references. A path recorded in tc.Constructors names an enum variant
// constructor marker — meaningful only as a CallExpr callee (visitCall
// special-cases it before falling through here); reached directly, it
// means the program constructs a zero-argument variant with `V()`, which
// visitCall also handles, so a bare reference here is unreachable in a
// well-typed program and only returns the marker for symmetry.
func (b *fnBuilder) visitPath(n *ast.PathExpr) exprResult {
	if vdef, ok := b.tc.Constructors[n.ID()]; ok {
		return constResult(Const{Kind: ConstFnPtr, Def: vdef}, b.tc.NodeTypes[n.ID()])
	}
	def, ok := b.res.UseDefs[n.ID()]
	if !ok {
		return b.internalErr(n, "cfg: unresolved path %v", n.Segments)
	}
	return b.identLikeResult(def, n.ID())
}

// evalValue visits e and coerces it to its own value type (peeling exactly
// one StackPtr layer if e is a place expression) — the common case of
// "I need e's value, not its address".
func (b *fnBuilder) evalValue(e ast.Expr) (Operand, types.Type) {
	res := b.visitExpr(e)
	valTy := derefValue(res.ty)
	return b.getOperand(res, valTy), valTy
}

// evalAs visits e and coerces it to expectedTy.
func (b *fnBuilder) evalAs(e ast.Expr, expectedTy types.Type) Operand {
	res := b.visitExpr(e)
	return b.getOperand(res, expectedTy)
}

func (b *fnBuilder) visitTuple(n *ast.TupleExpr) exprResult {
	elemTys := make([]types.Type, len(n.Elems))
	ops := make([]Operand, len(n.Elems))
	for i, el := range n.Elems {
		op, ty := b.evalValue(el)
		ops[i] = op
		elemTys[i] = ty
	}
	tupleTy := b.tyIn.Tuple(elemTys)
	result := b.resultMemFor(n.ID(), tupleTy)
	offsets := tupleFieldOffsets(elemTys, b.res)
	for i, op := range ops {
		t := b.newTemp()
		b.push(&ByteAccessNode{Result: t, Base: ResultPlace(result), ByteOffset: offsets[i], Ty: elemTys[i]})
		b.push(&StoreNode{Setter: TempPlace(t), Value: op, Ty: elemTys[i], Kind: StoreInit})
	}
	return placeResult(ResultPlace(result), tupleTy)
}

func (b *fnBuilder) visitStructLit(n *ast.StructLitExpr) exprResult {
	def, ok := b.res.UseDefs[n.ID()]
	if !ok {
		return b.internalErr(n, "cfg: unresolved struct literal %q", n.Name)
	}
	nb, ok := b.res.Bindings[def]
	if !ok || nb.Kind != types.BindAdt {
		return b.internalErr(n, "cfg: %q is not a struct", n.Name)
	}
	structTy := b.tyIn.Adt(def)
	result := b.resultMemFor(n.ID(), structTy)
	offsets := structFieldOffsets(nb.Adt, b.res)

	for _, f := range n.Fields {
		fsym := b.syms.Intern(f.Name)
		idx := -1
		for i := range nb.Adt.StructFields {
			if nb.Adt.StructFields[i].Def.Symbol == fsym {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		fieldTy := nb.Adt.StructFields[idx].Type
		op := b.evalAs(f.Value, fieldTy)
		t := b.newTemp()
		b.push(&ByteAccessNode{Result: t, Base: ResultPlace(result), ByteOffset: offsets[idx], Ty: fieldTy})
		b.push(&StoreNode{Setter: TempPlace(t), Value: op, Ty: fieldTy, Kind: StoreInit})
	}
	return placeResult(ResultPlace(result), structTy)
}

// visitField types `x.f` as a place: a StackPtr to the field, carrying the
// receiver's mutability, mirroring typecheck's checkField (spec §4.3). The
// field's address is computed once via ByteAccessNode; the place this
// returns names that address, not the field's loaded value.
func (b *fnBuilder) visitField(n *ast.FieldExpr) exprResult {
	xRes := b.visitExpr(n.X)
	adtDef, ok := adtDefOf(xRes.ty)
	if !ok {
		return b.internalErr(n, "cfg: %q accessed on a non-struct value", n.Field)
	}
	nb, ok := b.res.Bindings[adtDef]
	if !ok || nb.Kind != types.BindAdt || nb.Adt.Kind != types.AdtStruct {
		return b.internalErr(n, "cfg: %q accessed on a non-struct value", n.Field)
	}
	fsym := b.syms.Intern(n.Field)
	idx := -1
	for i := range nb.Adt.StructFields {
		if nb.Adt.StructFields[i].Def.Symbol == fsym {
			idx = i
			break
		}
	}
	if idx < 0 {
		return b.internalErr(n, "cfg: struct has no field %q", n.Field)
	}
	offsets := structFieldOffsets(nb.Adt, b.res)
	fieldTy := nb.Adt.StructFields[idx].Type
	t := b.newTemp()
	b.push(&ByteAccessNode{Result: t, Base: xRes.place, ByteOffset: offsets[idx], Ty: fieldTy})
	return placeResult(TempPlace(t), b.tyIn.StackPtr(fieldTy, mutOf(xRes.ty)))
}

// visitTupleField types `x.0` as a place: a StackPtr to the tuple element,
// mirroring typecheck's checkTupleField (spec §4.3).
func (b *fnBuilder) visitTupleField(n *ast.TupleFieldExpr) exprResult {
	xRes := b.visitExpr(n.X)
	vt := derefValue(xRes.ty)
	if vt.Kind() != types.KTuple {
		return b.internalErr(n, "cfg: tuple-field access on a non-tuple value")
	}
	if n.Index < 0 || n.Index >= len(vt.Elems()) {
		return b.internalErr(n, "cfg: tuple index %d out of bounds", n.Index)
	}
	offsets := tupleFieldOffsets(vt.Elems(), b.res)
	elemTy := vt.Elems()[n.Index]
	t := b.newTemp()
	b.push(&ByteAccessNode{Result: t, Base: xRes.place, ByteOffset: offsets[n.Index], Ty: elemTy})
	return placeResult(TempPlace(t), b.tyIn.StackPtr(elemTy, mutOf(xRes.ty)))
}

// visitCall lowers `f(a, b, ...)`: an enum variant constructor call
// allocates a fresh ResultMem of the enum type, stores the discriminant at
// offset 0 and each argument at its variant-payload offset (spec §4.4,
// "Constructor lowering"); a method call (`x.m(...)`) mirrors typecheck's
// tryMethodCall dispatch, passing the receiver as the first CallNode
// argument; everything else evaluates its callee normally.
func (b *fnBuilder) visitCall(n *ast.CallExpr) exprResult {
	if vdef, ok := b.tc.Constructors[n.ID()]; ok {
		return b.buildEnumConstructor(n, vdef)
	}
	if field, ok := n.Callee.(*ast.FieldExpr); ok {
		if res, handled := b.tryVisitMethodCall(n, field); handled {
			return res
		}
	}
	calleeRes := b.visitExpr(n.Callee)
	return b.buildOrdinaryCall(n, calleeRes)
}

func (b *fnBuilder) buildEnumConstructor(n *ast.CallExpr, vdef ir.DefId) exprResult {
	vnb, ok := b.res.Bindings[vdef]
	if !ok || vnb.Kind != types.BindAdt || vnb.Adt.Kind != types.AdtEnumVariant {
		return b.internalErr(n, "cfg: %v is not an enum variant", vdef)
	}
	enumTy := b.tyIn.Adt(vnb.Adt.EnumDef)
	result := b.resultMemFor(n.ID(), enumTy)

	discTemp := b.newTemp()
	b.push(&ByteAccessNode{Result: discTemp, Base: ResultPlace(result), ByteOffset: 0, Ty: types.Int64})
	b.push(&StoreNode{
		Setter: TempPlace(discTemp),
		Value:  ConstOperand(Const{Kind: ConstInt, IntValue: int64(vnb.Adt.VariantIndex), IntWidth: 64}),
		Ty:     types.Int64,
		Kind:   StoreInit,
	})

	offsets := variantFieldOffsets(vnb.Adt.VariantFields, b.res)
	for i, fieldTy := range vnb.Adt.VariantFields {
		if i >= len(n.Args) {
			break
		}
		op := b.evalAs(n.Args[i], fieldTy)
		t := b.newTemp()
		b.push(&ByteAccessNode{Result: t, Base: ResultPlace(result), ByteOffset: offsets[i], Ty: fieldTy})
		b.push(&StoreNode{Setter: TempPlace(t), Value: op, Ty: fieldTy, Kind: StoreInit})
	}
	return placeResult(ResultPlace(result), enumTy)
}

// tryVisitMethodCall mirrors typecheck's tryMethodCall: it re-derives the
// same TraitImplId(adtDef, None) dispatch the type checker already
// validated, so a method reference that type-checked always resolves here
// too. Returns handled=false for plain field access, which visitCall then
// falls through to buildOrdinaryCall for.
func (b *fnBuilder) tryVisitMethodCall(n *ast.CallExpr, field *ast.FieldExpr) (exprResult, bool) {
	recvRes := b.visitExpr(field.X)
	adtDef, ok := adtDefOf(recvRes.ty)
	if !ok {
		return exprResult{}, false
	}
	implID := ir.TraitImplId{Implementor: adtDef}
	msym := b.syms.Intern(field.Field)
	for _, mdef := range b.res.Impls[implID] {
		if mdef.Symbol != msym {
			continue
		}
		nb, ok := b.res.Bindings[mdef]
		if !ok || nb.Kind != types.BindFn {
			continue
		}
		args := nb.Sig.Args()
		callArgs := make([]Operand, 0, len(args))
		argTys := make([]types.Type, 0, len(args))
		if nb.HasSelf && len(args) > 0 {
			callArgs = append(callArgs, b.getOperand(recvRes, args[0]))
			argTys = append(argTys, args[0])
			args = args[1:]
		}
		callArgs = append(callArgs, b.evalArgs(n.Args, args)...)
		argTys = append(argTys, args...)

		retTy := nb.Sig.Ret()
		calleeOp := ConstOperand(Const{Kind: ConstFnPtr, Def: mdef})
		if retTy == types.Void {
			b.push(&CallNode{Callee: calleeOp, Args: callArgs, ArgTys: argTys, RetTy: retTy})
			return exprResult{ty: types.Void}, true
		}
		t := b.newTemp()
		b.push(&CallNode{Result: t, Callee: calleeOp, Args: callArgs, ArgTys: argTys, RetTy: retTy})
		return placeResult(TempPlace(t), retTy), true
	}
	return exprResult{}, false
}

func (b *fnBuilder) buildOrdinaryCall(n *ast.CallExpr, calleeRes exprResult) exprResult {
	switch calleeRes.ty.Kind() {
	case types.KFnDef:
		nb, ok := b.res.Bindings[calleeRes.ty.Def()]
		if !ok || nb.Kind != types.BindFn {
			return b.internalErr(n, "cfg: call target is not a function")
		}
		args := nb.Sig.Args()
		retTy := nb.Sig.Ret()
		callArgs := b.evalArgs(n.Args, args)
		argTys := append([]types.Type(nil), args...)
		calleeOp := ConstOperand(Const{Kind: ConstFnPtr, Def: calleeRes.ty.Def()})
		if retTy == types.Void {
			b.push(&CallNode{Callee: calleeOp, Args: callArgs, ArgTys: argTys, RetTy: retTy})
			return exprResult{ty: types.Void}
		}
		t := b.newTemp()
		b.push(&CallNode{Result: t, Callee: calleeOp, Args: callArgs, ArgTys: argTys, RetTy: retTy})
		return placeResult(TempPlace(t), retTy)
	default:
		return b.internalErr(n, "cfg: callee is not callable")
	}
}

// evalArgs evaluates args positionally against params, each coerced to its
// parameter type; a trailing VariadicArgs sentinel in params passes any
// remaining args through coerced to their own natural value type (spec
// §4.3, "the tail is accepted as-is").
func (b *fnBuilder) evalArgs(args []ast.Expr, params []types.Type) []Operand {
	variadic := len(params) > 0 && params[len(params)-1].Kind() == types.KVariadicArgs
	fixed := params
	if variadic {
		fixed = params[:len(params)-1]
	}
	out := make([]Operand, 0, len(args))
	for i, a := range args {
		if i < len(fixed) {
			out = append(out, b.evalAs(a, fixed[i]))
			continue
		}
		op, _ := b.evalValue(a)
		out = append(out, op)
	}
	return out
}

// visitIndex lowers `x[i]`. The index is coerced to a fixed Int64 width
// regardless of its source type (typecheck's checkIndex only requires
// IsInt()) so the LLVM emitter's getelementptr always sees one known
// index type.
func (b *fnBuilder) visitIndex(n *ast.IndexExpr) exprResult {
	xOp, xTy := b.evalValue(n.X)
	if xTy.Kind() != types.KManyPtr {
		return b.internalErr(n, "cfg: index on a non-ManyPtr value")
	}
	idxOp := b.evalAs(n.Index, types.Int64)
	t := b.newTemp()
	b.push(&IndexNode{Result: t, Base: xOp, Index: idxOp, ElemTy: xTy.Elem()})
	return placeResult(TempPlace(t), b.tyIn.StackPtr(xTy.Elem(), xTy.Mut()))
}
