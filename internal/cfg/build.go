package cfg

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/typecheck"
	"github.com/viskum-lang/viskumc/internal/types"
)

// exprResult is the CFG builder's per-node visit outcome: either a constant
// value or a place to load from, tagged with the type it currently has
// (spec §4.4's VisitResult, generalized from
// original_source/src/icfg_builder/src/lib.rs's PlaceKind/Const split).
type exprResult struct {
	isConst  bool
	place    Place
	constVal Const
	ty       types.Type
}

func placeResult(p Place, ty types.Type) exprResult {
	return exprResult{place: p, ty: ty}
}

func constResult(c Const, ty types.Type) exprResult {
	return exprResult{isConst: true, constVal: c, ty: ty}
}

// loopCtx tracks one enclosing `loop`'s head block and the break sites
// still awaiting patching to the after-loop block (spec §4.4, "loop { … }
// … on exit, patch each recorded break block"). hasValue/valTy/resultMem
// carry the loop's unified break-value type (spec §4.3's checkLoop),
// computed once when the loop is entered since a bare BreakExpr node has
// no direct link back to its enclosing LoopExpr.
type loopCtx struct {
	headBB  ir.BasicBlockId
	breaks  []ir.BasicBlockId

	hasValue  bool
	valTy     types.Type
	resultMem ir.ResultMemId
}

// fnBuilder lowers one function body into a Cfg. Parameters (self included)
// arrive as the function's first len(params) temporaries, in declared
// order — a convention the LLVM emitter's function-argument binding
// depends on — and are immediately stored into a fresh LocalMem each, so
// every later read of a parameter goes through the same Load-from-place
// path as any other local.
type fnBuilder struct {
	merged *preresolver.Merged
	res    *resolver.Result
	tc     *typecheck.Result
	tyIn   *types.Interner
	syms   *symbols.Interner
	diags  *diagnostics.Bag

	cfg       *Cfg
	curBB     ir.BasicBlockId
	nextTemp  uint32
	nextLocal uint32
	nextResult uint32

	defLocals   map[ir.DefId]ir.LocalMemId
	nodeResults map[ir.NodeId]ir.ResultMemId

	curFnRet types.Type
	loops    []loopCtx
}

func (b *fnBuilder) newTemp() ir.TempId {
	id := ir.TempId(b.nextTemp)
	b.nextTemp++
	return id
}

func (b *fnBuilder) newLocal(ty types.Type) ir.LocalMemId {
	id := ir.LocalMemId(b.nextLocal)
	b.nextLocal++
	b.cfg.LocalTypes[id] = ty
	return id
}

func (b *fnBuilder) newResult(ty types.Type) ir.ResultMemId {
	id := ir.ResultMemId(b.nextResult)
	b.nextResult++
	b.cfg.ResultTypes[id] = ty
	return id
}

func (b *fnBuilder) resultMemFor(nodeID ir.NodeId, ty types.Type) ir.ResultMemId {
	if id, ok := b.nodeResults[nodeID]; ok {
		return id
	}
	id := b.newResult(ty)
	b.nodeResults[nodeID] = id
	return id
}

// newBlock allocates a fresh, empty basic block and returns its id. It does
// not switch the builder's current block — callers terminate the old
// block into it explicitly.
func (b *fnBuilder) newBlock() ir.BasicBlockId {
	id := ir.BasicBlockId(len(b.cfg.Blocks))
	b.cfg.Blocks = append(b.cfg.Blocks, &BasicBlock{ID: id})
	return id
}

func (b *fnBuilder) block() *BasicBlock { return b.cfg.block(b.curBB) }

// push appends a non-terminating node to the current block. A push after a
// terminator is an earlier-pass invariant break (spec §4.4, "errors in this
// pass are programmer-internal"); the builder records ErrInternal and
// drops the node rather than corrupting block well-formedness.
func (b *fnBuilder) push(n Node) {
	bb := b.block()
	if bb.Terminated {
		b.diags.Addf(diagnostics.ErrInternal, diagnostics.Span{}, "cfg: push after terminator in block %d", bb.ID)
		return
	}
	bb.Nodes = append(bb.Nodes, n)
}

// terminate ends the current block with n and marks it terminated. Exactly
// one terminator per block is the CFG well-formedness property (spec §8,
// testable property 7).
func (b *fnBuilder) terminate(n Node) {
	bb := b.block()
	if bb.Terminated {
		return
	}
	bb.Nodes = append(bb.Nodes, n)
	bb.Terminated = true
}

// Build lowers every function and impl-method with a body in file (spec
// §5: CFG building fans out per function, but this entry lowers a whole
// file's worth per task since the pre-resolver/resolver/typecheck passes
// already settled on a per-file task granularity).
func Build(file *preresolver.FileResult, merged *preresolver.Merged, res *resolver.Result, tc *typecheck.Result, tyIn *types.Interner, syms *symbols.Interner, icfg *Icfg, diags *diagnostics.Bag) {
	for _, item := range file.Program.Items {
		switch n := item.(type) {
		case *ast.FnItem:
			if n.ImplTarget == "" {
				if def, ok := merged.Defs[n.ID()]; ok {
					buildFn(def, n, merged, res, tc, tyIn, syms, icfg, diags)
				}
			}
		case *ast.ImplItem:
			for _, m := range n.Methods {
				if def, ok := merged.Defs[m.ID()]; ok {
					buildFn(def, m, merged, res, tc, tyIn, syms, icfg, diags)
				}
			}
		}
	}
}

func buildFn(def ir.DefId, n *ast.FnItem, merged *preresolver.Merged, res *resolver.Result, tc *typecheck.Result, tyIn *types.Interner, syms *symbols.Interner, icfg *Icfg, diags *diagnostics.Bag) {
	nb, ok := res.Bindings[def]
	if !ok || nb.Kind != types.BindFn {
		return
	}

	cfgOut := &Cfg{
		Def:         def,
		LocalTypes:  make(map[ir.LocalMemId]types.Type),
		ResultTypes: make(map[ir.ResultMemId]types.Type),
	}
	b := &fnBuilder{
		merged:      merged,
		res:         res,
		tc:          tc,
		tyIn:        tyIn,
		syms:        syms,
		diags:       diags,
		cfg:         cfgOut,
		defLocals:   make(map[ir.DefId]ir.LocalMemId),
		nodeResults: make(map[ir.NodeId]ir.ResultMemId),
		curFnRet:    nb.Sig.Ret(),
	}

	entry := b.newBlock()
	cfgOut.Entry = entry
	b.curBB = entry

	args := nb.Sig.Args()
	for i := range n.Params {
		if i >= len(args) {
			break
		}
		p := &n.Params[i]
		pdef, ok := merged.Defs[p.NodeID]
		if !ok {
			continue
		}
		local := b.newLocal(args[i])
		b.defLocals[pdef] = local
		cfgOut.ParamLocals = append(cfgOut.ParamLocals, local)
		argTemp := b.newTemp()
		b.push(&StoreNode{
			Setter: LocalPlace(local),
			Value:  PlaceOperand(TempPlace(argTemp)),
			Ty:     args[i],
			Kind:   StoreInit,
		})
	}

	for _, s := range n.Body {
		b.visitStmt(s)
	}

	if bb := b.block(); !bb.Terminated {
		// A non-void function reports falling off the end only from the entry
		// block or a block holding nodes. An empty non-entry block, such as
		// the one opened after a trailing return/break/continue, is closed
		// without a diagnostic; that includes an empty join block reached by
		// a fall-through path.
		if b.curFnRet != types.Void && (bb.ID == entry || len(bb.Nodes) > 0) {
			b.diags.Addf(diagnostics.ErrInternal, diagnostics.Span{}, "cfg: %v falls off the end without returning", def)
		}
		b.terminate(&ReturnNode{})
	}

	icfg.addFunc(cfgOut)
	if n.IsMain {
		icfg.SetMain(def)
	}
}
