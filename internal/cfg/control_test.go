package cfg

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/parser"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/typecheck"
	"github.com/viskum-lang/viskumc/internal/types"
)

// buildOne drives pass 1-4 over a single file, sequentially (the pipeline
// package's own fan-out is irrelevant here — this test wants direct access
// to the built Icfg, not end-to-end compile output).
func buildOne(t *testing.T, src string) *Icfg {
	t.Helper()
	diags := &diagnostics.Bag{}
	syms := symbols.NewInterner()
	ids := preresolver.NewIDAllocator()
	tyIn := types.NewInterner()

	p := parser.New("test.vs", src, 0, diags)
	prog := p.ParseFile()
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected parse diagnostics: %v", err)
	}

	fr := preresolver.Run(prog, syms, ids, diags)
	merged := preresolver.Merge([]*preresolver.FileResult{fr}, syms, diags)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected pre-resolution diagnostics: %v", err)
	}

	res := resolver.NewResult(tyIn)
	resolver.Run(fr, merged, res.Types, syms, res, diags)
	resolver.RegisterConstStrings(merged, res)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected resolution diagnostics: %v", err)
	}

	tc := typecheck.NewResult()
	typecheck.Run(fr, merged, res, tyIn, syms, tc, diags)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected type-check diagnostics: %v", err)
	}

	icfg := NewIcfg()
	if res.HasMain {
		icfg.SetMain(res.MainFn)
	}
	Build(fr, merged, res, tc, tyIn, syms, icfg, diags)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected cfg-build diagnostics: %v", err)
	}
	return icfg
}

func onlyFn(t *testing.T, icfg *Icfg) *Cfg {
	t.Helper()
	if len(icfg.Funcs) != 1 {
		t.Fatalf("expected exactly 1 lowered function, got %d", len(icfg.Funcs))
	}
	for _, c := range icfg.Funcs {
		return c
	}
	panic("unreachable")
}

// TestIfLetLowersDiscriminantCompare exercises visitIfLet's match arm: the
// scrutinee's discriminant is read from byte offset 0 and compared against
// the pattern's variant index (spec §4.4, "if-let").
func TestIfLetLowersDiscriminantCompare(t *testing.T) {
	icfg := buildOne(t, `
enum Shape { Circle(int32), Square(int32) }
fn f() int32 {
    s := Shape.Circle(5)
    if let Shape.Circle(r) = s {
        return r
    }
    return 0
}
`)
	c := onlyFn(t, icfg)

	var discLoad *LoadNode
	var discAddr *ByteAccessNode
	var cmp *BinaryNode
	var brCond *BranchCondNode
	for _, bb := range c.Blocks {
		for _, n := range bb.Nodes {
			switch v := n.(type) {
			case *ByteAccessNode:
				if v.ByteOffset == 0 && v.Ty == types.Int64 {
					discAddr = v
				}
			case *LoadNode:
				if discAddr != nil && v.From == TempPlace(discAddr.Result) {
					discLoad = v
				}
			case *BinaryNode:
				if discLoad != nil && v.Op == ast.Eq && v.Lhs == PlaceOperand(TempPlace(discLoad.Result)) {
					cmp = v
				}
			case *BranchCondNode:
				if cmp != nil && v.Cond == PlaceOperand(TempPlace(cmp.Result)) {
					brCond = v
				}
			}
		}
	}
	if discAddr == nil {
		t.Fatalf("expected a ByteAccessNode reading the discriminant at offset 0")
	}
	if discLoad == nil {
		t.Fatalf("expected a LoadNode loading the discriminant address")
	}
	if cmp == nil {
		t.Fatalf("expected a BinaryNode comparing the discriminant against the variant index")
	}
	if cmp.Rhs.Kind != OperandConst || cmp.Rhs.Const.Kind != ConstInt || cmp.Rhs.Const.IntValue != 0 {
		t.Fatalf("expected the comparison's rhs to be the constant variant index 0 (Circle), got %+v", cmp.Rhs)
	}
	if brCond == nil {
		t.Fatalf("expected a BranchCondNode branching on the discriminant comparison")
	}
}

// TestIfLetBindsPayloadAtVariantOffset exercises visitIfLet's sub-pattern
// binding loop: each IdentPat sub-pattern reads its field from the byte
// offset variantFieldOffsets computes (past the 8-byte discriminant).
func TestIfLetBindsPayloadAtVariantOffset(t *testing.T) {
	icfg := buildOne(t, `
enum Shape { Circle(int32), Rect(int8, int8) }
fn f() int8 {
    s := Shape.Rect(7, 1)
    if let Shape.Rect(w, h) = s {
        return w
    }
    return 0
}
`)
	c := onlyFn(t, icfg)

	var fieldAccesses []*ByteAccessNode
	for _, bb := range c.Blocks {
		for _, n := range bb.Nodes {
			// Only reads through the scrutinee local `s`; the constructor's
			// own payload writes go through its ResultMem.
			if v, ok := n.(*ByteAccessNode); ok && v.ByteOffset != 0 && v.Base.Kind == PlaceLocal {
				fieldAccesses = append(fieldAccesses, v)
			}
		}
	}
	if len(fieldAccesses) != 2 {
		t.Fatalf("expected 2 payload field accesses (w, h), got %d", len(fieldAccesses))
	}
	offsets := map[int]bool{}
	for _, fa := range fieldAccesses {
		offsets[fa.ByteOffset] = true
	}
	if !offsets[8] || !offsets[9] {
		t.Fatalf("expected field accesses at byte offsets 8 and 9 (packed int8 fields), got %v", fieldAccesses)
	}
}

// TestIfLetElseBranchReachable confirms the else block is still wired into
// the CFG (its own basic block, reachable from the discriminant branch)
// even though this function's if-let always matches at runtime.
func TestIfLetElseBranchReachable(t *testing.T) {
	icfg := buildOne(t, `
enum Shape { Circle(int32), Square(int32) }
fn f() int32 {
    s := Shape.Circle(5)
    if let Shape.Circle(r) = s {
        return r
    } else {
        return 9
    }
}
`)
	c := onlyFn(t, icfg)
	if len(c.Blocks) < 4 {
		t.Fatalf("expected at least 4 blocks (cond, then, else, end), got %d", len(c.Blocks))
	}
	for _, bb := range c.Blocks {
		if !bb.Terminated {
			t.Fatalf("block %d was never terminated", bb.ID)
		}
	}
}
