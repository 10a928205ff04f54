package preresolver

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/parser"
	"github.com/viskum-lang/viskumc/internal/symbols"
)

func runOne(t *testing.T, src string) (*FileResult, *symbols.Interner, *diagnostics.Bag) {
	t.Helper()
	diags := &diagnostics.Bag{}
	syms := symbols.NewInterner()
	p := parser.New("test.vs", src, 0, diags)
	prog := p.ParseFile()
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected parse diagnostics: %v", err)
	}
	res := Run(prog, syms, NewIDAllocator(), diags)
	return res, syms, diags
}

func TestRunBindsTopLevelFn(t *testing.T) {
	res, syms, diags := runOne(t, `fn main() { return }`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	sym := syms.Intern("main")
	if _, ok := res.TopSymbols[sym]; !ok {
		t.Fatalf("expected main to be a top-level symbol")
	}
}

func TestRunRejectsDuplicateTopLevelSymbol(t *testing.T) {
	_, _, diags := runOne(t, `
fn f() { return }
fn f() { return }
`)
	found := false
	for _, d := range diags.Items() {
		if d.Kind == diagnostics.ErrDuplicateTopLevelSymbol {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate top-level symbol diagnostic")
	}
}

func TestRunRejectsReservedTypeNameShadow(t *testing.T) {
	_, _, diags := runOne(t, `struct int { x int32 }`)
	found := false
	for _, d := range diags.Items() {
		if d.Kind == diagnostics.ErrShadowReservedName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reserved-name shadow diagnostic")
	}
}

func TestRunSharesDefIdForIdenticalStringLiterals(t *testing.T) {
	res, _, diags := runOne(t, `
fn f() {
	a := "hi"
	b := "hi"
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(res.ConstStrs) != 1 {
		t.Fatalf("expected 1 deduplicated string literal, got %d", len(res.ConstStrs))
	}
}

func TestRunOpensFreshScopePerBlock(t *testing.T) {
	res, syms, diags := runOne(t, `
fn f() {
	if true {
		x := 1
	}
	if true {
		x := 2
	}
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	xSym := syms.Intern("x")

	var scopes []ir.ScopeId
	for key := range res.Bindings {
		if key.Symbol == xSym && key.Kind == ir.ResVariable {
			scopes = append(scopes, key.Scope)
		}
	}
	if len(scopes) != 2 {
		t.Fatalf("expected 2 `x` bindings in distinct scopes, got %d", len(scopes))
	}
	if scopes[0] == scopes[1] {
		t.Fatalf("expected each `x` binding to live in its own scope, got the same scope twice")
	}
}

func TestMergeDetectsCrossFileDuplicateSymbol(t *testing.T) {
	diags := &diagnostics.Bag{}
	syms := symbols.NewInterner()
	ids := NewIDAllocator()

	p1 := parser.New("a.vs", `fn shared() { return }`, 0, diags)
	prog1 := p1.ParseFile()
	p2 := parser.New("b.vs", `fn shared() { return }`, 1, diags)
	prog2 := p2.ParseFile()

	r1 := Run(prog1, syms, ids, diags)
	r2 := Run(prog2, syms, ids, diags)

	Merge([]*FileResult{r1, r2}, syms, diags)

	found := false
	for _, d := range diags.Items() {
		if d.Kind == diagnostics.ErrDuplicateTopLevelSymbol {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate top-level symbol diagnostic across files")
	}
}
