package resolver

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/parser"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/types"
)

func resolveOne(t *testing.T, src string) (*preresolver.Merged, *Result, *symbols.Interner, *diagnostics.Bag) {
	t.Helper()
	diags := &diagnostics.Bag{}
	syms := symbols.NewInterner()
	ids := preresolver.NewIDAllocator()

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

	result := NewResult(types.NewInterner())
	Run(fr, merged, result.Types, syms, result, diags)
	RegisterConstStrings(merged, result)
	return merged, result, syms, diags
}

func TestResolveFnSignature(t *testing.T) {
	_, res, syms, diags := resolveOne(t, `fn add(a int32, b int32) int32 { return a }`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	sym := syms.Intern("add")
	_ = sym
	found := false
	for _, nb := range res.Bindings {
		if nb.Kind == types.BindFn && nb.Sig.Kind() == types.KFnSig {
			if len(nb.Sig.Args()) == 2 && nb.Sig.Args()[0] == types.Int32 && nb.Sig.Ret() == types.Int32 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected add's FnSig to be (int32, int32) -> int32")
	}
}

func TestResolveDetectsMain(t *testing.T) {
	_, res, _, diags := resolveOne(t, `fn main() { return }`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if !res.HasMain {
		t.Fatalf("expected main to be claimed")
	}
}

func TestResolveStructFieldTypes(t *testing.T) {
	_, res, _, diags := resolveOne(t, `struct Point { x int32, y int32 }`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	found := false
	for _, nb := range res.Bindings {
		if nb.Kind == types.BindAdt && nb.Adt.Kind == types.AdtStruct {
			if len(nb.Adt.StructFields) == 2 && nb.Adt.StructFields[0].Type == types.Int32 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected Point's fields to both resolve to int32")
	}
}

func TestResolveRejectsUndefinedType(t *testing.T) {
	_, _, _, diags := resolveOne(t, `struct Box { x Undefined }`)
	found := false
	for _, d := range diags.Items() {
		if d.Kind == diagnostics.ErrUndefinedLookup {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an undefined-lookup diagnostic")
	}
}

func TestResolveRejectsPointerInNormalStruct(t *testing.T) {
	_, _, _, diags := resolveOne(t, `struct Box { x *int32 }`)
	found := false
	for _, d := range diags.Items() {
		if d.Kind == diagnostics.ErrRejectedPointerInRestrictedItem {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a rejected-pointer diagnostic for a pointer field in a Normal struct")
	}
}

func TestResolveAllowsPointerInDeclareFn(t *testing.T) {
	_, res, _, diags := resolveOne(t, `declare fn puts(s *int8) int32`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	found := false
	for _, nb := range res.Bindings {
		if nb.Kind == types.BindFn && nb.Externism == ir.ExternCLib {
			if len(nb.Sig.Args()) == 1 && nb.Sig.Args()[0].Kind() == types.KPtr {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected puts's declare fn signature to carry a pointer arg")
	}
}

func TestResolveMethodSelfMutability(t *testing.T) {
	_, res, syms, diags := resolveOne(t, `
struct Counter { n int32 }
impl Counter {
	fn bump(mut self) { return }
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	implSym := syms.Intern("Counter")
	_ = implSym
	found := false
	for id, defs := range res.Impls {
		if len(defs) != 1 {
			continue
		}
		nb := res.Bindings[defs[0]]
		if nb == nil || nb.Kind != types.BindFn {
			continue
		}
		if nb.Sig.Args()[0].Kind() == types.KPtr && nb.Sig.Args()[0].Mut() == ir.Mutable {
			found = true
		}
		_ = id
	}
	if !found {
		t.Fatalf("expected bump's self arg to be a mutable pointer to Counter")
	}
}

func TestResolvePkgQualifiedLookup(t *testing.T) {
	_, res, _, diags := resolveOne(t, `
fn helper() int32 { return 1 }
fn main() {
	x := pkg.helper()
	return
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	found := false
	for _, def := range res.UseDefs {
		if nb, ok := res.Bindings[def]; ok && nb.Kind == types.BindFn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pkg.helper() to resolve to helper's Fn DefId")
	}
}
