package pipeline

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/diagnostics"
)

func TestPoolRunSingleFileMain(t *testing.T) {
	p := NewPool()
	res := p.Run([]Source{
		{File: "main.vs", Text: `
fn add(a int32, b int32) int32 { return a + b }
fn main() { x := add(1, 2) }
`},
	})
	if res.Err != nil {
		t.Fatalf("unexpected pipeline error: %v (%v)", res.Err, res.Diags)
	}
	if !res.Icfg.HasMain {
		t.Fatalf("expected HasMain=true")
	}
	if len(res.Icfg.Funcs) != 2 {
		t.Fatalf("expected 2 lowered functions, got %d", len(res.Icfg.Funcs))
	}
}

func TestPoolRunAcrossFiles(t *testing.T) {
	p := NewPool()
	res := p.Run([]Source{
		{File: "util.vs", Text: `fn double(a int32) int32 { return a + a }`},
		{File: "main.vs", Text: `fn main() { y := double(21) }`},
	})
	if res.Err != nil {
		t.Fatalf("unexpected pipeline error: %v (%v)", res.Err, res.Diags)
	}
	if !res.Icfg.HasMain {
		t.Fatalf("expected HasMain=true")
	}
	if len(res.Icfg.Funcs) != 2 {
		t.Fatalf("expected 2 lowered functions across files, got %d", len(res.Icfg.Funcs))
	}
}

func TestPoolRunTypeErrorStopsBeforeCfg(t *testing.T) {
	p := NewPool()
	res := p.Run([]Source{
		{File: "main.vs", Text: `fn main() { if 1 { } }`},
	})
	if res.Err == nil {
		t.Fatalf("expected a type error to be reported")
	}
	if res.Icfg != nil {
		t.Fatalf("expected no Icfg once type-checking fails")
	}
}

// TestPoolRunSingleMainAcrossFilesSucceeds exercises the non-duplicate case:
// one real `main` plus an unrelated helper in another file must resolve
// cleanly. The duplicate-main race itself is covered by
// TestPoolRunDuplicateMainIsRejected below.
func TestPoolRunSingleMainAcrossFilesSucceeds(t *testing.T) {
	p := NewPool()
	res := p.Run([]Source{
		{File: "a.vs", Text: `fn main() { x := 1 }`},
		{File: "b.vs", Text: `fn helper() { y := 2 }`},
	})
	if res.Err != nil {
		t.Fatalf("unexpected pipeline error: %v (%v)", res.Err, res.Diags)
	}
	if !res.Icfg.HasMain {
		t.Fatalf("expected HasMain=true")
	}
}

// TestPoolRunDuplicateMainIsRejected defines two real `main` functions
// across two files: the first writer wins the MainSlot race, and the
// second must be reported as ErrDuplicateMain rather than silently
// dropped (spec §4.2 step 4: "a second writer is a duplicate-main error").
func TestPoolRunDuplicateMainIsRejected(t *testing.T) {
	p := NewPool()
	res := p.Run([]Source{
		{File: "a.vs", Text: `fn main() { x := 1 }`},
		{File: "b.vs", Text: `fn main() { y := 2 }`},
	})
	if res.Err == nil {
		t.Fatalf("expected a duplicate-main error")
	}
	found := false
	for _, d := range res.Diags {
		if d.Kind == diagnostics.ErrDuplicateMain {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrDuplicateMain among diagnostics, got %v", res.Diags)
	}
}
