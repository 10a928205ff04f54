package llvm

import (
	"strings"
	"testing"

	"github.com/viskum-lang/viskumc/internal/pipeline"
)

func compileFull(t *testing.T, src string) string {
	t.Helper()
	p := pipeline.NewPool()
	res := p.Run([]pipeline.Source{{File: "test.vs", Text: src}})
	if res.Err != nil {
		t.Fatalf("unexpected pipeline error: %v (%v)", res.Err, res.Diags)
	}
	return EmitModule(res.Icfg, res.Merged, res.Res, p.Syms)
}

func TestEmitMainAlwaysReturnsI32Zero(t *testing.T) {
	ir := compileFull(t, `fn main() { x := 1 }`)
	if !strings.Contains(ir, "define i32 @main()") {
		t.Fatalf("expected `define i32 @main()`, got:\n%s", ir)
	}
	if !strings.Contains(ir, "ret i32 0") {
		t.Fatalf("expected a forced `ret i32 0`, got:\n%s", ir)
	}
}

func TestEmitArithmeticLowersToAddNsw(t *testing.T) {
	ir := compileFull(t, `
fn add(a int32, b int32) int32 { return a + b }
fn main() { x := add(1, 2) }
`)
	if !strings.Contains(ir, "add nsw i32") {
		t.Fatalf("expected a signed `add nsw i32`, got:\n%s", ir)
	}
	if !strings.Contains(ir, "define i32 @") {
		t.Fatalf("expected add's own i32 define, got:\n%s", ir)
	}
}

func TestEmitComparisonLowersToIcmpThenZext(t *testing.T) {
	ir := compileFull(t, `fn main() { x := 40000 < 50000 }`)
	if !strings.Contains(ir, "icmp slt i32") {
		t.Fatalf("expected `icmp slt i32`, got:\n%s", ir)
	}
	if !strings.Contains(ir, "zext i1") {
		t.Fatalf("expected the icmp's i1 result widened via zext to i8, got:\n%s", ir)
	}
}

func TestEmitConstStringRendersNulTerminatedConstant(t *testing.T) {
	ir := compileFull(t, `fn main() { s := "hi" }`)
	if !strings.Contains(ir, `constant [3 x i8] c"hi\00"`) {
		t.Fatalf("expected a 3-byte nul-terminated string constant, got:\n%s", ir)
	}
}

func TestEmitExternDeclaresCSignature(t *testing.T) {
	ir := compileFull(t, `
declare fn printf(fmt str, ...) int32
fn main() { x := printf("hi") }
`)
	if !strings.Contains(ir, "declare i32 @") || !strings.Contains(ir, "...") {
		t.Fatalf("expected a variadic `declare i32 @...(..., ...)` line for the extern, got:\n%s", ir)
	}
}
