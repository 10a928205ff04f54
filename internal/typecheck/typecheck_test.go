package typecheck

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/parser"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/types"
)

func checkOne(t *testing.T, src string) (*resolver.Result, *Result, *symbols.Interner, *diagnostics.Bag) {
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

	result := NewResult()
	Run(fr, merged, res, tyIn, syms, result, diags)
	return res, result, syms, diags
}

func hasKind(diags *diagnostics.Bag, k diagnostics.Kind) bool {
	for _, d := range diags.Items() {
		if d.Kind == k {
			return true
		}
	}
	return false
}

func TestIntLiteralNarrowestFit(t *testing.T) {
	cases := []struct {
		src  string
		want types.Type
	}{
		{`fn f() { x := 1 }`, types.Int8},
		{`fn f() { x := 200 }`, types.Int16},
		{`fn f() { x := 40000 }`, types.Int32},
		{`fn f() { x := 5000000000 }`, types.Int64},
	}
	for _, c := range cases {
		_, result, _, diags := checkOne(t, c.src)
		if err := diags.Flush(true); err != nil {
			t.Fatalf("%s: unexpected diagnostics: %v", c.src, err)
		}
		found := false
		for _, ty := range result.VarTypes {
			if ty == c.want {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: expected a variable typed %s", c.src, c.want)
		}
	}
}

func TestArithmeticUnifiesToLargerOperand(t *testing.T) {
	_, result, _, diags := checkOne(t, `fn f() { a := 1 b := 40000 c := a + b }`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	found := false
	for _, ty := range result.VarTypes {
		if ty == types.Int32 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected c's type to widen to int32")
	}
}

func TestComparisonYieldsBool(t *testing.T) {
	_, result, _, diags := checkOne(t, `fn f() { a := 1 b := 2 c := a == b }`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	found := false
	for _, ty := range result.VarTypes {
		if ty == types.Bool {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected c's type to be bool")
	}
}

func TestIfConditionMustBeBool(t *testing.T) {
	_, _, _, diags := checkOne(t, `fn f() { if 1 { } }`)
	if !hasKind(diags, diagnostics.ErrExpectedBoolExpr) {
		t.Fatalf("expected ErrExpectedBoolExpr for a non-bool if condition")
	}
}

func TestStructLitMissingField(t *testing.T) {
	_, _, _, diags := checkOne(t, `
struct Point { x int32, y int32 }
fn f() { p := Point { x: 1 } }
`)
	if !hasKind(diags, diagnostics.ErrInvalidStruct) {
		t.Fatalf("expected ErrInvalidStruct for a missing field")
	}
}

func TestStructLitUnknownField(t *testing.T) {
	_, _, _, diags := checkOne(t, `
struct Point { x int32, y int32 }
fn f() { p := Point { x: 1, y: 2, z: 3 } }
`)
	if !hasKind(diags, diagnostics.ErrUndefinedStructField) {
		t.Fatalf("expected ErrUndefinedStructField for an unknown field")
	}
}

func TestStructLitFieldTypeMismatch(t *testing.T) {
	_, _, _, diags := checkOne(t, `
struct Point { x int32, y bool }
fn f() { p := Point { x: 1, y: 2 } }
`)
	if !hasKind(diags, diagnostics.ErrMismatchedFieldTypes) {
		t.Fatalf("expected ErrMismatchedFieldTypes for y: 2 against a bool field")
	}
}

func TestFieldAccessInheritsMutability(t *testing.T) {
	_, result, _, diags := checkOne(t, `
struct Point { x int32, y int32 }
fn f() {
    mut p := Point { x: 1, y: 2 }
    p.x = 5
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	_ = result
}

func TestAssignmentToImmutableIsRejected(t *testing.T) {
	_, _, _, diags := checkOne(t, `
struct Point { x int32, y int32 }
fn f() {
    p := Point { x: 1, y: 2 }
    p.x = 5
}
`)
	if !hasKind(diags, diagnostics.ErrAssignmentToImmutable) {
		t.Fatalf("expected ErrAssignmentToImmutable when assigning through an immutable place")
	}
}

func TestReturnTypeMismatch(t *testing.T) {
	_, _, _, diags := checkOne(t, `fn f() int32 { return true }`)
	if !hasKind(diags, diagnostics.ErrMismatchedReturnTypes) {
		t.Fatalf("expected ErrMismatchedReturnTypes")
	}
}

func TestBreakValueUnification(t *testing.T) {
	_, _, _, diags := checkOne(t, `
fn f() int32 {
    return loop {
        if true { break 1 }
        break 2
    }
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
}

func TestBreakValueMismatchIsRejected(t *testing.T) {
	_, _, _, diags := checkOne(t, `
fn f() {
    loop {
        if true { break 1 }
        break true
    }
}
`)
	if !hasKind(diags, diagnostics.ErrBreakTypeError) {
		t.Fatalf("expected ErrBreakTypeError for mismatched break values")
	}
}

func TestEnumVariantConstructorViaPath(t *testing.T) {
	_, result, _, diags := checkOne(t, `
enum Shape { Circle(int32), Square(int32) }
fn f() { s := Shape.Circle(5) }
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	if len(result.Constructors) == 0 {
		t.Fatalf("expected a recorded constructor for Shape.Circle(5)")
	}
}

func TestIfLetBindsPatternVariables(t *testing.T) {
	_, result, _, diags := checkOne(t, `
enum Shape { Circle(int32), Square(int32) }
fn f() int32 {
    s := Shape.Circle(5)
    if let Shape.Circle(r) = s {
        return r
    }
    return 0
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
	found := false
	for _, ty := range result.VarTypes {
		if ty == types.Int32 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected r to be bound as int32")
	}
}

func TestMethodCallDispatchesViaImpl(t *testing.T) {
	_, _, _, diags := checkOne(t, `
struct Point { x int32, y int32 }
impl Point {
    fn sum(self) int32 { return self.x }
}
fn f() int32 {
    p := Point { x: 1, y: 2 }
    return p.sum()
}
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics: %v", err)
	}
}

func TestVariadicCallAcceptsExtraArgs(t *testing.T) {
	_, _, _, diags := checkOne(t, `
declare fn printf(fmt str, ...) int32
fn f() { printf("x", 1, true) }
`)
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected diagnostics for a variadic call: %v", err)
	}
}
