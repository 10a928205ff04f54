package parser

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	diags := &diagnostics.Bag{}
	p := New("test.vs", src, 0, diags)
	prog := p.ParseFile()
	if err := diags.Flush(true); err != nil {
		t.Fatalf("unexpected parse diagnostics: %v", err)
	}
	return prog
}

func TestParseFnWithMainDetection(t *testing.T) {
	prog := parse(t, `fn main() { return }`)
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.FnItem)
	if !ok {
		t.Fatalf("expected *ast.FnItem, got %T", prog.Items[0])
	}
	if !fn.IsMain {
		t.Fatalf("expected IsMain=true for top-level fn main")
	}
}

func TestParseDeclareFnVariadic(t *testing.T) {
	prog := parse(t, `declare fn printf(fmt str, ...) int32`)
	decl := prog.Items[0].(*ast.DeclareFnItem)
	if !decl.Variadic {
		t.Fatalf("expected Variadic=true")
	}
	if len(decl.Params) != 1 || decl.Params[0].Name != "fmt" {
		t.Fatalf("unexpected params: %+v", decl.Params)
	}
}

func TestParseDotCMarkerOnDefinition(t *testing.T) {
	prog := parse(t, `fn .C add(a int32, b int32) int32 { return a + b }`)
	fn := prog.Items[0].(*ast.FnItem)
	if !fn.IsCABI {
		t.Fatalf("expected IsCABI=true")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestParseStructAndLiteral(t *testing.T) {
	prog := parse(t, `
struct Point { x int32, y int32 }
fn make() Point { return Point { x: 1, y: 2 } }
`)
	if len(prog.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(prog.Items))
	}
	st := prog.Items[0].(*ast.StructItem)
	if len(st.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(st.Fields))
	}
}

func TestParseEnumWithPayload(t *testing.T) {
	prog := parse(t, `enum Option { None, Some(int32) }`)
	en := prog.Items[0].(*ast.EnumItem)
	if len(en.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(en.Variants))
	}
	if len(en.Variants[1].Fields) != 1 {
		t.Fatalf("expected variant Some to carry 1 field, got %d", len(en.Variants[1].Fields))
	}
}

func TestParseIfLet(t *testing.T) {
	prog := parse(t, `
fn use(o Option) int32 {
	if let Option.Some(n) = o {
		return n
	} else {
		return 0
	}
}
`)
	fn := prog.Items[0].(*ast.FnItem)
	ifLet, ok := fn.Body[0].(*ast.ExprStmt).X.(*ast.IfLetExpr)
	if !ok {
		t.Fatalf("expected IfLetExpr, got %T", fn.Body[0].(*ast.ExprStmt).X)
	}
	pat, ok := ifLet.Pattern.(*ast.TupleStructPat)
	if !ok {
		t.Fatalf("expected TupleStructPat, got %T", ifLet.Pattern)
	}
	if len(pat.Path) != 2 || pat.Path[0] != "Option" || pat.Path[1] != "Some" {
		t.Fatalf("unexpected pattern path %v", pat.Path)
	}
}

func TestParseImplBlockMethods(t *testing.T) {
	prog := parse(t, `
impl Point {
	fn sum(self) int32 { return self.x }
}
`)
	impl := prog.Items[0].(*ast.ImplItem)
	if len(impl.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(impl.Methods))
	}
	if !impl.Methods[0].Params[0].IsSelf {
		t.Fatalf("expected first param to be self")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := parse(t, `fn f() int32 { return 1 + 2 * 3 }`)
	fn := prog.Items[0].(*ast.FnItem)
	ret := fn.Body[0].(*ast.ExprStmt).X.(*ast.ReturnExpr)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.Add {
		t.Fatalf("expected top-level Add, got %#v", ret.Value)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.Mul {
		t.Fatalf("expected right-hand side Mul, got %#v", bin.Right)
	}
}

func TestParseImportFrom(t *testing.T) {
	prog := parse(t, `import io, fmt from std`)
	if len(prog.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(prog.Imports))
	}
	imp := prog.Imports[0]
	if len(imp.Paths) != 2 || imp.From != "std" {
		t.Fatalf("unexpected import parse: %+v", imp)
	}
}

func TestParsePointerTypes(t *testing.T) {
	prog := parse(t, `fn f(p *mut int32, q [*]int32) void {}`)
	fn := prog.Items[0].(*ast.FnItem)
	ptr, ok := fn.Params[0].Type.(*ast.PtrTypeExpr)
	if !ok {
		t.Fatalf("expected PtrTypeExpr, got %T", fn.Params[0].Type)
	}
	if ptr.Mut != ir.Mutable {
		t.Fatalf("expected mutable pointer")
	}
	if _, ok := fn.Params[1].Type.(*ast.ManyPtrTypeExpr); !ok {
		t.Fatalf("expected ManyPtrTypeExpr, got %T", fn.Params[1].Type)
	}
}

func TestParseUnterminatedStringReportsDiagnostic(t *testing.T) {
	diags := &diagnostics.Bag{}
	p := New("test.vs", `fn main() { x := "hi }`, 0, diags)
	p.ParseFile()
	found := false
	for _, d := range diags.Items() {
		if d.Kind == diagnostics.ErrUnterminatedLiteral {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrUnterminatedLiteral, got %v", diags.Items())
	}
}
