package preresolver

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/symbols"
)

// walker carries the one piece of mutable state a file's pre-resolution
// needs beyond its FileResult: the LexicalContext statement/expression
// visitation is currently inside.
type walker struct {
	syms   *symbols.Interner
	ids    *IDAllocator
	diags  *diagnostics.Bag
	result *FileResult
	cur    ir.LexicalContext
}

// pushContext opens a new context (function body, impl block) with its
// own fresh root scope; leaving it restores the caller's context in one
// step, popping every scope opened inside (spec §4.1).
func (w *walker) pushContext() ir.LexicalContext {
	old := w.cur
	w.cur = ir.LexicalContext{Context: w.ids.NextContext(), Scope: w.ids.NextScope()}
	w.result.Parents[w.cur] = old
	return old
}

// pushScope opens a new scope (block, if-then, if-let binding) within the
// current context.
func (w *walker) pushScope() ir.LexicalContext {
	old := w.cur
	w.cur = ir.LexicalContext{Context: w.cur.Context, Scope: w.ids.NextScope()}
	w.result.Parents[w.cur] = old
	return old
}

func (w *walker) pop(old ir.LexicalContext) { w.cur = old }

func (w *walker) spanOf(n ast.Node) diagnostics.Span { return diagnostics.SpanOf(n.Tok()) }

// bind mints a DefId for a binding-site node and records it in every table
// a binding needs to appear in.
func (w *walker) bind(n ast.Node, name string, kind ir.ResKind) ir.DefId {
	sym := w.syms.Intern(name)
	def := ir.DefId{Symbol: sym, Node: n.ID()}
	w.result.Defs[n.ID()] = def

	key := ir.LexicalBinding{Context: w.cur, Symbol: sym, Kind: kind}
	w.result.Bindings[key] = def

	if w.cur == ir.PackageContext {
		if _, exists := w.result.TopSymbols[sym]; exists {
			w.diags.Addf(diagnostics.ErrDuplicateTopLevelSymbol, w.spanOf(n), "duplicate top-level symbol %q", name)
		} else {
			w.result.TopSymbols[sym] = def
			w.result.TopKinds[def] = kind
		}
	}
	return def
}

// bindTypeName is bind for a struct/enum/typedef name: these additionally
// reject shadowing a reserved primitive-type symbol.
func (w *walker) bindTypeName(n ast.Node, name string) ir.DefId {
	if symbols.IsReservedTypeName(name) {
		w.diags.Addf(diagnostics.ErrShadowReservedName, w.spanOf(n), "cannot shadow reserved type name %q", name)
	}
	return w.bind(n, name, ir.ResAdt)
}

// bindAux mints a DefId for a binding site that is never looked up
// lexically — struct fields and enum variant names (spec §4.1 lists both
// as binding sites, but neither has a ResKind of its own to search by; the
// resolver finds them by walking the owning Adt's field/variant list, not
// by LexicalBinding lookup).
func (w *walker) bindAux(id ir.NodeId, name string) ir.DefId {
	sym := w.syms.Intern(name)
	def := ir.DefId{Symbol: sym, Node: id}
	w.result.Defs[id] = def
	return def
}

func (w *walker) recordUse(n ast.Node) {
	w.result.Uses[n.ID()] = w.cur
}

// internString interns a string literal's raw text, sharing one DefId
// across identical literals within the package (spec §4.1, "identical
// literals share the same DefId").
func (w *walker) internString(n *ast.StringLitExpr) {
	if def, ok := w.result.ConstStrs[n.Value]; ok {
		w.result.Defs[n.ID()] = def
		return
	}
	sym := w.syms.Intern(n.Value)
	def := ir.DefId{Symbol: sym, Node: n.ID()}
	w.result.ConstStrs[n.Value] = def
	w.result.Defs[n.ID()] = def
}

func (w *walker) walkProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		w.walkItem(item)
	}
}

func (w *walker) walkItem(item ast.Item) {
	switch n := item.(type) {
	case *ast.FnItem:
		w.walkFnItem(n)
	case *ast.DeclareFnItem:
		w.bind(n, n.Name, ir.ResFn)
		for i := range n.Params {
			w.walkTypeExpr(n.Params[i].Type)
		}
		if n.Ret != nil {
			w.walkTypeExpr(n.Ret)
		}
	case *ast.StructItem:
		w.bindTypeName(n, n.Name)
		for i := range n.Fields {
			f := &n.Fields[i]
			w.bindAux(f.NodeID, f.Name)
			w.walkTypeExpr(f.Type)
		}
	case *ast.EnumItem:
		w.bindTypeName(n, n.Name)
		for i := range n.Variants {
			v := &n.Variants[i]
			w.bindAux(v.NodeID, v.Name)
			for _, f := range v.Fields {
				w.walkTypeExpr(f)
			}
		}
	case *ast.TypedefItem:
		w.bindTypeName(n, n.Name)
		w.walkTypeExpr(n.Type)
	case *ast.ImplItem:
		w.walkImplItem(n)
	}
}

// walkFnItem opens a fresh context for the function body: its parameters
// and locals are invisible from any other function (spec §4.1, "Enters a
// new context at function body").
func (w *walker) walkFnItem(n *ast.FnItem) {
	if n.ImplTarget == "" {
		// A top-level fn is itself a package-scope binding; a method's
		// binding is handled by walkImplItem under the TraitImplId, not
		// as a plain package symbol.
		w.bind(n, n.Name, ir.ResFn)
	}

	old := w.pushContext()
	defer w.pop(old)

	for i := range n.Params {
		p := &n.Params[i]
		if p.IsSelf {
			w.bindSelf(p)
			continue
		}
		w.walkTypeExpr(p.Type)
		w.bindParam(p)
	}
	if n.Ret != nil {
		w.walkTypeExpr(n.Ret)
	}
	for _, s := range n.Body {
		w.walkStmt(s)
	}
}

// bindSelf records the `self` receiver's binding. Each occurrence has its
// own NodeId (minted by the parser alongside every other Param, self
// included), so distinct methods' `self` never share a DefId (spec §4.1,
// "function argument, self argument" as a binding site).
func (w *walker) bindSelf(p *ast.Param) {
	w.bindParam(p)
}

func (w *walker) bindParam(p *ast.Param) {
	sym := w.syms.Intern(p.Name)
	def := ir.DefId{Symbol: sym, Node: p.NodeID}
	w.result.Defs[p.NodeID] = def
	key := ir.LexicalBinding{Context: w.cur, Symbol: sym, Kind: ir.ResVariable}
	w.result.Bindings[key] = def
}

func (w *walker) walkImplItem(n *ast.ImplItem) {
	old := w.pushContext()
	defer w.pop(old)

	for _, m := range n.Methods {
		w.walkFnItem(m)
	}
}

func (w *walker) walkTypeExpr(t ast.TypeExpr) {
	if t == nil {
		return
	}
	w.recordUse(t)
	switch n := t.(type) {
	case *ast.PtrTypeExpr:
		w.walkTypeExpr(n.Elem)
	case *ast.ManyPtrTypeExpr:
		w.walkTypeExpr(n.Elem)
	case *ast.TupleTypeExpr:
		for _, e := range n.Elems {
			w.walkTypeExpr(e)
		}
	case *ast.FnTypeExpr:
		for _, p := range n.Params {
			w.walkTypeExpr(p)
		}
		if n.Ret != nil {
			w.walkTypeExpr(n.Ret)
		}
	}
}

func (w *walker) walkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.DefineStmt:
		w.walkExpr(n.Value)
		w.bind(n, n.Name, ir.ResVariable)
	case *ast.AssignStmt:
		w.walkExpr(n.Target)
		w.walkExpr(n.Value)
	case *ast.ExprStmt:
		w.walkExpr(n.X)
	}
}

func (w *walker) walkExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.IntLitExpr, *ast.FloatLitExpr, *ast.BoolLitExpr, *ast.NullLitExpr, *ast.ContinueExpr:
		// no sub-structure, no use-site to record
	case *ast.StringLitExpr:
		w.internString(n)
	case *ast.IdentExpr:
		w.recordUse(n)
	case *ast.PathExpr:
		w.recordUse(n)
	case *ast.CallExpr:
		w.walkExpr(n.Callee)
		for _, a := range n.Args {
			w.walkExpr(a)
		}
	case *ast.FieldExpr:
		w.walkExpr(n.X)
	case *ast.TupleFieldExpr:
		w.walkExpr(n.X)
	case *ast.IndexExpr:
		w.walkExpr(n.X)
		w.walkExpr(n.Index)
	case *ast.GroupExpr:
		w.walkExpr(n.X)
	case *ast.TupleExpr:
		for _, el := range n.Elems {
			w.walkExpr(el)
		}
	case *ast.StructLitExpr:
		w.recordUse(n)
		for _, f := range n.Fields {
			w.walkExpr(f.Value)
		}
	case *ast.BinaryExpr:
		w.walkExpr(n.Left)
		w.walkExpr(n.Right)
	case *ast.BreakExpr:
		w.walkExpr(n.Value)
	case *ast.ReturnExpr:
		w.walkExpr(n.Value)
	case *ast.BlockExpr:
		w.walkBlock(n)
	case *ast.IfExpr:
		w.walkIf(n)
	case *ast.IfLetExpr:
		w.walkIfLet(n)
	case *ast.LoopExpr:
		old := w.pushScope()
		w.walkBlock(n.Body)
		w.pop(old)
	}
}

func (w *walker) walkBlock(b *ast.BlockExpr) {
	old := w.pushScope()
	defer w.pop(old)
	for _, s := range b.Stmts {
		w.walkStmt(s)
	}
}

func (w *walker) walkIf(n *ast.IfExpr) {
	for _, br := range n.Branches {
		w.walkExpr(br.Cond)
		old := w.pushScope()
		for _, s := range br.Body.Stmts {
			w.walkStmt(s)
		}
		w.pop(old)
	}
	if n.Else != nil {
		old := w.pushScope()
		for _, s := range n.Else.Stmts {
			w.walkStmt(s)
		}
		w.pop(old)
	}
}

// walkIfLet opens the pattern-binding scope before the `then` block so
// that names bound by the pattern are visible for its whole body (spec
// §4.1, "scope on ... if-let-binding").
func (w *walker) walkIfLet(n *ast.IfLetExpr) {
	w.walkExpr(n.Value)

	old := w.pushScope()
	w.walkPattern(n.Pattern)
	for _, s := range n.Then.Stmts {
		w.walkStmt(s)
	}
	w.pop(old)

	if n.Else != nil {
		oldElse := w.pushScope()
		for _, s := range n.Else.Stmts {
			w.walkStmt(s)
		}
		w.pop(oldElse)
	}
}

func (w *walker) walkPattern(p ast.Pattern) {
	switch n := p.(type) {
	case *ast.IdentPat:
		w.bind(n, n.Name, ir.ResVariable)
	case *ast.TupleStructPat:
		w.recordUse(n)
		for _, sub := range n.SubPats {
			w.walkPattern(sub)
		}
	}
}
