package resolver

import (
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
)

// searchVariable walks the scope chain from cur outward through Parents,
// stopping the instant it crosses a context boundary: ResKind::Variable
// lookups never escape the function body (or impl block) they were found
// in (spec §3, "ConstVariable lookups traverse through context boundaries
// ... Variable lookups do not").
func searchVariable(m *preresolver.Merged, cur ir.LexicalContext, sym symbols.Symbol) (ir.DefId, bool) {
	ctx := cur
	for {
		key := ir.LexicalBinding{Context: ctx, Symbol: sym, Kind: ir.ResVariable}
		if def, ok := m.Bindings[key]; ok {
			return def, true
		}
		parent, ok := m.Parents[ctx]
		if !ok || parent.Context != ctx.Context {
			return ir.DefId{}, false
		}
		ctx = parent
	}
}

// searchConstVariable walks the whole scope-parent forest up to the package
// root, crossing context boundaries freely (module-level constants are
// visible everywhere).
func searchConstVariable(m *preresolver.Merged, cur ir.LexicalContext, sym symbols.Symbol) (ir.DefId, bool) {
	ctx := cur
	for {
		key := ir.LexicalBinding{Context: ctx, Symbol: sym, Kind: ir.ResConstVariable}
		if def, ok := m.Bindings[key]; ok {
			return def, true
		}
		parent, ok := m.Parents[ctx]
		if !ok {
			return ir.DefId{}, false
		}
		ctx = parent
	}
}

// resolveIdent implements spec §4.2 step 2's fallback chain: Variable
// (context-bounded) -> Fn -> Adt -> ConstVariable, all at package scope for
// the latter three since functions and ADTs only ever bind there.
func resolveIdent(m *preresolver.Merged, cur ir.LexicalContext, sym symbols.Symbol) (ir.DefId, ir.ResKind, bool) {
	if def, ok := searchVariable(m, cur, sym); ok {
		return def, ir.ResVariable, true
	}
	if def, ok := m.Bindings[ir.LexicalBinding{Context: ir.PackageContext, Symbol: sym, Kind: ir.ResFn}]; ok {
		return def, ir.ResFn, true
	}
	if def, ok := m.Bindings[ir.LexicalBinding{Context: ir.PackageContext, Symbol: sym, Kind: ir.ResAdt}]; ok {
		return def, ir.ResAdt, true
	}
	if def, ok := searchConstVariable(m, cur, sym); ok {
		return def, ir.ResConstVariable, true
	}
	return ir.DefId{}, 0, false
}

// resolvePkgMember looks up name directly in the package export table,
// bypassing lexical scoping entirely (spec §4.2, "Package-qualified paths
// (pkg.x) look up in the package export table directly").
func resolvePkgMember(m *preresolver.Merged, sym symbols.Symbol) (ir.DefId, ir.ResKind, bool) {
	if def, ok := m.PkgSymbols[sym]; ok {
		return def, m.PkgKinds[def], true
	}
	return ir.DefId{}, 0, false
}
