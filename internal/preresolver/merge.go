package preresolver

import (
	"github.com/viskum-lang/viskumc/internal/config"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/symbols"
)

// Merged is the package-wide pre-resolution state once every file's
// FileResult has been folded in (spec §4.2 step 1: "merging a per-file
// table is an insert-all; a collision on pkg_symbol is a fatal error").
// It becomes read-only input to the resolver pass.
type Merged struct {
	Defs     map[ir.NodeId]ir.DefId
	Uses     map[ir.NodeId]ir.LexicalContext
	Bindings map[ir.LexicalBinding]ir.DefId
	Parents  map[ir.LexicalContext]ir.LexicalContext

	PkgSymbols map[symbols.Symbol]ir.DefId
	PkgKinds   map[ir.DefId]ir.ResKind

	ConstStrs map[string]ir.DefId

	Programs map[ir.ModId]*FileResult
}

// Merge combines every file's local pre-resolution result into one
// package-wide state. Merge order across files is unspecified but
// associative (spec §5); the one order-sensitive outcome — which file's
// diagnostic fires first on a genuine collision — does not affect
// correctness.
func Merge(results []*FileResult, syms *symbols.Interner, diags *diagnostics.Bag) *Merged {
	m := &Merged{
		Defs:       make(map[ir.NodeId]ir.DefId),
		Uses:       make(map[ir.NodeId]ir.LexicalContext),
		Bindings:   make(map[ir.LexicalBinding]ir.DefId),
		Parents:    make(map[ir.LexicalContext]ir.LexicalContext),
		PkgSymbols: make(map[symbols.Symbol]ir.DefId),
		PkgKinds:   make(map[ir.DefId]ir.ResKind),
		ConstStrs:  make(map[string]ir.DefId),
		Programs:   make(map[ir.ModId]*FileResult),
	}

	for _, r := range results {
		m.Programs[r.Mod] = r

		for node, def := range r.Defs {
			m.Defs[node] = def
		}
		for node, ctx := range r.Uses {
			m.Uses[node] = ctx
		}
		for key, def := range r.Bindings {
			m.Bindings[key] = def
		}
		for child, parent := range r.Parents {
			m.Parents[child] = parent
		}
		for sym, def := range r.TopSymbols {
			if existing, ok := m.PkgSymbols[sym]; ok && existing != def {
				if syms.Get(sym) == config.MainFnName {
					// A second `main` is reported by the resolver's MainSlot
					// claim as ErrDuplicateMain.
					continue
				}
				diags.Addf(diagnostics.ErrDuplicateTopLevelSymbol, diagnostics.Dummy(),
					"duplicate top-level symbol %q across package files", syms.Get(sym))
				continue
			}
			m.PkgSymbols[sym] = def
			m.PkgKinds[def] = r.TopKinds[def]
		}
		for text, def := range r.ConstStrs {
			if _, ok := m.ConstStrs[text]; !ok {
				m.ConstStrs[text] = def
			}
		}
	}
	return m
}
