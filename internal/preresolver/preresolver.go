// Package preresolver implements pass 1 (spec §4.1): it assigns a
// LexicalContext to every use-site node, mints a DefId for every binding
// site, detects the package's top-level exports, and rejects shadowing of
// reserved type names. Grounded on original_source/src/resolver/src/
// pre_resolver.rs, generalized from funxy's single-pass analyzer
// (internal/analyzer) into the scope/context forest spec §3 requires.
package preresolver

import (
	"sync/atomic"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/symbols"
)

// IDAllocator mints process-wide-unique ContextId/ScopeId values, shared by
// every file's preresolver task so that the merge step (spec §5, "merged
// maps become read-only in the next pass") never sees a collision between
// two files' contexts.
type IDAllocator struct {
	ctx   atomic.Uint32
	scope atomic.Uint32
}

// NewIDAllocator creates an allocator whose first NextContext/NextScope
// calls return IDs after ir.PackageContext's reserved (0,0).
func NewIDAllocator() *IDAllocator {
	a := &IDAllocator{}
	a.ctx.Store(1)
	a.scope.Store(1)
	return a
}

func (a *IDAllocator) NextContext() ir.ContextId { return ir.ContextId(a.ctx.Add(1) - 1) }
func (a *IDAllocator) NextScope() ir.ScopeId      { return ir.ScopeId(a.scope.Add(1) - 1) }

// FileResult is the local result of pre-resolving one file: everything the
// resolver needs from this file, not yet merged with any other file's.
type FileResult struct {
	Mod ir.ModId

	// Defs maps every binding site's NodeId to the DefId minted there.
	Defs map[ir.NodeId]ir.DefId
	// Uses maps every identifier/path/type-expression use-site NodeId to
	// the LexicalContext it was encountered in.
	Uses map[ir.NodeId]ir.LexicalContext
	// Bindings is the full LexicalBinding -> DefId table for this file,
	// across every context/scope (not only package scope).
	Bindings map[ir.LexicalBinding]ir.DefId
	// Parents records, for every scope/context opened while walking this
	// file, the LexicalContext it was opened from — the edges of the
	// scope-parent forest rooted at the package scope (spec §3). The
	// resolver walks this outward from a use-site's context to find where
	// each enclosing binding lives.
	Parents map[ir.LexicalContext]ir.LexicalContext

	// TopSymbols/TopKinds hold just this file's top-level (package-scope)
	// exports, destined for the merged package export table.
	TopSymbols map[symbols.Symbol]ir.DefId
	TopKinds   map[ir.DefId]ir.ResKind

	// ConstStrs deduplicates string literals within this file: raw
	// literal text (escapes intact) -> the DefId minted for its first
	// occurrence.
	ConstStrs map[string]ir.DefId

	Program *ast.Program
}

func newFileResult(mod ir.ModId, prog *ast.Program) *FileResult {
	return &FileResult{
		Mod:        mod,
		Defs:       make(map[ir.NodeId]ir.DefId),
		Uses:       make(map[ir.NodeId]ir.LexicalContext),
		Bindings:   make(map[ir.LexicalBinding]ir.DefId),
		Parents:    make(map[ir.LexicalContext]ir.LexicalContext),
		TopSymbols: make(map[symbols.Symbol]ir.DefId),
		TopKinds:   make(map[ir.DefId]ir.ResKind),
		ConstStrs:  make(map[string]ir.DefId),
		Program:    prog,
	}
}

// Run pre-resolves one file's already-parsed Program. It is the unit of
// work dispatched per file by the pipeline's fan-out (spec §5).
func Run(prog *ast.Program, syms *symbols.Interner, ids *IDAllocator, diags *diagnostics.Bag) *FileResult {
	w := &walker{
		syms:   syms,
		ids:    ids,
		diags:  diags,
		result: newFileResult(prog.Mod, prog),
		cur:    ir.PackageContext,
	}
	w.walkProgram(prog)
	return w.result
}
