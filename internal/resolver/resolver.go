// Package resolver implements pass 2 (spec §4.2): it attaches a NameBinding
// to every DefId, materializes a Type for every type expression, binds
// every identifier/path use to a DefId, and registers impl methods under
// their TraitImplId. Grounded on original_source/src/ast/src/ast_resolver.rs
// (type_from_typing, the ItemType::Normal/C pointer guard, the self-argument
// mutability derivation), generalized from funxy's single-pass analyzer into
// a pass that consumes the pre-resolver's already-merged lexical state.
package resolver

import (
	"sync"
	"sync/atomic"

	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/types"
)

// ItemKind distinguishes a plain ("Normal") item from a C-ABI item (`fn .C`,
// `declare fn`): only C items may mention pointer types in their signatures
// (spec §4.2, "Pointer types are rejected when the item is tagged as
// non-native"). Structs, enums and typedefs are always Normal in viskum —
// there is no `.C` marker for them, grounded on original_source/src/parser/
// src/lib.rs hardcoding `ItemType::Normal` at the struct-item call site.
type ItemKind int

const (
	ItemNormal ItemKind = iota
	ItemC
)

// MainSlot lets every file's resolver task race to claim the package's one
// `main` function with a single compare-and-swap, rather than needing a
// barrier after every file is resolved (spec §4.2 step 4).
type MainSlot struct {
	def atomic.Pointer[ir.DefId]
}

func NewMainSlot() *MainSlot { return &MainSlot{} }

// TryClaim reports whether def became the claimed main function. Only the
// first caller across every concurrently-resolving file wins.
func (s *MainSlot) TryClaim(def ir.DefId) bool {
	return s.def.CompareAndSwap(nil, &def)
}

func (s *MainSlot) Get() (ir.DefId, bool) {
	p := s.def.Load()
	if p == nil {
		return ir.DefId{}, false
	}
	return *p, true
}

// Result is the package-wide output of pass 2. Its maps are written
// concurrently by one resolver task per file (spec §5: fan-out per file,
// shared process-wide interners) and are read-only to every later pass.
type Result struct {
	mu sync.Mutex

	// Bindings gives every DefId its NameBinding: what it's bound to, and
	// with what shape.
	Bindings map[ir.DefId]*types.NameBinding
	// TypeExprs gives every ast.TypeExpr node's NodeId its materialized
	// Type.
	TypeExprs map[ir.NodeId]types.Type
	// UseDefs resolves every identifier/path use-site NodeId (as recorded
	// by the pre-resolver in Uses) to the DefId it refers to.
	UseDefs map[ir.NodeId]ir.DefId
	// Impls is the inherent-impl method registry: TraitImplId -> method
	// DefIds, in declaration order.
	Impls map[ir.TraitImplId][]ir.DefId
	// Pending lists every function (including methods, excluding `main`)
	// the CFG builder must lower.
	Pending []ir.DefId

	MainFn  ir.DefId
	HasMain bool

	Types *types.Interner

	main *MainSlot
}

// NewResult creates an empty Result sharing tyInterner, the type universe
// every file's resolver task interns compound types into.
func NewResult(tyInterner *types.Interner) *Result {
	return &Result{
		Bindings:  make(map[ir.DefId]*types.NameBinding),
		TypeExprs: make(map[ir.NodeId]types.Type),
		UseDefs:   make(map[ir.NodeId]ir.DefId),
		Impls:     make(map[ir.TraitImplId][]ir.DefId),
		Types:     tyInterner,
		main:      NewMainSlot(),
	}
}

func (r *Result) setBinding(def ir.DefId, nb *types.NameBinding) {
	r.mu.Lock()
	r.Bindings[def] = nb
	r.mu.Unlock()
}

func (r *Result) setTypeExpr(n ir.NodeId, t types.Type) {
	r.mu.Lock()
	r.TypeExprs[n] = t
	r.mu.Unlock()
}

func (r *Result) setUse(n ir.NodeId, def ir.DefId) {
	r.mu.Lock()
	r.UseDefs[n] = def
	r.mu.Unlock()
}

func (r *Result) addImplMethod(id ir.TraitImplId, def ir.DefId) {
	r.mu.Lock()
	r.Impls[id] = append(r.Impls[id], def)
	r.mu.Unlock()
}

func (r *Result) addPending(def ir.DefId) {
	r.mu.Lock()
	r.Pending = append(r.Pending, def)
	r.mu.Unlock()
}

// claimMain reports whether def became the package's one `main` function.
// A false result means some other file's task already won the race; the
// caller is responsible for turning that into a duplicate-main diagnostic
// (spec §4.2 step 4, "a second writer is a duplicate-main error").
func (r *Result) claimMain(def ir.DefId) bool {
	if !r.main.TryClaim(def) {
		return false
	}
	r.mu.Lock()
	r.MainFn = def
	r.HasMain = true
	r.mu.Unlock()
	return true
}

// RegisterConstStrings attaches a BindConstStr NameBinding, carrying the
// literal's byte length, to every interned string DefId (spec §4.1:
// "each becomes a DefId with a ConstStr(len) name binding"). Called once
// after every file's Run has completed, since Merged.ConstStrs is already
// package-wide deduplicated.
func RegisterConstStrings(merged *preresolver.Merged, result *Result) {
	for text, def := range merged.ConstStrs {
		result.setBinding(def, &types.NameBinding{Kind: types.BindConstStr, StrLen: len(text)})
	}
}

// Run resolves one already-merged file (spec §4.2 steps 2-4): the unit of
// work the pipeline's errgroup fan-out dispatches per file, once every
// file's pre-resolution has been merged into a single read-only Merged
// state.
func Run(file *preresolver.FileResult, merged *preresolver.Merged, tyIn *types.Interner, syms *symbols.Interner, result *Result, diags *diagnostics.Bag) {
	w := &walker{
		merged: merged,
		syms:   syms,
		diags:  diags,
		result: result,
		tyIn:   tyIn,
	}
	w.walkProgram(file.Program)
}
