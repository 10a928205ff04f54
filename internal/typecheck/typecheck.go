// Package typecheck implements pass 3 (spec §4.3): it assigns a Type to
// every expression node, validates operators, calls, struct literals, field
// and index access, patterns, assignment, return, loop/break and if/if-let.
// Grounded on original_source/src/typechecker/src/lib.rs for the loose
// type-equality and operand-coercion rules, generalized from funxy's
// single-pass evaluator-as-checker shape into a pass that consumes the
// resolver's already-merged, read-only state.
package typecheck

import (
	"sync"

	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/types"
)

// Result is the package-wide output of pass 3, written concurrently by one
// checker task per file (spec §5) and read-only to the CFG builder.
type Result struct {
	mu sync.Mutex

	// NodeTypes gives every expression node's NodeId its checked Type (spec
	// §8, testable property 2: every node has exactly one entry here once
	// type-checking completes).
	NodeTypes map[ir.NodeId]types.Type

	// VarTypes gives every variable-binding DefId (params, self, `:=`
	// locals, if-let pattern bindings) its Type. NameBinding carries only
	// mutability for BindVariable, so the checker is the single source of
	// variable types.
	VarTypes map[ir.DefId]types.Type

	// Constructors records, for a CallExpr or bare PathExpr node that names
	// a zero/non-zero-arg enum variant constructor, the variant's DefId —
	// the CFG builder needs this to find the variant's discriminant and
	// payload layout (spec §4.4, "Constructor lowering").
	Constructors map[ir.NodeId]ir.DefId
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{
		NodeTypes:    make(map[ir.NodeId]types.Type),
		VarTypes:     make(map[ir.DefId]types.Type),
		Constructors: make(map[ir.NodeId]ir.DefId),
	}
}

func (r *Result) setNodeType(n ir.NodeId, t types.Type) {
	r.mu.Lock()
	r.NodeTypes[n] = t
	r.mu.Unlock()
}

func (r *Result) setVarType(def ir.DefId, t types.Type) {
	r.mu.Lock()
	r.VarTypes[def] = t
	r.mu.Unlock()
}

func (r *Result) setConstructor(n ir.NodeId, def ir.DefId) {
	r.mu.Lock()
	r.Constructors[n] = def
	r.mu.Unlock()
}

// Run type-checks one file's functions and impl methods against the
// package-wide merged resolution state: the unit of work the pipeline's
// fan-out dispatches per file (spec §5).
func Run(file *preresolver.FileResult, merged *preresolver.Merged, res *resolver.Result, tyIn *types.Interner, syms *symbols.Interner, result *Result, diags *diagnostics.Bag) {
	w := &walker{
		merged: merged,
		res:    res,
		tyIn:   tyIn,
		syms:   syms,
		diags:  diags,
		result: result,
	}
	w.walkProgram(file.Program)
}
