// Package pipeline drives the four-pass compiler middle-end in parallel
// (spec §5): Pool fans a per-file task out across an errgroup-managed
// worker set for parse/pre-resolve/resolve/type-check, then fans a
// per-file task out for CFG building, merging each phase's results
// single-threaded before the next phase starts. Grounded on
// cue-lang/cue's errgroup.Group pool usage (cmd/cue/cmd/custom.go),
// generalized from funxy's sequential Pipeline/Processor chain
// (internal/pipeline, now superseded) into a fan-out/merge/fan-out shape.
package pipeline

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/cfg"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/parser"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/typecheck"
	"github.com/viskum-lang/viskumc/internal/types"
)

// Source is one input file the pipeline parses, named for diagnostics.
type Source struct {
	File string
	Text string
}

// Result is the package-wide outcome of running every pass over a full
// set of Sources: the built Icfg plus every diagnostic any phase raised.
// Err is non-nil once any phase's Bag carries a Fatal diagnostic (spec
// §7), at which point later phases are never run.
type Result struct {
	Icfg   *cfg.Icfg
	Merged *preresolver.Merged
	Res    *resolver.Result
	Diags  []*diagnostics.Diagnostic
	Err    error
}

// Pool is the parallel pass driver. One Pool runs exactly one compile: its
// interners and diagnostic bag are shared, mutex-guarded state that every
// fanned-out task writes into (spec §5, "shared process-wide interners").
type Pool struct {
	Syms *symbols.Interner
	Tys  *types.Interner

	// Concurrency caps the errgroup's in-flight goroutines per phase.
	// Zero means runtime.GOMAXPROCS(0), spec §5's default.
	Concurrency int
}

// NewPool creates a Pool with fresh interners.
func NewPool() *Pool {
	return &Pool{
		Syms: symbols.NewInterner(),
		Tys:  types.NewInterner(),
	}
}

func (p *Pool) concurrency() int {
	if p.Concurrency > 0 {
		return p.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// Run compiles sources end to end: parse, pre-resolve, merge, resolve,
// type-check, then CFG-build every function and method body (spec §5's
// four-pass pipeline; every phase is fanned out per file).
func (p *Pool) Run(sources []Source) Result {
	diags := &diagnostics.Bag{}

	programs, err := p.runParse(sources, diags)
	if err != nil {
		return Result{Diags: diags.Items(), Err: err}
	}

	frs, err := p.runPreresolve(programs, diags)
	if err != nil {
		return Result{Diags: diags.Items(), Err: err}
	}

	merged := preresolver.Merge(frs, p.Syms, diags)
	if err := diags.Flush(false); err != nil {
		return Result{Merged: merged, Diags: diags.Items(), Err: err}
	}

	res := resolver.NewResult(p.Tys)
	if err := p.runResolve(frs, merged, res, diags); err != nil {
		return Result{Merged: merged, Res: res, Diags: diags.Items(), Err: err}
	}
	resolver.RegisterConstStrings(merged, res)

	tc := typecheck.NewResult()
	if err := p.runTypecheck(frs, merged, res, tc, diags); err != nil {
		return Result{Merged: merged, Res: res, Diags: diags.Items(), Err: err}
	}

	icfg := cfg.NewIcfg()
	icfg.SetExterns(collectExterns(merged))
	if res.HasMain {
		icfg.SetMain(res.MainFn)
	}
	if err := p.runCfgBuild(frs, merged, res, tc, icfg, diags); err != nil {
		return Result{Icfg: icfg, Merged: merged, Res: res, Diags: diags.Items(), Err: err}
	}

	if err := diags.Flush(true); err != nil {
		return Result{Icfg: icfg, Merged: merged, Res: res, Diags: diags.Items(), Err: err}
	}
	return Result{Icfg: icfg, Merged: merged, Res: res, Diags: diags.Items()}
}

// runParse fans Source -> *ast.Program out across the worker set. Each
// file gets its own ModId, the parser arena's namespace for NodeIds
// (spec §4.1).
func (p *Pool) runParse(sources []Source, diags *diagnostics.Bag) ([]*ast.Program, error) {
	out := make([]*ast.Program, len(sources))
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency())
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			pr := parser.New(src.File, src.Text, ir.ModId(i), diags)
			out[i] = pr.ParseFile()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, diags.Flush(false)
}

// runPreresolve fans pass 1 out per file. ids is shared across every
// fanned-out task so minted ContextId/ScopeId values never collide
// between files (spec §4.1).
func (p *Pool) runPreresolve(programs []*ast.Program, diags *diagnostics.Bag) ([]*preresolver.FileResult, error) {
	ids := preresolver.NewIDAllocator()
	var mu sync.Mutex
	results := make([]*preresolver.FileResult, len(programs))
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency())
	for i, prog := range programs {
		i, prog := i, prog
		g.Go(func() error {
			fr := preresolver.Run(prog, p.Syms, ids, diags)
			mu.Lock()
			results[i] = fr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, diags.Flush(false)
}

// runResolve fans pass 2 out per file against the package-wide merged
// state. res's maps and its MainSlot are mutex-guarded, so every task
// writes into the same Result concurrently (spec §4.2 step 4, "race to
// claim main").
func (p *Pool) runResolve(frs []*preresolver.FileResult, merged *preresolver.Merged, res *resolver.Result, diags *diagnostics.Bag) error {
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency())
	for _, fr := range frs {
		fr := fr
		g.Go(func() error {
			resolver.Run(fr, merged, p.Tys, p.Syms, res, diags)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return diags.Flush(false)
}

// runTypecheck fans pass 3 out per file.
func (p *Pool) runTypecheck(frs []*preresolver.FileResult, merged *preresolver.Merged, res *resolver.Result, tc *typecheck.Result, diags *diagnostics.Bag) error {
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency())
	for _, fr := range frs {
		fr := fr
		g.Go(func() error {
			typecheck.Run(fr, merged, res, p.Tys, p.Syms, tc, diags)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return diags.Flush(false)
}

// runCfgBuild fans pass 4 out per file (cfg.Build already walks a whole
// file's functions per call, so the file is this phase's dispatch
// granularity in practice, same as the earlier three passes).
func (p *Pool) runCfgBuild(frs []*preresolver.FileResult, merged *preresolver.Merged, res *resolver.Result, tc *typecheck.Result, icfg *cfg.Icfg, diags *diagnostics.Bag) error {
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency())
	for _, fr := range frs {
		fr := fr
		g.Go(func() error {
			cfg.Build(fr, merged, res, tc, p.Tys, p.Syms, icfg, diags)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return diags.Flush(true)
}

// collectExterns gathers every declare-fn's DefId across the merged
// package into the Icfg's Externs table (spec §4.4). Run single-threaded
// after the resolve phase's fan-out has completed.
func collectExterns(merged *preresolver.Merged) []ir.DefId {
	var externs []ir.DefId
	for _, fr := range merged.Programs {
		for _, item := range fr.Program.Items {
			if n, ok := item.(*ast.DeclareFnItem); ok {
				if def, ok := merged.Defs[n.ID()]; ok {
					externs = append(externs, def)
				}
			}
		}
	}
	return externs
}
