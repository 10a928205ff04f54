// Command viskumc compiles a single viskum package to a native binary:
// parse -> pre-resolve -> resolve -> type-check -> CFG-build -> LLVM
// textual IR -> clang (spec §6). Grounded on funxy's cmd/funxy/main.go
// panic-recovery wrapper and stderr+os.Exit(1) error reporting, retargeted
// from funxy's multi-mode (test/build/compile/run/eval/REPL) CLI to
// viskum's single positional entry-file contract.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/backend/llvm"
	"github.com/viskum-lang/viskumc/internal/buildlog"
	"github.com/viskum-lang/viskumc/internal/cfg"
	"github.com/viskum-lang/viskumc/internal/config"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/manifest"
	"github.com/viskum-lang/viskumc/internal/parser"
	"github.com/viskum-lang/viskumc/internal/pipeline"
	"github.com/viskum-lang/viskumc/internal/session"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "this is a viskumc bug, please report it")
			os.Exit(1)
		}
	}()

	dumpAST := flag.Bool("dump-ast", false, "print the parsed AST and exit")
	dumpCFG := flag.Bool("dump-cfg", false, "print the built CFG and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-dump-ast|-dump-cfg] <entry.vs>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	entry := flag.Arg(0)
	if !config.HasSourceExt(entry) {
		fmt.Fprintf(os.Stderr, "%s: not a %s file\n", entry, config.SourceFileExt)
		os.Exit(1)
	}

	text, err := os.ReadFile(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", entry, err)
		os.Exit(1)
	}

	sess := session.New(entry)
	rep := diagnostics.NewReporter(os.Stderr)

	if *dumpAST {
		diags := &diagnostics.Bag{}
		prog := parser.New(entry, string(text), 0, diags).ParseFile()
		if len(diags.Items()) > 0 {
			rep.ReportAll(entry, diags.Items())
		}
		ast.Print(os.Stdout, prog)
		return
	}

	m, err := manifest.Load(filepath.Dir(entry))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	pool := pipeline.NewPool()
	started := time.Now()
	result := pool.Run([]pipeline.Source{{File: entry, Text: string(text)}})

	logBuild(sess, started, result.Err, m)

	if len(result.Diags) > 0 {
		rep.ReportAll(entry, result.Diags)
	}
	if result.Err != nil {
		os.Exit(1)
	}
	if !result.Icfg.HasMain {
		fmt.Fprintln(os.Stderr, "no fn main found in package")
		os.Exit(1)
	}

	if *dumpCFG {
		cfg.Print(os.Stdout, result.Icfg)
		return
	}

	ir := llvm.EmitModule(result.Icfg, result.Merged, result.Res, pool.Syms)

	if err := os.MkdirAll(m.OutDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	irPath := filepath.Join(m.OutDir, "main.ll")
	if err := os.WriteFile(irPath, []byte(ir), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := invokeClang(irPath, m); err != nil {
		fmt.Fprintf(os.Stderr, "clang: %v\n", err)
		os.Exit(1)
	}
}

// invokeClang assembles and links the emitted IR into a native binary
// (spec §6: "clang -O0 -o ./viskum/dist/main").
func invokeClang(irPath string, m *manifest.Manifest) error {
	out := filepath.Join(m.OutDir, "main")
	args := []string{irPath, fmt.Sprintf("-O%d", m.Optimize), "-o", out}
	for _, lib := range m.Libs {
		args = append(args, "-l"+lib)
	}
	cmd := exec.Command("clang", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// logBuild appends one row to the build-history database alongside the
// output directory, best-effort: a build-log failure never fails the
// compile itself.
func logBuild(sess *session.Session, started time.Time, buildErr error, m *manifest.Manifest) {
	if err := os.MkdirAll(m.OutDir, 0o755); err != nil {
		return
	}
	log, err := buildlog.Open(filepath.Join(m.OutDir, "builds.sqlite"))
	if err != nil {
		return
	}
	defer log.Close()
	log.Record(sess.String(), sess.EntryFile, started, time.Since(started), buildErr)
}
