package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Reporter prints diagnostics to a writer, colorizing when the writer is a
// terminal. Grounded on funxy's internal/evaluator/builtins_term.go use of
// github.com/mattn/go-isatty to detect an interactive terminal before
// emitting ANSI escapes.
type Reporter struct {
	w      io.Writer
	colors bool
}

// NewReporter builds a Reporter for w, auto-detecting color support when w
// is *os.File.
func NewReporter(w io.Writer) *Reporter {
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{w: w, colors: colors}
}

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Report prints every diagnostic in the bag, one per line.
func (r *Reporter) Report(file string, b *Bag) {
	r.ReportAll(file, b.Items())
}

// ReportAll prints a plain diagnostic slice, for callers (like the CLI)
// holding a pipeline.Result's already-drained Diags rather than a live Bag.
func (r *Reporter) ReportAll(file string, diags []*Diagnostic) {
	for _, d := range diags {
		r.reportOne(file, d)
	}
}

func (r *Reporter) reportOne(file string, d *Diagnostic) {
	if r.colors {
		fmt.Fprintf(r.w, "%s%s%s:%d: %s%serror[%s]:%s %s\n",
			ansiBold, file, ansiReset, d.Span.Line,
			ansiRed, ansiBold, d.Kind, ansiReset, d.Message)
		return
	}
	fmt.Fprintf(r.w, "%s:%d: error[%s]: %s\n", file, d.Span.Line, d.Kind, d.Message)
}
