package diagnostics

import (
	"errors"
	"fmt"
	"sync"
)

// Diagnostic is one reported error, carrying its Kind, Severity and Span
// (spec §7).
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Span     Span
	Message  string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (line %d)", d.Kind, d.Message, d.Span.Line)
}

// New builds a Diagnostic with the default severity for kind.
func New(kind Kind, span Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Severity: severityOf(kind),
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Bag accumulates diagnostics from one pass task. It is safe for concurrent
// use: every parallel per-file/per-function task shares one Bag per pass
// (spec §5, "Global results are collected via a mutex-guarded vector").
type Bag struct {
	mu    sync.Mutex
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, d)
}

func (b *Bag) Addf(kind Kind, span Span, format string, args ...any) {
	b.Add(New(kind, span, format, args...))
}

// Items returns a defensive copy of the accumulated diagnostics.
func (b *Bag) Items() []*Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bag) HasFatal() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.items {
		if d.Severity == Fatal {
			return true
		}
	}
	return false
}

func (b *Bag) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items) == 0
}

// Flush returns a combined error once the pass boundary is reached: a
// non-nil error if any Fatal diagnostic was recorded, or if this is the
// final semantic pass and only NoImpact diagnostics remain (spec §7).
func (b *Bag) Flush(isFinalPass bool) error {
	items := b.Items()
	if len(items) == 0 {
		return nil
	}
	hasFatal := false
	for _, d := range items {
		if d.Severity == Fatal {
			hasFatal = true
			break
		}
	}
	if !hasFatal && !isFinalPass {
		return nil
	}
	errs := make([]error, len(items))
	for i, d := range items {
		errs[i] = d
	}
	return errors.Join(errs...)
}
