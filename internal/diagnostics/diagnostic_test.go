package diagnostics

import "testing"

func TestSpanMerge(t *testing.T) {
	a := Span{ByteStart: 2, ByteCount: 3, Line: 2, LineCount: 3}
	b := Span{ByteStart: 3, ByteCount: 4, Line: 3, LineCount: 5}
	got := Merge(a, b)
	if got.ByteStart != 2 || got.ByteCount != 5 {
		t.Fatalf("byte range = (%d,%d), want (2,5)", got.ByteStart, got.ByteCount)
	}
	if got.Line != 2 || got.LineCount != 6 {
		t.Fatalf("line range = (%d,%d), want (2,6)", got.Line, got.LineCount)
	}
}

func TestBagFlushWithNoImpactOnlyWaitsForFinalPass(t *testing.T) {
	b := &Bag{}
	b.Add(&Diagnostic{Kind: ErrInternal, Severity: NoImpact, Message: "minor"})

	if err := b.Flush(false); err != nil {
		t.Fatalf("non-final pass with only NoImpact should not flush, got %v", err)
	}
	if err := b.Flush(true); err == nil {
		t.Fatalf("final pass with NoImpact remaining should flush an error")
	}
}

func TestBagFlushFatalAlwaysStopsPipeline(t *testing.T) {
	b := &Bag{}
	b.Addf(ErrUndefinedLookup, Dummy(), "undefined symbol %q", "x")
	if err := b.Flush(false); err == nil {
		t.Fatalf("expected Fatal diagnostic to flush immediately")
	}
}
