// Package diagnostics implements the Span/Diagnostic/Bag machinery shared
// by every pass (spec §7). Span is ported from
// original_source/src/span/src/lib.rs, trading the Rust bit-packed u64 for
// a plain struct: Go has no const-eval-friendly bit-packing idiom the
// corpus uses elsewhere, and an unpacked struct is both simpler and exactly
// as fast for the sizes viskum ever sees.
package diagnostics

import "github.com/viskum-lang/viskumc/internal/token"

// Span locates a diagnostic in source: a byte range and the line range it
// spans.
type Span struct {
	ByteStart uint32
	ByteCount uint32
	Line      uint32
	LineCount uint32
}

// Dummy is the zero-span, used when no better location is available.
func Dummy() Span { return Span{} }

// SpanOf builds the one-line Span a single token covers, the form every
// pass beyond the parser needs when it has only a Node's Tok() to report
// against.
func SpanOf(tok token.Token) Span {
	return Span{ByteStart: tok.ByteOff, ByteCount: uint32(len(tok.Lexeme)), Line: tok.Line, LineCount: 1}
}

func (s Span) ByteEnd() uint32 { return s.ByteStart + s.ByteCount }
func (s Span) LineEnd() uint32 { return s.Line + s.LineCount }

// Merge returns the smallest Span covering both a and b.
func Merge(a, b Span) Span {
	byteStart := a.ByteStart
	if b.ByteStart < byteStart {
		byteStart = b.ByteStart
	}
	byteEnd := a.ByteEnd()
	if b.ByteEnd() > byteEnd {
		byteEnd = b.ByteEnd()
	}

	line := a.Line
	if b.Line < line {
		line = b.Line
	}
	lineEnd := a.LineEnd()
	if b.LineEnd() > lineEnd {
		lineEnd = b.LineEnd()
	}

	return Span{
		ByteStart: byteStart,
		ByteCount: byteEnd - byteStart,
		Line:      line,
		LineCount: lineEnd - line,
	}
}
