package types

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/ir"
)

func TestInternerReturnsIdenticalPointersForEqualTuples(t *testing.T) {
	in := NewInterner()
	a := in.Tuple([]Type{Int32, Bool})
	b := in.Tuple([]Type{Int32, Bool})
	if a != b {
		t.Fatalf("expected interned tuples to compare equal")
	}
}

func TestInternerDistinguishesDifferentPointerMutability(t *testing.T) {
	in := NewInterner()
	mutPtr := in.Ptr(Int32, ir.Mutable)
	immutPtr := in.Ptr(Int32, ir.Immutable)
	if mutPtr == immutPtr {
		t.Fatalf("expected *mut int32 and *int32 to be distinct interned types")
	}
}

func TestFieldsAttrUsesMaxAlignment(t *testing.T) {
	fields := []Type{Int8, Int32}
	agg, offsets := FieldsAttr(fields, func(ty Type) Attr { return PrimAttr(ty.Kind()) })
	if agg.Alignment != 4 {
		t.Fatalf("expected max alignment 4, got %d", agg.Alignment)
	}
	if offsets[0] != 0 || offsets[1] != 1 {
		t.Fatalf("unexpected packed offsets: %v", offsets)
	}
	if agg.Size != 5 {
		t.Fatalf("expected packed size 5, got %d", agg.Size)
	}
}
