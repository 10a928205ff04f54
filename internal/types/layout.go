package types

// Attr is the byte-precise size/alignment of a Type, grounded on
// original_source/src/ir/src/ty.rs's `TyAttr`/`GetTyAttr`.
//
// Layout policy (spec §9, Open Questions, pinned down): tuple/struct
// alignment is the MAXIMUM field alignment, not the minimum the original
// source used — the spec calls the minimum rule a bug. Field offsets are
// packed (no padding) in declaration order; only the aggregate's own
// alignment is widened to the maximum field alignment, so that an ADT
// nested inside another ADT still aligns correctly when it starts its own
// layout at offset 0.
type Attr struct {
	Size      int
	Alignment int
}

// PrimAttr returns the fixed size/alignment of a primitive Kind (spec §4.4).
func PrimAttr(k Kind) Attr {
	switch k {
	case KInt8, KUint8, KBool:
		return Attr{1, 1}
	case KInt16, KUint16:
		return Attr{2, 2}
	case KInt32, KUint32, KFloat32:
		return Attr{4, 4}
	case KInt64, KUint64, KFloat64, KStr:
		return Attr{8, 8}
	case KVoid:
		return Attr{0, 0}
	case KPtr, KManyPtr, KStackPtr, KFnDef, KFnSig:
		return Attr{8, 8}
	default:
		return Attr{0, 0}
	}
}

// FieldsAttr lays out an ordered field-type list as a tuple/struct would:
// returns the aggregate Attr and, via offsets, each field's byte offset.
func FieldsAttr(fields []Type, fieldAttr func(Type) Attr) (agg Attr, offsets []int) {
	offsets = make([]int, len(fields))
	size := 0
	maxAlign := 1
	for i, f := range fields {
		a := fieldAttr(f)
		offsets[i] = size
		size += a.Size
		if a.Alignment > maxAlign {
			maxAlign = a.Alignment
		}
	}
	if len(fields) == 0 {
		maxAlign = 0
	}
	return Attr{Size: size, Alignment: maxAlign}, offsets
}
