package cfg

import (
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/types"
)

// variantPayloadOffset is the fixed byte offset every enum variant's
// payload starts at: 8 bytes for the i64 discriminant (spec §4.4, "ADT
// layout", pinned by spec §9's Open Questions).
const variantPayloadOffset = 8

// attrOf computes a Type's byte size/alignment, recursing into struct/enum/
// typedef definitions via res. Grounded on types.PrimAttr/types.FieldsAttr
// for primitives and tuples; extends the same rule to struct and enum ADTs
// (spec §4.4, "ADT layout").
func attrOf(t types.Type, res *resolver.Result) types.Attr {
	switch t.Kind() {
	case types.KTuple:
		agg, _ := types.FieldsAttr(t.Elems(), func(f types.Type) types.Attr { return attrOf(f, res) })
		return agg
	case types.KAdt:
		nb, ok := res.Bindings[t.Def()]
		if !ok || nb.Kind != types.BindAdt {
			return types.Attr{}
		}
		switch nb.Adt.Kind {
		case types.AdtStruct:
			agg, _ := types.FieldsAttr(fieldTypes(nb.Adt.StructFields), func(f types.Type) types.Attr {
				return attrOf(f, res)
			})
			return agg
		case types.AdtEnum:
			return enumAttr(nb.Adt, res)
		case types.AdtTypedef:
			return attrOf(nb.Adt.Underlying, res)
		default:
			return types.Attr{}
		}
	default:
		return types.PrimAttr(t.Kind())
	}
}

// SizeOf returns t's layout size in bytes: the LLVM emitter's byte-buffer
// array length for Tuple/Adt locals and results (spec §6, "Tuple/Adt →
// [size x i8]").
func SizeOf(t types.Type, res *resolver.Result) int {
	return attrOf(t, res).Size
}

func fieldTypes(fields []types.StructField) []types.Type {
	out := make([]types.Type, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

// enumAttr computes an enum's overall size as 8 (discriminant) + the widest
// variant payload, pinned by spec §9's Open Questions over the source's
// uniform-representation assumption. Alignment is the maximum of 8 (the
// discriminant's own alignment) and every variant payload's alignment, kept
// consistent with layout.go's struct/tuple rule of widening to the maximum
// field alignment rather than the source's minimum.
func enumAttr(adt types.Adt, res *resolver.Result) types.Attr {
	maxPayload := 0
	maxAlign := variantPayloadOffset
	for _, variantDef := range adt.Variants {
		vnb, ok := res.Bindings[variantDef]
		if !ok || vnb.Kind != types.BindAdt {
			continue
		}
		payload, _ := types.FieldsAttr(vnb.Adt.VariantFields, func(f types.Type) types.Attr {
			return attrOf(f, res)
		})
		if payload.Size > maxPayload {
			maxPayload = payload.Size
		}
		if payload.Alignment > maxAlign {
			maxAlign = payload.Alignment
		}
	}
	return types.Attr{Size: variantPayloadOffset + maxPayload, Alignment: maxAlign}
}

// variantFieldOffsets returns each of a variant's payload fields' byte
// offset, relative to the start of the enum value (i.e. already including
// variantPayloadOffset).
func variantFieldOffsets(fields []types.Type, res *resolver.Result) []int {
	_, offsets := types.FieldsAttr(fields, func(f types.Type) types.Attr { return attrOf(f, res) })
	for i := range offsets {
		offsets[i] += variantPayloadOffset
	}
	return offsets
}

// structFieldOffsets returns each field's byte offset within an AdtStruct.
func structFieldOffsets(adt types.Adt, res *resolver.Result) []int {
	_, offsets := types.FieldsAttr(fieldTypes(adt.StructFields), func(f types.Type) types.Attr {
		return attrOf(f, res)
	})
	return offsets
}

// tupleFieldOffsets returns each element's byte offset within a Tuple type.
func tupleFieldOffsets(elems []types.Type, res *resolver.Result) []int {
	_, offsets := types.FieldsAttr(elems, func(f types.Type) types.Attr { return attrOf(f, res) })
	return offsets
}
