package cfg

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/types"
)

func defAt(local uint32) ir.DefId {
	return ir.DefId{Symbol: 1, Node: ir.NodeId{Mod: 0, Local: local}}
}

// TestTupleFieldOffsetsArePacked exercises FieldsAttr's packed-field rule
// (spec §4.4): no padding between fields, only the aggregate's own
// alignment widens to the maximum field alignment.
func TestTupleFieldOffsetsArePacked(t *testing.T) {
	tyIn := types.NewInterner()
	res := resolver.NewResult(tyIn)
	tuple := tyIn.Tuple([]types.Type{types.Int8, types.Int32, types.Int8})

	attr := attrOf(tuple, res)
	if attr.Size != 6 {
		t.Fatalf("got size %d, want 6", attr.Size)
	}
	if attr.Alignment != 4 {
		t.Fatalf("got alignment %d, want 4 (max field alignment)", attr.Alignment)
	}

	offsets := tupleFieldOffsets(tuple.Elems(), res)
	want := []int{0, 1, 5}
	for i, w := range want {
		if offsets[i] != w {
			t.Fatalf("field %d: got offset %d, want %d", i, offsets[i], w)
		}
	}
}

// TestStructFieldOffsetsMatchDeclarationOrder exercises attrOf's AdtStruct
// branch, resolving field layout through a resolver.Result binding rather
// than a bare Tuple.
func TestStructFieldOffsetsMatchDeclarationOrder(t *testing.T) {
	tyIn := types.NewInterner()
	res := resolver.NewResult(tyIn)

	structDef := defAt(1)
	res.Bindings[structDef] = &types.NameBinding{
		Kind: types.BindAdt,
		Adt: types.Adt{
			Kind: types.AdtStruct,
			StructFields: []types.StructField{
				{Def: defAt(2), Type: types.Int64},
				{Def: defAt(3), Type: types.Bool},
				{Def: defAt(4), Type: types.Int32},
			},
		},
	}
	structTy := tyIn.Adt(structDef)

	attr := attrOf(structTy, res)
	if attr.Size != 13 {
		t.Fatalf("got size %d, want 13 (8 + 1 + 4, packed)", attr.Size)
	}
	if attr.Alignment != 8 {
		t.Fatalf("got alignment %d, want 8", attr.Alignment)
	}

	nb := res.Bindings[structDef]
	offsets := structFieldOffsets(nb.Adt, res)
	want := []int{0, 8, 9}
	for i, w := range want {
		if offsets[i] != w {
			t.Fatalf("field %d: got offset %d, want %d", i, offsets[i], w)
		}
	}
}

// TestEnumSizeIsDiscriminantPlusWidestVariant exercises enumAttr's pinned
// layout rule (spec §9, Open Questions): size is 8 (i64 discriminant) plus
// the widest variant payload, not a uniform per-variant representation.
func TestEnumSizeIsDiscriminantPlusWidestVariant(t *testing.T) {
	tyIn := types.NewInterner()
	res := resolver.NewResult(tyIn)

	small := defAt(2) // Circle(int32): payload size 4, align 4
	res.Bindings[small] = &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtEnumVariant, VariantIndex: 0, VariantFields: []types.Type{types.Int32}},
	}
	wide := defAt(3) // Rect(int64, int8): payload size 9, align 8
	res.Bindings[wide] = &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtEnumVariant, VariantIndex: 1, VariantFields: []types.Type{types.Int64, types.Int8}},
	}

	enumDef := defAt(1)
	res.Bindings[enumDef] = &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtEnum, Variants: []ir.DefId{small, wide}},
	}
	enumTy := tyIn.Adt(enumDef)

	attr := attrOf(enumTy, res)
	if attr.Size != 17 {
		t.Fatalf("got size %d, want 17 (8 + 9)", attr.Size)
	}
	if attr.Alignment != 8 {
		t.Fatalf("got alignment %d, want 8", attr.Alignment)
	}

	offsets := variantFieldOffsets(res.Bindings[wide].Adt.VariantFields, res)
	want := []int{8, 16}
	for i, w := range want {
		if offsets[i] != w {
			t.Fatalf("variant field %d: got offset %d, want %d (variantPayloadOffset-relative)", i, offsets[i], w)
		}
	}
}

// TestEnumWithEmptyVariantsHasNoPayload covers the degenerate case: every
// variant has zero fields, so the enum is just its 8-byte discriminant.
func TestEnumWithEmptyVariantsHasNoPayload(t *testing.T) {
	tyIn := types.NewInterner()
	res := resolver.NewResult(tyIn)

	variant := defAt(2)
	res.Bindings[variant] = &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtEnumVariant, VariantIndex: 0},
	}
	enumDef := defAt(1)
	res.Bindings[enumDef] = &types.NameBinding{
		Kind: types.BindAdt,
		Adt:  types.Adt{Kind: types.AdtEnum, Variants: []ir.DefId{variant}},
	}
	enumTy := tyIn.Adt(enumDef)

	attr := attrOf(enumTy, res)
	if attr.Size != 8 {
		t.Fatalf("got size %d, want 8 (bare discriminant)", attr.Size)
	}
}

func TestSizeOfPublicWrapperMatchesAttrOf(t *testing.T) {
	tyIn := types.NewInterner()
	res := resolver.NewResult(tyIn)
	tuple := tyIn.Tuple([]types.Type{types.Int64, types.Int64})
	if SizeOf(tuple, res) != 16 {
		t.Fatalf("got %d, want 16", SizeOf(tuple, res))
	}
}
