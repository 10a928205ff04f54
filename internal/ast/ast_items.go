package ast

import "github.com/viskum-lang/viskumc/internal/ir"

// Param is one function parameter: a name and its type expression. `self`
// parameters are represented as a Param whose Name is "self"/"*self"/
// "mut self"/"*mut self" (spec §4.2, "self argument").
type Param struct {
	NodeID ir.NodeId
	Name   string
	IsSelf bool
	// SelfPtr/SelfMut only meaningful when IsSelf.
	SelfPtr bool
	SelfMut bool
	Type    TypeExpr // nil when IsSelf
}

// FnItem is `fn name(args) ret_ty { body }`, optionally tagged `.C` for a
// C-ABI-compatible definition (spec §4.2, §6).
type FnItem struct {
	Base
	Name       string
	Params     []Param
	Ret        TypeExpr // nil means void
	Body       []Stmt
	IsCABI     bool
	IsMain     bool
	ImplTarget string // set when this FnItem lives inside an ImplItem
}

func (*FnItem) itemNode() {}

// DeclareFnItem is `declare fn name(arg ty, ...) ret_ty`: an extern C
// prototype, with a trailing `...` allowed as a variadic marker. Parameter
// names carry no semantic weight (an extern has no body to bind them in)
// but are kept for `-dump-ast` fidelity with the source.
type DeclareFnItem struct {
	Base
	Name     string
	Params   []Param
	Variadic bool
	Ret      TypeExpr
}

func (*DeclareFnItem) itemNode() {}

// StructFieldDecl is one `field ty` entry in a struct declaration.
type StructFieldDecl struct {
	NodeID ir.NodeId
	Name   string
	Type   TypeExpr
}

// StructItem is `struct Name { field ty, ... }`.
type StructItem struct {
	Base
	Name   string
	Fields []StructFieldDecl
}

func (*StructItem) itemNode() {}

// EnumVariantDecl is one `Variant` or `Variant(T, ...)` entry.
type EnumVariantDecl struct {
	NodeID ir.NodeId
	Name   string
	Fields []TypeExpr
}

// EnumItem is `enum Name { Variant, Variant(T,...), ... }`.
type EnumItem struct {
	Base
	Name     string
	Variants []EnumVariantDecl
}

func (*EnumItem) itemNode() {}

// TypedefItem is `typedef Name ty`.
type TypedefItem struct {
	Base
	Name string
	Type TypeExpr
}

func (*TypedefItem) itemNode() {}

// ImplItem is `impl Path { fn ... }`.
type ImplItem struct {
	Base
	Target  string
	Methods []*FnItem
}

func (*ImplItem) itemNode() {}

// ImportItem is `import path [, path]* [from path]`.
type ImportItem struct {
	Base
	Paths []string
	From  string // empty when the `from` clause is absent
}

func (*ImportItem) itemNode() {}
