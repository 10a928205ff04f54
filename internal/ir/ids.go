// Package ir holds the IR vocabulary shared by every semantic pass: NodeId,
// DefId, Symbol identity, LexicalContext, NameBinding and the CFG place
// kinds. Grounded on original_source/src/ir/src/ir_defs.rs.
package ir

import (
	"fmt"

	"github.com/viskum-lang/viskumc/internal/symbols"
)

// ModId identifies a file within a package by its index in the package's
// file list.
type ModId uint32

// NodeId uniquely identifies an AST node: (file, index within file).
type NodeId struct {
	Mod   ModId
	Local uint32
}

func (n NodeId) String() string { return fmt.Sprintf("n%d.%d", n.Mod, n.Local) }

// DefId is the stable identity of a definition: the symbol it binds plus the
// NodeId of its binding site. Two DefIds are equal iff both parts are equal.
type DefId struct {
	Symbol symbols.Symbol
	Node   NodeId
}

func (d DefId) String() string { return fmt.Sprintf("def(%d@%s)", d.Symbol, d.Node) }

// ScopeId and ContextId are monotonically increasing counters minted by the
// pre-resolver (spec §3, "Lexical Contexts").
type ScopeId uint32
type ContextId uint32

// LexicalContext locates a use-site on the scope/context forest rooted at
// the package scope (0,0).
type LexicalContext struct {
	Context ContextId
	Scope   ScopeId
}

// PackageContext is the root lexical context every top-level binding lives
// in.
var PackageContext = LexicalContext{Context: 0, Scope: 0}

// ResKind classifies what a lexical lookup is searching for (spec §3).
type ResKind int

const (
	ResVariable ResKind = iota
	ResConstVariable
	ResFn
	ResAdt
	ResConstStr // declared but never exercised at lookup time (spec §9, Open Questions)
)

func (k ResKind) String() string {
	switch k {
	case ResVariable:
		return "Variable"
	case ResConstVariable:
		return "ConstVariable"
	case ResFn:
		return "Fn"
	case ResAdt:
		return "Adt"
	case ResConstStr:
		return "ConstStr"
	default:
		return "?"
	}
}

// LexicalBinding is the key a lookup searches by: the context it is
// performed in, the symbol being looked up, and the class of binding
// sought.
type LexicalBinding struct {
	Context LexicalContext
	Symbol  symbols.Symbol
	Kind    ResKind
}

// Mutability distinguishes `name := e` (Immutable) from `mut name := e`
// and pointer qualifiers `*T` / `*mut T`.
type Mutability int

const (
	Immutable Mutability = iota
	Mutable
)

func (m Mutability) String() string {
	if m == Mutable {
		return "mut"
	}
	return "immut"
}

// Externism tags how a function crosses the C ABI boundary (spec §3).
type Externism int

const (
	ExternNone Externism = iota
	ExternCLib           // `fn .C name(...)` or `declare fn name(...)`
)

// TraitImplId identifies one inherent impl block. The Trait component is
// reserved for future use (spec glossary) and is always nil for viskum's
// inherent-impl-only surface.
type TraitImplId struct {
	Implementor DefId
	Trait       *DefId
}

// HasSelfArg records whether a registered impl method takes a `self`
// receiver (by value or pointer).
type HasSelfArg bool

// CFG place identities (spec §4.4).
type TempId uint32
type LocalMemId uint32
type ResultMemId uint32
type BasicBlockId uint32
