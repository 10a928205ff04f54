// Package ast defines viskum's heterogeneous AST node set: statements,
// expressions, patterns, items and type expressions. Every node carries a
// NodeId; nodes are allocated from a per-file Arena and live until code
// emission completes (spec §3, "Lifecycle"). Grounded on funxy's
// internal/ast node shape (Node/Statement/Expression interfaces with
// TokenLiteral/Accept) generalized from funxy's dynamic node set to
// viskum's struct/enum/typedef/impl/pointer surface, and on
// original_source/src/ast for the concrete grammar.
package ast

import (
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/token"
)

// Phase tags how far a Program has progressed through the semantic passes.
// Later passes may only read the outputs of earlier passes; nothing here
// ever rewrites a node in place (spec §9, "Typestate on the AST").
type Phase int

const (
	PhaseParsed Phase = iota
	PhasePreResolved
	PhaseResolved
	PhaseTypeChecked
)

// Node is the Base interface every AST node implements.
type Node interface {
	ID() ir.NodeId
	Tok() token.Token
}

// Stmt is a Node appearing in statement position.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a Node appearing in expression position.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a Node appearing in pattern position (if-let, tuple-struct
// destructuring).
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a Node denoting a type in source (spec §6, "Type
// expressions").
type TypeExpr interface {
	Node
	typeExprNode()
}

// Item is a Node at package scope: fn, struct, enum, typedef, impl,
// declare fn, import.
type Item interface {
	Node
	itemNode()
}

// Base embeds the bookkeeping every node needs: its identity and the token
// it was parsed from (for error reporting and span computation). Exported
// so the parser package, which builds every concrete node, can construct
// it directly via NewBase.
type Base struct {
	NodeID ir.NodeId
	TokVal token.Token
}

// NewBase constructs the embeddable identity/token pair for a node about
// to be built from tok.
func NewBase(id ir.NodeId, tok token.Token) Base {
	return Base{NodeID: id, TokVal: tok}
}

func (b Base) ID() ir.NodeId    { return b.NodeID }
func (b Base) Tok() token.Token { return b.TokVal }

// Arena owns every node allocated while parsing one file. It is the Go
// analogue of original_source/src/ast/src/ast_arena.rs: a bump allocator
// that hands out sequential NodeIds for the file and is thread-confined to
// the single file-parsing task that owns it (spec §5, "AST arenas are
// thread-confined").
type Arena struct {
	mod    ir.ModId
	nextID uint32
}

// NewArena creates an Arena for file index mod.
func NewArena(mod ir.ModId) *Arena {
	return &Arena{mod: mod}
}

// NextID mints the next NodeId in this file.
func (a *Arena) NextID() ir.NodeId {
	id := ir.NodeId{Mod: a.mod, Local: a.nextID}
	a.nextID++
	return id
}

// Mod returns the file index this Arena mints NodeIds for.
func (a *Arena) Mod() ir.ModId { return a.mod }

// Program is the root of one parsed file.
type Program struct {
	Base
	File    string
	Mod     ir.ModId
	Imports []*ImportItem
	Items   []Item
	Phase   Phase
}
