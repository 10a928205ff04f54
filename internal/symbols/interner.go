// Package symbols implements the process-wide, thread-safe string interner.
// It is grounded on original_source/src/ir/src/symbol.rs (Symbol::new,
// with_global_session) and on the concurrency contract of spec §5: "one lock
// protects the arena and a reader-writer lock protects the set/index."
package symbols

import "sync"

// Symbol is a process-wide interned, non-empty string id. Two Symbols are
// equal iff they were interned from byte-identical strings (spec §3,
// "Const-string deduplication").
type Symbol uint32

// Interner owns the string arena and the content -> Symbol index. It is
// safe for concurrent use from every parallel pass (spec §5: "Interning is
// the only hot shared path inside a pass").
type Interner struct {
	arenaMu sync.Mutex
	strs    []string

	indexMu sync.RWMutex
	index   map[string]Symbol
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		strs:  make([]string, 0, 1024),
		index: make(map[string]Symbol, 1024),
	}
}

// Intern returns the Symbol for s, creating one if this is the first
// occurrence. intern(x) == intern(x) for any two calls with equal x,
// regardless of calling goroutine (spec §9, "Interner concurrency").
func (in *Interner) Intern(s string) Symbol {
	in.indexMu.RLock()
	if sym, ok := in.index[s]; ok {
		in.indexMu.RUnlock()
		return sym
	}
	in.indexMu.RUnlock()

	in.indexMu.Lock()
	defer in.indexMu.Unlock()
	if sym, ok := in.index[s]; ok {
		return sym
	}

	in.arenaMu.Lock()
	sym := Symbol(len(in.strs))
	in.strs = append(in.strs, s)
	in.arenaMu.Unlock()

	in.index[s] = sym
	return sym
}

// Get resolves a Symbol back to its string. Panics if sym was never
// produced by this Interner — consumers never hold a Symbol from another
// interner instance.
func (in *Interner) Get(sym Symbol) string {
	in.arenaMu.Lock()
	defer in.arenaMu.Unlock()
	return in.strs[sym]
}

// reserved type-name symbols (spec §3: "may not be shadowed by user types").
var reservedTypeNames = []string{
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64",
	"float", "float32", "float64",
	"bool", "str", "void",
}

// ReservedTypeNames is the nominal-type symbol allowlist; typedef/struct/enum
// names must not collide with these.
func ReservedTypeNames() []string {
	out := make([]string, len(reservedTypeNames))
	copy(out, reservedTypeNames)
	return out
}

// IsReservedTypeName reports whether name is a reserved primitive ADT name.
func IsReservedTypeName(name string) bool {
	for _, r := range reservedTypeNames {
		if r == name {
			return true
		}
	}
	return false
}
