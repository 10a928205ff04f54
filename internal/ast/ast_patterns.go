package ast

// IdentPat binds a new variable `name` to a matched value.
type IdentPat struct {
	Base
	Name string
}

func (*IdentPat) patternNode() {}

// TupleStructPat matches an enum variant (or tuple) by path and
// destructures its payload into sub-patterns: `O.Some(n)`.
type TupleStructPat struct {
	Base
	Path     []string
	SubPats  []Pattern
}

func (*TupleStructPat) patternNode() {}
