// Package config holds the process-wide constants of the viskum toolchain:
// recognized source extension, reserved ADT names, builtin type-name
// symbols and the CLI version. Grounded on funxy's internal/config package
// layout (SourceFileExt, TrimSourceExt, Version).
package config

// Version is the current viskumc toolchain version.
var Version = "0.1.0"

// SourceFileExt is the recognized extension for viskum source files
// (spec §6, "File format").
const SourceFileExt = ".vs"

// HasSourceExt reports whether path ends with the recognized extension.
func HasSourceExt(path string) bool {
	return len(path) > len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}

// TrimSourceExt removes the source extension from name if present.
func TrimSourceExt(name string) string {
	if HasSourceExt(name) {
		return name[:len(name)-len(SourceFileExt)]
	}
	return name
}

// ReservedAdtNames are the primitive type names that user struct/enum/
// typedef declarations may not shadow (spec §3).
var ReservedAdtNames = []string{
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64",
	"float", "float32", "float64",
	"bool", "str", "void",
}

// Builtin identifier symbols used by more than one pass.
const (
	MainFnName   = "main"
	SelfValueName = "self"
	SelfTypeName  = "Self"
	PkgSymbolName = "pkg"
)

// OutputDir is the default directory the LLVM emitter and clang invocation
// write into (spec §6).
const OutputDir = "./viskum/dist"
