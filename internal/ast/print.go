package ast

import (
	"fmt"
	"io"
	"strings"
)

// Print renders prog as indented text for the `-dump-ast` CLI flag
// (SPEC_FULL.md §6). Grounded on
// original_source/src/ast/src/ast_prettifier.rs.
func Print(w io.Writer, prog *Program) {
	fmt.Fprintf(w, "program %s\n", prog.File)
	for _, imp := range prog.Imports {
		fmt.Fprintf(w, "  import %s\n", strings.Join(imp.Paths, ", "))
	}
	for _, it := range prog.Items {
		printItem(w, it, 1)
	}
}

func indent(w io.Writer, depth int) {
	fmt.Fprint(w, strings.Repeat("  ", depth))
}

func printItem(w io.Writer, it Item, depth int) {
	indent(w, depth)
	switch n := it.(type) {
	case *FnItem:
		tag := ""
		if n.IsCABI {
			tag = " .C"
		}
		fmt.Fprintf(w, "fn%s %s(%d params)\n", tag, n.Name, len(n.Params))
		for _, s := range n.Body {
			printStmt(w, s, depth+1)
		}
	case *DeclareFnItem:
		fmt.Fprintf(w, "declare fn %s(%d params variadic=%v)\n", n.Name, len(n.Params), n.Variadic)
	case *StructItem:
		fmt.Fprintf(w, "struct %s (%d fields)\n", n.Name, len(n.Fields))
	case *EnumItem:
		fmt.Fprintf(w, "enum %s (%d variants)\n", n.Name, len(n.Variants))
	case *TypedefItem:
		fmt.Fprintf(w, "typedef %s\n", n.Name)
	case *ImplItem:
		fmt.Fprintf(w, "impl %s\n", n.Target)
		for _, m := range n.Methods {
			printItem(w, m, depth+1)
		}
	case *ImportItem:
		fmt.Fprintf(w, "import %s\n", strings.Join(n.Paths, ", "))
	default:
		fmt.Fprintf(w, "<item %T>\n", it)
	}
}

func printStmt(w io.Writer, s Stmt, depth int) {
	indent(w, depth)
	switch n := s.(type) {
	case *DefineStmt:
		mut := ""
		if n.Mut {
			mut = "mut "
		}
		fmt.Fprintf(w, "%s%s := <expr>\n", mut, n.Name)
	case *AssignStmt:
		fmt.Fprintf(w, "<expr> = <expr>\n")
	case *ExprStmt:
		fmt.Fprintf(w, "<expr stmt %T>\n", n.X)
	default:
		fmt.Fprintf(w, "<stmt %T>\n", s)
	}
}
