package cfg

import (
	"fmt"
	"io"
	"sort"

	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// sortedLocalIds and sortedResultIds give Print a deterministic walk order
// over LocalTypes/ResultTypes, whose map iteration order is otherwise
// unspecified (mirrors the LLVM emitter's own alloca-ordering helpers in
// internal/backend/llvm).
func sortedLocalIds(m map[ir.LocalMemId]types.Type) []ir.LocalMemId {
	out := make([]ir.LocalMemId, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedResultIds(m map[ir.ResultMemId]types.Type) []ir.ResultMemId {
	out := make([]ir.ResultMemId, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Print renders icfg as indented text for the `-dump-cfg` CLI flag
// (SPEC_FULL.md §6). Grounded on
// original_source/src/icfg/src/icfg_prettifier.rs's block-by-block,
// node-by-node walk.
func Print(w io.Writer, icfg *Icfg) {
	for def, c := range icfg.Funcs {
		tag := ""
		if icfg.HasMain && def == icfg.MainFn {
			tag = " (main)"
		}
		fmt.Fprintf(w, "fn %v%s\n", def, tag)
		for _, local := range sortedLocalIds(c.LocalTypes) {
			fmt.Fprintf(w, "  local%d: %s\n", local, c.LocalTypes[local])
		}
		for _, result := range sortedResultIds(c.ResultTypes) {
			fmt.Fprintf(w, "  result%d: %s\n", result, c.ResultTypes[result])
		}
		for _, bb := range c.Blocks {
			fmt.Fprintf(w, "  bb%d:\n", bb.ID)
			for _, n := range bb.Nodes {
				fmt.Fprintf(w, "    %s\n", printNode(n))
			}
		}
	}
}

func printNode(n Node) string {
	switch v := n.(type) {
	case *StoreNode:
		return fmt.Sprintf("store %s <- %s : %s", v.Setter, v.Value, v.Ty)
	case *LoadNode:
		return fmt.Sprintf("%s = load %s : %s", TempPlace(v.Result), v.From, v.Ty)
	case *BinaryNode:
		return fmt.Sprintf("%s = %s %s %s : %s", TempPlace(v.Result), v.Lhs, v.Op, v.Rhs, v.Ty)
	case *BranchCondNode:
		return fmt.Sprintf("brcond %s -> bb%d, bb%d", v.Cond, v.TrueBB, v.FalseBB)
	case *BranchNode:
		return fmt.Sprintf("br bb%d", v.BB)
	case *ReturnNode:
		if v.Value == nil {
			return "ret"
		}
		return fmt.Sprintf("ret %s", *v.Value)
	case *CallNode:
		return fmt.Sprintf("%s = call %s(%s) : %s", TempPlace(v.Result), v.Callee, joinOperands(v.Args), v.RetTy)
	case *IndexNode:
		return fmt.Sprintf("%s = index %s[%s] : %s", TempPlace(v.Result), v.Base, v.Index, v.ElemTy)
	case *ByteAccessNode:
		return fmt.Sprintf("%s = byteaccess %s+%d : %s", TempPlace(v.Result), v.Base, v.ByteOffset, v.Ty)
	case *TyCastNode:
		kind := "sext"
		if v.Kind == Trunc {
			kind = "trunc"
		}
		return fmt.Sprintf("%s = %s %s : %s -> %s", TempPlace(v.Result), kind, v.Operand, v.FromTy, v.ToTy)
	default:
		return fmt.Sprintf("<node %T>", n)
	}
}

func joinOperands(ops []Operand) string {
	out := ""
	for i, o := range ops {
		if i > 0 {
			out += ", "
		}
		out += o.String()
	}
	return out
}
