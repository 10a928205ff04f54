// Package llvm is the textual LLVM IR backend (spec §6, "LLVM textual IR
// contract"): it walks a built Icfg and renders one `.ll` module, then
// shells out to clang to assemble and link it. Grounded on funxy's
// internal/backend package shape (backend.go's Backend interface,
// vmbackend.go choosing a concrete backend at runtime), generalized from
// selecting among bytecode-VM/tree-walk execution backends to emitting one
// fixed LLVM-IR backend, and on original_source/src/codegen/src/lib.rs for
// the concrete IR text this package must produce.
package llvm

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/cfg"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/preresolver"
	"github.com/viskum-lang/viskumc/internal/resolver"
	"github.com/viskum-lang/viskumc/internal/symbols"
	"github.com/viskum-lang/viskumc/internal/types"
)

// emitter accumulates one module's textual IR.
type emitter struct {
	sb    strings.Builder
	res   *resolver.Result
	syms  *symbols.Interner
	names map[ir.DefId]string

	// curRetTy/curIsMain hold the function currently being emitted's return
	// type and whether it is the forced-i32 main entry point, consulted by
	// emitReturn since ReturnNode itself carries no type.
	curRetTy  types.Type
	curIsMain bool

	// synth counts synthetic SSA names the emitter mints for intermediate
	// values a Node doesn't itself name (the i1 truncation a branch
	// condition needs, the i1 an icmp/fcmp produces before its zext).
	synth int
}

// EmitModule renders icfg as one LLVM textual IR module (spec §6): a
// `declare` line per C-lib extern, a private constant per interned string,
// and a `define` per lowered function, with `main` always typed
// `i32 @main()` returning 0 regardless of the source function's own
// (always-Void) signature.
func EmitModule(icfg *cfg.Icfg, merged *preresolver.Merged, res *resolver.Result, syms *symbols.Interner) string {
	e := &emitter{res: res, syms: syms, names: make(map[ir.DefId]string)}

	e.sb.WriteString("; generated by viskumc, do not edit\n\n")

	e.emitConstStrings(merged)
	e.emitExterns(icfg)

	defs := make([]ir.DefId, 0, len(icfg.Funcs))
	for def := range icfg.Funcs {
		defs = append(defs, def)
	}
	sortDefs(defs)
	for _, def := range defs {
		e.emitFn(def, icfg.Funcs[def], def == icfg.MainFn && icfg.HasMain)
	}

	return e.sb.String()
}

func sortDefs(defs []ir.DefId) {
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Node.Mod != defs[j].Node.Mod {
			return defs[i].Node.Mod < defs[j].Node.Mod
		}
		return defs[i].Node.Local < defs[j].Node.Local
	})
}

// nameOf derives a valid, stable LLVM global symbol name from a DefId:
// the source identifier text for readability, disambiguated by the
// DefId's (mod, node) coordinates since viskum allows no two definitions
// to collide in scope but methods of the same name on different types do
// share a symbol text.
func (e *emitter) nameOf(def ir.DefId) string {
	if n, ok := e.names[def]; ok {
		return n
	}
	raw := e.syms.Get(def.Symbol)
	var sb strings.Builder
	for _, r := range raw {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	name := fmt.Sprintf("%s_%d_%d", sb.String(), def.Node.Mod, def.Node.Local)
	e.names[def] = name
	return name
}

// emitConstStrings renders one private unnamed_addr constant per interned
// string literal (spec §6): "strings carry explicit \NN escapes and a
// terminating \00".
func (e *emitter) emitConstStrings(merged *preresolver.Merged) {
	type entry struct {
		text string
		def  ir.DefId
	}
	var entries []entry
	for text, def := range merged.ConstStrs {
		entries = append(entries, entry{text, def})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].def.Node.Mod != entries[j].def.Node.Mod {
			return entries[i].def.Node.Mod < entries[j].def.Node.Mod
		}
		return entries[i].def.Node.Local < entries[j].def.Node.Local
	})
	for _, en := range entries {
		escaped, n := escapeLLVMString(en.text)
		fmt.Fprintf(&e.sb, "@%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"\n",
			e.nameOf(en.def), n+1, escaped)
	}
	if len(entries) > 0 {
		e.sb.WriteString("\n")
	}
}

// escapeLLVMString renders s as an LLVM c-string body (every byte either
// printable ASCII or a \NN hex escape) and returns its raw byte count
// (excluding the terminating \00 the caller appends).
func escapeLLVMString(s string) (string, int) {
	var sb strings.Builder
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		n++
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\%02X", c)
		}
	}
	return sb.String(), n
}

// emitExterns renders one `declare` per C-lib extern prototype (spec §6).
func (e *emitter) emitExterns(icfg *cfg.Icfg) {
	for _, def := range icfg.Externs {
		nb, ok := e.res.Bindings[def]
		if !ok {
			continue
		}
		args := nb.Sig.Args()
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if a.Kind() == types.KVariadicArgs {
				parts = append(parts, "...")
				continue
			}
			parts = append(parts, e.llType(a))
		}
		fmt.Fprintf(&e.sb, "declare %s @%s(%s)\n", e.llType(nb.Sig.Ret()), e.nameOf(def), strings.Join(parts, ", "))
	}
	if len(icfg.Externs) > 0 {
		e.sb.WriteString("\n")
	}
}

// llType maps a viskum Type to its LLVM textual type (spec §6's
// primitive-to-LLVM-type mapping table).
func (e *emitter) llType(t types.Type) string {
	switch t.Kind() {
	case types.KBool, types.KInt8, types.KUint8:
		return "i8"
	case types.KInt16, types.KUint16:
		return "i16"
	case types.KInt32, types.KUint32:
		return "i32"
	case types.KInt64, types.KUint64:
		return "i64"
	case types.KFloat32:
		return "float"
	case types.KFloat64:
		return "double"
	case types.KVoid:
		return "void"
	case types.KPtr, types.KManyPtr, types.KStackPtr, types.KNull, types.KFnDef, types.KFnSig, types.KStr:
		return "ptr"
	case types.KTuple, types.KAdt:
		return fmt.Sprintf("[%d x i8]", cfg.SizeOf(t, e.res))
	default:
		return "ptr"
	}
}

// emitFn renders one function's `define` (spec §6). isMain forces the
// `i32 @main()` signature/return-0 contract regardless of the function's
// own (always-Void) declared return type.
func (e *emitter) emitFn(def ir.DefId, c *cfg.Cfg, isMain bool) {
	nb := e.res.Bindings[def]

	e.curRetTy = nb.Sig.Ret()
	e.curIsMain = isMain

	name := e.nameOf(def)
	retTy := e.llType(e.curRetTy)
	if isMain {
		name = "main"
		retTy = "i32"
	}

	params := make([]string, len(c.ParamLocals))
	for i, local := range c.ParamLocals {
		params[i] = fmt.Sprintf("%s %s", e.llType(c.LocalTypes[local]), cfg.TempPlace(ir.TempId(i)))
	}

	fmt.Fprintf(&e.sb, "define %s @%s(%s) {\n", retTy, name, strings.Join(params, ", "))

	for _, local := range sortedLocalIds(c.LocalTypes) {
		fmt.Fprintf(&e.sb, "  %s = alloca %s\n", cfg.LocalPlace(local), e.llType(c.LocalTypes[local]))
	}
	for _, result := range sortedResultIds(c.ResultTypes) {
		fmt.Fprintf(&e.sb, "  %s = alloca %s\n", cfg.ResultPlace(result), e.llType(c.ResultTypes[result]))
	}

	for _, bb := range c.Blocks {
		fmt.Fprintf(&e.sb, "bb%d:\n", bb.ID)
		for _, n := range bb.Nodes {
			e.emitNode(n)
		}
	}

	e.sb.WriteString("}\n\n")
}

// emitNode dispatches one cfg.Node to its LLVM instruction(s).
func (e *emitter) emitNode(n cfg.Node) {
	switch v := n.(type) {
	case *cfg.StoreNode:
		fmt.Fprintf(&e.sb, "  store %s %s, ptr %s\n", e.llType(v.Ty), e.llOperand(v.Value), v.Setter.String())
	case *cfg.LoadNode:
		fmt.Fprintf(&e.sb, "  %s = load %s, ptr %s\n", cfg.TempPlace(v.Result).String(), e.llType(v.Ty), v.From.String())
	case *cfg.BinaryNode:
		e.emitBinary(v)
	case *cfg.BranchCondNode:
		fmt.Fprintf(&e.sb, "  br i1 %s, label %%bb%d, label %%bb%d\n", e.i1Operand(v.Cond), v.TrueBB, v.FalseBB)
	case *cfg.BranchNode:
		fmt.Fprintf(&e.sb, "  br label %%bb%d\n", v.BB)
	case *cfg.ReturnNode:
		e.emitReturn(v)
	case *cfg.CallNode:
		e.emitCall(v)
	case *cfg.IndexNode:
		fmt.Fprintf(&e.sb, "  %s = getelementptr inbounds %s, ptr %s, i64 %s\n",
			cfg.TempPlace(v.Result).String(), e.llType(v.ElemTy), e.llOperand(v.Base), e.llOperand(v.Index))
	case *cfg.ByteAccessNode:
		fmt.Fprintf(&e.sb, "  %s = getelementptr inbounds i8, ptr %s, i64 %d\n",
			cfg.TempPlace(v.Result).String(), v.Base.String(), v.ByteOffset)
	case *cfg.TyCastNode:
		e.emitTyCast(v)
	}
}

// emitReturn renders a function's ReturnNode. main always returns `i32 0`
// regardless of its (always-Void) declared body (spec §6).
func (e *emitter) emitReturn(v *cfg.ReturnNode) {
	if e.curIsMain {
		e.sb.WriteString("  ret i32 0\n")
		return
	}
	if v.Value == nil {
		e.sb.WriteString("  ret void\n")
		return
	}
	fmt.Fprintf(&e.sb, "  ret %s %s\n", e.llType(e.curRetTy), e.llOperand(*v.Value))
}

// emitCall renders a CallNode, omitting the assignment entirely for a
// void-returning callee since LLVM forbids binding void to a name.
func (e *emitter) emitCall(v *cfg.CallNode) {
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = fmt.Sprintf("%s %s", e.llType(v.ArgTys[i]), e.llOperand(a))
	}
	callee := e.llOperand(v.Callee)
	if v.RetTy == types.Void {
		fmt.Fprintf(&e.sb, "  call void %s(%s)\n", callee, strings.Join(args, ", "))
		return
	}
	fmt.Fprintf(&e.sb, "  %s = call %s %s(%s)\n", cfg.TempPlace(v.Result).String(), e.llType(v.RetTy), callee, strings.Join(args, ", "))
}

// emitBinary renders a BinaryNode. Comparisons need two instructions: an
// icmp/fcmp producing i1, then a zext into the node's actual i8 (Bool)
// result register, since BinaryNode.Ty carries the comparison's *operand*
// type rather than its Bool result type (spec §4.3's checkBinary unifies
// operands first, then reports Bool; spec §6 maps Bool to i8).
func (e *emitter) emitBinary(v *cfg.BinaryNode) {
	lhs, rhs := e.llOperand(v.Lhs), e.llOperand(v.Rhs)
	dst := cfg.TempPlace(v.Result).String()

	if v.Op.IsComparison() {
		instr := "icmp"
		if v.Ty.IsFloat() {
			instr = "fcmp"
		}
		bit := e.synthName("cmp")
		fmt.Fprintf(&e.sb, "  %s = %s %s %s %s, %s\n", bit, instr, e.cmpPredicate(v.Op, v.Ty), e.llType(v.Ty), lhs, rhs)
		fmt.Fprintf(&e.sb, "  %s = zext i1 %s to i8\n", dst, bit)
		return
	}

	fmt.Fprintf(&e.sb, "  %s = %s %s %s, %s\n", dst, e.arithOp(v.Op, v.Ty), e.llType(v.Ty), lhs, rhs)
}

// cmpPredicate picks icmp/fcmp's predicate mnemonic. Spec §6 only spells
// out the signed-int forms (eq/ne/sge/sgt/sle/slt); unsigned-int and
// ordered-float predicates extend the same table to unsigned and
// floating-point operands, which spec §4.3's checkBinary also accepts.
func (e *emitter) cmpPredicate(op ast.BinaryOp, ty types.Type) string {
	if ty.IsFloat() {
		switch op {
		case ast.Eq:
			return "oeq"
		case ast.Ne:
			return "one"
		case ast.Ge:
			return "oge"
		case ast.Gt:
			return "ogt"
		case ast.Le:
			return "ole"
		default:
			return "olt"
		}
	}
	unsigned := ty.IsUnsignedInt()
	switch op {
	case ast.Eq:
		return "eq"
	case ast.Ne:
		return "ne"
	case ast.Ge:
		if unsigned {
			return "uge"
		}
		return "sge"
	case ast.Gt:
		if unsigned {
			return "ugt"
		}
		return "sgt"
	case ast.Le:
		if unsigned {
			return "ule"
		}
		return "sle"
	default:
		if unsigned {
			return "ult"
		}
		return "slt"
	}
}

// arithOp picks the arithmetic opcode, attaching nsw only to signed
// add/sub/mul (spec §6 lists "add/sub/mul nsw" for signed int; unsigned
// and float variants extend the same table since spec §4.3 permits both).
func (e *emitter) arithOp(op ast.BinaryOp, ty types.Type) string {
	if ty.IsFloat() {
		switch op {
		case ast.Add:
			return "fadd"
		case ast.Sub:
			return "fsub"
		case ast.Mul:
			return "fmul"
		case ast.Div:
			return "fdiv"
		default:
			return "frem"
		}
	}
	unsigned := ty.IsUnsignedInt()
	switch op {
	case ast.Add:
		if unsigned {
			return "add"
		}
		return "add nsw"
	case ast.Sub:
		if unsigned {
			return "sub"
		}
		return "sub nsw"
	case ast.Mul:
		if unsigned {
			return "mul"
		}
		return "mul nsw"
	case ast.Div:
		if unsigned {
			return "udiv"
		}
		return "sdiv"
	default:
		if unsigned {
			return "urem"
		}
		return "srem"
	}
}

// emitTyCast renders a TyCastNode: sext widens a signed value, zext widens
// an unsigned one, trunc narrows regardless of signedness (spec §4.4's
// get_operand_from_visit_result step 4).
func (e *emitter) emitTyCast(v *cfg.TyCastNode) {
	op := "sext"
	switch {
	case v.Kind == cfg.Trunc:
		op = "trunc"
	case v.FromTy.IsUnsignedInt():
		op = "zext"
	}
	fmt.Fprintf(&e.sb, "  %s = %s %s %s to %s\n",
		cfg.TempPlace(v.Result).String(), op, e.llType(v.FromTy), e.llOperand(v.Operand), e.llType(v.ToTy))
}

// i1Operand truncates an i8 Bool operand down to the i1 a br/icmp needs,
// minting a synthetic SSA name since the condition's own register already
// names an i8 value.
func (e *emitter) i1Operand(o cfg.Operand) string {
	name := e.synthName("b")
	fmt.Fprintf(&e.sb, "  %s = trunc i8 %s to i1\n", name, e.llOperand(o))
	return name
}

func (e *emitter) synthName(tag string) string {
	e.synth++
	return fmt.Sprintf("%%synth%d.%s", e.synth, tag)
}

// llOperand renders an Operand as an LLVM value: a register/alloca name for
// a Place, or a literal for a Const. It does not reuse cfg.Operand.String,
// whose generic rendering (Go's %t/%g formatting) isn't valid LLVM syntax
// for bools or floats.
func (e *emitter) llOperand(o cfg.Operand) string {
	if o.Kind == cfg.OperandConst {
		return e.llConst(o.Const)
	}
	return o.Place.String()
}

// llConst renders a Const as an LLVM literal. Floats use the 64-bit hex
// encoding of their bits (spec §6), sidestepping decimal round-trip
// precision loss for both float and double operands.
func (e *emitter) llConst(c cfg.Const) string {
	switch c.Kind {
	case cfg.ConstInt:
		return fmt.Sprintf("%d", c.IntValue)
	case cfg.ConstFloat:
		return fmt.Sprintf("0x%016X", math.Float64bits(c.FloatValue))
	case cfg.ConstBool:
		if c.BoolVal {
			return "1"
		}
		return "0"
	case cfg.ConstNull:
		return "null"
	case cfg.ConstVoid:
		return "void"
	case cfg.ConstFnPtr, cfg.ConstStr:
		return "@" + e.nameOf(c.Def)
	default:
		return "0"
	}
}

// sortedLocalIds/sortedResultIds return a map's keys in ascending order,
// since Go map iteration order is unspecified and the emitted alloca block
// must be deterministic across runs.
func sortedLocalIds(m map[ir.LocalMemId]types.Type) []ir.LocalMemId {
	out := make([]ir.LocalMemId, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedResultIds(m map[ir.ResultMemId]types.Type) []ir.ResultMemId {
	out := make([]ir.ResultMemId, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
