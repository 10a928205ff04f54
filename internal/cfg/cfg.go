package cfg

import (
	"sync"

	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/types"
)

// BasicBlock is an ordered list of Nodes, terminated by exactly one of
// BranchNode/BranchCondNode/ReturnNode (spec §8, testable property 7).
type BasicBlock struct {
	ID         ir.BasicBlockId
	Nodes      []Node
	Terminated bool
}

// Cfg is one function's control flow graph, plus the local bookkeeping the
// builder needed to construct it (spec §4.4, "Data model").
type Cfg struct {
	Def    ir.DefId
	Entry  ir.BasicBlockId
	Blocks []*BasicBlock

	// ParamLocals are the LocalMemIds the function's parameters (including
	// self, in declared order) were materialized into.
	ParamLocals []ir.LocalMemId
	LocalTypes  map[ir.LocalMemId]types.Type
	ResultTypes map[ir.ResultMemId]types.Type
}

func (c *Cfg) block(id ir.BasicBlockId) *BasicBlock {
	return c.Blocks[id]
}

// Icfg is the package-wide output of pass 4: one Cfg per lowered function,
// plus the extern-fn and const-string tables the LLVM emitter needs
// (spec §4.4, "the set of Cfgs plus global const-string and extern-fn
// tables form the Icfg").
type Icfg struct {
	mu sync.Mutex

	Funcs   map[ir.DefId]*Cfg
	Externs []ir.DefId

	MainFn  ir.DefId
	HasMain bool
}

func NewIcfg() *Icfg {
	return &Icfg{
		Funcs: make(map[ir.DefId]*Cfg),
	}
}

func (i *Icfg) addFunc(c *Cfg) {
	i.mu.Lock()
	i.Funcs[c.Def] = c
	i.mu.Unlock()
}

// SetExterns installs the package's declare-fn DefIds once, after every
// file's pre-resolution/resolution has merged (single-threaded between
// fan-outs, spec §5).
func (i *Icfg) SetExterns(externs []ir.DefId) {
	i.Externs = externs
}

func (i *Icfg) SetMain(def ir.DefId) {
	i.MainFn = def
	i.HasMain = true
}
