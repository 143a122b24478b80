package peep

import "github.com/sarchlab/opt816/asm"

// Rule is a local rewrite law. Match inspects the instructions starting at
// the window position and either declines or returns the replacement.
type Rule interface {
	Name() string
	Match(w Window) (Rewrite, bool)
}

// Rewrite replaces Consumed input instructions with Emit.
type Rewrite struct {
	Emit     []asm.Inst
	Consumed int

	// Reorder marks rewrites that only move code around. They keep the
	// fixpoint going but are not counted as optimizations.
	Reorder bool
}

// Window is a read-only view of a pass's input at one position.
type Window struct {
	prog   asm.Program
	pos    int
	static asm.StaticSymbols
}

// NewWindow creates a window on prog at pos.
func NewWindow(prog asm.Program, pos int, static asm.StaticSymbols) Window {
	return Window{prog: prog, pos: pos, static: static}
}

// At returns the instruction k lines after the window position, or the zero
// Inst (OpNone) when that is outside the program.
func (w Window) At(k int) asm.Inst {
	i := w.pos + k
	if i < 0 || i >= len(w.prog) {
		return asm.Inst{}
	}

	return w.prog[i]
}

// Pos is the window position in the program.
func (w Window) Pos() int {
	return w.pos
}

// Program is the whole input of the pass.
func (w Window) Program() asm.Program {
	return w.prog
}

// Static is the static-storage symbol set.
func (w Window) Static() asm.StaticSymbols {
	return w.static
}

type ruleFunc struct {
	name  string
	match func(w Window) (Rewrite, bool)
}

// NewRule wraps a match function into a Rule.
func NewRule(name string, match func(w Window) (Rewrite, bool)) Rule {
	return ruleFunc{name: name, match: match}
}

func (r ruleFunc) Name() string {
	return r.name
}

func (r ruleFunc) Match(w Window) (Rewrite, bool) {
	return r.match(w)
}

func drop(n int) (Rewrite, bool) {
	return Rewrite{Consumed: n}, true
}

func replace(n int, emit ...asm.Inst) (Rewrite, bool) {
	return Rewrite{Emit: emit, Consumed: n}, true
}

func decline() (Rewrite, bool) {
	return Rewrite{}, false
}
