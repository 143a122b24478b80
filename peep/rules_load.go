package peep

import (
	"strings"

	"github.com/sarchlab/opt816/asm"
)

// Rules anchored on a load.

// unindexed turns "<op> sym,x" into "<op> sym". Only plain direct operands
// qualify.
func unindexed(inst asm.Inst) (asm.Inst, bool) {
	if inst.Op != asm.OpLoad && inst.Op != asm.OpStore {
		return asm.Inst{}, false
	}

	if inst.Comment != "" || inst.Operand.Mode != asm.ModeDirect || inst.Operand.Index != 'x' {
		return asm.Inst{}, false
	}

	return emit("%s %s", mnemonicToken(inst), inst.Operand.Text), true
}

var writesX = map[string]bool{
	"ldx": true, "tax": true, "tyx": true, "tsx": true, "plx": true,
}

// matchZeroIndex drops "ldx #0" in front of an x-indexed long load. The
// lines after the load are scanned up to the next redefinition of x; plain
// ",x" loads and stores on the way are unindexed, any other read of x or
// any control flow declines.
func matchZeroIndex(w Window) (Rewrite, bool) {
	ldx := w.At(0)
	if ldx.Op != asm.OpLoad || ldx.Mnemonic != "ldx" || ldx.Comment != "" ||
		ldx.Operand.Mode != asm.ModeImmediate || ldx.Operand.Text != "0" {
		return decline()
	}

	if !w.At(1).Is("lda", 'l') {
		return decline()
	}

	first, ok := unindexed(w.At(1))
	if !ok {
		return decline()
	}

	out := []asm.Inst{first}
	for k := 2; k < DeadStoreWindow; k++ {
		inst := w.At(k)
		if inst.Op == asm.OpNone || asm.IsControl(inst) {
			return decline()
		}

		if inst.Op != asm.OpRaw && writesX[inst.Mnemonic] && inst.Operand.Index != 'x' {
			return replace(k+1, append(out, inst)...)
		}

		if asm.UsesX(inst) {
			plain, ok := unindexed(inst)
			if !ok {
				return decline()
			}
			inst = plain
		}

		out = append(out, inst)
	}

	return decline()
}

func matchZeroStore(w Window) (Rewrite, bool) {
	zero := w.At(0)
	if zero.Raw != "lda.w #0" {
		return decline()
	}

	st := w.At(1)
	if !st.Is("sta", 'b') || st.Comment != "" || st.Operand.Mode != asm.ModeDirect ||
		st.Operand.Index == 'y' {
		return decline()
	}

	if !isLoadA(w.At(2)) {
		return decline()
	}

	return replace(2, emit("stz.b %s", operandSource(st)))
}

// matchImmediateNarrow loads an immediate that is only stored as a byte in
// 8-bit mode instead of 16-bit mode.
func matchImmediateNarrow(w Window) (Rewrite, bool) {
	ld := w.At(0)
	if !ld.Is("lda", 'w') || ld.Comment != "" || ld.Operand.Mode != asm.ModeImmediate ||
		ld.Operand.Text == "0" {
		return decline()
	}

	if !isMode(w.At(1), "sep #$20") || !w.At(2).Is("sta", 0) ||
		!isMode(w.At(3), "rep #$20") || !isLoadA(w.At(4)) {
		return decline()
	}

	return replace(4, w.At(1), emit("lda.b #%s", ld.Operand.Text), w.At(2), w.At(3))
}

// deadLoadGaps lists the families that may sit between two loads without
// observing the first one.
var deadLoadGaps = map[asm.Opcode]bool{
	asm.OpLoad:    true,
	asm.OpStore:   true,
	asm.OpCrement: true,
	asm.OpCompare: true,
	asm.OpPush:    true,
	asm.OpPull:    true,
	asm.OpFlag:    true,
}

func matchDeadLoad(w Window) (Rewrite, bool) {
	if !w.At(0).Is("lda", 'b') || !w.At(2).Is("lda", 'b') {
		return decline()
	}

	mid := w.At(1)
	if asm.IsControl(mid) || !deadLoadGaps[mid.Op] || strings.ContainsRune(mid.Raw, 'a') {
		return decline()
	}

	// php and plp save or replace the flags the first load set.
	if mid.Mnemonic == "php" || mid.Mnemonic == "plp" {
		return decline()
	}

	return replace(3, mid, w.At(2))
}

func isStackOp(inst asm.Inst, mnemonic string) bool {
	return inst.Is(mnemonic, 0) && inst.Comment == "" &&
		inst.Operand.Mode == asm.ModeStackRelative
}

// matchHighHalfWriteback removes writing the high half of a register back
// to the stack slot it was loaded from when nothing changed it meanwhile.
func matchHighHalfWriteback(w Window) (Rewrite, bool) {
	ld := w.At(0)
	if !isStackOp(ld, "lda") || !w.At(1).Is("sta", 'b') {
		return decline()
	}

	r, ok := pregOperand(w.At(1))
	if !ok || !r.High || r.Family != 'r' {
		return decline()
	}

	prog := w.Program()
	j := w.Pos() + 2
	for j < len(prog)-2 && !asm.IsControl(prog[j]) && !prog[j].References(r) {
		if asm.MovesStack(prog[j]) {
			return decline()
		}
		j++
	}

	back := NewWindow(prog, j, w.Static())
	if !isPregOp(back.At(0), "lda", r) || !isStackOp(back.At(1), "sta") ||
		back.At(1).Operand.Text != ld.Operand.Text || !isLoadA(back.At(2)) {
		return decline()
	}

	kept := append([]asm.Inst(nil), prog[w.Pos():j]...)
	return replace(len(kept)+2, kept...)
}

// pairStore matches "sta.b R" for an r-family register of the given half.
func pairStore(inst asm.Inst, high bool) (asm.PseudoReg, bool) {
	r, ok := accuStore(inst)
	if !ok || r.Family != 'r' || r.High != high {
		return asm.PseudoReg{}, false
	}

	return r, true
}

// matchPairReorder swaps the low and high halves of a 32-bit copy so the low
// half lands right before the load that consumes it.
func matchPairReorder(w Window) (Rewrite, bool) {
	lo, hi := w.At(0), w.At(2)
	if !isLoadA(lo) || !isLoadA(hi) || lo.Comment != "" || hi.Comment != "" {
		return decline()
	}

	r, ok := pairStore(w.At(1), false)
	if !ok {
		return decline()
	}

	s, ok := pairStore(w.At(3), true)
	if !ok || hi.Reads(r) || lo.Reads(s) {
		return decline()
	}

	use := w.At(4)
	if !isLoadA(use) || !use.References(r) {
		return decline()
	}

	return Rewrite{
		Emit:     []asm.Inst{hi, w.At(3), lo, w.At(1)},
		Consumed: 4,
		Reorder:  true,
	}, true
}
