package peep

import (
	"github.com/sarchlab/opt816/asm"
)

// Rules anchored on a store into a pseudo-register or a stack slot.

func matchDeadStore(w Window) (Rewrite, bool) {
	_, r, ok := pregStore(w.At(0))
	if !ok || !StoreIsDead(w.Program(), w.Pos(), r) {
		return decline()
	}

	return drop(1)
}

// hwStore matches a store of a, x or y (not stz) into a pseudo-register.
func hwStore(inst asm.Inst) (byte, asm.PseudoReg, bool) {
	src, r, ok := pregStore(inst)
	if !ok || src == 'z' {
		return 0, asm.PseudoReg{}, false
	}

	return src, r, true
}

// accuStore matches "sta.b R".
func accuStore(inst asm.Inst) (asm.PseudoReg, bool) {
	src, r, ok := pregStore(inst)
	return r, ok && src == 'a'
}

func matchPushCallFusion(w Window) (Rewrite, bool) {
	src, r, ok := hwStore(w.At(0))
	if !ok || !isPushOf(w.At(1), r) || !isOutboundCall(w.At(2)) {
		return decline()
	}

	return replace(2, emit("ph%c", src))
}

func matchPushFusion(w Window) (Rewrite, bool) {
	src, r, ok := hwStore(w.At(0))
	if !ok || !isPushOf(w.At(1), r) {
		return decline()
	}

	return replace(2, w.At(0), emit("ph%c", src))
}

// dontOptimize is the annotation the code generator puts on reloads it
// wants left alone.
const dontOptimize = "DON'T OPTIMIZE"

func matchTransferFusion(w Window) (Rewrite, bool) {
	src, r, ok := hwStore(w.At(0))
	if !ok || src == 'a' {
		return decline()
	}

	next := w.At(1)
	if next.Comment == dontOptimize {
		next = asm.Parse(next.Code())
	}

	if !isPregOp(next, "lda", r) {
		return decline()
	}

	return replace(2, w.At(0), emit("t%ca", src))
}

func matchReloadElision(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok {
		return decline()
	}

	if isPregOp(w.At(1), "lda", r) {
		return replace(2, w.At(0))
	}

	idx := w.At(1)
	if idx.Op == asm.OpLoad && (idx.Mnemonic == "ldx" || idx.Mnemonic == "ldy") &&
		isPregOp(w.At(2), "lda", r) {
		return replace(3, w.At(0), idx)
	}

	return decline()
}

func matchPushReorder(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok {
		return decline()
	}

	other := w.At(1)
	if !other.Is("pei", 0) || other.Reads(r) || !isPushOf(w.At(2), r) {
		return decline()
	}

	return replace(3, other, w.At(0), emit("pha"))
}

func matchCrementHoist(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok {
		return decline()
	}

	for _, crem := range []string{"inc", "dec"} {
		if !isPregOp(w.At(1), crem, r) {
			continue
		}

		n := 1
		if isPregOp(w.At(2), crem, r) {
			n = 2
		}

		next := w.At(1 + n)
		if !isLoadA(next) {
			return decline()
		}

		emitted := make([]asm.Inst, 0, n+1)
		for k := 0; k < n; k++ {
			emitted = append(emitted, emit("%s a", crem))
		}
		emitted = append(emitted, w.At(0))

		consumed := 1 + n
		if isPregOp(next, "lda", r) {
			consumed++
		}

		return replace(consumed, emitted...)
	}

	return decline()
}

func matchBinopFusion(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok || !w.At(1).Is("lda", 'b') {
		return decline()
	}

	s, ok := pregOperand(w.At(1))
	if !ok {
		return decline()
	}

	for _, op := range []string{"and", "ora"} {
		if isPregOp(w.At(2), op, r) {
			return replace(3, w.At(0), emit("%s.b %s", op, s))
		}
	}

	return decline()
}

func matchModeSwitchReload(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok || !isMode(w.At(1), "sep #$20") || !isPregOp(w.At(2), "lda", r) {
		return decline()
	}

	return replace(3, w.At(0), w.At(1))
}

func matchDuplicateStore(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok {
		return decline()
	}

	mid := w.At(1)
	if asm.IsControl(mid) || mid.Reads(r) || mid.Op == asm.OpMode || mid.Op == asm.OpNone {
		return decline()
	}

	if !w.At(2).Equal(w.At(0)) {
		return decline()
	}

	return replace(3, mid, w.At(2))
}

func matchIndexTransfer(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok {
		return decline()
	}

	for _, ld := range []string{"ldx", "ldy"} {
		if isPregOp(w.At(1), ld, r) {
			return replace(2, w.At(0), emit("ta%c", ld[2]))
		}
	}

	return decline()
}

func matchLoadAcrossGap(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok {
		return decline()
	}

	mid := w.At(1)
	if asm.IsControl(mid) || asm.TouchesAccu(mid) || mid.Reads(r) {
		return decline()
	}

	if !isPregOp(w.At(2), "lda", r) {
		return decline()
	}

	return replace(3, w.At(0), mid)
}

func matchCarryChain(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok || w.At(1).Raw != "clc" || !w.At(2).Is("lda", 'b') {
		return decline()
	}

	s, ok := pregOperand(w.At(2))
	if !ok || s.Family != 'r' || !isPregOp(w.At(3), "adc", r) {
		return decline()
	}

	return replace(4, w.At(0), w.At(1), emit("adc.b %s", s))
}

// matchShiftReorder shifts the accumulator before storing instead of
// shifting the stored copy. The accumulator then holds the shifted value
// too, which code generated by tcc never relies on.
func matchShiftReorder(w Window) (Rewrite, bool) {
	r, ok := accuStore(w.At(0))
	if !ok || !isPregOp(w.At(1), "asl", r) {
		return decline()
	}

	return replace(2, emit("asl a"), w.At(0))
}

func matchStackReload(w Window) (Rewrite, bool) {
	st := w.At(0)
	if !st.Is("sta", 0) || st.Comment != "" || st.Operand.Mode != asm.ModeStackRelative {
		return decline()
	}

	ld := w.At(1)
	if !ld.Is("lda", 0) || ld.Comment != "" || ld.Operand.Mode != asm.ModeStackRelative ||
		ld.Operand.Text != st.Operand.Text {
		return decline()
	}

	return replace(2, st)
}
