package peep

import (
	"strings"

	"github.com/sarchlab/opt816/asm"
)

// Rules on mode switches, branches and addressing.

// BranchReach is how many lines away a jmp.w target may be for a bra to
// reach it. The longest 65816 instruction is 4 bytes.
const BranchReach = 32

func matchModeCancel(w Window) (Rewrite, bool) {
	if !isMode(w.At(0), "rep #$20") || !isMode(w.At(1), "sep #$20") {
		return decline()
	}

	return drop(2)
}

func isByteImmediate(inst asm.Inst) bool {
	return inst.Is("lda", 0) && inst.Comment == "" && inst.Operand.Mode == asm.ModeImmediate
}

func matchPackedPush(w Window) (Rewrite, bool) {
	if !isMode(w.At(0), "sep #$20") {
		return decline()
	}

	hi, lo := w.At(1), w.At(3)
	if !isByteImmediate(hi) || w.At(2).Raw != "pha" ||
		!isByteImmediate(lo) || w.At(4).Raw != "pha" {
		return decline()
	}

	return replace(5,
		emit("pea.w (%s * 256 + %s)", hi.Operand.Text, lo.Operand.Text),
		w.At(0))
}

// leadingSymbol returns the symbol an address expression starts with.
func leadingSymbol(expr string) string {
	if i := strings.IndexAny(expr, " \t+-*/,()<>|&^~"); i >= 0 {
		return expr[:i]
	}

	return expr
}

func matchBankNarrow(w Window) (Rewrite, bool) {
	inst := w.At(0)
	if !inst.Is("lda", 'l') && !inst.Is("sta", 'l') {
		return decline()
	}

	if inst.Operand.Mode != asm.ModeDirect || !w.Static().Has(leadingSymbol(inst.Operand.Text)) {
		return decline()
	}

	tok := mnemonicToken(inst)
	return replace(1, asm.Parse(inst.Mnemonic+".w"+inst.Raw[len(tok):]))
}

func isUnconditionalJump(inst asm.Inst) bool {
	if inst.Comment != "" || inst.Operand.Mode != asm.ModeDirect || inst.Operand.Index != 0 {
		return false
	}

	return inst.Is("jmp", 'w') ||
		(inst.Is("bra", 0) && strings.HasPrefix(inst.Target(), "__"))
}

func matchRedundantBranch(w Window) (Rewrite, bool) {
	jmp := w.At(0)
	if !isUnconditionalJump(jmp) {
		return decline()
	}

	for k := 1; w.At(k).Op == asm.OpLabel; k++ {
		if w.At(k).Label == jmp.Target() {
			return drop(1)
		}
	}

	return decline()
}

// plainCode reports whether every line strictly between a and b is an
// instruction, label or blank line, so its size is bounded.
func plainCode(prog asm.Program, a, b int) bool {
	lo, hi := min(a, b), max(a, b)
	for k := lo + 1; k < hi; k++ {
		switch prog[k].Op {
		case asm.OpDirective:
			return false
		case asm.OpRaw:
			if prog[k].Raw != "" {
				return false
			}
		}
	}

	return true
}

func isAnonymous(label string) bool {
	return strings.Trim(label, "+") == "" || strings.Trim(label, "-") == ""
}

func matchBranchShorten(w Window) (Rewrite, bool) {
	jmp := w.At(0)
	if !jmp.Is("jmp", 'w') || !isUnconditionalJump(jmp) || isAnonymous(jmp.Target()) {
		return decline()
	}

	prog, pos := w.Program(), w.Pos()
	for l := max(0, pos-BranchReach); l < min(len(prog), pos+BranchReach); l++ {
		if prog[l].Op != asm.OpLabel || prog[l].Label != jmp.Target() {
			continue
		}

		if !plainCode(prog, pos, l) {
			return decline()
		}

		return replace(1, emit("bra %s", jmp.Target()))
	}

	return decline()
}

// matchImmediateAdd folds two increments of a freshly stored sum into the
// added immediate. The accumulator must be reloaded right after.
func matchImmediateAdd(w Window) (Rewrite, bool) {
	add := w.At(0)
	if !add.Is("adc", 0) || add.Comment != "" || add.Operand.Mode != asm.ModeImmediate {
		return decline()
	}

	r, ok := accuStore(w.At(1))
	if !ok || r.High || !isPregOp(w.At(2), "inc", r) || !isPregOp(w.At(3), "inc", r) {
		return decline()
	}

	next := w.At(4)
	if !isLoadA(next) {
		return decline()
	}

	consumed := 4
	if isPregOp(next, "lda", r) {
		consumed = 5
	}

	return replace(consumed, emit("adc #%s + 2", add.Operand.Text), w.At(1))
}
