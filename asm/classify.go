package asm

import "strings"

// IsControl reports whether inst can transfer control or be the target of a
// transfer. Register contents must not be reasoned about across such a
// line. Lines starting with j, b, + or -, lines ending in ':' and lines
// opening with a "name:" label count even when they could not be classified.
func IsControl(inst Inst) bool {
	switch inst.Op {
	case OpLabel, OpJump, OpBranch, OpCall, OpReturn:
		return true
	}

	if inst.Raw == "" {
		return false
	}

	return strings.ContainsRune("jb+-", rune(inst.Raw[0])) ||
		strings.HasSuffix(inst.Raw, ":") ||
		strings.HasSuffix(firstField(inst.Code()), ":")
}

var accuWriters = map[string]bool{
	"lda": true, "pla": true,
	"adc": true, "sbc": true, "and": true, "ora": true, "eor": true,
	"txa": true, "tya": true, "tdc": true, "tsc": true, "xba": true,
	"mvn": true, "mvp": true,
	"brk": true, "cop": true, "stp": true, "wai": true,
}

// TouchesAccu reports whether inst may leave a different value, or a
// different width, in the accumulator. pha and sta only read it. Lines that
// could not be classified are assumed to touch it.
func TouchesAccu(inst Inst) bool {
	switch inst.Op {
	case OpNone, OpRaw, OpDirective:
		return true
	case OpLabel, OpFlag, OpCompare:
		return false
	case OpMode, OpJump, OpBranch, OpCall, OpReturn:
		return true
	case OpShift:
		return inst.Operand.Mode == ModeAccumulator || inst.Operand.Mode == ModeNone
	case OpCrement:
		if inst.Mnemonic != "inc" && inst.Mnemonic != "dec" {
			return false
		}
		return inst.Operand.Mode == ModeAccumulator || inst.Operand.Mode == ModeNone
	}

	return accuWriters[inst.Mnemonic]
}

var xReaders = map[string]bool{
	"stx": true, "txa": true, "txy": true, "txs": true,
	"phx": true, "cpx": true, "inx": true, "dex": true,
}

// UsesX reports whether inst may read the X index register. Control flow
// and unclassified lines are assumed to.
func UsesX(inst Inst) bool {
	switch inst.Op {
	case OpNone:
		return false
	case OpRaw, OpDirective:
		return inst.Raw != ""
	}

	if IsControl(inst) {
		return true
	}

	return inst.Operand.Index == 'x' || xReaders[inst.Mnemonic] ||
		inst.Mnemonic == "mvn" || inst.Mnemonic == "mvp"
}

// MovesStack reports whether inst changes the stack pointer or may write
// to stack-relative storage.
func MovesStack(inst Inst) bool {
	switch inst.Op {
	case OpPush, OpPull, OpCall, OpReturn, OpRaw, OpDirective:
		return inst.Raw != ""
	case OpStore:
		return inst.Operand.Mode == ModeStackRelative
	}

	return inst.Mnemonic == "tcs" || inst.Mnemonic == "txs"
}

// References reports whether inst names r anywhere in its operand. For
// unclassified lines the whole text is searched.
func (i Inst) References(r PseudoReg) bool {
	regs := i.Operand.Regs
	if i.Op == OpRaw || i.Op == OpDirective || i.Op == OpLabel {
		regs = scanPseudoRegs(i.Raw)
	}

	for _, x := range regs {
		if x == r {
			return true
		}
	}

	return false
}

// DerefsLong reports whether inst reads through r as a 24-bit pointer,
// "[tcc__rN]" or "[tcc__rN + k]", which reads r and its high half.
func (i Inst) DerefsLong(r PseudoReg) bool {
	if i.Op == OpRaw {
		return strings.Contains(i.Raw, "["+r.String())
	}

	if i.Operand.Mode != ModeIndirectLong {
		return false
	}

	for _, p := range i.Operand.Regs {
		if p == r {
			return true
		}
	}

	return false
}

// Reads reports whether inst may observe the contents of r.
func (i Inst) Reads(r PseudoReg) bool {
	if i.References(r) {
		return true
	}

	return r.High && i.DerefsLong(r.Low())
}
