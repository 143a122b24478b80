package peep

import (
	"fmt"
	"strings"

	"github.com/sarchlab/opt816/asm"
)

// pregStore matches "st[axyz].b R" and returns the stored register letter.
func pregStore(inst asm.Inst) (byte, asm.PseudoReg, bool) {
	if inst.Op != asm.OpStore || inst.Width != 'b' {
		return 0, asm.PseudoReg{}, false
	}

	r, ok := pregOperand(inst)
	if !ok {
		return 0, asm.PseudoReg{}, false
	}

	return inst.Mnemonic[2], r, true
}

// pregOperand returns R when inst is exactly "<mnemonic> R" with no index
// and no comment.
func pregOperand(inst asm.Inst) (asm.PseudoReg, bool) {
	if inst.Comment != "" || inst.Operand.Mode != asm.ModeDirect ||
		inst.Operand.Index != 0 {
		return asm.PseudoReg{}, false
	}

	return inst.Operand.Reg()
}

// isPregOp matches "<mnemonic>.b R".
func isPregOp(inst asm.Inst, mnemonic string, r asm.PseudoReg) bool {
	if !inst.Is(mnemonic, 'b') {
		return false
	}

	p, ok := pregOperand(inst)
	return ok && p == r
}

// isPushOf matches "pei (R)".
func isPushOf(inst asm.Inst, r asm.PseudoReg) bool {
	if !inst.Is("pei", 0) || inst.Comment != "" ||
		inst.Operand.Mode != asm.ModeIndirect || inst.Operand.Index != 0 {
		return false
	}

	p, ok := inst.Operand.Reg()
	return ok && p == r
}

// isOutboundCall matches a long call to anything outside the compiler's
// own namespace. Such calls clobber every pseudo-register.
func isOutboundCall(inst asm.Inst) bool {
	return inst.Op == asm.OpCall && inst.Is("jsr", 'l') &&
		!strings.HasPrefix(inst.Target(), asm.Namespace)
}

func isLoadA(inst asm.Inst) bool {
	return inst.Op == asm.OpLoad && inst.Mnemonic == "lda"
}

func isMode(inst asm.Inst, code string) bool {
	return inst.Op == asm.OpMode && inst.Code() == code && inst.Comment == ""
}

func emit(format string, args ...interface{}) asm.Inst {
	return asm.Parse(fmt.Sprintf(format, args...))
}

// mnemonicToken is the mnemonic as written, width suffix included.
func mnemonicToken(inst asm.Inst) string {
	fields := strings.Fields(inst.Code())
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// operandSource is the operand as written.
func operandSource(inst asm.Inst) string {
	code := inst.Code()
	return strings.TrimSpace(code[len(mnemonicToken(inst)):])
}
