package asm

import "strings"

// Mode is the addressing mode of an operand.
type Mode int

// Addressing modes.
const (
	ModeNone Mode = iota
	ModeAccumulator
	ModeImmediate
	ModeDirect
	ModeIndirect
	ModeIndirectLong
	ModeStackRelative
)

// Operand is the typed form of an instruction's argument.
type Operand struct {
	Mode Mode

	// Text is the address expression with mode punctuation removed:
	// "5" for "#5", "tcc__r3" for "(tcc__r3)", "3" for "3,s".
	Text string

	// Index is the index register applied, 'x', 'y' or 0.
	Index byte

	// Regs lists every pseudo-register named by the operand.
	Regs []PseudoReg
}

// Reg returns the pseudo-register the operand names when Text is exactly
// one register name.
func (o Operand) Reg() (PseudoReg, bool) {
	return ParsePseudoReg(o.Text)
}

func parseOperand(s string) Operand {
	o := Operand{Regs: scanPseudoRegs(s)}

	switch {
	case s == "":
		o.Mode = ModeNone
	case s == "a" || s == "A":
		o.Mode = ModeAccumulator
	case s[0] == '#':
		o.Mode = ModeImmediate
		o.Text = strings.TrimSpace(s[1:])
	case s[0] == '(':
		o.Mode = ModeIndirect
		o.Text, o.Index = splitGrouped(s, '(', ')')
	case s[0] == '[':
		o.Mode = ModeIndirectLong
		o.Text, o.Index = splitGrouped(s, '[', ']')
	case strings.HasSuffix(s, ",s"):
		o.Mode = ModeStackRelative
		o.Text = strings.TrimSpace(strings.TrimSuffix(s, ",s"))
	default:
		o.Mode = ModeDirect
		o.Text, o.Index = splitIndex(s)
	}

	return o
}

// splitGrouped handles "(x)", "(x),y", "(x,x)" and "[x],y".
func splitGrouped(s string, open, close byte) (string, byte) {
	end := strings.LastIndexByte(s, close)
	if end < 0 {
		return strings.TrimSpace(s[1:]), 0
	}

	inner := strings.TrimSpace(s[1:end])
	var index byte

	rest := strings.TrimSpace(s[end+1:])
	if strings.HasPrefix(rest, ",") {
		index = indexReg(strings.TrimSpace(rest[1:]))
	}

	if open == '(' && strings.HasSuffix(inner, ",x") {
		inner = strings.TrimSpace(strings.TrimSuffix(inner, ",x"))
		index = 'x'
	}

	return inner, index
}

func splitIndex(s string) (string, byte) {
	i := strings.LastIndexByte(s, ',')
	if i < 0 {
		return s, 0
	}

	if r := indexReg(strings.TrimSpace(s[i+1:])); r != 0 {
		return strings.TrimSpace(s[:i]), r
	}

	return s, 0
}

func indexReg(s string) byte {
	switch s {
	case "x", "X":
		return 'x'
	case "y", "Y":
		return 'y'
	default:
		return 0
	}
}
