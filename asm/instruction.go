// Package asm models the tcc-65816 assembly listing the optimizer works on.
//
// Every source line becomes an Inst. Lines with a recognised 65816 shape are
// classified into an Opcode family with a typed Operand; anything else is
// kept as an opaque OpRaw line. Parse never fails, so any listing can be
// loaded and written back unchanged.
package asm

import (
	"strings"
)

// Opcode is the family an instruction belongs to.
type Opcode int

// Opcode families. OpNone is the zero value and stands for "no instruction",
// which is what lookups past either end of a Program return.
const (
	OpNone Opcode = iota
	OpRaw
	OpLabel
	OpDirective
	OpLoad
	OpStore
	OpPush
	OpPull
	OpTransfer
	OpArith
	OpCompare
	OpShift
	OpCrement
	OpMode
	OpFlag
	OpJump
	OpBranch
	OpCall
	OpReturn
	OpMisc
)

var opcodeNames = [...]string{
	OpNone:      "none",
	OpRaw:       "raw",
	OpLabel:     "label",
	OpDirective: "directive",
	OpLoad:      "load",
	OpStore:     "store",
	OpPush:      "push",
	OpPull:      "pull",
	OpTransfer:  "transfer",
	OpArith:     "arith",
	OpCompare:   "compare",
	OpShift:     "shift",
	OpCrement:   "crement",
	OpMode:      "mode",
	OpFlag:      "flag",
	OpJump:      "jump",
	OpBranch:    "branch",
	OpCall:      "call",
	OpReturn:    "return",
	OpMisc:      "misc",
}

func (o Opcode) String() string {
	if o < 0 || int(o) >= len(opcodeNames) {
		return "unknown"
	}

	return opcodeNames[o]
}

var mnemonics = map[string]Opcode{
	"lda": OpLoad, "ldx": OpLoad, "ldy": OpLoad,
	"sta": OpStore, "stx": OpStore, "sty": OpStore, "stz": OpStore,
	"pha": OpPush, "phx": OpPush, "phy": OpPush, "php": OpPush,
	"phb": OpPush, "phd": OpPush, "phk": OpPush,
	"pea": OpPush, "pei": OpPush, "per": OpPush,
	"pla": OpPull, "plx": OpPull, "ply": OpPull, "plp": OpPull,
	"plb": OpPull, "pld": OpPull,
	"tax": OpTransfer, "tay": OpTransfer, "txa": OpTransfer, "tya": OpTransfer,
	"txs": OpTransfer, "tsx": OpTransfer, "txy": OpTransfer, "tyx": OpTransfer,
	"tcd": OpTransfer, "tdc": OpTransfer, "tcs": OpTransfer, "tsc": OpTransfer,
	"xba": OpTransfer, "xce": OpTransfer,
	"adc": OpArith, "sbc": OpArith, "and": OpArith, "ora": OpArith, "eor": OpArith,
	"cmp": OpCompare, "cpx": OpCompare, "cpy": OpCompare, "bit": OpCompare,
	"asl": OpShift, "lsr": OpShift, "rol": OpShift, "ror": OpShift,
	"inc": OpCrement, "dec": OpCrement,
	"inx": OpCrement, "iny": OpCrement, "dex": OpCrement, "dey": OpCrement,
	"rep": OpMode, "sep": OpMode,
	"clc": OpFlag, "sec": OpFlag, "cli": OpFlag, "sei": OpFlag,
	"cld": OpFlag, "sed": OpFlag, "clv": OpFlag,
	"jmp": OpJump, "jml": OpJump, "bra": OpJump, "brl": OpJump,
	"bcc": OpBranch, "bcs": OpBranch, "beq": OpBranch, "bne": OpBranch,
	"bmi": OpBranch, "bpl": OpBranch, "bvc": OpBranch, "bvs": OpBranch,
	"jsr": OpCall, "jsl": OpCall,
	"rts": OpReturn, "rtl": OpReturn, "rti": OpReturn,
	"nop": OpMisc, "wdm": OpMisc, "tsb": OpMisc, "trb": OpMisc,
	"mvn": OpMisc, "mvp": OpMisc, "brk": OpMisc, "cop": OpMisc,
	"stp": OpMisc, "wai": OpMisc,
}

// Inst is one line of the listing. Insts are values; rewriting an
// instruction means parsing a new one.
type Inst struct {
	Op       Opcode
	Mnemonic string // lower-case base mnemonic, e.g. "sta"
	Width    byte   // 'b', 'w', 'l' or 0 when no suffix is given
	Operand  Operand
	Label    string // label name for OpLabel
	Comment  string // text after ';', if any
	Raw      string // the line as it appears in the listing
}

// Parse classifies one trimmed line. Lines that match no known shape come
// back as OpRaw with Raw set.
func Parse(line string) Inst {
	inst := Inst{Op: OpRaw, Raw: line}

	code := line
	if i := commentStart(line); i >= 0 {
		code = strings.TrimSpace(line[:i])
		inst.Comment = strings.TrimSpace(line[i+1:])
	}

	switch {
	case code == "":
		return inst
	case isAnonymousLabel(code):
		inst.Op = OpLabel
		inst.Label = code
		return inst
	case strings.HasSuffix(code, ":") && !strings.ContainsAny(code, " \t"):
		inst.Op = OpLabel
		inst.Label = strings.TrimSuffix(code, ":")
		return inst
	case code[0] == '.':
		inst.Op = OpDirective
		inst.Mnemonic = strings.ToLower(firstField(code))
		return inst
	}

	word := firstField(code)
	base, width, ok := splitMnemonic(word)
	if !ok {
		return inst
	}

	op, known := mnemonics[base]
	if !known {
		return inst
	}

	inst.Op = op
	inst.Mnemonic = base
	inst.Width = width
	inst.Operand = parseOperand(strings.TrimSpace(code[len(word):]))

	return inst
}

// commentStart finds the ';' that opens a comment, ignoring quoted text.
func commentStart(line string) int {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return i
			}
		}
	}

	return -1
}

func isAnonymousLabel(code string) bool {
	return strings.Trim(code, "+") == "" || strings.Trim(code, "-") == ""
}

func firstField(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}

	return s
}

func splitMnemonic(word string) (string, byte, bool) {
	base, suffix, dotted := strings.Cut(strings.ToLower(word), ".")
	if !dotted {
		return base, 0, true
	}

	switch suffix {
	case "b", "w", "l":
		return base, suffix[0], true
	default:
		return "", 0, false
	}
}

// Is reports whether the instruction is mnemonic with the given width
// suffix (0 for none).
func (i Inst) Is(mnemonic string, width byte) bool {
	return i.Mnemonic == mnemonic && i.Width == width && i.Op != OpRaw &&
		i.Op != OpDirective
}

// Code returns the line without its comment.
func (i Inst) Code() string {
	if c := commentStart(i.Raw); c >= 0 {
		return strings.TrimSpace(i.Raw[:c])
	}

	return i.Raw
}

// Target is the jump, branch or call destination.
func (i Inst) Target() string {
	return i.Operand.Text
}

// Equal compares the source text of two instructions.
func (i Inst) Equal(o Inst) bool {
	return i.Op != OpNone && i.Raw == o.Raw
}

func (i Inst) String() string {
	return i.Raw
}
