package asm

import (
	"fmt"
	"regexp"
	"strconv"
)

// Namespace prefixes every symbol the compiler reserves for itself:
// pseudo-registers and its runtime helpers.
const Namespace = "tcc__"

// PseudoReg is a compiler spill slot in the direct page that the code
// generator treats as a register, e.g. tcc__r0, tcc__f2h.
type PseudoReg struct {
	Family byte // 'r' or 'f'
	Index  int
	High   bool
}

// Indices are written without leading zeros; tcc__r01 leaves "1" in the
// trailing group and is therefore some other symbol.
var pregPattern = regexp.MustCompile(`tcc__([rf])(0|[1-9][0-9]*)(h?)([A-Za-z0-9_]*)`)

// ParsePseudoReg parses s as exactly one pseudo-register name.
func ParsePseudoReg(s string) (PseudoReg, bool) {
	m := pregPattern.FindStringSubmatch(s)
	if m == nil || m[0] != s || m[4] != "" {
		return PseudoReg{}, false
	}

	return makePseudoReg(m)
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		'0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func makePseudoReg(m []string) (PseudoReg, bool) {
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return PseudoReg{}, false
	}

	return PseudoReg{Family: m[1][0], Index: idx, High: m[3] == "h"}, true
}

// scanPseudoRegs returns every pseudo-register named anywhere in text.
// Symbols that merely contain the name (tcc__r1foo, xtcc__r0) are not
// registers.
func scanPseudoRegs(text string) []PseudoReg {
	var regs []PseudoReg

	for _, loc := range pregPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > 0 && isIdentByte(text[loc[0]-1]) {
			continue
		}

		if loc[8] != loc[9] {
			continue
		}

		m := []string{text[loc[0]:loc[1]], text[loc[2]:loc[3]], text[loc[4]:loc[5]], text[loc[6]:loc[7]]}
		if r, ok := makePseudoReg(m); ok {
			regs = append(regs, r)
		}
	}

	return regs
}

// Low returns the low half of the register pair r belongs to.
func (r PseudoReg) Low() PseudoReg {
	r.High = false
	return r
}

// HighHalf returns the high half of the register pair r belongs to.
func (r PseudoReg) HighHalf() PseudoReg {
	r.High = true
	return r
}

func (r PseudoReg) String() string {
	h := ""
	if r.High {
		h = "h"
	}

	return fmt.Sprintf("%s%c%d%s", Namespace, r.Family, r.Index, h)
}
