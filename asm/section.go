package asm

import (
	"errors"
	"fmt"
	"strings"
)

// Directives bounding the bank $7e static storage the compiler emits. Every
// symbol declared between them is reachable with 16-bit addressing.
const (
	StaticSectionOpen  = `.ramsection ".bss" bank $7e slot 2`
	StaticSectionClose = ".ends"
)

// ErrUnterminatedSection is returned when the static section is opened but
// never closed.
var ErrUnterminatedSection = errors.New("unterminated bss section")

// StaticSymbols is the set of symbols declared in the static section, kept
// in declaration order.
type StaticSymbols struct {
	names []string
	set   map[string]bool
}

// NewStaticSymbols builds a set from explicit names.
func NewStaticSymbols(names ...string) StaticSymbols {
	s := StaticSymbols{set: make(map[string]bool)}
	for _, n := range names {
		s.add(n)
	}

	return s
}

func (s *StaticSymbols) add(name string) {
	if name == "" || s.set[name] {
		return
	}

	s.names = append(s.names, name)
	s.set[name] = true
}

// Has reports whether name was declared in the static section.
func (s StaticSymbols) Has(name string) bool {
	return s.set[name]
}

// Names returns the symbols in declaration order.
func (s StaticSymbols) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of symbols.
func (s StaticSymbols) Len() int {
	return len(s.names)
}

// CollectStaticSymbols walks prog once and records the first word of every
// line inside the static section.
func CollectStaticSymbols(prog Program) (StaticSymbols, error) {
	syms := NewStaticSymbols()
	inside := false
	openedAt := 0

	for i, inst := range prog {
		if inst.Raw == StaticSectionOpen {
			inside = true
			openedAt = i + 1
			continue
		}

		if inst.Raw == StaticSectionClose {
			inside = false
		}

		if inside {
			syms.add(firstField(strings.TrimSpace(inst.Raw)))
		}
	}

	if inside {
		return StaticSymbols{}, fmt.Errorf("line %d: %w", openedAt, ErrUnterminatedSection)
	}

	return syms, nil
}
