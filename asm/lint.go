package asm

import (
	"fmt"
	"sort"
)

// IssueType classifies a lint finding.
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // malformed listing structure
	IssueShape  IssueType = "SHAPE"  // line the optimizer cannot classify
)

// Issue is a single lint finding. Line is 1-based in the parsed program.
type Issue struct {
	Type    IssueType
	Line    int
	Message string
}

// Lint performs static checks on a listing. It reports lines outside the
// static section that could not be classified, labels defined twice, and
// local jumps and branches to labels the listing never defines. None of
// these stop optimization; such lines are passed through unchanged.
func Lint(prog Program) []Issue {
	var issues []Issue

	labels := make(map[string]int)
	inside := false

	for i, inst := range prog {
		switch {
		case inst.Raw == StaticSectionOpen:
			inside = true
			continue
		case inst.Raw == StaticSectionClose:
			inside = false
		}

		if inside {
			continue
		}

		switch inst.Op {
		case OpRaw:
			if inst.Code() != "" {
				issues = append(issues, Issue{
					Type:    IssueShape,
					Line:    i + 1,
					Message: fmt.Sprintf("unclassified line %q", inst.Raw),
				})
			}
		case OpLabel:
			if isAnonymousLabel(inst.Label) {
				continue
			}

			if first, ok := labels[inst.Label]; ok {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Line:    i + 1,
					Message: fmt.Sprintf("label %s already defined on line %d", inst.Label, first),
				})
				continue
			}
			labels[inst.Label] = i + 1
		}
	}

	for i, inst := range prog {
		if !isLocalTransfer(inst) {
			continue
		}

		if _, ok := labels[inst.Target()]; !ok {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Line:    i + 1,
				Message: fmt.Sprintf("%s to undefined label %s", inst.Mnemonic, inst.Target()),
			})
		}
	}

	sort.SliceStable(issues, func(a, b int) bool {
		return issues[a].Line < issues[b].Line
	})

	return issues
}

// isLocalTransfer matches branches and 16-bit jumps to a plain label.
// Those can only reach the current bank, so the label is expected in the
// same listing.
func isLocalTransfer(inst Inst) bool {
	if inst.Operand.Mode != ModeDirect || inst.Operand.Index != 0 {
		return false
	}

	if isAnonymousLabel(inst.Target()) || pregPattern.MatchString(inst.Target()) {
		return false
	}

	switch {
	case inst.Op == OpBranch:
		return true
	case inst.Op == OpJump:
		return inst.Mnemonic == "bra" || inst.Mnemonic == "brl" || inst.Is("jmp", 'w')
	}

	return false
}
