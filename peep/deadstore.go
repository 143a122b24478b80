package peep

import "github.com/sarchlab/opt816/asm"

// DeadStoreWindow bounds how far StoreIsDead looks ahead.
const DeadStoreWindow = 30

// StoreIsDead reports whether the store to r at prog[i] can be removed. It
// scans forward for a later store to the same register, or a call that
// clobbers pseudo-registers, and gives up at control flow, at any other
// mention of r, at a mode switch (which changes how many bytes a store
// writes), or when the window runs out.
func StoreIsDead(prog asm.Program, i int, r asm.PseudoReg) bool {
	end := min(len(prog), i+DeadStoreWindow)

	for j := i + 1; j < end; j++ {
		inst := prog[j]

		if _, s, ok := pregStore(inst); ok && s == r {
			return true
		}

		if isOutboundCall(inst) {
			return true
		}

		if asm.IsControl(inst) || inst.References(r) || inst.Op == asm.OpMode {
			return false
		}

		if r.High && inst.DerefsLong(r.Low()) {
			return false
		}
	}

	return false
}
