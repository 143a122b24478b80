package peep

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/opt816/asm"
)

// HookPosRewrite marks a rule firing. The item is a RewriteEvent.
var HookPosRewrite = &sim.HookPos{Name: "Rewrite"}

// HookPosPassEnd marks the end of a pass. The item is a PassStats.
var HookPosPassEnd = &sim.HookPos{Name: "Pass End"}

// RewriteEvent describes one rule firing.
type RewriteEvent struct {
	Pass    int
	Pos     int // index in the pass's input program
	Rule    string
	Before  []asm.Inst
	After   []asm.Inst
	Reorder bool
}
