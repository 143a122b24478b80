package peep

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/opt816/asm"
)

// PassStats summarizes one pass of the optimizer.
type PassStats struct {
	Pass          int
	Optimizations int
	Reorders      int
	ByRule        map[string]int
	Len           int // program length after the pass
}

// Fired reports whether any rule fired during the pass.
func (s PassStats) Fired() bool {
	return s.Optimizations+s.Reorders > 0
}

// Result is the outcome of running the optimizer to a fixpoint.
type Result struct {
	Program asm.Program
	Static  asm.StaticSymbols

	// Passes holds every pass, the final one that fired nothing included.
	Passes []PassStats
	Total  int
}

// Optimizer applies an ordered list of rules until none fires.
type Optimizer struct {
	*sim.HookableBase

	rules []Rule
}

// Rules returns the rules in priority order.
func (o *Optimizer) Rules() []Rule {
	return o.rules
}

// Optimize collects the static symbols of prog and runs passes until one
// fires no rule. prog is not modified.
func (o *Optimizer) Optimize(prog asm.Program) (Result, error) {
	static, err := asm.CollectStaticSymbols(prog)
	if err != nil {
		return Result{}, err
	}

	res := Result{Program: prog, Static: static}

	for pass := 1; ; pass++ {
		next, stats := o.RunPass(pass, res.Program, static)
		res.Program = next
		res.Passes = append(res.Passes, stats)
		res.Total += stats.Optimizations

		if !stats.Fired() {
			break
		}
	}

	return res, nil
}

// RunPass makes one left-to-right pass over prog and returns the rewritten
// program. At every position the first matching rule wins. When none
// matches the instruction is copied.
func (o *Optimizer) RunPass(
	pass int,
	prog asm.Program,
	static asm.StaticSymbols,
) (asm.Program, PassStats) {
	stats := PassStats{Pass: pass, ByRule: make(map[string]int)}
	out := make(asm.Program, 0, len(prog))

	for i := 0; i < len(prog); {
		rule, rw, ok := o.match(NewWindow(prog, i, static))
		if !ok {
			out = append(out, prog[i])
			i++
			continue
		}

		o.checkRewrite(rule, rw, len(prog)-i)

		hookCtx := sim.HookCtx{
			Domain: o,
			Pos:    HookPosRewrite,
			Item: RewriteEvent{
				Pass:    pass,
				Pos:     i,
				Rule:    rule.Name(),
				Before:  prog[i : i+rw.Consumed],
				After:   rw.Emit,
				Reorder: rw.Reorder,
			},
		}
		o.InvokeHook(hookCtx)

		if rw.Reorder {
			stats.Reorders++
		} else {
			stats.Optimizations++
			stats.ByRule[rule.Name()]++
		}

		out = append(out, rw.Emit...)
		i += rw.Consumed
	}

	stats.Len = len(out)

	hookCtx := sim.HookCtx{
		Domain: o,
		Pos:    HookPosPassEnd,
		Item:   stats,
	}
	o.InvokeHook(hookCtx)

	return out, stats
}

func (o *Optimizer) match(w Window) (Rule, Rewrite, bool) {
	for _, r := range o.rules {
		if rw, ok := r.Match(w); ok {
			return r, rw, true
		}
	}

	return nil, Rewrite{}, false
}

func (o *Optimizer) checkRewrite(r Rule, rw Rewrite, remaining int) {
	if rw.Consumed < 1 || rw.Consumed > remaining {
		panic(fmt.Sprintf("rule %s consumed %d of %d instructions",
			r.Name(), rw.Consumed, remaining))
	}

	if len(rw.Emit) > rw.Consumed {
		panic(fmt.Sprintf("rule %s emitted %d instructions for %d",
			r.Name(), len(rw.Emit), rw.Consumed))
	}
}
