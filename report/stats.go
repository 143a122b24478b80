package report

import (
	"sort"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/opt816/peep"
)

// Stats is a hook that accumulates what every rule did across passes.
type Stats struct {
	passes []peep.PassStats
	fired  map[string]int
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{fired: make(map[string]int)}
}

// Func implements sim.Hook.
func (s *Stats) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case peep.HookPosRewrite:
		s.fired[ctx.Item.(peep.RewriteEvent).Rule]++
	case peep.HookPosPassEnd:
		s.passes = append(s.passes, ctx.Item.(peep.PassStats))
	}
}

// Passes returns the statistics of every pass seen so far.
func (s *Stats) Passes() []peep.PassStats {
	return s.passes
}

// Fired returns how often each rule fired, reorders included.
func (s *Stats) Fired(rule string) int {
	return s.fired[rule]
}

// Total is the number of optimizations, reorders excluded.
func (s *Stats) Total() int {
	total := 0
	for _, p := range s.passes {
		total += p.Optimizations
	}

	return total
}

// RuleCount is one row of the per-rule summary.
type RuleCount struct {
	Rule  string
	Count int
}

// Rules lists the rules that fired, most frequent first.
func (s *Stats) Rules() []RuleCount {
	counts := make([]RuleCount, 0, len(s.fired))
	for r, n := range s.fired {
		counts = append(counts, RuleCount{Rule: r, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Rule < counts[j].Rule
	})

	return counts
}
