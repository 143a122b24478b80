package peep

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create optimizers.
type Builder struct {
	rules    []Rule
	disabled map[string]bool
	hooks    []sim.Hook
}

// MakeBuilder creates a builder that uses the default rules.
func MakeBuilder() Builder {
	return Builder{
		rules: DefaultRules(),
	}
}

// WithRules replaces the rule list. The order given is the priority order.
func (b Builder) WithRules(rules ...Rule) Builder {
	b.rules = rules
	return b
}

// WithoutRules disables rules by name. Names must be in the current rule
// list.
func (b Builder) WithoutRules(names ...string) Builder {
	disabled := make(map[string]bool, len(b.disabled)+len(names))
	for n := range b.disabled {
		disabled[n] = true
	}

	for _, n := range names {
		if !b.hasRule(n) {
			panic(fmt.Errorf("%w: %s", ErrUnknownRule, n))
		}
		disabled[n] = true
	}

	b.disabled = disabled
	return b
}

// WithHook adds a hook to every optimizer built.
func (b Builder) WithHook(hook sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), hook)
	return b
}

func (b Builder) hasRule(name string) bool {
	for _, r := range b.rules {
		if r.Name() == name {
			return true
		}
	}

	return false
}

// Build creates an optimizer.
func (b Builder) Build() *Optimizer {
	o := &Optimizer{
		HookableBase: sim.NewHookableBase(),
	}

	for _, r := range b.rules {
		if !b.disabled[r.Name()] {
			o.rules = append(o.rules, r)
		}
	}

	for _, h := range b.hooks {
		o.AcceptHook(h)
	}

	return o
}

// CheckRuleNames returns ErrUnknownRule for the first name that is not a
// default rule.
func CheckRuleNames(names ...string) error {
	for _, n := range names {
		if _, ok := LookupRule(n); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRule, n)
		}
	}

	return nil
}
