package peep

import "errors"

// ErrUnknownRule is returned when a rule name is not in the catalogue.
var ErrUnknownRule = errors.New("unknown rule")

// DefaultRules returns the full catalogue in priority order.
func DefaultRules() []Rule {
	return []Rule{
		NewRule("dead-store", matchDeadStore),
		NewRule("push-call-fusion", matchPushCallFusion),
		NewRule("push-fusion", matchPushFusion),
		NewRule("transfer-fusion", matchTransferFusion),
		NewRule("reload-elision", matchReloadElision),
		NewRule("push-reorder", matchPushReorder),
		NewRule("crement-hoist", matchCrementHoist),
		NewRule("binop-fusion", matchBinopFusion),
		NewRule("mode-switch-reload", matchModeSwitchReload),
		NewRule("duplicate-store", matchDuplicateStore),
		NewRule("index-transfer", matchIndexTransfer),
		NewRule("load-across-gap", matchLoadAcrossGap),
		NewRule("carry-chain", matchCarryChain),
		NewRule("shift-reorder", matchShiftReorder),
		NewRule("stack-reload", matchStackReload),
		NewRule("zero-index", matchZeroIndex),
		NewRule("zero-store", matchZeroStore),
		NewRule("immediate-narrow", matchImmediateNarrow),
		NewRule("dead-load", matchDeadLoad),
		NewRule("high-half-writeback", matchHighHalfWriteback),
		NewRule("pair-reorder", matchPairReorder),
		NewRule("mode-cancel", matchModeCancel),
		NewRule("packed-push", matchPackedPush),
		NewRule("bank-narrow", matchBankNarrow),
		NewRule("redundant-branch", matchRedundantBranch),
		NewRule("branch-shorten", matchBranchShorten),
		NewRule("immediate-add", matchImmediateAdd),
	}
}

// RuleNames lists the names of the default rules in priority order.
func RuleNames() []string {
	rules := DefaultRules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name()
	}

	return names
}

// LookupRule finds a default rule by name.
func LookupRule(name string) (Rule, bool) {
	for _, r := range DefaultRules() {
		if r.Name() == name {
			return r, true
		}
	}

	return nil, false
}
