// Package report renders what the optimizer did: slog tracing of rewrites,
// per-rule statistics and the verbose listing.
package report

import (
	"context"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/opt816/asm"
	"github.com/sarchlab/opt816/peep"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// TraceHook logs every rewrite at LevelTrace and every pass at debug level.
type TraceHook struct {
	logger *slog.Logger
}

// NewTraceHook creates a TraceHook. A nil logger means slog.Default().
func NewTraceHook(logger *slog.Logger) *TraceHook {
	if logger == nil {
		logger = slog.Default()
	}

	return &TraceHook{logger: logger}
}

// Func implements sim.Hook.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case peep.HookPosRewrite:
		evt := ctx.Item.(peep.RewriteEvent)
		h.logger.Log(context.Background(), LevelTrace, "Rewrite",
			"pass", evt.Pass,
			"pos", evt.Pos,
			"rule", evt.Rule,
			"before", asm.Program(evt.Before).Lines(),
			"after", asm.Program(evt.After).Lines(),
			"reorder", evt.Reorder,
		)
	case peep.HookPosPassEnd:
		stats := ctx.Item.(peep.PassStats)
		h.logger.Debug("PassEnd",
			"pass", stats.Pass,
			"optimizations", stats.Optimizations,
			"reorders", stats.Reorders,
			"len", stats.Len,
		)
	}
}
