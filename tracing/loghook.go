package tracing

import (
	"context"
	"log/slog"

	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/trace"
)

// A LogHook writes every policy event to a structured logger at debug level.
type LogHook struct {
	*slog.Logger
}

// NewLogHook creates a LogHook writing to logger.
func NewLogHook(logger *slog.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func logs the event.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{"step", ctx.Step}

	if p, ok := ctx.Domain.(replacement.Policy); ok {
		attrs = append(attrs, "policy", p.Name())
	}

	if ref, ok := ctx.Item.(trace.PageReference); ok {
		attrs = append(attrs, "ref", ref.String())
	}

	switch detail := ctx.Detail.(type) {
	case replacement.AccessResult:
		attrs = append(attrs, "hit", detail.Hit, "frame", detail.Frame)
		if page, ok := detail.Evicted.Page(); ok {
			attrs = append(attrs, "evicted", page)
		}
	case replacement.SweepPhase:
		attrs = append(attrs, "phase", detail.String(), "hand", ctx.Item)
	}

	h.Debug(ctx.Pos.Name, attrs...)
}
