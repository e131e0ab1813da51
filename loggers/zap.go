package loggers

import (
	"context"

	"github.com/rickchristie/duet"
	"go.uber.org/zap"
)

// ZapHook writes one structured entry per event. Step and tool details are logged at debug
// level, run boundaries and fallbacks at info and errors at error.
type ZapHook struct {
	logger *zap.Logger
}

// NewZapHook creates a ZapHook. A nil logger logs nothing.
func NewZapHook(logger *zap.Logger) *ZapHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapHook{logger: logger}
}

func (h *ZapHook) OnBeforeRun(_ context.Context, e *duet.BeforeRunEvent) {
	h.logger.Info("run started",
		zap.String("run_id", e.RunID),
		zap.Int("max_steps", e.MaxSteps),
	)
}

func (h *ZapHook) OnAfterRun(_ context.Context, e *duet.AfterRunEvent) {
	fields := []zap.Field{
		zap.String("run_id", e.RunID),
		zap.Duration("duration", e.Duration),
	}
	if e.Trace != nil {
		fields = append(fields,
			zap.String("reason", string(e.Trace.Reason)),
			zap.Int("steps", e.Trace.Steps),
			zap.Bool("is_error", e.Trace.IsError),
		)
	}
	h.logger.Info("run completed", fields...)
}

func (h *ZapHook) OnBeforeStep(_ context.Context, e *duet.BeforeStepEvent) {
	h.logger.Debug("step started", zap.String("run_id", e.RunID), zap.Int("step", e.Step))
}

func (h *ZapHook) OnAfterStep(_ context.Context, e *duet.AfterStepEvent) {
	h.logger.Debug("step completed",
		zap.String("run_id", e.RunID),
		zap.Int("step", e.Step),
		zap.Duration("duration", e.Duration),
		zap.Bool("terminated", e.Terminated),
	)
}

func (h *ZapHook) OnAfterResponse(_ context.Context, e *duet.AfterResponseEvent) {
	fields := []zap.Field{
		zap.String("run_id", e.RunID),
		zap.String("role", string(e.Role)),
		zap.Int("step", e.Step),
		zap.Duration("duration", e.Duration),
	}
	if e.Error != nil {
		h.logger.Warn("response failed", append(fields, zap.Error(e.Error))...)
		return
	}
	if e.Response != nil {
		fields = append(fields,
			zap.Int("content_length", len(e.Response.Content)),
			zap.Int("tool_calls", len(e.Response.ToolCalls)),
		)
		if info := e.Response.Info; info != nil {
			fields = append(fields,
				zap.Int("input_tokens", info.InputTokens),
				zap.Int("output_tokens", info.OutputTokens),
			)
		}
	}
	h.logger.Debug("response", fields...)
}

func (h *ZapHook) OnAfterToolCalls(_ context.Context, e *duet.AfterToolCallsEvent) {
	names := make([]string, len(e.Calls))
	for i, c := range e.Calls {
		names[i] = c.Name
	}
	failed := 0
	for _, r := range e.Results {
		if r.IsError {
			failed++
		}
	}
	fields := []zap.Field{
		zap.String("run_id", e.RunID),
		zap.String("role", string(e.Role)),
		zap.Int("step", e.Step),
		zap.Strings("tools", names),
		zap.Int("failed", failed),
		zap.Duration("duration", e.Duration),
	}
	if e.Error != nil {
		h.logger.Warn("tool calls failed", append(fields, zap.Error(e.Error))...)
		return
	}
	h.logger.Debug("tool calls", fields...)
}

func (h *ZapHook) OnCounterpartReply(_ context.Context, e *duet.CounterpartReplyEvent) {
	fields := []zap.Field{
		zap.String("run_id", e.RunID),
		zap.Int("step", e.Step),
		zap.Int("iterations", e.Iterations),
		zap.Bool("stop_signal", e.StopSignal),
	}
	if e.Fallback {
		if e.Error != nil {
			fields = append(fields, zap.Error(e.Error))
		}
		h.logger.Info("counterpart fallback", append(fields, zap.String("reply", e.Reply))...)
		return
	}
	h.logger.Debug("counterpart reply", fields...)
}

func (h *ZapHook) OnError(_ context.Context, e *duet.ErrorEvent) {
	h.logger.Error("run error",
		zap.String("run_id", e.RunID),
		zap.Int("step", e.Step),
		zap.Error(e.Err),
	)
}

var (
	_ duet.BeforeRunHook        = (*ZapHook)(nil)
	_ duet.AfterRunHook         = (*ZapHook)(nil)
	_ duet.BeforeStepHook       = (*ZapHook)(nil)
	_ duet.AfterStepHook        = (*ZapHook)(nil)
	_ duet.AfterResponseHook    = (*ZapHook)(nil)
	_ duet.AfterToolCallsHook   = (*ZapHook)(nil)
	_ duet.CounterpartReplyHook = (*ZapHook)(nil)
	_ duet.ErrorHook            = (*ZapHook)(nil)
)
