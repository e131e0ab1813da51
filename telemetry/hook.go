// Package telemetry exports conversation runs as OpenTelemetry spans.
//
// Hook records one span per run, a child span per primary step, and a child span per
// participant response and tool batch. Counterpart replies are span events on the step:
//
//	duet.run
//	├── duet.step 1
//	│   ├── duet.response primary
//	│   ├── duet.tools primary
//	│   └── duet.response counterpart   (event: counterpart.reply)
//	└── duet.step 2
//
// Response and tool spans are recorded after the fact from the event's timestamp and duration.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/rickchristie/duet"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name used by Hook.
const InstrumentationName = "github.com/rickchristie/duet"

// Attribute keys.
const (
	KeyRunID       = attribute.Key("duet.run_id")
	KeyMaxSteps    = attribute.Key("duet.max_steps")
	KeyStep        = attribute.Key("duet.step")
	KeyRole        = attribute.Key("duet.role")
	KeyReason      = attribute.Key("duet.reason")
	KeySteps       = attribute.Key("duet.steps")
	KeyIsError     = attribute.Key("duet.is_error")
	KeyToolCalls   = attribute.Key("duet.tool_calls")
	KeyToolNames   = attribute.Key("duet.tool_names")
	KeyToolErrors  = attribute.Key("duet.tool_errors")
	KeyInputTokens = attribute.Key("duet.input_tokens")
	KeyOutputToken = attribute.Key("duet.output_tokens")
	KeyFallback    = attribute.Key("duet.fallback")
	KeyStopSignal  = attribute.Key("duet.stop_signal")
	KeyIterations  = attribute.Key("duet.iterations")
)

// Hook turns run events into spans. One Hook may observe concurrent runs; each run's events
// arrive on a single goroutine.
type Hook struct {
	tracer trace.Tracer

	mu   sync.Mutex
	runs map[string]*spans
}

type spans struct {
	run  trace.Span
	ctx  context.Context
	step trace.Span
}

// NewHook creates a Hook using tp, or the global tracer provider when tp is nil.
func NewHook(tp trace.TracerProvider) *Hook {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Hook{
		tracer: tp.Tracer(InstrumentationName),
		runs:   make(map[string]*spans),
	}
}

func (h *Hook) get(runID string) *spans {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs[runID]
}

func (h *Hook) OnBeforeRun(ctx context.Context, e *duet.BeforeRunEvent) {
	ctx, span := h.tracer.Start(ctx, "duet.run",
		trace.WithTimestamp(e.Timestamp),
		trace.WithAttributes(
			KeyRunID.String(e.RunID),
			KeyMaxSteps.Int(e.MaxSteps),
		),
	)
	h.mu.Lock()
	h.runs[e.RunID] = &spans{run: span, ctx: ctx}
	h.mu.Unlock()
}

func (h *Hook) OnAfterRun(_ context.Context, e *duet.AfterRunEvent) {
	h.mu.Lock()
	s := h.runs[e.RunID]
	delete(h.runs, e.RunID)
	h.mu.Unlock()
	if s == nil {
		return
	}

	if s.step != nil {
		s.step.End(trace.WithTimestamp(e.Timestamp))
	}
	if t := e.Trace; t != nil {
		s.run.SetAttributes(
			KeyReason.String(string(t.Reason)),
			KeySteps.Int(t.Steps),
			KeyIsError.Bool(t.IsError),
		)
		if t.IsError {
			s.run.SetStatus(codes.Error, t.Content)
		} else {
			s.run.SetStatus(codes.Ok, "")
		}
	}
	s.run.End(trace.WithTimestamp(e.Timestamp))
}

func (h *Hook) OnBeforeStep(_ context.Context, e *duet.BeforeStepEvent) {
	s := h.get(e.RunID)
	if s == nil {
		return
	}
	_, span := h.tracer.Start(s.ctx, "duet.step",
		trace.WithTimestamp(e.Timestamp),
		trace.WithAttributes(KeyStep.Int(e.Step)),
	)
	s.step = span
}

func (h *Hook) OnAfterStep(_ context.Context, e *duet.AfterStepEvent) {
	s := h.get(e.RunID)
	if s == nil || s.step == nil {
		return
	}
	s.step.End(trace.WithTimestamp(e.Timestamp))
	s.step = nil
}

// parent is the context child spans of the current step attach to.
func (s *spans) parent() context.Context {
	if s.step != nil {
		return trace.ContextWithSpan(s.ctx, s.step)
	}
	return s.ctx
}

func (h *Hook) OnAfterResponse(_ context.Context, e *duet.AfterResponseEvent) {
	s := h.get(e.RunID)
	if s == nil {
		return
	}
	_, span := h.tracer.Start(s.parent(), "duet.response "+string(e.Role),
		trace.WithTimestamp(e.Timestamp.Add(-e.Duration)),
		trace.WithAttributes(
			KeyRole.String(string(e.Role)),
			KeyStep.Int(e.Step),
		),
	)
	if e.Response != nil {
		span.SetAttributes(KeyToolCalls.Int(len(e.Response.ToolCalls)))
		if info := e.Response.Info; info != nil {
			span.SetAttributes(
				KeyInputTokens.Int(info.InputTokens),
				KeyOutputToken.Int(info.OutputTokens),
			)
		}
	}
	endWithError(span, e.Error, e.Timestamp)
}

func (h *Hook) OnAfterToolCalls(_ context.Context, e *duet.AfterToolCallsEvent) {
	s := h.get(e.RunID)
	if s == nil {
		return
	}
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
	_, span := h.tracer.Start(s.parent(), "duet.tools "+string(e.Role),
		trace.WithTimestamp(e.Timestamp.Add(-e.Duration)),
		trace.WithAttributes(
			KeyRole.String(string(e.Role)),
			KeyStep.Int(e.Step),
			KeyToolNames.StringSlice(names),
			KeyToolErrors.Int(failed),
		),
	)
	endWithError(span, e.Error, e.Timestamp)
}

func (h *Hook) OnCounterpartReply(_ context.Context, e *duet.CounterpartReplyEvent) {
	s := h.get(e.RunID)
	if s == nil || s.step == nil {
		return
	}
	attrs := []attribute.KeyValue{
		KeyFallback.Bool(e.Fallback),
		KeyStopSignal.Bool(e.StopSignal),
		KeyIterations.Int(e.Iterations),
	}
	if e.Error != nil {
		attrs = append(attrs, attribute.String("error", e.Error.Error()))
	}
	s.step.AddEvent("counterpart.reply", trace.WithTimestamp(e.Timestamp), trace.WithAttributes(attrs...))
}

func (h *Hook) OnError(_ context.Context, e *duet.ErrorEvent) {
	s := h.get(e.RunID)
	if s == nil {
		return
	}
	s.run.RecordError(e.Err, trace.WithTimestamp(e.Timestamp), trace.WithAttributes(KeyStep.Int(e.Step)))
}

func endWithError(span trace.Span, err error, end time.Time) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

var (
	_ duet.BeforeRunHook        = (*Hook)(nil)
	_ duet.AfterRunHook         = (*Hook)(nil)
	_ duet.BeforeStepHook       = (*Hook)(nil)
	_ duet.AfterStepHook        = (*Hook)(nil)
	_ duet.AfterResponseHook    = (*Hook)(nil)
	_ duet.AfterToolCallsHook   = (*Hook)(nil)
	_ duet.CounterpartReplyHook = (*Hook)(nil)
	_ duet.ErrorHook            = (*Hook)(nil)
)
