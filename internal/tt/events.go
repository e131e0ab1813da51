package tt

import (
	"context"
	"fmt"

	"github.com/rickchristie/duet"
)

// EventRecorder implements every hook interface and records events in order.
type EventRecorder struct {
	Events []duet.HookEvent
}

// NewEventRecorder creates an empty EventRecorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) OnBeforeRun(_ context.Context, e *duet.BeforeRunEvent) {
	r.Events = append(r.Events, e)
}

func (r *EventRecorder) OnAfterRun(_ context.Context, e *duet.AfterRunEvent) {
	r.Events = append(r.Events, e)
}

func (r *EventRecorder) OnBeforeStep(_ context.Context, e *duet.BeforeStepEvent) {
	r.Events = append(r.Events, e)
}

func (r *EventRecorder) OnAfterStep(_ context.Context, e *duet.AfterStepEvent) {
	r.Events = append(r.Events, e)
}

func (r *EventRecorder) OnAfterResponse(_ context.Context, e *duet.AfterResponseEvent) {
	r.Events = append(r.Events, e)
}

func (r *EventRecorder) OnAfterToolCalls(_ context.Context, e *duet.AfterToolCallsEvent) {
	r.Events = append(r.Events, e)
}

func (r *EventRecorder) OnCounterpartReply(_ context.Context, e *duet.CounterpartReplyEvent) {
	r.Events = append(r.Events, e)
}

func (r *EventRecorder) OnError(_ context.Context, e *duet.ErrorEvent) {
	r.Events = append(r.Events, e)
}

// Names returns a compact label per recorded event, e.g. "step:1", "response:primary".
func (r *EventRecorder) Names() []string {
	names := make([]string, len(r.Events))
	for i, event := range r.Events {
		names[i] = EventName(event)
	}
	return names
}

// CounterpartReplies returns the recorded counterpart exchanges.
func (r *EventRecorder) CounterpartReplies() []*duet.CounterpartReplyEvent {
	var out []*duet.CounterpartReplyEvent
	for _, event := range r.Events {
		if e, ok := event.(*duet.CounterpartReplyEvent); ok {
			out = append(out, e)
		}
	}
	return out
}

// EventName labels an event for sequence assertions.
func EventName(event duet.HookEvent) string {
	switch e := event.(type) {
	case *duet.BeforeRunEvent:
		return "run:start"
	case *duet.AfterRunEvent:
		return "run:end"
	case *duet.BeforeStepEvent:
		return fmt.Sprintf("step:%d", e.Step)
	case *duet.AfterStepEvent:
		return fmt.Sprintf("step:%d:end", e.Step)
	case *duet.AfterResponseEvent:
		return fmt.Sprintf("response:%s", e.Role)
	case *duet.AfterToolCallsEvent:
		return fmt.Sprintf("tools:%s", e.Role)
	case *duet.CounterpartReplyEvent:
		return "reply"
	case *duet.ErrorEvent:
		return "error"
	default:
		return fmt.Sprintf("%T", event)
	}
}
