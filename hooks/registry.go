package hooks

import (
	"context"

	"github.com/rickchristie/duet"
)

// Registry manages a collection of hooks and dispatches events to them.
//
// # Overview
//
// Registry is the central coordination point for hooks. It:
//   - Stores registered hooks in order
//   - Dispatches events to hooks that implement the relevant interface
//
// Hooks can implement any combination of hook interfaces - they only receive
// events for the interfaces they implement.
//
// # Creating and Using
//
//	registry := hooks.NewRegistry().
//	    Register(loggers.NewYAMLHook(os.Stdout)).
//	    Register(telemetry.NewHook(tracer))
//
//	cfg := conversation.DefaultConfig()
//	cfg.Hooks = registry
//
// A nil *Registry is valid and drops every event.
//
// # Thread Safety
//
// Registry is NOT thread-safe. Register all hooks before starting a run.
type Registry struct {
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook to the registry. The hook can implement any combination
// of hook interfaces (BeforeRunHook, AfterToolCallsHook, etc.).
//
// Hooks are called in the order they are registered.
func (r *Registry) Register(hook any) *Registry {
	r.hooks = append(r.hooks, hook)
	return r
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.hooks)
}

// FireBeforeRun dispatches a BeforeRunEvent to all registered BeforeRunHook implementations.
func (r *Registry) FireBeforeRun(ctx context.Context, event *duet.BeforeRunEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.BeforeRunHook); ok {
			hook.OnBeforeRun(ctx, event)
		}
	}
}

// FireAfterRun dispatches an AfterRunEvent to all registered AfterRunHook implementations.
func (r *Registry) FireAfterRun(ctx context.Context, event *duet.AfterRunEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.AfterRunHook); ok {
			hook.OnAfterRun(ctx, event)
		}
	}
}

// FireBeforeStep dispatches a BeforeStepEvent to all registered BeforeStepHook implementations.
func (r *Registry) FireBeforeStep(ctx context.Context, event *duet.BeforeStepEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.BeforeStepHook); ok {
			hook.OnBeforeStep(ctx, event)
		}
	}
}

// FireAfterStep dispatches an AfterStepEvent to all registered AfterStepHook implementations.
func (r *Registry) FireAfterStep(ctx context.Context, event *duet.AfterStepEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.AfterStepHook); ok {
			hook.OnAfterStep(ctx, event)
		}
	}
}

// FireAfterResponse dispatches an AfterResponseEvent to all registered AfterResponseHook
// implementations.
func (r *Registry) FireAfterResponse(ctx context.Context, event *duet.AfterResponseEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.AfterResponseHook); ok {
			hook.OnAfterResponse(ctx, event)
		}
	}
}

// FireAfterToolCalls dispatches an AfterToolCallsEvent to all registered AfterToolCallsHook
// implementations.
func (r *Registry) FireAfterToolCalls(ctx context.Context, event *duet.AfterToolCallsEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.AfterToolCallsHook); ok {
			hook.OnAfterToolCalls(ctx, event)
		}
	}
}

// FireCounterpartReply dispatches a CounterpartReplyEvent to all registered
// CounterpartReplyHook implementations.
func (r *Registry) FireCounterpartReply(ctx context.Context, event *duet.CounterpartReplyEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.CounterpartReplyHook); ok {
			hook.OnCounterpartReply(ctx, event)
		}
	}
}

// FireError dispatches an ErrorEvent to all registered ErrorHook implementations.
func (r *Registry) FireError(ctx context.Context, event *duet.ErrorEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(duet.ErrorHook); ok {
			hook.OnError(ctx, event)
		}
	}
}
