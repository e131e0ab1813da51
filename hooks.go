package duet

import (
	"context"
)

// -----------------------------------------------------------------------------
// Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe a conversation run. To use hooks:
//
//  1. Implement the desired hook interface(s)
//  2. Register with hooks.Registry
//  3. Pass the registry to conversation.Config
//
// Example:
//
//	type StepLogger struct {
//	    logger *log.Logger
//	}
//
//	func (h *StepLogger) OnBeforeStep(ctx context.Context, e *duet.BeforeStepEvent) {
//	    h.logger.Printf("step %d/%d", e.Step, e.MaxSteps)
//	}
//
//	registry := hooks.NewRegistry().Register(&StepLogger{logger: log.Default()})
//	cfg := conversation.DefaultConfig()
//	cfg.Hooks = registry
//
// # Hook Execution Order
//
// Hooks are called in registration order, synchronously, on the goroutine driving the run.
// AfterRun is always called if BeforeRun was called.
//
// # Error Handling
//
// Hooks do not return errors. A panicking hook propagates like any other panic.
//
// # Available Hooks
//
//   - Run lifecycle: [BeforeRunHook], [AfterRunHook]
//   - Step lifecycle: [BeforeStepHook], [AfterStepHook]
//   - Participant calls: [AfterResponseHook], [AfterToolCallsHook], [CounterpartReplyHook]
//   - Errors: [ErrorHook]
// -----------------------------------------------------------------------------

// BeforeRunHook is notified once before the first step.
type BeforeRunHook interface {
	OnBeforeRun(ctx context.Context, event *BeforeRunEvent)
}

// AfterRunHook is notified once with the final trace.
type AfterRunHook interface {
	OnAfterRun(ctx context.Context, event *AfterRunEvent)
}

// BeforeStepHook is notified before each primary step.
type BeforeStepHook interface {
	OnBeforeStep(ctx context.Context, event *BeforeStepEvent)
}

// AfterStepHook is notified after each primary step.
type AfterStepHook interface {
	OnAfterStep(ctx context.Context, event *AfterStepEvent)
}

// AfterResponseHook is notified after every GetResponse call, for either participant.
type AfterResponseHook interface {
	OnAfterResponse(ctx context.Context, event *AfterResponseEvent)
}

// AfterToolCallsHook is notified after every tool batch, for either participant.
type AfterToolCallsHook interface {
	OnAfterToolCalls(ctx context.Context, event *AfterToolCallsEvent)
}

// CounterpartReplyHook is notified after each counterpart exchange.
type CounterpartReplyHook interface {
	OnCounterpartReply(ctx context.Context, event *CounterpartReplyEvent)
}

// ErrorHook is notified when an error ends the run.
type ErrorHook interface {
	OnError(ctx context.Context, event *ErrorEvent)
}
