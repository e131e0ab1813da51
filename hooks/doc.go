// Package hooks provides a registry for conversation lifecycle hooks.
//
// Hooks observe a run without taking part in it. Each hook interface corresponds to a specific
// event type - implement only the interfaces you need.
//
// # Hook Interfaces
//
// Run lifecycle hooks:
//   - [duet.BeforeRunHook] - Called once before the first step
//   - [duet.AfterRunHook] - Called once with the final trace
//   - [duet.BeforeStepHook] - Called before each primary step
//   - [duet.AfterStepHook] - Called after each primary step
//   - [duet.ErrorHook] - Called when an error ends the run
//
// Participant hooks:
//   - [duet.AfterResponseHook] - Called after every GetResponse, for both participants
//   - [duet.AfterToolCallsHook] - Called after every tool batch, for both participants
//   - [duet.CounterpartReplyHook] - Called after each counterpart exchange
//
// # Creating a Hook
//
//	type ToolCounter struct{ n int }
//
//	func (h *ToolCounter) OnAfterToolCalls(ctx context.Context, event *duet.AfterToolCallsEvent) {
//	    h.n += len(event.Calls)
//	}
//
//	// Compile-time check
//	var _ duet.AfterToolCallsHook = (*ToolCounter)(nil)
//
// # Example
//
// See the loggers and telemetry packages for hooks that implement every interface.
package hooks
