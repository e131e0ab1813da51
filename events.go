package duet

import "time"

// -----------------------------------------------------------------------------
// Hook Event Interface
// -----------------------------------------------------------------------------

// HookEvent is a marker interface for all hook events.
type HookEvent interface {
	hookEvent()
}

// BaseEvent carries the fields common to every event.
type BaseEvent struct {
	// RunID identifies the run that emitted the event.
	RunID string

	// Timestamp is when the event was emitted.
	Timestamp time.Time
}

// -----------------------------------------------------------------------------
// Run Events
// -----------------------------------------------------------------------------

// BeforeRunEvent is emitted once, after both participants are initialized and before the
// first step.
type BeforeRunEvent struct {
	BaseEvent

	// Prompt is the task instruction that seeds the primary's history.
	Prompt string

	// MaxSteps is the configured step budget (negative means unlimited).
	MaxSteps int
}

func (*BeforeRunEvent) hookEvent() {}

// AfterRunEvent is emitted once, after cleanup, with the trace that is about to be returned.
type AfterRunEvent struct {
	BaseEvent

	// Trace is the final trace. Hooks must not modify it.
	Trace *Trace

	// Duration is the wall time of the whole run.
	Duration time.Duration
}

func (*AfterRunEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Step Events
// -----------------------------------------------------------------------------

// BeforeStepEvent is emitted before each primary step.
type BeforeStepEvent struct {
	BaseEvent

	// Step is the step number (1-indexed).
	Step int

	// MaxSteps is the configured step budget (negative means unlimited).
	MaxSteps int
}

func (*BeforeStepEvent) hookEvent() {}

// AfterStepEvent is emitted after each primary step, including the step that terminated the
// run.
type AfterStepEvent struct {
	BaseEvent

	// Step is the step number (1-indexed).
	Step int

	// Duration is how long the step took, counterpart exchange included.
	Duration time.Duration

	// Terminated is set when this step ended the run.
	Terminated bool
}

func (*AfterStepEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Participant Events
// -----------------------------------------------------------------------------

// AfterResponseEvent is emitted after every GetResponse call, for either participant.
type AfterResponseEvent struct {
	BaseEvent

	// Role is the participant that responded.
	Role Role

	// Step is the primary step during which the call happened.
	Step int

	// Response is the participant's response (nil on error).
	Response *Response

	// Duration is how long the call took.
	Duration time.Duration

	// Error is any error that occurred (nil if successful).
	Error error
}

func (*AfterResponseEvent) hookEvent() {}

// AfterToolCallsEvent is emitted after every tool batch, for either participant.
type AfterToolCallsEvent struct {
	BaseEvent

	// Role is the participant that requested the tools.
	Role Role

	// Step is the primary step during which the batch ran.
	Step int

	// Calls are the requested invocations.
	Calls []ToolCall

	// Results are paired positionally with Calls (nil on error).
	Results []ToolResult

	// Duration is how long the batch took.
	Duration time.Duration

	// Error is an infrastructure error, if any. Individual tool failures are in Results.
	Error error
}

func (*AfterToolCallsEvent) hookEvent() {}

// CounterpartReplyEvent is emitted after each counterpart exchange.
type CounterpartReplyEvent struct {
	BaseEvent

	// Step is the primary step during which the exchange happened.
	Step int

	// Message is the primary's message the counterpart responded to.
	Message string

	// Reply is the counterpart's text (possibly a fallback).
	Reply string

	// Fallback is set when Reply is a fallback rather than the counterpart's own text.
	Fallback bool

	// Error is the recovered error behind a fallback, if any.
	Error error

	// Iterations is how many counterpart responses were requested.
	Iterations int

	// StopSignal is set when Reply carries the stop token.
	StopSignal bool
}

func (*CounterpartReplyEvent) hookEvent() {}

// ErrorEvent is emitted when an error ends the run.
type ErrorEvent struct {
	BaseEvent

	// Step is the step where the error occurred (0 if during setup).
	Step int

	// Err is the error that occurred.
	Err error
}

func (*ErrorEvent) hookEvent() {}
