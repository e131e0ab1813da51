package duet

import "errors"

var (
	// ErrInvalidConfig is returned when a run is started with a nil evaluation context, a nil
	// participant, or an invalid configuration. It is a programming error and never produces a
	// Trace.
	ErrInvalidConfig = errors.New("duet: invalid configuration")

	// ErrMissingPrompt is returned when the evaluation context has no task instruction.
	ErrMissingPrompt = errors.New("duet: evaluation context has no prompt")

	// ErrToolNotFound is reported when a participant calls a tool it does not have.
	ErrToolNotFound = errors.New("duet: tool not found")

	// ErrResultMismatch is returned when a tool batch yields a different number of results than
	// calls.
	ErrResultMismatch = errors.New("duet: tool results do not match tool calls")
)
