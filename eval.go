package duet

import "context"

// EvalContext is the evaluation context a conversation runs in. It is shared by reference
// between the orchestrator and both participants, but only the orchestrator calls Submit, and it
// does so at most once, at the very end of a run.
//
// The eval package provides a scenario-backed implementation.
type EvalContext interface {
	// Prompt returns the task instruction that opens the primary participant's history.
	Prompt() string

	// HasScenario reports whether a graded scenario is active.
	HasScenario() bool

	// Tools returns the full tool surface of the environment. Participants receive filtered
	// views of it.
	Tools() []AnyTool

	// Submit hands the final answer to the scenario for grading.
	Submit(ctx context.Context, content string) error
}
