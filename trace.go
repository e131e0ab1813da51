package duet

// -----------------------------------------------------------------------------
// Trace
// -----------------------------------------------------------------------------

// Trace is the terminal result of one conversation run. It is built once, when the run ends,
// and never mutated by the orchestrator afterwards.
type Trace struct {
	// RunID uniquely identifies the run. Hook events carry the same ID.
	RunID string

	// Reward is always 0.0 when the orchestrator returns. Scoring happens in the evaluation
	// context against the scenario backend's final state.
	Reward float64

	// Done is always true; the orchestrator never returns a non-terminal trace.
	Done bool

	// Content is the final answer: the primary's last response text when the run ended on a
	// stop signal or an empty response, otherwise the error text or "Conversation ended".
	Content string

	// IsError is set when an error ended the run or the final response reported one.
	IsError bool

	// Info is free-form diagnostic data. It holds "error" when IsError is set by an error.
	Info map[string]any

	// Messages is the primary participant's history at the moment of termination.
	Messages []MessageContent

	// Reason says why the run ended.
	Reason TerminationReason

	// Steps is the number of primary steps that ran.
	Steps int
}

// TerminationReason indicates why a run terminated.
type TerminationReason string

const (
	// TerminationStopSignal means the counterpart's reply carried the stop token.
	TerminationStopSignal TerminationReason = "stop_signal"

	// TerminationEmptyResponse means the primary returned neither text nor tool calls.
	TerminationEmptyResponse TerminationReason = "empty_response"

	// TerminationBudgetExhausted means the step budget ran out. This is not an error.
	TerminationBudgetExhausted TerminationReason = "budget_exhausted"

	// TerminationError means a step or setup error ended the run.
	TerminationError TerminationReason = "error"

	// TerminationCancelled means the run's context was cancelled or its deadline passed.
	TerminationCancelled TerminationReason = "cancelled"
)

// Info keys set by the orchestrator.
const (
	InfoKeyError              = "error"
	InfoKeySteps              = "steps"
	InfoKeyPrimaryToolCalls   = "primary_tool_calls"
	InfoKeyCounterpartTurns   = "counterpart_turns"
	InfoKeyCounterpartToolUse = "counterpart_tool_calls"
)
