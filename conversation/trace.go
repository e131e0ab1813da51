package conversation

import (
	"fmt"

	"github.com/rickchristie/duet"
)

// ConversationEnded is the trace content when the run ended without a final response and
// without an error, which in practice means the step budget ran out.
const ConversationEnded = "Conversation ended"

// buildTrace reduces the run state to its trace. Called exactly once per run.
func (r *run) buildTrace() *duet.Trace {
	trace := &duet.Trace{
		RunID:    r.id,
		Reward:   0.0,
		Done:     true,
		Messages: duet.CloneMessages(r.primary.history),
		Reason:   r.reason,
		Steps:    r.steps,
		Info:     r.stats(),
	}

	switch {
	case r.final != nil:
		trace.Content = r.final.Content
	case r.err != nil:
		trace.Content = r.err.Error()
	default:
		trace.Content = ConversationEnded
	}

	if r.err != nil {
		trace.IsError = true
		trace.Info[duet.InfoKeyError] = r.err.Error()
	}
	if r.final != nil && r.final.IsError {
		trace.IsError = true
	}

	return trace
}

// failureTrace replaces trace after a failure that happened once the conversation was over.
func (r *run) failureTrace(trace *duet.Trace, err error) *duet.Trace {
	info := r.stats()
	info[duet.InfoKeyError] = err.Error()

	return &duet.Trace{
		RunID:    trace.RunID,
		Reward:   0.0,
		Done:     true,
		Content:  fmt.Sprintf("Agent failed with error: %v", err),
		IsError:  true,
		Info:     info,
		Messages: trace.Messages,
		Reason:   duet.TerminationError,
		Steps:    trace.Steps,
	}
}

func (r *run) stats() map[string]any {
	return map[string]any{
		duet.InfoKeySteps:              r.steps,
		duet.InfoKeyPrimaryToolCalls:   r.primaryToolCalls,
		duet.InfoKeyCounterpartTurns:   r.counterpartTurns,
		duet.InfoKeyCounterpartToolUse: r.counterpartToolCalls,
	}
}
