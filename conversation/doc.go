// Package conversation runs a turn-based conversation between a primary agent and a simulated
// counterpart, and reduces it to a [duet.Trace].
//
// # Overview
//
// One call to [Run] is one evaluation episode:
//
//  1. Both participants are initialized against the evaluation context. Agents implementing
//     [duet.ToolUser] receive an immutable view of the context's tools, filtered to their
//     allow-list.
//  2. The primary's history is seeded with its system messages and the task prompt.
//  3. Steps run until a termination condition fires or the step budget runs out. A step asks
//     the primary for a response, runs any tool calls it made, and routes its text to the
//     counterpart, whose reply becomes the primary's next input.
//  4. The trace is built, submitted to the evaluation context when a scenario is active, and
//     both participants are cleaned up.
//
// # Termination
//
//   - The counterpart's reply carries the stop token: [duet.TerminationStopSignal]
//   - The primary returns neither text nor tool calls: [duet.TerminationEmptyResponse]
//   - The step budget is spent: [duet.TerminationBudgetExhausted] (not an error)
//   - A step fails: [duet.TerminationError]
//   - The context is cancelled or its deadline passes: [duet.TerminationCancelled]
//
// # Counterpart Exchanges
//
// The counterpart is given the primary's message wrapped in [CounterpartPrompt]. It may call
// its own tools for up to Config.CounterpartMaxIterations responses. Its failures never end the
// run; they become fallback replies (see [Reply]).
//
// # Example
//
//	cfg := conversation.DefaultConfig()
//	cfg.MaxSteps = 10
//
//	trace, err := conversation.Run(ctx, evalCtx, primary, user, cfg)
//	if err != nil {
//	    return err // configuration error, no trace
//	}
//	fmt.Println(trace.Reason, trace.Content)
package conversation
