// Package duet runs conversations between two LLM-backed agents and evaluates the outcome.
//
// A run pairs a primary agent (the agent under evaluation) with a counterpart agent (usually
// a simulated user). Each step asks the primary for a response, executes any tools it
// requested, and hands its text to the counterpart, whose reply becomes the primary's next
// user message. The run ends when the counterpart says the stop token, the primary goes
// silent, the step budget runs out, an error occurs, or the context is cancelled.
//
// # Quick Start: Bulb Scenario
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/rickchristie/duet/agents/chat"
//	    "github.com/rickchristie/duet/conversation"
//	    "github.com/rickchristie/duet/eval"
//	    "github.com/rickchristie/duet/models"
//	    "github.com/rickchristie/duet/scenario/bulb"
//	    "github.com/tmc/langchaingo/llms/openai"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    llm, _ := openai.New(openai.WithModel("gpt-4o-mini"))
//	    model := models.NewLCGWrapper(llm).WithModelName("gpt-4o-mini")
//
//	    // 1. Start the scenario. Setup resets the backend and produces the task prompt.
//	    evalCtx, err := eval.Start(ctx, bulb.NewScenario(bulb.NewMemoryBackend()))
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer evalCtx.Close(ctx)
//
//	    // 2. Build both participants. Each only sees the tools it is allowed to use.
//	    agent := chat.NewAgent(model).WithAllowedTools(bulb.AgentTools...)
//	    user := chat.NewAgent(model).
//	        WithSystemPrompt(bulb.UserInstruction).
//	        WithAllowedTools(bulb.UserTools...)
//
//	    // 3. Run the conversation.
//	    trace, err := conversation.Run(ctx, evalCtx, agent, user, conversation.DefaultConfig())
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // 4. Check results.
//	    fmt.Println(trace.Reason, trace.Content)
//	    fmt.Println("reward:", evalCtx.Reward(), "success:", evalCtx.Success())
//	}
//
// # Packages
//
//   - conversation: the orchestrator ([conversation.Run]) and its config.
//   - agents/chat: a model-backed [Agent].
//   - agents/human: an [Agent] driven by a person at a terminal.
//   - eval: an [EvalContext] that sets up, grades, and tears down a scenario.
//   - scenario/bulb: the two-switch light bulb scenario with memory and HTTP backends.
//   - toolset, schema: tool registration, argument validation, and definitions.
//   - termination: stop signal detection.
//   - hooks: the hook registry. loggers and telemetry provide hook implementations.
//   - models: adapters from langchaingo models to [Model].
//   - config: YAML configuration for the duet command.
//
// # Traces
//
// [conversation.Run] always returns a [Trace] once its arguments are valid. Failures during
// the run are reported through [Trace.Reason] and [Trace.Content], never as a
// returned error. The trace holds both participants' histories, so a run can be inspected
// or replayed after the fact.
//
// # Hooks
//
// Implement any of the hook interfaces ([BeforeRunHook], [AfterStepHook], and the rest) and
// register the implementation with a hooks.Registry. Hooks run synchronously on the
// goroutine driving the run.
package duet
