// Package toolset holds the tools a participant may call and executes tool batches.
//
// # Overview
//
// A [Set] is responsible for:
//  1. Keeping tools addressable by name, in registration order
//  2. Compiling each tool's parameter schema once
//  3. Deriving filtered views from an allow-list
//  4. Validating arguments and executing a batch of calls, one at a time
//  5. Exposing provider tool definitions ([llms.Tool]) for native tool calling
//
// # Filtering
//
// Filtering never mutates the receiver. Each view is a new immutable Set, so the full tool
// surface of an evaluation context can be shared by both participants:
//
//	full, err := toolset.New(evalCtx.Tools()...)
//	agentTools := full.Filter([]string{"agent_switch"})
//	userTools := full.Filter([]string{"user_switch", "check_status"})
//
// An empty allow-list keeps every tool. Names that match no tool are ignored.
//
// # Execution
//
// [Set.Execute] runs calls sequentially and returns exactly one result per call. A call to an
// unknown tool, arguments that fail validation, and an error returned by the tool all become
// results with IsError set; they are part of the conversation, not run failures. Only a done
// context aborts a batch.
//
// Output formatting:
//   - string output is used as-is
//   - nil output becomes an empty string
//   - anything else is marshaled to JSON
package toolset
