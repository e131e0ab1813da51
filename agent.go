package duet

import (
	"context"
)

// Role identifies which side of a conversation a participant plays.
type Role string

const (
	// RolePrimary is the agent under evaluation.
	RolePrimary Role = "primary"

	// RoleCounterpart is the simulated other party (usually a simulated user).
	RoleCounterpart Role = "counterpart"
)

// Agent is a conversation participant. The orchestrator only ever talks to participants through
// this interface, which keeps model providers, prompt formats and tool surfaces out of the loop.
//
// Implementations own the representation of their messages: the orchestrator never builds a
// [MessageContent] itself, it asks the agent to format content and appends what comes back to
// the participant's history.
//
// # Implementing an Agent
//
//	type EchoAgent struct{}
//
//	func (a *EchoAgent) SystemMessages(ctx context.Context) ([]duet.MessageContent, error) {
//	    return []duet.MessageContent{duet.TextMessage(llms.ChatMessageTypeSystem, "Echo.")}, nil
//	}
//
//	func (a *EchoAgent) GetResponse(
//	    ctx context.Context, messages []duet.MessageContent,
//	) (*duet.Response, error) {
//	    last := messages[len(messages)-1]
//	    return &duet.Response{Content: duet.TextOf(last)}, nil
//	}
//
// See agents/chat for a langchaingo-backed implementation with native tool calling.
type Agent interface {
	// SystemMessages returns the messages that open the participant's history.
	SystemMessages(ctx context.Context) ([]MessageContent, error)

	// FormatMessage converts content into the participant's message representation.
	// The role says who the content is attributed to from this participant's point of view:
	// its own output is llms.ChatMessageTypeAI, anything from the other party is
	// llms.ChatMessageTypeHuman.
	FormatMessage(ctx context.Context, role ChatRole, parts ...ContentPart) ([]MessageContent, error)

	// GetResponse asks the participant for its next response given its accumulated history.
	GetResponse(ctx context.Context, messages []MessageContent) (*Response, error)

	// CallTools executes a batch of tool calls and returns one result per call, in order.
	//
	// Tool failures are reported as results with IsError set. An error return means the tool
	// infrastructure itself failed and ends the run.
	CallTools(ctx context.Context, calls []ToolCall) ([]ToolResult, error)

	// FormatToolResults converts a tool batch and its results into history messages.
	FormatToolResults(ctx context.Context, calls []ToolCall, results []ToolResult) ([]MessageContent, error)

	// Cleanup releases resources held by the participant. Called exactly once per run.
	Cleanup(ctx context.Context) error
}

// ToolUser is implemented by agents that discover their tools from the evaluation context.
//
// The orchestrator builds the full tool set once, derives a filtered view from AllowedTools,
// and hands that view to Initialize. Initialize is only called when Initialized reports false,
// so an agent reused across runs keeps the tools from its first initialization.
type ToolUser interface {
	// AllowedTools returns the allow-list of tool names. Empty means all tools are allowed.
	AllowedTools() []string

	// Initialized reports whether Initialize has completed.
	Initialized() bool

	// Initialize receives the filtered tools. Agents rebuild any provider-specific tool
	// definitions here.
	Initialize(ctx context.Context, tools []AnyTool) error
}

// Response is a participant's answer to one GetResponse call.
type Response struct {
	// Content is the natural-language part of the response.
	Content string

	// ToolCalls are the tool invocations requested in this response.
	ToolCalls []ToolCall

	// IsError is set when the response itself reports an error condition (for example a
	// provider refusal surfaced as content).
	IsError bool

	// Info carries generation metadata, if the agent has any.
	Info *GenerationInfo
}

// HasToolCalls reports whether the response requested any tool invocations.
func (r *Response) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}

// Empty reports whether the response carries neither text nor tool calls.
func (r *Response) Empty() bool {
	return r == nil || (r.Content == "" && len(r.ToolCalls) == 0)
}
