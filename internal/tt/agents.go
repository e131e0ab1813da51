// Package tt holds test doubles and assertions shared by duet's package tests.
package tt

import (
	"context"
	"errors"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/toolset"
)

// -----------------------------------------------------------------------------
// ScriptedAgent - implements duet.Agent and duet.ToolUser from a script
// -----------------------------------------------------------------------------

// ResponseFunc produces a response for the given history.
type ResponseFunc func(ctx context.Context, history []duet.MessageContent) (*duet.Response, error)

// ScriptedAgent is a configurable participant that replays queued responses.
//
// When the script runs out it returns an empty response, which ends a primary's conversation
// and makes a counterpart fall back to "Okay.".
type ScriptedAgent struct {
	system  string
	script  []ResponseFunc
	allowed []string

	initErr     error
	systemErr   error
	cleanupErr  error
	callTools   func(ctx context.Context, calls []duet.ToolCall) ([]duet.ToolResult, error)
	initialized bool
	tools       []duet.AnyTool

	// Histories stores a copy of the history passed to every GetResponse call.
	Histories [][]duet.MessageContent

	// ToolBatches stores every batch passed to CallTools.
	ToolBatches [][]duet.ToolCall

	// SystemCalls counts SystemMessages calls.
	SystemCalls int

	// InitializeCalls counts Initialize calls.
	InitializeCalls int

	// CleanupCalls counts Cleanup calls.
	CleanupCalls int
}

// NewScriptedAgent creates a ScriptedAgent whose history opens with systemPrompt.
func NewScriptedAgent(systemPrompt string) *ScriptedAgent {
	return &ScriptedAgent{system: systemPrompt}
}

// Say queues a text-only response.
func (a *ScriptedAgent) Say(content string) *ScriptedAgent {
	return a.Respond(&duet.Response{Content: content})
}

// CallTool queues a response requesting calls, with optional accompanying text.
func (a *ScriptedAgent) CallTool(content string, calls ...duet.ToolCall) *ScriptedAgent {
	return a.Respond(&duet.Response{Content: content, ToolCalls: calls})
}

// Respond queues a response.
func (a *ScriptedAgent) Respond(resp *duet.Response) *ScriptedAgent {
	return a.RespondFunc(func(context.Context, []duet.MessageContent) (*duet.Response, error) {
		return resp, nil
	})
}

// Fail queues an error.
func (a *ScriptedAgent) Fail(err error) *ScriptedAgent {
	return a.RespondFunc(func(context.Context, []duet.MessageContent) (*duet.Response, error) {
		return nil, err
	})
}

// Block queues a response that waits until the context is done and returns its error.
func (a *ScriptedAgent) Block() *ScriptedAgent {
	return a.RespondFunc(func(ctx context.Context, _ []duet.MessageContent) (*duet.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
}

// RespondFunc queues a custom response function.
func (a *ScriptedAgent) RespondFunc(fn ResponseFunc) *ScriptedAgent {
	a.script = append(a.script, fn)
	return a
}

// WithAllowedTools sets the tool allow-list.
func (a *ScriptedAgent) WithAllowedTools(names ...string) *ScriptedAgent {
	a.allowed = names
	return a
}

// WithCallTools replaces the default tool execution, which runs the initialized tools.
func (a *ScriptedAgent) WithCallTools(
	fn func(ctx context.Context, calls []duet.ToolCall) ([]duet.ToolResult, error),
) *ScriptedAgent {
	a.callTools = fn
	return a
}

// WithInitError makes Initialize fail.
func (a *ScriptedAgent) WithInitError(err error) *ScriptedAgent {
	a.initErr = err
	return a
}

// WithSystemError makes SystemMessages fail.
func (a *ScriptedAgent) WithSystemError(err error) *ScriptedAgent {
	a.systemErr = err
	return a
}

// WithCleanupError makes Cleanup fail.
func (a *ScriptedAgent) WithCleanupError(err error) *ScriptedAgent {
	a.cleanupErr = err
	return a
}

// MarkInitialized makes the agent report itself as already initialized.
func (a *ScriptedAgent) MarkInitialized() *ScriptedAgent {
	a.initialized = true
	return a
}

// Tools returns the tools received by Initialize.
func (a *ScriptedAgent) Tools() []duet.AnyTool {
	return a.tools
}

// ToolNames returns the names of the tools received by Initialize.
func (a *ScriptedAgent) ToolNames() []string {
	names := make([]string, len(a.tools))
	for i, tool := range a.tools {
		names[i] = tool.Name()
	}
	return names
}

// ResponseCount returns the number of GetResponse calls.
func (a *ScriptedAgent) ResponseCount() int {
	return len(a.Histories)
}

// AllowedTools implements duet.ToolUser.
func (a *ScriptedAgent) AllowedTools() []string {
	return a.allowed
}

// Initialized implements duet.ToolUser.
func (a *ScriptedAgent) Initialized() bool {
	return a.initialized
}

// Initialize implements duet.ToolUser.
func (a *ScriptedAgent) Initialize(_ context.Context, tools []duet.AnyTool) error {
	a.InitializeCalls++
	if a.initErr != nil {
		return a.initErr
	}
	a.tools = tools
	a.initialized = true
	return nil
}

// SystemMessages implements duet.Agent.
func (a *ScriptedAgent) SystemMessages(context.Context) ([]duet.MessageContent, error) {
	a.SystemCalls++
	if a.systemErr != nil {
		return nil, a.systemErr
	}
	if a.system == "" {
		return nil, nil
	}
	return []duet.MessageContent{duet.TextMessage(duet.ChatRoleSystem, a.system)}, nil
}

// FormatMessage implements duet.Agent.
func (a *ScriptedAgent) FormatMessage(
	_ context.Context,
	role duet.ChatRole,
	parts ...duet.ContentPart,
) ([]duet.MessageContent, error) {
	return []duet.MessageContent{{Role: role, Parts: parts}}, nil
}

// GetResponse implements duet.Agent.
func (a *ScriptedAgent) GetResponse(
	ctx context.Context,
	messages []duet.MessageContent,
) (*duet.Response, error) {
	idx := len(a.Histories)
	a.Histories = append(a.Histories, duet.CloneMessages(messages))

	if idx >= len(a.script) {
		return &duet.Response{}, nil
	}
	return a.script[idx](ctx, messages)
}

// CallTools implements duet.Agent.
func (a *ScriptedAgent) CallTools(ctx context.Context, calls []duet.ToolCall) ([]duet.ToolResult, error) {
	a.ToolBatches = append(a.ToolBatches, calls)
	if a.callTools != nil {
		return a.callTools(ctx, calls)
	}
	set, err := toolset.New(a.tools...)
	if err != nil {
		return nil, err
	}
	return set.Execute(ctx, calls)
}

// FormatToolResults implements duet.Agent.
func (a *ScriptedAgent) FormatToolResults(
	_ context.Context,
	calls []duet.ToolCall,
	results []duet.ToolResult,
) ([]duet.MessageContent, error) {
	return duet.ToolCallMessages(calls, results), nil
}

// Cleanup implements duet.Agent.
func (a *ScriptedAgent) Cleanup(context.Context) error {
	a.CleanupCalls++
	return a.cleanupErr
}

// ErrScripted is a generic failure for scripts.
var ErrScripted = errors.New("scripted failure")

var (
	_ duet.Agent    = (*ScriptedAgent)(nil)
	_ duet.ToolUser = (*ScriptedAgent)(nil)
)
