package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/toolset"
	"github.com/tmc/langchaingo/llms"
)

// ErrNoChoices is returned when the model answers without any choice.
var ErrNoChoices = errors.New("chat: model returned no choices")

// SystemPromptData is the data available to system prompt templates.
type SystemPromptData struct {
	// Prompt is the static prompt set with WithSystemPrompt.
	Prompt string

	// Tools are the names of the tools this agent may call.
	Tools []string

	// Now is the current time from the agent's TimeProvider.
	Now time.Time
}

var templateFuncs = template.FuncMap{"join": strings.Join}

// Agent is a chat-model participant. See the package documentation.
type Agent struct {
	model           duet.Model
	systemPrompt    string
	systemTemplate  *template.Template
	allowedTools    []string
	responseTimeout time.Duration
	callOptions     []llms.CallOption
	timeProvider    duet.TimeProvider

	tools       *toolset.Set
	definitions []llms.Tool
	initialized bool
	callSeq     int
}

// NewAgent creates a new Agent with the given model and default settings.
func NewAgent(model duet.Model) *Agent {
	return &Agent{
		model:        model,
		timeProvider: duet.NewDefaultTimeProvider(),
	}
}

// WithSystemPrompt sets the system prompt.
func (a *Agent) WithSystemPrompt(prompt string) *Agent {
	a.systemPrompt = prompt
	return a
}

// WithSystemTemplateString sets a system prompt template. It panics if the template does not
// parse, like template.Must.
func (a *Agent) WithSystemTemplateString(tmpl string) *Agent {
	a.systemTemplate = template.Must(template.New("system").Funcs(templateFuncs).Parse(tmpl))
	return a
}

// WithAllowedTools restricts the tools this agent receives from the evaluation context.
func (a *Agent) WithAllowedTools(names ...string) *Agent {
	a.allowedTools = names
	return a
}

// WithResponseTimeout bounds each model call. Zero means no bound.
func (a *Agent) WithResponseTimeout(d time.Duration) *Agent {
	a.responseTimeout = d
	return a
}

// WithCallOptions appends options passed to every model call.
func (a *Agent) WithCallOptions(opts ...llms.CallOption) *Agent {
	a.callOptions = append(a.callOptions, opts...)
	return a
}

// WithTimeProvider sets the clock exposed to templates.
func (a *Agent) WithTimeProvider(tp duet.TimeProvider) *Agent {
	a.timeProvider = tp
	return a
}

// Tools returns the tool set received at initialization, nil before.
func (a *Agent) Tools() *toolset.Set {
	return a.tools
}

// AllowedTools implements duet.ToolUser.
func (a *Agent) AllowedTools() []string {
	return a.allowedTools
}

// Initialized implements duet.ToolUser.
func (a *Agent) Initialized() bool {
	return a.initialized
}

// Initialize implements duet.ToolUser. It rebuilds the provider tool definitions from tools.
func (a *Agent) Initialize(_ context.Context, tools []duet.AnyTool) error {
	set, err := toolset.New(tools...)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	a.tools = set
	a.definitions = set.Definitions()
	a.initialized = true
	return nil
}

// SystemMessages implements duet.Agent.
func (a *Agent) SystemMessages(context.Context) ([]duet.MessageContent, error) {
	prompt := a.systemPrompt
	if a.systemTemplate != nil {
		var sb strings.Builder
		data := SystemPromptData{
			Prompt: a.systemPrompt,
			Tools:  a.tools.Names(),
			Now:    a.timeProvider.Now(),
		}
		if err := a.systemTemplate.Execute(&sb, data); err != nil {
			return nil, fmt.Errorf("chat: render system prompt: %w", err)
		}
		prompt = sb.String()
	}

	if prompt == "" {
		return nil, nil
	}
	return []duet.MessageContent{duet.TextMessage(duet.ChatRoleSystem, prompt)}, nil
}

// FormatMessage implements duet.Agent.
func (a *Agent) FormatMessage(
	_ context.Context,
	role duet.ChatRole,
	parts ...duet.ContentPart,
) ([]duet.MessageContent, error) {
	return []duet.MessageContent{{Role: role, Parts: parts}}, nil
}

// GetResponse implements duet.Agent.
func (a *Agent) GetResponse(
	ctx context.Context,
	messages []duet.MessageContent,
) (*duet.Response, error) {
	if a.responseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.responseTimeout)
		defer cancel()
	}

	opts := a.callOptions
	if len(a.definitions) > 0 {
		opts = append(opts[:len(opts):len(opts)], llms.WithTools(a.definitions))
	}

	resp, err := a.model.GenerateContent(ctx, duet.ToLLMMessages(messages), opts...)
	if err != nil {
		return nil, fmt.Errorf("chat: generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, ErrNoChoices
	}

	choice := resp.Choices[0]
	return &duet.Response{
		Content:   choice.Content,
		ToolCalls: a.toolCalls(choice.ToolCalls),
		Info:      resp.Info,
	}, nil
}

// toolCalls converts provider tool calls, assigning IDs to calls that have none.
func (a *Agent) toolCalls(calls []llms.ToolCall) []duet.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]duet.ToolCall, 0, len(calls))
	for _, call := range calls {
		if call.FunctionCall == nil {
			continue
		}
		a.callSeq++
		id := call.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", a.callSeq)
		}
		out = append(out, duet.ToolCall{
			ID:        id,
			Name:      call.FunctionCall.Name,
			Arguments: call.FunctionCall.Arguments,
		})
	}
	return out
}

// CallTools implements duet.Agent.
func (a *Agent) CallTools(ctx context.Context, calls []duet.ToolCall) ([]duet.ToolResult, error) {
	return a.tools.Execute(ctx, calls)
}

// FormatToolResults implements duet.Agent.
func (a *Agent) FormatToolResults(
	_ context.Context,
	calls []duet.ToolCall,
	results []duet.ToolResult,
) ([]duet.MessageContent, error) {
	return duet.ToolCallMessages(calls, results), nil
}

// Cleanup implements duet.Agent. The agent holds no per-run resources; the tool set from
// initialization is kept for later runs.
func (a *Agent) Cleanup(context.Context) error {
	return nil
}

var (
	_ duet.Agent    = (*Agent)(nil)
	_ duet.ToolUser = (*Agent)(nil)
)
