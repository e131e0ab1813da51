package duet

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Model is duet's model interface. It wraps LangChainGo's llms.Model but returns a response with
// normalized token usage information.
type Model interface {
	// GenerateContent generates content from a sequence of messages.
	// Unlike llms.Model, this returns a GenerationInfo struct with normalized
	// token counts that work across all providers.
	GenerateContent(
		ctx context.Context,
		messages []llms.MessageContent,
		options ...llms.CallOption,
	) (*ContentResponse, error)
}

// ContentResponse is the response from a GenerateContent call.
type ContentResponse struct {
	// Choices contains the generated content choices.
	Choices []*ContentChoice

	// Info contains generation metadata including normalized token counts.
	Info *GenerationInfo
}

// ContentChoice is a single content choice from the model.
type ContentChoice struct {
	// Content is the textual content of the response.
	Content string

	// StopReason is the reason the model stopped generating.
	StopReason string

	// ToolCalls is a list of tool calls the model asks to invoke.
	ToolCalls []llms.ToolCall

	// ReasoningContent contains reasoning/thinking content if supported.
	ReasoningContent string
}

// GenerationInfo contains metadata about the generation including normalized token counts.
type GenerationInfo struct {
	// InputTokens is the number of input/prompt tokens used.
	// This is normalized across providers:
	//   - OpenAI: PromptTokens
	//   - Anthropic: InputTokens
	//   - Google / Bedrock: input_tokens
	InputTokens int

	// OutputTokens is the number of output/completion tokens generated.
	OutputTokens int

	// TotalTokens is the total token count (InputTokens + OutputTokens).
	// Some providers return this directly; otherwise it's computed.
	TotalTokens int

	// CachedInputTokens is the part of InputTokens served from the provider's prompt cache.
	CachedInputTokens int

	// ReasoningTokens is the part of OutputTokens spent on hidden reasoning.
	ReasoningTokens int

	// Duration is how long the generation took.
	Duration time.Duration
}
