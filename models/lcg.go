// Package models adapts LangChainGo models to duet's Model interface.
package models

import (
	"context"
	"time"

	"github.com/rickchristie/duet"
	"github.com/tmc/langchaingo/llms"
)

// LCGWrapper wraps an llms.Model and implements duet's Model interface.
// It normalizes token usage across providers and measures call duration.
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	model := models.NewLCGWrapper(llm).WithModelName("gpt-4o")
//
//	response, err := model.GenerateContent(ctx, messages)
type LCGWrapper struct {
	model     llms.Model
	modelName string
}

// NewLCGWrapper creates a new LCGWrapper wrapping the given llms.Model.
func NewLCGWrapper(model llms.Model) *LCGWrapper {
	return &LCGWrapper{
		model: model,
	}
}

// WithModelName sets the model name reported by Name.
// Returns the model for chaining.
func (m *LCGWrapper) WithModelName(name string) *LCGWrapper {
	m.modelName = name
	return m
}

// Name returns the configured model name.
func (m *LCGWrapper) Name() string {
	return m.modelName
}

// Unwrap returns the underlying llms.Model.
func (m *LCGWrapper) Unwrap() llms.Model {
	return m.model
}

// GenerateContent implements duet.Model.GenerateContent.
// Token usage is automatically normalized across providers.
func (m *LCGWrapper) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*duet.ContentResponse, error) {
	startTime := time.Now()
	lcgResponse, err := m.model.GenerateContent(ctx, messages, options...)
	duration := time.Since(startTime)

	var response *duet.ContentResponse
	if lcgResponse != nil {
		response = convertLCGResponse(lcgResponse, duration)
	}
	return response, err
}

// convertLCGResponse converts an llms.ContentResponse to duet.ContentResponse with normalized
// tokens.
func convertLCGResponse(
	lcgResponse *llms.ContentResponse,
	duration time.Duration,
) *duet.ContentResponse {
	response := &duet.ContentResponse{
		Choices: make([]*duet.ContentChoice, len(lcgResponse.Choices)),
		Info:    &duet.GenerationInfo{Duration: duration},
	}

	for i, choice := range lcgResponse.Choices {
		response.Choices[i] = &duet.ContentChoice{
			Content:          choice.Content,
			StopReason:       choice.StopReason,
			ToolCalls:        choice.ToolCalls,
			ReasoningContent: choice.ReasoningContent,
		}
	}

	// Token info lives on the first choice's GenerationInfo.
	if len(lcgResponse.Choices) > 0 && lcgResponse.Choices[0].GenerationInfo != nil {
		rawInfo := lcgResponse.Choices[0].GenerationInfo
		response.Info.InputTokens = extractInputTokens(rawInfo)
		response.Info.OutputTokens = extractOutputTokens(rawInfo)
		response.Info.TotalTokens = extractTotalTokens(
			rawInfo,
			response.Info.InputTokens,
			response.Info.OutputTokens,
		)
		response.Info.CachedInputTokens = extractCachedInputTokens(rawInfo)
		response.Info.ReasoningTokens = extractReasoningTokens(rawInfo)
	}

	return response
}

// extractInputTokens extracts input/prompt token count from GenerationInfo.
// Handles different key names used by different providers.
func extractInputTokens(info map[string]any) int {
	return firstInt(info, "PromptTokens", "InputTokens", "input_tokens")
}

// extractOutputTokens extracts output/completion token count from GenerationInfo.
func extractOutputTokens(info map[string]any) int {
	return firstInt(info, "CompletionTokens", "OutputTokens", "output_tokens")
}

// extractTotalTokens extracts total token count or computes it.
func extractTotalTokens(info map[string]any, input, output int) int {
	if v := firstInt(info, "TotalTokens", "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

// extractCachedInputTokens extracts cached input token count from GenerationInfo.
func extractCachedInputTokens(info map[string]any) int {
	return firstInt(info, "PromptCachedTokens", "CacheReadInputTokens", "CachedTokens")
}

// extractReasoningTokens extracts reasoning/thinking token count from GenerationInfo.
func extractReasoningTokens(info map[string]any) int {
	return firstInt(info, "ReasoningTokens", "CompletionReasoningTokens", "ThinkingTokens")
}

// firstInt returns the first positive value among keys.
func firstInt(info map[string]any, keys ...string) int {
	for _, key := range keys {
		if v := getIntFromMap(info, key); v > 0 {
			return v
		}
	}
	return 0
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

var _ duet.Model = (*LCGWrapper)(nil)
