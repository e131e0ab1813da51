package models

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// fakeLLM is a minimal llms.Model returning a canned response.
type fakeLLM struct {
	response *llms.ContentResponse
	err      error
	messages []llms.MessageContent
}

func (f *fakeLLM) GenerateContent(
	_ context.Context,
	messages []llms.MessageContent,
	_ ...llms.CallOption,
) (*llms.ContentResponse, error) {
	f.messages = messages
	return f.response, f.err
}

func (f *fakeLLM) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func TestLCGWrapper_GenerateContent(t *testing.T) {
	type input struct {
		info map[string]any
	}

	type expected struct {
		inputTokens     int
		outputTokens    int
		totalTokens     int
		cachedTokens    int
		reasoningTokens int
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "openai keys",
			input: input{info: map[string]any{
				"PromptTokens":       100,
				"CompletionTokens":   20,
				"TotalTokens":        120,
				"PromptCachedTokens": 40,
				"ReasoningTokens":    5,
			}},
			expected: expected{
				inputTokens: 100, outputTokens: 20, totalTokens: 120,
				cachedTokens: 40, reasoningTokens: 5,
			},
		},
		{
			name: "anthropic keys without total",
			input: input{info: map[string]any{
				"InputTokens":          int64(30),
				"OutputTokens":         float64(12),
				"CacheReadInputTokens": int32(8),
			}},
			expected: expected{inputTokens: 30, outputTokens: 12, totalTokens: 42, cachedTokens: 8},
		},
		{
			name: "snake case keys",
			input: input{info: map[string]any{
				"input_tokens":  7,
				"output_tokens": 3,
				"total_tokens":  11,
			}},
			expected: expected{inputTokens: 7, outputTokens: 3, totalTokens: 11},
		},
		{
			name:     "no generation info",
			input:    input{info: nil},
			expected: expected{},
		},
		{
			name:     "unknown value types are ignored",
			input:    input{info: map[string]any{"PromptTokens": "100"}},
			expected: expected{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{response: &llms.ContentResponse{
				Choices: []*llms.ContentChoice{{
					Content:        "hello",
					StopReason:     "stop",
					GenerationInfo: tt.input.info,
					ToolCalls: []llms.ToolCall{{
						ID:           "call_1",
						Type:         "function",
						FunctionCall: &llms.FunctionCall{Name: "check_status", Arguments: "{}"},
					}},
				}},
			}}
			model := NewLCGWrapper(llm).WithModelName("test-model")

			resp, err := model.GenerateContent(context.Background(), []llms.MessageContent{
				llms.TextParts(llms.ChatMessageTypeHuman, "hi"),
			})

			require.NoError(t, err)
			require.Len(t, resp.Choices, 1)
			assert.Equal(t, "hello", resp.Choices[0].Content)
			assert.Equal(t, "stop", resp.Choices[0].StopReason)
			assert.Equal(t, "check_status", resp.Choices[0].ToolCalls[0].FunctionCall.Name)
			assert.Equal(t, tt.expected.inputTokens, resp.Info.InputTokens)
			assert.Equal(t, tt.expected.outputTokens, resp.Info.OutputTokens)
			assert.Equal(t, tt.expected.totalTokens, resp.Info.TotalTokens)
			assert.Equal(t, tt.expected.cachedTokens, resp.Info.CachedInputTokens)
			assert.Equal(t, tt.expected.reasoningTokens, resp.Info.ReasoningTokens)
			assert.Len(t, llm.messages, 1)
			assert.Equal(t, "test-model", model.Name())
			assert.Same(t, llm, model.Unwrap())
		})
	}
}

func TestLCGWrapper_Error(t *testing.T) {
	boom := errors.New("provider down")
	model := NewLCGWrapper(&fakeLLM{err: boom})

	resp, err := model.GenerateContent(context.Background(), nil)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, resp)
}

func TestLCGWrapper_OpenAICompatible(t *testing.T) {
	apiKey := os.Getenv("DUET_TEST_OPENAI_KEY")
	if apiKey == "" {
		t.Skip("DUET_TEST_OPENAI_KEY not set")
	}

	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel("gpt-4o-mini"))
	require.NoError(t, err, "failed to create OpenAI LLM")

	resp, err := NewLCGWrapper(llm).GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "Say hello."),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Choices)
	assert.NotEmpty(t, resp.Choices[0].Content)
	assert.Positive(t, resp.Info.TotalTokens)
}
