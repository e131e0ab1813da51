package tt

import (
	"context"
	"sync"

	"github.com/rickchristie/duet"
	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// MockModel - implements duet.Model
// -----------------------------------------------------------------------------

// MockModel is a configurable mock that implements duet.Model.
type MockModel struct {
	mu        sync.Mutex
	responses []*duet.ContentResponse
	errors    []error
	callCount int

	// CapturedMessages stores the messages passed to each GenerateContent call.
	CapturedMessages [][]llms.MessageContent

	// CapturedOptions stores the resolved call options of each GenerateContent call.
	CapturedOptions []llms.CallOptions
}

// NewMockModel creates a new MockModel.
func NewMockModel() *MockModel {
	return &MockModel{}
}

// AddResponse queues a text response with the specified token counts.
func (m *MockModel) AddResponse(content string, inputTokens, outputTokens int) *MockModel {
	return m.AddRawResponse(&duet.ContentResponse{
		Choices: []*duet.ContentChoice{{Content: content}},
		Info: &duet.GenerationInfo{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			TotalTokens:  inputTokens + outputTokens,
		},
	})
}

// AddToolCalls queues a response requesting tool calls.
func (m *MockModel) AddToolCalls(content string, calls ...llms.ToolCall) *MockModel {
	return m.AddRawResponse(&duet.ContentResponse{
		Choices: []*duet.ContentChoice{{Content: content, ToolCalls: calls}},
		Info:    &duet.GenerationInfo{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	})
}

// AddRawResponse queues a raw ContentResponse. Use this when you need full control over the
// response structure (e.g., empty Choices slice).
func (m *MockModel) AddRawResponse(resp *duet.ContentResponse) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	m.errors = append(m.errors, nil)
	return m
}

// AddError queues an error for the next call.
func (m *MockModel) AddError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of times GenerateContent has been called.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GenerateContent implements duet.Model. Once the queue is exhausted it returns an empty
// choice.
func (m *MockModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*duet.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.callCount
	m.callCount++
	m.CapturedMessages = append(m.CapturedMessages, messages)

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	m.CapturedOptions = append(m.CapturedOptions, opts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) && m.responses[idx] != nil {
		return m.responses[idx], nil
	}
	return &duet.ContentResponse{
		Choices: []*duet.ContentChoice{{}},
		Info:    &duet.GenerationInfo{},
	}, nil
}

var _ duet.Model = (*MockModel)(nil)
