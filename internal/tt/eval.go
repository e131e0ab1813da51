package tt

import (
	"context"

	"github.com/rickchristie/duet"
)

// MockEvalContext is an in-memory duet.EvalContext.
type MockEvalContext struct {
	prompt      string
	hasScenario bool
	tools       []duet.AnyTool
	submitErr   error

	// Submitted records the content of every Submit call.
	Submitted []string
}

// NewMockEvalContext creates an evaluation context with an active scenario.
func NewMockEvalContext(prompt string, tools ...duet.AnyTool) *MockEvalContext {
	return &MockEvalContext{prompt: prompt, hasScenario: true, tools: tools}
}

// WithoutScenario makes HasScenario report false.
func (m *MockEvalContext) WithoutScenario() *MockEvalContext {
	m.hasScenario = false
	return m
}

// WithSubmitError makes Submit fail.
func (m *MockEvalContext) WithSubmitError(err error) *MockEvalContext {
	m.submitErr = err
	return m
}

// Prompt implements duet.EvalContext.
func (m *MockEvalContext) Prompt() string { return m.prompt }

// HasScenario implements duet.EvalContext.
func (m *MockEvalContext) HasScenario() bool { return m.hasScenario }

// Tools implements duet.EvalContext.
func (m *MockEvalContext) Tools() []duet.AnyTool { return m.tools }

// Submit implements duet.EvalContext.
func (m *MockEvalContext) Submit(_ context.Context, content string) error {
	m.Submitted = append(m.Submitted, content)
	return m.submitErr
}

var _ duet.EvalContext = (*MockEvalContext)(nil)
