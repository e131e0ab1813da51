package bulb

import (
	"context"
	"fmt"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/eval"
)

// Name is the scenario name.
const Name = "bulb"

// Scenario is the graded bulb task over a Backend.
type Scenario struct {
	backend Backend
	prompt  string
}

// NewScenario creates the scenario. The task prompt defaults to AgentInstruction.
func NewScenario(backend Backend) *Scenario {
	return &Scenario{backend: backend, prompt: AgentInstruction}
}

// WithPrompt replaces the task prompt.
func (s *Scenario) WithPrompt(prompt string) *Scenario {
	s.prompt = prompt
	return s
}

func (s *Scenario) Name() string {
	return Name
}

func (s *Scenario) Health(ctx context.Context) error {
	return s.backend.Health(ctx)
}

// Setup turns both switches off and returns the task prompt.
func (s *Scenario) Setup(ctx context.Context) (string, error) {
	if err := s.backend.Reset(ctx); err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	return s.prompt, nil
}

func (s *Scenario) Tools() []duet.AnyTool {
	return Tools(s.backend)
}

// Grade returns 1 if the bulb is on and 0 otherwise.
func (s *Scenario) Grade(ctx context.Context, _ string) (float64, error) {
	on, err := s.backend.State(ctx)
	if err != nil {
		return 0, fmt.Errorf("read state: %w", err)
	}
	if on {
		return 1, nil
	}
	return 0, nil
}

// Close closes the backend if it holds resources.
func (s *Scenario) Close(ctx context.Context) error {
	if closer, ok := s.backend.(eval.Closer); ok {
		return closer.Close(ctx)
	}
	return nil
}

var (
	_ eval.Scenario      = (*Scenario)(nil)
	_ eval.HealthChecker = (*Scenario)(nil)
	_ eval.Closer        = (*Scenario)(nil)
)
