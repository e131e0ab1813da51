package eval

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/log"
)

// DefaultSuccessThreshold is the minimum reward counted as a success.
const DefaultSuccessThreshold = 1.0

var (
	// ErrAlreadySubmitted is returned when an answer is submitted twice.
	ErrAlreadySubmitted = errors.New("eval: answer already submitted")

	// ErrNoScenario is returned when submitting to a context without a scenario.
	ErrNoScenario = errors.New("eval: no active scenario")
)

// Scenario is a graded task.
type Scenario interface {
	// Name identifies the scenario in logs.
	Name() string

	// Setup prepares the environment and returns the task prompt.
	Setup(ctx context.Context) (string, error)

	// Tools returns the full tool surface of the environment.
	Tools() []duet.AnyTool

	// Grade scores the final answer. Scenarios that grade the environment state may ignore it.
	Grade(ctx context.Context, answer string) (float64, error)
}

// HealthChecker is implemented by scenarios that can verify their environment is reachable.
// Start calls it before Setup.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Closer is implemented by scenarios holding resources released by Context.Close.
type Closer interface {
	Close(ctx context.Context) error
}

// Context is a [duet.EvalContext] backed by an optional [Scenario]. It is safe for concurrent
// use.
type Context struct {
	scenario  Scenario
	prompt    string
	tools     []duet.AnyTool
	threshold float64

	mu        sync.Mutex
	submitted bool
	answer    string
	reward    float64
	gradeErr  error
}

// Start checks the scenario's environment, runs its setup and returns a context for one run.
func Start(ctx context.Context, scenario Scenario) (*Context, error) {
	if scenario == nil {
		return nil, fmt.Errorf("%w: nil scenario", duet.ErrInvalidConfig)
	}
	if hc, ok := scenario.(HealthChecker); ok {
		if err := hc.Health(ctx); err != nil {
			return nil, fmt.Errorf("eval: %s health: %w", scenario.Name(), err)
		}
	}

	prompt, err := scenario.Setup(ctx)
	if err != nil {
		return nil, fmt.Errorf("eval: %s setup: %w", scenario.Name(), err)
	}
	log.Infof("scenario %s ready", scenario.Name())

	return &Context{
		scenario:  scenario,
		prompt:    prompt,
		tools:     scenario.Tools(),
		threshold: DefaultSuccessThreshold,
	}, nil
}

// NewContext creates a context without a scenario.
func NewContext(prompt string, tools ...duet.AnyTool) *Context {
	return &Context{prompt: prompt, tools: tools, threshold: DefaultSuccessThreshold}
}

// WithSuccessThreshold sets the minimum reward Success accepts.
func (c *Context) WithSuccessThreshold(threshold float64) *Context {
	c.threshold = threshold
	return c
}

// Prompt implements duet.EvalContext.
func (c *Context) Prompt() string {
	return c.prompt
}

// HasScenario implements duet.EvalContext.
func (c *Context) HasScenario() bool {
	return c.scenario != nil
}

// Tools implements duet.EvalContext.
func (c *Context) Tools() []duet.AnyTool {
	return c.tools
}

// Submit implements duet.EvalContext by grading answer. Only the first submission is accepted,
// even when its grading failed.
func (c *Context) Submit(ctx context.Context, answer string) error {
	if c.scenario == nil {
		return ErrNoScenario
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return ErrAlreadySubmitted
	}
	c.submitted = true
	c.answer = answer

	reward, err := c.scenario.Grade(ctx, answer)
	if err != nil {
		c.gradeErr = err
		return fmt.Errorf("eval: grade %s: %w", c.scenario.Name(), err)
	}
	c.reward = reward
	log.Infof("scenario %s graded: reward %.2f", c.scenario.Name(), reward)
	return nil
}

// Submitted reports whether an answer was submitted.
func (c *Context) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// Answer returns the submitted answer.
func (c *Context) Answer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answer
}

// Reward returns the graded reward, 0 before grading or when grading failed.
func (c *Context) Reward() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reward
}

// Success reports whether the answer was graded at or above the success threshold.
func (c *Context) Success() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted && c.gradeErr == nil && c.reward >= c.threshold
}

// Close releases the scenario's resources.
func (c *Context) Close(ctx context.Context) error {
	if closer, ok := c.scenario.(Closer); ok {
		return closer.Close(ctx)
	}
	return nil
}

var _ duet.EvalContext = (*Context)(nil)
