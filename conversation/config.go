package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/hooks"
	"github.com/rickchristie/duet/termination"
)

// Unlimited as MaxSteps runs until a termination condition fires. Any negative value behaves
// the same.
const Unlimited = -1

const (
	// DefaultMaxSteps is the default primary step budget.
	DefaultMaxSteps = 30

	// DefaultCounterpartMaxIterations is the default number of counterpart responses per
	// exchange.
	DefaultCounterpartMaxIterations = 2
)

// Config holds the options of a run.
type Config struct {
	// MaxSteps is the primary step budget. Counterpart responses do not count against it.
	// Zero runs no steps; negative is unlimited.
	MaxSteps int

	// CounterpartMaxIterations caps the responses requested from the counterpart in one
	// exchange. Must be at least 1.
	CounterpartMaxIterations int

	// CounterpartTimeout bounds one whole counterpart exchange. Zero means no bound beyond
	// the run's context.
	CounterpartTimeout time.Duration

	// StatelessCounterpart re-seeds the counterpart from its system messages on every exchange
	// instead of letting its history accumulate.
	StatelessCounterpart bool

	// Termination detects the stop signal in counterpart replies. Nil uses
	// termination.NewStopSignal().
	Termination termination.Detector

	// Hooks observes the run. Nil disables hooks.
	Hooks *hooks.Registry

	// TimeProvider stamps events and measures durations. Nil uses the system clock.
	TimeProvider duet.TimeProvider

	// NewRunID generates the run ID. Nil uses random UUIDs.
	NewRunID func() string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSteps:                 DefaultMaxSteps,
		CounterpartMaxIterations: DefaultCounterpartMaxIterations,
		Termination:              termination.NewStopSignal(),
		TimeProvider:             duet.NewDefaultTimeProvider(),
		NewRunID:                 uuid.NewString,
	}
}

func (c Config) validate() error {
	if c.CounterpartMaxIterations < 1 {
		return fmt.Errorf(
			"%w: counterpart max iterations must be at least 1, got %d",
			duet.ErrInvalidConfig, c.CounterpartMaxIterations,
		)
	}
	if c.CounterpartTimeout < 0 {
		return fmt.Errorf("%w: negative counterpart timeout", duet.ErrInvalidConfig)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Termination == nil {
		c.Termination = termination.NewStopSignal()
	}
	if c.TimeProvider == nil {
		c.TimeProvider = duet.NewDefaultTimeProvider()
	}
	if c.NewRunID == nil {
		c.NewRunID = uuid.NewString
	}
	return c
}

func (c Config) unlimited() bool {
	return c.MaxSteps < 0
}
