package bulb

import (
	"context"
	"fmt"
	"sync"
)

// Side names the owner of a switch.
type Side string

const (
	SideAgent Side = "agent"
	SideUser  Side = "user"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideAgent || s == SideUser
}

// Backend stores the two switches.
type Backend interface {
	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error

	// Reset turns both switches off.
	Reset(ctx context.Context) error

	// Flip toggles the switch of side.
	Flip(ctx context.Context, side Side) error

	// CheckStatus is the user's view of the bulb.
	CheckStatus(ctx context.Context) (bool, error)

	// State is the authoritative bulb state used for grading.
	State(ctx context.Context) (bool, error)
}

// Switches is a snapshot of both switch positions.
type Switches struct {
	Agent bool `json:"agent_switch" yaml:"agent_switch"`
	User  bool `json:"user_switch" yaml:"user_switch"`
}

// BulbOn reports whether the bulb lights.
func (s Switches) BulbOn() bool {
	return s.Agent && s.User
}

// MemoryBackend is an in-process Backend. It is safe for concurrent use.
type MemoryBackend struct {
	mu       sync.Mutex
	switches Switches
	flips    map[Side]int
}

// NewMemoryBackend creates a backend with both switches off.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{flips: make(map[Side]int)}
}

// WithSwitches sets the initial switch positions.
func (b *MemoryBackend) WithSwitches(s Switches) *MemoryBackend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.switches = s
	return b
}

func (b *MemoryBackend) Health(context.Context) error {
	return nil
}

func (b *MemoryBackend) Reset(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.switches = Switches{}
	return nil
}

func (b *MemoryBackend) Flip(_ context.Context, side Side) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch side {
	case SideAgent:
		b.switches.Agent = !b.switches.Agent
	case SideUser:
		b.switches.User = !b.switches.User
	default:
		return fmt.Errorf("bulb: unknown side %q", side)
	}
	b.flips[side]++
	return nil
}

func (b *MemoryBackend) CheckStatus(context.Context) (bool, error) {
	return b.Switches().BulbOn(), nil
}

func (b *MemoryBackend) State(context.Context) (bool, error) {
	return b.Switches().BulbOn(), nil
}

// Switches returns the current switch positions.
func (b *MemoryBackend) Switches() Switches {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.switches
}

// Flips returns how many times the switch of side was flipped.
func (b *MemoryBackend) Flips(side Side) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flips[side]
}

var _ Backend = (*MemoryBackend)(nil)
