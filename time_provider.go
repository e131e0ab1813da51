package duet

import (
	"sync"
	"time"
)

// TimeProvider is the clock a run reads for event timestamps and durations. Inject a
// [MockTimeProvider] to make them deterministic in tests.
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time
}

// DefaultTimeProvider is the standard TimeProvider using the system clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

// Now returns the current system time.
func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a TimeProvider that returns a fixed time, optionally advancing by a
// fixed step on every read.
type MockTimeProvider struct {
	mu        sync.Mutex
	fixedTime time.Time
	step      time.Duration
}

// NewMockTimeProvider creates a MockTimeProvider with the given fixed time.
func NewMockTimeProvider(t time.Time) *MockTimeProvider {
	return &MockTimeProvider{fixedTime: t}
}

// WithStep makes every call to Now advance the clock by step after returning.
func (m *MockTimeProvider) WithStep(step time.Duration) *MockTimeProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = step
	return m
}

// SetTime updates the fixed time returned by Now().
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixedTime = t
}

// Now returns the fixed time.
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.fixedTime
	m.fixedTime = m.fixedTime.Add(m.step)
	return now
}

// Compile-time check that MockTimeProvider implements TimeProvider.
var _ TimeProvider = (*MockTimeProvider)(nil)
