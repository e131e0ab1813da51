package duet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTimeProvider_Now(t *testing.T) {
	tp := NewDefaultTimeProvider()

	before := time.Now()
	result := tp.Now()
	after := time.Now()

	assert.False(t, result.Before(before) || result.After(after), "Now() outside expected range")
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)

	type input struct {
		step  time.Duration
		reads int
	}

	type expected struct {
		last time.Time
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "fixed clock",
			input:    input{step: 0, reads: 3},
			expected: expected{last: start},
		},
		{
			name:     "stepping clock",
			input:    input{step: time.Second, reads: 3},
			expected: expected{last: start.Add(2 * time.Second)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := NewMockTimeProvider(start).WithStep(tt.input.step)

			var last time.Time
			for i := 0; i < tt.input.reads; i++ {
				last = tp.Now()
			}

			assert.Equal(t, tt.expected.last, last)
		})
	}
}

func TestMockTimeProvider_SetTime(t *testing.T) {
	tp := NewMockTimeProvider(time.Time{})
	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tp.SetTime(later)

	assert.Equal(t, later, tp.Now())
}
