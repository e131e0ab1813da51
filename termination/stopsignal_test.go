package termination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopSignal_Detect(t *testing.T) {
	type input struct {
		text string
	}

	type expected struct {
		stop bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "exact token",
			input:    input{text: "###STOP###"},
			expected: expected{stop: true},
		},
		{
			name:     "token at end of sentence",
			input:    input{text: "Great, the light is on. ###STOP###"},
			expected: expected{stop: true},
		},
		{
			name:     "token embedded without spaces",
			input:    input{text: "done###STOP###now"},
			expected: expected{stop: true},
		},
		{
			name:     "lowercase token does not match",
			input:    input{text: "###stop###"},
			expected: expected{stop: false},
		},
		{
			name:     "partial token does not match",
			input:    input{text: "###STOP##"},
			expected: expected{stop: false},
		},
		{
			name:     "quoted token still matches",
			input:    input{text: `please don't write "###STOP###" yet`},
			expected: expected{stop: true},
		},
		{
			name:     "empty text",
			input:    input{text: ""},
			expected: expected{stop: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected.stop, NewStopSignal().Detect(tt.input.text))
		})
	}
}

func TestStopSignal_WithToken(t *testing.T) {
	type input struct {
		token string
		text  string
	}

	type expected struct {
		stop bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "custom token matches",
			input:    input{token: "<<END>>", text: "bye <<END>>"},
			expected: expected{stop: true},
		},
		{
			name:     "default token ignored once replaced",
			input:    input{token: "<<END>>", text: "bye ###STOP###"},
			expected: expected{stop: false},
		},
		{
			name:     "empty token never matches",
			input:    input{token: "", text: "anything"},
			expected: expected{stop: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := NewStopSignal().WithToken(tt.input.token)

			assert.Equal(t, tt.input.token, det.Token())
			assert.Equal(t, tt.expected.stop, det.Detect(tt.input.text))
		})
	}
}
