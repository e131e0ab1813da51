package eval

import (
	"context"
	"errors"
	"testing"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScenario struct {
	prompt    string
	setupErr  error
	healthErr error
	grade     func(answer string) (float64, error)

	healthChecks int
	closed       int
}

func (s *fakeScenario) Name() string { return "fake" }

func (s *fakeScenario) Setup(context.Context) (string, error) {
	return s.prompt, s.setupErr
}

func (s *fakeScenario) Tools() []duet.AnyTool {
	return []duet.AnyTool{
		duet.NewToolFunc("noop", "Does nothing", schema.Empty(),
			func(context.Context, struct{}) (string, error) { return "", nil }),
	}
}

func (s *fakeScenario) Grade(_ context.Context, answer string) (float64, error) {
	if s.grade == nil {
		return 1, nil
	}
	return s.grade(answer)
}

func (s *fakeScenario) Health(context.Context) error {
	s.healthChecks++
	return s.healthErr
}

func (s *fakeScenario) Close(context.Context) error {
	s.closed++
	return nil
}

func TestStart(t *testing.T) {
	type input struct {
		scenario *fakeScenario
	}

	type expected struct {
		prompt string
		err    error
	}

	down := errors.New("connection refused")
	broken := errors.New("reset failed")

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "setup returns the prompt",
			input:    input{scenario: &fakeScenario{prompt: "Turn on the light."}},
			expected: expected{prompt: "Turn on the light."},
		},
		{
			name:     "unhealthy environment",
			input:    input{scenario: &fakeScenario{prompt: "x", healthErr: down}},
			expected: expected{err: down},
		},
		{
			name:     "setup failure",
			input:    input{scenario: &fakeScenario{setupErr: broken}},
			expected: expected{err: broken},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			evalCtx, err := Start(context.Background(), tc.input.scenario)

			assert.Equal(t, 1, tc.input.scenario.healthChecks)
			if tc.expected.err != nil {
				assert.ErrorIs(t, err, tc.expected.err)
				assert.Nil(t, evalCtx)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.prompt, evalCtx.Prompt())
			assert.True(t, evalCtx.HasScenario())
			require.Len(t, evalCtx.Tools(), 1)
			assert.Equal(t, "noop", evalCtx.Tools()[0].Name())
		})
	}
}

func TestStart_NilScenario(t *testing.T) {
	_, err := Start(context.Background(), nil)

	assert.ErrorIs(t, err, duet.ErrInvalidConfig)
}

func TestContext_Submit(t *testing.T) {
	type input struct {
		grade     func(string) (float64, error)
		threshold float64
	}

	type expected struct {
		reward  float64
		success bool
		hasErr  bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "full reward",
			input: input{
				grade:     func(string) (float64, error) { return 1, nil },
				threshold: DefaultSuccessThreshold,
			},
			expected: expected{reward: 1, success: true},
		},
		{
			name: "zero reward",
			input: input{
				grade:     func(string) (float64, error) { return 0, nil },
				threshold: DefaultSuccessThreshold,
			},
			expected: expected{reward: 0, success: false},
		},
		{
			name: "partial reward with lower threshold",
			input: input{
				grade:     func(string) (float64, error) { return 0.5, nil },
				threshold: 0.5,
			},
			expected: expected{reward: 0.5, success: true},
		},
		{
			name: "grading error",
			input: input{
				grade:     func(string) (float64, error) { return 1, errors.New("state unavailable") },
				threshold: DefaultSuccessThreshold,
			},
			expected: expected{reward: 0, success: false, hasErr: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			evalCtx, err := Start(context.Background(), &fakeScenario{prompt: "p", grade: tc.input.grade})
			require.NoError(t, err)
			evalCtx.WithSuccessThreshold(tc.input.threshold)

			err = evalCtx.Submit(context.Background(), "done")

			if tc.expected.hasErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, evalCtx.Submitted())
			assert.Equal(t, "done", evalCtx.Answer())
			assert.Equal(t, tc.expected.reward, evalCtx.Reward())
			assert.Equal(t, tc.expected.success, evalCtx.Success())
		})
	}
}

func TestContext_SubmitOnce(t *testing.T) {
	var answers []string
	evalCtx, err := Start(context.Background(), &fakeScenario{
		prompt: "p",
		grade: func(answer string) (float64, error) {
			answers = append(answers, answer)
			return 1, nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, evalCtx.Submit(context.Background(), "first"))
	err = evalCtx.Submit(context.Background(), "second")

	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, []string{"first"}, answers)
	assert.Equal(t, "first", evalCtx.Answer())
}

func TestNewContext(t *testing.T) {
	evalCtx := NewContext("Chat with me.")

	assert.Equal(t, "Chat with me.", evalCtx.Prompt())
	assert.False(t, evalCtx.HasScenario())
	assert.Empty(t, evalCtx.Tools())
	assert.ErrorIs(t, evalCtx.Submit(context.Background(), "hi"), ErrNoScenario)
	assert.False(t, evalCtx.Success())
	assert.NoError(t, evalCtx.Close(context.Background()))
}

func TestContext_Close(t *testing.T) {
	scenario := &fakeScenario{prompt: "p"}
	evalCtx, err := Start(context.Background(), scenario)
	require.NoError(t, err)

	require.NoError(t, evalCtx.Close(context.Background()))

	assert.Equal(t, 1, scenario.closed)
}
