package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/hooks"
	"github.com/rickchristie/duet/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterpartPrompt(t *testing.T) {
	assert.Equal(t,
		"The assistant said: Please flip your switch.\n\nRespond as a user.",
		CounterpartPrompt("Please flip your switch."))
}

func TestUnwrapCounterpartPrompt(t *testing.T) {
	assert.Equal(t, "Flip it.", UnwrapCounterpartPrompt(CounterpartPrompt("Flip it.")))
	assert.Equal(t, "", UnwrapCounterpartPrompt(CounterpartPrompt("")))
	assert.Equal(t, "plain text", UnwrapCounterpartPrompt("plain text"))
}

func TestReplyOutcome_String(t *testing.T) {
	assert.Equal(t, "ok", ReplyOK.String())
	assert.Equal(t, "fallback", ReplyFallback.String())
	assert.Equal(t, "ReplyOutcome(9)", ReplyOutcome(9).String())
}

func TestRun_CounterpartReplies(t *testing.T) {
	type input struct {
		user    func() *tt.ScriptedAgent
		timeout time.Duration
	}

	type expected struct {
		reply      string
		fallback   bool
		hasErr     bool
		iterations int
		responses  int
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "text reply",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).Say("Sure thing.")
			}},
			expected: expected{reply: "Sure thing.", iterations: 1, responses: 1},
		},
		{
			name: "tool call then text",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).
					CallTool("", call("u1", "user_switch")).
					Say("Flipped mine.")
			}},
			expected: expected{reply: "Flipped mine.", iterations: 2, responses: 2},
		},
		{
			name: "ceiling reached without text falls back to okay",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).
					CallTool("", call("u1", "user_switch")).
					CallTool("", call("u2", "check_status")).
					Say("never requested")
			}},
			expected: expected{reply: FallbackEmpty, fallback: true, iterations: 2, responses: 2},
		},
		{
			name: "ceiling reached keeps the last text",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).
					CallTool("Flipping.", call("u1", "user_switch")).
					CallTool("Checking now.", call("u2", "check_status")).
					Say("never requested")
			}},
			expected: expected{reply: "Checking now.", iterations: 2, responses: 2},
		},
		{
			name: "empty reply falls back to okay",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).Respond(&duet.Response{})
			}},
			expected: expected{reply: FallbackEmpty, fallback: true, iterations: 1, responses: 1},
		},
		{
			name: "model error",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).Fail(errors.New("rate limited"))
			}},
			expected: expected{
				reply:    "Error getting user response: rate limited",
				fallback: true, hasErr: true, iterations: 1, responses: 1,
			},
		},
		{
			name: "tool infrastructure error",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).
					CallTool("", call("u1", "user_switch")).
					WithCallTools(func(context.Context, []duet.ToolCall) ([]duet.ToolResult, error) {
						return nil, errors.New("tool server crashed")
					})
			}},
			expected: expected{
				reply:    "Error getting user response: tool server crashed",
				fallback: true, hasErr: true, iterations: 1, responses: 1,
			},
		},
		{
			name: "system messages error",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).WithSystemError(errors.New("no persona"))
			}},
			expected: expected{
				reply:    "Error getting user response: no persona",
				fallback: true, hasErr: true, iterations: 0, responses: 0,
			},
		},
		{
			name: "panic",
			input: input{user: func() *tt.ScriptedAgent {
				return tt.NewScriptedAgent(userSystem).RespondFunc(
					func(context.Context, []duet.MessageContent) (*duet.Response, error) {
						panic("persona crashed")
					})
			}},
			expected: expected{
				reply:    "Error getting user response: counterpart panicked: persona crashed",
				fallback: true, hasErr: true, iterations: 1, responses: 1,
			},
		},
		{
			name: "timeout",
			input: input{
				user:    func() *tt.ScriptedAgent { return tt.NewScriptedAgent(userSystem).Block() },
				timeout: 20 * time.Millisecond,
			},
			expected: expected{
				reply:    FallbackTimeout,
				fallback: true, hasErr: true, iterations: 1, responses: 1,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bulb := &switches{}
			rec := tt.NewEventRecorder()
			primary := tt.NewScriptedAgent(agentSystem).Say("Please flip your switch.")
			user := tc.input.user()

			cfg := testConfig()
			cfg.CounterpartTimeout = tc.input.timeout
			cfg.Hooks = hooks.NewRegistry().Register(rec)

			trace, err := Run(
				context.Background(),
				tt.NewMockEvalContext(taskPrompt, bulb.tools()...),
				primary, user, cfg,
			)

			require.NoError(t, err)
			assert.False(t, trace.IsError, "counterpart failures never fail the run")
			assert.Equal(t, duet.TerminationEmptyResponse, trace.Reason)
			assert.Equal(t, tc.expected.responses, user.ResponseCount())

			replies := rec.CounterpartReplies()
			require.Len(t, replies, 1)
			assert.Equal(t, tc.expected.reply, replies[0].Reply)
			assert.Equal(t, tc.expected.fallback, replies[0].Fallback)
			assert.Equal(t, tc.expected.hasErr, replies[0].Error != nil)
			assert.Equal(t, tc.expected.iterations, replies[0].Iterations)

			tt.AssertTranscript(t, []string{
				"system: You are an assistant.",
				"human: Turn on the light.",
				"ai: Please flip your switch.",
				"human: " + tc.expected.reply,
			}, trace.Messages)
		})
	}
}

func TestRun_CounterpartIterationsConfigurable(t *testing.T) {
	primary := tt.NewScriptedAgent(agentSystem).Say("Go ahead.")
	user := tt.NewScriptedAgent(userSystem).
		CallTool("", call("u1", "user_switch")).
		CallTool("", call("u2", "check_status")).
		Say("All good ###STOP###")

	cfg := testConfig()
	cfg.CounterpartMaxIterations = 3

	trace, err := Run(context.Background(), tt.NewMockEvalContext(taskPrompt, (&switches{}).tools()...), primary, user, cfg)

	require.NoError(t, err)
	assert.Equal(t, duet.TerminationStopSignal, trace.Reason)
	assert.Equal(t, 3, user.ResponseCount())
}

func TestRun_CounterpartHistory(t *testing.T) {
	type input struct {
		stateless bool
	}

	type expected struct {
		systemCalls   int
		secondHistory []string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:  "history accumulates across exchanges",
			input: input{stateless: false},
			expected: expected{
				systemCalls: 1,
				secondHistory: []string{
					"system: You are a user.",
					"human: The assistant said: First\n\nRespond as a user.",
					"ai: Reply one",
					"human: The assistant said: Second\n\nRespond as a user.",
				},
			},
		},
		{
			name:  "stateless counterpart starts over every exchange",
			input: input{stateless: true},
			expected: expected{
				systemCalls: 2,
				secondHistory: []string{
					"system: You are a user.",
					"human: The assistant said: Second\n\nRespond as a user.",
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			primary := tt.NewScriptedAgent(agentSystem).Say("First").Say("Second")
			user := tt.NewScriptedAgent(userSystem).Say("Reply one").Say("###STOP###")

			cfg := testConfig()
			cfg.StatelessCounterpart = tc.input.stateless

			trace, err := Run(context.Background(), tt.NewMockEvalContext(taskPrompt), primary, user, cfg)

			require.NoError(t, err)
			assert.Equal(t, duet.TerminationStopSignal, trace.Reason)
			assert.Equal(t, tc.expected.systemCalls, user.SystemCalls)
			require.Equal(t, 2, user.ResponseCount())
			tt.AssertTranscript(t, tc.expected.secondHistory, user.Histories[1])

			// The primary never sees the counterpart's prompt wrapper.
			tt.AssertTranscript(t, []string{
				"system: You are an assistant.",
				"human: Turn on the light.",
				"ai: First",
				"human: Reply one",
				"ai: Second",
			}, trace.Messages)
		})
	}
}

func TestRun_CustomStopToken(t *testing.T) {
	primary := tt.NewScriptedAgent(agentSystem).Say("Hi").Say("Bye")
	user := tt.NewScriptedAgent(userSystem).Say("###STOP###").Say("<<END>>")

	cfg := testConfig()
	cfg.Termination = stopOn("<<END>>")

	trace, err := Run(context.Background(), tt.NewMockEvalContext(taskPrompt), primary, user, cfg)

	require.NoError(t, err)
	assert.Equal(t, duet.TerminationStopSignal, trace.Reason)
	assert.Equal(t, "Bye", trace.Content)
	assert.Equal(t, 2, trace.Steps)
}

type stopOn string

func (s stopOn) Detect(text string) bool {
	return text == string(s)
}
