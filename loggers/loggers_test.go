package loggers

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/conversation"
	"github.com/rickchristie/duet/hooks"
	"github.com/rickchristie/duet/internal/tt"
	"github.com/rickchristie/duet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func lamp(on *bool) duet.AnyTool {
	return duet.NewToolFunc("lamp", "Toggle the lamp", schema.Empty(),
		func(context.Context, struct{}) (string, error) {
			*on = !*on
			return "toggled", nil
		})
}

// runWith drives a short conversation: one tool call, one fallback reply, one stop.
func runWith(t *testing.T, hook any) *duet.Trace {
	t.Helper()
	on := false
	primary := tt.NewScriptedAgent("You are an assistant.").
		CallTool("Toggling.", duet.ToolCall{ID: "c1", Name: "lamp", Arguments: "{}"}).
		Say("Is it on now?")
	user := tt.NewScriptedAgent("You are a user.").
		Fail(errors.New("rate limited")).
		Say("Yes ###STOP###")

	cfg := conversation.DefaultConfig()
	cfg.Hooks = hooks.NewRegistry().Register(hook)
	cfg.TimeProvider = duet.NewMockTimeProvider(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)).
		WithStep(10 * time.Millisecond)
	cfg.NewRunID = func() string { return "run-7" }

	trace, err := conversation.Run(context.Background(),
		tt.NewMockEvalContext("Turn on the lamp.", lamp(&on)), primary, user, cfg)
	require.NoError(t, err)
	return trace
}

func TestYAMLHook(t *testing.T) {
	var buf bytes.Buffer

	trace := runWith(t, NewYAMLHook(&buf))

	require.Equal(t, duet.TerminationStopSignal, trace.Reason)
	out := buf.String()
	for _, want := range []string{
		">>> [BeforeRun]: 2025-03-01 12:00",
		"RUN STARTED",
		"run_id: run-7",
		"prompt: Turn on the lamp.",
		"STEP 1 START",
		">>> [AfterResponse: primary",
		"  Toggling.",
		"name: lamp",
		">>> [AfterToolCalls: primary",
		"content: toggled",
		"Error getting user response: rate limited",
		"Error: rate limited",
		"fallback: true",
		"error: rate limited",
		"STEP 2 END",
		"Terminated: true",
		"RUN COMPLETED",
		"reason: stop_signal",
		"Is it on now?",
	} {
		assert.Contains(t, out, want)
	}
}

func TestYAMLHook_Error(t *testing.T) {
	var buf bytes.Buffer
	primary := tt.NewScriptedAgent("sys").Fail(errors.New("provider down"))
	user := tt.NewScriptedAgent("sys")
	cfg := conversation.DefaultConfig()
	cfg.Hooks = hooks.NewRegistry().Register(NewYAMLHook(&buf))

	trace, err := conversation.Run(context.Background(), tt.NewMockEvalContext("go"), primary, user, cfg)

	require.NoError(t, err)
	require.True(t, trace.IsError)
	assert.Contains(t, buf.String(), ">>> [Error]")
	assert.Contains(t, buf.String(), "error: provider down")
	assert.Contains(t, buf.String(), "step: 1")
}

func TestZapHook(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	runWith(t, NewZapHook(zap.New(core)))

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{
		"run started",
		"step started",
		"response",
		"tool calls",
		"response failed",
		"counterpart fallback",
		"step completed",
		"step started",
		"response",
		"response",
		"counterpart reply",
		"step completed",
		"run completed",
	}, messages)

	fallback := logs.FilterMessage("counterpart fallback").All()
	require.Len(t, fallback, 1)
	assert.Equal(t, zapcore.InfoLevel, fallback[0].Level)
	fields := fallback[0].ContextMap()
	assert.Equal(t, "run-7", fields["run_id"])
	assert.Equal(t, "rate limited", fields["error"])

	done := logs.FilterMessage("run completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, "stop_signal", done[0].ContextMap()["reason"])
	assert.Equal(t, int64(2), done[0].ContextMap()["steps"])
}

func TestZapHook_InfoLevelSkipsDetails(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	runWith(t, NewZapHook(zap.New(core)))

	assert.Equal(t, 1, logs.FilterMessage("run started").Len())
	assert.Equal(t, 1, logs.FilterMessage("counterpart fallback").Len())
	assert.Equal(t, 0, logs.FilterMessage("response").Len())
	assert.Equal(t, 1, logs.FilterMessage("response failed").Len())
}

func TestNewZapHook_Nil(t *testing.T) {
	assert.NotPanics(t, func() { runWith(t, NewZapHook(nil)) })
}
