package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/rickchristie/duet"
	"github.com/stretchr/testify/assert"
)

// -----------------------------------------------------------------------------
// Mock hooks
// -----------------------------------------------------------------------------

type mockRunHook struct {
	before *duet.BeforeRunEvent
	after  *duet.AfterRunEvent
}

func (h *mockRunHook) OnBeforeRun(_ context.Context, e *duet.BeforeRunEvent) { h.before = e }
func (h *mockRunHook) OnAfterRun(_ context.Context, e *duet.AfterRunEvent)   { h.after = e }

type mockStepHook struct {
	before *duet.BeforeStepEvent
	after  *duet.AfterStepEvent
}

func (h *mockStepHook) OnBeforeStep(_ context.Context, e *duet.BeforeStepEvent) { h.before = e }
func (h *mockStepHook) OnAfterStep(_ context.Context, e *duet.AfterStepEvent)   { h.after = e }

type mockParticipantHook struct {
	response *duet.AfterResponseEvent
	tools    *duet.AfterToolCallsEvent
	reply    *duet.CounterpartReplyEvent
}

func (h *mockParticipantHook) OnAfterResponse(_ context.Context, e *duet.AfterResponseEvent) {
	h.response = e
}

func (h *mockParticipantHook) OnAfterToolCalls(_ context.Context, e *duet.AfterToolCallsEvent) {
	h.tools = e
}

func (h *mockParticipantHook) OnCounterpartReply(
	_ context.Context,
	e *duet.CounterpartReplyEvent,
) {
	h.reply = e
}

type mockErrorHook struct {
	event *duet.ErrorEvent
}

func (h *mockErrorHook) OnError(_ context.Context, e *duet.ErrorEvent) { h.event = e }

type orderTrackingHook struct {
	order *[]int
	id    int
}

func (h *orderTrackingHook) OnBeforeStep(context.Context, *duet.BeforeStepEvent) {
	*h.order = append(*h.order, h.id)
}

// -----------------------------------------------------------------------------
// Tests
// -----------------------------------------------------------------------------

func TestNewRegistry_ReturnsEmptyRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_Register_Chains(t *testing.T) {
	registry := NewRegistry().
		Register(&mockRunHook{}).
		Register(&mockStepHook{}).
		Register(struct{}{})

	assert.Equal(t, 3, registry.Len())
}

func TestRegistry_Fire_DispatchesToImplementers(t *testing.T) {
	ctx := context.Background()
	run := &mockRunHook{}
	step := &mockStepHook{}
	participant := &mockParticipantHook{}
	errHook := &mockErrorHook{}
	registry := NewRegistry().
		Register(run).
		Register(step).
		Register(participant).
		Register(errHook)

	beforeRun := &duet.BeforeRunEvent{Prompt: "turn on the light", MaxSteps: 5}
	afterRun := &duet.AfterRunEvent{Trace: &duet.Trace{Content: "done"}}
	beforeStep := &duet.BeforeStepEvent{Step: 1, MaxSteps: 5}
	afterStep := &duet.AfterStepEvent{Step: 1, Terminated: true}
	response := &duet.AfterResponseEvent{Role: duet.RolePrimary, Step: 1}
	tools := &duet.AfterToolCallsEvent{Role: duet.RoleCounterpart, Step: 1}
	reply := &duet.CounterpartReplyEvent{Step: 1, Reply: "Okay.", Fallback: true}
	errEvent := &duet.ErrorEvent{Step: 2, Err: errors.New("boom")}

	registry.FireBeforeRun(ctx, beforeRun)
	registry.FireAfterRun(ctx, afterRun)
	registry.FireBeforeStep(ctx, beforeStep)
	registry.FireAfterStep(ctx, afterStep)
	registry.FireAfterResponse(ctx, response)
	registry.FireAfterToolCalls(ctx, tools)
	registry.FireCounterpartReply(ctx, reply)
	registry.FireError(ctx, errEvent)

	assert.Same(t, beforeRun, run.before)
	assert.Same(t, afterRun, run.after)
	assert.Same(t, beforeStep, step.before)
	assert.Same(t, afterStep, step.after)
	assert.Same(t, response, participant.response)
	assert.Same(t, tools, participant.tools)
	assert.Same(t, reply, participant.reply)
	assert.Same(t, errEvent, errHook.event)
}

func TestRegistry_Fire_OnlyCallsMatchingHooks(t *testing.T) {
	run := &mockRunHook{}
	step := &mockStepHook{}
	registry := NewRegistry().Register(run).Register(step)

	registry.FireBeforeStep(context.Background(), &duet.BeforeStepEvent{Step: 1})

	assert.NotNil(t, step.before, "matching hook should be called")
	assert.Nil(t, run.before, "non-matching hook should not be called")
	assert.Nil(t, step.after)
}

func TestRegistry_Fire_CallsInOrder(t *testing.T) {
	var order []int
	registry := NewRegistry().
		Register(&orderTrackingHook{order: &order, id: 1}).
		Register(&orderTrackingHook{order: &order, id: 2}).
		Register(&orderTrackingHook{order: &order, id: 3})

	registry.FireBeforeStep(context.Background(), &duet.BeforeStepEvent{Step: 1})
	registry.FireBeforeStep(context.Background(), &duet.BeforeStepEvent{Step: 2})

	assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, order)
}

func TestRegistry_Nil_DropsEvents(t *testing.T) {
	var registry *Registry
	ctx := context.Background()

	assert.Equal(t, 0, registry.Len())
	assert.NotPanics(t, func() {
		registry.FireBeforeRun(ctx, &duet.BeforeRunEvent{})
		registry.FireAfterRun(ctx, &duet.AfterRunEvent{})
		registry.FireBeforeStep(ctx, &duet.BeforeStepEvent{})
		registry.FireAfterStep(ctx, &duet.AfterStepEvent{})
		registry.FireAfterResponse(ctx, &duet.AfterResponseEvent{})
		registry.FireAfterToolCalls(ctx, &duet.AfterToolCallsEvent{})
		registry.FireCounterpartReply(ctx, &duet.CounterpartReplyEvent{})
		registry.FireError(ctx, &duet.ErrorEvent{})
	})
}
