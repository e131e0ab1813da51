package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickchristie/duet"
)

// stepOutcome is how a step that did not fail ended. An empty reason means the conversation
// continues.
type stepOutcome struct {
	response *duet.Response
	reason   duet.TerminationReason
}

// step runs one primary exchange: response, tool batch, counterpart reply. Every history
// mutation of the step is committed before it returns.
func (r *run) step(ctx context.Context) (stepOutcome, error) {
	p := r.primary

	response, err := r.respond(ctx, p)
	if err != nil {
		return stepOutcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return stepOutcome{}, err
	}

	if response.HasToolCalls() {
		if err := r.runTools(ctx, p, response); err != nil {
			return stepOutcome{}, err
		}
		r.primaryToolCalls += len(response.ToolCalls)
		if response.Content == "" {
			return stepOutcome{}, nil
		}
	} else {
		if response.Empty() {
			return stepOutcome{response: response, reason: duet.TerminationEmptyResponse}, nil
		}
		if err := r.appendText(ctx, p, duet.ChatRoleAI, response.Content); err != nil {
			return stepOutcome{}, err
		}
	}

	reply := r.askCounterpart(ctx, response.Content)
	if err := ctx.Err(); err != nil {
		return stepOutcome{}, err
	}
	if r.detect.Detect(reply.Text) {
		return stepOutcome{response: response, reason: duet.TerminationStopSignal}, nil
	}
	if err := r.appendText(ctx, p, duet.ChatRoleHuman, reply.Text); err != nil {
		return stepOutcome{}, err
	}
	return stepOutcome{}, nil
}

// respond asks p for its next response against its full history.
func (r *run) respond(ctx context.Context, p *participant) (*duet.Response, error) {
	start := r.clock.Now()
	response, err := p.agent.GetResponse(ctx, p.history)
	r.hooks.FireAfterResponse(ctx, &duet.AfterResponseEvent{
		BaseEvent: r.base(),
		Role:      p.role,
		Step:      r.steps,
		Response:  response,
		Duration:  r.since(start),
		Error:     err,
	})
	if err != nil {
		return nil, &participantError{role: p.role, op: "response", err: err}
	}
	if response == nil {
		response = &duet.Response{}
	}
	return response, nil
}

// runTools executes the response's tool batch and appends, in order, the response text (if
// any) and the formatted results to p's history.
func (r *run) runTools(ctx context.Context, p *participant, response *duet.Response) error {
	calls := response.ToolCalls

	start := r.clock.Now()
	results, err := p.agent.CallTools(ctx, calls)
	if err == nil && len(results) != len(calls) {
		err = fmt.Errorf("%w: %d calls, %d results", duet.ErrResultMismatch, len(calls), len(results))
	}
	r.hooks.FireAfterToolCalls(ctx, &duet.AfterToolCallsEvent{
		BaseEvent: r.base(),
		Role:      p.role,
		Step:      r.steps,
		Calls:     calls,
		Results:   results,
		Duration:  r.since(start),
		Error:     err,
	})
	if err != nil {
		return &participantError{role: p.role, op: "tools", err: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if response.Content != "" {
		if err := r.appendText(ctx, p, duet.ChatRoleAI, response.Content); err != nil {
			return err
		}
	}

	messages, err := p.agent.FormatToolResults(ctx, calls, results)
	if err != nil {
		return &participantError{role: p.role, op: "format tool results", err: err}
	}
	p.append(messages...)
	return nil
}

func (r *run) appendText(ctx context.Context, p *participant, role duet.ChatRole, text string) error {
	messages, err := p.agent.FormatMessage(ctx, role, duet.Text(text))
	if err != nil {
		return &participantError{role: p.role, op: "format message", err: err}
	}
	p.append(messages...)
	return nil
}

// participantError attributes a failure to one participant call.
type participantError struct {
	role duet.Role
	op   string
	err  error
}

func (e *participantError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.role, e.op, e.err)
}

func (e *participantError) Unwrap() error {
	return e.err
}

// cause strips participant attribution from err.
func cause(err error) error {
	var pe *participantError
	if errors.As(err, &pe) {
		return pe.err
	}
	return err
}
