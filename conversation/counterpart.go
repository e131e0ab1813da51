package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/log"
)

// Fallback replies used when the counterpart cannot produce its own text.
const (
	FallbackEmpty   = "Okay."
	FallbackTimeout = "Sorry, I took too long to respond."
)

const (
	counterpartPrefix = "The assistant said: "
	counterpartSuffix = "\n\nRespond as a user."
)

// CounterpartPrompt wraps the primary's message into the counterpart's input.
func CounterpartPrompt(message string) string {
	return counterpartPrefix + message + counterpartSuffix
}

// UnwrapCounterpartPrompt returns the primary's message inside a counterpart prompt. Text that
// is not a counterpart prompt is returned unchanged.
func UnwrapCounterpartPrompt(prompt string) string {
	if !strings.HasPrefix(prompt, counterpartPrefix) || !strings.HasSuffix(prompt, counterpartSuffix) {
		return prompt
	}
	return prompt[len(counterpartPrefix) : len(prompt)-len(counterpartSuffix)]
}

// FallbackError is the reply used when the counterpart failed with err.
func FallbackError(err error) string {
	return fmt.Sprintf("Error getting user response: %v", err)
}

// ReplyOutcome says where a reply's text came from.
type ReplyOutcome int

const (
	// ReplyOK means the text is the counterpart's own.
	ReplyOK ReplyOutcome = iota

	// ReplyFallback means the counterpart produced no usable text and a fallback was used.
	ReplyFallback
)

func (o ReplyOutcome) String() string {
	switch o {
	case ReplyOK:
		return "ok"
	case ReplyFallback:
		return "fallback"
	default:
		return fmt.Sprintf("ReplyOutcome(%d)", int(o))
	}
}

// Reply is the result of one counterpart exchange. Text is always usable as the primary's
// next input.
type Reply struct {
	Text    string
	Outcome ReplyOutcome

	// Err is the error behind a fallback, nil when the counterpart simply said nothing.
	Err error

	// Iterations is how many responses were requested from the counterpart.
	Iterations int
}

// askCounterpart runs one exchange and reports it. It never fails; errors become fallbacks.
func (r *run) askCounterpart(ctx context.Context, message string) Reply {
	exCtx := ctx
	if r.cfg.CounterpartTimeout > 0 {
		var cancel context.CancelFunc
		exCtx, cancel = context.WithTimeout(ctx, r.cfg.CounterpartTimeout)
		defer cancel()
	}

	reply := r.exchange(exCtx, message)
	r.counterpartTurns++
	if reply.Err != nil {
		log.Warnf("counterpart reply fell back: %v", reply.Err)
	}

	r.hooks.FireCounterpartReply(ctx, &duet.CounterpartReplyEvent{
		BaseEvent:  r.base(),
		Step:       r.steps,
		Message:    message,
		Reply:      reply.Text,
		Fallback:   reply.Outcome == ReplyFallback,
		Error:      reply.Err,
		Iterations: reply.Iterations,
		StopSignal: r.detect.Detect(reply.Text),
	})
	return reply
}

// exchange asks the counterpart for its reply. A panicking counterpart becomes a fallback.
func (r *run) exchange(ctx context.Context, message string) (reply Reply) {
	c := r.counterpart
	iterations := 0
	defer func() {
		if v := recover(); v != nil {
			reply = fallback(fmt.Errorf("counterpart panicked: %v", v), iterations)
		}
	}()

	if r.cfg.StatelessCounterpart || len(c.history) == 0 {
		system, err := c.agent.SystemMessages(ctx)
		if err != nil {
			return fallback(err, 0)
		}
		c.history = duet.CloneMessages(system)
	}

	if err := r.appendText(ctx, c, duet.ChatRoleHuman, CounterpartPrompt(message)); err != nil {
		return fallback(err, 0)
	}

	var last *duet.Response
	for iterations < r.cfg.CounterpartMaxIterations {
		iterations++

		response, err := r.respond(ctx, c)
		if err != nil {
			return fallback(err, iterations)
		}
		last = response

		if !response.HasToolCalls() {
			break
		}
		if err := r.runTools(ctx, c, response); err != nil {
			return fallback(err, iterations)
		}
		r.counterpartToolCalls += len(response.ToolCalls)
	}

	if last.Content == "" {
		return Reply{Text: FallbackEmpty, Outcome: ReplyFallback, Iterations: iterations}
	}
	if !last.HasToolCalls() {
		if err := r.appendText(ctx, c, duet.ChatRoleAI, last.Content); err != nil {
			return fallback(err, iterations)
		}
	}
	return Reply{Text: last.Content, Outcome: ReplyOK, Iterations: iterations}
}

func fallback(err error, iterations int) Reply {
	err = cause(err)
	text := FallbackError(err)
	if errors.Is(err, context.DeadlineExceeded) {
		text = FallbackTimeout
	}
	return Reply{Text: text, Outcome: ReplyFallback, Err: err, Iterations: iterations}
}
