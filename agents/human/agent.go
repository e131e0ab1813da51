package human

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/conversation"
	"github.com/rickchristie/duet/termination"
)

// LineReader reads one line of input. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorGreen = "\033[32m"
)

// DefaultQuitWords end the conversation when typed on their own.
var DefaultQuitWords = []string{"exit", "quit"}

// readResult is one non-blank line, or the error that ended input.
type readResult struct {
	text string
	err  error
}

// Agent is a participant whose responses are typed by a person.
//
// A single goroutine owns the reader for the lifetime of the Agent. A line typed after a
// GetResponse call gave up waiting is kept for the next call. Cleanup stops the goroutine
// once its pending read returns; the Agent must not be reused afterwards.
type Agent struct {
	reader    LineReader
	out       io.Writer
	label     string
	color     bool
	quitWords []string
	stopToken string

	startOnce sync.Once
	stopOnce  sync.Once
	results   chan readResult
	stop      chan struct{}
}

// NewAgent creates an Agent reading replies from reader and printing the conversation to out.
func NewAgent(reader LineReader, out io.Writer) *Agent {
	return &Agent{
		reader:    reader,
		out:       out,
		label:     "Assistant",
		quitWords: DefaultQuitWords,
		stopToken: termination.StopToken,
		results:   make(chan readResult),
		stop:      make(chan struct{}),
	}
}

// WithLabel sets the name shown in front of the other participant's messages.
func (a *Agent) WithLabel(label string) *Agent {
	a.label = label
	return a
}

// WithColor enables ANSI colors in the printed transcript.
func (a *Agent) WithColor(enabled bool) *Agent {
	a.color = enabled
	return a
}

// WithQuitWords replaces the words that end the conversation.
func (a *Agent) WithQuitWords(words ...string) *Agent {
	a.quitWords = words
	return a
}

// WithStopToken sets the token replied when the person quits. It must match the detector the
// orchestrator is configured with.
func (a *Agent) WithStopToken(token string) *Agent {
	a.stopToken = token
	return a
}

// SystemMessages implements duet.Agent. A person needs no instructions.
func (a *Agent) SystemMessages(context.Context) ([]duet.MessageContent, error) {
	return nil, nil
}

// FormatMessage implements duet.Agent.
func (a *Agent) FormatMessage(
	_ context.Context,
	role duet.ChatRole,
	parts ...duet.ContentPart,
) ([]duet.MessageContent, error) {
	return []duet.MessageContent{{Role: role, Parts: parts}}, nil
}

// GetResponse implements duet.Agent. It shows the latest message and blocks until a non-empty
// line is read or ctx is done.
func (a *Agent) GetResponse(
	ctx context.Context,
	messages []duet.MessageContent,
) (*duet.Response, error) {
	if len(messages) > 0 {
		a.show(duet.TextOf(messages[len(messages)-1]))
	}

	a.startOnce.Do(func() { go a.readLoop() })

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r, ok := <-a.results:
		if !ok || errors.Is(r.err, readline.ErrInterrupt) || errors.Is(r.err, io.EOF) {
			return &duet.Response{Content: a.stopToken}, nil
		}
		if r.err != nil {
			return nil, fmt.Errorf("human: read input: %w", r.err)
		}
		if a.isQuit(r.text) {
			return &duet.Response{Content: a.stopToken}, nil
		}
		return &duet.Response{Content: r.text}, nil
	}
}

// readLoop feeds non-blank lines to results until the reader fails or the Agent is cleaned
// up. After a read error, results is closed.
func (a *Agent) readLoop() {
	defer close(a.results)
	for {
		text, err := a.reader.Readline()
		text = strings.TrimSpace(text)
		if err == nil && text == "" {
			continue
		}
		select {
		case a.results <- readResult{text: text, err: err}:
		case <-a.stop:
			return
		}
		if err != nil {
			return
		}
	}
}

func (a *Agent) isQuit(text string) bool {
	for _, w := range a.quitWords {
		if strings.EqualFold(text, w) {
			return true
		}
	}
	return false
}

// show prints the other participant's message, without the counterpart prompt wrapper.
func (a *Agent) show(text string) {
	text = conversation.UnwrapCounterpartPrompt(text)
	if text == "" {
		return
	}
	if a.color {
		fmt.Fprintf(a.out, "%s%s%s:%s %s\n", colorBold, colorGreen, a.label, colorReset, text)
		return
	}
	fmt.Fprintf(a.out, "%s: %s\n", a.label, text)
}

// CallTools implements duet.Agent. A person never requests tools, so every call fails.
func (a *Agent) CallTools(_ context.Context, calls []duet.ToolCall) ([]duet.ToolResult, error) {
	results := make([]duet.ToolResult, len(calls))
	for i, call := range calls {
		results[i] = duet.ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: fmt.Sprintf("%v: %s", duet.ErrToolNotFound, call.Name),
			IsError: true,
		}
	}
	return results, nil
}

// FormatToolResults implements duet.Agent.
func (a *Agent) FormatToolResults(
	_ context.Context,
	calls []duet.ToolCall,
	results []duet.ToolResult,
) ([]duet.MessageContent, error) {
	return duet.ToolCallMessages(calls, results), nil
}

// Cleanup implements duet.Agent.
func (a *Agent) Cleanup(context.Context) error {
	a.stopOnce.Do(func() { close(a.stop) })
	if a.color {
		fmt.Fprintf(a.out, "%s(conversation over)%s\n", colorDim, colorReset)
		return nil
	}
	fmt.Fprintln(a.out, "(conversation over)")
	return nil
}

var _ duet.Agent = (*Agent)(nil)
