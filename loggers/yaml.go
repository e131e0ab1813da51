package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rickchristie/duet"
	"gopkg.in/yaml.v3"
)

const (
	ruleHeavy = "================================================================================"
	ruleLight = "--------------------------------------------------------------------------------"
)

// YAMLHook logs every event as YAML with block scalars for easy reading.
// Nothing is truncated - full content is always logged.
type YAMLHook struct {
	out io.Writer
}

// NewYAMLHook creates a YAMLHook writing to w, or to stdout when w is nil.
func NewYAMLHook(w io.Writer) *YAMLHook {
	if w == nil {
		w = os.Stdout
	}
	return &YAMLHook{out: w}
}

func (h *YAMLHook) logEvent(name string, base duet.BaseEvent) {
	fmt.Fprintf(h.out, "\n>>> [%s]: %s\n", name, base.Timestamp.Format("2006-01-02 15:04:05.000"))
}

func (h *YAMLHook) log(format string, args ...any) {
	fmt.Fprintf(h.out, format+"\n", args...)
}

func (h *YAMLHook) logYAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		h.log("(failed to marshal: %v)", err)
		return
	}
	fmt.Fprint(h.out, string(data))
}

func (h *YAMLHook) banner(rule, title string) {
	h.log(rule)
	h.log(title)
	h.log(rule)
}

// OnBeforeRun logs the run header and the task prompt.
func (h *YAMLHook) OnBeforeRun(_ context.Context, e *duet.BeforeRunEvent) {
	h.logEvent("BeforeRun", e.BaseEvent)
	h.banner(ruleHeavy, "RUN STARTED")
	h.logYAML(struct {
		RunID    string `yaml:"run_id"`
		MaxSteps int    `yaml:"max_steps"`
		Prompt   string `yaml:"prompt"`
	}{e.RunID, e.MaxSteps, e.Prompt})
}

// OnAfterRun logs the trace.
func (h *YAMLHook) OnAfterRun(_ context.Context, e *duet.AfterRunEvent) {
	h.logEvent("AfterRun", e.BaseEvent)
	h.banner(ruleHeavy, "RUN COMPLETED")
	h.log("Duration: %s", e.Duration)
	if e.Trace == nil {
		return
	}
	h.logYAML(struct {
		Reason  string         `yaml:"reason"`
		Steps   int            `yaml:"steps"`
		IsError bool           `yaml:"is_error"`
		Content string         `yaml:"content"`
		Info    map[string]any `yaml:"info,omitempty"`
	}{string(e.Trace.Reason), e.Trace.Steps, e.Trace.IsError, e.Trace.Content, e.Trace.Info})
}

// OnBeforeStep logs the step header.
func (h *YAMLHook) OnBeforeStep(_ context.Context, e *duet.BeforeStepEvent) {
	h.logEvent(fmt.Sprintf("BeforeStep %d", e.Step), e.BaseEvent)
	h.banner(ruleLight, fmt.Sprintf("STEP %d START", e.Step))
}

// OnAfterStep logs the step footer.
func (h *YAMLHook) OnAfterStep(_ context.Context, e *duet.AfterStepEvent) {
	h.logEvent(fmt.Sprintf("AfterStep %d", e.Step), e.BaseEvent)
	h.banner(ruleLight, fmt.Sprintf("STEP %d END", e.Step))
	h.log("Duration: %s", e.Duration)
	if e.Terminated {
		h.log("Terminated: true")
	}
}

type toolCallYAML struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Arguments string `yaml:"arguments,omitempty"`
}

// OnAfterResponse logs a participant's response.
func (h *YAMLHook) OnAfterResponse(_ context.Context, e *duet.AfterResponseEvent) {
	h.logEvent(fmt.Sprintf("AfterResponse: %s (duration: %s)", e.Role, e.Duration), e.BaseEvent)
	if e.Error != nil {
		h.log("Error: %v", e.Error)
		return
	}
	if e.Response == nil {
		return
	}

	if e.Response.Content != "" {
		h.log("Content:")
		for _, line := range strings.Split(e.Response.Content, "\n") {
			h.log("  %s", line)
		}
	}
	if len(e.Response.ToolCalls) > 0 {
		calls := make([]toolCallYAML, len(e.Response.ToolCalls))
		for i, c := range e.Response.ToolCalls {
			calls[i] = toolCallYAML{ID: c.ID, Name: c.Name, Arguments: c.Arguments}
		}
		h.log("ToolCalls:")
		h.logYAML(calls)
	}
	if info := e.Response.Info; info != nil {
		h.log("Tokens: input=%d, output=%d, total=%d",
			info.InputTokens, info.OutputTokens, info.TotalTokens)
	}
}

// OnAfterToolCalls logs a tool batch and its results.
func (h *YAMLHook) OnAfterToolCalls(_ context.Context, e *duet.AfterToolCallsEvent) {
	h.logEvent(fmt.Sprintf("AfterToolCalls: %s (duration: %s)", e.Role, e.Duration), e.BaseEvent)
	if e.Error != nil {
		h.log("Error: %v", e.Error)
		return
	}

	type resultYAML struct {
		CallID  string `yaml:"call_id"`
		Name    string `yaml:"name"`
		Content string `yaml:"content"`
		IsError bool   `yaml:"is_error,omitempty"`
	}
	results := make([]resultYAML, len(e.Results))
	for i, r := range e.Results {
		results[i] = resultYAML{CallID: r.CallID, Name: r.Name, Content: r.Content, IsError: r.IsError}
	}
	h.log("Results:")
	h.logYAML(results)
}

// OnCounterpartReply logs a counterpart exchange.
func (h *YAMLHook) OnCounterpartReply(_ context.Context, e *duet.CounterpartReplyEvent) {
	h.logEvent("CounterpartReply", e.BaseEvent)
	data := struct {
		Reply      string `yaml:"reply"`
		Fallback   bool   `yaml:"fallback,omitempty"`
		Error      string `yaml:"error,omitempty"`
		Iterations int    `yaml:"iterations"`
		StopSignal bool   `yaml:"stop_signal,omitempty"`
	}{Reply: e.Reply, Fallback: e.Fallback, Iterations: e.Iterations, StopSignal: e.StopSignal}
	if e.Error != nil {
		data.Error = e.Error.Error()
	}
	h.logYAML(data)
}

// OnError logs the error that ended the run.
func (h *YAMLHook) OnError(_ context.Context, e *duet.ErrorEvent) {
	h.logEvent("Error", e.BaseEvent)
	h.logYAML(map[string]any{
		"step":  e.Step,
		"error": e.Err.Error(),
	})
}

// Compile-time checks that YAMLHook implements all hook interfaces.
var (
	_ duet.BeforeRunHook        = (*YAMLHook)(nil)
	_ duet.AfterRunHook         = (*YAMLHook)(nil)
	_ duet.BeforeStepHook       = (*YAMLHook)(nil)
	_ duet.AfterStepHook        = (*YAMLHook)(nil)
	_ duet.AfterResponseHook    = (*YAMLHook)(nil)
	_ duet.AfterToolCallsHook   = (*YAMLHook)(nil)
	_ duet.CounterpartReplyHook = (*YAMLHook)(nil)
	_ duet.ErrorHook            = (*YAMLHook)(nil)
)
