package tt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rickchristie/duet"
	"github.com/tmc/langchaingo/llms"
)

// Transcript renders a history one line per content part:
//
//	system: You are helpful.
//	human: Turn on the light.
//	ai: call agent_switch {}
//	tool: agent_switch -> Agent switch is now ON
func Transcript(messages []duet.MessageContent) []string {
	var lines []string
	for _, msg := range messages {
		role := roleLabel(msg.Role)
		for _, part := range msg.Parts {
			lines = append(lines, role+": "+partLabel(part))
		}
	}
	return lines
}

// AssertTranscript fails the test with a unified diff when messages do not render to expected.
func AssertTranscript(t *testing.T, expected []string, messages []duet.MessageContent) bool {
	t.Helper()

	actual := Transcript(messages)
	want := strings.Join(expected, "\n") + "\n"
	got := strings.Join(actual, "\n") + "\n"
	if want == got {
		return true
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		diff = err.Error()
	}
	t.Errorf("transcript mismatch:\n%s", diff)
	return false
}

func roleLabel(role duet.ChatRole) string {
	switch role {
	case llms.ChatMessageTypeSystem:
		return "system"
	case llms.ChatMessageTypeHuman:
		return "human"
	case llms.ChatMessageTypeAI:
		return "ai"
	case llms.ChatMessageTypeTool:
		return "tool"
	default:
		return string(role)
	}
}

func partLabel(part duet.ContentPart) string {
	switch p := part.(type) {
	case llms.TextContent:
		return p.Text
	case llms.ToolCall:
		if p.FunctionCall == nil {
			return "call ?"
		}
		return fmt.Sprintf("call %s %s", p.FunctionCall.Name, p.FunctionCall.Arguments)
	case llms.ToolCallResponse:
		return fmt.Sprintf("%s -> %s", p.Name, p.Content)
	default:
		return fmt.Sprintf("%T", part)
	}
}
