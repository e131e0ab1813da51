package duet

import (
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// ChatRole is the role tag of a message, as understood by the model provider.
type ChatRole = llms.ChatMessageType

// Chat roles used by the orchestrator.
const (
	ChatRoleSystem = llms.ChatMessageTypeSystem
	ChatRoleHuman  = llms.ChatMessageTypeHuman
	ChatRoleAI     = llms.ChatMessageTypeAI
	ChatRoleTool   = llms.ChatMessageTypeTool
)

// MessageContent is a wrapper around [llms.MessageContent]. A participant's history is an
// ordered slice of these; the order is the literal context sent to the model.
type MessageContent struct {
	Role  ChatRole
	Parts []ContentPart
}

// ContentPart is just a wrapper interface around [llms.ContentPart], just in case we want to add
// new interface method later, it will be easy.
type ContentPart interface {
	llms.ContentPart
}

// Text builds a text content part.
func Text(text string) ContentPart {
	return llms.TextContent{Text: text}
}

// TextMessage builds a single text message.
func TextMessage(role ChatRole, text string) MessageContent {
	return MessageContent{
		Role:  role,
		Parts: []ContentPart{llms.TextContent{Text: text}},
	}
}

// TextOf concatenates the text parts of a message. Non-text parts are skipped.
func TextOf(msg MessageContent) string {
	var sb strings.Builder
	for _, part := range msg.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

// ToLLMMessages converts a history into the langchaingo representation.
func ToLLMMessages(messages []MessageContent) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		parts := make([]llms.ContentPart, len(msg.Parts))
		for j, part := range msg.Parts {
			parts[j] = part
		}
		out[i] = llms.MessageContent{Role: msg.Role, Parts: parts}
	}
	return out
}

// CloneMessages returns a copy of the history slice. Parts are shared; they are never mutated
// once appended.
func CloneMessages(messages []MessageContent) []MessageContent {
	if messages == nil {
		return nil
	}
	out := make([]MessageContent, len(messages))
	copy(out, messages)
	return out
}

// ToolCallMessages renders a tool batch the way chat providers expect it: one AI message
// carrying every call, followed by one tool message per result.
func ToolCallMessages(calls []ToolCall, results []ToolResult) []MessageContent {
	callParts := make([]ContentPart, len(calls))
	for i, call := range calls {
		callParts[i] = llms.ToolCall{
			ID:   call.ID,
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		}
	}

	messages := make([]MessageContent, 0, len(results)+1)
	messages = append(messages, MessageContent{Role: ChatRoleAI, Parts: callParts})
	for _, result := range results {
		messages = append(messages, MessageContent{
			Role: ChatRoleTool,
			Parts: []ContentPart{llms.ToolCallResponse{
				ToolCallID: result.CallID,
				Name:       result.Name,
				Content:    result.Content,
			}},
		})
	}
	return messages
}
