// Package chat implements a participant backed by a chat model with native tool calling.
//
// # Overview
//
// Agent turns a [duet.Model] into a [duet.Agent]. It keeps no conversation state of its own:
// the orchestrator owns the history and passes it in on every GetResponse call.
//
// Tools are discovered from the evaluation context. Agent implements [duet.ToolUser], so the
// orchestrator hands it a view filtered to WithAllowedTools and the agent rebuilds the
// provider tool definitions ([llms.Tool]) from that view before its first response.
//
// # Configuration
//
//   - WithSystemPrompt: Static system prompt
//   - WithSystemTemplateString: System prompt template rendered on every SystemMessages call
//   - WithAllowedTools: Tool allow-list (empty allows every tool)
//   - WithResponseTimeout: Upper bound on a single model call
//   - WithCallOptions: Extra llms.CallOption values, e.g. temperature
//   - WithTimeProvider: Clock exposed to templates
//
// # Example
//
//	llm, _ := openai.New(openai.WithModel("gpt-4o"))
//	agent := chat.NewAgent(models.NewLCGWrapper(llm)).
//	    WithSystemPrompt(bulb.AgentInstruction).
//	    WithAllowedTools("agent_switch")
//
// # Template Data
//
// Templates receive [SystemPromptData]:
//
//	You are helping on {{.Now.Format "Monday"}}.
//	{{if .Tools}}Tools: {{join .Tools ", "}}{{end}}
package chat
