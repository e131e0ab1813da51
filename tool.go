package duet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Tool represents a single callable tool with typed input and output.
// The generic parameters allow for compile-time type safety when implementing tools.
//
// Responsibility design:
//   - Tool: Accept typed input, execute logic, return raw typed output
//   - toolset.Set: validate arguments, call tools, format output for the model
//
// Tools should focus on business logic only.
type Tool[I, O any] interface {
	// Name returns the tool's identifier used in tool calls.
	Name() string

	// Description returns a human-readable description for the LLM.
	Description() string

	// ParameterSchema returns the JSON Schema for the tool's parameters.
	// Returns nil if the tool takes no parameters.
	ParameterSchema() map[string]any

	// Call executes the tool with the given typed input.
	Call(ctx context.Context, input I) (O, error)
}

// AnyTool is the type-erased view of a [Tool]. Tool sets and agents work with this view so
// tools with different type parameters can live in one collection.
type AnyTool interface {
	Name() string
	Description() string
	ParameterSchema() map[string]any

	// Invoke decodes the raw JSON arguments into the tool's input type and calls it.
	Invoke(ctx context.Context, arguments string) (any, error)
}

// ToolFunc is a convenience type for creating tools from functions with typed I/O.
type ToolFunc[I, O any] struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, input I) (O, error)
}

// NewToolFunc creates a new ToolFunc with typed input and output.
func NewToolFunc[I, O any](
	name, description string,
	schema map[string]any,
	fn func(ctx context.Context, input I) (O, error),
) *ToolFunc[I, O] {
	return &ToolFunc[I, O]{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// Name returns the tool's identifier.
func (t *ToolFunc[I, O]) Name() string {
	return t.name
}

// Description returns a human-readable description for the LLM.
func (t *ToolFunc[I, O]) Description() string {
	return t.description
}

// ParameterSchema returns the JSON Schema for the tool's parameters.
func (t *ToolFunc[I, O]) ParameterSchema() map[string]any {
	return t.schema
}

// Call executes the tool function with the given typed input.
func (t *ToolFunc[I, O]) Call(ctx context.Context, input I) (O, error) {
	return t.fn(ctx, input)
}

// Invoke implements [AnyTool] so a ToolFunc can be registered directly.
func (t *ToolFunc[I, O]) Invoke(ctx context.Context, arguments string) (any, error) {
	return invokeTyped[I, O](ctx, t, arguments)
}

// Erase wraps a typed tool into an [AnyTool].
func Erase[I, O any](tool Tool[I, O]) AnyTool {
	if anyTool, ok := tool.(AnyTool); ok {
		return anyTool
	}
	return erasedTool[I, O]{tool: tool}
}

type erasedTool[I, O any] struct {
	tool Tool[I, O]
}

func (e erasedTool[I, O]) Name() string                    { return e.tool.Name() }
func (e erasedTool[I, O]) Description() string             { return e.tool.Description() }
func (e erasedTool[I, O]) ParameterSchema() map[string]any { return e.tool.ParameterSchema() }

func (e erasedTool[I, O]) Invoke(ctx context.Context, arguments string) (any, error) {
	return invokeTyped[I, O](ctx, e.tool, arguments)
}

func invokeTyped[I, O any](ctx context.Context, tool Tool[I, O], arguments string) (any, error) {
	var input I
	if trimmed := strings.TrimSpace(arguments); trimmed != "" && trimmed != "null" {
		if err := json.Unmarshal([]byte(trimmed), &input); err != nil {
			return nil, fmt.Errorf("decode arguments for %s: %w", tool.Name(), err)
		}
	}
	return tool.Call(ctx, input)
}

// ToolCall is a tool invocation requested by a participant.
type ToolCall struct {
	// ID identifies the call so its result can be paired with it. Providers that do not issue
	// IDs get positional IDs assigned by the agent.
	ID string

	// Name is the tool name.
	Name string

	// Arguments is the raw JSON argument object.
	Arguments string
}

// ToolResult is the outcome of one [ToolCall].
type ToolResult struct {
	// CallID is the ID of the originating ToolCall.
	CallID string

	// Name is the tool name of the originating ToolCall.
	Name string

	// Content is the formatted output, or the error text when IsError is set.
	Content string

	// IsError marks a failed tool execution. Failed executions are not run errors; the
	// participant sees the error text on its next turn.
	IsError bool
}
