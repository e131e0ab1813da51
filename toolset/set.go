package toolset

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/schema"
	"github.com/tmc/langchaingo/llms"
)

// Set is an immutable, ordered collection of tools keyed by name.
type Set struct {
	tools   []duet.AnyTool
	byName  map[string]duet.AnyTool
	schemas map[string]*schema.Schema
}

// New builds a Set from tools. It fails on a nil tool, an empty or duplicate name, or a
// parameter schema that does not compile.
func New(tools ...duet.AnyTool) (*Set, error) {
	s := &Set{
		tools:   make([]duet.AnyTool, 0, len(tools)),
		byName:  make(map[string]duet.AnyTool, len(tools)),
		schemas: make(map[string]*schema.Schema, len(tools)),
	}

	for i, tool := range tools {
		if tool == nil {
			return nil, fmt.Errorf("%w: tool %d is nil", duet.ErrInvalidConfig, i)
		}
		name := tool.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: tool %d has no name", duet.ErrInvalidConfig, i)
		}
		if _, exists := s.byName[name]; exists {
			return nil, fmt.Errorf("%w: duplicate tool %q", duet.ErrInvalidConfig, name)
		}

		compiled, err := schema.Compile(tool.ParameterSchema())
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", name, err)
		}

		s.tools = append(s.tools, tool)
		s.byName[name] = tool
		if compiled != nil {
			s.schemas[name] = compiled
		}
	}

	return s, nil
}

// Filter returns a new Set holding only the allowed tools, in the receiver's order.
// An empty allow-list returns a view of every tool.
func (s *Set) Filter(allowed []string) *Set {
	view := &Set{
		byName:  make(map[string]duet.AnyTool),
		schemas: make(map[string]*schema.Schema),
	}
	if s == nil {
		return view
	}

	for _, tool := range s.tools {
		name := tool.Name()
		if len(allowed) > 0 && !slices.Contains(allowed, name) {
			continue
		}
		view.tools = append(view.tools, tool)
		view.byName[name] = tool
		if compiled, ok := s.schemas[name]; ok {
			view.schemas[name] = compiled
		}
	}

	return view
}

// Len returns the number of tools.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tools)
}

// Names returns tool names in order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.tools))
	for i, tool := range s.tools {
		names[i] = tool.Name()
	}
	return names
}

// Tools returns a copy of the tool list.
func (s *Set) Tools() []duet.AnyTool {
	if s == nil {
		return nil
	}
	return slices.Clone(s.tools)
}

// Lookup returns the tool registered under name.
func (s *Set) Lookup(name string) (duet.AnyTool, bool) {
	if s == nil {
		return nil, false
	}
	tool, ok := s.byName[name]
	return tool, ok
}

// Definitions returns the provider tool definitions for native tool calling.
func (s *Set) Definitions() []llms.Tool {
	if s.Len() == 0 {
		return nil
	}
	defs := make([]llms.Tool, len(s.tools))
	for i, tool := range s.tools {
		params := tool.ParameterSchema()
		if params == nil {
			params = schema.Empty()
		}
		defs[i] = llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  params,
			},
		}
	}
	return defs
}

// Execute runs calls in order and returns one result per call.
// The returned error is non-nil only when ctx is done before the batch completes.
func (s *Set) Execute(ctx context.Context, calls []duet.ToolCall) ([]duet.ToolResult, error) {
	results := make([]duet.ToolResult, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.executeOne(ctx, call))
	}
	return results, nil
}

func (s *Set) executeOne(ctx context.Context, call duet.ToolCall) duet.ToolResult {
	result := duet.ToolResult{CallID: call.ID, Name: call.Name}

	tool, ok := s.Lookup(call.Name)
	if !ok {
		result.IsError = true
		result.Content = fmt.Sprintf("%v: %s", duet.ErrToolNotFound, call.Name)
		return result
	}

	if compiled, ok := s.schemas[call.Name]; ok {
		if err := compiled.ValidateArguments(call.Arguments); err != nil {
			result.IsError = true
			result.Content = err.Error()
			return result
		}
	}

	output, err := tool.Invoke(ctx, call.Arguments)
	if err != nil {
		result.IsError = true
		result.Content = err.Error()
		return result
	}

	content, err := FormatOutput(output)
	if err != nil {
		result.IsError = true
		result.Content = err.Error()
		return result
	}
	result.Content = content
	return result
}

// FormatOutput renders a tool's output for the model.
func FormatOutput(output any) (string, error) {
	switch v := output.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	data, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("failed to format tool output: %w", err)
	}
	return string(data), nil
}
