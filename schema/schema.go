// Package schema provides JSON Schema validation for tool arguments.
//
// # Quick Start
//
//	tool := duet.NewToolFunc("user_switch", "Flip the user switch", schema.Empty(), flipFunc)
//
// toolset.Set compiles each tool's schema once and validates call arguments against it before
// the tool runs.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema represents a JSON Schema definition.
// It provides both the raw map representation (for provider tool definitions)
// and a compiled validator (for runtime validation).
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates the given data against the schema.
// Returns nil if valid, or a *ValidationError describing the failure.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(data); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidateArguments decodes raw JSON tool arguments and validates them.
// Empty arguments are treated as an empty object.
func (s *Schema) ValidateArguments(arguments string) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	trimmed := strings.TrimSpace(arguments)
	if trimmed == "" || trimmed == "null" {
		trimmed = "{}"
	}
	data, err := jsonschema.UnmarshalJSON(strings.NewReader(trimmed))
	if err != nil {
		return &ValidationError{Err: fmt.Errorf("arguments are not valid JSON: %w", err)}
	}
	return s.Validate(data)
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a compiled validator.
// A nil map compiles to a nil Schema, which accepts everything.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// Empty returns the schema of a tool that takes no arguments.
func Empty() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
