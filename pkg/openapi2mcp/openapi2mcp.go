// Package openapi2mcp turns OpenAPI 3 documents into MCP tool definitions.
// It decides which operations become tools, merges their parameters and request bodies
// into a single JSON Schema input object, and maps OpenAPI schemas to JSON Schema.
// The resulting []ToolDefinition is what code generators and proxies consume.
package openapi2mcp

import (
	"encoding/json"
	"regexp"

	"github.com/google/jsonschema-go/jsonschema"
)

// ToolDefinition describes one OpenAPI operation exposed as a tool.
type ToolDefinition struct {
	Name                   string                `json:"name"`
	Description            string                `json:"description"`
	InputSchema            *jsonschema.Schema    `json:"inputSchema"`
	Method                 string                `json:"method"`
	PathTemplate           string                `json:"pathTemplate"`
	Parameters             []ParameterSpec       `json:"parameters"`
	ExecutionParameters    []ExecutionParameter  `json:"executionParameters"`
	RequestBodyContentType string                `json:"requestBodyContentType,omitempty"`
	SecurityRequirements   []SecurityRequirement `json:"securityRequirements"` // nil: none declared; empty: explicitly unauthenticated
	OperationID            string                `json:"operationId,omitempty"`
	Summary                string                `json:"summary,omitempty"`
	Tags                   []string              `json:"tags,omitempty"`
	Deprecated             bool                  `json:"deprecated,omitempty"`
}

// ParameterSpec is a merged OpenAPI parameter.
type ParameterSpec struct {
	Name        string             `json:"name"`
	In          string             `json:"in"`
	Required    bool               `json:"required"`
	Description string             `json:"description,omitempty"`
	Schema      *jsonschema.Schema `json:"schema,omitempty"`
}

// ExecutionParameter tells an invoker where an input field goes in the HTTP request.
type ExecutionParameter struct {
	Name string `json:"name"`
	In   string `json:"in"`
}

// SecurityRequirement maps a security scheme name to its required scopes.
type SecurityRequirement map[string][]string

// Options controls extraction.
//
// DefaultInclude: whether operations without any x-mcp value become tools
// ExtensionName: the inclusion extension, DefaultExtensionName when empty
// TagFilter: keep only operations with at least one of these tags (if non-empty)
// IncludeDescRegex / ExcludeDescRegex: filter on description, falling back to summary
// NameFormat: applied to the base name before sanitization (see NameFormatter)
// Diagnostics: receives non-fatal anomalies; nil discards them
type Options struct {
	DefaultInclude   bool
	ExtensionName    string
	TagFilter        []string
	IncludeDescRegex *regexp.Regexp
	ExcludeDescRegex *regexp.Regexp
	NameFormat       func(string) string
	Diagnostics      DiagnosticSink
}

// DefaultOptions includes every operation unless told otherwise.
func DefaultOptions() Options {
	return Options{
		DefaultInclude: true,
		ExtensionName:  DefaultExtensionName,
	}
}

// MarshalJSON always emits a properties object in the input schema.
func (t ToolDefinition) MarshalJSON() ([]byte, error) {
	type alias ToolDefinition
	schema, err := MarshalInputSchema(t.InputSchema)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		alias
		InputSchema json.RawMessage `json:"inputSchema"`
	}{alias: alias(t), InputSchema: schema})
}

// MarshalInputSchema encodes an object schema, adding an empty properties map when missing.
func MarshalInputSchema(s *jsonschema.Schema) ([]byte, error) {
	if s == nil {
		return []byte(`{"type":"object","properties":{}}`), nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if _, ok := m["properties"]; !ok {
		m["properties"] = map[string]any{}
	}
	return json.Marshal(m)
}

func newInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
}
