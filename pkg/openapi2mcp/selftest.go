// selftest.go
package openapi2mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// SelfTest checks that generated tools are usable: names are unique, every required
// argument exists, each input schema compiles, and a synthesized example call validates.
// Example usage for SelfTest:
//
//	tools := openapi2mcp.ExtractTools(doc, openapi2mcp.DefaultOptions())
//	if res := openapi2mcp.SelfTest(tools); !res.Success {
//		log.Fatal(openapi2mcp.SelfTestError(res))
//	}
func SelfTest(tools []ToolDefinition) *LintResult {
	res := &LintResult{Issues: []LintIssue{}}
	add := func(t ToolDefinition, typ, msg, suggestion, field string) {
		res.Issues = append(res.Issues, LintIssue{
			Type:       typ,
			Message:    msg,
			Suggestion: suggestion,
			Tool:       t.Name,
			Operation:  t.OperationID,
			Path:       t.PathTemplate,
			Method:     t.Method,
			Field:      field,
		})
		if typ == "error" {
			res.ErrorCount++
		} else {
			res.WarningCount++
		}
	}

	seen := map[string]bool{}
	for _, t := range tools {
		if t.Name == "" {
			add(t, "error", "Tool has an empty name.", "Give the operation an operationId.", "")
		} else if seen[t.Name] {
			add(t, "error", fmt.Sprintf("Tool name '%s' is used more than once.", t.Name), "Use unique operationIds.", "")
		}
		seen[t.Name] = true

		if t.InputSchema == nil {
			add(t, "error", "Tool has no input schema.", "Extract tools with ExtractTools.", "")
			continue
		}
		for _, req := range t.InputSchema.Required {
			if _, ok := t.InputSchema.Properties[req]; !ok {
				add(t, "error", fmt.Sprintf("Required argument '%s' is missing from the input schema.", req),
					"Declare a schema for the parameter or remove it from the required list.", req)
			}
		}

		raw, err := MarshalInputSchema(t.InputSchema)
		if err != nil {
			add(t, "error", fmt.Sprintf("Input schema cannot be encoded: %v", err), "Check the operation's schemas for unsupported values.", "")
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			add(t, "error", fmt.Sprintf("Input schema does not compile: %v", err), "Check patterns and formats in the operation's schemas.", "")
			continue
		}
		result, err := schema.Validate(gojsonschema.NewGoLoader(ExampleArguments(t.InputSchema)))
		if err != nil {
			add(t, "warning", fmt.Sprintf("Example arguments could not be checked: %v", err), "", "")
			continue
		}
		if !result.Valid() {
			var msgs []string
			for _, verr := range result.Errors() {
				msgs = append(msgs, verr.String())
			}
			add(t, "warning", "Synthesized example arguments do not validate: "+strings.Join(msgs, "; "),
				"Add examples-friendly constraints (enum, default) to the schema.", "")
		}
	}

	res.Success = res.ErrorCount == 0
	res.Summary = fmt.Sprintf("%d tools checked: %d errors, %d warnings.", len(tools), res.ErrorCount, res.WarningCount)
	return res
}

// SelfTestError returns nil for a successful result and an error listing the problems otherwise.
func SelfTestError(res *LintResult) error {
	if res == nil || res.Success {
		return nil
	}
	var sb strings.Builder
	for _, issue := range res.Issues {
		if issue.Type != "error" {
			continue
		}
		sb.WriteString("\n  ")
		if issue.Tool != "" {
			sb.WriteString(issue.Tool + ": ")
		}
		sb.WriteString(issue.Message)
	}
	return fmt.Errorf("self-test failed: %d issues found:%s", res.ErrorCount, sb.String())
}

// ExampleArguments builds an argument object satisfying the required part of an input schema.
func ExampleArguments(input *jsonschema.Schema) map[string]any {
	args := map[string]any{}
	if input == nil {
		return args
	}
	for _, name := range input.Required {
		if prop, ok := input.Properties[name]; ok {
			args[name] = ExampleValue(prop)
		}
	}
	return args
}

// ExampleValue returns a plausible value for s: its first enum value, its default, or a
// type-based placeholder.
func ExampleValue(s *jsonschema.Schema) any {
	if s == nil {
		return nil
	}
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}
	if len(s.Default) > 0 {
		var v any
		if err := json.Unmarshal(s.Default, &v); err == nil {
			return v
		}
	}
	switch primaryType(s) {
	case "string":
		return exampleString(s)
	case "number", "integer":
		switch {
		case s.Minimum != nil:
			return *s.Minimum
		case s.ExclusiveMinimum != nil:
			return *s.ExclusiveMinimum + 1
		case s.Maximum != nil && *s.Maximum < 1:
			return *s.Maximum
		}
		return 1
	case "boolean":
		return true
	case "array":
		if s.Items == nil {
			return []any{}
		}
		return []any{ExampleValue(s.Items)}
	case "object":
		return ExampleArguments(s)
	case "null":
		return nil
	}
	if len(s.Properties) > 0 {
		return ExampleArguments(s)
	}
	return "example"
}

func primaryType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	if len(s.Types) > 0 {
		return s.Types[0]
	}
	return ""
}

func exampleString(s *jsonschema.Schema) string {
	var v string
	switch s.Format {
	case "date-time":
		v = "2024-01-01T00:00:00Z"
	case "date":
		v = "2024-01-01"
	case "email":
		v = "user@example.com"
	case "uri", "url":
		v = "https://example.com"
	case "uuid":
		v = "00000000-0000-4000-8000-000000000000"
	case "ipv4":
		v = "192.0.2.1"
	default:
		v = "example"
	}
	if s.MinLength != nil && len(v) < *s.MinLength {
		v += strings.Repeat("x", *s.MinLength-len(v))
	}
	if s.MaxLength != nil && len(v) > *s.MaxLength {
		v = v[:*s.MaxLength]
	}
	return v
}
