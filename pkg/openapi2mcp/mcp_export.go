// mcp_export.go
package openapi2mcp

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToMCPTools converts tool definitions into mcp.Tool values ready to be registered
// on an MCP server by a downstream generator. No handlers are attached.
// Example usage for ToMCPTools:
//
//	tools := openapi2mcp.ExtractTools(doc, openapi2mcp.DefaultOptions())
//	mcpTools, err := openapi2mcp.ToMCPTools(tools)
//	for _, t := range mcpTools { srv.AddTool(t, handlerFor(t.Name)) }
func ToMCPTools(tools []ToolDefinition) ([]mcp.Tool, error) {
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		raw, err := MarshalInputSchema(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("encoding input schema of tool %s: %w", t.Name, err)
		}
		tool := mcp.NewToolWithRawSchema(t.Name, t.Description, raw)
		tool.Annotations = toolAnnotations(t)
		out = append(out, tool)
	}
	return out, nil
}

func toolAnnotations(t ToolDefinition) mcp.ToolAnnotation {
	var titleParts []string
	if t.Summary != "" {
		titleParts = append(titleParts, t.Summary)
	}
	if len(t.Tags) > 0 {
		titleParts = append(titleParts, "Tags: "+strings.Join(t.Tags, ", "))
	}
	ann := mcp.ToolAnnotation{Title: strings.Join(titleParts, " | ")}

	method := strings.ToUpper(t.Method)
	safe := method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
	ann.ReadOnlyHint = mcp.ToBoolPtr(safe)
	ann.DestructiveHint = mcp.ToBoolPtr(method == http.MethodDelete)
	ann.IdempotentHint = mcp.ToBoolPtr(safe || method == http.MethodPut || method == http.MethodDelete)
	ann.OpenWorldHint = mcp.ToBoolPtr(true)
	return ann
}
