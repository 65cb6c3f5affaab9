// summary.go
package openapi2mcp

import (
	"fmt"
	"io"
	"sort"
)

// WriteToolSummary prints a summary of the generated tools (count, tags, methods).
func WriteToolSummary(w io.Writer, tools []ToolDefinition) {
	tagCount := map[string]int{}
	methodCount := map[string]int{}
	for _, t := range tools {
		for _, tag := range t.Tags {
			tagCount[tag]++
		}
		methodCount[t.Method]++
	}
	fmt.Fprintf(w, "Total tools: %d\n", len(tools))
	writeCounts(w, "Tags", tagCount)
	writeCounts(w, "Methods", methodCount)
}

func writeCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %d\n", k, counts[k])
	}
}

// Example usage for WriteToolSummary:
//
//   doc, _ := openapi2mcp.LoadOpenAPISpec("petstore.yaml", openapi2mcp.LoadOptions{})
//   tools := openapi2mcp.ExtractTools(doc, openapi2mcp.DefaultOptions())
//   openapi2mcp.WriteToolSummary(os.Stdout, tools)
