// doc.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newDocCmd creates the 'doc' subcommand.
func newDocCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "doc <spec>",
		Short: "Write Markdown documentation for the tools of a spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, tools, err := a.loadTools(args[0])
			if err != nil {
				return err
			}
			var info *openapi3.Info
			if len(docs) > 0 {
				info = docs[0].Info
			}
			if output == "" || output == "-" {
				return writeMarkdownDoc(cmd.OutOrStdout(), info, tools)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := writeMarkdownDoc(f, info, tools); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("wrote Markdown documentation", zap.String("file", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// writeMarkdownDoc writes Markdown documentation for tools.
func writeMarkdownDoc(w io.Writer, info *openapi3.Info, tools []openapi2mcp.ToolDefinition) error {
	var b strings.Builder
	b.WriteString("# MCP Tools Documentation\n\n")
	if info != nil {
		fmt.Fprintf(&b, "**API Title:** %s\n\n", info.Title)
		fmt.Fprintf(&b, "**Version:** %s\n\n", info.Version)
		if info.Description != "" {
			b.WriteString(info.Description + "\n\n")
		}
	}
	for _, t := range tools {
		fmt.Fprintf(&b, "## %s\n\n", t.Name)
		fmt.Fprintf(&b, "`%s %s`\n\n", t.Method, t.PathTemplate)
		if t.Deprecated {
			b.WriteString("**Deprecated.**\n\n")
		}
		if t.Description != "" {
			b.WriteString(t.Description + "\n\n")
		}
		if len(t.Tags) > 0 {
			fmt.Fprintf(&b, "**Tags:** %s\n\n", strings.Join(t.Tags, ", "))
		}
		writeArgumentTable(&b, t)

		// Example call (best effort)
		example := openapi2mcp.ExampleArguments(t.InputSchema)
		if len(example) > 0 {
			exampleJSON, err := json.MarshalIndent(example, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding example for %s: %w", t.Name, err)
			}
			b.WriteString("**Example call:**\n\n")
			b.WriteString("```json\n" + fmt.Sprintf("call %s %s\n", t.Name, exampleJSON) + "```\n\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeArgumentTable(b *strings.Builder, t openapi2mcp.ToolDefinition) {
	if t.InputSchema == nil || len(t.InputSchema.Properties) == 0 {
		return
	}
	locations := map[string]string{}
	for _, p := range t.ExecutionParameters {
		locations[p.Name] = p.In
	}
	required := map[string]bool{}
	for _, r := range t.InputSchema.Required {
		required[r] = true
	}
	names := make([]string, 0, len(t.InputSchema.Properties))
	for name := range t.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("**Arguments:**\n\n")
	b.WriteString("| Name | In | Type | Required | Description |\n|------|----|------|----------|-------------|\n")
	for _, name := range names {
		prop := t.InputSchema.Properties[name]
		in := locations[name]
		if in == "" && name == "requestBody" {
			in = "body"
		}
		req := ""
		if required[name] {
			req = "yes"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", name, in, schemaType(prop), req, tableCell(prop.Description))
	}
	b.WriteString("\n")
}

// schemaType renders the type keyword of s, "any" when absent.
func schemaType(s *jsonschema.Schema) string {
	switch {
	case s == nil:
		return "any"
	case s.Type != "":
		return s.Type
	case len(s.Types) > 0:
		return strings.Join(s.Types, " \\| ")
	}
	return "any"
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
