package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newExtractCmd creates the 'extract' subcommand.
func newExtractCmd(a *app) *cobra.Command {
	var (
		pretty bool
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "extract <spec>",
		Short: "Print the tool definitions of an OpenAPI spec as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tools, err := a.loadTools(args[0])
			if err != nil {
				return err
			}

			var payload any
			switch format {
			case "tools":
				payload = tools
			case "mcp":
				mcpTools, err := openapi2mcp.ToMCPTools(tools)
				if err != nil {
					return err
				}
				payload = mcpTools
			default:
				return fmt.Errorf("unknown format %q (want tools or mcp)", format)
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(payload, "", "  ")
			} else {
				data, err = json.Marshal(payload)
			}
			if err != nil {
				return fmt.Errorf("encoding tools: %w", err)
			}
			data = append(data, '\n')

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			a.logger.Info("wrote tool definitions", zap.String("file", output), zap.Int("tools", len(tools)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().StringVar(&format, "format", "tools", "Output format: tools (full definitions) or mcp (mcp.Tool values)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// writeLines writes each line followed by a newline.
func writeLines(w io.Writer, lines ...string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
