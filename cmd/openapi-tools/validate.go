package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/spf13/cobra"
)

// newValidateCmd creates the 'validate' subcommand.
func newValidateCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <spec>",
		Short: "Extract the tools of a spec and self-test them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tools, err := a.loadTools(args[0])
			if err != nil {
				return err
			}
			res := openapi2mcp.SelfTest(tools)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				for _, issue := range res.Issues {
					line := fmt.Sprintf("[%s] ", strings.ToUpper(issue.Type))
					if issue.Tool != "" {
						line += issue.Tool + ": "
					}
					line += issue.Message
					if issue.Suggestion != "" {
						line += "\n    Suggestion: " + issue.Suggestion
					}
					if err := writeLines(out, line); err != nil {
						return err
					}
				}
				if err := writeLines(out, res.Summary); err != nil {
					return err
				}
			}
			return openapi2mcp.SelfTestError(res)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
