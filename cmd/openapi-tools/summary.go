package main

import (
	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/spf13/cobra"
)

// newSummaryCmd creates the 'summary' subcommand.
func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <spec>",
		Short: "Count the tools of a spec by tag and method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tools, err := a.loadTools(args[0])
			if err != nil {
				return err
			}
			openapi2mcp.WriteToolSummary(cmd.OutOrStdout(), tools)
			return nil
		},
	}
}
