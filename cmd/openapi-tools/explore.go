package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/spf13/cobra"
)

// newExploreCmd creates the 'explore' subcommand, an interactive prompt over extracted tools.
func newExploreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explore <spec>",
		Short: "Browse the tools of a spec interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tools, err := a.loadTools(args[0])
			if err != nil {
				return err
			}
			return explore(cmd.OutOrStdout(), tools)
		},
	}
}

func explore(out io.Writer, tools []openapi2mcp.ToolDefinition) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tools> ",
		HistoryFile:     os.ExpandEnv("$HOME/.openapi_tools_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    exploreCompleter(tools),
		Stdout:          out,
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(out, "%d tools loaded. Type 'help' for available commands.\n", len(tools))
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if runExploreCommand(out, tools, line) {
			return nil
		}
	}
}

func exploreCompleter(tools []openapi2mcp.ToolDefinition) *readline.PrefixCompleter {
	toolItems := func() []readline.PrefixCompleterInterface {
		items := make([]readline.PrefixCompleterInterface, 0, len(tools))
		for _, t := range tools {
			items = append(items, readline.PcItem(t.Name))
		}
		return items
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
		readline.PcItem("show", toolItems()...),
		readline.PcItem("schema", toolItems()...),
		readline.PcItem("params", toolItems()...),
	)
}

// runExploreCommand executes one prompt line and reports whether the session should end.
func runExploreCommand(out io.Writer, tools []openapi2mcp.ToolDefinition, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprint(out, `Commands:
  list            List tool names
  show <tool>     Print the full tool definition
  schema <tool>   Print the input schema
  params <tool>   Print where each argument goes in the HTTP request
  exit, quit      Leave
`)
	case "list":
		for _, t := range tools {
			fmt.Fprintf(out, "%-30s %-7s %s\n", t.Name, t.Method, t.PathTemplate)
		}
	case "show", "schema", "params":
		if len(fields) < 2 {
			fmt.Fprintf(out, "Usage: %s <tool>\n", fields[0])
			return false
		}
		t, err := findTool(tools, fields[1])
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		var v any = t
		switch fields[0] {
		case "schema":
			raw, err := openapi2mcp.MarshalInputSchema(t.InputSchema)
			if err != nil {
				fmt.Fprintln(out, err)
				return false
			}
			v = json.RawMessage(raw)
		case "params":
			if len(t.ExecutionParameters) == 0 && t.RequestBodyContentType == "" {
				fmt.Fprintln(out, "No arguments.")
				return false
			}
			for _, p := range t.ExecutionParameters {
				fmt.Fprintf(out, "%s\t%s\n", p.Name, p.In)
			}
			if t.RequestBodyContentType != "" {
				fmt.Fprintf(out, "requestBody\tbody (%s)\n", t.RequestBodyContentType)
			}
			return false
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		fmt.Fprintln(out, string(data))
	default:
		fmt.Fprintf(out, "Unknown command %q. Type 'help' for available commands.\n", fields[0])
	}
	return false
}
