package main

import (
	"fmt"
	"os"

	"github.com/jedisct1/openapi-tools/internal/config"
	"github.com/jedisct1/openapi-tools/internal/logging"
	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	configPath     string
	debug          bool
	defaultInclude bool
	extension      string
	tags           []string
	includeRegex   string
	excludeRegex   string
	nameFormat     string
	validate       bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd creates the root 'openapi-tools' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "openapi-tools",
		Short:        "Turn OpenAPI 3 operations into MCP tool definitions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logs")
	pf.BoolVar(&a.defaultInclude, "default-include", true, "Turn operations without an x-mcp value into tools")
	pf.StringVar(&a.extension, "extension", openapi2mcp.DefaultExtensionName, "Vendor extension controlling inclusion")
	pf.StringSliceVar(&a.tags, "tag", nil, "Only keep operations with one of these tags (repeatable)")
	pf.StringVar(&a.includeRegex, "include-desc-regex", "", "Only keep operations whose description matches this regex")
	pf.StringVar(&a.excludeRegex, "exclude-desc-regex", "", "Drop operations whose description matches this regex")
	pf.StringVar(&a.nameFormat, "tool-name-format", "", "Format tool names: lower, upper, snake, camel")
	pf.BoolVar(&a.validate, "validate", false, "Validate the OpenAPI document structure while loading")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newValidateCmd(a),
		newSummaryCmd(a),
		newDocCmd(a),
		newExploreCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// setup loads the configuration, applies the flags the user set and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("default-include") {
		cfg.Extract.DefaultInclude = a.defaultInclude
	}
	if flags.Changed("extension") {
		cfg.Extract.Extension = a.extension
	}
	if flags.Changed("tag") {
		cfg.Extract.Tags = a.tags
	}
	if flags.Changed("include-desc-regex") {
		cfg.Extract.IncludeDescRegex = a.includeRegex
	}
	if flags.Changed("exclude-desc-regex") {
		cfg.Extract.ExcludeDescRegex = a.excludeRegex
	}
	if flags.Changed("tool-name-format") {
		cfg.Extract.ToolNameFormat = a.nameFormat
	}
	if flags.Changed("validate") {
		cfg.Load.Validate = a.validate
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}

	var logger *zap.Logger
	if errOut := cmd.ErrOrStderr(); errOut == os.Stderr {
		logger, err = logging.New(cfg.Log)
	} else {
		logger, err = logging.NewWithWriter(cfg.Log, errOut)
	}
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// extractOptions returns the extraction options, reporting diagnostics to the logger.
func (a *app) extractOptions() (openapi2mcp.Options, error) {
	return a.cfg.ExtractOptions(openapi2mcp.NewZapSink(a.logger))
}

// loadTools loads every spec in path and extracts their tools.
// Specs that fail to load are logged and skipped as long as one of them loads.
func (a *app) loadTools(path string) ([]*openapi2mcp.Document, []openapi2mcp.ToolDefinition, error) {
	opts, err := a.extractOptions()
	if err != nil {
		return nil, nil, err
	}
	docs, err := openapi2mcp.LoadMultipleOpenAPISpecs(path, a.cfg.LoadOptions())
	if err != nil {
		if len(docs) == 0 {
			return nil, nil, err
		}
		a.logger.Warn("some specs were skipped", zap.String("file", path), zap.Error(err))
	}
	tools := openapi2mcp.NewExtractor(opts).ExtractAll(docs)
	a.logger.Debug("extracted tools",
		zap.String("file", path),
		zap.Int("documents", len(docs)),
		zap.Int("tools", len(tools)))
	return docs, tools, nil
}

func findTool(tools []openapi2mcp.ToolDefinition, name string) (openapi2mcp.ToolDefinition, error) {
	for _, t := range tools {
		if t.Name == name {
			return t, nil
		}
	}
	return openapi2mcp.ToolDefinition{}, fmt.Errorf("no tool named %q", name)
}
