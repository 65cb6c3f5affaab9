// Package config loads the settings of the openapi-tools commands.
//
// Precedence: defaults, then the YAML file, then environment variables.
// Command line flags are applied last by the caller.
//
//	cfg, err := config.Load("openapi-tools.yaml")
//	opts, err := cfg.ExtractOptions(sink)
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jedisct1/openapi-tools/internal/logging"
	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable except the two description filters.
const EnvPrefix = "OPENAPI_TOOLS_"

// Config is the complete configuration of the command line tools.
type Config struct {
	Extract ExtractConfig  `yaml:"extract"`
	Load    LoadConfig     `yaml:"load"`
	Log     logging.Config `yaml:"log"`
	HTTP    HTTPConfig     `yaml:"http"`
}

// ExtractConfig mirrors openapi2mcp.Options in serializable form.
type ExtractConfig struct {
	DefaultInclude   bool     `yaml:"default_include"`
	Extension        string   `yaml:"extension"`
	Tags             []string `yaml:"tags"`
	IncludeDescRegex string   `yaml:"include_desc_regex"`
	ExcludeDescRegex string   `yaml:"exclude_desc_regex"`
	ToolNameFormat   string   `yaml:"tool_name_format"`
}

type LoadConfig struct {
	Validate          bool `yaml:"validate"`
	AllowExternalRefs bool `yaml:"allow_external_refs"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			DefaultInclude: true,
			Extension:      openapi2mcp.DefaultExtensionName,
		},
		Log:  logging.Config{Level: "info", Format: "console"},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults and applies the environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		v, ok := lookup(name)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("environment variable %s: %w", name, err))
			return
		}
		*dst = b
	}

	boolean(EnvPrefix+"DEFAULT_INCLUDE", &c.Extract.DefaultInclude)
	str(EnvPrefix+"EXTENSION", &c.Extract.Extension)
	boolean(EnvPrefix+"VALIDATE", &c.Load.Validate)
	if v, ok := lookup(EnvPrefix + "TAGS"); ok {
		c.Extract.Tags = SplitList(v)
	}
	str(EnvPrefix+"TOOL_NAME_FORMAT", &c.Extract.ToolNameFormat)
	str(EnvPrefix+"LOG_LEVEL", &c.Log.Level)
	str(EnvPrefix+"LOG_FORMAT", &c.Log.Format)
	str(EnvPrefix+"HTTP_ADDR", &c.HTTP.Addr)
	str("INCLUDE_DESC_REGEX", &c.Extract.IncludeDescRegex)
	str("EXCLUDE_DESC_REGEX", &c.Extract.ExcludeDescRegex)
	return errors.Join(errs...)
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ExtractOptions converts the extraction settings. sink receives the diagnostics of every run.
func (c *Config) ExtractOptions(sink openapi2mcp.DiagnosticSink) (openapi2mcp.Options, error) {
	opts := openapi2mcp.Options{
		DefaultInclude: c.Extract.DefaultInclude,
		ExtensionName:  c.Extract.Extension,
		TagFilter:      c.Extract.Tags,
		Diagnostics:    sink,
	}
	var err error
	if opts.IncludeDescRegex, err = compileOptional(c.Extract.IncludeDescRegex); err != nil {
		return opts, fmt.Errorf("include description regex: %w", err)
	}
	if opts.ExcludeDescRegex, err = compileOptional(c.Extract.ExcludeDescRegex); err != nil {
		return opts, fmt.Errorf("exclude description regex: %w", err)
	}
	if opts.NameFormat, err = openapi2mcp.NameFormatter(c.Extract.ToolNameFormat); err != nil {
		return opts, err
	}
	return opts, nil
}

// LoadOptions converts the loader settings.
func (c *Config) LoadOptions() openapi2mcp.LoadOptions {
	return openapi2mcp.LoadOptions{
		Validate:          c.Load.Validate,
		AllowExternalRefs: c.Load.AllowExternalRefs,
	}
}

func compileOptional(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	return regexp.Compile(expr)
}
