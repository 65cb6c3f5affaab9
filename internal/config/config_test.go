package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Extract.DefaultInclude)
	assert.Equal(t, "x-mcp", cfg.Extract.Extension)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
extract:
  default_include: false
  extension: x-tool
  tags: [pets]
load:
  validate: true
log:
  level: debug
`), 0o644))

	t.Setenv("OPENAPI_TOOLS_EXTENSION", "x-agent")
	t.Setenv("OPENAPI_TOOLS_TAGS", "users, ,admin")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Extract.DefaultInclude)
	assert.Equal(t, "x-agent", cfg.Extract.Extension)
	assert.Equal(t, []string{"users", "admin"}, cfg.Extract.Tags)
	assert.True(t, cfg.Load.Validate)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extract: [\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"OPENAPI_TOOLS_DEFAULT_INCLUDE":  "false",
		"OPENAPI_TOOLS_VALIDATE":         "1",
		"OPENAPI_TOOLS_TOOL_NAME_FORMAT": "snake",
		"OPENAPI_TOOLS_HTTP_ADDR":        "127.0.0.1:9000",
		"INCLUDE_DESC_REGEX":             "pet",
		"EXCLUDE_DESC_REGEX":             "internal",
	}))
	require.NoError(t, err)
	assert.False(t, cfg.Extract.DefaultInclude)
	assert.True(t, cfg.Load.Validate)
	assert.Equal(t, "snake", cfg.Extract.ToolNameFormat)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, "pet", cfg.Extract.IncludeDescRegex)
	assert.Equal(t, "internal", cfg.Extract.ExcludeDescRegex)

	err = Default().applyEnv(mapLookup(map[string]string{"OPENAPI_TOOLS_DEFAULT_INCLUDE": "sometimes"}))
	assert.ErrorContains(t, err, "OPENAPI_TOOLS_DEFAULT_INCLUDE")
}

func TestExtractOptions(t *testing.T) {
	cfg := Default()
	cfg.Extract.IncludeDescRegex = "(?i)pets"
	cfg.Extract.ToolNameFormat = "upper"
	opts, err := cfg.ExtractOptions(nil)
	require.NoError(t, err)
	assert.True(t, opts.DefaultInclude)
	require.NotNil(t, opts.IncludeDescRegex)
	assert.True(t, opts.IncludeDescRegex.MatchString("List PETS"))
	assert.Nil(t, opts.ExcludeDescRegex)
	require.NotNil(t, opts.NameFormat)
	assert.Equal(t, "LISTPETS", opts.NameFormat("listPets"))

	cfg.Extract.ExcludeDescRegex = "("
	_, err = cfg.ExtractOptions(nil)
	assert.ErrorContains(t, err, "exclude description regex")

	cfg.Extract.ExcludeDescRegex = ""
	cfg.Extract.ToolNameFormat = "shouting"
	_, err = cfg.ExtractOptions(nil)
	assert.Error(t, err)
}

func TestLoadOptions(t *testing.T) {
	cfg := Default()
	cfg.Load.AllowExternalRefs = true
	lo := cfg.LoadOptions()
	assert.False(t, lo.Validate)
	assert.True(t, lo.AllowExternalRefs)
}
