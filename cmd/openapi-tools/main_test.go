package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpec = `openapi: 3.0.3
info:
  title: Petstore
  version: "1.0"
paths:
  /pets:
    get:
      operationId: listPets
      summary: List all pets
      tags: [pets]
      parameters:
        - name: limit
          in: query
          description: How many items to return
          schema:
            type: integer
      responses:
        "200":
          description: ok
    post:
      operationId: createPet
      description: Creates a pet
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
      responses:
        "201":
          description: created
  /internal/debug:
    x-mcp: false
    get:
      operationId: debugDump
      responses:
        "200":
          description: ok
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command with args and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExtractCommand(t *testing.T) {
	spec := writeSpec(t, testSpec)
	out, _, err := run(t, "extract", spec)
	require.NoError(t, err)

	var tools []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tools))
	require.Len(t, tools, 2)
	assert.Equal(t, "listPets", tools[0]["name"])
	assert.Equal(t, "createPet", tools[1]["name"])
}

func TestExtractCommand_FlagsOverrideConfig(t *testing.T) {
	spec := writeSpec(t, testSpec)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("extract:\n  default_include: false\n"), 0o644))

	out, _, err := run(t, "--config", cfgPath, "extract", spec)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	out, _, err = run(t, "--config", cfgPath, "--default-include", "--tool-name-format", "snake", "extract", spec)
	require.NoError(t, err)
	var tools []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tools))
	require.Len(t, tools, 2)
	assert.Equal(t, "list_pets", tools[0]["name"])
}

func TestExtractCommand_MCPFormatToFile(t *testing.T) {
	spec := writeSpec(t, testSpec)
	dest := filepath.Join(t.TempDir(), "tools.json")
	out, _, err := run(t, "extract", "--format", "mcp", "--pretty", "-o", dest, spec)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")
	var tools []map[string]any
	require.NoError(t, json.Unmarshal(data, &tools))
	require.Len(t, tools, 2)
	assert.Equal(t, "createPet", tools[1]["name"])
	assert.Contains(t, tools[1], "inputSchema")
	assert.Contains(t, tools[1], "annotations")
}

func TestExtractCommand_Errors(t *testing.T) {
	_, _, err := run(t, "extract", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, openapi2mcp.ErrSpecLoad)

	spec := writeSpec(t, testSpec)
	_, _, err = run(t, "extract", "--format", "yaml", spec)
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = run(t, "--include-desc-regex", "(", "extract", spec)
	assert.ErrorContains(t, err, "include description regex")

	_, _, err = run(t, "extract")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	spec := writeSpec(t, testSpec)
	out, _, err := run(t, "validate", spec)
	require.NoError(t, err)
	assert.Contains(t, out, "2 tools checked: 0 errors")

	out, _, err = run(t, "validate", "--json", spec)
	require.NoError(t, err)
	var res openapi2mcp.LintResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
}

func TestSummaryCommand(t *testing.T) {
	spec := writeSpec(t, testSpec)
	out, _, err := run(t, "--tag", "pets", "summary", spec)
	require.NoError(t, err)
	assert.Equal(t, "Total tools: 2\nTags:\n  pets: 2\nMethods:\n  GET: 1\n  POST: 1\n", out)
}

func TestDocCommand(t *testing.T) {
	spec := writeSpec(t, testSpec)
	out, _, err := run(t, "doc", spec)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# MCP Tools Documentation\n\n**API Title:** Petstore"))
	assert.Contains(t, out, "## listPets\n\n`GET /pets`")
	assert.Contains(t, out, "| limit | query | number |  | How many items to return |")
	assert.Contains(t, out, "| requestBody | body | object | yes | The JSON request body. |")
	assert.Contains(t, out, "call createPet {\n  \"requestBody\": {\n    \"name\": \"example\"\n  }\n}")
	assert.NotContains(t, out, "debugDump")
}

func TestRunExploreCommand(t *testing.T) {
	doc, err := openapi2mcp.LoadOpenAPISpecFromString(testSpec, openapi2mcp.LoadOptions{})
	require.NoError(t, err)
	tools := openapi2mcp.ExtractTools(doc, openapi2mcp.DefaultOptions())

	var buf bytes.Buffer
	assert.False(t, runExploreCommand(&buf, tools, "list"))
	assert.Contains(t, buf.String(), "listPets")
	assert.Contains(t, buf.String(), "/pets")

	buf.Reset()
	assert.False(t, runExploreCommand(&buf, tools, "schema listPets"))
	var schema map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
	assert.Equal(t, "object", schema["type"])

	buf.Reset()
	runExploreCommand(&buf, tools, "params createPet")
	assert.Equal(t, "requestBody\tbody (application/json)\n", buf.String())

	buf.Reset()
	runExploreCommand(&buf, tools, "show nope")
	assert.Contains(t, buf.String(), `no tool named "nope"`)

	buf.Reset()
	runExploreCommand(&buf, tools, "frobnicate")
	assert.Contains(t, buf.String(), "Unknown command")

	assert.False(t, runExploreCommand(&buf, tools, "   "))
	assert.True(t, runExploreCommand(&buf, tools, "quit"))
	assert.True(t, runExploreCommand(&buf, tools, "exit"))
}
