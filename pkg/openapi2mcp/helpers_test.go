package openapi2mcp

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

func typesPtr(types ...string) *openapi3.Types {
	t := openapi3.Types(types)
	return &t
}

func schemaRef(types ...string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: typesPtr(types...)}}
}

func param(name, in string, required bool, s *openapi3.SchemaRef) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{Value: &openapi3.Parameter{Name: name, In: in, Required: required, Schema: s}}
}

func loadDoc(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := LoadOpenAPISpecFromString(src, LoadOptions{})
	require.NoError(t, err)
	return doc
}

func toolNames(tools []ToolDefinition) []string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names
}

func extractWith(doc *Document, defaultInclude bool) ([]ToolDefinition, *Recorder) {
	rec := &Recorder{}
	opts := DefaultOptions()
	opts.DefaultInclude = defaultInclude
	opts.Diagnostics = rec
	return ExtractTools(doc, opts), rec
}
