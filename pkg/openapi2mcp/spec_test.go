package openapi2mcp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOpenAPISpec_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstoreYAML), 0o644))

	doc, err := LoadOpenAPISpec(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/pets/{petId}", "/pets"}, doc.OrderedPaths())
}

func TestLoadOpenAPISpec_MissingFile(t *testing.T) {
	_, err := LoadOpenAPISpec(filepath.Join(t.TempDir(), "nope.yaml"), LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSpecLoad))
	assert.True(t, errors.Is(err, os.ErrNotExist), "original cause must be preserved: %v", err)
}

func TestLoadOpenAPISpecFromString_Invalid(t *testing.T) {
	_, err := LoadOpenAPISpecFromString("openapi: [unterminated", LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpecLoad)
}

func TestLoadOpenAPISpecFromString_Validate(t *testing.T) {
	// No info object: parses, but does not validate.
	src := `
openapi: 3.0.3
paths: {}
`
	_, err := LoadOpenAPISpecFromString(src, LoadOptions{})
	require.NoError(t, err)

	_, err = LoadOpenAPISpecFromString(src, LoadOptions{Validate: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpecLoad)
}

func TestLoadOpenAPISpecFromBytes_JSONKeepsOrder(t *testing.T) {
	src := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/z": {"get": {"operationId": "z", "responses": {"200": {"description": "ok"}}}},
    "/a": {"get": {"operationId": "a", "responses": {"200": {"description": "ok"}}}},
    "/m": {"get": {"operationId": "m", "responses": {"200": {"description": "ok"}}}}
  }
}`
	doc, err := LoadOpenAPISpecFromBytes([]byte(src), LoadOptions{Validate: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"/z", "/a", "/m"}, doc.OrderedPaths())
}

func TestDocument_OrderedPathsFallback(t *testing.T) {
	doc := NewDocument(&openapi3.T{Paths: openapi3.NewPaths(
		openapi3.WithPath("/b", &openapi3.PathItem{}),
		openapi3.WithPath("/a", &openapi3.PathItem{}),
	)})
	assert.Equal(t, []string{"/a", "/b"}, doc.OrderedPaths())

	doc.pathOrder = []string{"/b", "/gone"}
	assert.Equal(t, []string{"/b", "/a"}, doc.OrderedPaths())

	var nilDoc *Document
	assert.Nil(t, nilDoc.OrderedPaths())
}

func TestDeclaredPathOrder(t *testing.T) {
	assert.Nil(t, declaredPathOrder([]byte("- a\n- b\n")))
	assert.Nil(t, declaredPathOrder([]byte("openapi: 3.0.0\n")))
	assert.Nil(t, declaredPathOrder([]byte("paths: [1, 2]\n")))
	assert.Equal(t, []string{"/x", "/y"}, declaredPathOrder([]byte("paths:\n  /x: {}\n  /y: {}\n")))
}
