// spec.go
package openapi2mcp

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// ErrSpecLoad wraps every failure to read, parse or validate an OpenAPI document.
var ErrSpecLoad = errors.New("failed to load OpenAPI spec")

// Document is a parsed OpenAPI document together with the order its paths were declared in.
type Document struct {
	*openapi3.T
	pathOrder []string
}

// NewDocument wraps an in-memory document. Without source bytes the declaration order
// is unknown and paths are visited in lexical order.
func NewDocument(t *openapi3.T) *Document {
	return &Document{T: t}
}

// OrderedPaths returns the document's paths in declaration order.
// Paths missing from the recorded order are appended in lexical order.
func (d *Document) OrderedPaths() []string {
	if d == nil || d.T == nil || d.Paths == nil {
		return nil
	}
	all := d.Paths.Map()
	out := make([]string, 0, len(all))
	seen := make(map[string]bool, len(all))
	for _, p := range d.pathOrder {
		if _, ok := all[p]; ok && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	var rest []string
	for p := range all {
		if !seen[p] {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// LoadOptions controls document loading.
//
// Validate: run kin-openapi's structural validation after parsing
// AllowExternalRefs: resolve $ref pointing outside the document (files, URLs)
type LoadOptions struct {
	Validate          bool
	AllowExternalRefs bool
}

// LoadOpenAPISpec loads and parses an OpenAPI YAML or JSON file from the given path.
// Example usage for LoadOpenAPISpec:
//
//	doc, err := openapi2mcp.LoadOpenAPISpec("petstore.yaml", openapi2mcp.LoadOptions{})
//	if err != nil { log.Fatal(err) }
//	tools := openapi2mcp.ExtractTools(doc, openapi2mcp.DefaultOptions())
func LoadOpenAPISpec(path string, opts LoadOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrSpecLoad, path, err)
	}
	return loadSpec(data, &url.URL{Path: path}, opts)
}

// LoadOpenAPISpecFromString loads and parses an OpenAPI YAML or JSON spec from a string.
func LoadOpenAPISpecFromString(data string, opts LoadOptions) (*Document, error) {
	return LoadOpenAPISpecFromBytes([]byte(data), opts)
}

// LoadOpenAPISpecFromBytes loads and parses an OpenAPI YAML or JSON spec from a byte slice.
func LoadOpenAPISpecFromBytes(data []byte, opts LoadOptions) (*Document, error) {
	return loadSpec(data, nil, opts)
}

func loadSpec(data []byte, location *url.URL, opts LoadOptions) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = opts.AllowExternalRefs

	var (
		t   *openapi3.T
		err error
	)
	if location != nil {
		t, err = loader.LoadFromDataWithPath(data, location)
	} else {
		t, err = loader.LoadFromData(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpecLoad, err)
	}
	if opts.Validate {
		if err := t.Validate(loader.Context); err != nil {
			return nil, fmt.Errorf("%w: validation: %w", ErrSpecLoad, err)
		}
	}
	return &Document{T: t, pathOrder: declaredPathOrder(data)}, nil
}

// declaredPathOrder reads the keys of the top-level paths object in source order.
// JSON input parses as YAML, so both formats work. Any parse problem yields nil.
func declaredPathOrder(data []byte) []string {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "paths" {
			continue
		}
		paths := top.Content[i+1]
		if paths.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(paths.Content)/2)
		for j := 0; j+1 < len(paths.Content); j += 2 {
			order = append(order, paths.Content[j].Value)
		}
		return order
	}
	return nil
}
