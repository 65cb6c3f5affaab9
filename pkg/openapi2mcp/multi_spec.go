package openapi2mcp

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// LoadMultipleOpenAPISpecsFromString loads several OpenAPI specs from a single string.
// Specs are separated by YAML document separators (---).
// When only some specs fail, the loaded ones are returned together with an error
// describing the failures; the caller decides whether that is fatal.
func LoadMultipleOpenAPISpecsFromString(data string, opts LoadOptions) ([]*Document, error) {
	return loadMultiple(data, nil, opts)
}

// LoadMultipleOpenAPISpecs reads a file that may hold several specs and loads them all.
// Relative external references resolve against the file's directory.
func LoadMultipleOpenAPISpecs(path string, opts LoadOptions) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrSpecLoad, path, err)
	}
	return loadMultiple(string(data), &url.URL{Path: path}, opts)
}

func loadMultiple(data string, location *url.URL, opts LoadOptions) ([]*Document, error) {
	specs := splitSpecs(data)
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no OpenAPI specs found in input", ErrSpecLoad)
	}

	var (
		docs []*Document
		errs []error
	)
	for i, spec := range specs {
		doc, err := loadSpec([]byte(spec), location, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("spec #%d: %w", i+1, err))
			continue
		}
		docs = append(docs, doc)
	}

	switch {
	case len(errs) == 0:
		return docs, nil
	case len(docs) == 0:
		return nil, fmt.Errorf("all %d specs failed to load: %w", len(specs), errors.Join(errs...))
	default:
		return docs, fmt.Errorf("%d of %d specs failed to load: %w", len(errs), len(specs), errors.Join(errs...))
	}
}

func splitSpecs(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.TrimPrefix(data, "---\n")
	var specs []string
	for _, spec := range strings.Split(data, "\n---\n") {
		if strings.TrimSpace(spec) != "" {
			specs = append(specs, spec)
		}
	}
	return specs
}
