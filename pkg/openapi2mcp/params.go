// params.go
package openapi2mcp

import (
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/jsonschema-go/jsonschema"
)

// MergeParameters combines path-level and operation-level parameters.
// Path-level parameters come first in declared order; an operation-level parameter
// replaces the path-level one with the same name in place, otherwise it is appended.
// Refs without a resolved value are dropped.
func MergeParameters(pathParams, opParams openapi3.Parameters) openapi3.Parameters {
	merged := make(openapi3.Parameters, 0, len(pathParams)+len(opParams))
	index := map[string]int{}
	put := func(ref *openapi3.ParameterRef) {
		if ref == nil || ref.Value == nil {
			return
		}
		name := ref.Value.Name
		if i, ok := index[name]; ok {
			merged[i] = ref
			return
		}
		index[name] = len(merged)
		merged = append(merged, ref)
	}
	for _, p := range pathParams {
		put(p)
	}
	for _, p := range opParams {
		put(p)
	}
	return merged
}

// addParameters adds one input property per parameter with both a name and a schema,
// and returns the full parameter list as ParameterSpecs.
func addParameters(input *jsonschema.Schema, params openapi3.Parameters, mapper *SchemaMapper) []ParameterSpec {
	specs := make([]ParameterSpec, 0, len(params))
	for _, ref := range params {
		if ref == nil || ref.Value == nil {
			continue
		}
		p := ref.Value
		spec := ParameterSpec{
			Name:        p.Name,
			In:          p.In,
			Required:    p.Required,
			Description: p.Description,
		}
		if p.Name != "" && p.Schema != nil {
			if prop := mapper.Map(p.Schema); prop != nil {
				if p.Description != "" {
					prop.Description = p.Description
				}
				spec.Schema = prop
				input.Properties[p.Name] = prop
				if p.Required {
					addRequired(input, p.Name)
				}
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

func addRequired(s *jsonschema.Schema, name string) {
	for _, r := range s.Required {
		if r == name {
			return
		}
	}
	s.Required = append(s.Required, name)
}

func executionParameters(specs []ParameterSpec) []ExecutionParameter {
	out := make([]ExecutionParameter, 0, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			continue
		}
		out = append(out, ExecutionParameter{Name: s.Name, In: s.In})
	}
	return out
}
