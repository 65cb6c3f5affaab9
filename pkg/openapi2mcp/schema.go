// schema.go
package openapi2mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/jsonschema-go/jsonschema"
)

// SchemaMapper converts OpenAPI schema objects into JSON Schema.
// It tracks the schemas on the current recursion path by pointer identity so that
// self-referencing schemas terminate. A mapper is not safe for concurrent use.
type SchemaMapper struct {
	sink     DiagnosticSink
	visiting map[*openapi3.Schema]struct{}
}

// NewSchemaMapper returns a mapper reporting anomalies to sink (nil discards them).
func NewSchemaMapper(sink DiagnosticSink) *SchemaMapper {
	return &SchemaMapper{
		sink:     sinkOrNop(sink),
		visiting: map[*openapi3.Schema]struct{}{},
	}
}

// MapSchema is a convenience wrapper mapping a single schema with a fresh mapper.
func MapSchema(ref *openapi3.SchemaRef, sink DiagnosticSink) *jsonschema.Schema {
	return NewSchemaMapper(sink).Map(ref)
}

func genericObject() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

// boolSchema returns the JSON Schema equivalent of the boolean schemas true and false.
func boolSchema(b bool) *jsonschema.Schema {
	if b {
		return &jsonschema.Schema{}
	}
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}

// Map converts ref. It returns nil for a nil ref or a ref with neither value nor reference.
// The input is never modified.
func (m *SchemaMapper) Map(ref *openapi3.SchemaRef) *jsonschema.Schema {
	if ref == nil {
		return nil
	}
	if ref.Value == nil {
		if ref.Ref == "" {
			return nil
		}
		m.sink.Report(Diagnostic{
			Kind:    DiagnosticUnresolvedRef,
			Message: fmt.Sprintf("unresolved schema reference %q replaced by a generic object", ref.Ref),
			Ref:     ref.Ref,
		})
		return genericObject()
	}

	val := ref.Value
	if _, ok := m.visiting[val]; ok {
		m.sink.Report(Diagnostic{
			Kind:    DiagnosticSchemaCycle,
			Message: fmt.Sprintf("recursive schema %s cut and replaced by a generic object", schemaLabel(ref)),
			Ref:     ref.Ref,
		})
		return genericObject()
	}
	m.visiting[val] = struct{}{}
	defer delete(m.visiting, val)

	out := copySchemaFields(val)
	out.Type, out.Types = convertTypes(typeList(val), val.Nullable)

	if len(val.Properties) > 0 {
		out.Properties = make(map[string]*jsonschema.Schema, len(val.Properties))
		for name, sub := range val.Properties {
			if mapped := m.Map(sub); mapped != nil {
				out.Properties[name] = mapped
			}
		}
	}
	if val.Items != nil {
		out.Items = m.Map(val.Items)
	}
	out.AdditionalProperties = m.mapAdditional(val.AdditionalProperties)
	out.AllOf = m.mapList(val.AllOf)
	out.OneOf = m.mapList(val.OneOf)
	out.AnyOf = m.mapList(val.AnyOf)
	if val.Not != nil {
		out.Not = m.Map(val.Not)
	}
	return out
}

// mapAdditional handles additionalProperties, the one place kin-openapi exposes boolean schemas.
func (m *SchemaMapper) mapAdditional(ap openapi3.AdditionalProperties) *jsonschema.Schema {
	if ap.Schema != nil {
		return m.Map(ap.Schema)
	}
	if ap.Has != nil {
		return boolSchema(*ap.Has)
	}
	return nil
}

func (m *SchemaMapper) mapList(refs openapi3.SchemaRefs) []*jsonschema.Schema {
	if len(refs) == 0 {
		return nil
	}
	out := make([]*jsonschema.Schema, 0, len(refs))
	for _, r := range refs {
		if mapped := m.Map(r); mapped != nil {
			out = append(out, mapped)
		}
	}
	return out
}

func schemaLabel(ref *openapi3.SchemaRef) string {
	if ref.Ref != "" {
		return fmt.Sprintf("%q", ref.Ref)
	}
	if ref.Value != nil && ref.Value.Title != "" {
		return fmt.Sprintf("%q", ref.Value.Title)
	}
	return "(inline)"
}

func typeList(val *openapi3.Schema) []string {
	if val.Type == nil {
		return nil
	}
	return append([]string(nil), (*val.Type)...)
}

// convertTypes rewrites integer to number and folds nullable into the type.
// A single type is returned as the first value, a union as the second.
func convertTypes(types []string, nullable bool) (string, []string) {
	var out []string
	seen := map[string]bool{}
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range types {
		if t == "integer" {
			t = "number"
		}
		add(t)
	}
	if nullable {
		add("null")
	}
	switch len(out) {
	case 0:
		return "", nil
	case 1:
		return out[0], nil
	default:
		return "", out
	}
}

// copySchemaFields copies every keyword with a JSON Schema counterpart.
// nullable, example, xml, externalDocs, deprecated, readOnly and writeOnly are dropped.
func copySchemaFields(val *openapi3.Schema) *jsonschema.Schema {
	out := &jsonschema.Schema{
		Title:       val.Title,
		Description: val.Description,
		Format:      val.Format,
		Pattern:     val.Pattern,
		UniqueItems: val.UniqueItems,
		MultipleOf:  val.MultipleOf,
	}
	if len(val.Enum) > 0 {
		out.Enum = append([]any(nil), val.Enum...)
	}
	if val.Default != nil {
		if raw, err := json.Marshal(val.Default); err == nil {
			out.Default = raw
		}
	}
	if len(val.Required) > 0 {
		out.Required = append([]string(nil), val.Required...)
	}

	// OpenAPI 3.0 expresses exclusivity as a flag on the bound itself.
	if val.Min != nil {
		if val.ExclusiveMin {
			out.ExclusiveMinimum = floatPtr(*val.Min)
		} else {
			out.Minimum = floatPtr(*val.Min)
		}
	}
	if val.Max != nil {
		if val.ExclusiveMax {
			out.ExclusiveMaximum = floatPtr(*val.Max)
		} else {
			out.Maximum = floatPtr(*val.Max)
		}
	}
	if val.MinLength > 0 {
		out.MinLength = intPtr(val.MinLength)
	}
	if val.MaxLength != nil {
		out.MaxLength = intPtr(*val.MaxLength)
	}
	if val.MinItems > 0 {
		out.MinItems = intPtr(val.MinItems)
	}
	if val.MaxItems != nil {
		out.MaxItems = intPtr(*val.MaxItems)
	}
	if val.MinProps > 0 {
		out.MinProperties = intPtr(val.MinProps)
	}
	if val.MaxProps != nil {
		out.MaxProperties = intPtr(*val.MaxProps)
	}

	extra := map[string]any{}
	if val.Discriminator != nil && val.Discriminator.PropertyName != "" {
		disc := map[string]any{"propertyName": val.Discriminator.PropertyName}
		if len(val.Discriminator.Mapping) > 0 {
			mapping := map[string]string{}
			for k, v := range val.Discriminator.Mapping {
				mapping[k] = v
			}
			disc["mapping"] = mapping
		}
		extra["discriminator"] = disc
	}
	for k, v := range val.Extensions {
		if strings.HasPrefix(k, "x-") {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		out.Extra = extra
	}
	return out
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(u uint64) *int {
	i := int(u)
	return &i
}
