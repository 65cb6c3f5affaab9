// body.go
package openapi2mcp

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/jsonschema-go/jsonschema"
)

const (
	jsonContentType        = "application/json"
	requestBodyProperty    = "requestBody"
	defaultBodyDescription = "The JSON request body."
)

// ApplyRequestBody adds the synthetic requestBody property to input and returns the
// content type the body will be sent with, or "" when the operation has no usable body.
// JSON bodies are mapped; any other content type becomes an opaque string.
func ApplyRequestBody(input *jsonschema.Schema, body *openapi3.RequestBodyRef, mapper *SchemaMapper) string {
	if body == nil {
		return ""
	}
	if body.Value == nil {
		if body.Ref != "" {
			mapper.sink.Report(Diagnostic{
				Kind:    DiagnosticUnresolvedRef,
				Message: fmt.Sprintf("unresolved request body reference %q ignored", body.Ref),
				Ref:     body.Ref,
			})
		}
		return ""
	}
	rb := body.Value

	var contentType string
	if mt := rb.Content.Get(jsonContentType); mt != nil && mt.Schema != nil {
		prop := mapper.Map(mt.Schema)
		if prop == nil {
			prop = genericObject()
		}
		if prop.Description == "" {
			prop.Description = rb.Description
		}
		if prop.Description == "" {
			prop.Description = defaultBodyDescription
		}
		input.Properties[requestBodyProperty] = prop
		contentType = jsonContentType
	} else if ct := firstContentType(rb.Content); ct != "" {
		input.Properties[requestBodyProperty] = &jsonschema.Schema{
			Type:        "string",
			Description: fmt.Sprintf("Request body (content type: %s)", ct),
		}
		contentType = ct
	}

	if contentType != "" && rb.Required {
		addRequired(input, requestBodyProperty)
	}
	return contentType
}

// firstContentType picks a deterministic content type; kin-openapi does not keep declaration order.
func firstContentType(content openapi3.Content) string {
	if len(content) == 0 {
		return ""
	}
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types[0]
}
