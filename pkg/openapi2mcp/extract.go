// extract.go
package openapi2mcp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// canonicalMethods is the order operations are visited in within one path item.
var canonicalMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

func operationFor(item *openapi3.PathItem, method string) *openapi3.Operation {
	switch method {
	case http.MethodGet:
		return item.Get
	case http.MethodPut:
		return item.Put
	case http.MethodPost:
		return item.Post
	case http.MethodDelete:
		return item.Delete
	case http.MethodOptions:
		return item.Options
	case http.MethodHead:
		return item.Head
	case http.MethodPatch:
		return item.Patch
	case http.MethodTrace:
		return item.Trace
	}
	return nil
}

// Extractor turns documents into tool definitions. It holds no per-run state
// and may be shared between goroutines.
type Extractor struct {
	opts Options
}

// NewExtractor returns an extractor using opts. An empty ExtensionName selects DefaultExtensionName.
func NewExtractor(opts Options) *Extractor {
	if opts.ExtensionName == "" {
		opts.ExtensionName = DefaultExtensionName
	}
	return &Extractor{opts: opts}
}

// ExtractTools is shorthand for NewExtractor(opts).Extract(doc).
// Example usage for ExtractTools:
//
//	doc, err := openapi2mcp.LoadOpenAPISpec("petstore.yaml", openapi2mcp.LoadOptions{})
//	if err != nil { log.Fatal(err) }
//	tools := openapi2mcp.ExtractTools(doc, openapi2mcp.DefaultOptions())
func ExtractTools(doc *Document, opts Options) []ToolDefinition {
	return NewExtractor(opts).Extract(doc)
}

// extractRun carries the state of a single Extract call.
type extractRun struct {
	*Extractor
	doc    *Document
	sink   DiagnosticSink
	mapper *SchemaMapper
	names  *nameRegistry
}

// Extract walks paths in declaration order and methods in canonical order and returns
// one ToolDefinition per retained operation. Anomalies go to Options.Diagnostics.
func (e *Extractor) Extract(doc *Document) []ToolDefinition {
	if doc == nil || doc.T == nil {
		return nil
	}
	return e.extract(doc, newNameRegistry(), []ToolDefinition{})
}

// ExtractAll extracts every document in order into one list. Tool names are unique across
// the whole list; a name taken by an earlier document is suffixed in a later one.
func (e *Extractor) ExtractAll(docs []*Document) []ToolDefinition {
	names := newNameRegistry()
	tools := []ToolDefinition{}
	for _, doc := range docs {
		if doc == nil || doc.T == nil {
			continue
		}
		tools = e.extract(doc, names, tools)
	}
	return tools
}

func (e *Extractor) extract(doc *Document, names *nameRegistry, tools []ToolDefinition) []ToolDefinition {
	sink := sinkOrNop(e.opts.Diagnostics)
	run := &extractRun{
		Extractor: e,
		doc:       doc,
		sink:      sink,
		mapper:    NewSchemaMapper(sink),
		names:     names,
	}

	for _, path := range doc.OrderedPaths() {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		for _, method := range canonicalMethods {
			op := operationFor(item, method)
			if op == nil {
				continue
			}
			if !run.included(path, method, item, op) || !e.passesFilters(op) {
				continue
			}
			tools = append(tools, run.buildTool(path, method, item, op))
		}
	}
	return tools
}

// included applies the inclusion extension. If any scope's value cannot be inspected,
// the operation is kept only when DefaultInclude is set.
func (r *extractRun) included(path, method string, item *openapi3.PathItem, op *openapi3.Operation) bool {
	ext := r.opts.ExtensionName
	opFlag, opErr := lookupFlag(op.Extensions, ext)
	pathFlag, pathErr := lookupFlag(item.Extensions, ext)
	rootFlag, rootErr := lookupFlag(r.doc.Extensions, ext)
	if err := errors.Join(opErr, pathErr, rootErr); err != nil {
		r.sink.Report(Diagnostic{
			Kind:      DiagnosticFilterFailure,
			Message:   fmt.Sprintf("evaluating %s failed for %s %s, default include=%t applied: %v", ext, method, path, r.opts.DefaultInclude, err),
			Operation: op.OperationID,
			Method:    method,
			Path:      path,
		})
		return r.opts.DefaultInclude
	}
	return ResolveInclusion(opFlag, pathFlag, rootFlag, r.opts.DefaultInclude, func(scope string, f Flag) {
		r.sink.Report(Diagnostic{
			Kind:      DiagnosticMalformedExtension,
			Message:   fmt.Sprintf("ignoring malformed %s value at %s scope: %s", ext, scope, f.rawString()),
			Scope:     scope,
			Operation: op.OperationID,
			Method:    method,
			Path:      path,
			Value:     f.rawString(),
		})
	})
}

// passesFilters applies the tag and description filters.
func (e *Extractor) passesFilters(op *openapi3.Operation) bool {
	if len(e.opts.TagFilter) > 0 && !hasAnyTag(op.Tags, e.opts.TagFilter) {
		return false
	}
	desc := op.Description
	if desc == "" {
		desc = op.Summary
	}
	if e.opts.IncludeDescRegex != nil && !e.opts.IncludeDescRegex.MatchString(desc) {
		return false
	}
	if e.opts.ExcludeDescRegex != nil && e.opts.ExcludeDescRegex.MatchString(desc) {
		return false
	}
	return true
}

func hasAnyTag(tags, want []string) bool {
	for _, tag := range tags {
		for _, w := range want {
			if tag == w {
				return true
			}
		}
	}
	return false
}

func (r *extractRun) buildTool(path, method string, item *openapi3.PathItem, op *openapi3.Operation) ToolDefinition {
	input := newInputSchema()
	params := addParameters(input, MergeParameters(item.Parameters, op.Parameters), r.mapper)
	contentType := ApplyRequestBody(input, op.RequestBody, r.mapper)

	return ToolDefinition{
		Name:                   r.toolName(path, method, op),
		Description:            toolDescription(path, method, op),
		InputSchema:            input,
		Method:                 method,
		PathTemplate:           path,
		Parameters:             params,
		ExecutionParameters:    executionParameters(params),
		RequestBodyContentType: contentType,
		SecurityRequirements:   resolveSecurity(op, r.doc.T),
		OperationID:            op.OperationID,
		Summary:                op.Summary,
		Tags:                   append([]string(nil), op.Tags...),
		Deprecated:             op.Deprecated,
	}
}

func (r *extractRun) toolName(path, method string, op *openapi3.Operation) string {
	base := strings.TrimSpace(op.OperationID)
	if base == "" {
		base = SynthesizeOperationID(method, path)
	}
	if r.opts.NameFormat != nil {
		base = r.opts.NameFormat(base)
	}
	return r.names.claim(SanitizeToolName(base))
}

func toolDescription(path, method string, op *openapi3.Operation) string {
	if op.Description != "" {
		return op.Description
	}
	if op.Summary != "" {
		return op.Summary
	}
	return fmt.Sprintf("Executes %s %s", strings.ToUpper(method), path)
}

// resolveSecurity prefers the operation's own security, including an explicit empty list,
// and falls back to the document's global requirements.
func resolveSecurity(op *openapi3.Operation, doc *openapi3.T) []SecurityRequirement {
	var src openapi3.SecurityRequirements
	if op.Security != nil {
		src = *op.Security
	} else if doc.Security != nil {
		src = doc.Security
	} else {
		return nil
	}
	out := make([]SecurityRequirement, 0, len(src))
	for _, req := range src {
		cp := make(SecurityRequirement, len(req))
		for name, scopes := range req {
			cp[name] = append([]string{}, scopes...)
		}
		out = append(out, cp)
	}
	return out
}
