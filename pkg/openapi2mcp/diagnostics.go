// diagnostics.go
package openapi2mcp

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DiagnosticKind classifies a non-fatal anomaly found during extraction.
type DiagnosticKind string

const (
	DiagnosticMalformedExtension DiagnosticKind = "malformed_extension"
	DiagnosticFilterFailure      DiagnosticKind = "filter_failure"
	DiagnosticUnresolvedRef      DiagnosticKind = "unresolved_ref"
	DiagnosticSchemaCycle        DiagnosticKind = "schema_cycle"
)

// Diagnostic is a single non-fatal report. Only the fields relevant to Kind are set.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Message   string         `json:"message"`
	Scope     string         `json:"scope,omitempty"`     // "operation", "path" or "root"
	Operation string         `json:"operation,omitempty"` // operationId when known
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	Ref       string         `json:"ref,omitempty"`
	Value     string         `json:"value,omitempty"` // raw offending value, formatted with %#v
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

// DiagnosticSink receives diagnostics. Implementations must be safe for use by a single extraction run;
// Recorder and ZapSink are also safe for concurrent use.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// NopSink discards every diagnostic.
type NopSink struct{}

func (NopSink) Report(Diagnostic) {}

// Recorder keeps every reported diagnostic in memory.
type Recorder struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	r.diags = append(r.diags, d)
	r.mu.Unlock()
}

// Diagnostics returns a copy of the recorded diagnostics in report order.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// OfKind returns the recorded diagnostics of the given kind.
func (r *Recorder) OfKind(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// ZapSink writes diagnostics as structured warnings.
type ZapSink struct {
	Logger *zap.Logger
}

// NewZapSink returns a sink logging to l. A nil logger yields a no-op logger.
func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{Logger: l}
}

func (s *ZapSink) Report(d Diagnostic) {
	fields := []zap.Field{zap.String("kind", string(d.Kind))}
	if d.Scope != "" {
		fields = append(fields, zap.String("scope", d.Scope))
	}
	if d.Operation != "" {
		fields = append(fields, zap.String("operation", d.Operation))
	}
	if d.Method != "" {
		fields = append(fields, zap.String("method", d.Method))
	}
	if d.Path != "" {
		fields = append(fields, zap.String("path", d.Path))
	}
	if d.Ref != "" {
		fields = append(fields, zap.String("ref", d.Ref))
	}
	if d.Value != "" {
		fields = append(fields, zap.String("value", d.Value))
	}
	s.Logger.Warn(d.Message, fields...)
}

func sinkOrNop(s DiagnosticSink) DiagnosticSink {
	if s == nil {
		return NopSink{}
	}
	return s
}
