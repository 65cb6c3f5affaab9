// http_extract.go
package openapi2mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxRequestBytes caps the body of /extract and /validate requests.
const maxRequestBytes = 10 << 20

// HTTPExtractServer exposes extraction and self-testing over HTTP.
type HTTPExtractServer struct {
	opts         Options
	loadOpts     LoadOptions
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewHTTPExtractServer creates a server extracting with opts. opts.Diagnostics is ignored;
// each request collects its own diagnostics and also logs them through logger.
// External references are never resolved for specs received over the network,
// whatever loadOpts.AllowExternalRefs says.
func NewHTTPExtractServer(opts Options, loadOpts LoadOptions, logger *zap.Logger) *HTTPExtractServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	loadOpts.AllowExternalRefs = false
	return &HTTPExtractServer{opts: opts, loadOpts: loadOpts, logger: logger, maxBodyBytes: maxRequestBytes}
}

// setCORSAndCacheHeaders sets CORS and caching headers for API responses
func setCORSAndCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "86400")

	// Responses depend on the request body.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// preflight handles CORS and method checks. It returns false when the response is already written.
func preflight(w http.ResponseWriter, r *http.Request, method string) bool {
	setCORSAndCacheHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// extract decodes the request, loads the spec and runs the extractor.
func (s *HTTPExtractServer) extract(w http.ResponseWriter, r *http.Request) ([]ToolDefinition, []Diagnostic, bool) {
	var req HTTPExtractRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %v", err))
		return nil, nil, false
	}
	if req.OpenAPISpec == "" {
		writeError(w, http.StatusBadRequest, "Missing openapi_spec field")
		return nil, nil, false
	}
	doc, err := LoadOpenAPISpecFromString(req.OpenAPISpec, s.loadOpts)
	if err != nil {
		s.logger.Info("rejected OpenAPI spec", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	opts := s.opts
	if req.DefaultInclude != nil {
		opts.DefaultInclude = *req.DefaultInclude
	}
	rec := &Recorder{}
	opts.Diagnostics = rec
	tools := ExtractTools(doc, opts)

	diags := rec.Diagnostics()
	zs := NewZapSink(s.logger)
	for _, d := range diags {
		zs.Report(d)
	}
	if diags == nil {
		diags = []Diagnostic{}
	}
	return tools, diags, true
}

// HandleExtract handles POST requests returning the tools extracted from an OpenAPI spec.
func (s *HTTPExtractServer) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodPost) {
		return
	}
	tools, diags, ok := s.extract(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, HTTPExtractResponse{Tools: tools, Diagnostics: diags})
}

// HandleValidate handles POST requests self-testing the tools of an OpenAPI spec.
func (s *HTTPExtractServer) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodPost) {
		return
	}
	tools, _, ok := s.extract(w, r)
	if !ok {
		return
	}
	result := SelfTest(tools)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// HandleHealth handles GET requests for health checks
func (s *HTTPExtractServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "openapi-tools",
	})
}

// Handler returns the routes of the server.
func (s *HTTPExtractServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/extract", s.HandleExtract)
	mux.HandleFunc("/validate", s.HandleValidate)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if !preflight(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "openapi-tools",
			"endpoints": map[string]string{
				"POST /extract":  "Extract tool definitions from an OpenAPI spec",
				"POST /validate": "Self-test the tools generated from an OpenAPI spec",
				"GET /health":    "Health check endpoint",
			},
			"request_body": map[string]string{
				"openapi_spec":    "OpenAPI spec as YAML or JSON string",
				"default_include": "optional boolean overriding the default inclusion",
			},
		})
	})
	return mux
}

// ServeHTTPExtract serves the extraction API on addr until ctx is cancelled.
func (s *HTTPExtractServer) ServeHTTPExtract(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting OpenAPI extraction HTTP server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
