package openapi2mcp

// LintIssue represents a single issue found while checking generated tools
type LintIssue struct {
	Type       string `json:"type"`                // "error" or "warning"
	Message    string `json:"message"`             // The main error/warning message
	Suggestion string `json:"suggestion"`          // Actionable suggestion for fixing the issue
	Tool       string `json:"tool,omitempty"`      // Tool name where the issue was found
	Operation  string `json:"operation,omitempty"` // Operation ID where the issue was found
	Path       string `json:"path,omitempty"`      // API path where the issue was found
	Method     string `json:"method,omitempty"`    // HTTP method where the issue was found
	Field      string `json:"field,omitempty"`     // Specific input field where the issue was found
}

// LintResult represents the result of self-testing a set of tools
type LintResult struct {
	Success      bool        `json:"success"`           // Whether the check passed
	ErrorCount   int         `json:"error_count"`       // Number of errors found
	WarningCount int         `json:"warning_count"`     // Number of warnings found
	Issues       []LintIssue `json:"issues"`            // List of all issues found
	Summary      string      `json:"summary,omitempty"` // Summary message
}

// HTTPExtractRequest is the request body of the HTTP extract and validate endpoints
type HTTPExtractRequest struct {
	OpenAPISpec    string `json:"openapi_spec"`              // The OpenAPI spec as a YAML or JSON string
	DefaultInclude *bool  `json:"default_include,omitempty"` // Overrides the server's default inclusion
}

// HTTPExtractResponse is the response body of the HTTP extract endpoint
type HTTPExtractResponse struct {
	Tools       []ToolDefinition `json:"tools"`
	Diagnostics []Diagnostic     `json:"diagnostics"`
}
