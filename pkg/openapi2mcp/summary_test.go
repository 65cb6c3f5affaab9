package openapi2mcp

import (
	"bytes"
	"testing"
)

func TestWriteToolSummary(t *testing.T) {
	tools, _ := extractWith(loadDoc(t, petstoreYAML), true)
	var buf bytes.Buffer
	WriteToolSummary(&buf, tools)

	want := "Total tools: 4\n" +
		"Tags:\n  admin: 1\n  pets: 3\n" +
		"Methods:\n  DELETE: 1\n  GET: 2\n  POST: 1\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected summary:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteToolSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteToolSummary(&buf, nil)
	if got := buf.String(); got != "Total tools: 0\n" {
		t.Fatalf("unexpected summary for no tools: %q", got)
	}
}
