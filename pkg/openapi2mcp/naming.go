// naming.go
package openapi2mcp

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeToolName replaces every character outside [A-Za-z0-9_-] with an underscore.
func SanitizeToolName(name string) string {
	return invalidNameChars.ReplaceAllString(name, "_")
}

// SynthesizeOperationID derives an identifier for operations without an operationId,
// e.g. GET /pets/{petId} becomes get_pets_petId.
func SynthesizeOperationID(method, path string) string {
	parts := []string{strings.ToLower(method)}
	strip := strings.NewReplacer("{", "", "}", "")
	for _, seg := range strings.Split(path, "/") {
		seg = strip.Replace(seg)
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "_")
}

// nameRegistry hands out names unique within one extraction run.
type nameRegistry struct {
	used map[string]struct{}
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{used: map[string]struct{}{}}
}

// claim returns base, or base_N with the smallest N >= 1 that is still free.
func (r *nameRegistry) claim(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, taken := r.used[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
	r.used[name] = struct{}{}
	return name
}

// FormatToolName applies one of the supported name formats: lower, upper, snake, camel.
// Unknown formats leave the name unchanged.
func FormatToolName(format, name string) string {
	switch format {
	case "lower":
		return strings.ToLower(name)
	case "upper":
		return strings.ToUpper(name)
	case "snake":
		return toSnakeCase(name)
	case "camel":
		return toCamelCase(name)
	default:
		return name
	}
}

// NameFormatter returns the formatter for format, nil for "" and an error for unknown formats.
func NameFormatter(format string) (func(string) string, error) {
	switch format {
	case "":
		return nil, nil
	case "lower", "upper", "snake", "camel":
		return func(name string) string { return FormatToolName(format, name) }, nil
	default:
		return nil, fmt.Errorf("unknown tool name format %q (want lower, upper, snake or camel)", format)
	}
}

// toSnakeCase converts a string to snake_case.
func toSnakeCase(s string) string {
	var out []rune
	prevLower := false
	for _, r := range s {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper && prevLower {
			out = append(out, '_')
		}
		if r == '-' || r == ' ' {
			r = '_'
		}
		out = append(out, r)
		prevLower = (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
	}
	return strings.ToLower(string(out))
}

// toCamelCase converts a string to camelCase.
func toCamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(parts) == 0 {
		return s
	}
	out := mapFirstRune(parts[0], unicode.ToLower)
	for _, p := range parts[1:] {
		out += mapFirstRune(p, unicode.ToUpper)
	}
	return out
}

func mapFirstRune(s string, f func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(f(r)) + s[size:]
}
