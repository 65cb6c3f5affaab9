// filter.go
package openapi2mcp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultExtensionName is the vendor extension controlling whether an operation becomes a tool.
const DefaultExtensionName = "x-mcp"

// FlagKind tags the shape of a raw extension value.
type FlagKind int

const (
	FlagAbsent FlagKind = iota
	FlagBoolean
	FlagString
	FlagOther
)

func (k FlagKind) String() string {
	switch k {
	case FlagAbsent:
		return "absent"
	case FlagBoolean:
		return "boolean"
	case FlagString:
		return "string"
	default:
		return "other"
	}
}

// Flag is a raw inclusion extension value at one scope.
type Flag struct {
	Kind  FlagKind
	Bool  bool   // set when Kind == FlagBoolean
	Str   string // set when Kind == FlagString
	Value any    // the original value, for diagnostics
}

// BoolFlag, StringFlag and OtherFlag build flags directly.
func BoolFlag(b bool) Flag       { return Flag{Kind: FlagBoolean, Bool: b, Value: b} }
func StringFlag(s string) Flag   { return Flag{Kind: FlagString, Str: s, Value: s} }
func OtherFlag(v any) Flag       { return Flag{Kind: FlagOther, Value: v} }
func (f Flag) IsPresent() bool   { return f.Kind != FlagAbsent }
func (f Flag) rawString() string { return fmt.Sprintf("%#v", f.Value) }

// ClassifyFlag converts the raw value of an extension into a Flag.
// Older kin-openapi releases keep extension values as undecoded JSON; those are decoded first.
// An error is returned only when the value cannot be inspected at all.
func ClassifyFlag(v any, present bool) (Flag, error) {
	if !present {
		return Flag{Kind: FlagAbsent}, nil
	}
	switch t := v.(type) {
	case bool:
		return BoolFlag(t), nil
	case string:
		return StringFlag(t), nil
	case json.RawMessage:
		return classifyJSON(t)
	case []byte:
		return classifyJSON(t)
	default:
		return OtherFlag(v), nil
	}
}

func classifyJSON(data []byte) (Flag, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Flag{}, fmt.Errorf("undecodable extension value %q: %w", string(data), err)
	}
	return ClassifyFlag(decoded, true)
}

// Normalize reports the boolean meaning of the flag and whether it is well-formed.
func (f Flag) Normalize() (value bool, ok bool) {
	switch f.Kind {
	case FlagBoolean:
		return f.Bool, true
	case FlagString:
		switch strings.ToLower(strings.TrimSpace(f.Str)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
	}
	return false, false
}

// lookupFlag fetches and classifies the extension from an extensions map.
func lookupFlag(ext map[string]any, name string) (Flag, error) {
	v, ok := ext[name]
	return ClassifyFlag(v, ok)
}

// ResolveInclusion decides whether an operation becomes a tool.
// Precedence: operation > path > root > defaultInclude. Malformed values are reported and skipped.
func ResolveInclusion(op, path, root Flag, defaultInclude bool, report func(scope string, f Flag)) bool {
	scopes := [...]struct {
		name string
		flag Flag
	}{{"operation", op}, {"path", path}, {"root", root}}
	for _, s := range scopes {
		if !s.flag.IsPresent() {
			continue
		}
		if v, ok := s.flag.Normalize(); ok {
			return v
		}
		if report != nil {
			report(s.name, s.flag)
		}
	}
	return defaultInclude
}
