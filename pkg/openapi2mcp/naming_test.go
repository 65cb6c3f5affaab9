package openapi2mcp

import (
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSanitizeToolName(t *testing.T) {
	tests := map[string]string{
		"listPets":         "listPets",
		"pets.list":        "pets_list",
		"get /pets/{id}":   "get__pets__id_",
		"already_ok-name9": "already_ok-name9",
		"héllo":            "h_llo",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeToolName(in), "input %q", in)
	}
}

func TestSynthesizeOperationID(t *testing.T) {
	assert.Equal(t, "get_pets_petId", SynthesizeOperationID("GET", "/pets/{petId}"))
	assert.Equal(t, "post_users", SynthesizeOperationID("post", "/users/"))
	assert.Equal(t, "delete", SynthesizeOperationID("DELETE", "/"))
}

func TestNameRegistry_Claim(t *testing.T) {
	r := newNameRegistry()
	assert.Equal(t, "a", r.claim("a"))
	assert.Equal(t, "a_1", r.claim("a"))
	assert.Equal(t, "a_1_1", r.claim("a_1"))
	assert.Equal(t, "a_2", r.claim("a"))
}

func TestNameFormatter(t *testing.T) {
	f, err := NameFormatter("")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = NameFormatter("kebab")
	assert.Error(t, err)

	cases := []struct{ format, in, want string }{
		{"lower", "ListPets", "listpets"},
		{"upper", "listPets", "LISTPETS"},
		{"snake", "listPetsByID", "list_pets_by_id"},
		{"snake", "list-pets", "list_pets"},
		{"camel", "list_pets_by_id", "listPetsById"},
		{"camel", "ListPets", "listPets"},
		{"camel", "Über_éclair", "überÉclair"},
		{"camel", "ñame", "ñame"},
	}
	for _, c := range cases {
		f, err := NameFormatter(c.format)
		require.NoError(t, err)
		assert.Equal(t, c.want, f(c.in), "%s(%q)", c.format, c.in)
	}
}

func TestToCamelCase_KeepsValidUTF8(t *testing.T) {
	got := toCamelCase("émoji_über_name")
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "émojiÜberName", got)
}

var validToolName = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

func TestNameRegistry_UniqueAndValid_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bases := rapid.SliceOf(rapid.SampledFrom([]string{"a", "a_1", "list.pets", "list_pets", "b c", "x"})).Draw(rt, "bases")
		r := newNameRegistry()
		seen := map[string]bool{}
		for _, b := range bases {
			name := r.claim(SanitizeToolName(b))
			if seen[name] {
				rt.Fatalf("name %q handed out twice", name)
			}
			if !validToolName.MatchString(name) {
				rt.Fatalf("invalid name %q", name)
			}
			seen[name] = true
		}
	})
}
