package jsonfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject_PreservesKeyOrder(t *testing.T) {
	doc, err := ParseObject([]byte(`{"zeta": 1, "alpha": {"y": 2, "b": 3}, "mid": "x"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Keys())

	doc.SetString("added", "v")
	out, err := Marshal(doc)
	require.NoError(t, err)

	expected := `{
  "zeta": 1,
  "alpha": {
    "y": 2,
    "b": 3
  },
  "mid": "x",
  "added": "v"
}
`
	assert.Equal(t, expected, string(out))
}

func TestParseObject_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"a": }`},
		{"array", `[1, 2]`},
		{"string", `"text"`},
		{"empty", ``},
		{"comments are not strict JSON", `{"a": 1 // c
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseObject([]byte(tt.input))
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "error should be a *ParseError")
		})
	}
}

func TestParseObjectWithComments(t *testing.T) {
	doc, err := ParseObjectWithComments([]byte(`{
  // comment
  "nodeModulesDir": "auto" /* c */
}`))
	require.NoError(t, err)

	value, ok := doc.String("nodeModulesDir")
	require.True(t, ok)
	assert.Equal(t, "auto", value)
}

// TestParseObjectWithComments_TrailingComma verifies the jsonc fallback for
// trailing commas, which the strict stripper leaves in place.
func TestParseObjectWithComments_TrailingComma(t *testing.T) {
	doc, err := ParseObjectWithComments([]byte(`{
  "imports": {
    "svelte": "npm:svelte@^5.0.0",
  },
}`))
	require.NoError(t, err)

	imports, ok := doc.Object("imports")
	require.True(t, ok)
	value, ok := imports.String("svelte")
	require.True(t, ok)
	assert.Equal(t, "npm:svelte@^5.0.0", value)
}

func TestParseObjectWithComments_Malformed(t *testing.T) {
	_, err := ParseObjectWithComments([]byte(`{"imports": // nothing
}`))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestDocument_EnsureObject(t *testing.T) {
	doc, err := ParseObject([]byte(`{"imports": {"a": "1"}, "deps": "oops"}`))
	require.NoError(t, err)

	imports, created := doc.EnsureObject("imports")
	assert.False(t, created)
	assert.True(t, imports.Has("a"))

	deps, created := doc.EnsureObject("deps")
	assert.True(t, created, "a non-object value is replaced")
	assert.Equal(t, 0, deps.Len())

	missing, created := doc.EnsureObject("missing")
	assert.True(t, created)
	missing.SetString("k", "v")
	doc.SetObject("missing", missing)

	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{
  "imports": {
    "a": "1"
  },
  "deps": {},
  "missing": {
    "k": "v"
  }
}
`, string(out))
}

func TestDocument_String(t *testing.T) {
	doc, err := ParseObject([]byte(`{"s": "text", "n": 3}`))
	require.NoError(t, err)

	s, ok := doc.String("s")
	assert.True(t, ok)
	assert.Equal(t, "text", s)

	_, ok = doc.String("n")
	assert.False(t, ok, "numbers are not strings")

	_, ok = doc.String("absent")
	assert.False(t, ok)
}

func TestMarshal_EmptyDocument(t *testing.T) {
	out, err := Marshal(NewDocument())
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	doc, err := ParseObject([]byte(`{"tasks": {"build": "a && b > out.txt"}, "n": [1, 2]}`))
	require.NoError(t, err)
	doc.SetString("cmd", "x < y & z")

	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{
  "tasks": {
    "build": "a && b > out.txt"
  },
  "n": [
    1,
    2
  ],
  "cmd": "x < y & z"
}
`, string(out))
}
