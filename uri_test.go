package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// P1: parsing a Uri's String() output back reproduces an equal Uri.
func TestURI_ParseStringRoundTrip(t *testing.T) {
	cases := []string{
		"https://example.com/a/b?q=1#/c/d",
		"https://user@example.com:8080/path",
		"urn:example:a123,z456",
		"relative/path#frag",
		"#just-a-fragment",
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			u, err := ParseURI(raw)
			require.NoError(t, err)
			again, err := ParseURI(u.String())
			require.NoError(t, err)
			assert.Equal(t, u, again)
		})
	}
}

// P2: resolving a reference against a base, then resolving that result
// again against itself as a base, is idempotent (already absolute).
func TestURI_ResolveReferenceIdempotent(t *testing.T) {
	base, err := ParseURI("https://example.com/a/b.json")
	require.NoError(t, err)

	resolved, err := ResolveReference(base, "c.json#/x")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a/c.json#/x", resolved.String())

	again, err := ResolveReference(resolved, resolved.String())
	require.NoError(t, err)
	assert.Equal(t, resolved.String(), again.String())
}

func TestURI_ResolveReferenceAbsoluteReferenceWins(t *testing.T) {
	base, err := ParseURI("https://example.com/a/b.json")
	require.NoError(t, err)

	resolved, err := ResolveReference(base, "https://other.example/z.json")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/z.json", resolved.String())
}

// P3: a fragment is pointer-shaped iff it is empty or begins with '/'.
func TestURI_IsPointerFragment(t *testing.T) {
	cases := []struct {
		uri     string
		pointer bool
	}{
		{"https://example.com/a#", true},
		{"https://example.com/a#/b/c", true},
		{"https://example.com/a#anchorName", false},
		{"https://example.com/a", false},
	}
	for _, c := range cases {
		t.Run(c.uri, func(t *testing.T) {
			u, err := ParseURI(c.uri)
			require.NoError(t, err)
			assert.Equal(t, c.pointer, u.IsPointerFragment())
		})
	}
}

func TestURI_IsAnchorFragment(t *testing.T) {
	u, err := ParseURI("https://example.com/a#valid-Anchor.1")
	require.NoError(t, err)
	assert.True(t, u.IsAnchorFragment())

	u, err = ParseURI("https://example.com/a#/not/an/anchor")
	require.NoError(t, err)
	assert.False(t, u.IsAnchorFragment())
}
