package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// P4: registering a document and looking it up by a JSON-Pointer fragment
// resolves to the same sub-value the document itself defines there.
func TestSourceRegistry_LookupByPointer(t *testing.T) {
	sr := NewSourceRegistry()
	registerDefaultDeserializers(sr)

	_, err := sr.Register("https://example.com/doc.json", []byte(`{"a":{"b":42}}`), "json")
	require.NoError(t, err)

	v, err := sr.Lookup("https://example.com/doc.json#/a/b")
	require.NoError(t, err)
	assert.Equal(t, float64(42), v)
}

func TestSourceRegistry_RegisterConflictingValueRejected(t *testing.T) {
	sr := NewSourceRegistry()
	registerDefaultDeserializers(sr)

	_, err := sr.Register("https://example.com/doc.json", []byte(`{"a":1}`), "json")
	require.NoError(t, err)

	_, err = sr.Register("https://example.com/doc.json", []byte(`{"a":2}`), "json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceConflict)
}

func TestSourceRegistry_RegisterSameValueIdempotent(t *testing.T) {
	sr := NewSourceRegistry()
	registerDefaultDeserializers(sr)

	_, err := sr.Register("https://example.com/doc.json", []byte(`{"a":1}`), "json")
	require.NoError(t, err)

	_, err = sr.Register("https://example.com/doc.json", []byte(`{"a":1}`), "json")
	assert.NoError(t, err)
}

func TestSourceRegistry_YAMLDeserializer(t *testing.T) {
	sr := NewSourceRegistry()
	registerDefaultDeserializers(sr)

	_, err := sr.Register("https://example.com/doc.yaml", []byte("a:\n  b: 42\n"), "")
	require.NoError(t, err)

	v, err := sr.Lookup("https://example.com/doc.yaml#/a/b")
	require.NoError(t, err)
	assert.Equal(t, float64(42), v)
}

func TestSourceRegistry_LinkAndLookupChild(t *testing.T) {
	sr := NewSourceRegistry()
	registerDefaultDeserializers(sr)

	_, err := sr.Register("https://example.com/doc.json", []byte(`{"defs":{"x":{"type":"string"}}}`), "json")
	require.NoError(t, err)

	require.NoError(t, sr.Link("https://example.com/doc.json", ParsePointer("/defs/x"), "https://example.com/x.json"))

	v, err := sr.Lookup("https://example.com/x.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "string"}, v)
}
