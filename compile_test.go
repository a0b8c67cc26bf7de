package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRegisterJSON(t *testing.T, r *Registry, uri string, doc map[string]any) {
	t.Helper()
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, r.RegisterDocument(uri, b, "json"))
}

// P5: compiling the same document twice returns the same key, and keys
// stay unique per canonical URI.
func TestCompile_KeyStability(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/a.json", map[string]any{
		"$schema": draft2020ID,
		"type":    "string",
	})

	keys1, err := r.Compile("https://example.com/a.json")
	require.NoError(t, err)
	keys2, err := r.Compile("https://example.com/a.json")
	require.NoError(t, err)

	assert.Equal(t, keys1, keys2)
}

// P6: evaluating the same instance twice against one compiled schema
// produces identical results (deterministic evaluation).
func TestCompile_Deterministic(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/b.json", map[string]any{
		"$schema": draft2020ID,
		"type":    "integer",
		"minimum": 3,
	})

	keys, err := r.Compile("https://example.com/b.json")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	n1, err := r.Evaluate(keys[0], 5, GranularityFlag)
	require.NoError(t, err)
	n2, err := r.Evaluate(keys[0], 5, GranularityFlag)
	require.NoError(t, err)
	assert.Equal(t, n1, n2)
}

// Scenario 1: a static $ref across two separately-registered documents
// resolves and compiles the target, and evaluation honors it.
func TestCompile_StaticRefAcrossDocuments(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/target.json", map[string]any{
		"$schema": draft2020ID,
		"type":    "string",
	})
	mustRegisterJSON(t, r, "https://example.com/source.json", map[string]any{
		"$schema": draft2020ID,
		"$ref":    "https://example.com/target.json",
	})

	keys, err := r.Compile("https://example.com/source.json")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	target, ok := r.SchemaByURI("https://example.com/target.json")
	require.True(t, ok)
	assert.NotEqual(t, invalidSchemaKey, target.Key)

	n, err := r.Evaluate(keys[0], "hello", GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)

	n, err = r.Evaluate(keys[0], 5, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid)
}

// Scenario 3: a static reference cycle (schema A $refs B, B $refs A) is
// rejected at compile time rather than looping or stack-overflowing.
func TestCompile_CycleDetection(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/cyc-a.json", map[string]any{
		"$schema": draft2020ID,
		"$ref":    "https://example.com/cyc-b.json",
	})
	mustRegisterJSON(t, r, "https://example.com/cyc-b.json", map[string]any{
		"$schema": draft2020ID,
		"$ref":    "https://example.com/cyc-a.json",
	})

	_, err := r.Compile("https://example.com/cyc-a.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCyclicDependency)
}

func TestCompile_UnknownDocument(t *testing.T) {
	r := NewRegistry()
	// A non-http(s) scheme so the registry's default HTTP resolver fails
	// immediately on an unsupported scheme rather than attempting a real
	// network round trip against an unregistered host.
	_, err := r.Compile("urn:example:missing-doc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

// $defs/definitions subschemas are reachable and independently compiled,
// even when nothing else in the document references them statically.
func TestCompile_DefsSubschemasAreCompiled(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/defs.json", map[string]any{
		"$schema": draft2020ID,
		"$defs": map[string]any{
			"positive": map[string]any{
				"$anchor": "positive",
				"type":    "integer",
				"minimum": 1,
			},
		},
		"type": "string",
	})

	_, err := r.Compile("https://example.com/defs.json")
	require.NoError(t, err)

	_, ok := r.SchemaByURI("https://example.com/defs.json#/$defs/positive")
	assert.True(t, ok)
}

func TestCompile_DraftFourDefinitionsAreCompiled(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/d4.json", map[string]any{
		"$schema": draft4ID,
		"definitions": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"$ref": "#/definitions/name",
	})

	keys, err := r.Compile("https://example.com/d4.json")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	n, err := r.Evaluate(keys[0], "ok", GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)
}
