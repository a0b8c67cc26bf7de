package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 6: the same failing evaluation produces a flat Basic list and a
// nested Detailed/Verbose tree, and all four granularities agree on
// overall validity.
func TestOutput_GranularityShapes(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/out.json", map[string]any{
		"$schema": draft2020ID,
		"type":    "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"name", "age"},
	})
	keys, err := r.Compile("https://example.com/out.json")
	require.NoError(t, err)
	key := keys[0]

	instance := map[string]any{"name": 5, "age": -1}

	flag, err := r.Evaluate(key, instance, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, flag.Valid)
	assert.Empty(t, flag.Errors)
	assert.Empty(t, flag.Annotations)

	basic, err := r.Evaluate(key, instance, GranularityBasic)
	require.NoError(t, err)
	assert.False(t, basic.Valid)
	assert.NotEmpty(t, basic.Errors)
	for _, leaf := range basic.Errors {
		assert.Empty(t, leaf.Errors, "basic is flat: leaves carry no children")
		assert.Empty(t, leaf.Annotations)
	}

	detailed, err := r.Evaluate(key, instance, GranularityDetailed)
	require.NoError(t, err)
	assert.False(t, detailed.Valid)

	verbose, err := r.Evaluate(key, instance, GranularityVerbose)
	require.NoError(t, err)
	assert.False(t, verbose.Valid)
	assert.Equal(t, flag.Valid, verbose.Valid)
	assert.Equal(t, basic.Valid, verbose.Valid)
	assert.Equal(t, detailed.Valid, verbose.Valid)
}

// P9: a passing instance is valid at every granularity alike.
func TestOutput_GranularityMonotonic_PassingInstance(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/out-pass.json", map[string]any{
		"$schema": draft2020ID,
		"type":    "string",
	})
	keys, err := r.Compile("https://example.com/out-pass.json")
	require.NoError(t, err)

	for _, g := range []OutputGranularity{GranularityFlag, GranularityBasic, GranularityDetailed, GranularityVerbose} {
		n, err := r.Evaluate(keys[0], "ok", g)
		require.NoError(t, err)
		assert.True(t, n.Valid)
	}
}

func TestOutput_DetectGranularity(t *testing.T) {
	assert.Equal(t, GranularityFlag, DetectGranularity(map[string]any{"valid": true}))
	assert.Equal(t, GranularityBasic, DetectGranularity(map[string]any{
		"valid":  false,
		"errors": []any{map[string]any{"valid": false}},
	}))
	assert.Equal(t, GranularityDetailed, DetectGranularity(map[string]any{
		"valid": false,
		"errors": []any{
			map[string]any{"valid": false, "errors": []any{map[string]any{"valid": false}}},
		},
	}))
	assert.Equal(t, GranularityFlag, DetectGranularity(map[string]any{"fmt": "flag"}))
}
