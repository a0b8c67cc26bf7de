package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 4: unevaluatedItems sees items covered by a matching anyOf
// branch as evaluated, and rejects only instance elements nothing covered.
func TestUnevaluatedItems_WithAnyOf(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/uneval-anyof.json", map[string]any{
		"$schema": draft2020ID,
		"anyOf": []any{
			map[string]any{
				"type":     "array",
				"prefixItems": []any{
					map[string]any{"type": "string"},
				},
			},
		},
		"unevaluatedItems": false,
	})

	keys, err := r.Compile("https://example.com/uneval-anyof.json")
	require.NoError(t, err)

	n, err := r.Evaluate(keys[0], []any{"ok"}, GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)

	n, err = r.Evaluate(keys[0], []any{"ok", "extra"}, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid, "second element isn't covered by the matched anyOf branch's prefixItems")
}

// Scenario 5: unevaluatedItems treats every item matched by contains as
// evaluated, so an array entirely covered by contains passes even with
// unevaluatedItems: false.
func TestUnevaluatedItems_WithContains(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/uneval-contains.json", map[string]any{
		"$schema": draft2020ID,
		"contains": map[string]any{
			"type": "integer",
		},
		"unevaluatedItems": false,
	})

	keys, err := r.Compile("https://example.com/uneval-contains.json")
	require.NoError(t, err)

	n, err := r.Evaluate(keys[0], []any{1, 2, 3}, GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)

	n, err = r.Evaluate(keys[0], []any{1, "nope"}, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid, "the string element is never covered by contains (only the matched item indices are)")
}

func TestUnevaluatedItems_AnyOfBranchesOfDifferentLength(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/uneval-anyof2.json", map[string]any{
		"$schema":     draft2020ID,
		"prefixItems": []any{map[string]any{"const": "foo"}},
		"anyOf": []any{
			map[string]any{"prefixItems": []any{true, map[string]any{"const": "bar"}}},
			map[string]any{"prefixItems": []any{true, true, map[string]any{"const": "baz"}}},
		},
		"unevaluatedItems": false,
	})
	keys, err := r.Compile("https://example.com/uneval-anyof2.json")
	require.NoError(t, err)

	n, err := r.Evaluate(keys[0], []any{"foo", "bar"}, GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)

	n, err = r.Evaluate(keys[0], []any{"foo", "bar", float64(42)}, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid)

	n, err = r.Evaluate(keys[0], []any{"foo", "bar", "baz"}, GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid, "the three-element branch covers index 2 with \"baz\"")
}

func TestUnevaluatedItems_AdjacentContains(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/uneval-contains2.json", map[string]any{
		"$schema":     draft2020ID,
		"prefixItems": []any{true},
		"contains":    map[string]any{"type": "string"},
		"unevaluatedItems": false,
	})
	keys, err := r.Compile("https://example.com/uneval-contains2.json")
	require.NoError(t, err)

	n, err := r.Evaluate(keys[0], []any{float64(1), "foo"}, GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)

	n, err = r.Evaluate(keys[0], []any{float64(1), float64(2)}, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid, "contains itself fails: no string element anywhere")

	n, err = r.Evaluate(keys[0], []any{float64(1), float64(2), "foo"}, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid, "index 1 is never covered by prefixItems or contains")
}

func TestUnevaluatedProperties_WithProperties(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/uneval-props.json", map[string]any{
		"$schema": draft2020ID,
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"unevaluatedProperties": false,
	})

	keys, err := r.Compile("https://example.com/uneval-props.json")
	require.NoError(t, err)

	n, err := r.Evaluate(keys[0], map[string]any{"name": "a"}, GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)

	n, err = r.Evaluate(keys[0], map[string]any{"name": "a", "extra": 1}, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid)
}
