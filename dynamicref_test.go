package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 2: a $dynamicRef resolves to the outermost resource in the
// dynamic scope that also defines a matching $dynamicAnchor, even when
// that anchor is declared only inside a $defs entry rather than at a
// resource root.
func TestDynamicRef_AnchorDispatchThroughDefs(t *testing.T) {
	r := NewRegistry()

	mustRegisterJSON(t, r, "https://example.com/extended.json", map[string]any{
		"$schema": draft2020ID,
		"$id":     "https://example.com/extended.json",
		"$defs": map[string]any{
			"override": map[string]any{
				"$dynamicAnchor": "item",
				"type":           "string",
			},
		},
		"$ref": "https://example.com/base.json",
	})
	mustRegisterJSON(t, r, "https://example.com/base.json", map[string]any{
		"$schema": draft2020ID,
		"$id":     "https://example.com/base.json",
		"$defs": map[string]any{
			"item": map[string]any{
				"$dynamicAnchor": "item",
				"type":           "integer",
			},
		},
		"$dynamicRef": "#item",
	})

	keys, err := r.Compile("https://example.com/extended.json")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	n, err := r.Evaluate(keys[0], "hello", GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid, "dynamic scope should dispatch to the extended resource's string override")

	n, err = r.Evaluate(keys[0], 5, GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid)
}

// When evaluated standalone (never entered through extended.json), base's
// own $dynamicRef falls back to its own anchor.
func TestDynamicRef_FallbackWhenNotExtended(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/base2.json", map[string]any{
		"$schema": draft2020ID,
		"$id":     "https://example.com/base2.json",
		"$defs": map[string]any{
			"item": map[string]any{
				"$dynamicAnchor": "item",
				"type":           "integer",
			},
		},
		"$dynamicRef": "#item",
	})

	keys, err := r.Compile("https://example.com/base2.json")
	require.NoError(t, err)

	n, err := r.Evaluate(keys[0], 5, GranularityFlag)
	require.NoError(t, err)
	assert.True(t, n.Valid)

	n, err = r.Evaluate(keys[0], "nope", GranularityFlag)
	require.NoError(t, err)
	assert.False(t, n.Valid)
}
