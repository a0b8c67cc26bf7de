package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileInline(t *testing.T, r *Registry, uri string, doc map[string]any) SchemaKey {
	t.Helper()
	mustRegisterJSON(t, r, uri, doc)
	keys, err := r.Compile(uri)
	require.NoError(t, err)
	return keys[0]
}

func TestApplyDefaultPatch_FillsMissingFields(t *testing.T) {
	r := NewRegistry()
	key := compileInline(t, r, "https://example.com/defaults.json", map[string]any{
		"$schema": draft2020ID,
		"type":    "object",
		"properties": map[string]any{
			"retries": map[string]any{"type": "integer", "default": float64(3)},
			"name":    map[string]any{"type": "string"},
		},
	})
	cs, ok := r.Schema(key)
	require.True(t, ok)

	out, err := ApplyDefaultPatch(cs, []byte(`{"name":"job"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"job","retries":3}`, string(out))
}

func TestApplyDefaultPatch_DoesNotOverwriteExisting(t *testing.T) {
	r := NewRegistry()
	key := compileInline(t, r, "https://example.com/defaults2.json", map[string]any{
		"$schema": draft2020ID,
		"type":    "object",
		"properties": map[string]any{
			"retries": map[string]any{"type": "integer", "default": float64(3)},
		},
	})
	cs, ok := r.Schema(key)
	require.True(t, ok)

	out, err := ApplyDefaultPatch(cs, []byte(`{"retries":7}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"retries":7}`, string(out))
}

func TestApplyDefaultPatch_BooleanSchemaNoop(t *testing.T) {
	cs := &CompiledSchema{IsBool: true, BoolValue: true}
	out, err := ApplyDefaultPatch(cs, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))
}

func TestApplyJSONPatch_AddsField(t *testing.T) {
	out, err := ApplyJSONPatch(
		[]byte(`{"a":1}`),
		[]byte(`[{"op":"add","path":"/b","value":2}]`),
	)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":2}`, string(out))
}

func TestApplyMergePatch_RemovesNullField(t *testing.T) {
	out, err := ApplyMergePatch(
		[]byte(`{"a":1,"b":2}`),
		[]byte(`{"b":null}`),
	)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))
}
