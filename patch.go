package jsonschema

import (
	"strconv"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ApplyDefaultPatch walks cs's "default" annotations (spec §3.5's annotation
// collection, restricted here to the "default" keyword) and writes each one
// into instance wherever the corresponding path is absent, the same
// "fill in what the instance didn't specify" affordance offered by the
// pack's schema-object marshaling helpers (obj.go's gjson/sjson read-modify-
// write pattern). It does not compile or evaluate; it only walks the raw
// schema value `cs.Value` recursively through "properties" and "items", so
// it is safe to call on any CompiledSchema, including boolean schemas
// (a no-op).
func ApplyDefaultPatch(cs *CompiledSchema, instance []byte) ([]byte, error) {
	if cs == nil || cs.IsBool {
		return instance, nil
	}
	return applyDefaultsAt(cs.Value, "", instance)
}

func applyDefaultsAt(schema any, path string, instance []byte) ([]byte, error) {
	obj, ok := schema.(map[string]any)
	if !ok {
		return instance, nil
	}

	if def, ok := obj["default"]; ok {
		existing := gjson.GetBytes(instance, path)
		if !existing.Exists() {
			patched, err := sjson.SetBytes(instance, path, def)
			if err != nil {
				return instance, err
			}
			instance = patched
		}
	}

	if props, ok := obj["properties"].(map[string]any); ok {
		for name, sub := range props {
			childPath := name
			if path != "" {
				childPath = path + "." + name
			}
			var err error
			instance, err = applyDefaultsAt(sub, childPath, instance)
			if err != nil {
				return instance, err
			}
		}
	}

	if items, ok := obj["items"].(map[string]any); ok {
		n := gjson.GetBytes(instance, path).Array()
		for i := range n {
			idx := strconv.Itoa(i)
			childPath := idx
			if path != "" {
				childPath = path + "." + idx
			}
			var err error
			instance, err = applyDefaultsAt(items, childPath, instance)
			if err != nil {
				return instance, err
			}
		}
	}

	return instance, nil
}

// ApplyJSONPatch applies an RFC 6902 JSON Patch document to instance, for
// callers that need to construct or mutate validated instances (e.g. test
// harnesses building edge-case fixtures for unevaluatedItems/
// unevaluatedProperties by patching a base document rather than hand-editing
// a second literal).
func ApplyJSONPatch(instance, patch []byte) ([]byte, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, err
	}
	return p.Apply(instance)
}

// ApplyMergePatch applies an RFC 7396 JSON Merge Patch document to instance.
func ApplyMergePatch(instance, mergePatch []byte) ([]byte, error) {
	return jsonpatch.MergePatch(instance, mergePatch)
}
