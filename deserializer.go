package jsonschema

import (
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Deserializer parses raw source bytes into a generic JSON value
// (map[string]any / []any / string / float64 / bool / nil), per spec §4.2.
type Deserializer func(data []byte) (any, error)

// jsonDeserializer decodes data as JSON via goccy/go-json.
func jsonDeserializer(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// yamlDeserializer decodes data as YAML via goccy/go-yaml, then normalizes
// the result to the same map[string]any/[]any shape json.Unmarshal would
// produce, since goccy/go-yaml otherwise yields map[string]interface{} keys
// consistent with JSON already for v1.11, but nested sequences/mappings need
// a uniform any-shape for the evaluator's type switches.
func yamlDeserializer(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalizeYAML(v), nil
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	case int:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return t
	}
}

// registerDefaultDeserializers wires the json-then-yaml chain used by
// NewRegistry, trying JSON first since it's the more common source format.
func registerDefaultDeserializers(sr *SourceRegistry) {
	sr.RegisterDeserializer("json", jsonDeserializer)
	sr.RegisterDeserializer("yaml", yamlDeserializer)
}
