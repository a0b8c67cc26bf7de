package jsonschema

import (
	"encoding/base64"
	"encoding/xml"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// contentDecoders/contentMediaTypes are the default decoders/media-type
// parsers a contentHandler looks up by name. Both are process-wide
// defaults; a Registry could grow per-instance variants if a future
// caller needs one.
var contentDecoders = map[string]func(string) ([]byte, error){
	"base64": base64.StdEncoding.DecodeString,
}

var contentMediaTypes = map[string]func([]byte) (any, error){
	"application/json": func(data []byte) (any, error) {
		var v any
		err := json.Unmarshal(data, &v)
		return v, err
	},
	"application/xml": func(data []byte) (any, error) {
		var v any
		err := xml.Unmarshal(data, &v)
		return v, err
	},
	"application/yaml": func(data []byte) (any, error) {
		var v any
		err := yaml.Unmarshal(data, &v)
		return v, err
	},
}

// contentHandler implements "contentEncoding" + "contentMediaType" +
// "contentSchema" as one handler, since contentSchema validates the
// decoded result of the other two and all three stages run in sequence.
type contentHandler struct {
	encoding     string
	hasEncoding  bool
	mediaType    string
	hasMediaType bool
	schemaKey    SchemaKey
	hasSchema    bool
}

func (h *contentHandler) Name() string { return "contentEncoding" }

func (h *contentHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := obj["contentSchema"]; !ok {
		return nil
	}
	return []Pointer{{"contentSchema"}}
}

func (h *contentHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	_, hasEnc := obj["contentEncoding"]
	_, hasMT := obj["contentMediaType"]
	_, hasSchema := obj["contentSchema"]
	if !hasEnc && !hasMT && !hasSchema {
		return nil, nil
	}

	out := &contentHandler{}
	if enc, ok := obj["contentEncoding"].(string); ok {
		out.encoding, out.hasEncoding = enc, true
	}
	if mt, ok := obj["contentMediaType"].(string); ok {
		out.mediaType, out.hasMediaType = mt, true
	}
	if hasSchema {
		key, err := cc.RequestSubschema(Pointer{"contentSchema"})
		if err != nil {
			return nil, err
		}
		out.schemaKey, out.hasSchema = key, true
	}
	return out, nil
}

func (h *contentHandler) Evaluate(ec *EvalContext, instance any) error {
	s, ok := instance.(string)
	loc := ec.Location.Keyword.Push("contentEncoding").String()
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}

	raw := []byte(s)
	if h.hasEncoding {
		decoder, known := contentDecoders[h.encoding]
		if !known {
			ec.Emit(Node{Valid: false, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String(),
				Error: NewEvaluationError("contentEncoding", "contentEncoding", "unsupported encoding {encoding}", map[string]any{"encoding": h.encoding})})
			return nil
		}
		decoded, err := decoder(s)
		if err != nil {
			ec.Emit(Node{Valid: false, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String(),
				Error: NewEvaluationError("contentEncoding", "contentEncoding", "could not decode {encoding} content", map[string]any{"encoding": h.encoding})})
			return nil
		}
		raw = decoded
	}

	var parsed any = raw
	if h.hasMediaType {
		unmarshal, known := contentMediaTypes[h.mediaType]
		if !known {
			ec.Emit(Node{Valid: false, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String(),
				Error: NewEvaluationError("contentMediaType", "contentMediaType", "unsupported media type {mediaType}", map[string]any{"mediaType": h.mediaType})})
			return nil
		}
		v, err := unmarshal(raw)
		if err != nil {
			ec.Emit(Node{Valid: false, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String(),
				Error: NewEvaluationError("contentMediaType", "contentMediaType", "could not parse {mediaType} content", map[string]any{"mediaType": h.mediaType})})
			return nil
		}
		parsed = v
	}

	ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})

	if h.hasSchema {
		n := ec.EvaluateAt("", "contentSchema", h.schemaKey, parsed)
		ec.Emit(n)
	}
	return nil
}
