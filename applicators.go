package jsonschema

import "strconv"

// schemaArrayHandler is the shared shape behind allOf/anyOf/oneOf: a
// keyword whose value is an array of subschemas.
type schemaArrayHandler struct {
	keyword string
	keys    []SchemaKey
	mode    schemaArrayMode
}

type schemaArrayMode int

const (
	modeAllOf schemaArrayMode = iota
	modeAnyOf
	modeOneOf
)

func (h *schemaArrayHandler) Name() string { return h.keyword }

func (h *schemaArrayHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	arr, ok := obj[h.keyword].([]any)
	if !ok {
		return nil
	}
	out := make([]Pointer, len(arr))
	for i := range arr {
		out[i] = Pointer{h.keyword, strconv.Itoa(i)}
	}
	return out
}

func (h *schemaArrayHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	arr, ok := obj[h.keyword].([]any)
	if !ok {
		return nil, nil
	}
	keys := make([]SchemaKey, len(arr))
	for i := range arr {
		key, err := cc.RequestSubschema(Pointer{h.keyword, strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return &schemaArrayHandler{keyword: h.keyword, keys: keys, mode: h.mode}, nil
}

func (h *schemaArrayHandler) Evaluate(ec *EvalContext, instance any) error {
	switch h.mode {
	case modeAllOf:
		parent := Node{Valid: true, KeywordLocation: ec.Location.Keyword.Push(h.keyword).String(), InstanceLocation: ec.Location.Instance.String()}
		for i, key := range h.keys {
			n := ec.EvaluateAt("", strconv.Itoa(i), key, instance)
			if n.Valid {
				ec.MergeNodeCoverage(n)
				parent.Annotations = append(parent.Annotations, n)
			} else {
				parent.Valid = false
				parent.Errors = append(parent.Errors, n)
			}
		}
		ec.Emit(parent)
		return nil

	case modeAnyOf:
		parent := Node{KeywordLocation: ec.Location.Keyword.Push(h.keyword).String(), InstanceLocation: ec.Location.Instance.String()}
		for i, key := range h.keys {
			n := ec.EvaluateAt("", strconv.Itoa(i), key, instance)
			if n.Valid {
				parent.Valid = true
				ec.MergeNodeCoverage(n)
				parent.Annotations = append(parent.Annotations, n)
			} else {
				parent.Errors = append(parent.Errors, n)
			}
		}
		ec.Emit(parent)
		return nil

	default: // modeOneOf
		parent := Node{KeywordLocation: ec.Location.Keyword.Push(h.keyword).String(), InstanceLocation: ec.Location.Instance.String()}
		matchCount := 0
		var matched Node
		for i, key := range h.keys {
			n := ec.EvaluateAt("", strconv.Itoa(i), key, instance)
			if n.Valid {
				matchCount++
				matched = n
				parent.Annotations = append(parent.Annotations, n)
			} else {
				parent.Errors = append(parent.Errors, n)
			}
		}
		parent.Valid = matchCount == 1
		if parent.Valid {
			ec.MergeNodeCoverage(matched)
		}
		ec.Emit(parent)
		return nil
	}
}

func newAllOf() Handler { return &schemaArrayHandler{keyword: "allOf", mode: modeAllOf} }
func newAnyOf() Handler { return &schemaArrayHandler{keyword: "anyOf", mode: modeAnyOf} }
func newOneOf() Handler { return &schemaArrayHandler{keyword: "oneOf", mode: modeOneOf} }

// notHandler implements "not": a single subschema that must fail.
type notHandler struct{ key SchemaKey }

func (h *notHandler) Name() string { return "not" }

func (h *notHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := obj["not"]; !ok {
		return nil
	}
	return []Pointer{{"not"}}
}

func (h *notHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj["not"]; !ok {
		return nil, nil
	}
	key, err := cc.RequestSubschema(Pointer{"not"})
	if err != nil {
		return nil, err
	}
	return &notHandler{key: key}, nil
}

func (h *notHandler) Evaluate(ec *EvalContext, instance any) error {
	n := ec.EvaluateAt("", "not", h.key, instance)
	ec.Emit(Node{
		Valid:            !n.Valid,
		KeywordLocation:  ec.Location.Keyword.Push("not").String(),
		InstanceLocation: ec.Location.Instance.String(),
	})
	return nil
}

// conditionalHandler implements "if"/"then"/"else" as one handler, since
// their evaluation semantics are entangled (spec §4.5.2: "then contributes
// if if passed; else contributes if if failed").
type conditionalHandler struct {
	ifKey, thenKey, elseKey SchemaKey
	hasIf, hasThen, hasElse bool
}

func (h *conditionalHandler) Name() string { return "if" }

func (h *conditionalHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	var out []Pointer
	if _, ok := obj["if"]; ok {
		out = append(out, Pointer{"if"})
	}
	if _, ok := obj["then"]; ok {
		out = append(out, Pointer{"then"})
	}
	if _, ok := obj["else"]; ok {
		out = append(out, Pointer{"else"})
	}
	return out
}

func (h *conditionalHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj["if"]; !ok {
		return nil, nil
	}
	out := &conditionalHandler{}
	var err error
	out.ifKey, err = cc.RequestSubschema(Pointer{"if"})
	if err != nil {
		return nil, err
	}
	out.hasIf = true
	if _, ok := obj["then"]; ok {
		out.thenKey, err = cc.RequestSubschema(Pointer{"then"})
		if err != nil {
			return nil, err
		}
		out.hasThen = true
	}
	if _, ok := obj["else"]; ok {
		out.elseKey, err = cc.RequestSubschema(Pointer{"else"})
		if err != nil {
			return nil, err
		}
		out.hasElse = true
	}
	return out, nil
}

func (h *conditionalHandler) Evaluate(ec *EvalContext, instance any) error {
	ifNode := ec.EvaluateAt("", "if", h.ifKey, instance)
	parent := Node{Valid: true, KeywordLocation: ec.Location.Keyword.Push("if").String(), InstanceLocation: ec.Location.Instance.String()}
	parent.Annotations = append(parent.Annotations, ifNode)

	if ifNode.Valid {
		ec.MergeNodeCoverage(ifNode)
		if h.hasThen {
			n := ec.EvaluateAt("", "then", h.thenKey, instance)
			parent.Valid = n.Valid
			if n.Valid {
				ec.MergeNodeCoverage(n)
				parent.Annotations = append(parent.Annotations, n)
			} else {
				parent.Errors = append(parent.Errors, n)
			}
		}
	} else if h.hasElse {
		n := ec.EvaluateAt("", "else", h.elseKey, instance)
		parent.Valid = n.Valid
		if n.Valid {
			ec.MergeNodeCoverage(n)
			parent.Annotations = append(parent.Annotations, n)
		} else {
			parent.Errors = append(parent.Errors, n)
		}
	}

	ec.Emit(parent)
	return nil
}
