package jsonschema

import "github.com/goccy/go-json"

// typeHandler implements "type", accepting either a single type string or
// an array of alternatives.
type typeHandler struct{ types []string }

func (h *typeHandler) Name() string { return "type" }

func (h *typeHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, ok := obj["type"]
	if !ok {
		return nil, nil
	}
	var types []string
	switch t := raw.(type) {
	case string:
		types = []string{t}
	case []any:
		for _, el := range t {
			if s, ok := el.(string); ok {
				types = append(types, s)
			}
		}
	default:
		return nil, nil
	}
	return &typeHandler{types: types}, nil
}

func (h *typeHandler) Evaluate(ec *EvalContext, instance any) error {
	actual := getDataType(instance)
	ok := false
	for _, t := range h.types {
		if t == actual || (t == "number" && actual == "integer") {
			ok = true
			break
		}
	}
	n := Node{
		Valid:            ok,
		KeywordLocation:  ec.Location.Keyword.Push("type").String(),
		InstanceLocation: ec.Location.Instance.String(),
	}
	if ok {
		n.Annotation = actual
	} else {
		n.Error = NewEvaluationError("type", "type", "value must be {types} but got {actual}", map[string]any{"types": h.types, "actual": actual})
	}
	ec.Emit(n)
	return nil
}

// enumHandler implements "enum".
type enumHandler struct{ values []any }

func (h *enumHandler) Name() string { return "enum" }

func (h *enumHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	arr, ok := obj["enum"].([]any)
	if !ok {
		return nil, nil
	}
	return &enumHandler{values: arr}, nil
}

func (h *enumHandler) Evaluate(ec *EvalContext, instance any) error {
	ok := false
	for _, v := range h.values {
		if jsonDeepEqual(v, instance) {
			ok = true
			break
		}
	}
	n := Node{
		Valid:            ok,
		KeywordLocation:  ec.Location.Keyword.Push("enum").String(),
		InstanceLocation: ec.Location.Instance.String(),
	}
	if !ok {
		n.Error = NewEvaluationError("enum", "enum", "value must be one of the enumerated values")
	}
	ec.Emit(n)
	return nil
}

// constHandler implements "const".
type constHandler struct{ value any }

func (h *constHandler) Name() string { return "const" }

func (h *constHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	v, ok := obj["const"]
	if !ok {
		return nil, nil
	}
	return &constHandler{value: v}, nil
}

func (h *constHandler) Evaluate(ec *EvalContext, instance any) error {
	ok := jsonDeepEqual(h.value, instance)
	n := Node{
		Valid:            ok,
		KeywordLocation:  ec.Location.Keyword.Push("const").String(),
		InstanceLocation: ec.Location.Instance.String(),
	}
	if !ok {
		want, _ := json.Marshal(h.value)
		n.Error = NewEvaluationError("const", "const", "value must equal {const}", map[string]any{"const": string(want)})
	}
	ec.Emit(n)
	return nil
}
