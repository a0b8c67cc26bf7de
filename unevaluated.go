package jsonschema

// unevaluatedItemsHandler implements "unevaluatedItems" (2019-09+), which
// must run after every other array-coverage keyword in dialect order so
// the covered-index set it reads is complete (spec §4.5.2: "unevaluated...
// run last in dialect order").
type unevaluatedItemsHandler struct{ key SchemaKey }

func (h *unevaluatedItemsHandler) Name() string { return "unevaluatedItems" }

func (h *unevaluatedItemsHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := obj["unevaluatedItems"]; !ok {
		return nil
	}
	return []Pointer{{"unevaluatedItems"}}
}

func (h *unevaluatedItemsHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj["unevaluatedItems"]; !ok {
		return nil, nil
	}
	key, err := cc.RequestSubschema(Pointer{"unevaluatedItems"})
	if err != nil {
		return nil, err
	}
	return &unevaluatedItemsHandler{key: key}, nil
}

func (h *unevaluatedItemsHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push("unevaluatedItems").String()
	arr, ok := instance.([]any)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	for i, el := range arr {
		if ec.IsIndexCovered(i) {
			continue
		}
		n := ec.EvaluateAt(itoaIdx(i), "unevaluatedItems", h.key, el)
		ec.MarkIndexCovered(i)
		ec.Emit(n)
	}
	return nil
}

// unevaluatedPropertiesHandler implements "unevaluatedProperties" (2019-09+).
type unevaluatedPropertiesHandler struct{ key SchemaKey }

func (h *unevaluatedPropertiesHandler) Name() string { return "unevaluatedProperties" }

func (h *unevaluatedPropertiesHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := obj["unevaluatedProperties"]; !ok {
		return nil
	}
	return []Pointer{{"unevaluatedProperties"}}
}

func (h *unevaluatedPropertiesHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj["unevaluatedProperties"]; !ok {
		return nil, nil
	}
	key, err := cc.RequestSubschema(Pointer{"unevaluatedProperties"})
	if err != nil {
		return nil, err
	}
	return &unevaluatedPropertiesHandler{key: key}, nil
}

func (h *unevaluatedPropertiesHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push("unevaluatedProperties").String()
	obj, ok := instance.(map[string]any)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	for name, v := range obj {
		if ec.IsKeyCovered(name) {
			continue
		}
		n := ec.EvaluateAt(name, "unevaluatedProperties", h.key, v)
		ec.MarkKeyCovered(name)
		ec.Emit(n)
	}
	return nil
}

func itoaIdx(i int) string {
	return Pointer{}.PushIndex(i).String()[1:] // strip leading '/'
}
