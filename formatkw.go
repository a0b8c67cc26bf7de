package jsonschema

// formatHandlerKW implements the "format" capability for the registry/
// dialect pipeline, delegating per-format checks to the Formats registry
// (formats.go, credited there to santhosh-tekuri/jsonschema). An unmatched
// known format always fails the schema, in every dialect; there is no
// annotation-only mode (2019-09+'s "format-assertion" vocabulary is not
// consulted). Unknown format names are ignored.
type formatHandlerKW struct {
	name string
	fn   func(any) bool
}

func (h *formatHandlerKW) Name() string { return "format" }

func (h *formatHandlerKW) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	name, ok := obj["format"].(string)
	if !ok {
		return nil, nil
	}
	fn, known := Formats[name]
	if !known {
		return nil, nil
	}
	return &formatHandlerKW{name: name, fn: fn}, nil
}

func (h *formatHandlerKW) Evaluate(ec *EvalContext, instance any) error {
	valid := h.fn(instance)
	n := Node{
		Valid:            valid,
		KeywordLocation:  ec.Location.Keyword.Push("format").String(),
		InstanceLocation: ec.Location.Instance.String(),
	}
	if valid {
		n.Annotation = h.name
	} else {
		n.Error = NewEvaluationError("format", "format", "value does not match format {format}", map[string]any{"format": h.name})
	}
	ec.Emit(n)
	return nil
}
