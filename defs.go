package jsonschema

// defsHandler has no evaluation semantics of its own: "$defs" (2019-09+)
// and "definitions" (draft-04/07, kept for backward compatibility the same
// way the teacher's ref.go accepts both) are never applied directly to an
// instance, but schemas nested under them must still be compiled so their
// $anchor/$dynamicAnchor declarations and any $ref targets inside them are
// reachable — otherwise a schema only ever referenced indirectly (e.g. a
// sibling resource dynamic-ref-ing into it) would never get compiled at all.
type defsHandler struct {
	keyword string
}

func (h *defsHandler) Name() string { return h.keyword }

func (h *defsHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj[h.keyword].(map[string]any); !ok {
		return nil, nil
	}
	return h, nil
}

func (h *defsHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	defs, ok := obj[h.keyword].(map[string]any)
	if !ok {
		return nil
	}
	out := make([]Pointer, 0, len(defs))
	for k := range defs {
		out = append(out, Pointer{h.keyword, k})
	}
	return out
}
