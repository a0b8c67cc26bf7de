package jsonschema

// refHandler implements "$ref" (all drafts) and, parametrized by dynamic,
// "$dynamicRef" (2020-12) / "$recursiveRef" (2019-09's legacy recursive
// form). Compile resolves (or schedules resolution of) its target through
// CompileContext.ResolveRef; Evaluate either evaluates that fixed key
// (static refs) or re-resolves against the dynamic scope stack on every
// call (dynamic refs), per spec §4.5.3.
type refHandler struct {
	keyword string
	dynamic bool

	raw        string
	targetKey  SchemaKey
	initialURI string
	anchorName string
}

func (h *refHandler) Name() string { return h.keyword }

func (h *refHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, ok := obj[h.keyword].(string)
	if !ok {
		return nil, nil
	}

	key, err := cc.ResolveRef(raw, h.dynamic)
	if err != nil {
		return nil, err
	}

	resolvedURI, err := resolveAgainst(cc.URI, raw)
	if err != nil {
		return nil, err
	}
	_, anchorName := splitRef(resolvedURI)

	return &refHandler{
		keyword:    h.keyword,
		dynamic:    h.dynamic,
		raw:        raw,
		targetKey:  key,
		initialURI: resolvedURI,
		anchorName: anchorName,
	}, nil
}

func (h *refHandler) Refs(value any) []RefDecl {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := obj[h.keyword].(string)
	if !ok {
		return nil
	}
	return []RefDecl{{At: Pointer{h.keyword}, URI: raw, Dynamic: h.dynamic}}
}

func (h *refHandler) Evaluate(ec *EvalContext, instance any) error {
	key := h.targetKey
	if h.dynamic {
		if resolved, ok := ResolveDynamicRef(ec, h.initialURI, h.anchorName); ok {
			key = resolved
		}
	} else if h.anchorName != "" && !isJSONPointer(h.anchorName) {
		// Anchor-name target: the compiler defers binding these until every
		// schema in the session has recorded its anchors (compile.go's
		// resolveAnchorRefs), so look the current alias up fresh rather
		// than trust a compile-time key that was never actually bound.
		if resolved, ok := ec.Registry.lookupKey(h.initialURI); ok {
			key = resolved
		}
	}
	node := ec.EvaluateAt("", h.keyword, key, instance)
	ec.MergeNodeCoverage(node)
	ec.Emit(node)
	return nil
}
