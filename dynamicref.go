package jsonschema

// ResolveDynamicRef implements spec §4.5.3: given the initial target URI
// U#A of a $dynamicRef/$recursiveRef (aliased by the compiler to the key of
// the schema declaring A) and the anchor name A, walk the dynamic scope stack
// outermost-to-innermost looking for a resource that also defines a dynamic
// anchor named A; the outermost match wins. If nothing in the stack
// participates, the initial target is used (fallback).
func ResolveDynamicRef(ec *EvalContext, initialURI, anchorName string) (SchemaKey, bool) {
	if anchorName == "" {
		if key, ok := ec.Registry.lookupKey(initialURI); ok {
			return key, true
		}
		return 0, false
	}

	// Step 1: does the initial target's own resource define this dynamic
	// anchor at all? If not, this is not a participating dynamic ref.
	initialKey, ok := ec.Registry.lookupKey(initialURI)
	if !ok {
		return 0, false
	}
	initialSchema, ok := ec.Registry.Schema(initialKey)
	if !ok {
		return 0, false
	}
	idx := ec.Registry.anchorIndexFor(splitRefBase(initialSchema.URI))
	if _, has := idx.HasDynamic(anchorName); !has {
		return initialKey, true
	}

	// Step 2: walk outermost -> innermost.
	for _, scopedKey := range ec.DynamicScope() {
		scoped, ok := ec.Registry.Schema(scopedKey)
		if !ok {
			continue
		}
		scopedIdx := ec.Registry.anchorIndexFor(splitRefBase(scoped.URI))
		if key, has := scopedIdx.HasDynamic(anchorName); has {
			return key, true
		}
	}

	return initialKey, true
}
