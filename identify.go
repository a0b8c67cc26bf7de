package jsonschema

// schemaDetector implements DialectDetector by reading "$schema" (or, for
// the draft-04 variant, only via the registry's explicit-$schema fast path
// in DialectRegistry.Classify — draft-04 schemas conventionally omit
// "$schema" on subschemas but the root always carries it). One instance is
// shared by every dialect's Vocabularies so dialect sniffing is uniform.
type schemaDetector struct{}

func (schemaDetector) Name() string { return "$schema" }

func (d schemaDetector) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj["$schema"]; !ok {
		return nil, nil
	}
	return d, nil
}

func (schemaDetector) DetectDialect(value any) (string, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := obj["$schema"].(string)
	return s, ok
}

// idIdentifier implements Identifier for the draft-04 "id" keyword and, in
// later dialects, "$id".
type idIdentifier struct{ keyword string }

func (h idIdentifier) Name() string { return h.keyword }

func (h idIdentifier) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj[h.keyword].(string); !ok {
		return nil, nil
	}
	return h, nil
}

func (h idIdentifier) Identify(value any) (string, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := obj[h.keyword].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// idFragmentAnchorHandler implements AnchorLocator for pre-2019-09's only
// anchor mechanism: a plain-name fragment on "id"/"$id" itself (e.g.
// `"$id": "#foo"`), rather than a dedicated "$anchor" keyword (draft-07 has
// none). idIdentifier still canonicalizes the base URI from the same
// keyword; this handler separately records the fragment as a plain anchor
// name whenever it looks like a name (not a JSON Pointer, per RFC 6901's
// "/"-prefixed form, which plain-name fragments never use).
type idFragmentAnchorHandler struct{ keyword string }

func (h idFragmentAnchorHandler) Name() string { return h.keyword + "#fragment" }

func (h idFragmentAnchorHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	s, ok := obj[h.keyword].(string)
	if !ok || !isFragmentOnlyAnchorName(s) {
		return nil, nil
	}
	return h, nil
}

func (h idFragmentAnchorHandler) Anchors(value any) []AnchorDecl {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	s, ok := obj[h.keyword].(string)
	if !ok || !isFragmentOnlyAnchorName(s) {
		return nil
	}
	return []AnchorDecl{{Name: s[1:], Kind: AnchorPlain}}
}

// isFragmentOnlyAnchorName reports whether s is a bare "#name" fragment
// reference (no scheme, authority, or path), as opposed to a JSON Pointer
// fragment (which always starts with "#/" or is exactly "#").
func isFragmentOnlyAnchorName(s string) bool {
	if len(s) < 2 || s[0] != '#' {
		return false
	}
	return s[1] != '/'
}

// anchorLocatorHandler implements AnchorLocator for a dialect's plain and
// dynamic anchor keywords ("$anchor"/"$dynamicAnchor" for 2019-09+,
// "$recursiveAnchor" for 2019-09's legacy recursive form — which, unlike
// "$anchor", is a boolean, so it is recorded under the empty anchor name).
type anchorLocatorHandler struct {
	plainKeyword     string // "$anchor", or "" if unsupported
	dynamicKeyword   string // "$dynamicAnchor", or "" if unsupported
	recursiveKeyword string // "$recursiveAnchor" (boolean), or "" if unsupported
}

func (h anchorLocatorHandler) Name() string { return "anchors" }

func (h anchorLocatorHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if h.plainKeyword != "" {
		if _, ok := obj[h.plainKeyword]; ok {
			return h, nil
		}
	}
	if h.dynamicKeyword != "" {
		if _, ok := obj[h.dynamicKeyword]; ok {
			return h, nil
		}
	}
	if h.recursiveKeyword != "" {
		if _, ok := obj[h.recursiveKeyword]; ok {
			return h, nil
		}
	}
	return nil, nil
}

func (h anchorLocatorHandler) Anchors(value any) []AnchorDecl {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	var out []AnchorDecl
	if h.plainKeyword != "" {
		if s, ok := obj[h.plainKeyword].(string); ok {
			out = append(out, AnchorDecl{Name: s, Kind: AnchorPlain})
		}
	}
	if h.dynamicKeyword != "" {
		if s, ok := obj[h.dynamicKeyword].(string); ok {
			out = append(out, AnchorDecl{Name: s, Kind: AnchorDynamic})
		}
	}
	if h.recursiveKeyword != "" {
		if b, ok := obj[h.recursiveKeyword].(bool); ok && b {
			out = append(out, AnchorDecl{Name: "", Kind: AnchorDynamic})
		}
	}
	return out
}
