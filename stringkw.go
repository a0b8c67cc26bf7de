package jsonschema

import "unicode/utf8"

type lengthHandler struct {
	keyword string
	limit   int
	max     bool
}

func (h *lengthHandler) Name() string { return h.keyword }

func (h *lengthHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, ok := obj[h.keyword]
	if !ok {
		return nil, nil
	}
	n, ok := toInt(raw)
	if !ok {
		return nil, nil
	}
	return &lengthHandler{keyword: h.keyword, limit: n, max: h.max}, nil
}

func (h *lengthHandler) Evaluate(ec *EvalContext, instance any) error {
	s, ok := instance.(string)
	loc := ec.Location.Keyword.Push(h.keyword).String()
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	count := utf8.RuneCountInString(s)
	valid := count <= h.limit
	if !h.max {
		valid = count >= h.limit
	}
	n := Node{Valid: valid, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()}
	if !valid {
		n.Error = NewEvaluationError(h.keyword, h.keyword, "string length fails "+h.keyword+" constraint")
	}
	ec.Emit(n)
	return nil
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	default:
		return 0, false
	}
}

// patternHandler implements "pattern", backed by the registry's shared
// RegexCache.
type patternHandler struct {
	pattern string
}

func (h *patternHandler) Name() string { return "pattern" }

func (h *patternHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	p, ok := obj["pattern"].(string)
	if !ok {
		return nil, nil
	}
	if _, err := cc.RegexCache().Compile(p); err != nil {
		return nil, err
	}
	return &patternHandler{pattern: p}, nil
}

func (h *patternHandler) Evaluate(ec *EvalContext, instance any) error {
	s, ok := instance.(string)
	loc := ec.Location.Keyword.Push("pattern").String()
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	re, err := ec.Registry.regexCache.Compile(h.pattern)
	if err != nil {
		return err
	}
	valid := re.MatchString(s)
	n := Node{Valid: valid, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()}
	if !valid {
		n.Error = NewEvaluationError("pattern", "pattern", "string does not match pattern {pattern}", map[string]any{"pattern": h.pattern})
	}
	ec.Emit(n)
	return nil
}

func newMaxLength() Handler { return &lengthHandler{keyword: "maxLength", max: true} }
func newMinLength() Handler { return &lengthHandler{keyword: "minLength", max: false} }
