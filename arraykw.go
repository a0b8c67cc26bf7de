package jsonschema

import "strconv"

type countHandler struct {
	keyword string
	limit   int
	max     bool
}

func (h *countHandler) Name() string { return h.keyword }

func (h *countHandler) Compile(cc *CompileContext, value any) (Handler, error) {
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
	return &countHandler{keyword: h.keyword, limit: n, max: h.max}, nil
}

func (h *countHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push(h.keyword).String()
	arr, isArr := instance.([]any)
	obj, isObj := instance.(map[string]any)
	var count int
	switch {
	case isArr:
		count = len(arr)
	case isObj:
		count = len(obj)
	default:
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	valid := count <= h.limit
	if !h.max {
		valid = count >= h.limit
	}
	n := Node{Valid: valid, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()}
	if !valid {
		n.Error = NewEvaluationError(h.keyword, h.keyword, "size fails "+h.keyword+" constraint")
	}
	ec.Emit(n)
	return nil
}

func newMaxItems() Handler      { return &countHandler{keyword: "maxItems", max: true} }
func newMinItems() Handler      { return &countHandler{keyword: "minItems", max: false} }
func newMaxProperties() Handler { return &countHandler{keyword: "maxProperties", max: true} }
func newMinProperties() Handler { return &countHandler{keyword: "minProperties", max: false} }

// uniqueItemsHandler implements "uniqueItems".
type uniqueItemsHandler struct{}

func (uniqueItemsHandler) Name() string { return "uniqueItems" }

func (h uniqueItemsHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	b, ok := obj["uniqueItems"].(bool)
	if !ok || !b {
		return nil, nil
	}
	return h, nil
}

func (h uniqueItemsHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push("uniqueItems").String()
	arr, ok := instance.([]any)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	valid := true
	for i := 0; i < len(arr) && valid; i++ {
		for j := i + 1; j < len(arr); j++ {
			if jsonDeepEqual(arr[i], arr[j]) {
				valid = false
				break
			}
		}
	}
	n := Node{Valid: valid, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()}
	if !valid {
		n.Error = NewEvaluationError("uniqueItems", "uniqueItems", "array elements must be unique")
	}
	ec.Emit(n)
	return nil
}

// itemsTupleHandler implements draft-04/07's "items" (array-of-schemas
// form, positional) + "additionalItems", and 2019-09+'s split
// "prefixItems" + "items" (single-schema form, applied past the prefix).
// One struct models both shapes; which fields are populated depends on
// which keywords the schema actually used.
type itemsTupleHandler struct {
	prefixKeys    []SchemaKey // positional schemas (items-as-array, or prefixItems)
	restKey       SchemaKey   // items (single-schema form) or additionalItems
	hasRest       bool
	restKeyword   string // "items" or "additionalItems", for location/annotation naming
	prefixKeyword string // "items" or "prefixItems"
}

func (h *itemsTupleHandler) Name() string { return "items" }

func (h *itemsTupleHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	var out []Pointer
	if arr, ok := obj["prefixItems"].([]any); ok {
		for i := range arr {
			out = append(out, Pointer{"prefixItems", strconv.Itoa(i)})
		}
		if _, ok := obj["items"]; ok {
			out = append(out, Pointer{"items"})
		}
		return out
	}
	switch it := obj["items"].(type) {
	case []any:
		for i := range it {
			out = append(out, Pointer{"items", strconv.Itoa(i)})
		}
		if _, ok := obj["additionalItems"]; ok {
			out = append(out, Pointer{"additionalItems"})
		}
	case map[string]any, bool:
		out = append(out, Pointer{"items"})
	}
	return out
}

func (h *itemsTupleHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}

	out := &itemsTupleHandler{}

	if arr, ok := obj["prefixItems"].([]any); ok {
		out.prefixKeyword = "prefixItems"
		for i := range arr {
			k, err := cc.RequestSubschema(Pointer{"prefixItems", strconv.Itoa(i)})
			if err != nil {
				return nil, err
			}
			out.prefixKeys = append(out.prefixKeys, k)
		}
		if _, ok := obj["items"]; ok {
			k, err := cc.RequestSubschema(Pointer{"items"})
			if err != nil {
				return nil, err
			}
			out.restKey, out.hasRest, out.restKeyword = k, true, "items"
		}
		return out, nil
	}

	switch it := obj["items"].(type) {
	case []any:
		out.prefixKeyword = "items"
		for i := range it {
			k, err := cc.RequestSubschema(Pointer{"items", strconv.Itoa(i)})
			if err != nil {
				return nil, err
			}
			out.prefixKeys = append(out.prefixKeys, k)
		}
		if _, ok := obj["additionalItems"]; ok {
			k, err := cc.RequestSubschema(Pointer{"additionalItems"})
			if err != nil {
				return nil, err
			}
			out.restKey, out.hasRest, out.restKeyword = k, true, "additionalItems"
		}
		return out, nil
	case map[string]any, bool:
		k, err := cc.RequestSubschema(Pointer{"items"})
		if err != nil {
			return nil, err
		}
		out.restKey, out.hasRest, out.restKeyword = k, true, "items"
		return out, nil
	}
	return nil, nil
}

func (h *itemsTupleHandler) Evaluate(ec *EvalContext, instance any) error {
	arr, ok := instance.([]any)
	loc := ec.Location.Keyword.Push("items").String()
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}

	for i, key := range h.prefixKeys {
		if i >= len(arr) {
			break
		}
		n := ec.EvaluateAt(strconv.Itoa(i), h.prefixKeyword+"/"+strconv.Itoa(i), key, arr[i])
		ec.MarkIndexCovered(i)
		ec.Emit(n)
	}

	if h.hasRest {
		for i := len(h.prefixKeys); i < len(arr); i++ {
			n := ec.EvaluateAt(strconv.Itoa(i), h.restKeyword, h.restKey, arr[i])
			ec.MarkIndexCovered(i)
			ec.Emit(n)
		}
	}

	return nil
}

// containsHandler implements "contains" with optional "minContains"/
// "maxContains" (2019-09+).
type containsHandler struct {
	key                    SchemaKey
	minContains, maxContains int
	hasMin, hasMax         bool
}

func (h *containsHandler) Name() string { return "contains" }

func (h *containsHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := obj["contains"]; !ok {
		return nil
	}
	return []Pointer{{"contains"}}
}

func (h *containsHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj["contains"]; !ok {
		return nil, nil
	}
	key, err := cc.RequestSubschema(Pointer{"contains"})
	if err != nil {
		return nil, err
	}
	out := &containsHandler{key: key}
	if n, ok := toInt(obj["minContains"]); ok {
		out.minContains, out.hasMin = n, true
	}
	if n, ok := toInt(obj["maxContains"]); ok {
		out.maxContains, out.hasMax = n, true
	}
	return out, nil
}

func (h *containsHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push("contains").String()
	arr, ok := instance.([]any)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}

	matchCount := 0
	for i, el := range arr {
		n := ec.EvaluateAt(strconv.Itoa(i), "contains", h.key, el)
		if n.Valid {
			matchCount++
			ec.MarkIndexCovered(i)
		}
	}

	min := 1
	if h.hasMin {
		min = h.minContains
	}
	valid := matchCount >= min
	if h.hasMax {
		valid = valid && matchCount <= h.maxContains
	}

	n := Node{Valid: valid, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String(), Annotation: matchCount}
	if !valid {
		n.Error = NewEvaluationError("contains", "contains", "array does not contain enough matching items")
	}
	ec.Emit(n)
	return nil
}
