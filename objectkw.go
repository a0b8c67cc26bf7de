package jsonschema

import "sort"

// propertiesHandler implements "properties" + "patternProperties" +
// "additionalProperties" together, since additionalProperties' instance
// set is defined in terms of what properties/patternProperties already
// covered.
type propertiesHandler struct {
	props        map[string]SchemaKey
	patterns     []patternSchema
	additional   SchemaKey
	hasAdditional bool
}

type patternSchema struct {
	pattern string
	key     SchemaKey
}

func (h *propertiesHandler) Name() string { return "properties" }

func (h *propertiesHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	var out []Pointer
	if props, ok := obj["properties"].(map[string]any); ok {
		for k := range props {
			out = append(out, Pointer{"properties", k})
		}
	}
	if pp, ok := obj["patternProperties"].(map[string]any); ok {
		for k := range pp {
			out = append(out, Pointer{"patternProperties", k})
		}
	}
	if _, ok := obj["additionalProperties"]; ok {
		out = append(out, Pointer{"additionalProperties"})
	}
	return out
}

func (h *propertiesHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	_, hasProps := obj["properties"]
	_, hasPatternProps := obj["patternProperties"]
	_, hasAdditional := obj["additionalProperties"]
	if !hasProps && !hasPatternProps && !hasAdditional {
		return nil, nil
	}

	out := &propertiesHandler{props: make(map[string]SchemaKey)}

	if props, ok := obj["properties"].(map[string]any); ok {
		names := make([]string, 0, len(props))
		for k := range props {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			key, err := cc.RequestSubschema(Pointer{"properties", k})
			if err != nil {
				return nil, err
			}
			out.props[k] = key
		}
	}

	if pp, ok := obj["patternProperties"].(map[string]any); ok {
		names := make([]string, 0, len(pp))
		for k := range pp {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if _, err := cc.RegexCache().Compile(k); err != nil {
				return nil, err
			}
			key, err := cc.RequestSubschema(Pointer{"patternProperties", k})
			if err != nil {
				return nil, err
			}
			out.patterns = append(out.patterns, patternSchema{pattern: k, key: key})
		}
	}

	if hasAdditional {
		key, err := cc.RequestSubschema(Pointer{"additionalProperties"})
		if err != nil {
			return nil, err
		}
		out.additional, out.hasAdditional = key, true
	}

	return out, nil
}

func (h *propertiesHandler) Evaluate(ec *EvalContext, instance any) error {
	obj, ok := instance.(map[string]any)
	loc := ec.Location.Keyword.Push("properties").String()
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}

	matched := make(map[string]bool, len(obj))

	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		if key, ok := h.props[name]; ok {
			n := ec.EvaluateAt(name, "properties/"+name, key, obj[name])
			ec.MarkKeyCovered(name)
			ec.Emit(n)
			matched[name] = true
		}
		for _, ps := range h.patterns {
			re, err := ec.Registry.regexCache.Compile(ps.pattern)
			if err != nil {
				return err
			}
			if re.MatchString(name) {
				n := ec.EvaluateAt(name, "patternProperties/"+ps.pattern, ps.key, obj[name])
				ec.MarkKeyCovered(name)
				ec.Emit(n)
				matched[name] = true
			}
		}
	}

	if h.hasAdditional {
		for _, name := range names {
			if matched[name] {
				continue
			}
			n := ec.EvaluateAt(name, "additionalProperties", h.additional, obj[name])
			ec.MarkKeyCovered(name)
			ec.Emit(n)
		}
	}

	return nil
}

// propertyNamesHandler implements "propertyNames".
type propertyNamesHandler struct{ key SchemaKey }

func (h *propertyNamesHandler) Name() string { return "propertyNames" }

func (h *propertyNamesHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := obj["propertyNames"]; !ok {
		return nil
	}
	return []Pointer{{"propertyNames"}}
}

func (h *propertyNamesHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := obj["propertyNames"]; !ok {
		return nil, nil
	}
	key, err := cc.RequestSubschema(Pointer{"propertyNames"})
	if err != nil {
		return nil, err
	}
	return &propertyNamesHandler{key: key}, nil
}

func (h *propertyNamesHandler) Evaluate(ec *EvalContext, instance any) error {
	obj, ok := instance.(map[string]any)
	loc := ec.Location.Keyword.Push("propertyNames").String()
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		n := ec.EvaluateAt(name, "propertyNames", h.key, name)
		ec.Emit(n)
	}
	return nil
}

// requiredHandler implements "required".
type requiredHandler struct{ names []string }

func (h *requiredHandler) Name() string { return "required" }

func (h *requiredHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	arr, ok := obj["required"].([]any)
	if !ok {
		return nil, nil
	}
	names := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return &requiredHandler{names: names}, nil
}

func (h *requiredHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push("required").String()
	obj, ok := instance.(map[string]any)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	var missing []string
	for _, name := range h.names {
		if _, ok := obj[name]; !ok {
			missing = append(missing, name)
		}
	}
	n := Node{Valid: len(missing) == 0, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()}
	if len(missing) > 0 {
		n.Error = NewEvaluationError("required", "required", "missing required properties: {missing}", map[string]any{"missing": missing})
	}
	ec.Emit(n)
	return nil
}

// dependentRequiredHandler implements 2019-09+'s "dependentRequired" and
// draft-04/07's combined "dependencies" when its values are string arrays.
type dependentRequiredHandler struct {
	deps map[string][]string
}

func (h *dependentRequiredHandler) Name() string { return "dependentRequired" }

func (h *dependentRequiredHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, ok := obj["dependentRequired"].(map[string]any)
	if !ok {
		raw, ok = obj["dependencies"].(map[string]any)
	}
	if !ok {
		return nil, nil
	}
	deps := make(map[string][]string)
	for k, v := range raw {
		arr, ok := v.([]any)
		if !ok {
			continue // object-schema form handled by dependentSchemasHandler
		}
		var names []string
		for _, el := range arr {
			if s, ok := el.(string); ok {
				names = append(names, s)
			}
		}
		deps[k] = names
	}
	if len(deps) == 0 {
		return nil, nil
	}
	return &dependentRequiredHandler{deps: deps}, nil
}

func (h *dependentRequiredHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push("dependentRequired").String()
	obj, ok := instance.(map[string]any)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	valid := true
	var missing []string
	for trigger, required := range h.deps {
		if _, present := obj[trigger]; !present {
			continue
		}
		for _, name := range required {
			if _, ok := obj[name]; !ok {
				valid = false
				missing = append(missing, name)
			}
		}
	}
	n := Node{Valid: valid, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()}
	if !valid {
		n.Error = NewEvaluationError("dependentRequired", "dependentRequired", "missing dependent required properties: {missing}", map[string]any{"missing": missing})
	}
	ec.Emit(n)
	return nil
}

// dependentSchemasHandler implements 2019-09+'s "dependentSchemas" and
// draft-04/07's "dependencies" when its values are subschemas.
type dependentSchemasHandler struct {
	deps map[string]SchemaKey
}

func (h *dependentSchemasHandler) Name() string { return "dependentSchemas" }

func (h *dependentSchemasHandler) Subschemas(value any) []Pointer {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	src, keyword := obj["dependentSchemas"], "dependentSchemas"
	if src == nil {
		src, keyword = obj["dependencies"], "dependencies"
	}
	raw, ok := src.(map[string]any)
	if !ok {
		return nil
	}
	var out []Pointer
	for k, v := range raw {
		if _, isSchema := v.(map[string]any); isSchema {
			out = append(out, Pointer{keyword, k})
		} else if _, isBool := v.(bool); isBool {
			out = append(out, Pointer{keyword, k})
		}
	}
	return out
}

func (h *dependentSchemasHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	src, keyword := obj["dependentSchemas"], "dependentSchemas"
	if src == nil {
		src, keyword = obj["dependencies"], "dependencies"
	}
	raw, ok := src.(map[string]any)
	if !ok {
		return nil, nil
	}
	deps := make(map[string]SchemaKey)
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		v := raw[k]
		if _, isArr := v.([]any); isArr {
			continue // handled by dependentRequiredHandler
		}
		key, err := cc.RequestSubschema(Pointer{keyword, k})
		if err != nil {
			return nil, err
		}
		deps[k] = key
	}
	if len(deps) == 0 {
		return nil, nil
	}
	return &dependentSchemasHandler{deps: deps}, nil
}

func (h *dependentSchemasHandler) Evaluate(ec *EvalContext, instance any) error {
	loc := ec.Location.Keyword.Push("dependentSchemas").String()
	obj, ok := instance.(map[string]any)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: loc, InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	triggers := make([]string, 0, len(h.deps))
	for k := range h.deps {
		triggers = append(triggers, k)
	}
	sort.Strings(triggers)
	for _, trigger := range triggers {
		if _, present := obj[trigger]; !present {
			continue
		}
		n := ec.EvaluateAt("", "dependentSchemas/"+trigger, h.deps[trigger], instance)
		if n.Valid {
			ec.MergeNodeCoverage(n)
		}
		ec.Emit(n)
	}
	return nil
}
