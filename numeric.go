package jsonschema

import "math/big"

// numericCompareHandler covers "multipleOf", "maximum", "minimum", and the
// 2019-09+ numeric-valued "exclusiveMaximum"/"exclusiveMinimum", all of
// which compare the instance against a single numeric literal using the
// shared NumberCache (spec §3.7).
type numericCompareHandler struct {
	keyword string
	op      numericOp
	limit   *Rat
}

type numericOp int

const (
	opMultipleOf numericOp = iota
	opMaximum
	opMinimum
	opExclusiveMaximum
	opExclusiveMinimum
)

func newNumericHandler(keyword string, op numericOp) *numericCompareHandler {
	return &numericCompareHandler{keyword: keyword, op: op}
}

func (h *numericCompareHandler) Name() string { return h.keyword }

func (h *numericCompareHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, ok := obj[h.keyword]
	if !ok {
		return nil, nil
	}
	// draft-04's boolean exclusiveMinimum/exclusiveMaximum is handled by
	// exclusiveBoolHandler instead; a boolean here means this (numeric)
	// variant doesn't apply.
	if _, isBool := raw.(bool); isBool {
		return nil, nil
	}
	limit, err := cc.NumberCache().Parse(raw)
	if err != nil {
		return nil, err
	}
	return &numericCompareHandler{keyword: h.keyword, op: h.op, limit: limit}, nil
}

func (h *numericCompareHandler) Evaluate(ec *EvalContext, instance any) error {
	num, ok := asNumber(instance)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: ec.Location.Keyword.Push(h.keyword).String(), InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	inst := ec.Registry.numCache
	val, err := inst.Parse(num)
	if err != nil {
		return err
	}

	var ok2 bool
	switch h.op {
	case opMultipleOf:
		if val.Sign() == 0 {
			ok2 = true
		} else {
			quotient := new(big.Rat).Quo(val.Rat, h.limit.Rat)
			ok2 = quotient.IsInt()
		}
	case opMaximum:
		ok2 = val.Cmp(h.limit.Rat) <= 0
	case opMinimum:
		ok2 = val.Cmp(h.limit.Rat) >= 0
	case opExclusiveMaximum:
		ok2 = val.Cmp(h.limit.Rat) < 0
	case opExclusiveMinimum:
		ok2 = val.Cmp(h.limit.Rat) > 0
	}

	n := Node{
		Valid:            ok2,
		KeywordLocation:  ec.Location.Keyword.Push(h.keyword).String(),
		InstanceLocation: ec.Location.Instance.String(),
	}
	if !ok2 {
		n.Error = NewEvaluationError(h.keyword, h.keyword, "value fails "+h.keyword+" constraint")
	}
	ec.Emit(n)
	return nil
}

func asNumber(v any) (any, bool) {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return v, true
	default:
		return nil, false
	}
}

// exclusiveBoolHandler covers draft-04's boolean-form
// "exclusiveMinimum"/"exclusiveMaximum", which modifies the adjacent
// "minimum"/"maximum" keyword rather than standing alone.
type exclusiveBoolHandler struct {
	keyword      string // "exclusiveMinimum" or "exclusiveMaximum"
	counterpart  string // "minimum" or "maximum"
	exclusive    bool
	limit        *Rat
}

func (h *exclusiveBoolHandler) Name() string { return h.keyword }

func (h *exclusiveBoolHandler) Compile(cc *CompileContext, value any) (Handler, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	excl, ok := obj[h.keyword].(bool)
	if !ok {
		return nil, nil
	}
	limitRaw, ok := obj[h.counterpart]
	if !ok {
		return nil, nil
	}
	limit, err := cc.NumberCache().Parse(limitRaw)
	if err != nil {
		return nil, err
	}
	return &exclusiveBoolHandler{keyword: h.keyword, counterpart: h.counterpart, exclusive: excl, limit: limit}, nil
}

func (h *exclusiveBoolHandler) Evaluate(ec *EvalContext, instance any) error {
	num, ok := asNumber(instance)
	if !ok {
		ec.Emit(Node{Valid: true, KeywordLocation: ec.Location.Keyword.Push(h.counterpart).String(), InstanceLocation: ec.Location.Instance.String()})
		return nil
	}
	val, err := ec.Registry.numCache.Parse(num)
	if err != nil {
		return err
	}

	var ok2 bool
	isMax := h.counterpart == "maximum"
	cmp := val.Cmp(h.limit.Rat)
	switch {
	case isMax && h.exclusive:
		ok2 = cmp < 0
	case isMax:
		ok2 = cmp <= 0
	case h.exclusive:
		ok2 = cmp > 0
	default:
		ok2 = cmp >= 0
	}

	n := Node{
		Valid:            ok2,
		KeywordLocation:  ec.Location.Keyword.Push(h.counterpart).String(),
		InstanceLocation: ec.Location.Instance.String(),
	}
	if !ok2 {
		n.Error = NewEvaluationError(h.counterpart, h.counterpart, "value fails "+h.counterpart+" constraint")
	}
	ec.Emit(n)
	return nil
}
