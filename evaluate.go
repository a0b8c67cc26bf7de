package jsonschema

import "fmt"

// Evaluate is the top-level entrypoint (spec §4.5.1): evaluate the schema
// named by key against instance, at the requested granularity, returning
// the finished output Node.
func (r *Registry) Evaluate(key SchemaKey, instance any, granularity OutputGranularity) (Node, error) {
	root := NewEvalContext(r, granularity)
	return root.EvaluateSchema(key, instance), nil
}

// EvaluateSchema runs the dispatch loop of spec §4.5.1 for key against
// instance: push the schema's key onto the dynamic scope stack, invoke
// every bound handler's Evaluate capability in dialect order into a fresh
// per-schema sink, pop the stack, and conjoin validity.
func (ec *EvalContext) EvaluateSchema(key SchemaKey, instance any) Node {
	cs, ok := ec.Registry.Schema(key)
	if !ok {
		return Node{
			Valid: false,
			Error: NewEvaluationError("$ref", "unknown-schema", "unknown schema key"),
		}
	}

	if cs.IsBool {
		return Node{
			Valid:                   cs.BoolValue,
			InstanceLocation:        ec.Location.Instance.String(),
			KeywordLocation:         ec.Location.Keyword.String(),
			AbsoluteKeywordLocation: cs.URI,
		}
	}

	child := ec.WithSink()
	child.push(key)

	for _, h := range cs.Handlers {
		ev, ok := h.(Evaluator)
		if !ok {
			continue
		}
		if err := ev.Evaluate(child, instance); err != nil {
			child.Emit(Node{
				Valid:            false,
				InstanceLocation: child.Location.Instance.String(),
				KeywordLocation:  child.Location.Keyword.String(),
				Error:            asEvaluationError(h.Name(), err),
			})
		}
	}

	scope := child.pop()

	n := child.Sink().result()
	n.InstanceLocation = child.Location.Instance.String()
	n.KeywordLocation = child.Location.Keyword.String()
	n.AbsoluteKeywordLocation = cs.URI
	n.coverage = scope
	return n
}

// EvaluateAt runs a nested schema evaluation at keyword/instance
// descendants of ec, for applicator handlers (allOf/properties/items/...)
// that need a child Context before delegating to EvaluateSchema. The
// caller decides, per spec §4.5.2's per-applicator rules, whether to fold
// the returned node's coverage back into ec via MergeNodeCoverage.
func (ec *EvalContext) EvaluateAt(instanceTok, keywordTok string, key SchemaKey, instance any) Node {
	return ec.Nested(instanceTok, keywordTok).EvaluateSchema(key, instance)
}

// MergeNodeCoverage folds n's recorded coverage into ec's current scope,
// the explicit call every applicator makes when spec §4.5.2 says this
// branch's coverage should count (allOf: always for branches that passed;
// anyOf/oneOf: only validated branches; if/then/else: only the effectively
// taken branches; $ref: always).
func (ec *EvalContext) MergeNodeCoverage(n Node) {
	ec.MergeCoverage(n.coverage)
}

func asEvaluationError(keyword string, err error) *EvaluationError {
	if ee, ok := err.(*EvaluationError); ok {
		return ee
	}
	return NewEvaluationError(keyword, "evaluate-error", fmt.Sprint(err))
}
