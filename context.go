package jsonschema

// OutputGranularity selects which of the four output shapes (spec §4.5.4)
// an evaluation produces.
type OutputGranularity int

const (
	GranularityFlag OutputGranularity = iota
	GranularityBasic
	GranularityDetailed
	GranularityVerbose
)

// scopeState is the per-schema-scope mutable bookkeeping pushed/popped
// around each schema's evaluation: the dynamic scope stack entry itself,
// plus the evaluated-item/evaluated-property coverage tracked for
// unevaluatedItems/unevaluatedProperties (spec §4.5.2).
type scopeState struct {
	key           SchemaKey
	coveredIndices map[int]bool
	coveredKeys    map[string]bool
}

func newScopeState(key SchemaKey) *scopeState {
	return &scopeState{key: key, coveredIndices: make(map[int]bool), coveredKeys: make(map[string]bool)}
}

// EvalContext is the Context of spec §4.5: the current instance/keyword
// pointers, the dynamic scope stack, references to every registry an
// evaluate call might need, and the requested output granularity.
type EvalContext struct {
	Registry *Registry
	Location Location

	stack []*scopeState
	sink  OutputSink

	Granularity OutputGranularity
}

// NewEvalContext starts a fresh evaluation with an empty scope stack,
// writing output through a sink matching granularity.
func NewEvalContext(reg *Registry, granularity OutputGranularity) *EvalContext {
	return &EvalContext{
		Registry:    reg,
		Granularity: granularity,
		sink:        newSink(granularity),
	}
}

// top returns the innermost scope, or nil if the stack is empty.
func (ec *EvalContext) top() *scopeState {
	if len(ec.stack) == 0 {
		return nil
	}
	return ec.stack[len(ec.stack)-1]
}

// push enters a new schema scope (spec §4.5.1 step 1).
func (ec *EvalContext) push(key SchemaKey) {
	ec.stack = append(ec.stack, newScopeState(key))
}

// pop exits the current schema scope (step 3).
func (ec *EvalContext) pop() *scopeState {
	s := ec.stack[len(ec.stack)-1]
	ec.stack = ec.stack[:len(ec.stack)-1]
	return s
}

// DynamicScope returns the keys currently being evaluated, outermost
// first, for dynamic-ref resolution (spec §4.5.3).
func (ec *EvalContext) DynamicScope() []SchemaKey {
	out := make([]SchemaKey, len(ec.stack))
	for i, s := range ec.stack {
		out[i] = s.key
	}
	return out
}

// MarkIndexCovered records that arr[idx] was covered by an applicator in
// the current schema scope.
func (ec *EvalContext) MarkIndexCovered(idx int) {
	if s := ec.top(); s != nil {
		s.coveredIndices[idx] = true
	}
}

// MarkKeyCovered records that obj[key] was covered.
func (ec *EvalContext) MarkKeyCovered(key string) {
	if s := ec.top(); s != nil {
		s.coveredKeys[key] = true
	}
}

// IsIndexCovered reports whether idx was covered in the current scope.
func (ec *EvalContext) IsIndexCovered(idx int) bool {
	s := ec.top()
	return s != nil && s.coveredIndices[idx]
}

// IsKeyCovered reports whether key was covered in the current scope.
func (ec *EvalContext) IsKeyCovered(key string) bool {
	s := ec.top()
	return s != nil && s.coveredKeys[key]
}

// MergeCoverage folds a subordinate scope's coverage into the current
// scope, per spec §4.5.2's in-place-applicator propagation rules. Callers
// (allOf/anyOf/oneOf for passing branches; if-then-else for the taken
// branch; $ref always) call
// this only when the subordinate branch is one whose coverage should count.
func (ec *EvalContext) MergeCoverage(sub *scopeState) {
	cur := ec.top()
	if cur == nil || sub == nil {
		return
	}
	for idx := range sub.coveredIndices {
		cur.coveredIndices[idx] = true
	}
	for key := range sub.coveredKeys {
		cur.coveredKeys[key] = true
	}
}

// Nested returns a child EvalContext descending to instanceTok/keywordTok,
// sharing the same stack and sink (so coverage and output both thread
// through correctly), per the Location.Nested helper.
func (ec *EvalContext) Nested(instanceTok, keywordTok string) *EvalContext {
	child := *ec
	child.Location = ec.Location.Nested(instanceTok, keywordTok)
	return &child
}

// Emit writes a finished Node to the current sink.
func (ec *EvalContext) Emit(n Node) {
	ec.sink.push(n)
}

// Sink exposes the underlying OutputSink; EvaluateSchema reads its finished
// Node from the sink of the context it created with WithSink.
func (ec *EvalContext) Sink() OutputSink { return ec.sink }

// WithSink returns a copy of ec writing through a fresh sink of the same
// granularity, with its own copy of the scope stack. EvaluateSchema uses it
// so each schema's keyword nodes collect into a Node of their own.
func (ec *EvalContext) WithSink() *EvalContext {
	child := *ec
	child.sink = newSink(ec.Granularity)
	child.stack = append([]*scopeState(nil), ec.stack...)
	return &child
}
