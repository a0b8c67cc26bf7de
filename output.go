package jsonschema

// Node is the single structure every granularity's output is built from
// (spec §4.5.4), keeping keyword handlers from ever branching on
// granularity themselves — they only ever build a Node and call
// ctx.Emit(node).
type Node struct {
	Valid                   bool              `json:"valid"`
	InstanceLocation        string            `json:"instanceLocation"`
	KeywordLocation         string            `json:"keywordLocation"`
	AbsoluteKeywordLocation string            `json:"absoluteKeywordLocation,omitempty"`
	Annotation              any               `json:"annotation,omitempty"`
	Error                   *EvaluationError  `json:"error,omitempty"`
	Annotations             []Node            `json:"annotations,omitempty"`
	Errors                  []Node            `json:"errors,omitempty"`

	// coverage carries the evaluated-item/evaluated-property set this
	// node's schema scope accumulated, for applicators to fold back into
	// their own scope per spec §4.5.2. Not serialized.
	coverage *scopeState
}

// SetValid implements the uniform granularity-agnostic setter surface of
// spec §4.5.4: "All four support set_valid(bool) ... For Detailed and
// Verbose, setting validity also adjusts annotation/error to None if the
// previous value is inconsistent with the new validity."
func (n *Node) SetValid(v bool) {
	n.Valid = v
	if v && n.Error != nil {
		n.Error = nil
	}
	if !v && n.Annotation != nil {
		n.Annotation = nil
	}
}

// SetAnnotation records a successful keyword's annotation payload.
func (n *Node) SetAnnotation(a any) { n.Annotation = a }

// SetError records a failed keyword's error.
func (n *Node) SetError(err *EvaluationError) { n.Error = err }

// IsValid reports the node's current validity.
func (n *Node) IsValid() bool { return n.Valid }

// OutputSink accumulates Nodes for one evaluation at a fixed granularity
// (spec §4.5.4).
type OutputSink interface {
	push(n Node)
	valid() bool
	result() Node
}

func newSink(g OutputGranularity) OutputSink {
	switch g {
	case GranularityFlag:
		return &flagSink{ok: true}
	case GranularityBasic:
		return &basicSink{ok: true}
	case GranularityDetailed:
		return &detailedSink{ok: true}
	default:
		return &verboseSink{ok: true}
	}
}

// flagSink: "a single boolean plus opaque additional properties. push(node)
// conjoins validity; child nodes are discarded."
type flagSink struct{ ok bool }

func (s *flagSink) push(n Node) { s.ok = s.ok && n.Valid }
func (s *flagSink) valid() bool { return s.ok }
func (s *flagSink) result() Node { return Node{Valid: s.ok} }

// basicSink: "a flat list of leaf nodes. push(node) appends the child's
// nodes to the parent and conjoins validity."
type basicSink struct {
	ok    bool
	nodes []Node
}

func (s *basicSink) push(n Node) {
	s.ok = s.ok && n.Valid
	s.nodes = append(s.nodes, flattenLeaves(n)...)
}
func (s *basicSink) valid() bool { return s.ok }
func (s *basicSink) result() Node {
	n := Node{Valid: s.ok}
	for _, leaf := range s.nodes {
		if leaf.Valid {
			n.Annotations = append(n.Annotations, leaf)
		} else {
			n.Errors = append(n.Errors, leaf)
		}
	}
	return n
}

func flattenLeaves(n Node) []Node {
	if len(n.Annotations) == 0 && len(n.Errors) == 0 {
		return []Node{n}
	}
	var out []Node
	out = append(out, n.Annotations...)
	out = append(out, n.Errors...)
	return out
}

// detailedSink: "a tree; nodes with no children collapse up; single-child
// branches collapse through. Transient nodes ... are folded into their
// parent's nodes rather than preserved."
type detailedSink struct {
	ok    bool
	nodes []Node
}

func (s *detailedSink) push(n Node) {
	s.ok = s.ok && n.Valid
	s.nodes = append(s.nodes, collapseDetailed(n))
}
func (s *detailedSink) valid() bool { return s.ok }
func (s *detailedSink) result() Node {
	n := Node{Valid: s.ok}
	n.Errors, n.Annotations = partitionByValidity(s.nodes)
	return n
}

func collapseDetailed(n Node) Node {
	children := append(append([]Node(nil), n.Annotations...), n.Errors...)
	switch len(children) {
	case 0:
		return n
	case 1:
		return children[0]
	default:
		n.Errors, n.Annotations = partitionByValidity(children)
		return n
	}
}

func partitionByValidity(nodes []Node) (errs, anns []Node) {
	for _, c := range nodes {
		if c.Valid {
			anns = append(anns, c)
		} else {
			errs = append(errs, c)
		}
	}
	return
}

// verboseSink: "a full tree; no folding; every evaluated keyword produces a
// node."
type verboseSink struct {
	ok    bool
	nodes []Node
}

func (s *verboseSink) push(n Node) {
	s.ok = s.ok && n.Valid
	s.nodes = append(s.nodes, n)
}
func (s *verboseSink) valid() bool { return s.ok }
func (s *verboseSink) result() Node {
	n := Node{Valid: s.ok}
	n.Errors, n.Annotations = partitionByValidity(s.nodes)
	return n
}

// DetectGranularity implements the deserialization-side sniffing rule of
// spec §4.5.5: an explicit "fmt" field wins; otherwise nested
// annotations/errors imply Detailed/Verbose (Verbose when the tree mixes
// valid and invalid nodes), flat annotations/errors imply Basic, else Flag.
func DetectGranularity(raw map[string]any) OutputGranularity {
	if fmtVal, ok := raw["fmt"].(string); ok {
		switch fmtVal {
		case "flag":
			return GranularityFlag
		case "basic":
			return GranularityBasic
		case "detailed":
			return GranularityDetailed
		case "verbose":
			return GranularityVerbose
		}
	}

	hasNested := false
	mixed := false
	for _, key := range []string{"annotations", "errors"} {
		list, ok := raw[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			child, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := child["annotations"]; ok {
				hasNested = true
			}
			if _, ok := child["errors"]; ok {
				hasNested = true
			}
			if v, ok := child["valid"].(bool); ok {
				if v {
					mixed = mixed || key == "errors"
				} else {
					mixed = mixed || key == "annotations"
				}
			}
		}
	}
	if hasNested {
		if mixed {
			return GranularityVerbose
		}
		return GranularityDetailed
	}
	if _, ok := raw["annotations"]; ok {
		return GranularityBasic
	}
	if _, ok := raw["errors"]; ok {
		return GranularityBasic
	}
	return GranularityFlag
}
