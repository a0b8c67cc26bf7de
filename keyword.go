package jsonschema

// Handler is the minimal capability every keyword handler implements:
// compiling runtime state out of a single schema value. A handler that
// finds nothing pertinent to it in value returns a nil Handler, per spec
// §4.6 ("returning Stop indicates this handler declines").
type Handler interface {
	// Name identifies the handler for diagnostics and dialect-table wiring
	// (e.g. "properties", "$ref", "exclusiveMinimum").
	Name() string

	// Compile binds runtime state from value (already dialect-classified,
	// already identified/anchored/subschema'd by L4) and returns the bound
	// Handler, or nil when this handler is not pertinent to value at all.
	Compile(cc *CompileContext, value any) (Handler, error)
}

// Evaluator is the capability most handlers implement: producing output
// nodes for an instance value during L5 evaluation.
type Evaluator interface {
	Evaluate(ec *EvalContext, instance any) error
}

// SubschemaLocator identifies embedded subschema locations within a schema
// value, each a JSON Pointer relative to the schema's own location.
type SubschemaLocator interface {
	Subschemas(value any) []Pointer
}

// AnchorLocator identifies anchors defined at this schema value.
type AnchorLocator interface {
	Anchors(value any) []AnchorDecl
}

// Identifier extracts a schema value's own identifier URI, if any.
type Identifier interface {
	Identify(value any) (string, bool)
}

// DialectDetector extracts a document's dialect identifier URI, used by L3
// step 2 of dialect selection when no (or an unrecognized) $schema is
// present.
type DialectDetector interface {
	DetectDialect(value any) (string, bool)
}

// RefLocator identifies references leaving this schema value. Relative is
// resolved by the compiler against the schema's canonical URI.
type RefLocator interface {
	Refs(value any) []RefDecl
}

// RefDecl is one reference discovered by a RefLocator, naming the pointer
// within the schema value where the reference lives and the (possibly
// relative) URI it names.
type RefDecl struct {
	// At is the pointer, relative to the owning schema, of the keyword
	// that carries this reference (e.g. Pointer{"$ref"} or
	// Pointer{"$dynamicRef"}).
	At Pointer
	// URI is the raw reference string as written in the schema.
	URI string
	// Dynamic marks $dynamicRef/$recursiveRef, which are not static edges
	// for cycle-detection purposes (spec §4.4 step k) and which resolve
	// against the dynamic scope stack rather than a fixed key (§4.5.3).
	Dynamic bool
}

// AnchorKind distinguishes plain, compile-time-resolved anchors from
// dynamic anchors resolved against the evaluation-time dynamic scope stack
// (spec §4.4 "Anchors").
type AnchorKind int

const (
	AnchorPlain AnchorKind = iota
	AnchorDynamic
)

// AnchorDecl is one anchor discovered by an AnchorLocator.
type AnchorDecl struct {
	Name string
	Kind AnchorKind
}

// The optional capabilities above have no "not implemented" sentinel value:
// a Handler lacking one simply does not implement the corresponding
// interface, and callers type-assert for it.
