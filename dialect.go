package jsonschema

import "fmt"

// Dialect is a named, registered set of keyword handlers plus the
// metaschemas that describe it (spec §3.3). A Dialect is built from named
// Vocabularies rather than one flat handler list (supplemented from
// original_source/grill/src/dialect.rs's Vocabulary type), so a meta-schema's
// "$vocabulary" can be matched against vocabulary names during classification.
type Dialect struct {
	ID                string
	PrimaryMetaschema string
	Metaschemas       []string
	Vocabularies      []Vocabulary
}

// Vocabulary is a named bundle of keyword Handlers. 2019-09+ meta-schemas
// declare required/optional vocabularies by URI via "$vocabulary"; this
// mirrors that structure instead of flattening every dialect to one handler
// list.
type Vocabulary struct {
	URI      string
	Handlers []Handler
}

// handlers returns the dialect's full handler list, in vocabulary
// registration order, which is also dialect dispatch order for compile and
// evaluate (spec §4.5.1: "in the dialect's declared order").
func (d Dialect) handlers() []Handler {
	var out []Handler
	for _, v := range d.Vocabularies {
		out = append(out, v.Handlers...)
	}
	return out
}

func (d Dialect) pertinentHandler() (DialectDetector, bool) {
	for _, h := range d.handlers() {
		if dd, ok := h.(DialectDetector); ok {
			return dd, true
		}
	}
	return nil, false
}

func (d Dialect) identifyHandler() (Identifier, bool) {
	for _, h := range d.handlers() {
		if id, ok := h.(Identifier); ok {
			return id, true
		}
	}
	return nil, false
}

// DialectRegistry holds the registered dialects and the default dialect
// used when a document declares none (spec §4.3).
type DialectRegistry struct {
	order   []string // registration order, by ID
	byID    map[string]Dialect
	default_ string
}

// NewDialectRegistry returns an empty registry; NewRegistry wires in the
// four built-in dialects via registerBuiltinDialects.
func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{byID: make(map[string]Dialect)}
}

// Register adds d, returning ErrDialectDuplicate if its ID is already
// registered, and validates the construction invariants of spec §4.3.
func (dr *DialectRegistry) Register(d Dialect) error {
	parsed, err := ParseURI(d.ID)
	if err != nil {
		return err
	}
	if parsed.HasFragment() && parsed.Fragment() != "" {
		return ErrDialectFragmentedID
	}
	if _, exists := dr.byID[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDialectDuplicate, d.ID)
	}

	found := false
	for _, m := range d.Metaschemas {
		if m == d.PrimaryMetaschema {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrDialectPrimaryMetaMissing, d.ID)
	}

	handlers := d.handlers()
	haveDialect, haveIdentify := false, false
	for _, h := range handlers {
		if _, ok := h.(DialectDetector); ok {
			haveDialect = true
		}
		if _, ok := h.(Identifier); ok {
			haveIdentify = true
		}
	}
	// This module's DialectDetector doubles as the is_pertinent_to test
	// (a dialect's own $schema sniffer is exactly "does this belong to
	// you?"), so the two construction invariants share one check.
	if !haveDialect {
		return fmt.Errorf("%w: %s", ErrDialectNoDialectDetect, d.ID)
	}
	if !haveIdentify {
		return fmt.Errorf("%w: %s", ErrDialectNoIdentify, d.ID)
	}

	dr.order = append(dr.order, d.ID)
	dr.byID[d.ID] = d
	return nil
}

// SetDefault designates the fallback dialect used when a document declares
// no recognizable $schema, returning ErrDialectDefaultNotFound if id isn't
// registered.
func (dr *DialectRegistry) SetDefault(id string) error {
	if _, ok := dr.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrDialectDefaultNotFound, id)
	}
	dr.default_ = id
	return nil
}

// Lookup returns the dialect registered under id.
func (dr *DialectRegistry) Lookup(id string) (Dialect, bool) {
	d, ok := dr.byID[id]
	return d, ok
}

// Default returns the registry's fallback dialect.
func (dr *DialectRegistry) Default() (Dialect, error) {
	if dr.default_ == "" {
		return Dialect{}, ErrDialectRegistryEmpty
	}
	d, ok := dr.byID[dr.default_]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: %s", ErrDialectDefaultNotFound, dr.default_)
	}
	return d, nil
}

// ApplyVocabulary validates a meta-schema's "$vocabulary" object (spec §3.3
// / SPEC_FULL.md's supplemented $vocabulary handling) against d's named
// vocabularies: a vocabulary named true that this dialect doesn't recognize
// is unknown-and-required, which §3.3 requires rejecting. Vocabularies
// named false are optional, and an implementation is free to ignore them
// entirely — since every vocabulary this dialect knows is always fully
// implemented, "optional" and "required-and-known" both leave the dialect
// unchanged; only "required-and-unknown" is observable. A dialect with no
// named vocabularies (draft-04/07, which predate "$vocabulary") is always
// accepted.
func (d Dialect) ApplyVocabulary(declared map[string]bool) (Dialect, error) {
	if len(declared) == 0 || len(d.Vocabularies) == 0 {
		return d, nil
	}
	known := make(map[string]bool, len(d.Vocabularies))
	for _, v := range d.Vocabularies {
		if v.URI == d.ID {
			// draft-04/07's single vocabulary is the dialect itself, not a
			// named vocabulary.
			continue
		}
		known[v.URI] = true
	}
	if len(known) == 0 {
		return d, nil
	}
	for uri, required := range declared {
		if required && !known[uri] {
			return Dialect{}, fmt.Errorf("%w: %s", ErrDialectUnknownVocabulary, uri)
		}
	}
	return d, nil
}

// Classify implements the dialect-selection algorithm of spec §4.3: prefer
// an explicit, registered $schema; fall back to each dialect's own
// DialectDetector handlers in registration order; fall back to the default.
func (dr *DialectRegistry) Classify(value any) (Dialect, error) {
	if len(dr.order) == 0 {
		return Dialect{}, ErrDialectRegistryEmpty
	}

	if obj, ok := value.(map[string]any); ok {
		if raw, ok := obj["$schema"].(string); ok {
			if _, perr := ParseURI(raw); perr == nil {
				if d, ok := dr.byID[raw]; ok {
					return d, nil
				}
			}
		}
	}

	for _, id := range dr.order {
		d := dr.byID[id]
		dd, ok := d.pertinentHandler()
		if !ok {
			continue
		}
		if uri, found := dd.DetectDialect(value); found {
			if target, ok := dr.byID[uri]; ok {
				return target, nil
			}
		}
	}

	return dr.Default()
}
