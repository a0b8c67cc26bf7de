package jsonschema

import "sync"

// AnchorEntry records one anchor discovered during compile, per source
// resource (spec §4.4 "Anchors").
type AnchorEntry struct {
	Name string
	Kind AnchorKind
	// Key is the owning schema's key. Valid for both plain and dynamic
	// anchors; dynamic anchors additionally participate in the dynamic
	// scope walk of spec §4.5.3 rather than being resolved here.
	Key SchemaKey
}

// AnchorIndex maps anchor names to their entries within one source
// resource, populated as step (f) of the compile algorithm and consulted
// both for plain-anchor $ref resolution (compile time) and dynamic-anchor
// walks (evaluation time).
type AnchorIndex struct {
	mu      sync.RWMutex
	entries map[string]AnchorEntry
}

func NewAnchorIndex() *AnchorIndex {
	return &AnchorIndex{entries: make(map[string]AnchorEntry)}
}

// Record validates name against the identifier grammar and stores it, per
// spec §4.4's anchor-validation failure modes. An empty name is accepted
// for any AnchorDynamic entry (the form $recursiveAnchor is recorded
// under); since $dynamicAnchor shares that kind, an empty $dynamicAnchor is
// accepted as well. Empty plain anchors are rejected.
func (a *AnchorIndex) Record(name string, kind AnchorKind, key SchemaKey) error {
	if name == "" {
		if kind != AnchorDynamic {
			return ErrAnchorMalformed
		}
	} else if !isValidAnchorName(name) {
		return ErrAnchorMalformed
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[name] = AnchorEntry{Name: name, Kind: kind, Key: key}
	return nil
}

// Lookup returns the entry recorded under name, if any.
func (a *AnchorIndex) Lookup(name string) (AnchorEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[name]
	return e, ok
}

// HasDynamic reports whether this resource declares a dynamic anchor named
// name, used by the dynamic scope walk of spec §4.5.3.
func (a *AnchorIndex) HasDynamic(name string) (SchemaKey, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[name]
	if !ok || e.Kind != AnchorDynamic {
		return 0, false
	}
	return e.Key, true
}
