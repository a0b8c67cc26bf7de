package jsonschema

import "sync"

// SchemaKey is an opaque, process-local, dense handle to a compiled schema.
// Keys are stable for the lifetime of the Registry that minted them and are
// never reused, even if the schema they name becomes unreachable (spec §3.4).
type SchemaKey uint32

// Location threads the three coordinates every Node and every keyword site
// needs (supplemented from original_source/grill/src/location.rs, see
// SPEC_FULL.md "Supplemented features"): the relative keyword location, the
// resource-absolute keyword location, and the instance location.
type Location struct {
	Keyword         Pointer
	AbsoluteKeyword string
	Instance        Pointer
}

// Nested returns a copy of l with instanceTok appended to Instance and
// keywordTok appended to both Keyword and AbsoluteKeyword, the single
// allocation-light descent helper SPEC_FULL.md calls for in place of three
// separate pointer-concats at every keyword call site.
func (l Location) Nested(instanceTok, keywordTok string) Location {
	out := l
	if instanceTok != "" {
		out.Instance = l.Instance.Push(instanceTok)
	}
	if keywordTok != "" {
		out.Keyword = l.Keyword.Push(keywordTok)
		out.AbsoluteKeyword = l.AbsoluteKeyword + "/" + keywordTok
	}
	return out
}

// CompiledSchema is one compiled-schema record (spec §3.4): its canonical
// URI, owning dialect, bound handlers in dialect order, and the static
// structural facts recorded at compile time.
type CompiledSchema struct {
	Key       SchemaKey
	URI       string // canonical absolute URI (no fragment, or with pointer/anchor fragment)
	DialectID string
	Handlers  []Handler

	// Parent is the key of the schema this one was discovered as a
	// subschema of, or 0 (an invalid key, never minted) for roots.
	Parent SchemaKey
	// IsRoot reports whether this schema is a root of its resource (its
	// canonical URI has no fragment, or an empty one).
	IsRoot bool

	// DynamicAnchors lists the dynamic anchor names this schema's resource
	// defines (spec §4.4 "Anchors" — dynamic anchors are recorded but not
	// resolved at compile time).
	DynamicAnchors []string

	// BoolValue is set, with Handlers left nil, when the schema value was
	// a bare JSON boolean (always-pass / always-fail).
	IsBool   bool
	BoolValue bool

	Value any
}

// Registry ties together the source registry, dialect registry, compiled
// schemas, alias table, anchor index, and number/regex caches, guarded by a
// single RWMutex per spec §5 (compile is single-threaded; evaluate may run
// concurrently from many goroutines once compile has returned).
type Registry struct {
	mu sync.RWMutex

	Sources  *SourceRegistry
	Dialects *DialectRegistry

	schemas map[SchemaKey]*CompiledSchema
	aliases map[string]SchemaKey // absolute uri (incl. fragment) -> key
	anchorIdx map[string]*AnchorIndex // source base uri -> its anchor index

	numCache   *NumberCache
	regexCache *RegexCache

	nextKey SchemaKey
}

// NewRegistry builds a Registry wired with the default json/yaml
// deserializers, the default http(s) resolver, and the four built-in
// dialects (spec §4.3's fixed Draft4/Draft7/2019-09/2020-12 order).
func NewRegistry() *Registry {
	sr := NewSourceRegistry()
	registerDefaultDeserializers(sr)
	sr.RegisterResolver("http", NewHTTPResolver())

	reg := &Registry{
		Sources:   sr,
		Dialects:  NewDialectRegistry(),
		schemas:   make(map[SchemaKey]*CompiledSchema),
		aliases:   make(map[string]SchemaKey),
		anchorIdx: make(map[string]*AnchorIndex),
		numCache:  NewNumberCache(),
		regexCache: NewRegexCache(),
		nextKey:   1,
	}
	registerBuiltinDialects(reg.Dialects)
	return reg
}

func (r *Registry) allocKey() SchemaKey {
	k := r.nextKey
	r.nextKey++
	return k
}

// keyFor returns the key allocated for uri, allocating a fresh one if none
// exists yet (spec §4.4 allocation table: "filled the moment a URI is first
// observed, before its compiled record exists").
func (r *Registry) keyFor(uri string) SchemaKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.aliases[uri]; ok {
		return k
	}
	k := r.allocKey()
	r.aliases[uri] = k
	return k
}

// alias records that uri also names key, without allocating if uri is
// already aliased to a different key (callers resolve that conflict
// themselves; identify-driven canonicalization never aliases two distinct
// existing keys together).
func (r *Registry) alias(uri string, key SchemaKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[uri] = key
}

func (r *Registry) lookupKey(uri string) (SchemaKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.aliases[uri]
	return k, ok
}

func (r *Registry) compiledRecord(key SchemaKey) (*CompiledSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cs, ok := r.schemas[key]
	return cs, ok
}

func (r *Registry) store(cs *CompiledSchema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[cs.Key] = cs
}

// Schema returns the compiled schema for key, per spec §6.3's
// lookup-by-key contract.
func (r *Registry) Schema(key SchemaKey) (*CompiledSchema, bool) {
	return r.compiledRecord(key)
}

// SchemaByURI returns the compiled schema registered under uri, if any.
func (r *Registry) SchemaByURI(uri string) (*CompiledSchema, bool) {
	key, ok := r.lookupKey(uri)
	if !ok {
		return nil, false
	}
	return r.compiledRecord(key)
}

func (r *Registry) anchorIndexFor(baseURI string) *AnchorIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.anchorIdx[baseURI]
	if !ok {
		idx = NewAnchorIndex()
		r.anchorIdx[baseURI] = idx
	}
	return idx
}
