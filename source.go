package jsonschema

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// Source represents one deserialized JSON document together with its
// canonical absolute URI, the format it was recognized as, and a map from
// JSON Pointer to child absolute URI created as subschemas with $id are
// discovered (spec §3.2).
type Source struct {
	URI    string
	Format string
	Value  any

	mu    sync.RWMutex
	links map[string]string // pointer string -> child absolute uri
}

func newSource(uri, format string, value any) *Source {
	return &Source{URI: uri, Format: format, Value: value, links: make(map[string]string)}
}

// SourceRegistry maintains the absolute-URI -> Source mapping of spec §4.2,
// plus the resolver and deserializer chains that populate it lazily.
type SourceRegistry struct {
	mu sync.RWMutex

	sources    map[string]*Source
	childLinks map[string]string // child absolute uri (no fragment) -> "sourceURI#pointer"

	deserializers []namedDeserializer
	resolvers     []namedResolver
}

type namedDeserializer struct {
	name string
	fn   Deserializer
}

type namedResolver struct {
	name string
	r    Resolver
}

// NewSourceRegistry creates an empty registry with no resolvers or
// deserializers registered; callers typically use Registry.NewRegistry,
// which wires in the default json/yaml deserializers and http(s) resolver.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources:    make(map[string]*Source),
		childLinks: make(map[string]string),
	}
}

// RegisterDeserializer adds name as a deserializer tried, in registration
// order, against raw bytes passed to Deserialize/resolve-triggered registers.
func (r *SourceRegistry) RegisterDeserializer(name string, fn Deserializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deserializers = append(r.deserializers, namedDeserializer{name, fn})
}

// RegisterResolver adds a Resolver tried, in registration order, by Resolve.
func (r *SourceRegistry) RegisterResolver(name string, res Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers = append(r.resolvers, namedResolver{name, res})
}

// Register ingests bytes as a new Source under uri (spec §4.2 `register`).
// uri must not carry a fragment. format, if non-empty, pins the
// deserializer to try; otherwise every registered deserializer is tried in
// order.
func (r *SourceRegistry) Register(uri string, data []byte, format string) (*Source, error) {
	parsed, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if parsed.HasFragment() && parsed.Fragment() != "" {
		return nil, ErrUnexpectedURIFrag
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	value, usedFormat, err := r.deserialize(data, format)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sources[uri]; ok {
		if !jsonDeepEqual(existing.Value, value) {
			return nil, fmt.Errorf("%w: %s", ErrSourceConflict, uri)
		}
		return existing, nil
	}

	src := newSource(uri, usedFormat, value)
	r.sources[uri] = src
	return src, nil
}

func (r *SourceRegistry) deserialize(data []byte, format string) (any, string, error) {
	r.mu.RLock()
	chain := r.deserializers
	r.mu.RUnlock()

	var errs []error
	for _, d := range chain {
		if format != "" && d.name != format {
			continue
		}
		v, err := d.fn(data)
		if err == nil {
			return v, d.name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
	}
	if len(errs) == 0 {
		return nil, "", ErrDeserializationFail
	}
	return nil, "", fmt.Errorf("%w: %v", ErrDeserializationFail, errs)
}

// Lookup resolves uri (optionally with a JSON-Pointer fragment) to the JSON
// value it designates, per spec §4.2 `lookup`. If uri (without fragment) was
// previously Link-ed to a sub-document, that linked value is returned
// directly.
func (r *SourceRegistry) Lookup(uri string) (any, error) {
	parsed, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	base := parsed.WithoutFragment().String()

	r.mu.RLock()
	if link, ok := r.childLinks[base]; ok {
		r.mu.RUnlock()
		return r.lookupLinked(link)
	}
	src, ok := r.sources[base]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, base)
	}

	if parsed.HasFragment() && !parsed.IsPointerFragment() {
		return nil, ErrPointerResolveFailed
	}
	ptr := ParsePointer(parsed.Fragment())
	return ptr.Resolve(src.Value)
}

func (r *SourceRegistry) lookupLinked(link string) (any, error) {
	srcURI, frag := splitRef(link)
	r.mu.RLock()
	src, ok := r.sources[srcURI]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, srcURI)
	}
	ptr := ParsePointer(frag)
	return ptr.Resolve(src.Value)
}

// Source returns the registered Source for the given absolute URI (without
// fragment), if any.
func (r *SourceRegistry) Source(uri string) (*Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[uri]
	return s, ok
}

// Link records that childURI addresses the value at pointer within
// sourceURI's document (spec §4.2 `link`). Re-linking the same childURI to
// an equal value is idempotent; linking it to a different value is a
// LinkConflict.
func (r *SourceRegistry) Link(sourceURI string, pointer Pointer, childURI string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.sources[sourceURI]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, sourceURI)
	}
	val, err := pointer.Resolve(src.Value)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLinkPathNotFound, pointer.String())
	}

	parsed, err := ParseURI(childURI)
	if err != nil {
		return err
	}
	childBase := parsed.WithoutFragment().String()
	if childBase == sourceURI {
		// A fragment of the source itself already resolves through its
		// pointer; recording it by base URI would shadow the whole document.
		return nil
	}
	link := sourceURI + "#" + pointer.String()

	if existingLink, ok := r.childLinks[childBase]; ok {
		if existingLink == link {
			return nil
		}
		existingVal, lerr := r.lookupLinkedLocked(existingLink)
		if lerr == nil && jsonDeepEqual(existingVal, val) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrLinkConflict, childURI)
	}

	r.childLinks[childBase] = link

	src.mu.Lock()
	src.links[pointer.String()] = childURI
	src.mu.Unlock()
	return nil
}

func (r *SourceRegistry) lookupLinkedLocked(link string) (any, error) {
	srcURI, frag := splitRef(link)
	src, ok := r.sources[srcURI]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, srcURI)
	}
	return ParsePointer(frag).Resolve(src.Value)
}

// Resolve fetches uri through each registered Resolver in order until one
// succeeds, then Registers the result (spec §4.2 `resolve`).
func (r *SourceRegistry) Resolve(uri string) (*Source, error) {
	r.mu.RLock()
	chain := r.resolvers
	r.mu.RUnlock()

	if len(chain) == 0 {
		return nil, ErrNoResolversRegistered
	}

	var errs []error
	for _, res := range chain {
		data, err := res.r.Fetch(uri)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.name, err))
			continue
		}
		return r.Register(uri, data, "")
	}
	return nil, fmt.Errorf("%w: %v", ErrResolveFailed, errs)
}

func jsonDeepEqual(a, b any) bool {
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(ab) == string(bb)
}
