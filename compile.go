package jsonschema

import (
	"container/list"
	"fmt"
)

// pendingRecord is one entry of the compile queue (spec §4.4 "Data
// structures").
type pendingRecord struct {
	targetURI       string
	referringKey    SchemaKey
	referringLoc    Location
	continueOnError bool
	outputIndex     int // -1 when this pending has no caller-visible slot
}

// compileSession is the state of one worklist run: the queue, the
// allocation table (held by the Registry itself so aliases persist across
// sessions), the result list, and the static-reference graph used for the
// cycle check of step (k).
type compileSession struct {
	reg *Registry

	queue      *list.List // of *pendingRecord
	results    []SchemaKey
	inProgress map[SchemaKey]bool
	errored    map[SchemaKey]error

	// staticRefs records, per compiled schema, the keys of schemas it
	// statically references (excludes $dynamicRef/$recursiveRef per step
	// k: "Dynamic references do not count as static edges").
	staticRefs map[SchemaKey][]SchemaKey

	// anchorRefs holds pendingRecords whose target is an anchor-name
	// fragment (e.g. "base.json#item") rather than a JSON-Pointer fragment
	// or bare resource URI. There is no document value to fetch at such a
	// URI — "item" only becomes resolvable once its owning schema has been
	// compiled and recorded itself into the resource's AnchorIndex (step
	// f), which may happen later in this same session (e.g. an anchor
	// declared inside "$defs"). They are resolved in one pass once the
	// main queue has fully drained.
	anchorRefs []*pendingRecord
}

// Compile compiles the schema documents named by docURIs, returning their
// keys in the same order, per spec §4.4 "Return". Documents and their
// transitive dependents are fetched through the Registry's SourceRegistry
// (registering inline documents first via RegisterDocument is the normal
// way to seed a compile without a network round trip).
func (r *Registry) Compile(docURIs ...string) ([]SchemaKey, error) {
	sess := &compileSession{
		reg:        r,
		queue:      list.New(),
		results:    make([]SchemaKey, len(docURIs)),
		inProgress: make(map[SchemaKey]bool),
		errored:    make(map[SchemaKey]error),
		staticRefs: make(map[SchemaKey][]SchemaKey),
	}

	for i, uri := range docURIs {
		sess.queue.PushBack(&pendingRecord{targetURI: uri, outputIndex: i, referringKey: invalidSchemaKey})
	}

	if err := sess.run(); err != nil {
		return nil, err
	}
	return sess.results, nil
}

// RegisterDocument registers an in-memory document (already deserialized,
// or raw bytes to be deserialized per format) under uri, so a subsequent
// Compile(uri) call needs no resolver round trip.
func (r *Registry) RegisterDocument(uri string, data []byte, format string) error {
	_, err := r.Sources.Register(uri, data, format)
	return err
}

const invalidSchemaKey SchemaKey = 0

func (s *compileSession) run() error {
	for s.queue.Len() > 0 {
		front := s.queue.Front()
		s.queue.Remove(front)
		p := front.Value.(*pendingRecord)

		if err := s.process(p); err != nil {
			if p.continueOnError {
				if p.referringKey != invalidSchemaKey {
					s.errored[p.referringKey] = err
				}
				continue
			}
			return err
		}
	}
	return s.resolveAnchorRefs()
}

// resolveAnchorRefs binds every pendingRecord deferred by process() because
// its target was an anchor-name fragment, now that every schema discovered
// this session (including $defs-only subschemas) has recorded its anchors.
// Resolution just aliases the pending URI to the anchor's owning key;
// refHandler.Evaluate looks that alias up fresh rather than trusting a
// compile-time key for anchor-form targets, so no second compile pass over
// already-bound handlers is needed.
func (s *compileSession) resolveAnchorRefs() error {
	for _, p := range s.anchorRefs {
		base, anchorName := splitRef(p.targetURI)
		idx := s.reg.anchorIndexFor(base)
		entry, ok := idx.Lookup(anchorName)
		if !ok {
			return fmt.Errorf("%w: %s", ErrSchemaNotFound, p.targetURI)
		}
		s.reg.alias(p.targetURI, entry.Key)
		if p.outputIndex >= 0 {
			s.results[p.outputIndex] = entry.Key
		}
	}
	return nil
}

func (s *compileSession) process(p *pendingRecord) error {
	r := s.reg

	// (b) already compiled?
	if key, ok := r.lookupKey(p.targetURI); ok {
		if _, ok := r.compiledRecord(key); ok {
			if p.outputIndex >= 0 {
				s.results[p.outputIndex] = key
			}
			return nil
		}
	}

	key := r.keyFor(p.targetURI)
	if s.inProgress[key] {
		// Already mid-compile via another path (e.g. a ref cycle whose
		// cross-edge arrived before the original finished); nothing more
		// to do here, binding happens once the original compile stores
		// the record.
		if p.outputIndex >= 0 {
			s.results[p.outputIndex] = key
		}
		return nil
	}
	s.inProgress[key] = true
	defer delete(s.inProgress, key)

	// (c) fetch
	baseURI, frag := splitRef(p.targetURI)
	if frag != "" && !isJSONPointer(frag) {
		// Anchor-name fragment: nothing to deserialize at this exact URI,
		// only a name to resolve against the resource's AnchorIndex once
		// its owning schema has compiled. Defer rather than treat a
		// not-yet-recorded anchor as NotFound.
		s.anchorRefs = append(s.anchorRefs, p)
		return nil
	}
	value, err := lookupOrResolve(r, baseURI, p.targetURI)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaNotFound, p.targetURI, err)
	}

	if b, ok := value.(bool); ok {
		cs := &CompiledSchema{Key: key, URI: p.targetURI, IsBool: true, BoolValue: b, Parent: p.referringKey}
		r.store(cs)
		if p.outputIndex >= 0 {
			s.results[p.outputIndex] = key
		}
		return nil
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCompileInvalidType, p.targetURI)
	}

	// (d) dialect-classify
	dialect, err := r.Dialects.Classify(obj)
	if err != nil {
		return err
	}
	if rawVocab, ok := obj["$vocabulary"].(map[string]any); ok {
		declared := make(map[string]bool, len(rawVocab))
		for uri, v := range rawVocab {
			b, _ := v.(bool)
			declared[uri] = b
		}
		dialect, err = dialect.ApplyVocabulary(declared)
		if err != nil {
			return fmt.Errorf("%s: %w", p.targetURI, err)
		}
	}

	canonicalURI := p.targetURI

	// (e) identify
	if idHandler, ok := dialect.identifyHandler(); ok {
		if id, found := idHandler.Identify(obj); found && id != "" {
			resolved, rerr := resolveAgainst(baseURI, id)
			if rerr == nil && resolved != p.targetURI {
				canonicalURI = resolved
				r.alias(resolved, key)
			}
		}
	}

	loc := Location{AbsoluteKeyword: canonicalURI}

	// (f) anchors
	anchorIdx := r.anchorIndexFor(splitRefBase(canonicalURI))
	for _, h := range dialect.handlers() {
		al, ok := h.(AnchorLocator)
		if !ok {
			continue
		}
		for _, a := range al.Anchors(obj) {
			if err := anchorIdx.Record(a.Name, a.Kind, key); err != nil {
				return err
			}
		}
	}
	var dynNames []string
	for _, h := range dialect.handlers() {
		al, ok := h.(AnchorLocator)
		if !ok {
			continue
		}
		for _, a := range al.Anchors(obj) {
			if a.Kind == AnchorDynamic {
				dynNames = append(dynNames, a.Name)
			}
		}
	}

	// (g) subschemas — appended to the back.
	for _, h := range dialect.handlers() {
		sl, ok := h.(SubschemaLocator)
		if !ok {
			continue
		}
		for _, ptr := range sl.Subschemas(obj) {
			childURI := joinFragmentPointer(canonicalURI, ptr)
			fullPtr := ParsePointer(currentFragment(canonicalURI))
			if !isJSONPointer(currentFragment(canonicalURI)) {
				fullPtr = Pointer{}
			}
			_ = r.Sources.Link(baseURI, fullPtr.Concat(ptr), childURI)
			s.queue.PushBack(&pendingRecord{targetURI: childURI, referringKey: key, referringLoc: loc, outputIndex: -1})
		}
	}

	// (h) refs — prepended to the front, remembered for the static-ref
	// graph used by the cycle check in step (k).
	var refTargets []SchemaKey
	for _, h := range dialect.handlers() {
		rl, ok := h.(RefLocator)
		if !ok {
			continue
		}
		for _, rd := range rl.Refs(obj) {
			resolved, rerr := resolveAgainst(canonicalURI, rd.URI)
			if rerr != nil {
				return rerr
			}
			refKey := r.keyFor(resolved)
			if _, compiled := r.compiledRecord(refKey); !compiled {
				s.queue.PushFront(&pendingRecord{targetURI: resolved, referringKey: key, referringLoc: loc, outputIndex: -1})
			}
			if !rd.Dynamic {
				refTargets = append(refTargets, refKey)
			}
		}
	}
	s.staticRefs[key] = refTargets

	// (i) compile handlers
	var bound []Handler
	for _, h := range dialect.handlers() {
		cc := &CompileContext{Registry: r, Dialect: dialect, Key: key, URI: canonicalURI, Location: loc, session: s}
		out, err := h.Compile(cc, obj)
		if err != nil {
			return err
		}
		if out != nil {
			bound = append(bound, out)
		}
	}

	// (k) cycle check
	if cyclic(s.staticRefs, key) {
		return fmt.Errorf("%w: %s", ErrCyclicDependency, canonicalURI)
	}

	// (l) store
	cs := &CompiledSchema{
		Key:            key,
		URI:            canonicalURI,
		DialectID:      dialect.ID,
		Handlers:       bound,
		Parent:         p.referringKey,
		IsRoot:         currentFragment(canonicalURI) == "" || currentFragment(canonicalURI) == "#",
		DynamicAnchors: dynNames,
		Value:          obj,
	}
	r.store(cs)
	if p.outputIndex >= 0 {
		s.results[p.outputIndex] = key
	}
	return nil
}

func (s *compileSession) requestSubschema(parent SchemaKey, parentURI string, ptr Pointer) (SchemaKey, error) {
	childURI := joinFragmentPointer(parentURI, ptr)
	key := s.reg.keyFor(childURI)
	s.queue.PushBack(&pendingRecord{targetURI: childURI, referringKey: parent, outputIndex: -1})
	return key, nil
}

func (s *compileSession) resolveRef(referrer SchemaKey, referrerURI, ref string, dynamic bool) (SchemaKey, error) {
	resolved, err := resolveAgainst(referrerURI, ref)
	if err != nil {
		return 0, err
	}
	key := s.reg.keyFor(resolved)
	if _, compiled := s.reg.compiledRecord(key); !compiled {
		s.queue.PushFront(&pendingRecord{targetURI: resolved, referringKey: referrer, outputIndex: -1})
	}
	if !dynamic {
		s.staticRefs[referrer] = append(s.staticRefs[referrer], key)
	}
	return key, nil
}

// cyclic reports whether key reaches itself via staticRefs (spec §4.4 step
// k). Dynamic refs are excluded upstream by never being added to
// staticRefs.
func cyclic(graph map[SchemaKey][]SchemaKey, start SchemaKey) bool {
	visited := make(map[SchemaKey]bool)
	var dfs func(k SchemaKey) bool
	dfs = func(k SchemaKey) bool {
		if k == start && visited[k] {
			return true
		}
		if visited[k] {
			return false
		}
		visited[k] = true
		for _, next := range graph[k] {
			if next == start {
				return true
			}
			if dfs(next) {
				return true
			}
		}
		return false
	}
	for _, next := range graph[start] {
		if next == start || dfs(next) {
			return true
		}
	}
	return false
}

func lookupOrResolve(r *Registry, baseURI, fullURI string) (any, error) {
	if v, err := r.Sources.Lookup(fullURI); err == nil {
		return v, nil
	}
	if _, ok := r.Sources.Source(baseURI); !ok {
		if _, err := r.Sources.Resolve(baseURI); err != nil {
			return nil, err
		}
	}
	return r.Sources.Lookup(fullURI)
}

func resolveAgainst(baseURI, ref string) (string, error) {
	base, err := ParseURI(baseURI)
	if err != nil {
		return "", err
	}
	resolved, err := ResolveReference(base, ref)
	if err != nil {
		return "", err
	}
	return resolved.String(), nil
}

func splitRefBase(uri string) string {
	base, _ := splitRef(uri)
	return base
}

func currentFragment(uri string) string {
	_, frag := splitRef(uri)
	return frag
}

// joinFragmentPointer mints the child absolute URI for a subschema at ptr,
// relative to parentURI's own fragment, per spec §4.4 step (g): "canonical
// URI with the pointer appended to its fragment".
func joinFragmentPointer(parentURI string, ptr Pointer) string {
	base, frag := splitRef(parentURI)
	parentPtr := ParsePointer(frag)
	if !isJSONPointer(frag) && frag != "" {
		// parent is itself anchor-fragmented; subschemas are always
		// discovered from the document root's perspective, so anchor
		// fragments never compose with a pointer here.
		parentPtr = Pointer{}
	}
	childPtr := parentPtr.Concat(ptr)
	return base + "#" + childPtr.String()
}
