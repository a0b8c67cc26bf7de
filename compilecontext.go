package jsonschema

// CompileContext is the view a keyword handler's Compile capability is
// given onto L2 (source registry), L4 (schema/anchor registries), and the
// number/regex caches, plus enough of the current compile session to
// request further subschemas or references (spec §4.4 step i: "A handler
// may request further subschemas via the same mechanism; the queue
// accommodates this").
type CompileContext struct {
	Registry *Registry
	Dialect  Dialect

	// Key is the schema key currently being compiled.
	Key SchemaKey
	// URI is that schema's canonical absolute URI.
	URI string
	// Location is this schema's location, relative to its compile root.
	Location Location

	session *compileSession
}

// NumberCache returns the registry's shared big.Rat memoization cache.
func (cc *CompileContext) NumberCache() *NumberCache { return cc.Registry.numCache }

// RegexCache returns the registry's shared compiled-regexp cache.
func (cc *CompileContext) RegexCache() *RegexCache { return cc.Registry.regexCache }

// RequestSubschema mints a child absolute URI for ptr (relative to cc's own
// schema) and enqueues it to the back of the compile queue, as the
// compiler's own step (g) does for handler-declared SubschemaLocator
// results; unlike step (g), it does not link the child URI via L2. Handlers that embed subschemas in a way the
// dialect's SubschemaLocator doesn't already cover (rare; most keywords are
// covered by the generic locator) use this instead.
func (cc *CompileContext) RequestSubschema(ptr Pointer) (SchemaKey, error) {
	return cc.session.requestSubschema(cc.Key, cc.URI, ptr)
}

// ResolveRef resolves ref (absolute or relative to cc's schema) and, if not
// yet compiled, pushes it to the front of the compile queue so it compiles
// before cc's own schema finishes binding (spec §4.4 step h). It returns
// the (possibly not-yet-compiled) key immediately; binding is deferred to
// step (j) of the worklist algorithm.
func (cc *CompileContext) ResolveRef(ref string, dynamic bool) (SchemaKey, error) {
	return cc.session.resolveRef(cc.Key, cc.URI, ref, dynamic)
}
