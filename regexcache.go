package jsonschema

import (
	"fmt"
	"regexp"
	"sync"
)

// RegexCache memoizes compiled regular expressions (spec §3.7), keyed by
// their source pattern string, shared by the `pattern`/`patternProperties`/
// `propertyNames` handlers so the same pattern compiled at two schema
// locations is only compiled once per registry.
type RegexCache struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

func NewRegexCache() *RegexCache {
	return &RegexCache{cache: make(map[string]*regexp.Regexp)}
}

// Compile returns the cached *regexp.Regexp for pattern, compiling and
// caching it on first use.
func (c *RegexCache) Compile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.cache[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEvaluateRegex, pattern, err)
	}

	c.mu.Lock()
	c.cache[pattern] = re
	c.mu.Unlock()
	return re, nil
}
