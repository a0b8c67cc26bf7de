package jsonschema

import (
	"fmt"
	"sync"
)

// NumberCache memoizes the big.Rat parse of a numeric lexeme (spec §3.7),
// keyed by its source string so the same literal written in two places in a
// schema, or compared against the same instance value repeatedly, pays the
// math/big parse cost once per Registry (each Registry owns its own cache),
// building on the teacher's Rat type in rat.go.
type NumberCache struct {
	mu    sync.RWMutex
	cache map[string]*Rat
}

func NewNumberCache() *NumberCache {
	return &NumberCache{cache: make(map[string]*Rat)}
}

// Parse returns the cached Rat for lexeme, parsing and caching it on first
// use. lexeme may be any value convertToBigRat accepts (number or numeric
// string), rendered via fmt.Sprint for the cache key.
func (c *NumberCache) Parse(value any) (*Rat, error) {
	key := fmt.Sprint(value)

	c.mu.RLock()
	r, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return r, nil
	}

	r = NewRat(value)
	if r == nil {
		return nil, ErrParseNumber
	}

	c.mu.Lock()
	c.cache[key] = r
	c.mu.Unlock()
	return r, nil
}
