package jsonschema

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Resolver fetches the raw bytes addressed by an absolute URI, per spec
// §6.1. Implementations are tried in registration order by
// SourceRegistry.Resolve until one succeeds.
type Resolver interface {
	Fetch(uri string) ([]byte, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(uri string) ([]byte, error)

// Fetch calls f.
func (f ResolverFunc) Fetch(uri string) ([]byte, error) { return f(uri) }

// NewHTTPResolver builds the default http(s) Resolver, fetching a uri with a
// bounded-timeout client and reading the full response body.
func NewHTTPResolver() Resolver {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	return ResolverFunc(func(url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, ErrNetworkFetch
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, ErrInvalidStatusCode
		}

		return io.ReadAll(resp.Body)
	})
}

// NewFileMapResolver serves fixed in-memory content for a set of URIs,
// useful for tests and for embedding known metaschemas without a network
// round trip.
func NewFileMapResolver(files map[string][]byte) Resolver {
	return ResolverFunc(func(uri string) ([]byte, error) {
		data, ok := files[uri]
		if !ok {
			return nil, ErrSourceNotFound
		}
		return data, nil
	})
}
