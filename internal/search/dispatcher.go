package search

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

// ErrSearchUnavailable is returned when every API key and the fallback
// provider have failed. It is the only search error callers ever see.
var ErrSearchUnavailable = errors.New("all search providers exhausted")

// PrimaryProvider is the credentialed search boundary.
type PrimaryProvider interface {
	Search(ctx context.Context, query, apiKey string) ([]types.SearchResult, error)
}

// FallbackProvider is the uncredentialed search boundary.
type FallbackProvider interface {
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
}

// Dispatcher rotates a query through every configured API key against the
// primary provider and falls back to the scrape provider only when all of
// them fail. Attempts are strictly sequential in key load order, so quota
// consumption stays proportional to failures.
type Dispatcher struct {
	pool     *KeyPool
	primary  PrimaryProvider
	fallback FallbackProvider
	timeout  time.Duration

	skipped atomic.Int64
}

// NewDispatcher wires the dispatcher. timeout bounds each provider attempt;
// zero means 10 seconds.
func NewDispatcher(pool *KeyPool, primary PrimaryProvider, fallback FallbackProvider, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		pool:     pool,
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
	}
}

// Search returns normalized results from the first provider attempt that
// succeeds. Every primary failure, whatever its cause, means "try the next
// key". A reachable provider returning zero matches is an empty success,
// not a failure.
func (d *Dispatcher) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	for _, key := range d.pool.All() {
		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		results, err := d.primary.Search(attemptCtx, query, key.Value)
		cancel()
		if err == nil {
			return results, nil
		}

		d.pool.MarkExhausted(key.Index)
		d.skipped.Add(1)
		log.Printf("Search: key #%d failed for %q, rotating: %v", key.Index+1, query, err)
	}

	log.Printf("Search: all %d keys failed for %q, trying fallback provider", d.pool.Len(), query)

	fallbackCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results, err := d.fallback.Search(fallbackCtx, query)
	if err != nil {
		log.Printf("Search: fallback provider failed for %q: %v", query, err)
		return nil, ErrSearchUnavailable
	}
	return results, nil
}

// SkippedAttempts reports how many credentialed attempts have been rotated
// past since startup.
func (d *Dispatcher) SkippedAttempts() int64 {
	return d.skipped.Load()
}
