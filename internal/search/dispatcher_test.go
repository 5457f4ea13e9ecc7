package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebuildervaibhav/yt-audio-api/internal/types"
)

type fakePrimary struct {
	mu       sync.Mutex
	keysSeen []string
	failing  int // number of leading attempts that fail
	results  []types.SearchResult
}

func (f *fakePrimary) Search(ctx context.Context, query, apiKey string) ([]types.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keysSeen = append(f.keysSeen, apiKey)
	if len(f.keysSeen) <= f.failing {
		return nil, errors.New("quotaExceeded")
	}
	return f.results, nil
}

func (f *fakePrimary) attempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keysSeen...)
}

type fakeFallback struct {
	mu      sync.Mutex
	calls   int
	results []types.SearchResult
	err     error
}

func (f *fakeFallback) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func primaryResults(n int) []types.SearchResult {
	results := make([]types.SearchResult, n)
	for i := range results {
		results[i] = types.SearchResult{ID: "vid", Provider: types.ProviderPrimary}
	}
	return results
}

func newTestPool(t *testing.T, n int) *KeyPool {
	t.Helper()
	values := make([]string, n)
	for i := range values {
		values[i] = string(rune('a' + i))
	}
	pool, err := NewKeyPool(values)
	require.NoError(t, err)
	return pool
}

func TestDispatcherFirstKeySucceeds(t *testing.T) {
	primary := &fakePrimary{results: primaryResults(3)}
	fallback := &fakeFallback{}
	d := NewDispatcher(newTestPool(t, 3), primary, fallback, time.Second)

	results, err := d.Search(context.Background(), "test song")
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, []string{"a"}, primary.attempts())
	assert.Equal(t, 0, fallback.calls)
	assert.EqualValues(t, 0, d.SkippedAttempts())
}

func TestDispatcherRotatesPastFailingKeys(t *testing.T) {
	// Scenario: 3 keys, #1 and #2 throw quota errors, #3 succeeds with 5
	// results. Exactly 3 primary attempts, 2 skips, fallback untouched.
	primary := &fakePrimary{failing: 2, results: primaryResults(5)}
	fallback := &fakeFallback{}
	pool := newTestPool(t, 3)
	d := NewDispatcher(pool, primary, fallback, time.Second)

	results, err := d.Search(context.Background(), "test song")
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, types.ProviderPrimary, results[0].Provider)
	assert.Equal(t, []string{"a", "b", "c"}, primary.attempts())
	assert.Equal(t, 0, fallback.calls)
	assert.EqualValues(t, 2, d.SkippedAttempts())

	keys := pool.All()
	assert.True(t, keys[0].Exhausted)
	assert.True(t, keys[1].Exhausted)
	assert.False(t, keys[2].Exhausted)
}

func TestDispatcherFallsBackWhenAllKeysFail(t *testing.T) {
	primary := &fakePrimary{failing: 4}
	fallback := &fakeFallback{results: []types.SearchResult{
		{ID: "fb1", Provider: types.ProviderFallback},
	}}
	d := NewDispatcher(newTestPool(t, 4), primary, fallback, time.Second)

	results, err := d.Search(context.Background(), "test song")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.ProviderFallback, results[0].Provider)
	assert.Len(t, primary.attempts(), 4)
	assert.Equal(t, 1, fallback.calls)
	assert.EqualValues(t, 4, d.SkippedAttempts())
}

func TestDispatcherAllProvidersExhausted(t *testing.T) {
	primary := &fakePrimary{failing: 2}
	fallback := &fakeFallback{err: errors.New("scrape blocked")}
	d := NewDispatcher(newTestPool(t, 2), primary, fallback, time.Second)

	results, err := d.Search(context.Background(), "test song")
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.Len(t, primary.attempts(), 2)
	assert.Equal(t, 1, fallback.calls)
}

func TestDispatcherZeroMatchesIsEmptySuccess(t *testing.T) {
	// A reachable provider returning no items is a valid empty result,
	// not a reason to hit the fallback.
	primary := &fakePrimary{results: []types.SearchResult{}}
	fallback := &fakeFallback{}
	d := NewDispatcher(newTestPool(t, 2), primary, fallback, time.Second)

	results, err := d.Search(context.Background(), "gibberish query zzz")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, fallback.calls)
}
