package search

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// maxEnvKeys is the highest YT_KEY_N slot scanned at startup.
const maxEnvKeys = 10

// APIKey is one YouTube Data API key in its configured load position.
// Exhausted is bookkeeping set by the dispatcher when a call using the
// key fails; it is reset only by a process restart.
type APIKey struct {
	Index     int
	Value     string
	Exhausted bool
}

// KeyPool holds the ordered set of API keys loaded at startup.
// The key values never change after load; only the Exhausted flag moves.
type KeyPool struct {
	mu   sync.Mutex
	keys []APIKey
}

// NewKeyPool builds a pool from the given key values, preserving order.
// An empty set is a configuration error and the caller should refuse to serve.
func NewKeyPool(values []string) (*KeyPool, error) {
	keys := make([]APIKey, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		keys = append(keys, APIKey{Index: len(keys), Value: v})
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no YouTube API keys configured")
	}
	return &KeyPool{keys: keys}, nil
}

// LoadKeysFromEnv reads YT_KEY_1..YT_KEY_10 from the environment, skipping
// unset slots. Fails when no key is set so misconfiguration is caught at
// startup instead of on the first search.
func LoadKeysFromEnv() (*KeyPool, error) {
	var values []string
	for i := 1; i <= maxEnvKeys; i++ {
		if v := os.Getenv(fmt.Sprintf("YT_KEY_%d", i)); v != "" {
			values = append(values, v)
		}
	}
	pool, err := NewKeyPool(values)
	if err != nil {
		return nil, fmt.Errorf("no YouTube API keys configured (set YT_KEY_1..YT_KEY_%d)", maxEnvKeys)
	}
	return pool, nil
}

// All returns the keys in load order, unfiltered. Skip-on-failure is the
// dispatcher's job, not the pool's.
func (p *KeyPool) All() []APIKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]APIKey, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// MarkExhausted flags the key at the given index after a failed call.
func (p *KeyPool) MarkExhausted(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index >= 0 && index < len(p.keys) {
		p.keys[index].Exhausted = true
	}
}

// Len returns the number of configured keys.
func (p *KeyPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
