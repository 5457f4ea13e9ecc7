package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyPool(t *testing.T) {
	t.Run("preserves order and skips blanks", func(t *testing.T) {
		pool, err := NewKeyPool([]string{"key-a", "", "  ", "key-b"})
		require.NoError(t, err)

		keys := pool.All()
		require.Len(t, keys, 2)
		assert.Equal(t, "key-a", keys[0].Value)
		assert.Equal(t, 0, keys[0].Index)
		assert.Equal(t, "key-b", keys[1].Value)
		assert.Equal(t, 1, keys[1].Index)
	})

	t.Run("fails fast on empty set", func(t *testing.T) {
		_, err := NewKeyPool(nil)
		assert.Error(t, err)

		_, err = NewKeyPool([]string{"", "  "})
		assert.Error(t, err)
	})
}

func TestLoadKeysFromEnv(t *testing.T) {
	clearEnvKeys := func(t *testing.T) {
		for i := 1; i <= maxEnvKeys; i++ {
			t.Setenv(fmt.Sprintf("YT_KEY_%d", i), "")
		}
	}

	t.Run("loads set slots in order", func(t *testing.T) {
		clearEnvKeys(t)
		t.Setenv("YT_KEY_1", "first")
		t.Setenv("YT_KEY_3", "third")

		pool, err := LoadKeysFromEnv()
		require.NoError(t, err)
		require.Equal(t, 2, pool.Len())

		keys := pool.All()
		assert.Equal(t, "first", keys[0].Value)
		assert.Equal(t, "third", keys[1].Value)
	})

	t.Run("fails when nothing is configured", func(t *testing.T) {
		clearEnvKeys(t)
		_, err := LoadKeysFromEnv()
		assert.Error(t, err)
	})
}

func TestMarkExhausted(t *testing.T) {
	pool, err := NewKeyPool([]string{"a", "b"})
	require.NoError(t, err)

	pool.MarkExhausted(1)
	keys := pool.All()
	assert.False(t, keys[0].Exhausted)
	assert.True(t, keys[1].Exhausted)

	// out-of-range indices are ignored
	pool.MarkExhausted(-1)
	pool.MarkExhausted(99)
	assert.Equal(t, 2, pool.Len())
}

func TestAllReturnsCopies(t *testing.T) {
	pool, err := NewKeyPool([]string{"a"})
	require.NoError(t, err)

	keys := pool.All()
	keys[0].Exhausted = true

	assert.False(t, pool.All()[0].Exhausted)
}
