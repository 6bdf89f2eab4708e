package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestRememberCachesLoadedValue(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), NewMetricsService(), time.Minute, nil, true)
	loads := 0
	load := func(ctx context.Context) ([]string, error) {
		loads++
		return []string{"a", "b"}, nil
	}

	value, hit, err := Remember(context.Background(), cache, "content:test", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"a", "b"}, value)

	value, hit, err = Remember(context.Background(), cache, "content:test", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, value)
	assert.Equal(t, 1, loads)

	require.NoError(t, cache.Invalidate(context.Background(), CachePatternContent))
	_, hit, _ = Remember(context.Background(), cache, "content:test", load)
	assert.False(t, hit)
	assert.Equal(t, 2, loads)
}

func TestRememberDisabledCacheAlwaysLoads(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, false)
	loads := 0
	load := func(ctx context.Context) (int, error) {
		loads++
		return 42, nil
	}
	for i := 0; i < 2; i++ {
		value, hit, err := Remember(context.Background(), cache, "k", load)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, 42, value)
	}
	assert.Equal(t, 2, loads)
}

func TestRememberPropagatesLoadError(t *testing.T) {
	var cache *CacheService
	_, _, err := Remember(context.Background(), cache, "k", func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}
