package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultMemorySize = 4096

// Memory is an in-process LRU. Versions live outside the LRU so eviction
// never rewinds a month to an older version. It is only correct when a
// single process serves every request.
type Memory struct {
	entries *expirable.LRU[string, []byte]

	mu       sync.Mutex
	versions map[string]int64
}

func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries:  expirable.NewLRU[string, []byte](size, nil, ttl),
		versions: make(map[string]int64),
	}
}

func (cache *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := cache.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (cache *Memory) Set(_ context.Context, key string, value []byte) error {
	cache.entries.Add(key, append([]byte(nil), value...))
	return nil
}

func (cache *Memory) Version(_ context.Context, key string) (int64, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.versions[key], nil
}

func (cache *Memory) Bump(_ context.Context, key string) (int64, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.versions[key]++
	return cache.versions[key], nil
}
