package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memo remembers categorization results keyed by a prompt digest.
type Memo interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// MemoryMemo keeps entries in process.
type MemoryMemo struct {
	cache *gocache.Cache
}

func NewMemoryMemo(ttl time.Duration) *MemoryMemo {
	// Expired items are purged every 10 minutes
	return &MemoryMemo{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (m *MemoryMemo) Get(ctx context.Context, key string) (string, bool) {
	if x, found := m.cache.Get(key); found {
		return x.(string), true
	}
	return "", false
}

func (m *MemoryMemo) Set(ctx context.Context, key, value string) {
	m.cache.Set(key, value, gocache.DefaultExpiration)
}

// NopMemo never remembers anything.
type NopMemo struct{}

func (NopMemo) Get(ctx context.Context, key string) (string, bool) { return "", false }
func (NopMemo) Set(ctx context.Context, key, value string)         {}
