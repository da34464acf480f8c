package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store for single-instance deployments and tests.
// It honors per-entry TTLs but is invisible to other instances.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates an in-process store. Expired entries are purged lazily on
// read and by a periodic sweep.
func NewMemory() *Memory {
	return &Memory{
		cache: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	raw, found := m.cache.Get(key)
	if !found {
		return "", false, nil
	}

	value, ok := raw.(string)
	if !ok {
		return "", false, nil
	}

	return value, true, nil
}

func (m *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	m.cache.Set(key, value, ttl)
	return nil
}
