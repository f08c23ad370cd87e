// Package cache holds a TTL keyed store backing the league and team
// read decorators. Values live in process memory; a restart starts
// cold and the next read repopulates from Postgres.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nfaconnect/matchday/internal/platform/resilience"
)

type cachedValue struct {
	value     any
	expiresAt time.Time
}

// Store maps string keys to values with a single shared TTL. A zero
// or negative TTL keeps entries until deleted.
type Store struct {
	mu      sync.RWMutex
	values  map[string]cachedValue
	ttl     time.Duration
	loading resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		values: make(map[string]cachedValue),
		ttl:    ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	cached, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !cached.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.values, key)
		s.mu.Unlock()
		return nil, false
	}

	return cached.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.values[key] = cachedValue{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// DeletePrefix drops every key sharing the prefix; the repositories
// use it to invalidate a league's keys in one call.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.values {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.values, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for the key,
// with concurrent misses sharing the same load. Loader errors are not
// cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.loading.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
