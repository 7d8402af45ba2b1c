package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// MemoryStore is a per-key token bucket kept in process memory.
type MemoryStore struct {
	buckets       map[string]*bucket
	mu            sync.RWMutex
	maxTokens     int
	refillRate    time.Duration
	now           func() time.Time
	cleanupTicker *time.Ticker
}

func NewMemoryStore(maxRequests int, window time.Duration) *MemoryStore {
	s := &MemoryStore{
		buckets:       make(map[string]*bucket),
		maxTokens:     maxRequests,
		refillRate:    window / time.Duration(maxRequests),
		now:           time.Now,
		cleanupTicker: time.NewTicker(5 * time.Minute),
	}

	go s.cleanup()

	return s
}

func (s *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	b, exists := s.buckets[key]
	s.mu.RUnlock()

	if !exists {
		s.mu.Lock()
		b, exists = s.buckets[key]
		if !exists {
			b = &bucket{
				tokens:     s.maxTokens,
				lastRefill: s.now(),
			}
			s.buckets[key] = b
		}
		s.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := s.now()
	tokensToAdd := int(now.Sub(b.lastRefill) / s.refillRate)
	if tokensToAdd > 0 {
		b.tokens = min(s.maxTokens, b.tokens+tokensToAdd)
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, nil
	}

	return false, nil
}

func (s *MemoryStore) cleanup() {
	for range s.cleanupTicker.C {
		s.mu.Lock()
		now := s.now()
		for key, b := range s.buckets {
			b.mu.Lock()
			if now.Sub(b.lastRefill) > 10*time.Minute {
				delete(s.buckets, key)
			}
			b.mu.Unlock()
		}
		s.mu.Unlock()
	}
}

func (s *MemoryStore) Stop() {
	s.cleanupTicker.Stop()
}
