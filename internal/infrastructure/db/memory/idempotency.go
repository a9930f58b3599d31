package memory

import (
	"context"
	"sync"
	"time"
)

// pending marks a key reserved by a request that has not stored its order yet.
const pending int64 = 0

type idempotencyEntry struct {
	orderID   int64
	expiresAt time.Time
}

// IdempotencyStore is the in-process fallback used when Redis is not configured.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	now     func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]idempotencyEntry), now: time.Now}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return e.orderID, false, nil
	}
	s.entries[key] = idempotencyEntry{orderID: pending, expiresAt: now.Add(ttl)}
	return 0, true, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, orderID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idempotencyEntry{orderID: orderID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.orderID == pending {
		delete(s.entries, key)
	}
	return nil
}
