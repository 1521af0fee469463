package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
)

const idempotencySweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore tracks processed event IDs in a map with
// per-entry expiry. Suitable for single-instance deployments and tests;
// multi-instance deployments use the Redis store.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	expiry    map[string]time.Time
	values    map[string]storedValue
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type storedValue struct {
	value     string
	expiresAt time.Time
}

// NewInMemoryIdempotencyStore creates the store and starts its sweep
// goroutine. Call Close to stop it.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		expiry: make(map[string]time.Time),
		values: make(map[string]storedValue),
		done:   make(chan struct{}),
	}

	store.wg.Add(1)
	go store.sweepLoop()

	return store
}

// MarkProcessed records eventID for ttl. Returns true when the event
// was newly recorded, false when a live record already existed.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.expiry[eventID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}

	s.expiry[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether eventID has a live record. Expired
// records count as unprocessed.
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.expiry[eventID]
	return exists && time.Now().Before(expiresAt), nil
}

// Remember associates value with key for ttl. Document services use
// this to map a creation key to the document it produced.
func (s *InMemoryIdempotencyStore) Remember(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = storedValue{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Recall returns the value stored under key, or "" when there is none
// or it expired.
func (s *InMemoryIdempotencyStore) Recall(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.values[key]
	if !exists || time.Now().After(rec.expiresAt) {
		return "", nil
	}
	return rec.value, nil
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.expiry {
		if now.After(expiresAt) {
			delete(s.expiry, eventID)
		}
	}
	for key, rec := range s.values {
		if now.After(rec.expiresAt) {
			delete(s.values, key)
		}
	}
}

// Size returns the number of records, live or expired
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expiry)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
