package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/termrooms/internal/common"
)

// MemoryStore is a map-backed Store. Nothing survives the process; it exists
// for tests and for running TermRooms without any local state.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	notifier *notifier
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string][]byte),
		notifier: newNotifier(),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	// Copy so a caller mutating the returned slice cannot corrupt the store.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	s.notifier.notify(key)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	s.notifier.notify(key)
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan Event, error) {
	return s.notifier.subscribe(ctx), nil
}

func (s *MemoryStore) Close() error { return nil }
