package store

import (
	"context"
	"encoding/json"
	"sync"

	ai "github.com/spetersoncode/openresponses"
)

// ItemStore is an ordered, append-only conversation transcript.
type ItemStore struct {
	mu      sync.RWMutex
	items   []ai.Item
	adapter Adapter
}

// NewItemStore creates an empty ItemStore. If adapter is nil, a default
// in-memory adapter is used.
func NewItemStore(adapter Adapter) *ItemStore {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	return &ItemStore{
		items:   make([]ai.Item, 0),
		adapter: adapter,
	}
}

// NewItemStoreFrom creates an ItemStore initialized with existing items.
func NewItemStoreFrom(items []ai.Item, adapter Adapter) *ItemStore {
	s := NewItemStore(adapter)
	s.items = append(s.items, items...)
	return s
}

// Items returns a copy of all items in order.
func (s *ItemStore) Items() []ai.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]ai.Item, len(s.items))
	copy(result, s.items)
	return result
}

// Append adds items to the end of the transcript.
func (s *ItemStore) Append(items ...ai.Item) {
	if len(items) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// Len returns the number of items.
func (s *ItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clone returns a copy of the transcript sharing the same adapter.
func (s *ItemStore) Clone() *ItemStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewItemStoreFrom(s.items, s.adapter)
}

// Last returns the last n items. If n > Len(), returns all items.
func (s *ItemStore) Last(n int) []ai.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return nil
	}

	start := max(len(s.items)-n, 0)
	result := make([]ai.Item, len(s.items)-start)
	copy(result, s.items[start:])
	return result
}

// Sync persists the transcript to the adapter under key as a JSON array of
// wire-format items.
func (s *ItemStore) Sync(ctx context.Context, key string) error {
	s.mu.RLock()
	raw, err := json.Marshal(ai.Items(s.items))
	s.mu.RUnlock()
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return s.adapter.Set(ctx, key, raw)
}

// Reload replaces the transcript with the one stored under key.
func (s *ItemStore) Reload(ctx context.Context, key string) error {
	raw, ok, err := s.adapter.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyNotFound
	}

	var items ai.Items
	if err := json.Unmarshal(raw, &items); err != nil {
		return &SerializationError{Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	return nil
}

// Adapter returns the underlying adapter.
func (s *ItemStore) Adapter() Adapter {
	return s.adapter
}
