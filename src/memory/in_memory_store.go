package memory

import (
	"context"
	"sync"
)

// DefaultInMemoryCapacity bounds the in-process transcript when no explicit
// capacity is configured.
const DefaultInMemoryCapacity = 512

// InMemoryStore keeps the transcript in process memory. It is the default
// backend and the one tests use.
type InMemoryStore struct {
	mu       sync.Mutex
	records  []Record
	capacity int
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultInMemoryCapacity
	}
	return &InMemoryStore{capacity: capacity}
}

func (ims *InMemoryStore) Append(_ context.Context, rec Record) error {
	ims.mu.Lock()
	defer ims.mu.Unlock()
	ims.records = append(ims.records, rec)
	if len(ims.records) > ims.capacity {
		overflow := len(ims.records) - ims.capacity
		ims.records = append([]Record(nil), ims.records[overflow:]...)
	}
	return nil
}

func (ims *InMemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	ims.mu.Lock()
	defer ims.mu.Unlock()
	if limit <= 0 || len(ims.records) == 0 {
		return nil, nil
	}
	start := len(ims.records) - limit
	if start < 0 {
		start = 0
	}
	return append([]Record(nil), ims.records[start:]...), nil
}

func (ims *InMemoryStore) Close() error { return nil }
