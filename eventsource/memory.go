package eventsource

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]*Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]*Event)}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, aggregateID string, expectedVersion int, events []*Event) (int, error) {
	if len(events) == 0 {
		return expectedVersion, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[aggregateID]
	head := len(stream) - 1
	if head != expectedVersion {
		return head, fmt.Errorf("%w: stream at %d, expected %d", ErrVersionConflict, head, expectedVersion)
	}

	version := expectedVersion
	for _, event := range events {
		version++
		cp := *event
		cp.Version = version
		event.Version = version
		stream = append(stream, &cp)
	}
	s.streams[aggregateID] = stream
	return version, nil
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, aggregateID string, fromVersion int) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[aggregateID]
	var out []*Event
	for _, event := range stream {
		if event.Version >= fromVersion {
			cp := *event
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
