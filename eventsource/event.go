// Package eventsource provides the append-only event journal behind a
// campaign: every operation that mutates campaign state records a typed
// event, keyed by campaign ID and versioned for optimistic concurrency.
// Two store backends are provided, an in-memory store for tests and a
// SQLite store for durability.
package eventsource

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrVersionConflict is returned when an append's expected version does
	// not match the stream head.
	ErrVersionConflict = errors.New("eventsource: version conflict")
)

// Event is a single journal entry.
type Event struct {
	ID          string    `json:"id"`
	AggregateID string    `json:"aggregate_id"`
	Type        string    `json:"type"`
	Version     int       `json:"version"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent creates an event with a fresh ID and JSON-encoded data. Version
// is assigned by the store on append.
func NewEvent(aggregateID, eventType string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:          uuid.New().String(),
		AggregateID: aggregateID,
		Type:        eventType,
		Data:        payload,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Decode unmarshals the event data into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// Store persists event streams.
type Store interface {
	// Append adds events to an aggregate's stream. expectedVersion is the
	// version of the last event already in the stream (-1 for a new
	// stream); on mismatch Append fails with ErrVersionConflict. Returns
	// the new head version.
	Append(ctx context.Context, aggregateID string, expectedVersion int, events []*Event) (int, error)

	// Read returns events with Version >= fromVersion, in order.
	Read(ctx context.Context, aggregateID string, fromVersion int) ([]*Event, error)
}
