package eventsource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/launchpad-xyz/go-launchpad/eventsource"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func() eventsource.Store {
		return eventsource.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func() eventsource.Store {
		store, err := eventsource.NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func runStoreTests(t *testing.T, newStore func() eventsource.Store) {
	t.Run("append and read", func(t *testing.T) {
		store := newStore()
		ctx := context.Background()

		e1, err := eventsource.NewEvent("campaign-1", "funded", map[string]any{"amount": 100})
		if err != nil {
			t.Fatal(err)
		}
		e2, _ := eventsource.NewEvent("campaign-1", "funded", map[string]any{"amount": 200})

		head, err := store.Append(ctx, "campaign-1", -1, []*eventsource.Event{e1, e2})
		if err != nil {
			t.Fatal(err)
		}
		if head != 1 {
			t.Errorf("head = %d, want 1", head)
		}

		events, err := store.Read(ctx, "campaign-1", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 2 {
			t.Fatalf("read %d events, want 2", len(events))
		}
		if events[0].Version != 0 || events[1].Version != 1 {
			t.Errorf("versions = %d, %d", events[0].Version, events[1].Version)
		}
		if events[0].Type != "funded" {
			t.Errorf("type = %q", events[0].Type)
		}

		var data map[string]any
		if err := events[1].Decode(&data); err != nil {
			t.Fatal(err)
		}
		if data["amount"].(float64) != 200 {
			t.Errorf("decoded amount = %v", data["amount"])
		}
	})

	t.Run("version conflict", func(t *testing.T) {
		store := newStore()
		ctx := context.Background()

		e1, _ := eventsource.NewEvent("campaign-1", "started", nil)
		if _, err := store.Append(ctx, "campaign-1", -1, []*eventsource.Event{e1}); err != nil {
			t.Fatal(err)
		}

		e2, _ := eventsource.NewEvent("campaign-1", "funded", nil)
		_, err := store.Append(ctx, "campaign-1", -1, []*eventsource.Event{e2})
		if !errors.Is(err, eventsource.ErrVersionConflict) {
			t.Errorf("stale append: err = %v", err)
		}

		if _, err := store.Append(ctx, "campaign-1", 0, []*eventsource.Event{e2}); err != nil {
			t.Errorf("correct append: %v", err)
		}
	})

	t.Run("read from version", func(t *testing.T) {
		store := newStore()
		ctx := context.Background()

		var batch []*eventsource.Event
		for i := 0; i < 5; i++ {
			e, _ := eventsource.NewEvent("campaign-1", "funded", map[string]int{"i": i})
			batch = append(batch, e)
		}
		if _, err := store.Append(ctx, "campaign-1", -1, batch); err != nil {
			t.Fatal(err)
		}

		events, err := store.Read(ctx, "campaign-1", 3)
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 2 {
			t.Errorf("read %d events from version 3, want 2", len(events))
		}
	})

	t.Run("independent streams", func(t *testing.T) {
		store := newStore()
		ctx := context.Background()

		e1, _ := eventsource.NewEvent("campaign-1", "started", nil)
		e2, _ := eventsource.NewEvent("campaign-2", "started", nil)
		if _, err := store.Append(ctx, "campaign-1", -1, []*eventsource.Event{e1}); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Append(ctx, "campaign-2", -1, []*eventsource.Event{e2}); err != nil {
			t.Fatal(err)
		}

		events, _ := store.Read(ctx, "campaign-2", 0)
		if len(events) != 1 || events[0].AggregateID != "campaign-2" {
			t.Errorf("stream isolation broken: %+v", events)
		}
	})
}
