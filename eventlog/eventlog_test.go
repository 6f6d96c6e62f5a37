package eventlog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/launchpad-xyz/go-launchpad/eventlog"
	"github.com/launchpad-xyz/go-launchpad/eventsource"
)

func buildTrail(t *testing.T) *eventlog.Trail {
	t.Helper()
	store := eventsource.NewMemoryStore()
	ctx := context.Background()

	var batch []*eventsource.Event
	for _, typ := range []string{"campaign.initialized", "campaign.started", "campaign.funded", "campaign.funded"} {
		e, err := eventsource.NewEvent("camp-1", typ, map[string]any{"n": 1})
		if err != nil {
			t.Fatal(err)
		}
		batch = append(batch, e)
	}
	if _, err := store.Append(ctx, "camp-1", -1, batch); err != nil {
		t.Fatal(err)
	}
	other, _ := eventsource.NewEvent("camp-2", "campaign.initialized", nil)
	if _, err := store.Append(ctx, "camp-2", -1, []*eventsource.Event{other}); err != nil {
		t.Fatal(err)
	}

	events, err := store.Read(ctx, "camp-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	trail := eventlog.FromEvents(events)
	more, _ := store.Read(ctx, "camp-2", 0)
	trail.Add(more)
	return trail
}

func TestTrail(t *testing.T) {
	trail := buildTrail(t)

	if got := trail.Campaigns(); len(got) != 2 || got[0] != "camp-1" || got[1] != "camp-2" {
		t.Errorf("campaigns = %v", got)
	}
	if got := trail.ByType("campaign.funded"); len(got) != 2 {
		t.Errorf("funded entries = %d, want 2", len(got))
	}

	s := trail.Summarize()
	if s.Campaigns != 2 || s.Entries != 5 {
		t.Errorf("summary = %+v", s)
	}
	if s.ByType["campaign.initialized"] != 2 {
		t.Errorf("initialized count = %d", s.ByType["campaign.initialized"])
	}
	if s.First.After(s.Last) {
		t.Errorf("time range inverted: %v .. %v", s.First, s.Last)
	}

	// Entries are ordered by campaign, then version.
	for i := 1; i < len(trail.Entries); i++ {
		prev, cur := trail.Entries[i-1], trail.Entries[i]
		if prev.Campaign == cur.Campaign && prev.Version >= cur.Version {
			t.Fatalf("order broken at %d: %+v then %+v", i, prev, cur)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	trail := buildTrail(t)

	var buf bytes.Buffer
	if err := trail.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := eventlog.ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Entries) != len(trail.Entries) {
		t.Fatalf("read back %d entries, want %d", len(back.Entries), len(trail.Entries))
	}
	for i := range back.Entries {
		want, got := trail.Entries[i], back.Entries[i]
		if got.Campaign != want.Campaign || got.Version != want.Version ||
			got.Type != want.Type || got.Data != want.Data || !got.At.Equal(want.At) {
			t.Errorf("entry %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	trail := buildTrail(t)

	var buf bytes.Buffer
	if err := trail.WriteJSONL(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := eventlog.ReadJSONL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Entries) != len(trail.Entries) {
		t.Fatalf("read back %d entries, want %d", len(back.Entries), len(trail.Entries))
	}
	if back.Entries[0].Type != "campaign.initialized" {
		t.Errorf("first entry = %+v", back.Entries[0])
	}
}

func TestReadJSONLRejectsGarbage(t *testing.T) {
	if _, err := eventlog.ReadJSONL(bytes.NewBufferString("not json\n")); err == nil {
		t.Error("garbage line accepted")
	}
}
