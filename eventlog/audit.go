// Package eventlog turns a campaign's journal stream into an audit trail:
// a flat, ordered table of entries that can be exported as CSV or JSONL
// and summarized for reporting.
package eventlog

import (
	"sort"
	"time"

	"github.com/launchpad-xyz/go-launchpad/eventsource"
)

// Entry is one audit trail row, flattened from a journal event.
type Entry struct {
	Campaign string    `json:"campaign"`
	Version  int       `json:"version"`
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	At       time.Time `json:"at"`
	Data     string    `json:"data,omitempty"`
}

// Trail is the ordered audit trail for one or more campaigns.
type Trail struct {
	Entries []Entry
}

// FromEvents builds a trail from journal events, ordered by campaign and
// version.
func FromEvents(events []*eventsource.Event) *Trail {
	trail := &Trail{Entries: make([]Entry, 0, len(events))}
	for _, e := range events {
		trail.Entries = append(trail.Entries, Entry{
			Campaign: e.AggregateID,
			Version:  e.Version,
			ID:       e.ID,
			Type:     e.Type,
			At:       e.CreatedAt,
			Data:     string(e.Data),
		})
	}
	trail.sort()
	return trail
}

// Add appends entries from another event batch and restores ordering.
func (t *Trail) Add(events []*eventsource.Event) {
	for _, e := range events {
		t.Entries = append(t.Entries, Entry{
			Campaign: e.AggregateID,
			Version:  e.Version,
			ID:       e.ID,
			Type:     e.Type,
			At:       e.CreatedAt,
			Data:     string(e.Data),
		})
	}
	t.sort()
}

func (t *Trail) sort() {
	sort.Slice(t.Entries, func(i, j int) bool {
		if t.Entries[i].Campaign != t.Entries[j].Campaign {
			return t.Entries[i].Campaign < t.Entries[j].Campaign
		}
		return t.Entries[i].Version < t.Entries[j].Version
	})
}

// Campaigns returns the distinct campaign IDs in the trail, sorted.
func (t *Trail) Campaigns() []string {
	seen := make(map[string]bool)
	for _, e := range t.Entries {
		seen[e.Campaign] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ByType returns the entries with the given event type, in trail order.
func (t *Trail) ByType(eventType string) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Summary holds basic audit trail statistics.
type Summary struct {
	Campaigns int
	Entries   int
	ByType    map[string]int
	First     time.Time
	Last      time.Time
}

// Summarize computes trail statistics.
func (t *Trail) Summarize() Summary {
	s := Summary{
		Campaigns: len(t.Campaigns()),
		Entries:   len(t.Entries),
		ByType:    make(map[string]int),
	}
	for i, e := range t.Entries {
		s.ByType[e.Type]++
		if i == 0 || e.At.Before(s.First) {
			s.First = e.At
		}
		if e.At.After(s.Last) {
			s.Last = e.At
		}
	}
	return s
}
