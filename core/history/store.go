// Package history keeps the scenarios submitted for planning so they can be
// listed and reloaded later. Entries are de-duplicated by scenario
// fingerprint and only the most recent ones are kept.
package history

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/airlift/core/model"
)

// DefaultMaxEntries is the number of entries kept by a store.
const DefaultMaxEntries = 20

// ErrNotFound is returned when deleting an unknown entry.
var ErrNotFound = errors.New("history entry not found")

// Entry is one saved scenario.
type Entry struct {
	ID          string         `json:"id"`
	SavedAt     time.Time      `json:"saved_at"`
	Fingerprint uint64         `json:"fingerprint"`
	Scenario    model.Scenario `json:"scenario"`
}

// Query filters List results. Zero values match everything.
type Query struct {
	// Name matches scenario names case-insensitively by substring.
	Name  string
	Since time.Time
	Limit int
}

// Store persists history entries.
type Store interface {
	// Save stores e, replacing any entry with the same fingerprint, and
	// returns the stored entry with its ID and timestamps filled in.
	Save(ctx context.Context, e Entry) (Entry, error)
	// List returns entries newest first.
	List(ctx context.Context, q Query) ([]Entry, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// prepare fills the generated fields of an entry about to be saved.
func prepare(e Entry, now time.Time) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = now.UTC()
	}
	e.Fingerprint = e.Scenario.Fingerprint()
	return e
}

// retain applies de-duplication and the size limit to entries, returning
// them newest first.
func retain(entries []Entry, max int) []Entry {
	sorted := slices.Clone(entries)
	// Later writes win ties on SavedAt.
	slices.Reverse(sorted)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return b.SavedAt.Compare(a.SavedAt) })
	seen := make(map[uint64]bool, len(sorted))
	out := sorted[:0]
	for _, e := range sorted {
		if seen[e.Fingerprint] {
			continue
		}
		seen[e.Fingerprint] = true
		out = append(out, e)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// filter applies q to entries already ordered newest first.
func filter(entries []Entry, q Query) []Entry {
	var out []Entry
	name := strings.ToLower(q.Name)
	for _, e := range entries {
		if !q.Since.IsZero() && e.SavedAt.Before(q.Since) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(e.Scenario.Name), name) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

func maxOrDefault(n int) int {
	if n <= 0 {
		return DefaultMaxEntries
	}
	return n
}
