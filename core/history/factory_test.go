package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/airlift/core/factory"
	"github.com/kilianp07/airlift/core/logger"
	"github.com/kilianp07/airlift/core/metrics"
)

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(factory.ModuleConfig{Conf: map[string]any{"path": filepath.Join(dir, "h.jsonl")}})
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, s)
	require.NoError(t, s.Close())

	s, err = NewStore(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": filepath.Join(dir, "h.db"), "max_entries": "5"}})
	require.NoError(t, err)
	assert.Equal(t, 5, s.(*SQLStore).max)
	require.NoError(t, s.Close())

	_, err = NewStore(factory.ModuleConfig{Type: "rotating"})
	assert.ErrorContains(t, err, "path required")
	_, err = NewStore(factory.ModuleConfig{Type: "postgres"})
	assert.ErrorContains(t, err, "url required")
	_, err = NewStore(factory.ModuleConfig{Type: "tape"})
	assert.ErrorContains(t, err, "history store")

	assert.Equal(t, []string{"jsonl", "postgres", "rotating", "sqlite"}, Types())
}

type captureRecorder struct {
	events []metrics.HistoryEvent
	err    error
}

func (c *captureRecorder) RecordHistory(ev metrics.HistoryEvent) error {
	c.events = append(c.events, ev)
	return c.err
}

func TestRecorded(t *testing.T) {
	inner, err := NewJSONLStore(filepath.Join(t.TempDir(), "h.jsonl"), 0)
	require.NoError(t, err)
	rec := &captureRecorder{err: errors.New("sink down")}
	s := NewRecorded(inner, "jsonl", rec, logger.NopLogger{})
	ctx := context.Background()

	e, err := s.Save(ctx, entry("Monday", 1, 0))
	require.NoError(t, err, "recorder errors are logged only")
	require.NoError(t, s.Delete(ctx, e.ID))
	assert.ErrorIs(t, s.Delete(ctx, e.ID), ErrNotFound)

	require.Len(t, rec.events, 2)
	assert.Equal(t, metrics.HistorySaved, rec.events[0].Action)
	assert.Equal(t, e.ID, rec.events[0].EntryID)
	assert.Equal(t, "jsonl", rec.events[0].Backend)
	assert.Equal(t, metrics.HistoryDeleted, rec.events[1].Action)
}
