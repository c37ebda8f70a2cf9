package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	opSave   = "save"
	opDelete = "delete"
)

// journalRecord is one line of the rotating history journal.
type journalRecord struct {
	Op    string    `json:"op"`
	At    time.Time `json:"at"`
	ID    string    `json:"id,omitempty"`
	Entry *Entry    `json:"entry,omitempty"`
}

// RotatingJSONLStore keeps the history as an append-only journal of saves
// and deletions, rotated by lumberjack. The current state is rebuilt from
// the live file and its backups on every read, applying de-duplication and
// the size limit after each save, so entries that only exist in pruned
// backups are forgotten.
type RotatingJSONLStore struct {
	logger *lumberjack.Logger
	path   string
	max    int
	mu     sync.Mutex
	now    func() time.Time
}

// NewRotatingJSONLStore creates a store with rotation options in megabytes and days.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays, maxEntries int) (*RotatingJSONLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return &RotatingJSONLStore{logger: lj, path: path, max: maxOrDefault(maxEntries), now: time.Now}, nil
}

func (s *RotatingJSONLStore) Save(ctx context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e = prepare(e, s.now())
	return e, s.append(journalRecord{Op: opSave, At: e.SavedAt, Entry: &e})
}

func (s *RotatingJSONLStore) List(ctx context.Context, q Query) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.replay()
	if err != nil {
		return nil, err
	}
	return filter(entries, q), nil
}

func (s *RotatingJSONLStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.replay()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == id {
			return s.append(journalRecord{Op: opDelete, At: s.now().UTC(), ID: id})
		}
	}
	return ErrNotFound
}

// Close closes the underlying writer.
func (s *RotatingJSONLStore) Close() error { return s.logger.Close() }

func (s *RotatingJSONLStore) append(rec journalRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.logger.Write(append(b, '\n'))
	return err
}

// files returns the backups, oldest first, followed by the live file.
func (s *RotatingJSONLStore) files() ([]string, error) {
	ext := filepath.Ext(s.path)
	prefix := strings.TrimSuffix(s.path, ext)
	backups, err := filepath.Glob(prefix + "-*" + ext)
	if err != nil {
		return nil, err
	}
	sort.Strings(backups)
	return append(backups, s.path), nil
}

// replay rebuilds the retained entries from the journal.
func (s *RotatingJSONLStore) replay() ([]Entry, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, name := range files {
		f, err := os.Open(name)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
		for scanner.Scan() {
			var rec journalRecord
			if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
				continue
			}
			switch rec.Op {
			case opSave:
				if rec.Entry != nil {
					entries = retain(append(entries, *rec.Entry), s.max)
				}
			case opDelete:
				entries = removeID(entries, rec.ID)
			}
		}
		err = scanner.Err()
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	return retain(entries, s.max), nil
}

func removeID(entries []Entry, id string) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
