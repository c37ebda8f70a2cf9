package history

import (
	"fmt"

	"github.com/kilianp07/airlift/core/factory"
)

var registry = factory.NewRegistry[Store]()

type fileConf struct {
	Path       string `json:"path"`
	MaxEntries int    `json:"max_entries"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type sqlConf struct {
	Path       string `json:"path"`
	URL        string `json:"url"`
	MaxEntries int    `json:"max_entries"`
}

func init() {
	_ = Register("jsonl", func(conf map[string]any) (Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "history.jsonl"
		}
		return NewJSONLStore(c.Path, c.MaxEntries)
	})
	_ = Register("rotating", func(conf map[string]any) (Store, error) {
		c := fileConf{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 30}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("rotating: path required")
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays, c.MaxEntries)
	})
	_ = Register("sqlite", func(conf map[string]any) (Store, error) {
		var c sqlConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite: path required")
		}
		return NewSQLiteStore(c.Path, c.MaxEntries)
	})
	_ = Register("postgres", func(conf map[string]any) (Store, error) {
		var c sqlConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" {
			return nil, fmt.Errorf("postgres: url required")
		}
		return NewPostgresStore(c.URL, c.MaxEntries)
	})
}

// Register adds a store factory identified by name.
func Register(name string, f factory.Factory[Store]) error {
	return registry.Register(name, f)
}

// NewStore creates a store from its module configuration. An empty type
// selects the JSONL store.
func NewStore(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		cfg.Type = "jsonl"
	}
	s, err := registry.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	return s, nil
}

// Types lists the registered store types.
func Types() []string { return registry.Names() }
