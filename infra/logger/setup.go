package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where and how loggers created by New write.
type Config struct {
	// Level is the minimum level. LOG_LEVEL overrides it when set.
	Level string `json:"level"`
	// Format is "json" or "console". APP_ENV=dev forces console.
	Format string `json:"format"`
	// File, when set, sends the output to a rotated file instead of stdout.
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Validate checks the settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging: unknown format %q", c.Format)
	}
	if c.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Level)); err != nil {
			return fmt.Errorf("logging: %w", err)
		}
	}
	return nil
}

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stdout
	level   string
	console bool
)

// Setup applies cfg to every logger created afterwards. The returned closer
// releases the log file, if any.
func Setup(cfg Config) (io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out, closer = lj, lj
	}
	mu.Lock()
	output = out
	level = cfg.Level
	console = strings.EqualFold(cfg.Format, "console")
	mu.Unlock()
	return closer, nil
}

func settings() (io.Writer, string) {
	mu.RLock()
	defer mu.RUnlock()
	out, lvl := output, level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		lvl = env
	}
	if console || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stdout}
	}
	return out, lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
