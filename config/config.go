package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/airlift/core/factory"
	"github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/core/planner"
	"github.com/kilianp07/airlift/infra/logger"
	"github.com/kilianp07/airlift/infra/mqtt"
	"github.com/kilianp07/airlift/scenario"
)

type Config struct {
	Engine     planner.Config         `json:"engine"`
	Strategies []factory.ModuleConfig `json:"strategies"`
	History    factory.ModuleConfig   `json:"history"`
	Metrics    metrics.Config         `json:"metrics"`
	// MQTT publishing is enabled when a broker is set.
	MQTT    mqtt.Config           `json:"mqtt"`
	Server  ServerConfig          `json:"server"`
	Remote  scenario.RemoteConfig `json:"remote"`
	Logging logger.Config         `json:"logging"`
}

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on every API call.
	Token     string `json:"token"`
	CacheSize int    `json:"cache_size"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// MQTTEnabled reports whether plans are published to a broker.
func (c Config) MQTTEnabled() bool { return c.MQTT.Broker != "" }

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Engine.SetDefaults()
	c.Server.SetDefaults()
	if c.History.Type == "" {
		c.History.Type = "jsonl"
	}
	if c.MQTTEnabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate reports every invalid section at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Engine.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	for i, s := range c.Strategies {
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("strategies[%d]: type required", i))
		}
	}
	if c.MQTTEnabled() {
		if err := c.MQTT.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Server.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("server: cache_size must not be negative"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads the configuration file at path and applies K_ environment
// overrides, with "__" separating nested keys (K_SERVER__TOKEN).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
