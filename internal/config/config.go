package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"everywhere/internal/eventbus"
)

// FileName is the default config file looked up in the working directory
const FileName = ".everywhere.toml"

// Config represents the application configuration
type Config struct {
	Version    int                       `toml:"version"`
	Roots      []string                  `toml:"roots"`
	MaxDepth   int                       `toml:"max_depth"`
	MaxResults int                       `toml:"max_results"` // per provider
	Providers  map[string]ProviderConfig `toml:"providers"`
	Throttle   ThrottleConfig            `toml:"throttle"`
	Results    ResultsConfig             `toml:"results"`
	Commands   []CommandConfig           `toml:"commands"`
	UISettings UISettings                `toml:"ui"`
}

// ProviderConfig configures one search provider
type ProviderConfig struct {
	Enabled  bool `toml:"enabled"`
	Priority int  `toml:"priority"`
}

// ThrottleConfig controls how provider events are batched for the UI
type ThrottleConfig struct {
	InitialWindowMS int     `toml:"initial_window_ms"`
	IntervalMS      int     `toml:"interval_ms"`
	RatePerSecond   float64 `toml:"rate_per_second"`
	Burst           int     `toml:"burst"`
}

// ResultsConfig tunes the result list
type ResultsConfig struct {
	FullReplaceSearch bool `toml:"full_replace_search"`
}

// CommandConfig is a user command offered as a search result
type CommandConfig struct {
	Name string `toml:"name"`
	Run  string `toml:"run"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowProvider bool `toml:"show_provider"`
}

// InitialWindow returns the throttle's initial accumulation window
func (t ThrottleConfig) InitialWindow() time.Duration {
	return time.Duration(t.InitialWindowMS) * time.Millisecond
}

// Interval returns the throttle's flush interval
func (t ThrottleConfig) Interval() time.Duration {
	return time.Duration(t.IntervalMS) * time.Millisecond
}

// Priorities returns provider id -> priority for enabled providers
func (c *Config) Priorities() map[string]int {
	priorities := make(map[string]int, len(c.Providers))
	for id, p := range c.Providers {
		if p.Enabled {
			priorities[id] = p.Priority
		}
	}
	return priorities
}

// ProviderEnabled reports whether a provider should run; unknown providers are off
func (c *Config) ProviderEnabled(id string) bool {
	return c.Providers[id].Enabled
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for the given file
func NewConfigService(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	return &configService{filePath: path, bus: bus}
}

// Load loads the configuration, falling back to defaults when the file is missing
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Roots: cfg.Roots})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Fields missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Roots = nil
	cfg.Providers = nil
	cfg.Commands = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = DefaultConfig().Providers
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{filepath.Dir(path)}
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}

	return &Config{
		Version:    1,
		Roots:      []string{root},
		MaxDepth:   6,
		MaxResults: 200,
		Providers: map[string]ProviderConfig{
			"commands": {Enabled: true, Priority: 30},
			"repos":    {Enabled: true, Priority: 20},
			"files":    {Enabled: true, Priority: 10},
		},
		Throttle: ThrottleConfig{
			InitialWindowMS: 100,
			IntervalMS:      50,
			RatePerSecond:   20,
			Burst:           5,
		},
		Results: ResultsConfig{
			FullReplaceSearch: true,
		},
		Commands: []CommandConfig{
			{Name: "Run tests", Run: "go test ./..."},
			{Name: "Build", Run: "go build ./..."},
			{Name: "Git status", Run: "git status"},
		},
		UISettings: UISettings{
			ShowProvider: true,
		},
	}
}
