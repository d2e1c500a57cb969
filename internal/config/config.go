package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/moot/pkg/debate"
)

// Defaults applied when moot.yml is absent or a field is omitted.
const (
	DefaultListenAddr           = ":8000"
	DefaultMaxTurnsCeiling      = 20
	DefaultMaxPropositionLength = 2000
	DefaultStoreBackend         = "memory"
	DefaultRedisInstance        = "default"
)

// MootConfig represents the top-level moot.yml configuration
type MootConfig struct {
	Version string         `yaml:"version"`
	Server  ServerConfig   `yaml:"server,omitempty"`
	Debates DebatesConfig  `yaml:"debates,omitempty"`
	Store   StoreConfig    `yaml:"store,omitempty"`
	LLM     ProviderConfig `yaml:"llm,omitempty"`
}

// ServerConfig specifies HTTP listener behaviour
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// DebatesConfig bounds what callers may create
type DebatesConfig struct {
	DefaultMaxTurns      *int `yaml:"default_max_turns,omitempty"`      // Turns when the caller omits max_turns (default: 5)
	MaxTurnsCeiling      *int `yaml:"max_turns_ceiling,omitempty"`      // Upper bound on requested turns (default: 20)
	MaxPropositionLength *int `yaml:"max_proposition_length,omitempty"` // Upper bound on proposition size in bytes (default: 2000)
}

// StoreConfig selects the debate storage backend
type StoreConfig struct {
	Backend  string `yaml:"backend,omitempty"` // "memory" or "redis"
	RedisURL string `yaml:"redis_url,omitempty"`
	Instance string `yaml:"instance,omitempty"` // Namespace prefix for Redis keys
}

// ProviderConfig tunes outbound LLM requests
type ProviderConfig struct {
	TimeoutSeconds *int `yaml:"timeout_seconds,omitempty"` // Per-request timeout (default: 60)
}

// Timeout returns the provider timeout as a duration.
func (p *ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds == nil {
		return 0
	}
	return time.Duration(*p.TimeoutSeconds) * time.Second
}

// Validate performs strict validation on the configuration and fills in
// defaults for omitted fields.
func (c *MootConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}

	if c.Debates.DefaultMaxTurns == nil {
		defaultTurns := debate.DefaultMaxTurns
		c.Debates.DefaultMaxTurns = &defaultTurns
	}
	if c.Debates.MaxTurnsCeiling == nil {
		ceiling := DefaultMaxTurnsCeiling
		c.Debates.MaxTurnsCeiling = &ceiling
	}
	if c.Debates.MaxPropositionLength == nil {
		maxLen := DefaultMaxPropositionLength
		c.Debates.MaxPropositionLength = &maxLen
	}

	if *c.Debates.DefaultMaxTurns < 1 {
		return fmt.Errorf("debates.default_max_turns must be >= 1, got %d", *c.Debates.DefaultMaxTurns)
	}
	if *c.Debates.MaxTurnsCeiling < *c.Debates.DefaultMaxTurns {
		return fmt.Errorf("debates.max_turns_ceiling (%d) must be >= default_max_turns (%d)",
			*c.Debates.MaxTurnsCeiling, *c.Debates.DefaultMaxTurns)
	}
	if *c.Debates.MaxPropositionLength < 1 {
		return fmt.Errorf("debates.max_proposition_length must be >= 1, got %d", *c.Debates.MaxPropositionLength)
	}

	if c.Store.Backend == "" {
		c.Store.Backend = DefaultStoreBackend
	}
	switch c.Store.Backend {
	case "memory":
		// No further fields required
	case "redis":
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required when store.backend is 'redis'")
		}
		if c.Store.Instance == "" {
			c.Store.Instance = DefaultRedisInstance
		}
	default:
		return fmt.Errorf("invalid store.backend: %s (must be 'memory' or 'redis')", c.Store.Backend)
	}

	if c.LLM.TimeoutSeconds != nil && *c.LLM.TimeoutSeconds < 1 {
		return fmt.Errorf("llm.timeout_seconds must be >= 1, got %d", *c.LLM.TimeoutSeconds)
	}

	return nil
}

// Default returns the configuration used when no moot.yml is present.
func Default() *MootConfig {
	cfg := &MootConfig{Version: "1.0"}
	// Validate only fills defaults here; a bare config cannot fail it
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return cfg
}

// Load reads and validates moot.yml from the specified path
func Load(path string) (*MootConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config MootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads moot.yml when it exists and falls back to defaults
// when it does not. Any other read or validation failure is still an error.
func LoadOrDefault(path string) (*MootConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
