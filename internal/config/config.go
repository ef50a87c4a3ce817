// Package config loads the application configuration: the shared core
// settings plus the record store and session backend sections.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "gourmetbot/core/config"
	coredatabase "gourmetbot/core/database"
	"gourmetbot/internal/sheets"
)

// Session backends.
const (
	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
)

// SessionConfig selects where dialogue state lives.
// TTLHours of 0 keeps the backend default.
type SessionConfig struct {
	Backend  string `yaml:"backend" envconfig:"SESSION_BACKEND"`
	TTLHours int    `yaml:"ttl_hours" envconfig:"SESSION_TTL_HOURS"`
}

// TTL returns the configured session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// Config is the full application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Sheets   sheets.Config       `yaml:"sheets"`
	Session  SessionConfig       `yaml:"session"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core section.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Sheets.SpreadsheetID) == "" {
		return fmt.Errorf("sheets.spreadsheet_id is required")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	if backend == "" {
		backend = SessionBackendMemory
	}
	switch backend {
	case SessionBackendMemory:
	case SessionBackendPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when session.backend is 'postgres'")
		}
		if strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.name is required when session.backend is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid session.backend %q; allowed: memory, postgres", cfg.Session.Backend)
	}
	cfg.Session.Backend = backend

	if cfg.Session.TTLHours < 0 {
		return fmt.Errorf("session.ttl_hours must be >= 0")
	}
	return nil
}
