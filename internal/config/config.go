// Package config loads the viewcheck YAML configuration: named connections,
// logging and result persistence.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/liyacrafter/viewcheck/internal/connection"
)

const (
	CurrentVersion = 1
	DefaultPath    = "~/.viewcheck/viewcheck.yaml"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrNoConnectionType   = errors.New("connection type is required")
)

// Config is the top-level configuration.
type Config struct {
	Version     int                         `yaml:"version"`
	Connections map[string]ConnectionConfig `yaml:"connections"`
	Logging     LogConfig                   `yaml:"logging,omitempty"`
	Results     ResultsConfig               `yaml:"results,omitempty"`
}

// ConnectionConfig names a backend and its parameters. Parameter values may
// contain ${ENV:..}, ${VAULT:path#key} or ${AWS_SM:name[#key]} references.
type ConnectionConfig struct {
	Type   string            `yaml:"type"`
	Params map[string]string `yaml:"params,omitempty"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level         string `yaml:"level,omitempty"`          // debug, info, warn, error
	Directory     string `yaml:"directory,omitempty"`      // default ~/.viewcheck/logs/
	RetentionDays int    `yaml:"retention_days,omitempty"` // default 30
}

// ResultsConfig controls where run reports go. MongoDB persistence is enabled
// when MongoDBURI is set.
type ResultsConfig struct {
	ReportDir  string `yaml:"report_dir,omitempty"`
	MongoDBURI string `yaml:"mongodb_uri,omitempty"`
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

// Load reads, validates and resolves the config file at path.
func Load(path string) (*Config, error) {
	return LoadContext(context.Background(), path)
}

// LoadContext is Load with a context for secret lookups.
func LoadContext(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("%w %d (expected %d)", ErrUnsupportedVersion, cfg.Version, CurrentVersion)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.resolveSecrets(ctx); err != nil {
		return nil, fmt.Errorf("resolving secrets: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks every connection's backend tag. Required parameters are
// checked after secret resolution, when the manager is created.
func (c *Config) Validate() error {
	for _, name := range c.ConnectionNames() {
		conn := c.Connections[name]
		if strings.TrimSpace(conn.Type) == "" {
			return fmt.Errorf("connection %q: %w", name, ErrNoConnectionType)
		}
		if _, err := connection.ParseBackend(conn.Type); err != nil {
			return fmt.Errorf("connection %q: %w", name, err)
		}
	}
	return nil
}

// ConnectionNames returns the configured connection names, sorted.
func (c *Config) ConnectionNames() []string {
	names := make([]string, 0, len(c.Connections))
	for n := range c.Connections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Specs converts the connections for connection.NewPool.
func (c *Config) Specs() map[string]connection.Spec {
	out := make(map[string]connection.Spec, len(c.Connections))
	for name, conn := range c.Connections {
		out[name] = connection.Spec{Backend: conn.Type, Params: connection.Config(conn.Params).Clone()}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Directory == "" {
		c.Logging.Directory = ExpandHome("~/.viewcheck/logs/")
	}
	if c.Logging.RetentionDays == 0 {
		c.Logging.RetentionDays = 30
	}
	if c.Results.ReportDir == "" {
		c.Results.ReportDir = ExpandHome("~/.viewcheck/reports/")
	}
	if c.Results.Database == "" {
		c.Results.Database = "viewcheck"
	}
	if c.Results.Collection == "" {
		c.Results.Collection = "validation_runs"
	}
	c.Logging.Directory = ExpandHome(c.Logging.Directory)
	c.Results.ReportDir = ExpandHome(c.Results.ReportDir)
}

func (c *Config) resolveSecrets(ctx context.Context) error {
	r := newSecretResolver()
	for _, name := range c.ConnectionNames() {
		conn := c.Connections[name]
		for key, val := range conn.Params {
			resolved, err := r.resolve(ctx, val)
			if err != nil {
				return fmt.Errorf("connection %q param %s: %w", name, key, err)
			}
			conn.Params[key] = resolved
		}
	}
	var err error
	c.Results.MongoDBURI, err = r.resolve(ctx, c.Results.MongoDBURI)
	if err != nil {
		return fmt.Errorf("results mongodb_uri: %w", err)
	}
	return nil
}

// ExpandHome expands ~ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
