package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag, environment or config file in postgres mode.
	DefaultDatabaseURL = ""

	// DefaultConfigFileName is looked up in the working directory when no path is given.
	DefaultConfigFileName = "taskflow.toml"

	// DefaultLocalPath is the SQLite file used in local mode.
	DefaultLocalPath = "taskflow.db"
)

// Store drivers.
const (
	DriverLocal    = "local"
	DriverPostgres = "postgres"
)

// Log formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config is the file-level configuration. CLI flags override it.
type Config struct {
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Store selects and configures the persistence backend.
type Store struct {
	Driver      string `toml:"driver"`
	DatabaseURL string `toml:"database_url"`
	LocalPath   string `toml:"local_path"`
	Seed        bool   `toml:"seed"`
}

// Server configures the HTTP API.
type Server struct {
	Port     string `toml:"port"`
	APIToken string `toml:"api_token"`
}

// Log configures the global logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store: Store{
			Driver:      DriverLocal,
			DatabaseURL: DefaultDatabaseURL,
			LocalPath:   DefaultLocalPath,
			Seed:        true,
		},
		Server: Server{
			Port: DefaultPort,
		},
		Log: Log{
			Level:  "info",
			Format: FormatJSON,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and fills empty fields with defaults.
func (c *Config) Validate() error {
	def := Default()

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case "":
		c.Store.Driver = def.Store.Driver
	case DriverLocal, DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q (want %s or %s)", c.Store.Driver, DriverLocal, DriverPostgres)
	}

	if c.Store.LocalPath == "" {
		c.Store.LocalPath = def.Store.LocalPath
	}
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	switch c.Log.Format {
	case "":
		c.Log.Format = def.Log.Format
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("unknown log format %q (want %s or %s)", c.Log.Format, FormatJSON, FormatText)
	}
	return nil
}

// Write stores cfg as TOML at path, creating parent directories.
func Write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
