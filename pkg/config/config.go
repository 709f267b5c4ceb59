// Package config loads arbor configuration from a TOML file under the XDG
// config directory. Every field has a default, so a missing or partial file
// is never an error; explicit paths passed with --config are validated
// strictly.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/tree"
)

// Cache backend names accepted in the [cache] section.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config holds arbor configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig controls tree layout spacing.
type LayoutConfig struct {
	SpacingX float64 `toml:"spacing_x"`
	SpacingY float64 `toml:"spacing_y"`
}

// RenderConfig controls default render options.
type RenderConfig struct {
	Theme  string `toml:"theme"`  // "light" or "dark"
	Format string `toml:"format"` // default output format for render
}

// CacheConfig controls cache backend selection.
type CacheConfig struct {
	Backend       string `toml:"backend"` // "file", "redis", "none"
	Dir           string `toml:"dir"`     // file backend root; empty means the user cache dir
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	MaxDocuments       int    `toml:"max_documents"`
	DocumentTTLMinutes int    `toml:"document_ttl_minutes"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{SpacingX: tree.DefaultSpacingX, SpacingY: tree.DefaultSpacingY},
		Render: RenderConfig{Theme: "light", Format: "svg"},
		Cache:  CacheConfig{Backend: CacheBackendFile},
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080, MaxDocuments: 100, DocumentTTLMinutes: 60},
	}
}

// ConfigDir returns the arbor config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "arbor")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at the default path, falling back to defaults
// if the file is missing or unreadable.
func Load() *Config {
	cfg := Default()
	path := configPath()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = toml.Unmarshal(data, cfg)
	return cfg
}

// LoadFile reads the config file at an explicit path. Unlike Load, a
// missing or malformed file is an error, since the user asked for that
// file specifically.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file")
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk at the default path.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Layout.SpacingX <= 0 || c.Layout.SpacingY <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout spacing must be positive")
	}
	switch c.Render.Theme {
	case "light", "dark":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "render theme must be \"light\" or \"dark\"")
	}
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend must be \"file\", \"redis\", or \"none\"")
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis cache backend requires redis_addr")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidConfig, "server port must be between 1 and 65535")
	}
	if c.Server.MaxDocuments < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_documents must be at least 1")
	}
	if c.Server.DocumentTTLMinutes < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "server document_ttl_minutes must be at least 1")
	}
	return nil
}
