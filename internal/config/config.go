// Package config loads the lattice configuration file.
//
// Config file locations (priority order):
//  1. $LATTICE_CONFIG
//  2. ./lattice.yaml
//  3. $XDG_CONFIG_HOME/lattice/config.yaml (or ~/.config/lattice/config.yaml)
//
// Files ending in .json are decoded as JSON, anything else as YAML.
package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lattice/pkg/layout"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "lattice.yaml"

// EnvVar names the variable holding an explicit config path.
const EnvVar = "LATTICE_CONFIG"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the root of the configuration file.
type Config struct {
	Layout  layout.Options `yaml:"layout" json:"layout"`
	Store   StoreConfig    `yaml:"store" json:"store"`
	Results SourceConfig   `yaml:"results" json:"results"`
	Spec    SourceConfig   `yaml:"spec" json:"spec"`
	Server  ServerConfig   `yaml:"server" json:"server"`
	Log     LogConfig      `yaml:"log" json:"log"`
}

// StoreConfig selects where canvases are persisted.
type StoreConfig struct {
	Driver string      `yaml:"driver" json:"driver"`
	Path   string      `yaml:"path" json:"path"`
	Redis  RedisConfig `yaml:"redis" json:"redis"`
	// EncryptionKey is a hex-encoded AES-256 key. Empty stores snapshots in clear.
	EncryptionKey string `yaml:"encryption_key" json:"encryptionKey"`
	// FallbackKeys decrypt snapshots sealed before a key rotation.
	FallbackKeys []string `yaml:"fallback_keys" json:"fallbackKeys"`
}

// Keys decodes the encryption keys. A nil active key means encryption is off.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	if active, err = decodeKey(s.EncryptionKey); err != nil {
		return nil, nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("want 32 bytes, got %d", len(key))
	}
	return key, nil
}

// RedisConfig configures the redis snapshot store and locker.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
}

// SourceConfig points a read-only collaborator store at its backend.
// At most one of SQLite and Loam should be set; SQLite wins.
type SourceConfig struct {
	SQLite string `yaml:"sqlite" json:"sqlite"`
	Loam   string `yaml:"loam" json:"loam"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load finds and loads the config file, or returns defaults if none is found.
// The returned path is empty when defaults are used.
func Load() (*Config, string, error) {
	path := FindPath()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindPath returns the first existing config file on the search path.
func FindPath() string {
	for _, candidate := range searchPath() {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func searchPath() []string {
	paths := []string{os.Getenv(EnvVar), FileName}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "lattice", "config.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lattice", "config.yaml"))
	}
	return paths
}

// applyDefaults fills in missing values.
func (c *Config) applyDefaults() {
	def := layout.DefaultOptions()
	if c.Layout.ColumnGap <= 0 {
		c.Layout.ColumnGap = def.ColumnGap
	}
	if c.Layout.GridPitch <= 0 {
		c.Layout.GridPitch = def.GridPitch
	}
	if c.Layout.TopMargin <= 0 {
		c.Layout.TopMargin = def.TopMargin
	}
	if c.Layout.NodeSpacing <= 0 {
		c.Layout.NodeSpacing = def.NodeSpacing
	}
	if c.Layout.DefaultOutputRank <= 0 {
		c.Layout.DefaultOutputRank = def.DefaultOutputRank
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverFile
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(".lattice", "canvases")
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values that defaults cannot repair.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}
	if _, _, err := c.Store.Keys(); err != nil {
		errs = append(errs, err)
	}
	if c.Store.Redis.TTL < 0 {
		errs = append(errs, errors.New("store.redis.ttl: must not be negative"))
	}
	return errors.Join(errs...)
}
