// Package config loads the YAML configuration file, creating it with
// defaults on first run, and applies WEEKGRID_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Username       string        `yaml:"username,omitempty"`
	Password       string        `yaml:"password,omitempty"`
	DB             int           `yaml:"db"`
	Prefix         string        `yaml:"prefix"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type StorageConfig struct {
	// Backend is one of file, sqlite or redis.
	Backend string `yaml:"backend"`
	// Path is the data directory for file, the database file for sqlite.
	Path  string      `yaml:"path"`
	Key   string      `yaml:"key"`
	Redis RedisConfig `yaml:"redis"`
}

type ViewConfig struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
	// File receives logs while the terminal UI is running.
	File string `yaml:"file"`
}

type Config struct {
	Listen   string        `yaml:"listen"`
	Timezone string        `yaml:"timezone"`
	Storage  StorageConfig `yaml:"storage"`
	View     ViewConfig    `yaml:"view"`
	Log      LogConfig     `yaml:"log"`
}

func Default() *Config {
	cfg := &Config{
		Listen:   "127.0.0.1:8080",
		Timezone: "Local",
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     "savedEvents",
			Redis: RedisConfig{
				Addr:           "localhost:6379",
				Prefix:         "weekgrid:",
				ConnectTimeout: 30 * time.Second,
			},
		},
		View: ViewConfig{StartHour: 1, EndHour: 24},
		Log:  LogConfig{Level: "info"},
	}
	cfg.Normalize()
	return cfg
}

// DefaultPath is where the config file lives when no -config flag is given.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultLogPath is where the terminal UI logs when log.file is unset.
func DefaultLogPath() string {
	return filepath.Join(baseDir(), "weekgrid.log")
}

func baseDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "weekgrid")
	}
	return ".weekgrid"
}

// Normalize fills zero values so partially written files still work.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.Key == "" {
		c.Storage.Key = "savedEvents"
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case BackendSQLite:
			c.Storage.Path = filepath.Join(baseDir(), "weekgrid.db")
		default:
			c.Storage.Path = filepath.Join(baseDir(), "data")
		}
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "weekgrid:"
	}
	if c.Storage.Redis.ConnectTimeout <= 0 {
		c.Storage.Redis.ConnectTimeout = 30 * time.Second
	}
	if c.View.StartHour == 0 && c.View.EndHour == 0 {
		c.View = ViewConfig{StartHour: 1, EndHour: 24}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.New("config: storage.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.View.StartHour < 0 || c.View.StartHour > 23 || c.View.EndHour <= c.View.StartHour || c.View.EndHour > 24 {
		return fmt.Errorf("config: invalid view hours %d-%d", c.View.StartHour, c.View.EndHour)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; "Local" means the machine's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads path, writing a default file first if it does not exist, then
// applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	var cfg *Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = Default()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".weekgrid-config-*.tmp")
	if err != nil {
		return fmt.Errorf("config: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("config: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("config: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: replace: %w", err)
	}
	return nil
}
