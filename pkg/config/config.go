// Package config loads hanoi settings from an optional TOML file.
//
// Settings are resolved in three layers: built-in defaults, then the config
// file, then command-line flags (applied by the caller). A missing file is
// not an error.
//
//	format = "text"
//	max_disks = 20
//	debug = false
//	verify = false
//
//	[cache]
//	enabled = true
//	dir = ""                      # defaults to $XDG_CACHE_HOME/hanoi
//	ttl = "24h"
//	redis_url = ""                # e.g. redis://localhost:6379/0
//
//	[server]
//	addr = ":8080"
//
//	[metrics]
//	textfile = ""
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/hanoi"
	"github.com/matzehuels/hanoi/pkg/io"
)

const (
	// AppName names the config and cache directories.
	AppName = "hanoi"

	// DefaultMaxDisks bounds n for the CLI and the HTTP API. A trace for 20
	// disks is about 3M integers.
	DefaultMaxDisks = 20

	DefaultCacheTTL   = 24 * time.Hour
	DefaultServerAddr = ":8080"
)

// Config is the effective configuration.
type Config struct {
	Format   string  `toml:"format"`
	MaxDisks int     `toml:"max_disks"`
	Debug    bool    `toml:"debug"`
	Verify   bool    `toml:"verify"`
	Cache    Cache   `toml:"cache"`
	Server   Server  `toml:"server"`
	Metrics  Metrics `toml:"metrics"`
}

type Cache struct {
	Enabled  bool     `toml:"enabled"`
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
	RedisURL string   `toml:"redis_url"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Metrics struct {
	// Textfile, when set, receives a Prometheus textfile dump after each
	// solve command.
	Textfile string `toml:"textfile"`
}

// Duration is a time.Duration that reads and writes TOML strings like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:   string(io.FormatText),
		MaxDisks: DefaultMaxDisks,
		Cache: Cache{
			Enabled: true,
			TTL:     Duration{DefaultCacheTTL},
		},
		Server: Server{Addr: DefaultServerAddr},
	}
}

// Load reads path on top of the defaults. An empty path selects [Path]; a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if _, err := io.ParseFormat(c.Format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "format")
	}
	if c.MaxDisks < 1 || c.MaxDisks > hanoi.MaxDisks {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max_disks must be between 1 and %d, got %d", hanoi.MaxDisks, c.MaxDisks)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// CacheDir returns the configured cache directory or the XDG default.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Path returns the config file location (~/.config/hanoi/config.toml).
func Path() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/hanoi/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
