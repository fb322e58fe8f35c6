// Package config loads the karyoview configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/karyoview/config.toml (or
// the platform config directory) unless a path is given:
//
//	[reference]
//	build = "37"
//	dir   = "/data/cytobands"
//
//	[mongo]
//	uri      = "mongodb://localhost:27017"
//	database = "scout"
//
//	[cache]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//
//	[layout]
//	viewport_width = 1955
//	image_base     = "/public/static/ideograms"
//
//	[server]
//	addr = ":8080"
//
// Missing keys take their values from [Default]. Command-line flags are
// applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/karyoview/pkg/genome"
)

const (
	appName = "karyoview"

	// FileName is the name of the configuration file.
	FileName = "config.toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// ErrConfigNotFound is returned when an explicitly named file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all karyoview configuration.
type Config struct {
	Reference ReferenceConfig `toml:"reference"`
	Mongo     MongoConfig     `toml:"mongo"`
	Cache     CacheConfig     `toml:"cache"`
	Layout    LayoutConfig    `toml:"layout"`
	Server    ServerConfig    `toml:"server"`
}

// ReferenceConfig selects the genome build and the cytoband file directory.
type ReferenceConfig struct {
	Build string `toml:"build"`
	Dir   string `toml:"dir"`
}

// MongoConfig enables the MongoDB cytoband store when URI is set.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// LayoutConfig holds layout defaults.
type LayoutConfig struct {
	ViewportWidth int    `toml:"viewport_width"`
	ImageBase     string `toml:"image_base"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Load reads the file at [DefaultPath], falling back to defaults when it
// does not exist.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := LoadFromPath(path)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFromPath reads config from a specific path, merges it with defaults
// and validates the result. Unknown keys are rejected.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	md, err := toml.Decode(string(data), loaded)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	merged := Merge(loaded, Default())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks that config values are usable.
func Validate(cfg *Config) error {
	if _, err := genome.ValidateBuild(cfg.Reference.Build); err != nil {
		return fmt.Errorf("%w: reference.build: %v", ErrInvalidConfig, err)
	}

	switch cfg.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if cfg.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: cache.redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: cache.backend must be one of file, redis, none, got %q",
			ErrInvalidConfig, cfg.Cache.Backend)
	}
	if cfg.Cache.RedisDB < 0 {
		return fmt.Errorf("%w: cache.redis_db must be non-negative, got %d", ErrInvalidConfig, cfg.Cache.RedisDB)
	}

	if cfg.Layout.ViewportWidth <= 0 {
		return fmt.Errorf("%w: layout.viewport_width must be positive, got %d",
			ErrInvalidConfig, cfg.Layout.ViewportWidth)
	}

	if cfg.Mongo.URI != "" && !strings.HasPrefix(cfg.Mongo.URI, "mongodb://") && !strings.HasPrefix(cfg.Mongo.URI, "mongodb+srv://") {
		return fmt.Errorf("%w: mongo.uri must start with mongodb:// or mongodb+srv://", ErrInvalidConfig)
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr cannot be empty", ErrInvalidConfig)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Write encodes cfg as TOML to path, creating parent directories.
func Write(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
