package config

import (
	"time"

	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/ideogram"
	"github.com/matzehuels/karyoview/pkg/store"
)

// Default returns the configuration used when no file exists or a key is
// missing.
func Default() *Config {
	cfg := &Config{
		Reference: ReferenceConfig{
			Build: genome.Build37,
		},
		Mongo: MongoConfig{
			Database: store.DefaultDatabase,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
		},
		Layout: LayoutConfig{
			ViewportWidth: 1955,
			ImageBase:     ideogram.DefaultIdeogramBase,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
	if dir, err := DataDir(); err == nil {
		cfg.Reference.Dir = dir
	}
	if dir, err := CacheDir(); err == nil {
		cfg.Cache.Dir = dir
	}
	return cfg
}

// Merge returns a new Config where set values of loaded take precedence
// over defaults.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Reference: ReferenceConfig{
			Build: pick(loaded.Reference.Build, defaults.Reference.Build),
			Dir:   pick(loaded.Reference.Dir, defaults.Reference.Dir),
		},
		Mongo: MongoConfig{
			URI:      pick(loaded.Mongo.URI, defaults.Mongo.URI),
			Database: pick(loaded.Mongo.Database, defaults.Mongo.Database),
		},
		Cache: CacheConfig{
			Backend:       pick(loaded.Cache.Backend, defaults.Cache.Backend),
			Dir:           pick(loaded.Cache.Dir, defaults.Cache.Dir),
			RedisAddr:     pick(loaded.Cache.RedisAddr, defaults.Cache.RedisAddr),
			RedisPassword: pick(loaded.Cache.RedisPassword, defaults.Cache.RedisPassword),
			RedisDB:       pick(loaded.Cache.RedisDB, defaults.Cache.RedisDB),
			Prefix:        pick(loaded.Cache.Prefix, defaults.Cache.Prefix),
		},
		Layout: LayoutConfig{
			ViewportWidth: pick(loaded.Layout.ViewportWidth, defaults.Layout.ViewportWidth),
			ImageBase:     pick(loaded.Layout.ImageBase, defaults.Layout.ImageBase),
		},
		Server: ServerConfig{
			Addr:            pick(loaded.Server.Addr, defaults.Server.Addr),
			ShutdownTimeout: pick(loaded.Server.ShutdownTimeout, defaults.Server.ShutdownTimeout),
		},
	}
}

func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
