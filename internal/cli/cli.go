// Package cli implements the karyoview command-line interface.
//
// The CLI is built with cobra. Every command shares one [CLI] value that
// carries the logger and the loaded configuration; the pipeline runner is
// assembled from that configuration on demand.
//
// # Commands
//
//   - parse: Parse coordinate text and print the canonical query
//   - bands: List the cytoband options of a chromosome
//   - edit: Interactive position filter form
//   - layout: Compute the ideogram layout of a case
//   - render: Render a case or a layout to SVG, PNG, PDF or JSON
//   - cytobands: Load and list cytoband references
//   - cache: Manage the local cache
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/buildinfo"
	"github.com/matzehuels/karyoview/pkg/cache"
	"github.com/matzehuels/karyoview/pkg/config"
	"github.com/matzehuels/karyoview/pkg/observability"
	"github.com/matzehuels/karyoview/pkg/pipeline"
	"github.com/matzehuels/karyoview/pkg/store"
)

// appName is the application name used for display.
const appName = "karyoview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	verbose    bool
	configPath string
	noCache    bool
	build      string
}

// New creates a new CLI instance with a default logger and the default
// configuration. The configuration file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Karyoview lays out chromosome ideograms for sequencing cases",
		Long: `Karyoview parses genomic coordinate filters and lays out per-individual
chromosome ideograms, rendering them to SVG, PNG, PDF or JSON.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/karyoview/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.StringVar(&c.build, "build", "", "genome build: 37 or 38 (default from config)")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.bandsCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cytobandsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// setup applies the global flags: log level, configuration file and build.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Install()
	}

	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFromPath(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if c.build != "" {
		cfg.Reference.Build = c.build
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "build", cfg.Reference.Build, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the configuration.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Cache.Prefix)
	}
	return pipeline.NewRunner(st, ch, keyer, c.Logger), nil
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, store.Options{
		MongoURI: c.Config.Mongo.URI,
		Database: c.Config.Mongo.Database,
		Dir:      c.Config.Reference.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("open reference store: %w", err)
	}
	return st, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	default:
		if cfg.Dir == "" {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(cfg.Dir)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns pipeline options seeded from the configuration.
// A case that names its own build still wins over Build.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Build:         c.defaultBuild(),
		ViewportWidth: c.Config.Layout.ViewportWidth,
		ImageBase:     c.Config.Layout.ImageBase,
		Logger:        c.Logger,
	}
}

// defaultBuild returns --build, or the configured build.
func (c *CLI) defaultBuild() string {
	if c.build != "" {
		return c.build
	}
	return c.Config.Reference.Build
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
