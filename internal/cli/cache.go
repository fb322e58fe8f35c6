package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/cache"
	"github.com/matzehuels/karyoview/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local reference, layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCache opens the configured file cache, or returns nil with a warning
// when another backend is configured.
func (c *CLI) fileCache(action string) (*cache.FileCache, error) {
	if c.Config.Cache.Backend != config.CacheFile {
		printWarning("cache %s only applies to the file backend (configured: %s)", action, c.Config.Cache.Backend)
		return nil, nil
	}
	fc, err := cache.NewFileCache(c.Config.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc.(*cache.FileCache), nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached references, layouts and artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache("clear")
			if fc == nil || err != nil {
				return err
			}
			usage, err := fc.Usage()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			total := 0
			for _, u := range usage {
				total += u.Entries
			}
			if total == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cache entries", total)
			for _, b := range sortedBuckets(usage) {
				printDetail("%s: %d", b, usage[b].Entries)
			}
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts and sizes per cache bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache("stats")
			if fc == nil || err != nil {
				return err
			}
			usage, err := fc.Usage()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			writeUsage(cmd.OutOrStdout(), usage)
			return nil
		},
	}
}

func writeUsage(w io.Writer, usage map[string]cache.Usage) {
	if len(usage) == 0 {
		fmt.Fprintln(w, "empty")
		return
	}
	for _, b := range sortedBuckets(usage) {
		fmt.Fprintf(w, "%-10s %6d  %s\n", b, usage[b].Entries, formatBytes(usage[b].Bytes))
	}
}

func sortedBuckets(usage map[string]cache.Usage) []string {
	out := make([]string, 0, len(usage))
	for b := range usage {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.Config.Cache.Dir)
			return nil
		},
	}
}
