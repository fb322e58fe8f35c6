package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/ucsc"
)

// cytobandsCommand creates the cytoband reference management command.
func (c *CLI) cytobandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cytobands",
		Short: "Manage cytoband references",
		Long: `Manage cytoband references.

References are stored in MongoDB when mongo.uri is configured, and as
files under reference.dir otherwise.`,
	}

	cmd.AddCommand(c.cytobandsLoadCommand())
	cmd.AddCommand(c.cytobandsFetchCommand())
	cmd.AddCommand(c.cytobandsListCommand())

	return cmd
}

// cytobandsLoadCommand creates the "cytobands load" subcommand.
func (c *CLI) cytobandsLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Load a UCSC cytoBand.txt file for a build",
		Long: `Load a UCSC cytoBand.txt file for a build.

The build is taken from --build (default from config). Contigs outside
1-22, X, Y and M are skipped. An existing reference is replaced.

Example:
  karyoview cytobands load cytoBand.txt --build 37`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCytobandsLoad(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runCytobandsLoad(ctx context.Context, path string) error {
	build, err := genome.ValidateBuild(c.defaultBuild())
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ref, err := genome.ReadCytobands(f, build)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := c.storeReference(ctx, ref); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d bands", ref.Len()))
	printReference(ref)
	return nil
}

// cytobandsFetchCommand creates the "cytobands fetch" subcommand.
func (c *CLI) cytobandsFetchCommand() *cobra.Command {
	var mirror string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the cytoband table of a build from UCSC",
		Long: `Download the cytoband table of a build from UCSC.

Build 37 is fetched as hg19 and build 38 as hg38. An existing reference is
replaced.

Example:
  karyoview cytobands fetch --build 38`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCytobandsFetch(cmd.Context(), mirror)
		},
	}

	cmd.Flags().StringVar(&mirror, "mirror", ucsc.DefaultBaseURL, "UCSC goldenPath base URL")

	return cmd
}

func (c *CLI) runCytobandsFetch(ctx context.Context, mirror string) error {
	client := ucsc.NewClient(ucsc.WithBaseURL(mirror))
	url, err := client.URL(c.defaultBuild())
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Downloading "+url+"...")
	spinner.Start()
	ref, err := client.Cytobands(ctx, c.defaultBuild())
	if err != nil {
		spinner.StopWithError("Download failed")
		return err
	}
	spinner.Stop()

	if err := c.storeReference(ctx, ref); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Fetched %d bands", ref.Len()))
	printReference(ref)
	printDetail("Source: %s", url)
	return nil
}

// storeReference saves ref and drops its cached copy. Layout keys include
// the reference content, so cached layouts of the old bands go unused.
func (c *CLI) storeReference(ctx context.Context, ref *genome.CytobandReference) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	if err := runner.Store.Put(ctx, ref); err != nil {
		return fmt.Errorf("store build %s: %w", ref.Build(), err)
	}
	if err := runner.Cache.Delete(ctx, runner.Keyer.ReferenceKey(ref.Build())); err != nil {
		c.Logger.Warn("could not invalidate cached reference", "build", ref.Build(), "err", err)
	}
	return nil
}

func printReference(ref *genome.CytobandReference) {
	printSuccess("Stored build %s", ref.Build())
	printKeyValue("Bands", fmt.Sprintf("%d", ref.Len()))
	printKeyValue("Chromosomes", fmt.Sprintf("%d", len(ref.Chromosomes())))
}

// cytobandsListCommand creates the "cytobands list" subcommand.
func (c *CLI) cytobandsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			builds, err := st.Builds(ctx)
			if err != nil {
				return fmt.Errorf("list builds: %w", err)
			}
			if len(builds) == 0 {
				printInfo("No cytoband references stored")
				printNextStep("Load one", appName+" cytobands load cytoBand.txt --build 37")
				return nil
			}
			for _, b := range builds {
				ref, err := st.Cytobands(ctx, b)
				if err != nil {
					printWarning("build %s: %v", b, err)
					continue
				}
				printKeyValue("Build "+b, fmt.Sprintf("%d bands, %d chromosomes", ref.Len(), len(ref.Chromosomes())))
			}
			return nil
		},
	}
}
