package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/karyoview/pkg/io"
	"github.com/matzehuels/karyoview/pkg/pipeline"
)

// layoutCommand creates the layout command for computing ideogram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		width   int
		marks   []string
	)

	cmd := &cobra.Command{
		Use:   "layout [case.yaml]",
		Short: "Compute the ideogram layout of a case",
		Long: `Compute the ideogram layout of a case.

The layout command reads a case file (YAML or JSON) and computes one panel
of chromosome ideograms per individual. The output is a layout.json file
(same format as 'render -f json') that 'render' accepts as input.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Refresh = refresh
			opts.Marks = marks
			if width > 0 {
				opts.ViewportWidth = width
			}
			return c.runLayout(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().IntVar(&width, "width", 0, "viewport width in pixels (default from config)")
	cmd.Flags().StringArrayVarP(&marks, "mark", "m", nil, "position to mark, e.g. 7:117120017-117308718 (repeatable)")

	return cmd
}

// runLayout loads the case, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options) error {
	kase, err := pkgio.ImportCase(input)
	if err != nil {
		return fmt.Errorf("load case %s: %w", input, err)
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out case %s...", kase.ID))
	spinner.Start()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, kase, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := pkgio.ExportJSON(layout, kase.ID, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	placements := 0
	for _, p := range layout.Panels {
		placements += len(p.Placements)
	}
	skipped := layout.AllSkipped()

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(layout.Panels), placements, len(skipped), cacheHit)
	for _, s := range skipped {
		printDetail("skipped %s %s: %s", s.IndividualID, s.Chromosome, s.Reason)
	}
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
