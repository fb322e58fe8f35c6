package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/coord"
	"github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
)

// bandsCommand creates the bands command listing cytoband options.
func (c *CLI) bandsCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "bands CHROM",
		Short: "List the cytoband start and end options of a chromosome",
		Long: `List the cytoband start and end options of a chromosome.

Bands come from the reference of the selected build. With --query, the
options matching the query's bounds are highlighted.

Examples:
  karyoview bands 7
  karyoview bands X --build 38
  karyoview bands 7 --query 7:0-2800000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBands(cmd.Context(), cmd.OutOrStdout(), args[0], query)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "current position text")

	return cmd
}

func (c *CLI) runBands(ctx context.Context, w io.Writer, chrom, query string) error {
	ch, ok := genome.ParseChromosome(chrom)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown chromosome %q", chrom)
	}
	current, err := coord.ParseChecked(query)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	build := c.defaultBuild()
	ref, err := runner.Reference(ctx, build)
	if err != nil {
		return fmt.Errorf("%w (load one with '%s cytobands load')", err, appName)
	}

	opts := coord.PopulateCytobandOptions(ref, []genome.Chromosome{ch}, current)
	if opts.Empty() {
		printWarning("No bands for chromosome %s in build %s", ch, ref.Build())
		return nil
	}

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Chromosome %s", ch))+" "+StyleDim.Render("build "+ref.Build()))
	bands, _ := ref.Bands(ch)
	stains := make(map[string]string, len(bands))
	for _, b := range bands {
		stains[b.Band] = b.Stain
	}
	fmt.Fprintln(w, bandsTable(opts, stains))
	return nil
}

// bandsTable renders the start and end selectors side by side. Both lists
// hold the same bands in the same order. stains maps band names to their
// gieStain value.
func bandsTable(opts coord.CytobandOptions, stains map[string]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(opts.Start))
	for i, s := range opts.Start {
		e := opts.End[i]
		rows = append(rows, []string{
			s.Band,
			fmt.Sprintf("%d", s.Value),
			fmt.Sprintf("%d", e.Value),
			stains[s.Band],
			selectedMark(s.Selected, e.Selected),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Band", "Start", "End", "Stain", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			s, e := opts.Start[row], opts.End[row]
			switch {
			case s.Selected || e.Selected:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 3:
				return stainStyle(stains[s.Band])
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})

	return t.Render()
}

func selectedMark(start, end bool) string {
	switch {
	case start && end:
		return "start, end"
	case start:
		return "start"
	case end:
		return "end"
	}
	return ""
}
