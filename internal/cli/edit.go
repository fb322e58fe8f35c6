package cli

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// editCommand creates the interactive position filter form.
func (c *CLI) editCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "edit [TEXT]",
		Short: "Edit a position filter interactively",
		Long: `Edit a position filter interactively.

The form has a free-text position field, a chromosome selector and start
and end cytoband selectors. Editing any of them updates the others. On
enter, the canonical position text is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return c.runEdit(cmd.Context(), cmd, text, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the final form state as JSON")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, cmd *cobra.Command, text string, asJSON bool) error {
	ref := c.loadReference(ctx)

	final, err := tea.NewProgram(NewEditModel(ref, text), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	m, ok := final.(EditModel)
	if !ok || !m.Done {
		return nil
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m.Fields)
	}
	fmt.Fprintln(w, m.Fields.Text)
	return nil
}

// loadReference returns the reference of the default build, or nil with a
// warning when none is stored.
func (c *CLI) loadReference(ctx context.Context) *genome.CytobandReference {
	runner, err := c.newRunner(ctx)
	if err != nil {
		c.Logger.Warn("cytoband selectors disabled", "err", err)
		return nil
	}
	defer runner.Close(ctx)

	ref, err := runner.Reference(ctx, c.defaultBuild())
	if err != nil {
		c.Logger.Warn("cytoband selectors disabled", "err", err)
		return nil
	}
	return ref
}
