package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/coord"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	strict bool // fail on the first invalid text
	json   bool // print one JSON object per line
}

// parseResult is one line of `parse --json` output.
type parseResult struct {
	Input string      `json:"input"`
	Query coord.Query `json:"query"`
	Text  string      `json:"text"`
	Valid bool        `json:"valid"`
	Error string      `json:"error,omitempty"`
}

// parseCommand creates the parse command for coordinate text.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse TEXT...",
		Short: "Parse coordinate text into a canonical query",
		Long: `Parse coordinate text into a canonical query.

Each argument is parsed on its own. Invalid text is reported and falls back
to the unconstrained query unless --strict is given.

Examples:
  karyoview parse 7:117120017-117308718
  karyoview parse "chr7:117,120,017-117,308,718"
  karyoview parse X:1000-2000+500
  karyoview parse --json 7:1000-2000 MT`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on invalid text")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON output")

	return cmd
}

// runParse parses every text in args and writes one result per text to w.
func runParse(w io.Writer, args []string, opts parseOpts) error {
	enc := json.NewEncoder(w)
	for _, raw := range args {
		q, err := coord.ParseChecked(raw)
		if err != nil && opts.strict {
			return fmt.Errorf("parse %q: %w", raw, err)
		}

		res := parseResult{Input: raw, Query: q, Text: coord.Format(q), Valid: err == nil}
		if err != nil {
			res.Error = err.Error()
		}

		if opts.json {
			if err := enc.Encode(res); err != nil {
				return err
			}
			continue
		}
		writeParseResult(w, res)
	}
	return nil
}

func writeParseResult(w io.Writer, res parseResult) {
	text := res.Text
	if text == "" {
		text = StyleDim.Render("(any)")
	}
	if !res.Valid {
		fmt.Fprintf(w, "%s %s  %s\n", styleIconError.Render(iconError), res.Input, StyleWarning.Render(res.Error))
		return
	}

	var parts []string
	parts = append(parts, "chromosome="+res.Query.Chromosome.String())
	if res.Query.Start.Valid {
		parts = append(parts, fmt.Sprintf("start=%d", res.Query.Start.Value))
	}
	if res.Query.End.Valid {
		parts = append(parts, fmt.Sprintf("end=%d", res.Query.End.Value))
	}
	if !res.Query.Padding.IsZero() {
		parts = append(parts, "padding="+res.Query.Padding.String())
	}
	fmt.Fprintf(w, "%s %s %s %s  %s\n",
		styleIconSuccess.Render(iconSuccess), res.Input,
		StyleDim.Render(iconArrow), StyleValue.Render(text),
		StyleDim.Render(strings.Join(parts, " ")))
}
