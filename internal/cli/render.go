package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/ideogram"
	pkgio "github.com/matzehuels/karyoview/pkg/io"
	"github.com/matzehuels/karyoview/pkg/pipeline"
	"github.com/matzehuels/karyoview/pkg/render"
)

// layoutSuffix marks files written by the layout command.
const layoutSuffix = ".layout.json"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats string   // comma-separated output formats
	marks   []string // positions to mark
	title   string   // SVG title
	scale   float64  // PNG scale factor
	width   int      // viewport width in pixels
	refresh bool     // recompute even if cached
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [case.yaml | case.layout.json]",
		Short: "Render a case to SVG, PNG, PDF or JSON",
		Long: `Render a case to SVG, PNG, PDF or JSON.

The input is either a case file (YAML or JSON) or a layout written by
'layout'. Case files are laid out first; layouts are rendered as is.

PNG and PDF output require rsvg-convert on PATH.

Examples:
  karyoview render case.yaml
  karyoview render case.yaml -f svg,png --mark 7:117120017-117308718
  karyoview render case.layout.json -f pdf -o report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Formats = parseFormats(ro.formats)
			opts.Marks = ro.marks
			opts.Title = ro.title
			opts.Scale = ro.scale
			opts.Refresh = ro.refresh
			if ro.width > 0 {
				opts.ViewportWidth = ro.width
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if needsConverter(opts.Formats) && !render.Available() {
				return fmt.Errorf("png and pdf output require rsvg-convert on PATH")
			}
			return c.runRender(cmd.Context(), args[0], ro.output, opts)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringArrayVarP(&ro.marks, "mark", "m", nil, "position to mark, e.g. 7:117120017-117308718 (repeatable)")
	cmd.Flags().StringVar(&ro.title, "title", "", "title drawn above the panels")
	cmd.Flags().Float64Var(&ro.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().IntVar(&ro.width, "width", 0, "viewport width in pixels (default from config)")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runRender lays out (if needed) and renders input, then writes one file
// per format.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()

	var (
		artifacts map[string][]byte
		layout    ideogram.Result
		cached    bool
	)
	if strings.HasSuffix(input, layoutSuffix) {
		var caseID string
		layout, caseID, err = pkgio.ImportLayout(input)
		if err == nil {
			if len(opts.Marks) > 0 {
				c.Logger.Warn("marks are ignored for layout input", "input", input)
			}
			opts.CaseID = caseID
			artifacts, cached, err = runner.RenderWithCacheInfo(ctx, layout, opts)
		}
	} else {
		kase, ierr := pkgio.ImportCase(input)
		if ierr != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("load case %s: %w", input, ierr)
		}
		var res *pipeline.Result
		res, err = runner.Execute(ctx, kase, opts)
		if err == nil {
			artifacts = res.Artifacts
			layout = res.Layout
			cached = res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, input, output)
	if err != nil {
		return err
	}

	placements := 0
	for _, p := range layout.Panels {
		placements += len(p.Placements)
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(layout.Panels), placements, len(layout.AllSkipped()), cached)
	return nil
}

// writeArtifacts writes each artifact to disk and returns the paths in
// format order. A single artifact goes to output when given; several go to
// <base>.<format>.
func writeArtifacts(artifacts map[string][]byte, input, output string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	base := basePath(output, input)
	var paths []string
	for _, f := range formats {
		path := base + "." + f
		if len(formats) == 1 && output != "" {
			path = output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension (and a ".layout" marker) from
// input. If output has a format extension (.svg, .pdf, etc.), it strips
// that extension.
func basePath(output, input string) string {
	if output == "" {
		if strings.HasSuffix(input, layoutSuffix) {
			return strings.TrimSuffix(input, layoutSuffix)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.IsFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}
