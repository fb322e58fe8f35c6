package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/karyoview/pkg/ideogram"
	"github.com/matzehuels/karyoview/pkg/observability"
	"github.com/matzehuels/karyoview/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the others.
func Render(ctx context.Context, layout ideogram.Result, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	pipe := observability.Pipeline()
	pipe.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { pipe.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	svgOpts := buildSVGOptions(layout, opts)

	var mu sync.Mutex
	artifacts = make(map[string][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, layout, format, svgOpts, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, layout ideogram.Result, format string, svgOpts []sink.SVGOption, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderCaseSVG(layout, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, layout, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		return sink.RenderPDF(ctx, layout, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		return sink.RenderJSON(layout, sink.WithJSONCase(opts.CaseID))
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// buildSVGOptions constructs SVG rendering options from pipeline options.
func buildSVGOptions(layout ideogram.Result, opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if hasMarkers(layout) {
		svgOpts = append(svgOpts, sink.WithMarkers())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}
