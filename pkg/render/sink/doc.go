// Package sink provides output format renderers for ideogram layouts.
//
// # Overview
//
// A "sink" transforms a computed [ideogram.Result] into a final output
// format:
//
//   - SVG: one <svg> per individual, or the whole case stacked vertically
//   - JSON: layout data export for external tools and caching
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
// Each chromosome becomes a <g> group holding the clip path, the clipped
// ideogram image, the label, the outline and one <image> per track:
//
//	svg := sink.RenderSVG(panel,
//	    sink.WithMarkers(),
//	    sink.WithTitle("ADM1059A1"),
//	)
//
// The clip path and the outline share the same path data, so the border
// always hugs the clipped image.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render SVG first, then convert via
// [render.ToPDF] and [render.ToPNG]. These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [ideogram.Result]: github.com/matzehuels/karyoview/pkg/ideogram.Result
// [render.ToPDF]: github.com/matzehuels/karyoview/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/karyoview/pkg/render.ToPNG
package sink
