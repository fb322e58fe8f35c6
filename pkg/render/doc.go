// Package render provides output conversion for ideogram drawings.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderCaseSVG(result)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// The [sink] subpackage turns a computed [ideogram.Result] into SVG, JSON,
// PNG and PDF documents.
//
// [sink]: github.com/matzehuels/karyoview/pkg/render/sink
// [ideogram.Result]: github.com/matzehuels/karyoview/pkg/ideogram.Result
package render
