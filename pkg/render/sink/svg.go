package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/karyoview/pkg/ideogram"
)

// markerHeadroom is the space kept above the first row for markers.
const markerHeadroom = 15

// panelGap separates stacked panels in a case document.
const panelGap = 20

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	markers     bool
	title       string
	stroke      string
	strokeWidth float64
}

// WithMarkers draws the markers attached to each placement.
func WithMarkers() SVGOption { return func(r *svgRenderer) { r.markers = true } }

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithStroke sets the outline color and width (default black, 1).
func WithStroke(color string, width float64) SVGOption {
	return func(r *svgRenderer) { r.stroke, r.strokeWidth = color, width }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{stroke: "black", strokeWidth: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws one individual's panel as a standalone SVG document.
func RenderSVG(p ideogram.Panel, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	top := r.headroom()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" id="svg_%s" viewBox="0 %d %d %d" width="%d" height="%d">`+"\n",
		esc(p.IndividualID), -top, p.Width, p.Height+top, p.Width, p.Height+top)
	r.renderTitle(&buf, r.title)
	r.renderPanel(&buf, p, "  ")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderCaseSVG stacks all panels of a case in one document.
func RenderCaseSVG(res ideogram.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	top := r.headroom()

	width, height := 0, 0
	for i, p := range res.Panels {
		width = max(width, p.Width)
		if i > 0 {
			height += panelGap
		}
		height += p.Height + top
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	r.renderTitle(&buf, r.title)

	y := 0
	for _, p := range res.Panels {
		fmt.Fprintf(&buf, `  <g id="svg_%s" transform="translate(0,%d)">`+"\n", esc(p.IndividualID), y+top)
		r.renderPanel(&buf, p, "    ")
		buf.WriteString("  </g>\n")
		y += p.Height + top + panelGap
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) headroom() int {
	if r.markers {
		return markerHeadroom
	}
	return 0
}

func (r svgRenderer) renderTitle(buf *bytes.Buffer, title string) {
	if title != "" {
		fmt.Fprintf(buf, "  <title>%s</title>\n", esc(title))
	}
}

func (r svgRenderer) renderPanel(buf *bytes.Buffer, p ideogram.Panel, indent string) {
	for _, pl := range p.Placements {
		r.renderPlacement(buf, pl, indent)
	}
}

func (r svgRenderer) renderPlacement(buf *bytes.Buffer, p ideogram.Placement, indent string) {
	in := indent + "  "
	d := p.Outline.String()

	fmt.Fprintf(buf, "%s<g id=\"%s\">\n", indent, esc(p.GroupID))
	fmt.Fprintf(buf, "%s<defs><clipPath id=\"%s\"><path d=\"%s\"/></clipPath></defs>\n", in, esc(p.ClipPathID), d)
	renderImage(buf, in, p.Image, fmt.Sprintf(` clip-path="url(#%s)"`, esc(p.ClipPathID)))
	fmt.Fprintf(buf, "%s<text x=\"%d\" y=\"%d\">%s</text>\n", in, p.Label.At.X, p.Label.At.Y, esc(p.Label.Text))
	fmt.Fprintf(buf, "%s<path d=\"%s\" style=\"stroke:%s;stroke-width:%g\" fill-opacity=\"0.0\"/>\n",
		in, d, esc(r.stroke), r.strokeWidth)
	for _, o := range p.Overlays {
		renderImage(buf, in, o, "")
	}
	if r.markers {
		for _, m := range p.Markers {
			renderMarker(buf, in, m)
		}
	}
	fmt.Fprintf(buf, "%s</g>\n", indent)
}

func renderImage(buf *bytes.Buffer, indent string, o ideogram.Overlay, extra string) {
	href := esc(o.Href)
	fmt.Fprintf(buf, "%s<image class=\"%s\" href=\"%s\" xlink:href=\"%s\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"%s/>\n",
		indent, o.Kind, href, href, o.Origin.X, o.Origin.Y, o.Width, o.Height, extra)
}

func renderMarker(buf *bytes.Buffer, indent string, m ideogram.Marker) {
	poly := fmt.Sprintf(`<polygon points="%s" style="fill:red;stroke:crimson;stroke-width:1"/>`, m.PointsAttr())
	if m.Href == "" {
		fmt.Fprintf(buf, "%s%s\n", indent, poly)
		return
	}
	fmt.Fprintf(buf, "%s<a href=\"%s\">%s</a>\n", indent, esc(m.Href), poly)
}

func esc(s string) string {
	return html.EscapeString(s)
}
