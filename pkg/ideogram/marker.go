package ideogram

import (
	"fmt"
	"strings"
)

// Marker geometry. Ideogram images carry 55 px of whitespace left of the
// strip; the triangle tip points 5 px into the strip.
const (
	markerImageMargin = 55
	markerWidth       = 10
	markerRise        = 10
	markerTip         = 5
)

// Marker is a downward triangle pointing at a genomic position.
type Marker struct {
	Position int      `json:"position"`
	Href     string   `json:"href,omitempty"`
	Points   [3]Point `json:"points"`
}

// PointsAttr renders the triangle for an SVG points attribute.
func (m Marker) PointsAttr() string {
	parts := make([]string, len(m.Points))
	for i, p := range m.Points {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// Marker converts a genomic position on the placement's chromosome into a
// triangle above the strip. Positions outside the chromosome, or on a
// chromosome without reference length or metrics, yield false.
func (e *Engine) Marker(p Placement, position int, href string) (Marker, bool) {
	if e.Reference == nil || e.Metrics == nil {
		return Marker{}, false
	}
	length, ok := e.Reference.Length(p.Chromosome)
	if !ok || length <= 0 || position < 0 || position > length {
		return Marker{}, false
	}
	m, ok := e.Metrics.Lookup(p.Chromosome)
	if !ok {
		return Marker{}, false
	}

	offset := int(int64(position) * int64(m.PixelLength) / int64(length))
	x := p.Origin.X + offset + markerImageMargin
	y := p.Origin.Y
	return Marker{
		Position: position,
		Href:     href,
		Points: [3]Point{
			{x, y - markerRise},
			{x + markerWidth, y - markerRise},
			{x + markerWidth/2, y + markerTip},
		},
	}, true
}
