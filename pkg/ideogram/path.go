package ideogram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// Outline shape constants.
const (
	stripHeight = 25
	capRadius   = 7
	capInset    = 30
	waistDepth  = 3
	waistSlope  = 5
)

// Segment is one SVG path command and its points.
type Segment struct {
	Op     byte
	Points []Point
}

// Path is an SVG path made of M, L, C and Z commands.
type Path struct {
	Segments []Segment
}

func (p *Path) moveTo(pt Point) {
	p.Segments = append(p.Segments, Segment{Op: 'M', Points: []Point{pt}})
}

func (p *Path) lineTo(pts ...Point) {
	for _, pt := range pts {
		p.Segments = append(p.Segments, Segment{Op: 'L', Points: []Point{pt}})
	}
}

func (p *Path) curveTo(c1, c2, end Point) {
	p.Segments = append(p.Segments, Segment{Op: 'C', Points: []Point{c1, c2, end}})
}

func (p *Path) close() {
	p.Segments = append(p.Segments, Segment{Op: 'Z'})
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(s.Op)
		for _, pt := range s.Points {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(pt.X))
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(pt.Y))
		}
	}
	return b.String()
}

// Points returns every point of the path in drawing order.
func (p Path) Points() []Point {
	var out []Point
	for _, s := range p.Segments {
		out = append(out, s.Points...)
	}
	return out
}

// Closed reports whether the path ends with Z.
func (p Path) Closed() bool {
	n := len(p.Segments)
	return n > 0 && p.Segments[n-1].Op == 'Z'
}

// MarshalJSON encodes the path as its SVG path data.
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes SVG path data written by MarshalJSON.
func (p *Path) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePath(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// pointsPerOp is the number of points each supported command takes.
var pointsPerOp = map[byte]int{'M': 1, 'L': 1, 'C': 3, 'Z': 0}

// ParsePath reads path data in the form produced by [Path.String]:
// absolute M, L, C and Z commands with integer coordinates.
func ParsePath(s string) (Path, error) {
	var p Path
	fields := strings.Fields(s)
	for i := 0; i < len(fields); {
		tok := fields[i]
		n, ok := pointsPerOp[tok[0]]
		if len(tok) != 1 || !ok {
			return Path{}, fmt.Errorf("path: unexpected token %q", tok)
		}
		i++
		if i+2*n > len(fields) {
			return Path{}, fmt.Errorf("path: %c needs %d coordinates", tok[0], 2*n)
		}
		seg := Segment{Op: tok[0]}
		for j := 0; j < n; j++ {
			x, errX := strconv.Atoi(fields[i])
			y, errY := strconv.Atoi(fields[i+1])
			if errX != nil || errY != nil {
				return Path{}, fmt.Errorf("path: bad coordinate %q %q", fields[i], fields[i+1])
			}
			seg.Points = append(seg.Points, Point{x, y})
			i += 2
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// OutlinePath traces the ideogram contour of m at origin: the bottom edge
// with the lower waist from right to left, the left cap, the top edge with
// the upper waist from left to right, then the right cap.
func OutlinePath(m genome.ChromosomeMetrics, origin Point) Path {
	x, y := origin.X, origin.Y
	right := m.PixelLength + x
	var p Path

	p.moveTo(Point{right, stripHeight + y})

	// lower waist
	lx := m.CentromereStart + m.CentromereLength + 2*waistSlope + x
	ly := stripHeight + y
	p.lineTo(
		Point{lx, ly},
		Point{lx - waistSlope, ly - waistDepth},
		Point{lx - waistSlope - m.CentromereLength, ly - waistDepth},
		Point{lx - 2*waistSlope - m.CentromereLength, ly},
	)

	p.lineTo(Point{capInset + x, stripHeight + y})
	p.curveTo(
		Point{15 - capRadius + x, stripHeight + y},
		Point{15 - capRadius + x, y},
		Point{capInset + x, y},
	)

	// upper waist
	ux := m.CentromereStart + x
	p.lineTo(
		Point{ux, y},
		Point{ux + waistSlope, y + waistDepth},
		Point{ux + waistSlope + m.CentromereLength, y + waistDepth},
		Point{ux + 2*waistSlope + m.CentromereLength, y},
	)

	p.lineTo(Point{right, y})
	p.curveTo(
		Point{right + 15 + capRadius, y},
		Point{right + 15 + capRadius, stripHeight + y},
		Point{right, stripHeight + y},
	)
	p.close()
	return p
}

// ClipPath returns the clip region of the ideogram image. It is the
// outline itself.
func ClipPath(m genome.ChromosomeMetrics, origin Point) Path {
	return OutlinePath(m, origin)
}
