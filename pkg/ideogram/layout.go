package ideogram

import "github.com/matzehuels/karyoview/pkg/genome"

// Layout constants shared by the ideogram and all tracks, in pixels.
const (
	ColumnWidth = 530
	XOffset     = 60
	SmallGutter = 5
	RowHeight   = 150

	// ImageInset is the horizontal distance from a placement origin to
	// its images; the label text uses the inset.
	ImageInset  = 15
	ImageWidth  = 500
	ImageHeight = 25

	// Viewport breakpoints of [ColumnsFor].
	SingleColumnBreakpoint = 1555
	TwoColumnBreakpoint    = 1955
)

// panelWidths is the drawing width per column count.
var panelWidths = map[int]int{1: 600, 2: 1200, 3: 1550}

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by dx, dy.
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// ColumnsFor returns the column count for a viewport width.
func ColumnsFor(width int) int {
	switch {
	case width < SingleColumnBreakpoint:
		return 1
	case width < TwoColumnBreakpoint:
		return 2
	default:
		return 3
	}
}

// PanelWidth returns the drawing width for a column count.
func PanelWidth(columns int) int {
	if w, ok := panelWidths[columns]; ok {
		return w
	}
	return panelWidths[3]
}

// EffectiveChromosomes returns the chromosomes drawn for an individual,
// in reference order. Y is only drawn for males. MT is never drawn.
func EffectiveChromosomes(sex genome.Sex) []genome.Chromosome {
	autosomesAndX := genome.ReferenceOrder[:23]
	switch sex {
	case genome.SexMale:
		return append(append([]genome.Chromosome(nil), autosomesAndX...), "Y")
	case genome.SexFemale, genome.SexUnknown:
		return append([]genome.Chromosome(nil), autosomesAndX...)
	}
	return nil
}

// Place returns the grid cell and pixel origin of the i-th chromosome.
func Place(i, columns int) (column, row int, origin Point) {
	if columns < 1 {
		columns = 1
	}
	column = i % columns
	row = i / columns
	if column > 0 {
		origin.X = ColumnWidth*column + XOffset + SmallGutter
	}
	origin.Y = row * RowHeight
	return column, row, origin
}

// Rows returns the number of rows needed for n chromosomes.
func Rows(n, columns int) int {
	if columns < 1 {
		columns = 1
	}
	return (n + columns - 1) / columns
}
