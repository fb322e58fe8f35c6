package ideogram

import (
	"slices"
	"testing"

	"github.com/matzehuels/karyoview/pkg/genome"
)

func TestColumnsFor(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 1},
		{1554, 1},
		{1555, 2},
		{1954, 2},
		{1955, 3},
		{4000, 3},
	}

	for _, tt := range tests {
		if got := ColumnsFor(tt.width); got != tt.want {
			t.Errorf("ColumnsFor(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestEffectiveChromosomes(t *testing.T) {
	male := EffectiveChromosomes(genome.SexMale)
	female := EffectiveChromosomes(genome.SexFemale)
	unknown := EffectiveChromosomes(genome.SexUnknown)

	if len(male) != 24 || male[23] != "Y" {
		t.Errorf("male = %v", male)
	}
	if len(female) != 23 || slices.Contains(female, "Y") {
		t.Errorf("female = %v", female)
	}
	if !slices.Equal(female, unknown) {
		t.Errorf("unknown = %v, want same as female", unknown)
	}
	if !slices.Equal(male[:23], female) {
		t.Error("male and female order differ")
	}
	for i, c := range male {
		if c.Index() != i {
			t.Errorf("male[%d] = %s out of reference order", i, c)
		}
	}
	if EffectiveChromosomes(genome.Sex(42)) != nil {
		t.Error("out-of-range sex produced chromosomes")
	}

	// callers may not corrupt the reference order
	female[0] = "mutated"
	if genome.ReferenceOrder[0] != "1" {
		t.Fatal("EffectiveChromosomes aliases ReferenceOrder")
	}
}

func TestPlace(t *testing.T) {
	tests := []struct {
		i, columns  int
		column, row int
		origin      Point
	}{
		{0, 1, 0, 0, Point{0, 0}},
		{1, 1, 0, 1, Point{0, 150}},
		{0, 2, 0, 0, Point{0, 0}},
		{1, 2, 1, 0, Point{595, 0}},
		{2, 2, 0, 1, Point{0, 150}},
		{2, 3, 2, 0, Point{1125, 0}},
		{23, 3, 2, 7, Point{1125, 1050}},
	}

	for _, tt := range tests {
		column, row, origin := Place(tt.i, tt.columns)
		if column != tt.column || row != tt.row || origin != tt.origin {
			t.Errorf("Place(%d, %d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.i, tt.columns, column, row, origin, tt.column, tt.row, tt.origin)
		}
	}
}

func TestPlaceTwoColumns(t *testing.T) {
	_, r0, o0 := Place(0, 2)
	_, r1, o1 := Place(1, 2)
	_, r2, o2 := Place(2, 2)

	if r0 != 0 || r1 != 0 || o0.X == o1.X {
		t.Errorf("first row: rows %d,%d x %d,%d", r0, r1, o0.X, o1.X)
	}
	if r2 != 1 || o2.X != o0.X {
		t.Errorf("second row: row %d x %d", r2, o2.X)
	}
}

func TestTrackOffsetsStack(t *testing.T) {
	seen := map[int]TrackKind{}
	for _, k := range append([]TrackKind{Ideogram}, TrackKinds...) {
		off := k.Offset()
		if prev, dup := seen[off]; dup {
			t.Errorf("%v and %v share offset %d", prev, k, off)
		}
		seen[off] = k
		if off+ImageHeight > RowHeight {
			t.Errorf("%v ends at %d, past the row height %d", k, off+ImageHeight, RowHeight)
		}
	}
	for i := 1; i < len(TrackKinds); i++ {
		if TrackKinds[i].Offset()-TrackKinds[i-1].Offset() < ImageHeight {
			t.Errorf("%v overlaps %v", TrackKinds[i], TrackKinds[i-1])
		}
	}
}

func TestPanelSize(t *testing.T) {
	if PanelWidth(1) != 600 || PanelWidth(2) != 1200 || PanelWidth(3) != 1550 {
		t.Error("unexpected panel widths")
	}
	if Rows(24, 3) != 8 || Rows(23, 2) != 12 || Rows(0, 2) != 0 {
		t.Error("unexpected row counts")
	}
}

func TestParseTrackKind(t *testing.T) {
	for _, k := range append([]TrackKind{Ideogram}, TrackKinds...) {
		got, err := ParseTrackKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseTrackKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseTrackKind("methylation"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if UPDRegions.Dir() != "upd_regions_images" || Ideogram.Prefix() != "chromosome" {
		t.Error("unexpected naming")
	}
}
