package ideogram

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/matzehuels/karyoview/pkg/genome"
)

func TestOutlinePathChromosome7(t *testing.T) {
	m, _ := genome.DefaultMetrics().Lookup("7")
	got := OutlinePath(m, Point{}).String()

	want := "M 321 25 L 145 25 L 140 22 L 130 22 L 125 25 L 30 25 C 8 25 8 0 30 0 " +
		"L 125 0 L 130 3 L 140 3 L 145 0 L 321 0 C 343 0 343 25 321 25 Z"
	if got != want {
		t.Errorf("OutlinePath(7) =\n%s\nwant\n%s", got, want)
	}
}

func TestOutlinePathShape(t *testing.T) {
	m, _ := genome.DefaultMetrics().Lookup("1")
	p := OutlinePath(m, Point{595, 300})

	if !p.Closed() {
		t.Error("outline is not closed")
	}
	if n := len(p.Points()); n != 17 {
		t.Errorf("len(Points()) = %d, want 17", n)
	}

	var ops []byte
	for _, s := range p.Segments {
		ops = append(ops, s.Op)
	}
	if string(ops) != "MLLLLLCLLLLLCZ" {
		t.Errorf("ops = %s", ops)
	}

	// the contour starts and ends at the bottom right corner
	pts := p.Points()
	if pts[0] != pts[len(pts)-1] {
		t.Errorf("start %v != end %v", pts[0], pts[len(pts)-1])
	}
	if pts[0] != (Point{595 + 500, 325}) {
		t.Errorf("start = %v", pts[0])
	}
}

func TestClipPathMatchesOutline(t *testing.T) {
	table := genome.DefaultMetrics()
	for i, c := range table.Chromosomes() {
		m, _ := table.Lookup(c)
		_, _, origin := Place(i, 3)

		outline := OutlinePath(m, origin)
		clip := ClipPath(m, origin)
		if !slices.Equal(outline.Points(), clip.Points()) {
			t.Errorf("chromosome %s: clip and outline control points differ", c)
		}
		if outline.String() != clip.String() {
			t.Errorf("chromosome %s: clip and outline path data differ", c)
		}
	}
}

func TestPathJSON(t *testing.T) {
	m, _ := genome.DefaultMetrics().Lookup("Y")
	p := OutlinePath(m, Point{})

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if s != p.String() {
		t.Errorf("JSON = %s", data)
	}

	var back Path
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(back.Points(), p.Points()) {
		t.Error("path changed across JSON round trip")
	}
}

func TestParsePath(t *testing.T) {
	table := genome.DefaultMetrics()
	for _, c := range table.Chromosomes() {
		m, _ := table.Lookup(c)
		p := OutlinePath(m, Point{595, 150})

		back, err := ParsePath(p.String())
		if err != nil {
			t.Fatalf("ParsePath(%s): %v", c, err)
		}
		if back.String() != p.String() || !slices.Equal(back.Points(), p.Points()) {
			t.Errorf("chromosome %s does not survive ParsePath", c)
		}
	}

	for _, bad := range []string{"Q 1 2", "M 1", "L a b", "MM 1 2"} {
		if _, err := ParsePath(bad); err == nil {
			t.Errorf("ParsePath(%q) succeeded", bad)
		}
	}
}
