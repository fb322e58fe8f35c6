package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/karyoview/pkg/coord"
	"github.com/matzehuels/karyoview/pkg/errors"
)

func TestRunBands(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCLI(t)

	var buf bytes.Buffer
	if err := c.runBands(ctx, &buf, "chr7", "7:0-4500000"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Chromosome 7", "p22.3", "q36.3", "159138663", "acen", "start", "end"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunBandsErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCLI(t)

	tests := []struct {
		name  string
		chrom string
		query string
		code  errors.Code
	}{
		{"unknown chromosome", "23", "", errors.ErrCodeInvalidInput},
		{"bad query", "7", "7:5-1", errors.ErrCodeInvertedRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.runBands(ctx, &bytes.Buffer{}, tt.chrom, tt.query)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestSelectedMark(t *testing.T) {
	tests := []struct {
		start, end bool
		want       string
	}{
		{false, false, ""},
		{true, false, "start"},
		{false, true, "end"},
		{true, true, "start, end"},
	}
	for _, tt := range tests {
		if got := selectedMark(tt.start, tt.end); got != tt.want {
			t.Errorf("selectedMark(%v, %v) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestBandsTable(t *testing.T) {
	opts := coord.CytobandOptions{
		Start: []coord.Option{{Chromosome: "7", Band: "p22.3", Value: 0, Selected: true}},
		End:   []coord.Option{{Chromosome: "7", Band: "p22.3", Value: 2800000}},
	}
	out := bandsTable(opts, map[string]string{"p22.3": "gneg"})
	for _, want := range []string{"Band", "Stain", "p22.3", "2800000", "gneg", "start"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
