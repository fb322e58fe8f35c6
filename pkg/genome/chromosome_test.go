package genome

import (
	"slices"
	"testing"
)

func TestParseChromosome(t *testing.T) {
	tests := []struct {
		in     string
		want   Chromosome
		wantOK bool
	}{
		{"7", "7", true},
		{"chr7", "7", true},
		{"CHR7", "7", true},
		{" x ", "X", true},
		{"chrY", "Y", true},
		{"MT", "MT", true},
		{"chrmt", "MT", true},
		{"22", "22", true},

		{"23", "", false},
		{"0", "", false},
		{"07", "", false},
		{"M", "", false},
		{"any", "", false},
		{"", "", false},
		{"chr", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseChromosome(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseChromosome(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseContig(t *testing.T) {
	for _, in := range []string{"chrM", "chrMT", "MT"} {
		if c, ok := parseContig(in); !ok || c != "MT" {
			t.Errorf("parseContig(%q) = (%q, %v), want (MT, true)", in, c, ok)
		}
	}
	if _, ok := parseContig("chr1_gl000191_random"); ok {
		t.Error("parseContig accepted a random contig")
	}
}

func TestChromosomeIndex(t *testing.T) {
	if got := Chromosome("1").Index(); got != 0 {
		t.Errorf("Index(1) = %d, want 0", got)
	}
	if got := Chromosome("X").Index(); got != 22 {
		t.Errorf("Index(X) = %d, want 22", got)
	}
	if got := Any.Index(); got != -1 {
		t.Errorf("Index(any) = %d, want -1", got)
	}
	if Any.Valid() {
		t.Error("Any.Valid() = true")
	}
}

func TestSortChromosomes(t *testing.T) {
	cs := []Chromosome{"X", "10", "bogus", "2", "1", "Y", "9"}
	SortChromosomes(cs)

	want := []Chromosome{"1", "2", "9", "10", "X", "Y", "bogus"}
	if !slices.Equal(cs, want) {
		t.Errorf("SortChromosomes = %v, want %v", cs, want)
	}
}
