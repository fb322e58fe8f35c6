package genome

import (
	"fmt"

	"github.com/matzehuels/karyoview/pkg/errors"
)

// ChromosomeMetrics is the pixel geometry of one ideogram strip.
type ChromosomeMetrics struct {
	Name             Chromosome `json:"name"`
	PixelLength      int        `json:"pixel_length"`
	CentromereStart  int        `json:"centromere_start"`
	CentromereLength int        `json:"centromere_length"`
}

// Validate checks the positivity constraints and that the waist fits
// inside the strip.
func (m ChromosomeMetrics) Validate() error {
	switch {
	case !m.Name.Valid():
		return errors.New(errors.ErrCodeInvalidInput, "metrics: invalid chromosome %q", m.Name)
	case m.PixelLength <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "metrics %s: pixel length must be positive", m.Name)
	case m.CentromereStart < 0:
		return errors.New(errors.ErrCodeInvalidInput, "metrics %s: centromere start must not be negative", m.Name)
	case m.CentromereLength <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "metrics %s: centromere length must be positive", m.Name)
	case m.CentromereStart+m.CentromereLength > m.PixelLength:
		return errors.New(errors.ErrCodeInvalidInput, "metrics %s: centromere extends past the strip", m.Name)
	}
	return nil
}

// MetricsTable is an immutable lookup of ideogram geometry by chromosome.
type MetricsTable struct {
	byName map[Chromosome]ChromosomeMetrics
}

// NewMetricsTable validates entries and rejects duplicates.
func NewMetricsTable(entries []ChromosomeMetrics) (*MetricsTable, error) {
	t := &MetricsTable{byName: make(map[Chromosome]ChromosomeMetrics, len(entries))}
	for _, m := range entries {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.byName[m.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "metrics: duplicate entry for %s", m.Name)
		}
		t.byName[m.Name] = m
	}
	return t, nil
}

// Lookup returns the metrics of c.
func (t *MetricsTable) Lookup(c Chromosome) (ChromosomeMetrics, bool) {
	m, ok := t.byName[c]
	return m, ok
}

// Chromosomes returns the chromosomes covered, in reference order.
func (t *MetricsTable) Chromosomes() []Chromosome {
	var out []Chromosome
	for _, c := range ReferenceOrder {
		if _, ok := t.byName[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// defaultMetrics holds the strip geometry of the reference ideogram images.
// Chromosome 1 spans the full 500 px image width.
var defaultMetrics = []ChromosomeMetrics{
	{"1", 500, 255, 13},
	{"2", 487, 193, 13},
	{"3", 397, 187, 13},
	{"4", 385, 105, 13},
	{"5", 367, 102, 10},
	{"6", 346, 125, 13},
	{"7", 321, 125, 10},
	{"8", 293, 98, 8},
	{"9", 283, 107, 8},
	{"10", 271, 88, 8},
	{"11", 270, 111, 10},
	{"12", 268, 78, 10},
	{"13", 232, 44, 8},
	{"14", 217, 42, 8},
	{"15", 207, 40, 8},
	{"16", 182, 80, 8},
	{"17", 165, 55, 8},
	{"18", 158, 42, 8},
	{"19", 119, 60, 8},
	{"20", 127, 60, 8},
	{"21", 95, 33, 8},
	{"22", 104, 38, 8},
	{"X", 312, 127, 8},
	{"Y", 107, 32, 4},
}

// DefaultMetrics returns the built-in metrics table for 1..22, X and Y.
func DefaultMetrics() *MetricsTable {
	t, err := NewMetricsTable(defaultMetrics)
	if err != nil {
		panic(fmt.Sprintf("genome: built-in metrics table is invalid: %v", err))
	}
	return t
}
