package genome

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/karyoview/pkg/errors"
)

// StainCentromere is the UCSC gieStain value of centromeric bands.
const StainCentromere = "acen"

// Cytoband is a named sub-region of a chromosome.
type Cytoband struct {
	Band  string `json:"band" bson:"band"`
	Start int    `json:"start" bson:"start"`
	Stop  int    `json:"stop" bson:"stop"`
	Stain string `json:"stain,omitempty" bson:"stain"`
}

// CytobandReference is the band table of one genome build.
type CytobandReference struct {
	build string
	bands map[Chromosome][]Cytoband
}

// NewCytobandReference validates and copies bands into a new reference.
// Bands are sorted by start position.
func NewCytobandReference(build string, bands map[Chromosome][]Cytoband) (*CytobandReference, error) {
	b, err := ValidateBuild(build)
	if err != nil {
		return nil, err
	}

	ref := &CytobandReference{build: b, bands: make(map[Chromosome][]Cytoband, len(bands))}
	for c, list := range bands {
		if !c.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid chromosome %q in cytoband reference", c)
		}
		for _, band := range list {
			if band.Start < 0 || band.Stop < band.Start {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"invalid cytoband %s%s: start=%d stop=%d", c, band.Band, band.Start, band.Stop)
			}
		}
		sorted := slices.Clone(list)
		slices.SortStableFunc(sorted, func(a, b Cytoband) int { return a.Start - b.Start })
		ref.bands[c] = sorted
	}
	return ref, nil
}

// Build returns the normalized genome build ("37" or "38").
func (r *CytobandReference) Build() string {
	return r.build
}

// Bands returns a copy of the ordered band list of c.
func (r *CytobandReference) Bands(c Chromosome) ([]Cytoband, bool) {
	list, ok := r.bands[c]
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

// Has reports whether the reference holds any band for c.
func (r *CytobandReference) Has(c Chromosome) bool {
	return len(r.bands[c]) > 0
}

// Chromosomes returns the chromosomes present, in reference order.
func (r *CytobandReference) Chromosomes() []Chromosome {
	var out []Chromosome
	for _, c := range ReferenceOrder {
		if r.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Length returns the stop position of the last band of c.
func (r *CytobandReference) Length(c Chromosome) (int, bool) {
	list := r.bands[c]
	if len(list) == 0 {
		return 0, false
	}
	length := 0
	for _, b := range list {
		length = max(length, b.Stop)
	}
	return length, true
}

// Centromere returns the span covered by the acen bands of c. The band
// name joins the first and last centromeric band, e.g. "p11.1-q11.1".
func (r *CytobandReference) Centromere(c Chromosome) (Cytoband, bool) {
	var span Cytoband
	var names []string
	for _, b := range r.bands[c] {
		if b.Stain != StainCentromere {
			continue
		}
		if len(names) == 0 {
			span.Start = b.Start
		}
		span.Stop = max(span.Stop, b.Stop)
		names = append(names, b.Band)
	}
	if len(names) == 0 {
		return Cytoband{}, false
	}
	span.Band = names[0]
	if len(names) > 1 {
		span.Band += "-" + names[len(names)-1]
	}
	span.Stain = StainCentromere
	return span, true
}

// Len returns the total number of bands.
func (r *CytobandReference) Len() int {
	n := 0
	for _, list := range r.bands {
		n += len(list)
	}
	return n
}

// ReadCytobands parses a UCSC cytoBand.txt table:
//
//	chrom  chromStart  chromEnd  name  gieStain
//
// Columns are tab separated. Blank lines and lines starting with '#' are
// ignored, as are contigs outside the reference set (chr1_gl000191_random,
// chrUn_*). The gieStain column is optional.
func ReadCytobands(r io.Reader, build string) (*CytobandReference, error) {
	bands := make(map[Chromosome][]Cytoband)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 4 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected at least 4 columns, got %d", line, len(fields))
		}

		c, ok := parseContig(fields[0])
		if !ok {
			continue
		}

		start, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: chromStart", line)
		}
		stop, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: chromEnd", line)
		}

		band := Cytoband{Band: strings.TrimSpace(fields[3]), Start: start, Stop: stop}
		if len(fields) > 4 {
			band.Stain = strings.TrimSpace(fields[4])
		}
		bands[c] = append(bands[c], band)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read cytobands: %w", err)
	}
	return NewCytobandReference(build, bands)
}

// WriteCytobands writes ref in the UCSC cytoBand.txt format read by
// [ReadCytobands].
func WriteCytobands(w io.Writer, ref *CytobandReference) error {
	bw := bufio.NewWriter(w)
	for _, c := range ref.Chromosomes() {
		contig := "chr" + string(c)
		if c == "MT" {
			contig = "chrM"
		}
		for _, b := range ref.bands[c] {
			if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%s\t%s\n", contig, b.Start, b.Stop, b.Band, b.Stain); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
