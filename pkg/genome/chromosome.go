package genome

import (
	"slices"
	"strings"
)

// Chromosome is a reference chromosome name such as "7", "X" or "MT".
type Chromosome string

// Any marks the absence of a chromosome constraint.
const Any Chromosome = "any"

// ReferenceOrder is the fixed display and sort order of all chromosomes.
var ReferenceOrder = []Chromosome{
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "10",
	"11", "12", "13", "14", "15", "16", "17", "18", "19", "20",
	"21", "22", "X", "Y", "MT",
}

var chromosomeIndex = func() map[Chromosome]int {
	m := make(map[Chromosome]int, len(ReferenceOrder))
	for i, c := range ReferenceOrder {
		m[c] = i
	}
	return m
}()

// ParseChromosome normalizes a chromosome token. It is case-insensitive and
// accepts an optional "chr" prefix. Unknown names and [Any] return false.
func ParseChromosome(s string) (Chromosome, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "CHR")
	c := Chromosome(s)
	if _, ok := chromosomeIndex[c]; !ok {
		return "", false
	}
	return c, true
}

// parseContig maps a UCSC contig name to a chromosome. UCSC spells the
// mitochondrial contig "chrM".
func parseContig(s string) (Chromosome, bool) {
	if strings.EqualFold(s, "chrM") || strings.EqualFold(s, "M") {
		return "MT", true
	}
	return ParseChromosome(s)
}

// Index returns the position of c in [ReferenceOrder], or -1.
func (c Chromosome) Index() int {
	if i, ok := chromosomeIndex[c]; ok {
		return i
	}
	return -1
}

// Valid reports whether c is a reference chromosome.
func (c Chromosome) Valid() bool {
	return c.Index() >= 0
}

func (c Chromosome) String() string {
	return string(c)
}

// SortChromosomes sorts cs in reference order, placing invalid names last.
func SortChromosomes(cs []Chromosome) {
	rank := func(c Chromosome) int {
		if i := c.Index(); i >= 0 {
			return i
		}
		return len(ReferenceOrder)
	}
	slices.SortStableFunc(cs, func(a, b Chromosome) int {
		return rank(a) - rank(b)
	})
}
