package coord

import (
	"fmt"
	"slices"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// distinct returns the distinct reference chromosomes in cs, in reference
// order. Invalid names and [genome.Any] are dropped.
func distinct(cs []genome.Chromosome) []genome.Chromosome {
	var out []genome.Chromosome
	for _, c := range cs {
		if c.Valid() && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	genome.SortChromosomes(out)
	return out
}

// SyncFromChromosomeSelection derives a query from the chromosome selector.
// A single chromosome keeps the bounds of prev. Range queries across
// several chromosomes are not supported, so zero or several chromosomes
// reset to [AnyQuery].
func SyncFromChromosomeSelection(prev Query, selected []genome.Chromosome) Query {
	cs := distinct(selected)
	if len(cs) != 1 {
		return AnyQuery()
	}
	q := prev
	q.Chromosome = cs[0]
	return q
}

// BoundKind says which end of the interval an [Option] sets.
type BoundKind int

const (
	StartBound BoundKind = iota
	EndBound
)

func (k BoundKind) String() string {
	if k == EndBound {
		return "end"
	}
	return "start"
}

// Option is one entry of a cytoband start or end selector.
type Option struct {
	Chromosome genome.Chromosome `json:"chromosome"`
	Bound      BoundKind         `json:"-"`
	Band       string            `json:"band"`
	Label      string            `json:"label"`
	Value      int               `json:"value"`
	Selected   bool              `json:"selected,omitempty"`
}

// CytobandOptions holds both cytoband selectors.
type CytobandOptions struct {
	Start []Option `json:"start"`
	End   []Option `json:"end"`
}

// Empty reports whether both selectors are empty.
func (o CytobandOptions) Empty() bool {
	return len(o.Start) == 0 && len(o.End) == 0
}

// PopulateCytobandOptions projects the bands of the single selected
// chromosome into selector entries labelled "<band> (start:<pos>)" and
// "<band> (end:<pos>)". An entry is marked selected when its value equals
// the matching bound of current. The result is empty unless exactly one
// chromosome with reference bands is selected.
func PopulateCytobandOptions(ref *genome.CytobandReference, selected []genome.Chromosome, current Query) CytobandOptions {
	var opts CytobandOptions
	cs := distinct(selected)
	if ref == nil || len(cs) != 1 {
		return opts
	}
	c := cs[0]
	bands, ok := ref.Bands(c)
	if !ok {
		return opts
	}

	sameChrom := current.Chromosome == c
	for _, b := range bands {
		opts.Start = append(opts.Start, Option{
			Chromosome: c,
			Bound:      StartBound,
			Band:       b.Band,
			Label:      fmt.Sprintf("%s (start:%d)", b.Band, b.Start),
			Value:      b.Start,
			Selected:   sameChrom && current.Start.Valid && current.Start.Value == b.Start,
		})
		opts.End = append(opts.End, Option{
			Chromosome: c,
			Bound:      EndBound,
			Band:       b.Band,
			Label:      fmt.Sprintf("%s (end:%d)", b.Band, b.Stop),
			Value:      b.Stop,
			Selected:   sameChrom && current.End.Valid && current.End.Value == b.Stop,
		})
	}
	return opts
}

// ApplyOption sets the bound named by o to exactly o.Value and drops any
// padding. If the new bound would invert the interval, the opposite bound
// is cleared so that the query stays ordered.
func ApplyOption(q Query, o Option) Query {
	if o.Chromosome.Valid() && o.Chromosome != q.Chromosome {
		q = Query{Chromosome: o.Chromosome}
	}
	q.Padding = Padding{}
	switch o.Bound {
	case StartBound:
		q.Start = At(o.Value)
		if q.End.Valid && q.End.Value < o.Value {
			q.End = Bound{}
		}
	case EndBound:
		q.End = At(o.Value)
		if q.Start.Valid && q.Start.Value > o.Value {
			q.Start = Bound{}
		}
	}
	return q
}
