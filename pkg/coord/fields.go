package coord

import (
	"slices"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// Fields is the state of a position filter form: the raw text, the
// chromosome selector and the query both of them resolve to.
//
// After every edit that leaves valid text behind, Query is the parse of
// Text. Selected names Query's chromosome whenever there is one; a
// multi-chromosome selection is kept as picked while Query falls back to
// [genome.Any]. While only one cytoband bound is picked, Text shows the
// chromosome alone.
type Fields struct {
	Text     string              `json:"text"`
	Selected []genome.Chromosome `json:"selected"`
	Query    Query               `json:"query"`
}

// NewFields returns an empty form.
func NewFields() Fields {
	return Fields{Query: AnyQuery()}
}

func selectionOf(q Query) []genome.Chromosome {
	if !q.Chromosome.Valid() {
		return nil
	}
	return []genome.Chromosome{q.Chromosome}
}

// EditText handles a keystroke in the text field. The typed text is kept
// as is; the error, if any, is what the form should display.
func (f Fields) EditText(raw string) (Fields, error) {
	q, err := ParseChecked(raw)
	return Fields{
		Text:     raw,
		Selected: selectionOf(q),
		Query:    q,
	}, err
}

// SelectChromosomes handles a change of the chromosome selector. With one
// chromosome the text keeps its range and only the chromosome token
// changes; otherwise everything is cleared.
func (f Fields) SelectChromosomes(cs []genome.Chromosome) Fields {
	q := SyncFromChromosomeSelection(f.Query, cs)
	if !q.Chromosome.Valid() {
		return Fields{Selected: distinct(cs), Query: q}
	}

	return Fields{
		Text:     RetargetText(f.Text, q.Chromosome),
		Selected: []genome.Chromosome{q.Chromosome},
		Query:    q,
	}
}

// SelectStart applies a start cytoband option.
func (f Fields) SelectStart(o Option) Fields {
	o.Bound = StartBound
	return f.apply(o)
}

// SelectEnd applies an end cytoband option.
func (f Fields) SelectEnd(o Option) Fields {
	o.Bound = EndBound
	return f.apply(o)
}

func (f Fields) apply(o Option) Fields {
	if !f.Query.Chromosome.Valid() && !o.Chromosome.Valid() {
		return f
	}
	q := ApplyOption(f.Query, o)
	return Fields{
		Text:     Format(q),
		Selected: selectionOf(q),
		Query:    q,
	}
}

// Options returns the cytoband selector entries for the current state.
func (f Fields) Options(ref *genome.CytobandReference) CytobandOptions {
	return PopulateCytobandOptions(ref, f.Selected, f.Query)
}

// Equal reports whether two forms show the same state.
func (f Fields) Equal(g Fields) bool {
	return f.Text == g.Text && f.Query == g.Query && slices.Equal(f.Selected, g.Selected)
}
