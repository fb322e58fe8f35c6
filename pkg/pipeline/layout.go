package pipeline

import (
	"github.com/matzehuels/karyoview/pkg/coord"
	"github.com/matzehuels/karyoview/pkg/ideogram"
)

// attachMarks places a marker at the middle of every mark's interval on
// each placement of the mark's chromosome. Marks without an interval or
// outside the chromosome are logged and left out.
func (r *Runner) attachMarks(engine *ideogram.Engine, res *ideogram.Result, opts Options) {
	for _, q := range opts.marks {
		if !q.HasRange() {
			r.Logger.Warn("skipping mark without interval", "mark", coord.Format(q))
			continue
		}
		position := (q.Start.Value + q.End.Value) / 2
		href := "#" + coord.Format(q)

		for i := range res.Panels {
			panel := &res.Panels[i]
			for j := range panel.Placements {
				pl := &panel.Placements[j]
				if pl.Chromosome != q.Chromosome {
					continue
				}
				m, ok := engine.Marker(*pl, position, href)
				if !ok {
					r.Logger.Warn("skipping mark outside chromosome",
						"mark", coord.Format(q), "individual", panel.IndividualID)
					continue
				}
				pl.Markers = append(pl.Markers, m)
			}
		}
	}
}

func hasMarkers(res ideogram.Result) bool {
	for _, p := range res.Panels {
		for _, pl := range p.Placements {
			if len(pl.Markers) > 0 {
				return true
			}
		}
	}
	return false
}
