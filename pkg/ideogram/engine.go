package ideogram

import (
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// DefaultIdeogramBase is where the reference ideogram images are served.
const DefaultIdeogramBase = "/public/static/ideograms"

// Track is an image layer supplied for an individual. Without a
// chromosome, ImageRef is a directory holding one "<prefix>-<c>.png" per
// chromosome. With a chromosome, ImageRef is that chromosome's image and
// takes precedence over a directory track of the same kind.
type Track struct {
	Kind       TrackKind         `json:"kind"`
	Chromosome genome.Chromosome `json:"chromosome,omitempty"`
	ImageRef   string            `json:"image_ref"`
}

// Individual is one member of a case.
type Individual struct {
	ID     string  `json:"id"`
	Sex    string  `json:"sex"`
	Tracks []Track `json:"tracks,omitempty"`
}

// Label is the chromosome name drawn beside a strip.
type Label struct {
	Text string `json:"text"`
	At   Point  `json:"at"`
}

// Overlay is one image placed relative to a strip.
type Overlay struct {
	Kind   TrackKind `json:"kind"`
	Origin Point     `json:"origin"`
	Href   string    `json:"href"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// Placement is the drawing of one chromosome.
type Placement struct {
	Chromosome genome.Chromosome `json:"chromosome"`
	Column     int               `json:"column"`
	Row        int               `json:"row"`
	Origin     Point             `json:"origin"`
	GroupID    string            `json:"group_id"`
	ClipPathID string            `json:"clip_path_id"`
	Outline    Path              `json:"outline"`
	Label      Label             `json:"label"`
	Image      Overlay           `json:"image"`
	Overlays   []Overlay         `json:"overlays,omitempty"`
	Markers    []Marker          `json:"markers,omitempty"`
}

// Skip records a unit of layout left out.
type Skip struct {
	IndividualID string            `json:"individual_id"`
	Chromosome   genome.Chromosome `json:"chromosome,omitempty"`
	Reason       string            `json:"reason"`
}

// Panel is the layout of one individual.
type Panel struct {
	IndividualID string      `json:"individual_id"`
	Sex          genome.Sex  `json:"sex"`
	Columns      int         `json:"columns"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	Placements   []Placement `json:"placements"`
	Skipped      []Skip      `json:"skipped,omitempty"`
}

// Result is the layout of a whole case.
type Result struct {
	Build         string  `json:"build,omitempty"`
	ViewportWidth int     `json:"viewport_width"`
	Panels        []Panel `json:"panels"`
	Skipped       []Skip  `json:"skipped,omitempty"`
}

// AllSkipped returns individual and chromosome skips together.
func (r Result) AllSkipped() []Skip {
	out := append([]Skip(nil), r.Skipped...)
	for _, p := range r.Panels {
		out = append(out, p.Skipped...)
	}
	return out
}

// Engine lays out individuals against fixed reference tables. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	Metrics      *genome.MetricsTable
	Reference    *genome.CytobandReference
	IdeogramBase string
	Logger       *log.Logger
}

// NewEngine returns an engine with the built-in metrics table.
// If logger is nil, the default logger is used.
func NewEngine(ref *genome.CytobandReference, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		Metrics:      genome.DefaultMetrics(),
		Reference:    ref,
		IdeogramBase: DefaultIdeogramBase,
		Logger:       logger,
	}
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// LayoutIndividual places every effective chromosome of ind. Chromosomes
// without metrics or reference bands are left out while the others keep
// their slots. An individual with an unrecognized sex yields no panel.
func (e *Engine) LayoutIndividual(ind Individual, width int) (Panel, bool) {
	sex, err := genome.ParseSex(ind.Sex)
	if err != nil {
		e.logger().Warn("skipping individual", "individual", ind.ID, "sex", ind.Sex, "reason", "unrecognized sex")
		return Panel{}, false
	}

	chroms := EffectiveChromosomes(sex)
	columns := ColumnsFor(width)
	panel := Panel{
		IndividualID: ind.ID,
		Sex:          sex,
		Columns:      columns,
		Width:        PanelWidth(columns),
		Height:       Rows(len(chroms), columns) * RowHeight,
	}

	tracks := indexTracks(ind.Tracks)
	for i, c := range chroms {
		if reason, ok := e.available(c); !ok {
			e.logger().Warn("skipping chromosome", "individual", ind.ID, "chromosome", c, "reason", reason)
			panel.Skipped = append(panel.Skipped, Skip{IndividualID: ind.ID, Chromosome: c, Reason: reason})
			continue
		}
		m, _ := e.Metrics.Lookup(c)
		panel.Placements = append(panel.Placements, e.place(ind.ID, c, m, i, columns, tracks))
	}
	return panel, true
}

// LayoutCase lays out every individual in input order.
func (e *Engine) LayoutCase(individuals []Individual, width int) Result {
	res := Result{ViewportWidth: width}
	if e.Reference != nil {
		res.Build = e.Reference.Build()
	}
	for _, ind := range individuals {
		panel, ok := e.LayoutIndividual(ind, width)
		if !ok {
			res.Skipped = append(res.Skipped, Skip{IndividualID: ind.ID, Reason: "unrecognized sex " + strconv.Quote(ind.Sex)})
			continue
		}
		res.Panels = append(res.Panels, panel)
	}
	return res
}

func (e *Engine) available(c genome.Chromosome) (reason string, ok bool) {
	if e.Metrics == nil {
		return "no ideogram metrics", false
	}
	if _, ok := e.Metrics.Lookup(c); !ok {
		return "no ideogram metrics", false
	}
	if e.Reference == nil || !e.Reference.Has(c) {
		return "no cytoband reference", false
	}
	return "", true
}

func (e *Engine) place(id string, c genome.Chromosome, m genome.ChromosomeMetrics, i, columns int, tracks trackIndex) Placement {
	column, row, origin := Place(i, columns)
	base := e.IdeogramBase
	if base == "" {
		base = DefaultIdeogramBase
	}

	p := Placement{
		Chromosome: c,
		Column:     column,
		Row:        row,
		Origin:     origin,
		GroupID:    GroupID(id, c),
		ClipPathID: ClipPathID(id, c),
		Outline:    OutlinePath(m, origin),
		Label:      Label{Text: string(c), At: origin.Add(0, 10)},
		Image: Overlay{
			Kind:   Ideogram,
			Origin: origin.Add(ImageInset, 0),
			Href:   imageHref(base, ImageFilename(Ideogram.Prefix(), c)),
			Width:  ImageWidth,
			Height: ImageHeight,
		},
	}

	for _, k := range TrackKinds {
		ref, exact, ok := tracks.lookup(k, c)
		if !ok {
			continue
		}
		href := ref
		if !exact {
			href = imageHref(ref, ImageFilename(k.Prefix(), c))
		}
		p.Overlays = append(p.Overlays, Overlay{
			Kind:   k,
			Origin: origin.Add(ImageInset, k.Offset()),
			Href:   href,
			Width:  ImageWidth,
			Height: ImageHeight,
		})
	}
	return p
}

type trackKey struct {
	kind TrackKind
	c    genome.Chromosome
}

// trackIndex resolves the image reference of a kind for a chromosome.
// Entries with an empty chromosome are directory tracks.
type trackIndex map[trackKey]string

func indexTracks(tracks []Track) trackIndex {
	idx := make(trackIndex, len(tracks))
	for _, t := range tracks {
		if t.Kind == Ideogram || t.ImageRef == "" {
			continue
		}
		c := t.Chromosome
		if c == genome.Any {
			c = ""
		}
		idx[trackKey{t.Kind, c}] = t.ImageRef
	}
	return idx
}

// lookup reports whether the reference names the exact image (a
// chromosome track) or a directory.
func (idx trackIndex) lookup(k TrackKind, c genome.Chromosome) (ref string, exact, ok bool) {
	if ref, ok := idx[trackKey{k, c}]; ok {
		return ref, true, true
	}
	ref, ok = idx[trackKey{k, ""}]
	return ref, false, ok
}
