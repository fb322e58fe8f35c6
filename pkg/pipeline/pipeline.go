// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Reference: load the cytoband table of the genome build from a
//     [store.Store]
//  2. Layout: place every chromosome of every individual of a case and
//     attach markers for the requested coordinates
//  3. Render: produce SVG, PNG, PDF or JSON artifacts
//
// Every stage is cached through a [cache.Cache]: references by build,
// layouts by case content and options, artifacts by layout content and
// render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(st, c, nil, logger)
//	result, err := runner.Execute(ctx, kase, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	    Marks:   []string{"7:117120017-117308718"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("case.svg", result.Artifacts["svg"], 0o644)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/karyoview/pkg/cache"
	"github.com/matzehuels/karyoview/pkg/coord"
	"github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/ideogram"
)

const (
	// DefaultBuild is used when neither the case nor the options name a build.
	DefaultBuild = genome.Build37

	// DefaultViewportWidth fits three columns of chromosomes.
	DefaultViewportWidth = 1955

	// DefaultScale is the PNG resolution factor.
	DefaultScale = 2.0
)

// Output formats. PNG and PDF are converted from the SVG.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists the output formats in the order they are offered to users.
var Formats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF}

// IsFormat reports whether f is one of [Formats].
func IsFormat(f string) bool { return slices.Contains(Formats, f) }

// Options configures a pipeline run. The exported fields double as the
// body of API layout and render requests.
type Options struct {
	Build         string   `json:"build,omitempty"`
	ViewportWidth int      `json:"viewport_width,omitempty"`
	ImageBase     string   `json:"image_base,omitempty"`
	Marks         []string `json:"marks,omitempty"`
	Refresh       bool     `json:"refresh,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	CaseID  string   `json:"case_id,omitempty"`

	Logger *log.Logger `json:"-"`

	marks     []coord.Query
	validated bool
}

// Result is the output of [Runner.Execute].
type Result struct {
	CaseID     string
	Layout     ideogram.Result
	LayoutHash string // content hash of the layout document

	// Artifacts maps each requested format to its bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats summarizes a run.
type Stats struct {
	Panels     int
	Placements int
	Skipped    int
	Markers    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache. RenderHit is
// set only when every artifact was cached.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat returns an INVALID_FORMAT error unless format is known.
func ValidateFormat(format string) error {
	if !IsFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats is ValidateFormat over a list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseMarks parses marker coordinates. Every mark must name a chromosome.
func ParseMarks(marks []string) ([]coord.Query, error) {
	out := make([]coord.Query, 0, len(marks))
	for _, m := range marks {
		q, err := coord.ParseChecked(m)
		if err != nil {
			return nil, fmt.Errorf("mark %q: %w", m, err)
		}
		if q.IsAny() {
			return nil, errors.New(errors.ErrCodeMissingChromosome, "mark %q: chromosome is required", m)
		}
		out = append(out, q)
	}
	return out, nil
}

// ValidateAndSetDefaults runs ValidateForLayout and ValidateForRender once.
// Later calls return nil.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout fills in the viewport width and image base, normalizes
// the build and parses the marks. An empty build is left empty and resolved
// against the case.
func (o *Options) ValidateForLayout() error {
	if o.ViewportWidth == 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ImageBase == "" {
		o.ImageBase = ideogram.DefaultIdeogramBase
	}
	o.ensureLogger()
	if o.Build != "" {
		b, err := genome.ValidateBuild(o.Build)
		if err != nil {
			return err
		}
		o.Build = b
	}
	if o.ViewportWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport_width must be positive, got %d", o.ViewportWidth)
	}
	marks, err := ParseMarks(o.Marks)
	if err != nil {
		return err
	}
	o.marks = marks
	return nil
}

// ValidateForRender defaults the formats to SVG and the scale to
// DefaultScale, then drops repeated formats.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.ensureLogger()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	return nil
}

func (o *Options) ensureLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns the inputs that identify a cached layout. refHash
// is the content hash of the cytoband reference.
func (o *Options) LayoutKeyOpts(build, refHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Build:         build,
		ReferenceHash: refHash,
		ViewportWidth: o.ViewportWidth,
		IdeogramBase:  o.ImageBase,
		Marks:         o.Marks,
	}
}

// ArtifactKeyOpts returns the inputs that identify a cached artifact. Only
// the options a format actually reads are included.
func (o *Options) ArtifactKeyOpts(format string, markers bool) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatJSON:
		opts.CaseID = o.CaseID
	case FormatPNG:
		opts.Scale = o.Scale
		fallthrough
	default:
		opts.Markers = markers
		opts.Title = o.Title
	}
	return opts
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
