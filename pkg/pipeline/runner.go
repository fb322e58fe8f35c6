package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/karyoview/pkg/cache"
	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/ideogram"
	caseio "github.com/matzehuels/karyoview/pkg/io"
	"github.com/matzehuels/karyoview/pkg/observability"
	"github.com/matzehuels/karyoview/pkg/render/sink"
	"github.com/matzehuels/karyoview/pkg/store"
)

// Runner executes the reference, layout and render stages over a store and
// a cache. It holds no per-run state and may be shared between goroutines.
type Runner struct {
	Store  store.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. Nil arguments select an empty MemoryStore, a
// NullCache, the DefaultKeyer and the default logger.
func NewRunner(st store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  st,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out kase against its reference and renders opts.Formats.
func (r *Runner) Execute(ctx context.Context, c *caseio.Case, opts Options) (*Result, error) {
	if opts.CaseID == "" {
		opts.CaseID = c.ID
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{CaseID: c.ID}

	// Reference and layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	result.Stats.Panels = len(layout.Panels)
	result.Stats.Skipped = len(layout.AllSkipped())
	for _, p := range layout.Panels {
		result.Stats.Placements += len(p.Placements)
		for _, pl := range p.Placements {
			result.Stats.Markers += len(pl.Markers)
		}
	}
	if data, err := sink.RenderJSON(layout); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"case", c.ID,
		"panels", result.Stats.Panels,
		"chromosomes", result.Stats.Placements,
		"skipped", result.Stats.Skipped,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ReferenceWithCacheInfo loads the cytoband reference of a build, trying the
// cache before the store.
func (r *Runner) ReferenceWithCacheInfo(ctx context.Context, build string, refresh bool) (*genome.CytobandReference, bool, error) {
	ref, _, hit, err := r.reference(ctx, build, refresh)
	return ref, hit, err
}

// reference also returns the serialized table, which identifies the
// reference content in layout keys.
func (r *Runner) reference(ctx context.Context, build string, refresh bool) (*genome.CytobandReference, []byte, bool, error) {
	b, err := genome.ValidateBuild(build)
	if err != nil {
		return nil, nil, false, err
	}
	cacheKey := r.Keyer.ReferenceKey(b)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			ref, err := genome.ReadCytobands(bytes.NewReader(data), b)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "reference")
				return ref, data, true, nil
			}
			r.Logger.Debug("discarding unreadable cached reference", "build", b, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "reference")
	}

	ref, err := r.Store.Cytobands(ctx, b)
	if err != nil {
		return nil, nil, false, err
	}

	var buf bytes.Buffer
	if err := genome.WriteCytobands(&buf, ref); err != nil {
		return nil, nil, false, fmt.Errorf("serialize reference %s: %w", b, err)
	}
	if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLReference); err == nil {
		observability.Cache().OnCacheSet(ctx, "reference", buf.Len())
	}
	return ref, buf.Bytes(), false, nil
}

// Reference is ReferenceWithCacheInfo without the hit flag.
func (r *Runner) Reference(ctx context.Context, build string) (*genome.CytobandReference, error) {
	ref, _, err := r.ReferenceWithCacheInfo(ctx, build, false)
	return ref, err
}

// LayoutWithCacheInfo computes the layout of a case with caching and
// returns cache hit info. Layouts are keyed by the case, the options and
// the content of the reference, so reloading cytobands invalidates them.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, c *caseio.Case, opts Options) (result ideogram.Result, hit bool, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return ideogram.Result{}, false, err
	}
	build := resolveBuild(c, opts)

	pipe := observability.Pipeline()
	pipe.OnLayoutStart(ctx, c.ID, len(c.Individuals))
	start := time.Now()
	defer func() { pipe.OnLayoutComplete(ctx, c.ID, time.Since(start), err) }()

	caseData, err := json.Marshal(c)
	if err != nil {
		return ideogram.Result{}, false, fmt.Errorf("serialize case for cache key: %w", err)
	}
	ref, refData, _, err := r.reference(ctx, build, opts.Refresh)
	if err != nil {
		return ideogram.Result{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(caseData), opts.LayoutKeyOpts(build, cache.Hash(refData)))

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
			cached, _, err := sink.ReadJSON(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// undecodable entries are recomputed
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	engine := ideogram.NewEngine(ref, r.Logger)
	engine.IdeogramBase = opts.ImageBase
	result = engine.LayoutCase(c.Individuals, opts.ViewportWidth)
	r.attachMarks(engine, &result, opts)

	for _, s := range result.AllSkipped() {
		pipe.OnSkip(ctx, s.IndividualID, string(s.Chromosome), s.Reason)
	}

	if data, err := sink.RenderJSON(result, sink.WithJSONCase(c.ID)); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return result, false, nil
}

// Layout is LayoutWithCacheInfo without the hit flag.
func (r *Runner) Layout(ctx context.Context, c *caseio.Case, opts Options) (ideogram.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, c, opts)
	return res, err
}

// RenderWithCacheInfo renders the requested formats of layout. The artifacts
// come from the cache only when every format is cached; the bool reports
// that case.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout ideogram.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := sink.RenderJSON(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	markers := hasMarkers(layout)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, markers))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, layout, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, markers))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, layout ideogram.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close closes the cache and the store and returns the first error.
func (r *Runner) Close(ctx context.Context) error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// resolveBuild prefers the case's own build over the configured default.
func resolveBuild(c *caseio.Case, opts Options) string {
	switch {
	case c.Build != "":
		return c.Build
	case opts.Build != "":
		return opts.Build
	default:
		return DefaultBuild
	}
}
