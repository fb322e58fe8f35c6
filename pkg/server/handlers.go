package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/karyoview/pkg/buildinfo"
	"github.com/matzehuels/karyoview/pkg/coord"
	"github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/ideogram"
	caseio "github.com/matzehuels/karyoview/pkg/io"
	"github.com/matzehuels/karyoview/pkg/pipeline"
	"github.com/matzehuels/karyoview/pkg/render/sink"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func cacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	builds, err := s.runner.Store.Builds(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "list builds"))
		return
	}
	if builds == nil {
		builds = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"builds": builds})
}

type coordinateResponse struct {
	Input string      `json:"input"`
	Query coord.Query `json:"query"`
	Text  string      `json:"text"`
	Valid bool        `json:"valid"`
	Error *errorBody  `json:"error,omitempty"`
}

// handleCoordinates parses ?q=. Invalid text yields the whole-genome query
// with valid=false, or a 400 when strict=true.
func (s *Server) handleCoordinates(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	strict, _ := strconv.ParseBool(r.URL.Query().Get("strict"))

	q, err := coord.ParseChecked(raw)
	if err != nil && strict {
		writeError(w, err)
		return
	}
	resp := coordinateResponse{Input: raw, Query: q, Valid: err == nil}
	if err != nil {
		resp.Error = &errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	}
	resp.Text = coord.Format(resp.Query)
	writeJSON(w, http.StatusOK, resp)
}

type cytobandResponse struct {
	Build      string            `json:"build"`
	Chromosome genome.Chromosome `json:"chromosome"`
	Length     int               `json:"length"`
	Centromere *genome.Cytoband  `json:"centromere,omitempty"`
	Start      []coord.Option    `json:"start"`
	End        []coord.Option    `json:"end"`
}

// handleCytobands lists the start and end selector entries of one
// chromosome. ?q= marks the entries matching the current interval.
func (s *Server) handleCytobands(w http.ResponseWriter, r *http.Request) {
	c, ok := genome.ParseChromosome(chi.URLParam(r, "chrom"))
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown chromosome %q", chi.URLParam(r, "chrom")))
		return
	}
	ref, err := s.runner.Reference(r.Context(), chi.URLParam(r, "build"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ref.Has(c) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no cytobands for chromosome %s in build %s", c, ref.Build()))
		return
	}

	opts := coord.PopulateCytobandOptions(ref, []genome.Chromosome{c}, coord.Parse(r.URL.Query().Get("q")))
	length, _ := ref.Length(c)
	resp := cytobandResponse{
		Build:      ref.Build(),
		Chromosome: c,
		Length:     length,
		Start:      opts.Start,
		End:        opts.End,
	}
	if cen, ok := ref.Centromere(c); ok {
		resp.Centromere = &cen
	}
	writeJSON(w, http.StatusOK, resp)
}

// layoutRequest is the body of layout and render calls.
type layoutRequest struct {
	CaseID        string                `json:"case_id"`
	Build         string                `json:"build,omitempty"`
	ViewportWidth int                   `json:"viewport_width,omitempty"`
	Individuals   []ideogram.Individual `json:"individuals"`
	Marks         []string              `json:"marks,omitempty"`
	Title         string                `json:"title,omitempty"`
	Refresh       bool                  `json:"refresh,omitempty"`
}

func (s *Server) decodeLayout(w http.ResponseWriter, r *http.Request) (*caseio.Case, pipeline.Options, error) {
	var req layoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}

	c := &caseio.Case{ID: req.CaseID, Build: req.Build, Individuals: req.Individuals}
	if err := c.Validate(); err != nil {
		return nil, pipeline.Options{}, err
	}
	if err := validateImageRefs(c); err != nil {
		return nil, pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Build:         s.opts.Build,
		ViewportWidth: req.ViewportWidth,
		ImageBase:     s.opts.ImageBase,
		Marks:         req.Marks,
		Title:         req.Title,
		Refresh:       req.Refresh,
		CaseID:        c.ID,
		Logger:        s.logger,
	}
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = s.opts.ViewportWidth
	}
	return c, opts, nil
}

// validateImageRefs rejects track images that would escape the image root
// once they are written into an href.
func validateImageRefs(c *caseio.Case) error {
	for _, ind := range c.Individuals {
		for _, t := range ind.Tracks {
			if t.ImageRef == "" {
				continue
			}
			if err := errors.ValidatePath(t.ImageRef); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "individual %s: %s track", ind.ID, t.Kind)
			}
		}
	}
	return nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	c, opts, err := s.decodeLayout(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), c, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := sink.RenderJSON(res, sink.WithJSONCase(c.ID))
	if err != nil {
		writeError(w, err)
		return
	}
	cacheHeader(w, hit)
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	c, opts, err := s.decodeLayout(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), c, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	data, ok := result.Artifacts[format]
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInternal, "no %s artifact produced", format))
		return
	}

	cacheHeader(w, result.CacheInfo.RenderHit)
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", c.ID+"."+format))
	w.Write(data)
}
