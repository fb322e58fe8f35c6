package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/karyoview/pkg/cache"
	"github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/pipeline"
	"github.com/matzehuels/karyoview/pkg/render/sink"
	"github.com/matzehuels/karyoview/pkg/store"
)

func testReference(t *testing.T) *genome.CytobandReference {
	t.Helper()
	bands := make(map[genome.Chromosome][]genome.Cytoband)
	for _, c := range genome.ReferenceOrder {
		bands[c] = []genome.Cytoband{{Band: "p1", Start: 0, Stop: 1000000, Stain: "gneg"}}
	}
	bands["7"] = []genome.Cytoband{
		{Band: "p22.3", Start: 0, Stop: 2800000, Stain: "gneg"},
		{Band: "p11.1", Start: 58000000, Stop: 59900000, Stain: "acen"},
		{Band: "q11.1", Start: 59900000, Stop: 61700000, Stain: "acen"},
		{Band: "q36.3", Start: 155100000, Stop: 159138663, Stain: "gneg"},
	}
	delete(bands, "Y")
	ref, err := genome.NewCytobandReference("37", bands)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(&bytes.Buffer{})
	runner := pipeline.NewRunner(store.NewMemoryStore(testReference(t)), c, nil, logger)
	return New(runner, logger, Options{Build: "37", ViewportWidth: 1955})
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a UUID", w.Header().Get(RequestIDHeader))
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" || body["commit"] == "" {
		t.Errorf("health body = %v", body)
	}
}

func TestRequestIDEcho(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestNotFound(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound || decodeError(t, w).Code != errors.ErrCodeNotFound {
		t.Errorf("status = %d body = %s", w.Code, w.Body)
	}
}

func TestBuilds(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/api/v1/builds", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"37"`) {
		t.Errorf("status = %d body = %s", w.Code, w.Body)
	}
}

func TestCoordinates(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
		valid  bool
		text   string
		code   errors.Code
	}{
		{"range", "/api/v1/coordinates?q=chr7:1,000-2,000", http.StatusOK, true, "7:1000-2000", ""},
		{"padded", "/api/v1/coordinates?q=X:1000-2000%2B500", http.StatusOK, true, "X:500-2500", ""},
		{"chromosome", "/api/v1/coordinates?q=mt", http.StatusOK, true, "MT", ""},
		{"empty", "/api/v1/coordinates?q=", http.StatusOK, true, "", ""},
		{"lenient invalid", "/api/v1/coordinates?q=chr23", http.StatusOK, false, "", errors.ErrCodeInvalidCoordinate},
		{"lenient inverted", "/api/v1/coordinates?q=7:2000-1000", http.StatusOK, false, "", errors.ErrCodeInvertedRange},
		{"strict invalid", "/api/v1/coordinates?q=chr23&strict=true", http.StatusBadRequest, false, "", errors.ErrCodeInvalidCoordinate},
		{"strict inverted", "/api/v1/coordinates?q=7:2000-1000&strict=1", http.StatusBadRequest, false, "", errors.ErrCodeInvertedRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.target, "")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body)
			}
			if tt.status != http.StatusOK {
				if got := decodeError(t, w).Code; got != tt.code {
					t.Errorf("code = %s, want %s", got, tt.code)
				}
				return
			}
			var resp coordinateResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Valid != tt.valid || resp.Text != tt.text {
				t.Errorf("valid=%v text=%q, want %v %q", resp.Valid, resp.Text, tt.valid, tt.text)
			}
			if !tt.valid && (resp.Error == nil || resp.Error.Code != tt.code) {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
			if !tt.valid && !resp.Query.IsAny() {
				t.Errorf("invalid text should give the whole-genome query, got %+v", resp.Query)
			}
		})
	}
}

func TestCytobands(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/cytobands/hg19/chr7?q=7:58000000-61700000", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp cytobandResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Build != "37" || resp.Chromosome != "7" || resp.Length != 159138663 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Centromere == nil || resp.Centromere.Band != "p11.1-q11.1" {
		t.Errorf("centromere = %+v", resp.Centromere)
	}
	if len(resp.Start) != 4 || len(resp.End) != 4 {
		t.Fatalf("options = %d/%d", len(resp.Start), len(resp.End))
	}
	if !resp.Start[1].Selected || !resp.End[2].Selected {
		t.Errorf("current interval not selected: %+v %+v", resp.Start[1], resp.End[2])
	}
	if resp.Start[0].Label != "p22.3 (start:0)" {
		t.Errorf("label = %q", resp.Start[0].Label)
	}

	errorCases := []struct {
		target string
		status int
		code   errors.Code
	}{
		{"/api/v1/cytobands/37/chr23", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/api/v1/cytobands/36/7", http.StatusBadRequest, errors.ErrCodeInvalidBuild},
		{"/api/v1/cytobands/38/7", http.StatusNotFound, errors.ErrCodeReferenceNotFound},
		{"/api/v1/cytobands/37/Y", http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tc := range errorCases {
		w := do(t, s, http.MethodGet, tc.target, "")
		if w.Code != tc.status || decodeError(t, w).Code != tc.code {
			t.Errorf("%s: status %d body %s, want %d %s", tc.target, w.Code, w.Body, tc.status, tc.code)
		}
	}
}

const layoutBody = `{
  "case_id": "internal_id",
  "viewport_width": 1600,
  "individuals": [
    {"id": "ADM1059A1", "sex": "1", "tracks": [{"kind": "roh", "image_ref": "cases/internal_id/ADM1059A1/roh_images"}]},
    {"id": "ADM1059A2", "sex": "2"}
  ],
  "marks": ["7:1000000-2000000"]
}`

func TestLayout(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/layout", layoutBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if w.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", w.Header().Get("X-Cache"))
	}
	res, caseID, err := sink.ReadJSON(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if caseID != "internal_id" || len(res.Panels) != 2 || res.Panels[0].Columns != 2 {
		t.Errorf("case %q panels %d", caseID, len(res.Panels))
	}
	seven := res.Panels[0].Placements[6]
	if seven.Chromosome != "7" || len(seven.Markers) != 1 || len(seven.Overlays) != 1 {
		t.Errorf("chr7 placement = %+v", seven)
	}

	w = do(t, s, http.MethodPost, "/api/v1/layout", layoutBody)
	if w.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", w.Header().Get("X-Cache"))
	}
}

func TestLayoutErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `{"case_id":`, errors.ErrCodeInvalidInput},
		{"unknown field", `{"case_id":"c1","colour":"red"}`, errors.ErrCodeInvalidInput},
		{"missing case id", `{"individuals":[]}`, errors.ErrCodeInvalidCase},
		{"duplicate individual", `{"case_id":"c1","individuals":[{"id":"a","sex":"1"},{"id":"a","sex":"2"}]}`, errors.ErrCodeInvalidCase},
		{"bad track chromosome", `{"case_id":"c1","individuals":[{"id":"a","sex":"1","tracks":[{"kind":"roh","chromosome":"chr7","image_ref":"x.png"}]}]}`, errors.ErrCodeInvalidCase},
		{"bad mark", `{"case_id":"c1","individuals":[],"marks":["7:9-1"]}`, errors.ErrCodeInvertedRange},
		{"bad build", `{"case_id":"c1","build":"36","individuals":[]}`, errors.ErrCodeInvalidBuild},
		{"image ref escapes root", `{"case_id":"c1","individuals":[{"id":"a","sex":"1","tracks":[{"kind":"roh","image_ref":"../../etc/roh_images"}]}]}`, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/v1/layout", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", w.Code, w.Body)
			}
			if got := decodeError(t, w).Code; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/render?format=svg", layoutBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "<svg") || !strings.Contains(body, `id="svg_ADM1059A2"`) || !strings.Contains(body, "<polygon") {
		t.Errorf("unexpected svg:\n%s", body)
	}

	w = do(t, s, http.MethodPost, "/api/v1/render?format=json", layoutBody)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("json render: %d %q", w.Code, w.Header().Get("Content-Type"))
	}

	w = do(t, s, http.MethodPost, "/api/v1/render?format=gif", layoutBody)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != errors.ErrCodeInvalidFormat {
		t.Errorf("gif render: %d %s", w.Code, w.Body)
	}
}

func TestRecoverer(t *testing.T) {
	s := newTestServer(t)
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d body = %s", w.Code, w.Body)
	}
	body := decodeError(t, w)
	if body.Code != errors.ErrCodeInternal || strings.Contains(body.Message, "boom") {
		t.Errorf("body = %+v, want INTERNAL_ERROR without the panic value", body)
	}
}

func TestRecovererReraisesAbort(t *testing.T) {
	s := newTestServer(t)
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("ServeHTTP returned without panicking")
}
