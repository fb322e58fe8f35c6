package io

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/ideogram"
)

func TestImportCase_YAML(t *testing.T) {
	c, err := ImportCase(filepath.Join("testdata", "case.yaml"))
	if err != nil {
		t.Fatalf("ImportCase: %v", err)
	}
	if c.ID != "internal_id" || c.Build != "37" {
		t.Errorf("case = %q build %q", c.ID, c.Build)
	}
	if len(c.Individuals) != 2 {
		t.Fatalf("got %d individuals, want 2", len(c.Individuals))
	}

	a1 := c.Individuals[0]
	if a1.ID != "ADM1059A1" || a1.Sex != "male" {
		t.Errorf("first individual = %+v", a1)
	}
	want := []ideogram.Track{
		{Kind: ideogram.Autozygous, ImageRef: "cases/internal_id/ADM1059A1/autozygous_images"},
		{Kind: ideogram.Coverage, ImageRef: "cases/internal_id/ADM1059A1/coverage_images"},
		{Kind: ideogram.UPDRegions, ImageRef: "cases/internal_id/ADM1059A1/upd_regions_images"},
	}
	if !reflect.DeepEqual(a1.Tracks, want) {
		t.Errorf("tracks = %+v\nwant %+v", a1.Tracks, want)
	}

	a2 := c.Individuals[1]
	if a2.Sex != "2" {
		t.Errorf("numeric sex = %q, want 2", a2.Sex)
	}
	want = []ideogram.Track{
		{Kind: ideogram.ROH, ImageRef: "cases/internal_id/ADM1059A2/roh_images"},
		{Kind: ideogram.Coverage, Chromosome: "7", ImageRef: "/uploads/ADM1059A2/coverage-7.png"},
	}
	if !reflect.DeepEqual(a2.Tracks, want) {
		t.Errorf("tracks = %+v\nwant %+v", a2.Tracks, want)
	}
}

func TestImportCase_JSON(t *testing.T) {
	c, err := ImportCase(filepath.Join("testdata", "case.json"))
	if err != nil {
		t.Fatalf("ImportCase: %v", err)
	}
	if c.Build != "38" {
		t.Errorf("build = %q, want 38", c.Build)
	}
	if got := c.Individuals[0].Sex; got != "1" {
		t.Errorf("sex = %q, want 1", got)
	}
	// Unrecognized sexes are left for the layout to skip.
	if got := c.Individuals[1].Sex; got != "other" {
		t.Errorf("sex = %q, want other", got)
	}
}

func TestImportCase_ParentRelative(t *testing.T) {
	c, err := ImportCase(filepath.Join("..", "io", "testdata", "case.yaml"))
	if err != nil {
		t.Fatalf("ImportCase: %v", err)
	}
	if c.ID != "internal_id" {
		t.Errorf("case = %q, want internal_id", c.ID)
	}
}

func TestImportCase_Missing(t *testing.T) {
	_, err := ImportCase(filepath.Join("testdata", "nope.yaml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadCase_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   errors.Code
	}{
		{"bad format", "toml", `case_id = "x"`, errors.ErrCodeInvalidFormat},
		{"malformed yaml", FormatYAML, "case_id: [", errors.ErrCodeInvalidCase},
		{"missing case id", FormatYAML, "samples: []", errors.ErrCodeInvalidCase},
		{"bad case id", FormatYAML, "case_id: ../etc", errors.ErrCodeInvalidCase},
		{"bad build", FormatYAML, "case_id: c1\ngenome_build: 36", errors.ErrCodeInvalidBuild},
		{"bad sample id", FormatJSON, `{"case_id":"c1","samples":[{"sample_id":"a b"}]}`, errors.ErrCodeInvalidCase},
		{"duplicate sample", FormatJSON, `{"case_id":"c1","samples":[{"sample_id":"a"},{"sample_id":"a"}]}`, errors.ErrCodeInvalidCase},
		{"bad track kind", FormatYAML, "case_id: c1\nsamples:\n  - sample_id: a\n    tracks:\n      - kind: heat\n        image: x.png", errors.ErrCodeInvalidInput},
		{"bad track chromosome", FormatYAML, "case_id: c1\nsamples:\n  - sample_id: a\n    tracks:\n      - kind: roh\n        chromosome: 23\n        image: x.png", errors.ErrCodeInvalidCase},
		{"track without image", FormatYAML, "case_id: c1\nsamples:\n  - sample_id: a\n    tracks:\n      - kind: roh", errors.ErrCodeInvalidCase},
		{"object sex", FormatJSON, `{"case_id":"c1","samples":[{"sample_id":"a","sex":{}}]}`, errors.ErrCodeInvalidCase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCase(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]string{
		"case.json":   FormatJSON,
		"CASE.JSON":   FormatJSON,
		"case.yaml":   FormatYAML,
		"case.yml":    FormatYAML,
		"case_config": FormatYAML,
	}
	for in, want := range tests {
		if got := FormatFor(in); got != want {
			t.Errorf("FormatFor(%q) = %q, want %q", in, got, want)
		}
	}
}
