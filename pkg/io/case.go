package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/ideogram"
)

// Case file formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Case is a decoded case file.
type Case struct {
	ID          string                `json:"id"`
	Build       string                `json:"build,omitempty"`
	Individuals []ideogram.Individual `json:"individuals"`
}

type caseFile struct {
	CaseID      scalar       `yaml:"case_id" json:"case_id"`
	GenomeBuild scalar       `yaml:"genome_build" json:"genome_build"`
	Samples     []sampleFile `yaml:"samples" json:"samples"`
}

type sampleFile struct {
	SampleID          scalar            `yaml:"sample_id" json:"sample_id"`
	Sex               scalar            `yaml:"sex" json:"sex"`
	ChromographImages map[string]string `yaml:"chromograph_images" json:"chromograph_images"`
	Tracks            []trackFile       `yaml:"tracks" json:"tracks"`
}

type trackFile struct {
	Kind       string `yaml:"kind" json:"kind"`
	Chromosome scalar `yaml:"chromosome" json:"chromosome"`
	Image      string `yaml:"image" json:"image"`
}

// scalar accepts a string or a bare number. Builds, sexes and chromosomes
// are often written unquoted (genome_build: 37, sex: 1).
type scalar string

func (s *scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = scalar(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = scalar(n.String())
	return nil
}

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*s = scalar(node.Value)
	return nil
}

func (s scalar) String() string { return strings.TrimSpace(string(s)) }

// ReadCase decodes a case from r in the given format ("yaml" or "json").
//
// The case ID and every sample ID must be valid identifiers, sample IDs must
// be unique. A sex the layout does not recognize is kept as written and the
// layout skips that individual.
func ReadCase(r io.Reader, format string) (*Case, error) {
	var f caseFile
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCase, err, "decode yaml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCase, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported case format %q", format)
	}
	return f.toCase()
}

// ImportCase reads a case file, choosing JSON for a .json extension and
// YAML otherwise.
func ImportCase(path string) (*Case, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "case file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	c, err := ReadCase(file, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FormatFor returns the case format implied by a file name.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func (f caseFile) toCase() (*Case, error) {
	c := &Case{ID: f.CaseID.String()}
	if err := errors.ValidateIdentifier(c.ID); err != nil {
		return nil, fmt.Errorf("case_id: %w", err)
	}
	if b := f.GenomeBuild.String(); b != "" {
		build, err := genome.ValidateBuild(b)
		if err != nil {
			return nil, fmt.Errorf("genome_build: %w", err)
		}
		c.Build = build
	}

	seen := make(map[string]bool, len(f.Samples))
	for i, s := range f.Samples {
		ind, err := s.toIndividual()
		if err != nil {
			return nil, fmt.Errorf("samples[%d]: %w", i, err)
		}
		if seen[ind.ID] {
			return nil, errors.New(errors.ErrCodeInvalidCase, "samples[%d]: duplicate sample_id %q", i, ind.ID)
		}
		seen[ind.ID] = true
		c.Individuals = append(c.Individuals, ind)
	}
	return c, nil
}

func (s sampleFile) toIndividual() (ideogram.Individual, error) {
	ind := ideogram.Individual{ID: s.SampleID.String(), Sex: s.Sex.String()}
	if err := errors.ValidateIdentifier(ind.ID); err != nil {
		return ind, fmt.Errorf("sample_id: %w", err)
	}

	// Keys that name no drawable track (scout also writes upd_sites) are
	// ignored.
	dirs := make(map[ideogram.TrackKind]string)
	for key, dir := range s.ChromographImages {
		kind, err := ideogram.ParseTrackKind(key)
		if err != nil || kind == ideogram.Ideogram || strings.TrimSpace(dir) == "" {
			continue
		}
		dirs[kind] = strings.TrimSpace(dir)
	}
	for _, kind := range ideogram.TrackKinds {
		if dir, ok := dirs[kind]; ok {
			ind.Tracks = append(ind.Tracks, ideogram.Track{Kind: kind, ImageRef: dir})
		}
	}

	for j, t := range s.Tracks {
		kind, err := ideogram.ParseTrackKind(t.Kind)
		if err != nil {
			return ind, fmt.Errorf("tracks[%d]: %w", j, err)
		}
		track := ideogram.Track{Kind: kind, ImageRef: strings.TrimSpace(t.Image)}
		if raw := t.Chromosome.String(); raw != "" {
			c, ok := genome.ParseChromosome(raw)
			if !ok {
				return ind, errors.New(errors.ErrCodeInvalidCase, "tracks[%d]: unknown chromosome %q", j, raw)
			}
			track.Chromosome = c
		}
		if track.ImageRef == "" {
			return ind, errors.New(errors.ErrCodeInvalidCase, "tracks[%d]: image is required", j)
		}
		ind.Tracks = append(ind.Tracks, track)
	}
	return ind, nil
}

// Validate checks a case built in code or decoded from a request the same
// way [ReadCase] checks a file. Track chromosomes must be canonical names
// ("7", "X", "MT").
func (c *Case) Validate() error {
	if err := errors.ValidateIdentifier(c.ID); err != nil {
		return fmt.Errorf("case_id: %w", err)
	}
	if c.Build != "" {
		if _, err := genome.ValidateBuild(c.Build); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(c.Individuals))
	for i, ind := range c.Individuals {
		if err := errors.ValidateIdentifier(ind.ID); err != nil {
			return fmt.Errorf("individuals[%d]: %w", i, err)
		}
		if seen[ind.ID] {
			return errors.New(errors.ErrCodeInvalidCase, "individuals[%d]: duplicate id %q", i, ind.ID)
		}
		seen[ind.ID] = true
		for j, t := range ind.Tracks {
			if t.Chromosome != "" && !t.Chromosome.Valid() {
				return errors.New(errors.ErrCodeInvalidCase, "individuals[%d].tracks[%d]: unknown chromosome %q", i, j, t.Chromosome)
			}
			if strings.TrimSpace(t.ImageRef) == "" {
				return errors.New(errors.ErrCodeInvalidCase, "individuals[%d].tracks[%d]: image_ref is required", i, j)
			}
		}
	}
	return nil
}
