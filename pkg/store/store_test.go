package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	kerrors "github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
)

const sampleBands = `chr1	0	2300000	p36.33	gneg
chr1	121500000	125000000	p11.1	acen
chr1	125000000	128900000	q11	acen
chr1	128900000	249250621	q12	gvar
chrX	0	4300000	p22.33	gneg
chrX	58100000	60600000	p11.1	acen
chrX	60600000	155270560	q11.1	acen
chrM	0	16571		gneg
`

func sampleRef(t *testing.T, build string) *genome.CytobandReference {
	t.Helper()
	ref, err := genome.ReadCytobands(strings.NewReader(sampleBands), build)
	if err != nil {
		t.Fatalf("ReadCytobands: %v", err)
	}
	return ref
}

// exercise runs the behavior every Store must share.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Cytobands(ctx, "37")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Cytobands on empty store: got %v, want ErrNotFound", err)
	}
	if !kerrors.Is(err, kerrors.ErrCodeReferenceNotFound) {
		t.Errorf("code = %s, want %s", kerrors.GetCode(err), kerrors.ErrCodeReferenceNotFound)
	}

	if _, err := s.Cytobands(ctx, "36"); !kerrors.Is(err, kerrors.ErrCodeInvalidBuild) {
		t.Errorf("Cytobands(36): got %v, want INVALID_BUILD", err)
	}

	if err := s.Put(ctx, sampleRef(t, "37")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ref, err := s.Cytobands(ctx, "hg19")
	if err != nil {
		t.Fatalf("Cytobands(hg19): %v", err)
	}
	if ref.Build() != "37" {
		t.Errorf("Build() = %q, want 37", ref.Build())
	}
	if n, ok := ref.Length("1"); !ok || n != 249250621 {
		t.Errorf("Length(1) = %d, %v", n, ok)
	}
	if !ref.Has("MT") {
		t.Error("MT missing after round trip")
	}
	if c, ok := ref.Centromere("X"); !ok || c.Band != "p11.1-q11.1" {
		t.Errorf("Centromere(X) = %+v, %v", c, ok)
	}

	builds, err := s.Builds(ctx)
	if err != nil {
		t.Fatalf("Builds: %v", err)
	}
	if !slices.Equal(builds, []string{"37"}) {
		t.Errorf("Builds() = %v, want [37]", builds)
	}

	// A second Put replaces the build.
	smaller, err := genome.NewCytobandReference("37", map[genome.Chromosome][]genome.Cytoband{
		"7": {{Band: "p22.3", Start: 0, Stop: 2800000, Stain: "gneg"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, smaller); err != nil {
		t.Fatalf("Put replacement: %v", err)
	}
	ref, err = s.Cytobands(ctx, "37")
	if err != nil {
		t.Fatal(err)
	}
	if ref.Has("1") || !ref.Has("7") {
		t.Errorf("replacement not applied: chromosomes %v", ref.Chromosomes())
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close(context.Background())
	exercise(t, s)
}

func TestMemoryStore_Seeded(t *testing.T) {
	s := NewMemoryStore(sampleRef(t, "38"))
	builds, _ := s.Builds(context.Background())
	if !slices.Equal(builds, []string{"38"}) {
		t.Errorf("Builds() = %v", builds)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, s)

	if _, err := os.Stat(filepath.Join(dir, "cytoBand_37.txt")); err != nil {
		t.Errorf("expected cytoBand_37.txt: %v", err)
	}
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cytoBand_hg19.txt", "cytoBand_99.txt", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sampleBands), 0644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	builds, err := s.Builds(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(builds) != 0 {
		t.Errorf("Builds() = %v, want none", builds)
	}
}

func TestFileStore_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cytoBand_38.txt"), []byte("chr1\tzero\t10\tp1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, _ := NewFileStore(dir)
	_, err := s.Cytobands(context.Background(), "38")
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("malformed file reported as missing: %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open() with no options = %T, want *MemoryStore", s)
	}

	s, err = Open(ctx, Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open() with Dir = %T, want *FileStore", s)
	}
}
