package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// FileStore reads and writes UCSC cytoBand files named
// cytoBand_<build>.txt in one directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file holding the bands of a normalized build.
func (s *FileStore) Path(build string) string {
	return filepath.Join(s.dir, "cytoBand_"+build+".txt")
}

func (s *FileStore) Cytobands(ctx context.Context, build string) (*genome.CytobandReference, error) {
	b, err := normalize(build)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path(b))
	if os.IsNotExist(err) {
		return nil, notFound(b)
	}
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	ref, err := genome.ReadCytobands(f, b)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", s.Path(b), err)
	}
	return ref, nil
}

// Put writes the reference to a temporary file and renames it in place.
func (s *FileStore) Put(ctx context.Context, ref *genome.CytobandReference) error {
	tmp, err := os.CreateTemp(s.dir, ".cytoBand-*")
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := genome.WriteCytobands(tmp, ref); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write bands: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return os.Rename(tmp.Name(), s.Path(ref.Build()))
}

func (s *FileStore) Builds(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "cytoBand_*.txt"))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "cytoBand_"), ".txt")
		if b, err := genome.ValidateBuild(name); err == nil && b == name {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*FileStore)(nil)
