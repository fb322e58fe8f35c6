package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// MemoryStore keeps references in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	refs map[string]*genome.CytobandReference
}

// NewMemoryStore returns an empty store, optionally seeded with refs.
func NewMemoryStore(refs ...*genome.CytobandReference) *MemoryStore {
	s := &MemoryStore{refs: make(map[string]*genome.CytobandReference)}
	for _, r := range refs {
		s.refs[r.Build()] = r
	}
	return s
}

func (s *MemoryStore) Cytobands(ctx context.Context, build string) (*genome.CytobandReference, error) {
	b, err := normalize(build)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.refs[b]
	if !ok {
		return nil, notFound(b)
	}
	return ref, nil
}

func (s *MemoryStore) Put(ctx context.Context, ref *genome.CytobandReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[ref.Build()] = ref
	return nil
}

func (s *MemoryStore) Builds(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.refs))
	for b := range s.refs {
		out = append(out, b)
	}
	slices.Sort(out)
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
