// Package store persists cytoband references per genome build.
//
// Three implementations share the [Store] interface:
//
//   - [FileStore] reads UCSC cytoBand_<build>.txt files from a directory
//   - [MongoStore] keeps one document per band in a "cytoband" collection
//   - [MemoryStore] holds references in memory for tests and defaults
//
// [Open] picks an implementation from [Options].
package store

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
)

// ErrNotFound is returned when no bands are stored for a build.
var ErrNotFound = errors.New("cytoband reference not found")

// Store loads and saves cytoband references.
type Store interface {
	// Cytobands returns the reference of a build. The build is normalized
	// with [genome.ValidateBuild]. A build without bands yields an error
	// wrapping [ErrNotFound].
	Cytobands(ctx context.Context, build string) (*genome.CytobandReference, error)

	// Put replaces all bands of the reference's build.
	Put(ctx context.Context, ref *genome.CytobandReference) error

	// Builds lists the builds that have bands, sorted.
	Builds(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Options selects and configures a store for [Open].
type Options struct {
	// MongoURI selects a MongoStore when set.
	MongoURI string
	// Database is the MongoDB database (default "karyoview").
	Database string
	// Dir selects a FileStore when MongoURI is empty.
	Dir string
}

// Open returns a MongoStore, a FileStore or an empty MemoryStore, in that
// order of preference.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch {
	case opts.MongoURI != "":
		db := opts.Database
		if db == "" {
			db = DefaultDatabase
		}
		return NewMongoStore(ctx, opts.MongoURI, db)
	case opts.Dir != "":
		return NewFileStore(opts.Dir)
	default:
		return NewMemoryStore(), nil
	}
}

func notFound(build string) error {
	return kerrors.Wrap(kerrors.ErrCodeReferenceNotFound, ErrNotFound, "no cytobands for build %s", build)
}

func normalize(build string) (string, error) {
	b, err := genome.ValidateBuild(build)
	if err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	return b, nil
}
