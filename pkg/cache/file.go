package cache

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Cache buckets. Each kind of value lives in its own subdirectory so that
// references, layouts and rendered artifacts can be inspected separately.
const (
	BucketReference = "reference"
	BucketLayout    = "layout"
	BucketArtifact  = "artifact"
	BucketOther     = "other"
)

// FileCache stores entries as files below a directory, for CLI use.
//
// Each file holds a one-line header with the expiry time in Unix
// nanoseconds (0 for no expiry) followed by the raw payload. SVG and PNG
// artifacts are therefore stored without re-encoding.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache in dir, creating the directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the payload stored under key. Expired and unreadable entries
// are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, data, err := decodeEntry(raw)
	if err != nil || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores data under key. A ttl of zero keeps the entry until it is
// deleted or the cache is cleared.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Concurrent CLI runs may write the same key; rename keeps readers from
	// seeing a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encodeEntry(expires, data)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// Usage is the number of entries and their total size in one bucket.
type Usage struct {
	Entries int
	Bytes   int64
}

// Usage walks the cache and sums entries per bucket.
func (c *FileCache) Usage() (map[string]Usage, error) {
	out := make(map[string]Usage)
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(c.dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		bucket := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
		u := out[bucket]
		u.Entries++
		u.Bytes += info.Size()
		out[bucket] = u
		return nil
	})
	return out, err
}

// Clear removes every entry while keeping the directory itself.
func (c *FileCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to <dir>/<bucket>/<hash[:2]>/<hash[2:]>.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, BucketOf(key), hash[:2], hash[2:])
}

// BucketOf returns the bucket of a key produced by a Keyer, looking past
// any ScopedKeyer prefix.
func BucketOf(key string) string {
	for _, seg := range strings.Split(key, ":") {
		switch seg {
		case BucketReference, BucketLayout, BucketArtifact:
			return seg
		}
	}
	return BucketOther
}

func encodeEntry(expires time.Time, data []byte) []byte {
	var ns int64
	if !expires.IsZero() {
		ns = expires.UnixNano()
	}
	header := strconv.FormatInt(ns, 10) + "\n"
	out := make([]byte, 0, len(header)+len(data))
	return append(append(out, header...), data...)
}

func decodeEntry(raw []byte) (time.Time, []byte, error) {
	r := bufio.NewReader(bytes.NewReader(raw))
	line, err := r.ReadString('\n')
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("cache entry header: %w", err)
	}
	ns, err := strconv.ParseInt(strings.TrimSuffix(line, "\n"), 10, 64)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("cache entry header: %w", err)
	}
	var expires time.Time
	if ns != 0 {
		expires = time.Unix(0, ns)
	}
	return expires, raw[len(line):], nil
}

var _ Cache = (*FileCache)(nil)
