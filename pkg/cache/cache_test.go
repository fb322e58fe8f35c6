package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.ReferenceKey("37"); got != "reference:37" {
		t.Errorf("ReferenceKey unexpected: %s", got)
	}

	// LayoutKey should include options in hash
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Build: "37", ViewportWidth: 1955})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Build: "37", ViewportWidth: 1555})
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{Build: "37", ViewportWidth: 1955, Marks: []string{"7:1-2"}})
	lk4 := k.LayoutKey("hash123", LayoutKeyOpts{Build: "37", ViewportWidth: 1955, ReferenceHash: "ref2"})
	if lk1 == lk2 || lk1 == lk3 || lk1 == lk4 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{Build: "37", ViewportWidth: 1955}) {
		t.Error("LayoutKey should be deterministic")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Scale: 2})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey unexpected: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	if got := scoped.ReferenceKey("38"); got != "staging:reference:38" {
		t.Errorf("ScopedKeyer ReferenceKey unexpected: %s", got)
	}

	layoutKey := scoped.LayoutKey("abc", LayoutKeyOpts{})
	if !strings.HasPrefix(layoutKey, "staging:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", layoutKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.ReferenceKey("37"); key != "prefix:reference:37" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "layout:x"); hit {
		t.Error("empty cache reported a hit")
	}

	if err := c.Set(ctx, "layout:x", []byte("payload"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "layout:x")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:x"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "layout:x"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "layout:x"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)
	if fc.Dir() != dir {
		t.Errorf("Dir() = %s", fc.Dir())
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := fc.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("Clear removed the cache directory")
	}
}

func TestFileCacheBuckets(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	k := NewScopedKeyer(NewDefaultKeyer(), "tenant-a:")
	keys := map[string]string{
		k.ReferenceKey("37"):                                 BucketReference,
		k.LayoutKey("abc", LayoutKeyOpts{Build: "37"}):       BucketLayout,
		k.ArtifactKey("def", ArtifactKeyOpts{Format: "svg"}): BucketArtifact,
		"misc":                                               BucketOther,
	}
	for key, bucket := range keys {
		if got := BucketOf(key); got != bucket {
			t.Errorf("BucketOf(%q) = %q, want %q", key, got, bucket)
		}
		if err := c.Set(ctx, key, []byte("<svg/>"), 0); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(filepath.Join(dir, bucket)); err != nil {
			t.Errorf("bucket dir %s missing for %q", bucket, key)
		}
	}

	usage, err := fc.Usage()
	if err != nil {
		t.Fatal(err)
	}
	for _, bucket := range keys {
		u := usage[bucket]
		if u.Entries != 1 || u.Bytes <= int64(len("<svg/>")) {
			t.Errorf("usage[%s] = %+v", bucket, u)
		}
	}
}

func TestFileCacheBinaryPayload(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	payload := []byte("\x89PNG\r\n\x1a\n\x00\nline\n")
	if err := c.Set(ctx, "artifact:png", payload, time.Hour); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, "artifact:png")
	if err != nil || !hit || string(got) != string(payload) {
		t.Errorf("Get = %q, %v, %v", got, hit, err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)
	path := fc.path("layout:x")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not-a-header"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "layout:x"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable(Retryable(err)) = false")
	}
	if !errors.Is(err, ErrUnavailable) || err.Error() != ErrUnavailable.Error() {
		t.Errorf("wrapped error lost: %v", err)
	}
	if !IsRetryable(fmt.Errorf("redis: %w", err)) {
		t.Error("IsRetryable should look through wrapping")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("unmarked error reported retryable")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	fast := RetryPolicy{Attempts: 3, Delay: time.Millisecond}
	permanent := errors.New("bad build")

	tests := []struct {
		name      string
		policy    RetryPolicy
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{"first try", fast, 0, nil, 1, nil},
		{"recovers", fast, 2, Retryable(ErrUnavailable), 3, nil},
		{"gives up", fast, 5, Retryable(ErrUnavailable), 3, ErrUnavailable},
		{"permanent stops", fast, 5, permanent, 1, permanent},
		{"zero attempts means one", RetryPolicy{}, 5, Retryable(ErrUnavailable), 1, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.policy, func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
