package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const chr1Bands = `chr1	0	2300000	p36.33	gneg
chr1	121500000	125000000	p11.1	acen
chr1	125000000	128900000	q11	acen
chr1	243700000	249250621	q44	gneg
`

func TestCytobandsLoadInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCLI(t)

	// Warm the cache with the five-band reference.
	runner, err := c.newRunner(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Reference(ctx, "37"); err != nil {
		t.Fatal(err)
	}
	runner.Close(ctx)

	path := filepath.Join(t.TempDir(), "cytoBand.txt")
	if err := os.WriteFile(path, []byte(testBands+chr1Bands), 0644); err != nil {
		t.Fatal(err)
	}
	if err := c.runCytobandsLoad(ctx, path); err != nil {
		t.Fatal(err)
	}

	runner, err = c.newRunner(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close(ctx)
	ref, hit, err := runner.ReferenceWithCacheInfo(ctx, "37", false)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("reference should be reloaded from the store after load")
	}
	if ref.Len() != 9 {
		t.Errorf("Len() = %d, want 9", ref.Len())
	}
}

func TestCytobandsLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		c, _ := newTestCLI(t)
		if err := c.runCytobandsLoad(ctx, filepath.Join(t.TempDir(), "nope.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid build", func(t *testing.T) {
		c, _ := newTestCLI(t)
		c.build = "36"
		path := filepath.Join(t.TempDir(), "cytoBand.txt")
		if err := os.WriteFile(path, []byte(testBands), 0644); err != nil {
			t.Fatal(err)
		}
		if err := c.runCytobandsLoad(ctx, path); err == nil {
			t.Error("expected error for build 36")
		}
	})
}

func TestCytobandsFetch(t *testing.T) {
	ctx := context.Background()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(chr1Bands))
	}))
	defer srv.Close()

	c, _ := newTestCLI(t)
	c.build = "38"
	if err := c.runCytobandsFetch(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/hg38/database/cytoBand.txt.gz" {
		t.Errorf("request path = %q", gotPath)
	}

	st, err := c.newStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close(ctx)
	ref, err := st.Cytobands(ctx, "38")
	if err != nil {
		t.Fatalf("build 38 not stored: %v", err)
	}
	if ref.Len() != 4 {
		t.Errorf("Len() = %d, want 4", ref.Len())
	}
}

func TestCytobandsFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c, _ := newTestCLI(t)
	if err := c.runCytobandsFetch(context.Background(), srv.URL); err == nil {
		t.Error("expected error for missing table")
	}
}
