// Package ucsc downloads cytoband tables from the UCSC Genome Browser.
//
// UCSC publishes one gzipped cytoBand.txt per assembly under
// <base>/<assembly>/database/cytoBand.txt.gz, where the assembly is hg19
// for build 37 and hg38 for build 38.
//
//	client := ucsc.NewClient()
//	ref, err := client.Cytobands(ctx, "37")
package ucsc

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/karyoview/pkg/buildinfo"
	"github.com/matzehuels/karyoview/pkg/cache"
	"github.com/matzehuels/karyoview/pkg/genome"
)

// DefaultBaseURL is the UCSC download server.
const DefaultBaseURL = "https://hgdownload.soe.ucsc.edu/goldenPath"

const httpTimeout = 60 * time.Second

var (
	// ErrNotFound is returned when UCSC has no table for the assembly.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches cytoband tables. Create it with [NewClient].
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
	retry   cache.RetryPolicy
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at a mirror.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default client, which times out after a minute.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets how often transient download failures are retried.
func WithRetry(p cache.RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// NewClient creates a client for [DefaultBaseURL].
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: DefaultBaseURL,
		headers: map[string]string{"User-Agent": buildinfo.UserAgent()},
		retry:   cache.DefaultRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Assembly returns the UCSC assembly name of a build.
func Assembly(build string) (string, error) {
	b, err := genome.ValidateBuild(build)
	if err != nil {
		return "", err
	}
	if b == genome.Build38 {
		return "hg38", nil
	}
	return "hg19", nil
}

// URL returns the cytoBand.txt.gz location for a build.
func (c *Client) URL(build string) (string, error) {
	asm, err := Assembly(build)
	if err != nil {
		return "", err
	}
	return c.baseURL + "/" + asm + "/database/cytoBand.txt.gz", nil
}

// Cytobands downloads and parses the cytoband table of a build. Transient
// failures are retried with backoff.
func (c *Client) Cytobands(ctx context.Context, build string) (*genome.CytobandReference, error) {
	url, err := c.URL(build)
	if err != nil {
		return nil, err
	}
	b, _ := genome.ValidateBuild(build)

	var data []byte
	err = cache.Retry(ctx, c.retry, func() error {
		body, err := c.doRequest(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(body)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	r, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", url, err)
	}
	return genome.ReadCytobands(r, b)
}

// decompress undoes gzip when the payload starts with the gzip magic. Some
// mirrors serve the table already decoded.
func decompress(data []byte) (io.Reader, error) {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return bufio.NewReader(zr), nil
	}
	return bytes.NewReader(data), nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
