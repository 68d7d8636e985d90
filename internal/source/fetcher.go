package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/san-kum/secretgrid/internal/grid"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultCacheSize   = 16
	DefaultMaxBodySize = 32 << 20
	userAgent          = "secretgrid/1.0"
)

// Fetcher retrieves documents over HTTP and remembers parsed results by URL.
type Fetcher struct {
	client      *http.Client
	cache       *lru.Cache[string, []grid.RawRecord]
	cacheSize   int
	maxBodySize int64
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the request timeout on the fetcher's client.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		c := *f.client
		c.Timeout = d
		f.client = &c
	}
}

// WithCacheSize bounds the number of cached documents. Zero disables caching.
func WithCacheSize(n int) FetcherOption {
	return func(f *Fetcher) { f.cacheSize = n }
}

// WithMaxBodySize caps the number of response bytes handed to the parser.
// n <= 0 falls back to DefaultMaxBodySize.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *Fetcher) { f.maxBodySize = n }
}

func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultTimeout},
		cacheSize:   DefaultCacheSize,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxBodySize <= 0 {
		f.maxBodySize = DefaultMaxBodySize
	}
	if f.cacheSize > 0 {
		cache, err := lru.New[string, []grid.RawRecord](f.cacheSize)
		if err != nil {
			return nil, err
		}
		f.cache = cache
	}
	return f, nil
}

// Fetch downloads url and parses its first table.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]grid.RawRecord, error) {
	if f.cache != nil {
		if records, ok := f.cache.Get(url); ok {
			return slices.Clone(records), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if resp.ContentLength > f.maxBodySize {
		return nil, fmt.Errorf("%w: %s sent %d bytes, limit %d", ErrBodyTooLarge, url, resp.ContentLength, f.maxBodySize)
	}

	records, err := ParseTable(http.MaxBytesReader(nil, resp.Body, f.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, tooLarge.Limit)
		}
		return nil, err
	}
	if f.cache != nil {
		f.cache.Add(url, slices.Clone(records))
	}
	return records, nil
}

// Purge drops every cached document.
func (f *Fetcher) Purge() {
	if f.cache != nil {
		f.cache.Purge()
	}
}

// Cached reports how many documents are currently cached.
func (f *Fetcher) Cached() int {
	if f.cache == nil {
		return 0
	}
	return f.cache.Len()
}

// IsURL reports whether location should be fetched rather than read from disk.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Open fetches location when it is a URL and reads it from disk otherwise.
func Open(ctx context.Context, f *Fetcher, location string) ([]grid.RawRecord, error) {
	if IsURL(location) {
		return f.Fetch(ctx, location)
	}
	return ReadFile(location)
}
