package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// DefaultMaxRemoteSize caps how much of a remote resource is buffered.
const DefaultMaxRemoteSize = 64 << 20

// ErrTooLarge is returned when a remote resource exceeds the size cap.
var ErrTooLarge = errors.New("remote resource too large")

// Resolver opens any supported locator.
type Resolver struct {
	Blobs         *Store
	Client        *http.Client
	MaxRemoteSize int64
}

// NewResolver creates a resolver backed by the given blob store.
func NewResolver(blobs *Store) *Resolver {
	return &Resolver{
		Blobs:         blobs,
		Client:        &http.Client{Timeout: 30 * time.Second},
		MaxRemoteSize: DefaultMaxRemoteSize,
	}
}

// Open returns the bytes behind locator and a hint (file name or media
// type) for choosing a decoder. Remote resources are buffered in memory so
// the returned reader is always seekable when the decoder needs it.
func (r *Resolver) Open(ctx context.Context, locator string) (io.ReadCloser, string, error) {
	switch {
	case locator == "":
		return nil, "", errors.New("empty locator")
	case IsBlob(locator):
		if r.Blobs == nil {
			return nil, "", ErrUnknownBlob
		}
		return r.Blobs.Open(locator)
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return r.openRemote(ctx, locator)
	case strings.HasPrefix(locator, "file://"):
		u, err := url.Parse(locator)
		if err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", locator, err)
		}
		return openFile(u.Path)
	default:
		return openFile(locator)
	}
}

func openFile(p string) (io.ReadCloser, string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, "", err
	}
	return f, path.Base(p), nil
}

func (r *Resolver) openRemote(ctx context.Context, locator string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, "", err
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: %s", locator, resp.Status)
	}

	limit := r.MaxRemoteSize
	if limit <= 0 {
		limit = DefaultMaxRemoteSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", locator, err)
	}
	if int64(len(data)) > limit {
		return nil, "", ErrTooLarge
	}

	hint := resp.Header.Get("Content-Type")
	if u, err := url.Parse(locator); err == nil && path.Ext(u.Path) != "" {
		hint = path.Base(u.Path)
	}

	return readSeekNopCloser{bytes.NewReader(data)}, hint, nil
}

// readSeekNopCloser keeps Seek visible through the ReadCloser interface.
type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }
