// Package source resolves resource locators into readable audio bytes.
//
// A locator is a remote URL, a local path (optionally as a file:// URI) or a
// blob: handle minted by a Store for bytes that only exist in this process.
package source

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BlobScheme prefixes locators minted by a Store.
const BlobScheme = "blob:"

// ErrUnknownBlob is returned for blob locators that were never created or
// have been revoked.
var ErrUnknownBlob = errors.New("unknown blob locator")

// Opener provides the bytes behind a blob locator, plus the name used to
// pick a decoder.
type Opener interface {
	Open() (io.ReadCloser, error)
}

type blob struct {
	opener Opener
	hint   string
}

// Store maps blob locators to their openers.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

// NewStore creates an empty blob store.
func NewStore() *Store {
	return &Store{blobs: make(map[string]blob)}
}

// CreateObjectURL registers opener and returns a fresh blob locator for it.
// hint is a file name or media type used to select a decoder.
func (s *Store) CreateObjectURL(opener Opener, hint string) string {
	url := BlobScheme + uuid.NewString()
	s.mu.Lock()
	s.blobs[url] = blob{opener: opener, hint: hint}
	s.mu.Unlock()
	return url
}

// Revoke forgets a blob locator.
func (s *Store) Revoke(url string) {
	s.mu.Lock()
	delete(s.blobs, url)
	s.mu.Unlock()
}

// Len returns the number of live blob locators.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Open returns the bytes behind a blob locator and its decoder hint.
func (s *Store) Open(url string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	b, ok := s.blobs[url]
	s.mu.RUnlock()
	if !ok {
		return nil, "", ErrUnknownBlob
	}
	rc, err := b.opener.Open()
	if err != nil {
		return nil, "", err
	}
	return rc, b.hint, nil
}

// IsBlob reports whether locator was minted by a Store.
func IsBlob(locator string) bool {
	return strings.HasPrefix(locator, BlobScheme)
}
