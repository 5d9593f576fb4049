package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// SignedURLTTL is how long a download link handed to the fetcher stays valid.
const SignedURLTTL = 24 * time.Hour

var (
	ErrNotFound    = errors.New("object not found")
	ErrInvalidName = errors.New("invalid object name")
)

// ObjectStore holds uploaded PDFs under "{owner}/{file}".
type ObjectStore interface {
	Put(ctx context.Context, owner, file string, r io.Reader, contentType string) error
	Exists(ctx context.Context, owner, file string) (bool, error)
	// List returns file names stored for owner, without the owner prefix.
	List(ctx context.Context, owner string) ([]string, error)
	SignedURL(ctx context.Context, owner, file string, ttl time.Duration) (string, error)
}

// ObjectKey joins owner and file into the storage key. Path separators and
// relative segments are rejected in either part.
func ObjectKey(owner, file string) (string, error) {
	for _, part := range []string{owner, file} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, part)
		}
	}
	return path.Join(owner, file), nil
}
