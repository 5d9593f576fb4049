package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrFetch is returned when a signed URL does not answer with 200.
var ErrFetch = errors.New("could not fetch document from storage")

// Fetcher downloads stored objects through their signed URLs, the same way an
// external worker would.
type Fetcher struct {
	store  ObjectStore
	client *http.Client
}

func NewFetcher(store ObjectStore, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{store: store, client: client}
}

func (f *Fetcher) Fetch(ctx context.Context, owner, file string) ([]byte, error) {
	url, err := f.store.SignedURL(ctx, owner, file, SignedURLTTL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s/%s", ErrFetch, resp.StatusCode, owner, file)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	return data, nil
}
