package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStore keeps objects in a Google Cloud Storage bucket (Firebase storage
// buckets included) and hands out V4 signed URLs.
type GCSStore struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
}

var _ ObjectStore = &GCSStore{}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}
	return &GCSStore{client: client, bucket: client.Bucket(bucket)}, nil
}

func (s *GCSStore) Put(ctx context.Context, owner, file string, r io.Reader, contentType string) error {
	key, err := ObjectKey(owner, file)
	if err != nil {
		return err
	}
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("gcs: write %s: %w", key, err)
	}
	return w.Close()
}

func (s *GCSStore) Exists(ctx context.Context, owner, file string) (bool, error) {
	key, err := ObjectKey(owner, file)
	if err != nil {
		return false, err
	}
	_, err = s.bucket.Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *GCSStore) List(ctx context.Context, owner string) ([]string, error) {
	if _, err := ObjectKey(owner, "x"); err != nil {
		return nil, err
	}
	prefix := owner + "/"
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	files := []string{}
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs: list %s: %w", prefix, err)
		}
		name := strings.TrimPrefix(attrs.Name, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

func (s *GCSStore) SignedURL(_ context.Context, owner, file string, ttl time.Duration) (string, error) {
	key, err := ObjectKey(owner, file)
	if err != nil {
		return "", err
	}
	u, err := s.bucket.SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("gcs: sign %s: %w", key, err)
	}
	return u, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
