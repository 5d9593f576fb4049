package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LocalStore keeps objects on disk and signs download links with an HS256 JWT
// that the HTTP layer verifies before serving the file.
type LocalStore struct {
	root    string
	baseURL string
	secret  []byte
	now     func() time.Time
}

var _ ObjectStore = &LocalStore{}

func NewLocalStore(root, baseURL, secret string) (*LocalStore, error) {
	if secret == "" {
		return nil, errors.New("local storage: signing secret is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: create root: %w", err)
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		now:     time.Now,
	}, nil
}

func (s *LocalStore) path(owner, file string) (string, error) {
	key, err := ObjectKey(owner, file)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *LocalStore) Put(ctx context.Context, owner, file string, r io.Reader, _ string) error {
	p, err := s.path(owner, file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *LocalStore) Exists(_ context.Context, owner, file string) (bool, error) {
	p, err := s.path(owner, file)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *LocalStore) List(_ context.Context, owner string) ([]string, error) {
	if _, err := ObjectKey(owner, "x"); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.root, owner))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (s *LocalStore) SignedURL(_ context.Context, owner, file string, ttl time.Duration) (string, error) {
	key, err := ObjectKey(owner, file)
	if err != nil {
		return "", err
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   key,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign download token: %w", err)
	}

	return fmt.Sprintf("%s/api/files/%s/%s?token=%s",
		s.baseURL, url.PathEscape(owner), url.PathEscape(file), url.QueryEscape(signed)), nil
}

// Open verifies a download token for owner/file and opens the object.
func (s *LocalStore) Open(owner, file, token string) (*os.File, error) {
	key, err := ObjectKey(owner, file)
	if err != nil {
		return nil, err
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid download token: %w", err)
	}
	if claims.Subject != key {
		return nil, errors.New("invalid download token: subject mismatch")
	}

	p, err := s.path(owner, file)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}
