package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-pdfstudy-be/pkg/document"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

// DocumentCache stores extracted page text in Redis so summaries, quizzes and
// re-selection of the same file skip the download and extraction step.
type DocumentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDocumentCache(rdb *redis.Client, ttl time.Duration) *DocumentCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DocumentCache{rdb: rdb, ttl: ttl}
}

func Key(owner, file string) string {
	return fmt.Sprintf("doctext:%s/%s", owner, file)
}

// Get returns the cached text. found is false on a miss.
func (c *DocumentCache) Get(ctx context.Context, owner, file string) (document.Text, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(owner, file)).Bytes()
	if errors.Is(err, redis.Nil) {
		return document.Text{}, false, nil
	}
	if err != nil {
		return document.Text{}, false, err
	}
	text, err := decode(raw)
	if err != nil {
		return document.Text{}, false, err
	}
	return text, true, nil
}

func (c *DocumentCache) Set(ctx context.Context, owner, file string, text document.Text) error {
	raw, err := encode(text)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(owner, file), raw, c.ttl).Err()
}

func encode(text document.Text) ([]byte, error) {
	pages := make([]string, len(text.Pages))
	for i, p := range text.Pages {
		pages[i] = p.Text
	}
	return json.Marshal(pages)
}

func decode(raw []byte) (document.Text, error) {
	var pages []string
	if err := json.Unmarshal(raw, &pages); err != nil {
		return document.Text{}, fmt.Errorf("decode cached document: %w", err)
	}
	return document.NewText(pages), nil
}
