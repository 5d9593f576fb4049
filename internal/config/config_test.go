package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_MAX_CONTEXT_TOKENS", "")
	t.Setenv("MAX_UPLOAD_PAGES", "not-a-number")
	t.Setenv("INDEX_CONCURRENCY", "")

	cfg := Load()

	assert.Equal(t, 1_048_576, cfg.Ai.MaxContextTokens)
	assert.Equal(t, 75, cfg.Limits.MaxUploadPages)
	assert.Equal(t, 3, cfg.Ai.RetrievalTopK)
	assert.Equal(t, 4, cfg.Limits.IndexConcurrency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-123")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("OCR_ENABLED", "false")
	t.Setenv("GENERATION_CONCURRENCY", "4")
	t.Setenv("INDEX_CONCURRENCY", "8")

	cfg := Load()

	assert.Equal(t, "sk-123", cfg.LLMAPIKey())
	assert.Equal(t, 15*time.Minute, cfg.App.SessionTTL)
	assert.False(t, cfg.Ai.OCREnabled)
	assert.Equal(t, 4, cfg.Limits.GenerationConcurrency)
	assert.Equal(t, 8, cfg.Limits.IndexConcurrency)
}
