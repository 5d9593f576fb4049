package embedding

import (
	"context"
	"fmt"
	"math"
)

// Gemini task types. Providers without task-specific models ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Dimensions is the vector width stored in document_chunks.
const Dimensions = 768

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}

type Config struct {
	Provider      string // "gemini", "ollama" or "jina"
	GeminiAPIKey  string
	OllamaBaseURL string
	OllamaModel   string
	JinaAPIKey    string
}

func NewProvider(cfg Config) (EmbeddingProvider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiProvider(cfg.GeminiAPIKey), nil
	case "ollama":
		return NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	case "jina":
		return NewJinaProvider(cfg.JinaAPIKey), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// normalizeVector scales vec to unit length so cosine distance in pgvector
// behaves the same for every provider.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
