package rag

import (
	"context"
	"fmt"

	"ai-pdfstudy-be/pkg/embedding"

	"github.com/google/uuid"
)

// DefaultTopK is how many passages back each answer.
const DefaultTopK = 3

// Chunk is a retrieved passage of an indexed document.
type Chunk struct {
	Content string
	Page    int
	Score   float64
}

// ChunkSearcher runs the vector similarity query against indexed chunks.
type ChunkSearcher interface {
	SearchSimilar(ctx context.Context, documentID uuid.UUID, vector []float32, k int) ([]Chunk, error)
}

type Retriever struct {
	embedder embedding.EmbeddingProvider
	searcher ChunkSearcher
	topK     int
}

func NewRetriever(embedder embedding.EmbeddingProvider, searcher ChunkSearcher, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, searcher: searcher, topK: topK}
}

// Retrieve returns the passages of documentID closest to query, best first.
func (r *Retriever) Retrieve(ctx context.Context, documentID uuid.UUID, query string) ([]Chunk, error) {
	vector, err := r.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := r.searcher.SearchSimilar(ctx, documentID, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	return chunks, nil
}
