package contract

import (
	"context"

	"ai-pdfstudy-be/internal/entity"
	"ai-pdfstudy-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentChunk wraps DocumentChunk with its similarity score
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the closest chunks of one document by cosine similarity.
	SearchSimilar(ctx context.Context, documentId uuid.UUID, embedding []float32, limit int) ([]*ScoredDocumentChunk, error)
}
