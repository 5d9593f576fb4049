package service

import (
	"context"

	"ai-pdfstudy-be/internal/repository/unitofwork"
	"ai-pdfstudy-be/pkg/rag"

	"github.com/google/uuid"
)

// chunkSearcher answers retrieval queries from the document_chunks table.
type chunkSearcher struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ rag.ChunkSearcher = &chunkSearcher{}

func NewChunkSearcher(uowFactory unitofwork.RepositoryFactory) rag.ChunkSearcher {
	return &chunkSearcher{uowFactory: uowFactory}
}

func (s *chunkSearcher) SearchSimilar(ctx context.Context, documentID uuid.UUID, vector []float32, k int) ([]rag.Chunk, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilar(ctx, documentID, vector, k)
	if err != nil {
		return nil, err
	}

	chunks := make([]rag.Chunk, 0, len(scored))
	for _, sc := range scored {
		chunks = append(chunks, rag.Chunk{
			Content: sc.Chunk.Content,
			Page:    sc.Chunk.PageNumber,
			Score:   sc.Similarity,
		})
	}
	return chunks, nil
}
