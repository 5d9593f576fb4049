package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ai-pdfstudy-be/internal/entity"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/internal/repository/specification"
	"ai-pdfstudy-be/internal/repository/unitofwork"
	"ai-pdfstudy-be/pkg/document"
	"ai-pdfstudy-be/pkg/embedding"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/rag/session"
	"ai-pdfstudy-be/pkg/store"
	"ai-pdfstudy-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	indexChunkSize    = 2000
	indexChunkOverlap = 400
)

// TextLoader yields the extracted pages of a stored document.
type TextLoader interface {
	LoadText(ctx context.Context, owner, file string) (document.Text, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService builds the vector index for selected documents. Jobs are
// acked on receipt and run on up to workers goroutines: a failed index
// settles its session as failed instead of being redelivered.
type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	textLoader        TextLoader
	sessionManager    *session.Manager
	eventPublisher    events.Publisher
	logger            logger.ILogger
	workers           int
	documents         documentLocks
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	textLoader TextLoader,
	sessionManager *session.Manager,
	workers int,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	if workers < 1 {
		workers = 1
	}
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		textLoader:        textLoader,
		sessionManager:    sessionManager,
		eventPublisher:    eventPublisher,
		logger:            log,
		workers:           workers,
		documents:         documentLocks{held: map[uuid.UUID]*documentLock{}},
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		var g errgroup.Group
		g.SetLimit(cs.workers)
		for msg := range messages {
			// The subscriber holds back the next job until this one is acked.
			msg.Ack()
			g.Go(func() error {
				cs.processMessage(ctx, msg)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job session.IndexJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("INDEXER", "Failed to unmarshal index job", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	sess, ok := cs.sessionManager.Lookup(job)
	if !ok {
		cs.logger.Info("INDEXER", "Skipping stale index job", map[string]interface{}{
			"owner":   job.Owner,
			"file":    job.File,
			"session": job.SessionID,
		})
		return
	}

	unlock := cs.documents.lock(job.DocumentID)
	chunks, err := cs.index(ctx, job)
	unlock()
	if err != nil {
		cs.sessionManager.MarkFailed(sess, err)
		publishEvent(ctx, cs.eventPublisher, cs.logger, events.New(events.TypeDocumentIndexFailed, map[string]interface{}{
			"owner": job.Owner,
			"file":  job.File,
			"error": err.Error(),
		}))
		return
	}

	if cs.sessionManager.MarkIndexed(sess, chunks) {
		publishEvent(ctx, cs.eventPublisher, cs.logger, events.New(events.TypeDocumentIndexed, map[string]interface{}{
			"owner":      job.Owner,
			"file":       job.File,
			"documentId": job.DocumentID.String(),
			"chunks":     chunks,
		}))
	}
}

// index replaces the stored chunks of job's document and returns how many
// were written.
func (cs *consumerService) index(ctx context.Context, job session.IndexJob) (int, error) {
	// Stored files are immutable, so an existing index for the document id is still valid.
	stored, err := cs.uowFactory.NewUnitOfWork(ctx).DocumentChunkRepository().
		Count(ctx, specification.ByDocumentID{DocumentID: job.DocumentID})
	if err != nil {
		return 0, fmt.Errorf("count stored chunks: %w", err)
	}
	if stored > 0 {
		cs.logger.Info("INDEXER", "Reusing stored index", map[string]interface{}{
			"owner":  job.Owner,
			"file":   job.File,
			"chunks": stored,
		})
		return int(stored), nil
	}

	text, err := cs.textLoader.LoadText(ctx, job.Owner, job.File)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var chunks []*entity.DocumentChunk
	for _, page := range text.Pages {
		for _, piece := range utils.SplitText(page.Text, indexChunkSize, indexChunkOverlap) {
			vector, err := cs.embeddingProvider.Generate(ctx, piece, embedding.TaskRetrievalDocument)
			if err != nil {
				return 0, fmt.Errorf("embed page %d: %w", page.Number, err)
			}
			chunks = append(chunks, &entity.DocumentChunk{
				Id:         uuid.New(),
				DocumentId: job.DocumentID,
				Owner:      job.Owner,
				FileName:   job.File,
				PageNumber: page.Number,
				ChunkIndex: len(chunks),
				Content:    piece,
				Embedding:  vector,
				Metadata: map[string]interface{}{
					"source": job.File,
					"page":   page.Number,
				},
				CreatedAt: now,
			})
		}
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: no text to index in %s", store.ErrIndexingFailed, job.File)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, job.DocumentID); err != nil {
		return 0, fmt.Errorf("delete old chunks: %w", err)
	}
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("commit chunks: %w", err)
	}

	cs.logger.Info("INDEXER", "Document indexed", map[string]interface{}{
		"owner":  job.Owner,
		"file":   job.File,
		"pages":  text.PageCount(),
		"chunks": len(chunks),
	})
	return len(chunks), nil
}

// documentLocks serialises index runs per document id, so a reselected file
// reuses the first run's chunks instead of writing a second copy.
type documentLocks struct {
	mu   sync.Mutex
	held map[uuid.UUID]*documentLock
}

type documentLock struct {
	mu      sync.Mutex
	waiters int
}

func (d *documentLocks) lock(id uuid.UUID) (unlock func()) {
	d.mu.Lock()
	l, ok := d.held[id]
	if !ok {
		l = &documentLock{}
		d.held[id] = l
	}
	l.waiters++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(d.held, id)
		}
		d.mu.Unlock()
	}
}
