package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-pdfstudy-be/internal/entity"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/internal/repository/contract"
	"ai-pdfstudy-be/internal/repository/memory"
	"ai-pdfstudy-be/internal/repository/specification"
	"ai-pdfstudy-be/internal/repository/unitofwork"
	"ai-pdfstudy-be/pkg/document"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/rag/session"
	"ai-pdfstudy-be/pkg/rag/state"
	"ai-pdfstudy-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChunkRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID][]*entity.DocumentChunk
	deleted []uuid.UUID
}

func (r *fakeChunkRepo) CreateBulk(_ context.Context, chunks []*entity.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		r.rows[c.DocumentId] = append(r.rows[c.DocumentId], c)
	}
	return nil
}

func (r *fakeChunkRepo) DeleteByDocumentId(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	delete(r.rows, id)
	return nil
}

func (r *fakeChunkRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, spec := range specs {
		if byDoc, ok := spec.(specification.ByDocumentID); ok {
			n += int64(len(r.rows[byDoc.DocumentID]))
		}
	}
	return n, nil
}

func (r *fakeChunkRepo) SearchSimilar(_ context.Context, id uuid.UUID, _ []float32, limit int) ([]*contract.ScoredDocumentChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*contract.ScoredDocumentChunk
	for i, c := range r.rows[id] {
		if i == limit {
			break
		}
		out = append(out, &contract.ScoredDocumentChunk{Chunk: c, Similarity: 1 - float64(i)/10})
	}
	return out, nil
}

type fakeUow struct {
	repo      *fakeChunkRepo
	committed bool
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { u.committed = true; return nil }
func (u *fakeUow) Rollback() error             { return nil }
func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.repo
}

type fakeUowFactory struct {
	mu   sync.Mutex
	repo *fakeChunkRepo
	last *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = &fakeUow{repo: f.repo}
	return f.last
}

type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) Generate(context.Context, string, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type nopJobs struct{}

func (nopJobs) PublishIndexJob(context.Context, session.IndexJob) error { return nil }

type indexFixture struct {
	consumer  *consumerService
	repo      *memory.SessionRepository
	chunks    *fakeChunkRepo
	uow       *fakeUowFactory
	publisher *recordingPublisher
}

func newIndexFixture(loader TextLoader, embedder fakeEmbedder) *indexFixture {
	log := logger.NewNopLogger()
	repo := memory.NewSessionRepository(time.Hour)
	manager := session.NewManager(repo, state.NewManager(log), nopJobs{}, log)
	chunks := &fakeChunkRepo{rows: map[uuid.UUID][]*entity.DocumentChunk{}}
	uow := &fakeUowFactory{repo: chunks}
	publisher := &recordingPublisher{}

	consumer := NewConsumerService(nil, "INDEX_DOCUMENT", uow, embedder, loader, manager, 2, publisher, log).(*consumerService)
	return &indexFixture{consumer: consumer, repo: repo, chunks: chunks, uow: uow, publisher: publisher}
}

func (f *indexFixture) queue(t *testing.T, owner, file string) (*store.Session, *message.Message) {
	t.Helper()
	sess := store.NewIndexingSession(owner, file, session.DocumentID(owner, file))
	f.repo.Replace(sess)
	payload, err := json.Marshal(session.IndexJob{
		SessionID:  sess.ID,
		Owner:      owner,
		File:       file,
		DocumentID: sess.DocumentID,
	})
	require.NoError(t, err)
	return sess, message.NewMessage(watermill.NewUUID(), payload)
}

func TestIndexJobMarksSessionReady(t *testing.T) {
	f := newIndexFixture(fakeLoader{text: textOf("first page", "", "third page")}, fakeEmbedder{})
	sess, msg := f.queue(t, "alice", "bio.pdf")

	f.consumer.processMessage(context.Background(), msg)

	assert.Equal(t, store.StateReady, sess.State())
	rows := f.chunks.rows[sess.DocumentID]
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].PageNumber)
	assert.Equal(t, 3, rows[1].PageNumber)
	assert.Equal(t, []uuid.UUID{sess.DocumentID}, f.chunks.deleted)
	assert.True(t, f.uow.last.committed)
	assert.Equal(t, []string{events.TypeDocumentIndexed}, f.publisher.types())

	searcher := NewChunkSearcher(f.uow)
	found, err := searcher.SearchSimilar(context.Background(), sess.DocumentID, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "first page", found[0].Content)
}

func TestIndexJobFailureSettlesSession(t *testing.T) {
	f := newIndexFixture(fakeLoader{text: textOf("page")}, fakeEmbedder{err: errors.New("embedding quota")})
	sess, msg := f.queue(t, "alice", "bio.pdf")

	f.consumer.processMessage(context.Background(), msg)

	assert.Equal(t, store.StateNoDocument, sess.State())
	err := sess.WaitReady(context.Background())
	assert.ErrorIs(t, err, store.ErrIndexingFailed)
	assert.Equal(t, []string{events.TypeDocumentIndexFailed}, f.publisher.types())
}

func TestIndexJobEmptyDocumentFails(t *testing.T) {
	f := newIndexFixture(fakeLoader{text: textOf("   ")}, fakeEmbedder{})
	sess, msg := f.queue(t, "alice", "scan.pdf")

	f.consumer.processMessage(context.Background(), msg)

	assert.Equal(t, store.StateNoDocument, sess.State())
	assert.Empty(t, f.chunks.deleted)
}

func TestStaleIndexJobIsSkipped(t *testing.T) {
	f := newIndexFixture(fakeLoader{text: textOf("page")}, fakeEmbedder{})
	stale, msg := f.queue(t, "alice", "bio.pdf")
	current, _ := f.queue(t, "alice", "chem.pdf")

	f.consumer.processMessage(context.Background(), msg)

	assert.Equal(t, store.StateIndexing, stale.State())
	assert.Equal(t, store.StateIndexing, current.State())
	assert.Empty(t, f.chunks.rows)
	assert.Empty(t, f.publisher.types())
}

func TestIndexJobReusesStoredChunks(t *testing.T) {
	f := newIndexFixture(fakeLoader{err: errors.New("should not load")}, fakeEmbedder{})
	sess, msg := f.queue(t, "alice", "bio.pdf")
	f.chunks.rows[sess.DocumentID] = []*entity.DocumentChunk{{DocumentId: sess.DocumentID, Content: "cached"}}

	f.consumer.processMessage(context.Background(), msg)

	assert.Equal(t, store.StateReady, sess.State())
	assert.Empty(t, f.chunks.deleted)
	assert.Equal(t, []string{events.TypeDocumentIndexed}, f.publisher.types())
}

// gatedLoader holds back the files in gates until their channel is closed and
// reports each load as it starts.
type gatedLoader struct {
	gates   map[string]chan struct{}
	started chan string
}

func (l gatedLoader) LoadText(ctx context.Context, _ string, file string) (document.Text, error) {
	l.started <- file
	if gate, ok := l.gates[file]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return document.Text{}, ctx.Err()
		}
	}
	return textOf("notes from " + file), nil
}

func TestSlowIndexJobDoesNotBlockOtherOwners(t *testing.T) {
	release := make(chan struct{})
	loader := gatedLoader{
		gates:   map[string]chan struct{}{"slow.pdf": release},
		started: make(chan string, 4),
	}
	f := newIndexFixture(loader, fakeEmbedder{})

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	f.consumer.subscriber = pubSub

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.consumer.Consume(ctx))

	slow, slowMsg := f.queue(t, "alice", "slow.pdf")
	fast, fastMsg := f.queue(t, "bob", "fast.pdf")

	require.NoError(t, pubSub.Publish("INDEX_DOCUMENT", slowMsg))
	assert.Equal(t, "slow.pdf", <-loader.started)
	require.NoError(t, pubSub.Publish("INDEX_DOCUMENT", fastMsg))

	require.NoError(t, fast.WaitReady(ctx))
	assert.Equal(t, store.StateIndexing, slow.State())

	close(release)
	require.NoError(t, slow.WaitReady(ctx))
	assert.Equal(t, store.StateReady, slow.State())
}

func TestConcurrentJobsForOneDocumentIndexOnce(t *testing.T) {
	f := newIndexFixture(fakeLoader{text: textOf("page")}, fakeEmbedder{})
	sess, first := f.queue(t, "alice", "bio.pdf")
	second := message.NewMessage(watermill.NewUUID(), first.Payload)

	var wg sync.WaitGroup
	for _, msg := range []*message.Message{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.consumer.processMessage(context.Background(), msg)
		}()
	}
	wg.Wait()

	assert.Equal(t, store.StateReady, sess.State())
	assert.Len(t, f.chunks.rows[sess.DocumentID], 1)
	assert.Len(t, f.chunks.deleted, 1)
}
