package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/internal/repository/memory"
	"ai-pdfstudy-be/pkg/conversation"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/rag/session"
	"ai-pdfstudy-be/pkg/rag/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instantIndexer settles every index job as soon as it is queued.
type instantIndexer struct {
	manager *session.Manager
	fail    error
}

func (p *instantIndexer) PublishIndexJob(_ context.Context, job session.IndexJob) error {
	sess, ok := p.manager.Lookup(job)
	if !ok {
		return nil
	}
	if p.fail != nil {
		p.manager.MarkFailed(sess, p.fail)
		return nil
	}
	p.manager.MarkIndexed(sess, 1)
	return nil
}

type fakeAnswerer struct {
	answer  string
	err     error
	history []llm.Message
}

func (f *fakeAnswerer) Answer(_ context.Context, _ uuid.UUID, history []llm.Message, _ string) (string, error) {
	f.history = history
	return f.answer, f.err
}

type chatFixture struct {
	service   IChatbotService
	sessions  *session.Manager
	indexer   *instantIndexer
	answerer  *fakeAnswerer
	publisher *recordingPublisher
}

func newChatFixture(maxTokens int) *chatFixture {
	log := logger.NewNopLogger()
	indexer := &instantIndexer{}
	sessions := session.NewManager(memory.NewSessionRepository(time.Hour), state.NewManager(log), indexer, log)
	indexer.manager = sessions

	answerer := &fakeAnswerer{answer: "x y"}
	publisher := &recordingPublisher{}
	budget := conversation.NewManager(wordCounter{}, maxTokens)

	return &chatFixture{
		service:   NewChatbotService(sessions, budget, answerer, publisher, log),
		sessions:  sessions,
		indexer:   indexer,
		answerer:  answerer,
		publisher: publisher,
	}
}

func TestGetModelResponseRequiresSelection(t *testing.T) {
	f := newChatFixture(20)

	_, err := f.service.GetModelResponse(context.Background(), &dto.ModelResponseRequest{Username: "alice", Query: "hi"})
	assert.ErrorIs(t, err, session.ErrNoDocumentSelected)
}

func TestSelectDocumentFailure(t *testing.T) {
	f := newChatFixture(20)
	f.indexer.fail = errors.New("extraction failed")

	_, err := f.service.SelectDocument(context.Background(), "alice", "bio.pdf")
	require.Error(t, err)

	snap, err := f.service.GetSession(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "NO_DOCUMENT", string(snap.State))
	assert.Contains(t, snap.Error, "extraction failed")
}

func TestGetModelResponseCommitsTurn(t *testing.T) {
	f := newChatFixture(20)
	ctx := context.Background()

	res, err := f.service.SelectDocument(ctx, "alice", "bio.pdf")
	require.NoError(t, err)
	assert.Equal(t, "OK", res.Status)

	out, err := f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{Username: "alice", Query: "a b c"})
	require.NoError(t, err)
	assert.Equal(t, "x y", out.Response)
	assert.Equal(t, 5, out.UsedTokens)
	assert.Nil(t, out.UpdatedHistory)

	snap, _ := f.service.GetSession(ctx, "alice")
	assert.Equal(t, 1, snap.Turns)
	assert.Equal(t, 5, snap.WindowTotal)
}

func TestGetModelResponseFailureLeavesWindow(t *testing.T) {
	f := newChatFixture(20)
	ctx := context.Background()
	_, err := f.service.SelectDocument(ctx, "alice", "bio.pdf")
	require.NoError(t, err)

	f.answerer.err = errors.New("model unavailable")
	out, err := f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{Username: "alice", Query: "a b c", UsedTokens: 7})
	require.NoError(t, err)
	assert.Equal(t, FailedAnswer, out.Response)
	assert.Equal(t, 7, out.UsedTokens)
	assert.Nil(t, out.UpdatedHistory)

	snap, _ := f.service.GetSession(ctx, "alice")
	assert.Equal(t, 0, snap.Turns)
}

func TestGetModelResponseTruncates(t *testing.T) {
	f := newChatFixture(20)
	ctx := context.Background()
	_, err := f.service.SelectDocument(ctx, "alice", "bio.pdf")
	require.NoError(t, err)

	_, err = f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{Username: "alice", Query: "a b c"})
	require.NoError(t, err)

	out, err := f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{
		Username:   "alice",
		Query:      "d e f",
		History:    conversation.History{User: []string{"a b c"}, Bot: []string{"x y"}},
		UsedTokens: 18,
	})
	require.NoError(t, err)

	// 18 + 3 overflows 20, so the first turn (5) is evicted: 13 + 3 + 2.
	assert.Equal(t, 18, out.UsedTokens)
	require.NotNil(t, out.UpdatedHistory)
	assert.Equal(t, 0, out.UpdatedHistory.Len())
	assert.Empty(t, f.answerer.history)
	assert.Contains(t, f.publisher.types(), events.TypeConversationTruncated)

	snap, _ := f.service.GetSession(ctx, "alice")
	assert.Equal(t, 1, snap.Turns)
}

func TestGetModelResponseClientErrors(t *testing.T) {
	f := newChatFixture(20)
	ctx := context.Background()
	_, err := f.service.SelectDocument(ctx, "alice", "bio.pdf")
	require.NoError(t, err)

	_, err = f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{
		Username: "alice",
		Query:    strings.Repeat("w ", 25),
	})
	assert.True(t, conversation.IsCapacityError(err))

	_, err = f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{
		Username: "alice",
		Query:    "a",
		History:  conversation.History{User: []string{"one"}},
	})
	assert.ErrorIs(t, err, conversation.ErrHistoryMisaligned)

	_, err = f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{
		Username: "alice",
		Query:    "a",
		History:  conversation.History{User: []string{"one"}, Bot: []string{"two"}},
	})
	assert.ErrorIs(t, err, conversation.ErrHistoryWindowMismatch)

	snap, _ := f.service.GetSession(ctx, "alice")
	assert.Equal(t, 0, snap.Turns)
}

func TestSelectDocumentResetsConversation(t *testing.T) {
	f := newChatFixture(20)
	ctx := context.Background()
	_, err := f.service.SelectDocument(ctx, "alice", "bio.pdf")
	require.NoError(t, err)
	_, err = f.service.GetModelResponse(ctx, &dto.ModelResponseRequest{Username: "alice", Query: "a b c"})
	require.NoError(t, err)

	_, err = f.service.SelectDocument(ctx, "alice", "chem.pdf")
	require.NoError(t, err)

	snap, _ := f.service.GetSession(ctx, "alice")
	assert.Equal(t, "chem.pdf", snap.File)
	assert.Equal(t, 0, snap.Turns)
}
