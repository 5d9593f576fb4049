package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-pdfstudy-be/pkg/conversation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewIndexingSession("alice", "bio.pdf", uuid.New())
	assert.Equal(t, StateIndexing, s.State())

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.MarkReady()
	}()

	require.NoError(t, s.WaitReady(context.Background()))
	assert.Equal(t, StateReady, s.State())
	assert.False(t, s.MarkFailed(errors.New("late")), "settled sessions ignore later transitions")
	assert.Equal(t, StateReady, s.State())
}

func TestSessionFailure(t *testing.T) {
	s := NewIndexingSession("alice", "bio.pdf", uuid.New())
	boom := errors.New("embedding quota")

	require.True(t, s.MarkFailed(boom))

	err := s.WaitReady(context.Background())
	assert.ErrorIs(t, err, ErrIndexingFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateNoDocument, s.State())
	assert.Equal(t, "embedding quota", s.Snapshot().Error)
}

func TestSessionWaitHonoursContext(t *testing.T) {
	s := NewIndexingSession("alice", "bio.pdf", uuid.New())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.WaitReady(ctx), context.DeadlineExceeded)
}

func TestRunTurnCommitsOnlyOnRequest(t *testing.T) {
	s := NewSession("alice")
	assert.Equal(t, StateNoDocument, s.State())

	s.RunTurn(func(w conversation.Window) (conversation.Window, bool) {
		return w.Append(conversation.Turn{QueryTokens: 5}), false
	})
	assert.Equal(t, 0, s.Window().Len())

	s.RunTurn(func(w conversation.Window) (conversation.Window, bool) {
		return w.Append(conversation.Turn{QueryTokens: 5, AnswerTokens: 7}), true
	})
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Turns)
	assert.Equal(t, 12, snap.WindowTotal)
}
