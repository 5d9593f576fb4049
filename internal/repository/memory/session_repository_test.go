package memory

import (
	"testing"
	"time"

	"ai-pdfstudy-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceSwapsActiveSession(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	first := store.NewIndexingSession("alice", "a.pdf", uuid.New())
	_, found := repo.Replace(first)
	assert.False(t, found)

	second := store.NewIndexingSession("alice", "b.pdf", uuid.New())
	old, found := repo.Replace(second)
	require.True(t, found)
	assert.Same(t, first, old)

	current, ok := repo.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "b.pdf", current.File)
	assert.True(t, repo.IsCurrent("alice", second.ID))
	assert.False(t, repo.IsCurrent("alice", first.ID))
}

func TestSessionsAreIsolatedPerOwner(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	repo.Replace(store.NewSession("alice"))
	repo.Replace(store.NewSession("bob"))

	repo.Delete("alice")

	_, ok := repo.Get("alice")
	assert.False(t, ok)
	_, ok = repo.Get("bob")
	assert.True(t, ok)
}
