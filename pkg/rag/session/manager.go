package session

import (
	"context"
	"errors"
	"fmt"

	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/internal/repository/memory"
	"ai-pdfstudy-be/pkg/rag/state"
	"ai-pdfstudy-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrNoDocumentSelected = errors.New("no document has been selected for questions")
	ErrDocumentIndexing   = errors.New("the selected document is still being indexed")
)

// documentNamespace scopes document ids derived from owner and file name.
var documentNamespace = uuid.MustParse("5b8e2f0c-6f0e-4f63-9d55-3f4f1a2f6a11")

// IndexJob asks the indexing worker to build the vector index for a selection.
type IndexJob struct {
	SessionID  string    `json:"sessionId"`
	Owner      string    `json:"owner"`
	File       string    `json:"file"`
	DocumentID uuid.UUID `json:"documentId"`
}

type JobPublisher interface {
	PublishIndexJob(ctx context.Context, job IndexJob) error
}

// Manager owns the per-owner question-answering sessions
type Manager struct {
	sessionRepo *memory.SessionRepository
	states      *state.Manager
	publisher   JobPublisher
	logger      logger.ILogger
}

func NewManager(sessionRepo *memory.SessionRepository, states *state.Manager, publisher JobPublisher, log logger.ILogger) *Manager {
	return &Manager{
		sessionRepo: sessionRepo,
		states:      states,
		publisher:   publisher,
		logger:      log,
	}
}

// DocumentID is stable for an owner and file name, so re-selecting a file
// finds the index rows written the first time.
func DocumentID(owner, file string) uuid.UUID {
	return uuid.NewSHA1(documentNamespace, []byte(owner+"/"+file))
}

// Select replaces the owner's session with one for file and blocks until the
// index is built, indexing fails, or ctx ends. The previous conversation is
// discarded either way.
func (m *Manager) Select(ctx context.Context, owner, file string) (*store.Session, error) {
	sess := store.NewIndexingSession(owner, file, DocumentID(owner, file))
	if old, replaced := m.sessionRepo.Replace(sess); replaced {
		m.logger.Info("SESSION", "Replaced active session", map[string]interface{}{
			"owner":    owner,
			"previous": old.File,
			"turns":    old.Window().Len(),
		})
	}

	job := IndexJob{
		SessionID:  sess.ID,
		Owner:      owner,
		File:       file,
		DocumentID: sess.DocumentID,
	}
	if err := m.publisher.PublishIndexJob(ctx, job); err != nil {
		m.states.TransitionToFailed(sess, err)
		return nil, fmt.Errorf("queue index job: %w", err)
	}

	if err := sess.WaitReady(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// Current returns the owner's session, or a fresh NoDocument session.
func (m *Manager) Current(owner string) *store.Session {
	if sess, ok := m.sessionRepo.Get(owner); ok {
		return sess
	}
	return store.NewSession(owner)
}

// RequireReady returns the owner's session if questions can be asked now.
func (m *Manager) RequireReady(owner string) (*store.Session, error) {
	sess, ok := m.sessionRepo.Get(owner)
	if !ok {
		return nil, ErrNoDocumentSelected
	}
	switch sess.State() {
	case store.StateReady:
		m.sessionRepo.Touch(sess)
		return sess, nil
	case store.StateIndexing:
		return nil, ErrDocumentIndexing
	default:
		return nil, ErrNoDocumentSelected
	}
}

// Lookup finds the session a job was queued for. ok is false when the owner
// has since selected another document, making the job stale.
func (m *Manager) Lookup(job IndexJob) (*store.Session, bool) {
	sess, found := m.sessionRepo.Get(job.Owner)
	if !found || sess.ID != job.SessionID {
		return nil, false
	}
	return sess, true
}

func (m *Manager) MarkIndexed(sess *store.Session, chunks int) bool {
	return m.states.TransitionToReady(sess, chunks)
}

func (m *Manager) MarkFailed(sess *store.Session, err error) bool {
	return m.states.TransitionToFailed(sess, err)
}
