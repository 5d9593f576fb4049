package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"ai-pdfstudy-be/pkg/conversation"

	"github.com/google/uuid"
)

type State string

const (
	StateNoDocument State = "NO_DOCUMENT"
	StateIndexing   State = "INDEXING"
	StateReady      State = "READY"
)

var ErrIndexingFailed = errors.New("document indexing failed")

// Session is one owner's question-answering context: the selected document,
// its indexing state and the conversation window. A new selection replaces
// the whole session, which resets the conversation.
type Session struct {
	ID         string
	Owner      string
	File       string
	DocumentID uuid.UUID
	CreatedAt  time.Time

	stateMu sync.RWMutex
	state   State
	failure error
	ready   chan struct{}
	once    sync.Once

	turnMu sync.Mutex
	window conversation.Window
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	File        string    `json:"file"`
	State       State     `json:"state"`
	Error       string    `json:"error,omitempty"`
	Turns       int       `json:"turns"`
	WindowTotal int       `json:"windowTokens"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewSession(owner string) *Session {
	s := newSession(owner)
	s.state = StateNoDocument
	return s
}

// NewIndexingSession starts a session for file whose index is being built.
func NewIndexingSession(owner, file string, documentID uuid.UUID) *Session {
	s := newSession(owner)
	s.File = file
	s.DocumentID = documentID
	s.state = StateIndexing
	return s
}

func newSession(owner string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: time.Now(),
		ready:     make(chan struct{}),
		window:    conversation.NewWindow(),
	}
}

func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// MarkReady moves an indexing session to Ready. It returns false if the
// session already settled.
func (s *Session) MarkReady() bool {
	return s.settle(StateReady, nil)
}

// MarkFailed drops the session back to NoDocument and records why.
func (s *Session) MarkFailed(err error) bool {
	if err == nil {
		err = ErrIndexingFailed
	}
	return s.settle(StateNoDocument, err)
}

func (s *Session) settle(state State, failure error) bool {
	settled := false
	s.once.Do(func() {
		s.stateMu.Lock()
		s.state = state
		s.failure = failure
		s.stateMu.Unlock()
		close(s.ready)
		settled = true
	})
	return settled
}

// WaitReady blocks until indexing settles or ctx is done.
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.failure != nil {
		return errors.Join(ErrIndexingFailed, s.failure)
	}
	return nil
}

// Window returns the committed conversation window.
func (s *Session) Window() conversation.Window {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	return s.window
}

// RunTurn runs fn with exclusive access to the conversation window. The window
// fn returns is committed only when commit is true.
func (s *Session) RunTurn(fn func(window conversation.Window) (next conversation.Window, commit bool)) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	if next, commit := fn(s.window); commit {
		s.window = next
	}
}

func (s *Session) Snapshot() Snapshot {
	window := s.Window()

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	snap := Snapshot{
		ID:          s.ID,
		Owner:       s.Owner,
		File:        s.File,
		State:       s.state,
		Turns:       window.Len(),
		WindowTotal: window.Total(),
		CreatedAt:   s.CreatedAt,
	}
	if s.failure != nil {
		snap.Error = s.failure.Error()
	}
	return snap
}
