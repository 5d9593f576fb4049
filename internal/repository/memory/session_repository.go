package memory

import (
	"sync"
	"time"

	"ai-pdfstudy-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds the active question-answering session per owner.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Get(owner string) (*store.Session, bool) {
	if x, found := r.cache.Get(owner); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Replace installs session as the owner's active session and returns the one
// it displaced, if any.
func (r *SessionRepository) Replace(session *store.Session) (*store.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, found := r.Get(session.Owner)
	r.cache.Set(session.Owner, session, cache.DefaultExpiration)
	return old, found
}

// IsCurrent reports whether sessionID is still the owner's active session.
func (r *SessionRepository) IsCurrent(owner, sessionID string) bool {
	current, found := r.Get(owner)
	return found && current.ID == sessionID
}

// Touch extends the expiry of the owner's session.
func (r *SessionRepository) Touch(session *store.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, found := r.Get(session.Owner); found && current.ID == session.ID {
		r.cache.Set(session.Owner, session, cache.DefaultExpiration)
	}
}

func (r *SessionRepository) Delete(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(owner)
}
