package state

import (
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/store"
)

// Manager applies and logs session state transitions
type Manager struct {
	logger logger.ILogger
}

func NewManager(log logger.ILogger) *Manager {
	return &Manager{logger: log}
}

// TransitionToReady marks an indexed session as ready for questions
func (m *Manager) TransitionToReady(session *store.Session, chunks int) bool {
	if !session.MarkReady() {
		return false
	}
	m.logger.Info("SESSION", "Transitioned to READY", map[string]interface{}{
		"owner":   session.Owner,
		"file":    session.File,
		"session": session.ID,
		"chunks":  chunks,
	})
	return true
}

// TransitionToFailed drops a session back to NO_DOCUMENT after indexing failed
func (m *Manager) TransitionToFailed(session *store.Session, err error) bool {
	if !session.MarkFailed(err) {
		return false
	}
	m.logger.Warn("SESSION", "Indexing failed, back to NO_DOCUMENT", map[string]interface{}{
		"owner":   session.Owner,
		"file":    session.File,
		"session": session.ID,
		"error":   err.Error(),
	})
	return true
}
