package editor

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sprachvideo/backend/internal/apierr"
	"github.com/sprachvideo/backend/internal/logger"
)

// Manager owns the live editor sessions. Sessions are process-local: they
// hold un-persisted edits and die with the process, matching the original
// in-browser editing model.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	store    Store
	uploader Uploader
	log      *logger.Logger
}

func NewManager(store Store, uploader Uploader, baseLog *logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		store:    store,
		uploader: uploader,
		log:      baseLog.With("service", "EditorManager"),
	}
}

// Open creates a session and runs loadOrInit. topicID uuid.Nil means "new".
// Returns apierr.ErrStoreUnavailable when the store was never constructed;
// the caller must redirect away rather than hang.
func (m *Manager) Open(ctx context.Context, topicID uuid.UUID) (*Session, error) {
	if m.store == nil {
		return nil, apierr.ErrStoreUnavailable
	}
	s := newSession(m.store, m.uploader, m.log)
	if err := s.loadOrInit(ctx, topicID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.log.Debug("Opened editor session", "session_id", s.ID(), "topic_id", topicID)
	return s, nil
}

// Get returns the live session or apierr.ErrNotFound.
func (m *Manager) Get(sessionID uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, apierr.ErrNotFound
	}
	return s, nil
}

// Close removes a session. Uploads not confirmed by a save are logged as
// potential orphans; there is no compensating delete.
func (m *Manager) Close(sessionID uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if !ok {
		return
	}
	if pending := s.PendingUploads(); len(pending) > 0 {
		m.log.Warn("Closing editor session with unconfirmed uploads", "session_id", sessionID, "orphaned_urls", pending)
	}
}
