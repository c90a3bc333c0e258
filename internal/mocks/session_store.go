package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// MockSessionStore implements store.SessionStore for testing, with
// in-memory default behavior and overridable function fields.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session

	SaveFn    func(ctx context.Context, session *domain.Session) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	SaveCalls int
}

// NewMockSessionStore creates an empty in-memory session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[uuid.UUID]*domain.Session)}
}

// Ensure MockSessionStore implements store.SessionStore
var _ store.SessionStore = (*MockSessionStore)(nil)

// Save implements store.SessionStore.Save.
func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(ctx, session)
	}

	if err := session.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

// GetByID implements store.SessionStore.GetByID.
func (m *MockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// cloneSession deep-copies a session so callers cannot mutate the
// stored record without going through Save.
func cloneSession(s *domain.Session) *domain.Session {
	copied := *s
	copied.CardIDs = append([]uuid.UUID(nil), s.CardIDs...)
	copied.Responses = append([]domain.Response(nil), s.Responses...)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		copied.CompletedAt = &t
	}
	return &copied
}
