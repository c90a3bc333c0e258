package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// MockCardStore implements store.CardStore for testing. By default it
// behaves as an in-memory store; individual methods can be overridden
// via the Fn fields.
type MockCardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Card

	SaveFn    func(ctx context.Context, card *domain.Card) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListFn    func(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error)

	SaveCalls int
	ListCalls int
}

// NewMockCardStore creates an empty in-memory card store.
func NewMockCardStore() *MockCardStore {
	return &MockCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

// Ensure MockCardStore implements store.CardStore
var _ store.CardStore = (*MockCardStore)(nil)

// Save implements store.CardStore.Save.
func (m *MockCardStore) Save(ctx context.Context, card *domain.Card) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(ctx, card)
	}

	if err := card.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *card
	m.cards[card.ID] = &copied
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

// List implements store.CardStore.List with the same filter semantics
// as the real store: language match, OR-tag match, optional untagged.
func (m *MockCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*domain.Card
	for _, card := range m.cards {
		if card.SourceLanguage != filter.SourceLanguage {
			continue
		}
		if len(filter.Tags) > 0 || filter.IncludeUntagged {
			matched := filter.IncludeUntagged && !card.HasTags()
			for _, tag := range filter.Tags {
				if card.HasTag(tag) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		copied := *card
		result = append(result, &copied)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}
