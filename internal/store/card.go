package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
)

// CardFilter narrows the result of CardStore.List.
//
// Tag matching uses OR semantics: a card matches when it carries any of
// the requested tags, or when it has no tags at all and IncludeUntagged
// is set. With no Tags and IncludeUntagged false, every card for the
// language matches.
type CardFilter struct {
	SourceLanguage  string
	Tags            []string
	IncludeUntagged bool
	Limit           int // 0 means no limit
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Save persists the full card record, inserting or overwriting by ID
	// (whole-record write-back, last write wins).
	// Returns ErrInvalidEntity wrapping the validation error if the card
	// is invalid.
	Save(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// List retrieves the cards matching the filter, ordered by creation
	// time. Returns an empty slice (not an error) when nothing matches.
	List(ctx context.Context, filter CardFilter) ([]*domain.Card, error)
}
