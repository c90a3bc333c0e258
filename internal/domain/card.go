package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardContentEmpty is returned when a card's content is empty.
	ErrCardContentEmpty = errors.New("card content cannot be empty")

	// ErrCardLanguageEmpty is returned when a card's source language is empty.
	ErrCardLanguageEmpty = errors.New("card source language cannot be empty")
)

// Card represents a single vocabulary flashcard: a piece of text in the
// source language that the learner is asked to translate.
//
// UserTranslation is an optional author-supplied reference translation.
// When present, it is used verbatim as the reference during evaluation
// and no remote translation is requested.
type Card struct {
	ID              uuid.UUID `json:"id"`
	Content         string    `json:"content"`
	SourceLanguage  string    `json:"source_language"`
	Comment         string    `json:"comment,omitempty"`
	UserTranslation string    `json:"user_translation,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewCard creates a new Card with the given content and source language.
// It generates a new UUID for the card ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewCard(content, sourceLanguage string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:             uuid.New(),
		Content:        content,
		SourceLanguage: sourceLanguage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.Content == "" {
		return ErrCardContentEmpty
	}

	if c.SourceLanguage == "" {
		return ErrCardLanguageEmpty
	}

	return nil
}

// HasTags reports whether the card carries at least one tag.
func (c *Card) HasTags() bool {
	return len(c.Tags) > 0
}

// HasTag reports whether the card carries the given tag.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CardUpdate holds the mutable fields of a card. Nil pointers leave the
// corresponding field unchanged.
type CardUpdate struct {
	Content         *string
	Comment         *string
	UserTranslation *string
	Tags            *[]string
}

// Apply mutates the card with the non-nil fields of the update and
// refreshes the UpdatedAt timestamp. Returns an error if the resulting
// card would be invalid; the card is left unchanged in that case.
func (c *Card) Apply(update CardUpdate) error {
	orig := *c

	if update.Content != nil {
		c.Content = *update.Content
	}
	if update.Comment != nil {
		c.Comment = *update.Comment
	}
	if update.UserTranslation != nil {
		c.UserTranslation = *update.UserTranslation
	}
	if update.Tags != nil {
		c.Tags = *update.Tags
	}

	if err := c.Validate(); err != nil {
		*c = orig
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
