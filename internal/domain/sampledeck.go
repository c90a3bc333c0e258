package domain

import (
	"time"

	"github.com/google/uuid"
)

// sampleDeckNamespace is the UUID namespace for built-in sample cards.
// Sample card IDs are derived from language and content so the same
// sample card always maps to the same ID across runs, letting the
// selector upsert them idempotently.
var sampleDeckNamespace = uuid.MustParse("6f1c24bc-9b6e-4a2d-8a63-5f0d9f2b7c11")

type sampleEntry struct {
	content     string
	language    string
	translation string
	tags        []string
}

// The bundled starter deck. Kept small on purpose: it exists so a new
// install can run a session before any cards have been authored.
var sampleEntries = []sampleEntry{
	{"hello", "en", "hallo", []string{"greeting"}},
	{"goodbye", "en", "auf Wiedersehen", []string{"greeting"}},
	{"thank you", "en", "danke", []string{"politeness"}},
	{"the house", "en", "das Haus", []string{"building"}},
	{"the dog", "en", "der Hund", []string{"animal"}},
	{"the cat", "en", "die Katze", []string{"animal"}},
	{"I would like to order a coffee", "en", "ich möchte einen Kaffee bestellen", nil},
	{"where is the train station?", "en", "wo ist der Bahnhof?", []string{"travel"}},
	{"guten Morgen", "de", "good morning", []string{"greeting"}},
	{"das Buch", "de", "the book", nil},
	{"die Katze schläft", "de", "the cat is sleeping", []string{"animal"}},
	{"bonjour", "fr", "hello", []string{"greeting"}},
	{"merci beaucoup", "fr", "thank you very much", []string{"politeness"}},
	{"le chien", "fr", "the dog", []string{"animal"}},
}

// SampleCards returns the bundled starter cards whose source language
// matches the given language. The order is fixed, so truncating the
// result is deterministic. The returned cards are fresh copies; their
// IDs are stable across calls.
func SampleCards(sourceLanguage string) []*Card {
	now := time.Now().UTC()
	var cards []*Card
	for _, e := range sampleEntries {
		if e.language != sourceLanguage {
			continue
		}
		cards = append(cards, &Card{
			ID:              uuid.NewSHA1(sampleDeckNamespace, []byte(e.language+"\x00"+e.content)),
			Content:         e.content,
			SourceLanguage:  e.language,
			UserTranslation: e.translation,
			Tags:            append([]string(nil), e.tags...),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return cards
}
