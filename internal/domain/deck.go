package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deck is a named collection of flashcards owned by a user.
type Deck struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	CreatedAt   time.Time
}

// Card is a front/back flashcard belonging to a deck.
type Card struct {
	ID        uuid.UUID
	DeckID    uuid.UUID
	Front     string
	Back      string
	Example   *string
	Position  int64
	CreatedAt time.Time
}

// Sides returns the question and answer text of the card for the given direction.
func (c Card) Sides(dir Direction) (question, answer string) {
	if dir == DirectionBackToFront {
		return c.Back, c.Front
	}
	return c.Front, c.Back
}
