package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDeck creates a deck owned by ownerID.
func SeedDeck(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID) domain.Deck {
	t.Helper()

	deck := domain.Deck{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "Deck " + uniqueSuffix(),
		Description: "seeded",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO decks (id, owner_id, title, description, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		deck.ID, deck.OwnerID, deck.Title, deck.Description, deck.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeck: %v", err)
	}
	return deck
}

// SeedCards creates n cards in the deck at positions 0..n-1.
func SeedCards(t *testing.T, pool *pgxpool.Pool, deckID uuid.UUID, n int) []domain.Card {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	cards := make([]domain.Card, 0, n)
	for i := range n {
		c := domain.Card{
			ID:        uuid.New(),
			DeckID:    deckID,
			Front:     fmt.Sprintf("front-%d", i),
			Back:      fmt.Sprintf("back-%d", i),
			Position:  int64(i),
			CreatedAt: now,
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO cards (id, deck_id, front, back, example, position, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.DeckID, c.Front, c.Back, c.Example, c.Position, c.CreatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedCards: %v", err)
		}
		cards = append(cards, c)
	}
	return cards
}
