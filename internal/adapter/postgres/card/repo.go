// Package card implements the Card repository using PostgreSQL.
// Cards are ordered inside their deck by position.
package card

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Pool
}

// New creates a new card repository.
func New(pool postgres.Pool) *Repo {
	return &Repo{pool: pool}
}

const cardColumns = `id, deck_id, front, back, example, position, created_at`

const listByDeckIDSQL = `
SELECT ` + cardColumns + `
FROM cards
WHERE deck_id = $1
ORDER BY position ASC`

// The next position is derived in the same statement; a concurrent insert
// into the same deck fails on ux_cards_deck_position.
const createSQL = `
INSERT INTO cards (id, deck_id, front, back, example, position, created_at)
SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, COALESCE(MAX(position) + 1, 0), $6::timestamptz
FROM cards WHERE deck_id = $2::uuid
RETURNING ` + cardColumns

type cardRow struct {
	ID        uuid.UUID `db:"id"`
	DeckID    uuid.UUID `db:"deck_id"`
	Front     string    `db:"front"`
	Back      string    `db:"back"`
	Example   *string   `db:"example"`
	Position  int64     `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

// ListByDeckID returns all cards of a deck in deck order.
// An unknown deck yields an empty slice.
func (r *Repo) ListByDeckID(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	var rows []cardRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, listByDeckIDSQL, deckID); err != nil {
		return nil, postgres.MapError(err, "deck cards", deckID)
	}

	cards := make([]domain.Card, len(rows))
	for i, row := range rows {
		cards[i] = toDomainCard(row)
	}
	return cards, nil
}

// Create appends a card at the end of the deck.
func (r *Repo) Create(ctx context.Context, deckID uuid.UUID, front, back string, example *string) (*domain.Card, error) {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	var row cardRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, createSQL,
		id, deckID, front, back, example, now)
	if err != nil {
		return nil, postgres.MapError(err, "card", id)
	}

	c := toDomainCard(row)
	return &c, nil
}

func toDomainCard(row cardRow) domain.Card {
	return domain.Card{
		ID:        row.ID,
		DeckID:    row.DeckID,
		Front:     row.Front,
		Back:      row.Back,
		Example:   row.Example,
		Position:  row.Position,
		CreatedAt: row.CreatedAt,
	}
}
