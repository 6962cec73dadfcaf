// Package deck implements the Deck repository using PostgreSQL.
package deck

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides deck persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Pool
}

// New creates a new deck repository.
func New(pool postgres.Pool) *Repo {
	return &Repo{pool: pool}
}

const deckColumns = `id, owner_id, title, description, created_at`

const getByIDSQL = `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

const createSQL = `
INSERT INTO decks (id, owner_id, title, description, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + deckColumns

type deckRow struct {
	ID          uuid.UUID `db:"id"`
	OwnerID     uuid.UUID `db:"owner_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// GetByID returns a deck by primary key.
func (r *Repo) GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	var row deckRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, getByIDSQL, deckID); err != nil {
		return nil, postgres.MapError(err, "deck", deckID)
	}

	d := toDomainDeck(row)
	return &d, nil
}

// Create inserts a new deck and returns it as stored.
func (r *Repo) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Deck, error) {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	var row deckRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, createSQL,
		id, ownerID, title, description, now)
	if err != nil {
		return nil, postgres.MapError(err, "deck", id)
	}

	d := toDomainDeck(row)
	return &d, nil
}

// ListByOwner returns the decks of a user, newest first.
// limit <= 0 returns every deck.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Deck, error) {
	query := psql.
		Select("id", "owner_id", "title", "description", "created_at").
		From("decks").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC", "id")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list decks query: %w", err)
	}

	var rows []deckRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list decks by owner: %w", err)
	}

	decks := make([]domain.Deck, len(rows))
	for i, row := range rows {
		decks[i] = toDomainDeck(row)
	}
	return decks, nil
}

func toDomainDeck(row deckRow) domain.Deck {
	return domain.Deck{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}
