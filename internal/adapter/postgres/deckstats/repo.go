// Package deckstats implements the deck statistics aggregator on PostgreSQL.
// Daily rows are bumped with INSERT ... ON CONFLICT DO UPDATE, so concurrent
// sessions of the same deck and day never lose increments.
package deckstats

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

// Repo provides deck statistics persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Pool
	tx   *postgres.TxManager
}

// New creates a new deck statistics repository.
func New(pool postgres.Pool) *Repo {
	return &Repo{pool: pool, tx: postgres.NewTxManager(pool)}
}

const upsertDailySQL = `
INSERT INTO deck_daily_stats (deck_id, stat_date, session_count, viewed_count, correct_count,
                              repeat_count, hard_count, duration_ms, answer_delay_ms)
VALUES ($1, $2, 1, $3, $4, $5, $6, $7, $8)
ON CONFLICT (deck_id, stat_date) DO UPDATE SET
    session_count   = deck_daily_stats.session_count + 1,
    viewed_count    = deck_daily_stats.viewed_count + EXCLUDED.viewed_count,
    correct_count   = deck_daily_stats.correct_count + EXCLUDED.correct_count,
    repeat_count    = deck_daily_stats.repeat_count + EXCLUDED.repeat_count,
    hard_count      = deck_daily_stats.hard_count + EXCLUDED.hard_count,
    duration_ms     = deck_daily_stats.duration_ms + EXCLUDED.duration_ms,
    answer_delay_ms = deck_daily_stats.answer_delay_ms + EXCLUDED.answer_delay_ms`

// Card IDs outside the deck are skipped.
const addKnownSQL = `
INSERT INTO deck_known_cards (deck_id, card_id)
SELECT $1::uuid, c.id FROM cards c
WHERE c.deck_id = $1::uuid AND c.id = ANY($2::uuid[])
ON CONFLICT (deck_id, card_id) DO NOTHING`

const removeKnownSQL = `DELETE FROM deck_known_cards WHERE deck_id = $1 AND card_id = $2`

const resetKnownSQL = `DELETE FROM deck_known_cards WHERE deck_id = $1`

const knownIDsSQL = `SELECT card_id FROM deck_known_cards WHERE deck_id = $1`

type dailyRow struct {
	DeckID        uuid.UUID `db:"deck_id"`
	Date          time.Time `db:"stat_date"`
	Sessions      int       `db:"session_count"`
	Viewed        int       `db:"viewed_count"`
	Correct       int       `db:"correct_count"`
	Repeat        int       `db:"repeat_count"`
	Hard          int       `db:"hard_count"`
	DurationMs    int64     `db:"duration_ms"`
	AnswerDelayMs int64     `db:"answer_delay_ms"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// AppendSession folds one finished session into its daily row and merges its
// known delta into the deck's known set, in a single transaction.
// Records with nothing viewed are ignored.
func (r *Repo) AppendSession(ctx context.Context, rec domain.SessionRecord) error {
	if rec.Viewed <= 0 {
		return nil
	}
	date := domain.DateOf(rec.Date, time.UTC)

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		_, err := q.Exec(ctx, upsertDailySQL,
			rec.DeckID, date, rec.Viewed, rec.Correct, rec.Repeat, rec.Hard,
			rec.DurationMs, rec.AnswerDelayMs,
		)
		if err != nil {
			return fmt.Errorf("upsert daily stats: %w", err)
		}

		if len(rec.KnownDelta) == 0 {
			return nil
		}
		if _, err := q.Exec(ctx, addKnownSQL, rec.DeckID, rec.KnownDelta.Sorted()); err != nil {
			return fmt.Errorf("merge known cards: %w", err)
		}
		return nil
	})
	return domain.NewPersistenceError("append session", err)
}

// SetCardKnown adds or removes a card from the known set. Idempotent.
func (r *Repo) SetCardKnown(ctx context.Context, deckID, cardID uuid.UUID, known bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var err error
	if known {
		_, err = q.Exec(ctx, addKnownSQL, deckID, []uuid.UUID{cardID})
	} else {
		_, err = q.Exec(ctx, removeKnownSQL, deckID, cardID)
	}
	return domain.NewPersistenceError("set card known", err)
}

// ResetDeckProgress clears the known set. Daily rows are kept.
func (r *Repo) ResetDeckProgress(ctx context.Context, deckID uuid.UUID) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, resetKnownSQL, deckID)
	return domain.NewPersistenceError("reset deck progress", err)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetDailyStats returns the daily rows of a deck inside the inclusive range,
// ascending by date. A zero bound is open.
func (r *Repo) GetDailyStats(ctx context.Context, deckID uuid.UUID, dr domain.DateRange) ([]domain.DailyStats, error) {
	query := psql.
		Select("deck_id", "stat_date", "session_count", "viewed_count", "correct_count",
			"repeat_count", "hard_count", "duration_ms", "answer_delay_ms").
		From("deck_daily_stats").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("stat_date ASC")

	if !dr.From.IsZero() {
		query = query.Where(squirrel.GtOrEq{"stat_date": domain.DateOf(dr.From, time.UTC)})
	}
	if !dr.To.IsZero() {
		query = query.Where(squirrel.LtOrEq{"stat_date": domain.DateOf(dr.To, time.UTC)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build daily stats query: %w", err)
	}

	var rows []dailyRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, sql, args...); err != nil {
		return nil, domain.NewPersistenceError("get daily stats", err)
	}

	out := make([]domain.DailyStats, len(rows))
	for i, row := range rows {
		out[i] = toDomainDaily(row)
	}
	return out, nil
}

// GetKnownCardIDs returns the deck's known-card set. The set is a fresh copy.
func (r *Repo) GetKnownCardIDs(ctx context.Context, deckID uuid.UUID) (domain.CardIDSet, error) {
	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &ids, knownIDsSQL, deckID); err != nil {
		return nil, domain.NewPersistenceError("get known cards", err)
	}
	return domain.NewCardIDSet(ids...), nil
}

func toDomainDaily(row dailyRow) domain.DailyStats {
	return domain.DailyStats{
		DeckID:        row.DeckID,
		Date:          domain.DateOf(row.Date, time.UTC),
		Sessions:      row.Sessions,
		Viewed:        row.Viewed,
		Correct:       row.Correct,
		Repeat:        row.Repeat,
		Hard:          row.Hard,
		DurationMs:    row.DurationMs,
		AnswerDelayMs: row.AnswerDelayMs,
	}
}
