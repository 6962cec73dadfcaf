package practice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

// GetDeckStats returns the daily rollups of a deck together with a summary.
func (s *Service) GetDeckStats(ctx context.Context, input DeckStatsInput) (*domain.DeckStats, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.ownedDeck(ctx, userID, input.DeckID); err != nil {
		return nil, err
	}

	daily, err := s.stats.GetDailyStats(ctx, input.DeckID, input.Range)
	if err != nil {
		return nil, fmt.Errorf("get daily stats: %w", err)
	}

	known, err := s.stats.GetKnownCardIDs(ctx, input.DeckID)
	if err != nil {
		return nil, fmt.Errorf("get known cards: %w", err)
	}

	cards, err := s.cards.ListByDeckID(ctx, input.DeckID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	// The streak always ends today, whatever window the totals cover.
	history := daily
	if !input.Range.IsOpen() {
		if history, err = s.stats.GetDailyStats(ctx, input.DeckID, domain.DateRange{}); err != nil {
			return nil, fmt.Errorf("get daily history: %w", err)
		}
	}

	summary := summarize(daily)
	summary.Streak = calculateStreak(history, domain.DateOf(s.clock.Now(), s.cfg.Timezone))
	summary.TotalCards = len(cards)
	summary.KnownCount = lo.CountBy(cards, func(c domain.Card) bool { return known.Has(c.ID) })

	return &domain.DeckStats{
		DeckID:  input.DeckID,
		Daily:   daily,
		Summary: summary,
	}, nil
}

// GetKnownCardIDs returns a copy of the deck's known-card set.
func (s *Service) GetKnownCardIDs(ctx context.Context, deckID uuid.UUID) (domain.CardIDSet, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}

	known, err := s.stats.GetKnownCardIDs(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("get known cards: %w", err)
	}
	return known, nil
}

// SetCardKnown flags or unflags a card of the deck as known. Idempotent.
func (s *Service) SetCardKnown(ctx context.Context, input SetCardKnownInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := s.ownedDeck(ctx, userID, input.DeckID); err != nil {
		return err
	}

	cards, err := s.cards.ListByDeckID(ctx, input.DeckID)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}
	if !lo.ContainsBy(cards, func(c domain.Card) bool { return c.ID == input.CardID }) {
		return fmt.Errorf("card %s: %w", input.CardID, domain.ErrNotFound)
	}

	if err := s.stats.SetCardKnown(ctx, input.DeckID, input.CardID, input.Known); err != nil {
		return fmt.Errorf("set card known: %w", err)
	}

	s.log.InfoContext(ctx, "card known flag set",
		slog.String("deck_id", input.DeckID.String()),
		slog.String("card_id", input.CardID.String()),
		slog.Bool("known", input.Known),
	)
	return nil
}

// ResetDeckProgress forgets which cards of the deck are known.
// Daily history is kept: mastery state and session history are separate.
func (s *Service) ResetDeckProgress(ctx context.Context, deckID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return err
	}

	if err := s.stats.ResetDeckProgress(ctx, deckID); err != nil {
		return fmt.Errorf("reset deck progress: %w", err)
	}

	s.log.InfoContext(ctx, "deck progress reset",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
	)
	return nil
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// summarize totals daily rollups.
func summarize(daily []domain.DailyStats) domain.DeckSummary {
	var sum domain.DeckSummary
	var delay int64
	for _, d := range daily {
		sum.TotalSessions += d.Sessions
		sum.TotalViewed += d.Viewed
		sum.TotalCorrect += d.Correct
		sum.TotalRepeat += d.Repeat
		sum.TotalHard += d.Hard
		sum.TotalDurationMs += d.DurationMs
		delay += d.AnswerDelayMs
	}

	if sum.TotalViewed > 0 {
		sum.AccuracyRate = float64(sum.TotalCorrect) / float64(sum.TotalViewed) * 100
		sum.AvgAnswerDelayMs = delay / int64(sum.TotalViewed)
	}
	return sum
}

// calculateStreak counts consecutive practice days ending today, or
// yesterday when nothing was practiced yet today.
// daily must be sorted ASC by date; dates are midnight UTC.
func calculateStreak(daily []domain.DailyStats, today time.Time) int {
	if len(daily) == 0 {
		return 0
	}

	expected := today
	if !lo.ContainsBy(daily, func(d domain.DailyStats) bool { return d.Date.Equal(today) }) {
		expected = today.AddDate(0, 0, -1)
	}

	streak := 0
	for i := len(daily) - 1; i >= 0; i-- {
		d := daily[i]
		if d.Date.After(expected) {
			continue // future-dated rows never break the streak
		}
		if !d.Date.Equal(expected) || d.Sessions == 0 {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}
