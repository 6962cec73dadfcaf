package practice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

// StartSession selects cards from the deck and registers a new session.
// A deck whose selection is empty yields a session that is already COMPLETE.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (*SessionView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.Count == 0 {
		input.Count = s.cfg.DefaultCount
	}
	if err := input.Validate(s.cfg.MaxCount); err != nil {
		return nil, err
	}

	if _, err := s.ownedDeck(ctx, userID, input.DeckID); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListByDeckID(ctx, input.DeckID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	known, err := s.stats.GetKnownCardIDs(ctx, input.DeckID)
	if err != nil {
		return nil, fmt.Errorf("get known cards: %w", err)
	}

	selected := s.selectCards(cards, known, SelectOptions{
		Filter:      input.Filter,
		Count:       input.Count,
		RandomOrder: input.RandomOrder,
	})

	session := NewSession(input.DeckID, userID, selected, input.Direction, s.clock.Now)
	s.sessions.Add(session)

	s.log.InfoContext(ctx, "practice session started",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", input.DeckID.String()),
		slog.String("session_id", session.ID.String()),
		slog.String("filter", input.Filter.String()),
		slog.Int("cards", session.Len()),
	)

	return newSessionView(session), nil
}

// GetSession returns a snapshot of a live session.
func (s *Service) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	return s.withSession(ctx, sessionID, func(*Session) error { return nil })
}

// StartQuestion shows the first question of the session.
func (s *Service) StartQuestion(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	return s.withSession(ctx, sessionID, func(sess *Session) error {
		return sess.StartQuestion()
	})
}

// Reveal shows the answer of the current card.
func (s *Service) Reveal(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	return s.withSession(ctx, sessionID, func(sess *Session) error {
		return sess.Reveal()
	})
}

// Mark records an outcome for the revealed card. When this completes the
// session, its results are folded into the deck statistics.
func (s *Service) Mark(ctx context.Context, input MarkInput) (*SessionView, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	return s.withSession(ctx, input.SessionID, func(sess *Session) error {
		if err := sess.Mark(input.Outcome); err != nil {
			return err
		}
		if !sess.IsComplete() {
			return nil
		}
		return s.record(ctx, sess)
	})
}

// FinishSession folds a complete session into deck stats if an earlier
// attempt failed. Calling it on an already recorded session is a no-op.
func (s *Service) FinishSession(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	return s.withSession(ctx, sessionID, func(sess *Session) error {
		if !sess.IsComplete() {
			return fmt.Errorf("finish with %d cards remaining: %w",
				sess.Progress().Remaining, domain.ErrInvalidSessionState)
		}
		return s.record(ctx, sess)
	})
}

// AbandonSession drops a session. Cards answered so far still count towards
// the deck statistics; a session with nothing answered leaves no trace.
func (s *Service) AbandonSession(ctx context.Context, sessionID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.sessions.With(sessionID, userID, func(sess *Session) error {
		if err := s.record(ctx, sess); err != nil {
			return err
		}
		s.sessions.Remove(sess.ID)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "practice session abandoned",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()),
	)
	return nil
}

func (s *Service) withSession(ctx context.Context, sessionID uuid.UUID, fn func(*Session) error) (*SessionView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if sessionID == uuid.Nil {
		return nil, domain.NewValidationError("session_id", "required")
	}

	var view *SessionView
	err := s.sessions.With(sessionID, userID, func(sess *Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		view = newSessionView(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// record appends the session to the deck stats once. The aggregator ignores
// records with nothing viewed, so empty sessions are dropped there.
func (s *Service) record(ctx context.Context, sess *Session) error {
	if sess.Recorded() {
		return nil
	}

	rec := sess.Record(s.cfg.Timezone)
	if err := s.stats.AppendSession(ctx, rec); err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	sess.markRecorded()

	s.log.InfoContext(ctx, "practice session recorded",
		slog.String("session_id", sess.ID.String()),
		slog.String("deck_id", sess.DeckID.String()),
		slog.Int("viewed", rec.Viewed),
		slog.Int("correct", rec.Correct),
		slog.Int64("duration_ms", rec.DurationMs),
	)
	return nil
}

// ownedDeck loads a deck and hides decks of other users behind ErrNotFound.
func (s *Service) ownedDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	if deck.OwnerID != userID {
		return nil, fmt.Errorf("deck %s: %w", deckID, domain.ErrNotFound)
	}
	return deck, nil
}
