package practice

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Session drives one user through a fixed sequence of cards:
//
//	AWAITING_QUESTION -> AWAITING_REVEAL -> REVEALED -> AWAITING_REVEAL ... -> COMPLETE
//
// A Session is not safe for concurrent use. The Registry serializes access
// for callers that share sessions across goroutines.
type Session struct {
	ID        uuid.UUID
	DeckID    uuid.UUID
	UserID    uuid.UUID
	Direction domain.Direction
	StartedAt time.Time

	cards    []domain.Card
	position int
	state    domain.SessionState

	viewed  int
	correct int
	repeat  int
	hard    int

	knownDelta      domain.CardIDSet
	questionShownAt time.Time
	answerDelay     time.Duration
	lastMarkAt      time.Time
	recorded        bool

	now func() time.Time
}

// NewSession creates a session over cards. The slice is copied, so the
// caller's ordering cannot change under a running session. A session with
// no cards starts out COMPLETE.
func NewSession(deckID, userID uuid.UUID, cards []domain.Card, dir domain.Direction, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}

	s := &Session{
		ID:         uuid.New(),
		DeckID:     deckID,
		UserID:     userID,
		Direction:  dir,
		StartedAt:  now(),
		cards:      append([]domain.Card(nil), cards...),
		state:      domain.SessionStateAwaitingQuestion,
		knownDelta: domain.CardIDSet{},
		now:        now,
	}
	if len(s.cards) == 0 {
		s.state = domain.SessionStateComplete
	}
	return s
}

// State returns the current state.
func (s *Session) State() domain.SessionState { return s.state }

// Position returns the 0-based index of the current card.
func (s *Session) Position() int { return s.position }

// Len returns the number of cards in the session.
func (s *Session) Len() int { return len(s.cards) }

// IsComplete reports whether every card has been answered.
func (s *Session) IsComplete() bool { return s.position == len(s.cards) }

// CurrentCard returns the card at the current position.
func (s *Session) CurrentCard() (domain.Card, error) {
	if s.IsComplete() {
		return domain.Card{}, domain.ErrNoCurrentCard
	}
	return s.cards[s.position], nil
}

// KnownDelta returns a copy of the card IDs marked known during this session.
func (s *Session) KnownDelta() domain.CardIDSet { return s.knownDelta.Clone() }

// AnswerDelay returns the summed time between question shown and reveal.
func (s *Session) AnswerDelay() time.Duration { return s.answerDelay }

// StartQuestion shows the first question.
func (s *Session) StartQuestion() error {
	if err := s.expect("start question", domain.SessionStateAwaitingQuestion); err != nil {
		return err
	}
	s.questionShownAt = s.now()
	s.state = domain.SessionStateAwaitingReveal
	return nil
}

// Reveal shows the answer of the current card and accounts the answer delay.
func (s *Session) Reveal() error {
	if err := s.expect("reveal", domain.SessionStateAwaitingReveal); err != nil {
		return err
	}
	if delay := s.now().Sub(s.questionShownAt); delay > 0 {
		s.answerDelay += delay
	}
	s.state = domain.SessionStateRevealed
	return nil
}

// MarkKnow records that the user knew the current card.
func (s *Session) MarkKnow() error { return s.Mark(domain.OutcomeKnow) }

// MarkHard records that the current card was hard.
func (s *Session) MarkHard() error { return s.Mark(domain.OutcomeHard) }

// MarkRepeat records that the current card should be repeated.
func (s *Session) MarkRepeat() error { return s.Mark(domain.OutcomeRepeat) }

// Mark applies an outcome to the revealed card and advances to the next one.
// The known-delta is a local correction only: HARD and REPEAT drop a card that
// was marked KNOW earlier in the same session, the durable store is untouched.
func (s *Session) Mark(outcome domain.Outcome) error {
	if !outcome.IsValid() {
		return domain.NewValidationError("outcome", "must be KNOW, HARD, or REPEAT")
	}
	if err := s.expect("mark "+outcome.String(), domain.SessionStateRevealed); err != nil {
		return err
	}

	card := s.cards[s.position]
	switch outcome {
	case domain.OutcomeKnow:
		s.correct++
		s.knownDelta.Add(card.ID)
	case domain.OutcomeHard:
		s.hard++
		s.knownDelta.Remove(card.ID)
	case domain.OutcomeRepeat:
		s.repeat++
		s.knownDelta.Remove(card.ID)
	}
	s.viewed++
	s.position++
	s.lastMarkAt = s.now()

	if s.IsComplete() {
		s.state = domain.SessionStateComplete
		return nil
	}
	s.questionShownAt = s.now()
	s.state = domain.SessionStateAwaitingReveal
	return nil
}

// Record builds the stats contribution of the session. The duration ends at
// the last answered card, so a later retry or an idle abandon does not
// stretch it. The record date is the calendar date of StartedAt in loc.
func (s *Session) Record(loc *time.Location) domain.SessionRecord {
	end := s.now()
	if s.viewed > 0 {
		end = s.lastMarkAt
	}
	return domain.SessionRecord{
		DeckID:        s.DeckID,
		Date:          domain.DateOf(s.StartedAt, loc),
		Viewed:        s.viewed,
		Correct:       s.correct,
		Repeat:        s.repeat,
		Hard:          s.hard,
		DurationMs:    end.Sub(s.StartedAt).Milliseconds(),
		AnswerDelayMs: s.answerDelay.Milliseconds(),
		KnownDelta:    s.knownDelta.Clone(),
	}
}

// Recorded reports whether the session was already folded into deck stats.
func (s *Session) Recorded() bool { return s.recorded }

func (s *Session) markRecorded() { s.recorded = true }

func (s *Session) expect(op string, want domain.SessionState) error {
	if s.state != want {
		return fmt.Errorf("%s in state %s: %w", op, s.state, domain.ErrInvalidSessionState)
	}
	return nil
}
