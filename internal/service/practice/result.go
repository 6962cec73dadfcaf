package practice

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// SessionView is a read-only snapshot of a session for presentation.
type SessionView struct {
	ID        uuid.UUID
	DeckID    uuid.UUID
	State     domain.SessionState
	Direction domain.Direction
	StartedAt time.Time
	Card      *CardView
	Progress  domain.Progress
	Recorded  bool
}

// CardView is the current card seen through the session direction.
// Answer and Example are only set once the answer is revealed.
type CardView struct {
	ID       uuid.UUID
	Question string
	Answer   *string
	Example  *string
}

func newSessionView(s *Session) *SessionView {
	v := &SessionView{
		ID:        s.ID,
		DeckID:    s.DeckID,
		State:     s.State(),
		Direction: s.Direction,
		StartedAt: s.StartedAt,
		Progress:  s.Progress(),
		Recorded:  s.Recorded(),
	}

	// AWAITING_QUESTION hides the card until the first question is shown.
	if v.State == domain.SessionStateAwaitingQuestion {
		return v
	}

	card, err := s.CurrentCard()
	if err != nil {
		return v
	}

	question, answer := card.Sides(s.Direction)
	v.Card = &CardView{ID: card.ID, Question: question}
	if v.State == domain.SessionStateRevealed {
		v.Card.Answer = &answer
		v.Card.Example = card.Example
	}
	return v
}
