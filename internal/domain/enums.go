package domain

// KnownFilter restricts card selection by the deck's known-card set.
type KnownFilter string

const (
	KnownFilterAll         KnownFilter = "ALL"
	KnownFilterKnownOnly   KnownFilter = "KNOWN_ONLY"
	KnownFilterUnknownOnly KnownFilter = "UNKNOWN_ONLY"
)

func (f KnownFilter) String() string { return string(f) }

func (f KnownFilter) IsValid() bool {
	switch f {
	case KnownFilterAll, KnownFilterKnownOnly, KnownFilterUnknownOnly:
		return true
	}
	return false
}

// Direction selects which side of a card is asked as the question.
type Direction string

const (
	DirectionFrontToBack Direction = "FRONT_TO_BACK"
	DirectionBackToFront Direction = "BACK_TO_FRONT"
)

func (d Direction) String() string { return string(d) }

func (d Direction) IsValid() bool {
	switch d {
	case DirectionFrontToBack, DirectionBackToFront:
		return true
	}
	return false
}

// SessionState is the position of a practice session in its state machine.
type SessionState string

const (
	SessionStateAwaitingQuestion SessionState = "AWAITING_QUESTION"
	SessionStateAwaitingReveal   SessionState = "AWAITING_REVEAL"
	SessionStateRevealed         SessionState = "REVEALED"
	SessionStateComplete         SessionState = "COMPLETE"
)

func (s SessionState) String() string { return string(s) }

func (s SessionState) IsValid() bool {
	switch s {
	case SessionStateAwaitingQuestion, SessionStateAwaitingReveal, SessionStateRevealed, SessionStateComplete:
		return true
	}
	return false
}

// Outcome is the user's self-assessment after an answer is revealed.
type Outcome string

const (
	OutcomeKnow   Outcome = "KNOW"
	OutcomeHard   Outcome = "HARD"
	OutcomeRepeat Outcome = "REPEAT"
)

func (o Outcome) String() string { return string(o) }

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeKnow, OutcomeHard, OutcomeRepeat:
		return true
	}
	return false
}
