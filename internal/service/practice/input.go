package practice

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// StartSessionInput holds the parameters for starting a practice session.
type StartSessionInput struct {
	DeckID      uuid.UUID
	Filter      domain.KnownFilter
	Direction   domain.Direction
	Count       int
	RandomOrder bool
}

// Validate checks all fields and collects all errors.
func (i *StartSessionInput) Validate(maxCount int) error {
	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	if !i.Filter.IsValid() {
		errs = append(errs, domain.FieldError{Field: "filter", Message: "must be ALL, KNOWN_ONLY, or UNKNOWN_ONLY"})
	}
	if !i.Direction.IsValid() {
		errs = append(errs, domain.FieldError{Field: "direction", Message: "must be FRONT_TO_BACK or BACK_TO_FRONT"})
	}
	if i.Count < 0 {
		errs = append(errs, domain.FieldError{Field: "count", Message: "must be non-negative"})
	}
	if maxCount > 0 && i.Count > maxCount {
		errs = append(errs, domain.FieldError{Field: "count", Message: "exceeds maximum session size"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// MarkInput holds the parameters for recording an outcome.
type MarkInput struct {
	SessionID uuid.UUID
	Outcome   domain.Outcome
}

// Validate checks all fields and collects all errors.
func (i *MarkInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if !i.Outcome.IsValid() {
		errs = append(errs, domain.FieldError{Field: "outcome", Message: "must be KNOW, HARD, or REPEAT"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SetCardKnownInput holds the parameters for toggling a card's known flag.
type SetCardKnownInput struct {
	DeckID uuid.UUID
	CardID uuid.UUID
	Known  bool
}

// Validate checks all fields and collects all errors.
func (i *SetCardKnownInput) Validate() error {
	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DeckStatsInput holds the parameters for reading deck statistics.
type DeckStatsInput struct {
	DeckID uuid.UUID
	Range  domain.DateRange
}

// Validate checks all fields and collects all errors.
func (i *DeckStatsInput) Validate() error {
	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	if !i.Range.From.IsZero() && !i.Range.To.IsZero() && i.Range.To.Before(i.Range.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not be before from"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
