package deck

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

const (
	maxTitleLen = 200
	maxSideLen  = 2000
	maxPageSize = 200
)

// CreateDeckInput holds the parameters for creating a deck.
type CreateDeckInput struct {
	Title       string
	Description string
}

// Validate checks all fields and collects all errors.
func (i *CreateDeckInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if utf8.RuneCountInString(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListDecksInput holds paging parameters. Zero Limit means no limit.
type ListDecksInput struct {
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *ListDecksInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > maxPageSize {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AddCardInput holds the parameters for adding a card to a deck.
type AddCardInput struct {
	DeckID  uuid.UUID
	Front   string
	Back    string
	Example *string
}

// Validate checks all fields and collects all errors.
func (i *AddCardInput) Validate() error {
	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	if i.Front == "" {
		errs = append(errs, domain.FieldError{Field: "front", Message: "required"})
	} else if utf8.RuneCountInString(i.Front) > maxSideLen {
		errs = append(errs, domain.FieldError{Field: "front", Message: "too long"})
	}
	if i.Back == "" {
		errs = append(errs, domain.FieldError{Field: "back", Message: "required"})
	} else if utf8.RuneCountInString(i.Back) > maxSideLen {
		errs = append(errs, domain.FieldError{Field: "back", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
