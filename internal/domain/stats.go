package domain

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
)

// CardIDSet is a set of card identifiers.
type CardIDSet map[uuid.UUID]struct{}

// NewCardIDSet builds a set from the given IDs.
func NewCardIDSet(ids ...uuid.UUID) CardIDSet {
	s := make(CardIDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s CardIDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s CardIDSet) Add(id uuid.UUID) { s[id] = struct{}{} }

func (s CardIDSet) Remove(id uuid.UUID) { delete(s, id) }

// Clone returns an independent copy. A nil set clones to an empty set.
func (s CardIDSet) Clone() CardIDSet {
	out := make(CardIDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the IDs in byte order, for stable output.
func (s CardIDSet) Sorted() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

// DailyStats is the rollup of all sessions run against one deck on one date.
type DailyStats struct {
	DeckID        uuid.UUID
	Date          time.Time
	Sessions      int
	Viewed        int
	Correct       int
	Repeat        int
	Hard          int
	DurationMs    int64
	AnswerDelayMs int64
}

// Add folds one session record into the rollup.
func (d *DailyStats) Add(r SessionRecord) {
	d.Sessions++
	d.Viewed += r.Viewed
	d.Correct += r.Correct
	d.Repeat += r.Repeat
	d.Hard += r.Hard
	d.DurationMs += r.DurationMs
	d.AnswerDelayMs += r.AnswerDelayMs
}

// SessionRecord is what a finished (or abandoned) practice session
// contributes to a deck's durable statistics.
type SessionRecord struct {
	DeckID        uuid.UUID
	Date          time.Time
	Viewed        int
	Correct       int
	Repeat        int
	Hard          int
	DurationMs    int64
	AnswerDelayMs int64
	KnownDelta    CardIDSet
}

// DateRange is an inclusive calendar date filter. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool { return r.From.IsZero() && r.To.IsZero() }

// DateOf returns the calendar date of t in loc, as midnight UTC.
// Daily rollups are keyed by this value.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DeckSummary holds totals over the requested date range. Streak ignores the
// range and always counts back from today.
type DeckSummary struct {
	TotalSessions    int
	TotalViewed      int
	TotalCorrect     int
	TotalRepeat      int
	TotalHard        int
	TotalDurationMs  int64
	AccuracyRate     float64
	AvgAnswerDelayMs int64
	Streak           int
	KnownCount       int
	TotalCards       int
}

// DeckStats is the full statistics view of a deck.
type DeckStats struct {
	DeckID  uuid.UUID
	Daily   []DailyStats
	Summary DeckSummary
}
