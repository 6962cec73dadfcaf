// Package deckstats implements the deck statistics aggregator in memory.
// State is sharded per deck: every deck has its own mutex, so sessions on
// different decks never contend while updates on one deck are linearizable.
package deckstats

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Store is a process-local deck statistics aggregator.
// Reads of the same process observe all completed writes.
// It has no card source, so callers guarantee that card IDs belong to the deck.
type Store struct {
	decks sync.Map // map[uuid.UUID]*shard
}

type shard struct {
	mu    sync.Mutex
	daily map[time.Time]*domain.DailyStats
	known domain.CardIDSet
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

func (s *Store) shard(deckID uuid.UUID) *shard {
	if sh, ok := s.decks.Load(deckID); ok {
		return sh.(*shard)
	}
	sh, _ := s.decks.LoadOrStore(deckID, &shard{
		daily: make(map[time.Time]*domain.DailyStats),
		known: domain.CardIDSet{},
	})
	return sh.(*shard)
}

// lookup returns the shard without creating one.
func (s *Store) lookup(deckID uuid.UUID) (*shard, bool) {
	sh, ok := s.decks.Load(deckID)
	if !ok {
		return nil, false
	}
	return sh.(*shard), true
}

// AppendSession folds a session into the (deck, date) rollup and unions its
// known-delta into the deck's known set. Records with Viewed <= 0 are ignored.
func (s *Store) AppendSession(_ context.Context, rec domain.SessionRecord) error {
	if rec.Viewed <= 0 {
		return nil
	}

	date := domain.DateOf(rec.Date, time.UTC)
	sh := s.shard(rec.DeckID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	day, ok := sh.daily[date]
	if !ok {
		day = &domain.DailyStats{DeckID: rec.DeckID, Date: date}
		sh.daily[date] = day
	}
	day.Add(rec)

	for id := range rec.KnownDelta {
		sh.known.Add(id)
	}
	return nil
}

// GetDailyStats returns the deck's rollups inside r, ascending by date.
// An unknown deck yields an empty slice.
func (s *Store) GetDailyStats(_ context.Context, deckID uuid.UUID, r domain.DateRange) ([]domain.DailyStats, error) {
	sh, ok := s.lookup(deckID)
	if !ok {
		return []domain.DailyStats{}, nil
	}

	sh.mu.Lock()
	days := lo.FilterMap(lo.Values(sh.daily), func(d *domain.DailyStats, _ int) (domain.DailyStats, bool) {
		return *d, r.Contains(d.Date)
	})
	sh.mu.Unlock()

	if days == nil {
		days = []domain.DailyStats{}
	}
	slices.SortFunc(days, func(a, b domain.DailyStats) int { return a.Date.Compare(b.Date) })
	return days, nil
}

// GetKnownCardIDs returns a copy of the deck's known set.
func (s *Store) GetKnownCardIDs(_ context.Context, deckID uuid.UUID) (domain.CardIDSet, error) {
	sh, ok := s.lookup(deckID)
	if !ok {
		return domain.CardIDSet{}, nil
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.known.Clone(), nil
}

// SetCardKnown adds or removes one card from the deck's known set.
func (s *Store) SetCardKnown(_ context.Context, deckID, cardID uuid.UUID, known bool) error {
	sh := s.shard(deckID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if known {
		sh.known.Add(cardID)
	} else {
		sh.known.Remove(cardID)
	}
	return nil
}

// ResetDeckProgress clears the known set. Daily rollups are kept.
func (s *Store) ResetDeckProgress(_ context.Context, deckID uuid.UUID) error {
	sh, ok := s.lookup(deckID)
	if !ok {
		return nil
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.known = domain.CardIDSet{}
	return nil
}
