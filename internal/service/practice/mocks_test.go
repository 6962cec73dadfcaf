package practice

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

type deckRepoMock struct {
	mu          sync.Mutex
	GetByIDFunc func(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
	getByID     []uuid.UUID
}

func (m *deckRepoMock) GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	m.mu.Lock()
	m.getByID = append(m.getByID, deckID)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, deckID)
}

func (m *deckRepoMock) GetByIDCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.getByID...)
}

type cardRepoMock struct {
	mu               sync.Mutex
	ListByDeckIDFunc func(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)
	listByDeckID     []uuid.UUID
}

func (m *cardRepoMock) ListByDeckID(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	m.mu.Lock()
	m.listByDeckID = append(m.listByDeckID, deckID)
	m.mu.Unlock()
	return m.ListByDeckIDFunc(ctx, deckID)
}

func (m *cardRepoMock) ListByDeckIDCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.listByDeckID...)
}

// statsStoreMock delegates to an inner store unless a Func override is set.
type statsStoreMock struct {
	statsStore

	mu                sync.Mutex
	AppendSessionFunc func(ctx context.Context, rec domain.SessionRecord) error
	appendSession     []domain.SessionRecord
}

func (m *statsStoreMock) AppendSession(ctx context.Context, rec domain.SessionRecord) error {
	m.mu.Lock()
	m.appendSession = append(m.appendSession, rec)
	fn := m.AppendSessionFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, rec)
	}
	return m.statsStore.AppendSession(ctx, rec)
}

func (m *statsStoreMock) AppendSessionCalls() []domain.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SessionRecord(nil), m.appendSession...)
}
