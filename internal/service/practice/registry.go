package practice

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Registry holds the live practice sessions of the process.
// Each session has its own lock, so transitions on one session are
// serialized while different sessions proceed in parallel.
type Registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*registryEntry
	ttl     time.Duration
	now     func() time.Time
}

type registryEntry struct {
	mu       sync.Mutex
	session  *Session
	lastUsed atomic.Int64 // unix nanos
}

// NewRegistry creates a registry that evicts sessions idle longer than ttl.
// ttl <= 0 disables eviction.
func NewRegistry(ttl time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		entries: make(map[uuid.UUID]*registryEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Add registers a session.
func (r *Registry) Add(s *Session) {
	e := &registryEntry{session: s}
	e.lastUsed.Store(r.now().UnixNano())

	r.mu.Lock()
	r.entries[s.ID] = e
	r.mu.Unlock()
}

// With runs fn with exclusive access to the session. Sessions owned by
// another user are reported as not found.
func (r *Registry) With(id, userID uuid.UUID, fn func(s *Session) error) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok || e.session.UserID != userID {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed.Store(r.now().UnixNano())
	return fn(e.session)
}

// Remove drops a session. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts idle sessions and returns how many were dropped.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.entries {
		if e.lastUsed.Load() < cutoff {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}
