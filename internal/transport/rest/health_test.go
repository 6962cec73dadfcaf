package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbPingerMock struct {
	err error
}

func (m *dbPingerMock) Ping(context.Context) error { return m.err }

type sessionCounterStub int

func (s sessionCounterStub) Len() int { return int(s) }

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestHealth(dbErr error, sessions sessionCounter) *HealthHandler {
	h := NewHealthHandler(&dbPingerMock{err: dbErr}, sessions, "v1.2.3")
	h.now = func() time.Time { return fixedNow }
	return h
}

func probe(t *testing.T, handler http.HandlerFunc) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestHealthProbes(t *testing.T) {
	t.Parallel()

	dbDown := errors.New("connection refused")

	tests := []struct {
		name       string
		dbErr      error
		draining   bool
		probe      func(h *HealthHandler) http.HandlerFunc
		wantCode   int
		wantStatus string
	}{
		{"live", nil, false, func(h *HealthHandler) http.HandlerFunc { return h.Live }, http.StatusOK, statusOK},
		{"live ignores database", dbDown, false, func(h *HealthHandler) http.HandlerFunc { return h.Live }, http.StatusOK, statusOK},
		{"live while draining", nil, true, func(h *HealthHandler) http.HandlerFunc { return h.Live }, http.StatusOK, statusOK},
		{"ready", nil, false, func(h *HealthHandler) http.HandlerFunc { return h.Ready }, http.StatusOK, statusOK},
		{"ready database down", dbDown, false, func(h *HealthHandler) http.HandlerFunc { return h.Ready }, http.StatusServiceUnavailable, statusDown},
		{"ready draining", nil, true, func(h *HealthHandler) http.HandlerFunc { return h.Ready }, http.StatusServiceUnavailable, statusDraining},
		{"health", nil, false, func(h *HealthHandler) http.HandlerFunc { return h.Health }, http.StatusOK, statusOK},
		{"health database down", dbDown, false, func(h *HealthHandler) http.HandlerFunc { return h.Health }, http.StatusServiceUnavailable, statusDown},
		{"health draining", nil, true, func(h *HealthHandler) http.HandlerFunc { return h.Health }, http.StatusServiceUnavailable, statusDraining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHealth(tt.dbErr, nil)
			if tt.draining {
				h.SetDraining()
			}

			code, resp := probe(t, tt.probe(h))
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.True(t, resp.Timestamp.Equal(fixedNow))
		})
	}
}

func TestHealth_Components(t *testing.T) {
	t.Parallel()

	_, resp := probe(t, newTestHealth(nil, sessionCounterStub(3)).Health)

	assert.Equal(t, "v1.2.3", resp.Version)
	db := resp.Components["database"]
	assert.Equal(t, statusOK, db.Status)
	assert.NotEmpty(t, db.Latency)

	practice, ok := resp.Components["practice"]
	require.True(t, ok)
	require.NotNil(t, practice.Active)
	assert.Equal(t, 3, *practice.Active)
}

func TestHealth_DatabaseDownHasNoLatency(t *testing.T) {
	t.Parallel()

	_, resp := probe(t, newTestHealth(errors.New("timeout"), nil).Health)

	assert.Equal(t, CompStatus{Status: statusDown}, resp.Components["database"])
	assert.NotContains(t, resp.Components, "practice")
}

func TestReady_OmitsDetails(t *testing.T) {
	t.Parallel()

	_, resp := probe(t, newTestHealth(nil, sessionCounterStub(1)).Ready)
	assert.Empty(t, resp.Version)
	assert.Empty(t, resp.Components)
}
