package rest

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

const healthCheckTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

// sessionCounter reports how many practice sessions are live.
type sessionCounter interface {
	Len() int
}

// HealthHandler serves the liveness, readiness and health probes.
type HealthHandler struct {
	db       dbPinger
	sessions sessionCounter
	version  string
	draining atomic.Bool
	now      func() time.Time
}

// NewHealthHandler creates a HealthHandler. sessions may be nil.
func NewHealthHandler(db dbPinger, sessions sessionCounter, version string) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions, version: version, now: time.Now}
}

// SetDraining makes Ready fail from now on, so load balancers stop routing
// new traffic while in-flight requests finish.
func (h *HealthHandler) SetDraining() { h.draining.Store(true) }

type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Active  *int   `json:"active,omitempty"`
}

const (
	statusOK       = "ok"
	statusDown     = "down"
	statusDraining = "draining"
)

// Live always answers 200 while the process serves HTTP.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK, Timestamp: h.now()})
}

// Ready answers 503 while draining or when the database is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: statusOK, Timestamp: h.now()}
	switch {
	case h.draining.Load():
		resp.Status = statusDraining
	case h.checkDatabase(r.Context()).Status != statusOK:
		resp.Status = statusDown
	}
	writeJSON(w, httpStatus(resp.Status), resp)
}

// Health reports every component with the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     statusOK,
		Version:    h.version,
		Components: map[string]CompStatus{"database": h.checkDatabase(r.Context())},
		Timestamp:  h.now(),
	}
	if h.sessions != nil {
		active := h.sessions.Len()
		resp.Components["practice"] = CompStatus{Status: statusOK, Active: &active}
	}

	for _, c := range resp.Components {
		if c.Status != statusOK {
			resp.Status = statusDown
		}
	}
	if h.draining.Load() {
		resp.Status = statusDraining
	}
	writeJSON(w, httpStatus(resp.Status), resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: statusDown}
	}
	return CompStatus{Status: statusOK, Latency: time.Since(start).String()}
}

func httpStatus(status string) int {
	if status == statusOK {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
