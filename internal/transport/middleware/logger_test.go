package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

// logRecord serves h behind Logger and returns the single decoded record.
func logRecord(t *testing.T, h http.Handler, req *http.Request) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	Logger(logger)(h).ServeHTTP(httptest.NewRecorder(), req)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "log output: %s", buf.String())
	return rec
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	req = req.WithContext(ctxutil.WithRequestID(req.Context(), "req-42"))

	rec := logRecord(t, h, req)

	assert.Equal(t, "http.request", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/api/decks", rec["path"])
	assert.EqualValues(t, 200, rec["status"])
	assert.EqualValues(t, 5, rec["bytes"])
	assert.Equal(t, "req-42", rec["request_id"])
	assert.Contains(t, rec, "duration")
	assert.NotContains(t, rec, "user_id")
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "INFO"},
		{http.StatusTooManyRequests, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()
			h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(tt.status) })
			rec := logRecord(t, h, httptest.NewRequest(http.MethodPost, "/", nil))
			assert.Equal(t, tt.level, rec["level"])
			assert.EqualValues(t, tt.status, rec["status"])
		})
	}
}

func TestLogger_FirstStatusWins(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusInternalServerError)
	})
	rec := logRecord(t, h, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.EqualValues(t, http.StatusCreated, rec["status"])
}

func TestLogger_UserFromContext(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctxutil.WithUserID(req.Context(), userID))

	rec := logRecord(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), req)
	assert.Equal(t, userID.String(), rec["user_id"])
}

func TestLogger_UserFromInnerAuth(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	h := Auth(newValidator(userID))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	rec := logRecord(t, h, req)
	assert.Equal(t, userID.String(), rec["user_id"])
}
