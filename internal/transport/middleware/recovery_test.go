package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

func serveRecovery(h http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	rec := httptest.NewRecorder()
	Recovery(logger)(h).ServeHTTP(rec, req)
	return rec, &buf
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	rec, logs := serveRecovery(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, logs.String())
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/x/outcome", nil)
	req = req.WithContext(ctxutil.WithRequestID(req.Context(), "req-9"))

	rec, logs := serveRecovery(func(http.ResponseWriter, *http.Request) {
		panic("index out of range")
	}, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "panic recovered", entry["msg"])
	assert.Equal(t, "index out of range", entry["panic"])
	assert.Equal(t, "/api/sessions/x/outcome", entry["path"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecovery_PanicAfterHeaders(t *testing.T) {
	t.Parallel()

	rec, logs := serveRecovery(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		panic("late")
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Contains(t, logs.String(), "late")
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serveRecovery(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}, httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
