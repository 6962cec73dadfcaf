package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

// userSlotKey holds a *uuid.UUID that Auth fills in, so that Logger, wrapped
// around it, can still report who made the request.
type userSlotKey struct{}

func reportUser(ctx context.Context, id uuid.UUID) {
	if slot, ok := ctx.Value(userSlotKey{}).(*uuid.UUID); ok {
		*slot = id
	}
}

// Logger logs every request as one "http.request" record. Server errors are
// logged at ERROR, rate-limited requests at WARN.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			slot := new(uuid.UUID)

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), userSlotKey{}, slot)))

			ctx := r.Context()
			if _, ok := ctxutil.UserIDFromCtx(ctx); !ok && *slot != uuid.Nil {
				ctx = ctxutil.WithUserID(ctx, *slot)
			}
			attrs := append([]slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int64("bytes", sw.written),
				slog.Duration("duration", time.Since(start)),
			}, ctxutil.LogAttrs(ctx)...)

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status == http.StatusTooManyRequests:
				level = slog.LevelWarn
			}
			logger.LogAttrs(ctx, level, "http.request", attrs...)
		})
	}
}

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
