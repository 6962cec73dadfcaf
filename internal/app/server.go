package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/flashdeck-backend/internal/config"
	"github.com/heartmarshall/flashdeck-backend/internal/transport/middleware"
)

// rateLimitIdleTTL is how long a client's bucket survives without requests.
const rateLimitIdleTTL = 10 * time.Minute

// newHandler wraps the router in the global middleware chain. Recovery sits
// inside Logger so that recovered panics are logged as 500s.
func newHandler(cfg *config.Config, logger *slog.Logger, limiter *middleware.RateLimiter, router http.Handler) http.Handler {
	var limit middleware.Middleware
	if cfg.RateLimit.Enabled {
		limit = limiter.Limit()
	}
	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limit,
	)(router)
}
