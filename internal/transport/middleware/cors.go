package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/heartmarshall/flashdeck-backend/internal/config"
)

// CORS answers preflight requests and marks responses to allowed origins.
// A "*" entry allows every origin but never grants credentials.
func CORS(cfg config.CORSConfig) Middleware {
	origins := lo.Associate(splitList(cfg.AllowedOrigins), func(o string) (string, struct{}) {
		return o, struct{}{}
	})
	_, wildcard := origins["*"]
	credentials := cfg.AllowCredentials && !wildcard
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if _, ok := origins[origin]; !ok && !wildcard {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			if credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func splitList(raw string) []string {
	trimmed := lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Filter(trimmed, func(s string, _ int) bool { return s != "" })
}
