package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tag(name string, trace *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name+">")
			next.ServeHTTP(w, r)
			*trace = append(*trace, "<"+name)
		})
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mws  func(trace *[]string) []Middleware
		want []string
	}{
		{
			name: "first is outermost",
			mws:  func(tr *[]string) []Middleware { return []Middleware{tag("a", tr), tag("b", tr)} },
			want: []string{"a>", "b>", "h", "<b", "<a"},
		},
		{
			name: "nil entries skipped",
			mws:  func(tr *[]string) []Middleware { return []Middleware{nil, tag("a", tr), nil} },
			want: []string{"a>", "h", "<a"},
		},
		{
			name: "empty",
			mws:  func(*[]string) []Middleware { return nil },
			want: []string{"h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var trace []string
			h := Chain(tt.mws(&trace)...)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				trace = append(trace, "h")
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, trace)
		})
	}
}
