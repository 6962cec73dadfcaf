package middleware

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ tokenValidator = &tokenValidatorMock{}

type tokenValidatorMock struct {
	ValidateTokenFunc func(ctx context.Context, token string) (uuid.UUID, error)

	mu    sync.Mutex
	calls []string
}

func (mock *tokenValidatorMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	if mock.ValidateTokenFunc == nil {
		panic("tokenValidatorMock.ValidateTokenFunc: method is nil but tokenValidator.ValidateToken was just called")
	}
	mock.mu.Lock()
	mock.calls = append(mock.calls, token)
	mock.mu.Unlock()
	return mock.ValidateTokenFunc(ctx, token)
}

// ValidateTokenCalls returns the tokens ValidateToken was called with.
func (mock *tokenValidatorMock) ValidateTokenCalls() []string {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]string(nil), mock.calls...)
}
