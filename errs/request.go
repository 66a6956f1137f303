package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingSession = errors.New("missing session")
	ErrExpiredToken   = errors.New("expired access token")
	ErrTooManyRequest = errors.New("too many requests")
)

// NewUnauthorizedError keeps ErrUnauthorized in the chain so callers can test for it.
func NewUnauthorizedError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrUnauthorized,
		Details:    details,
		Field:      "authorization",
	}
}

func NewMissingSessionError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrUnauthorized, ErrMissingSession),
		Details:    "Session cookie is missing",
		Field:      "session",
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrUnauthorized, ErrExpiredToken),
		Details:    "Access token has expired",
		Field:      "authorization",
	}
}

func NewTooManyRequestsError(action string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrTooManyRequest,
		Details:    fmt.Sprintf("Too many %s attempts, try again shortly", action),
	}
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}
