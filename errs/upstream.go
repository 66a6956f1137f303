package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Backend API & third-party service errors
var (
	ErrUpstream           = errors.New("upstream request failed")
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrUpstreamDecode     = errors.New("upstream response could not be decoded")
	ErrConfigMissing      = errors.New("configuration missing")
)

// NewUpstreamError maps a non-2xx backend status. 404 keeps ErrNotFound in the chain so
// detail pages can render their not-found view, and 400/422 keep ErrBadRequest. The
// response body is only kept as Cause, for logs.
func NewUpstreamError(method string, statusCode int, path string, body string) *ApiErr {
	details := fmt.Sprintf("%s %s returned %d", method, path, statusCode)
	var cause error
	if body != "" {
		cause = errors.New(body)
	}

	switch statusCode {
	case http.StatusNotFound:
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w: %w", path, ErrNotFound, ErrUpstream),
			Details:    details,
			Cause:      cause,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("%w: %w", ErrBadRequest, ErrUpstream),
			Details:    details,
			Cause:      cause,
		}
	}

	status := http.StatusBadGateway
	if statusCode == http.StatusTooManyRequests || statusCode == http.StatusServiceUnavailable {
		status = http.StatusServiceUnavailable
	}
	return &ApiErr{
		StatusCode: status,
		err:        ErrUpstream,
		Details:    details,
		Cause:      cause,
	}
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("%s is unreachable", service),
		Cause:      cause,
	}
}

func NewUpstreamDecodeError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstreamDecode,
		Details:    fmt.Sprintf("Invalid JSON from %s", path),
		Cause:      cause,
	}
}

func NewConfigError(configName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is not configured", configName),
		Field:      configName,
	}
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream) || errors.Is(err, ErrServiceUnreachable) || errors.Is(err, ErrUpstreamDecode)
}
