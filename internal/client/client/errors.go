package client

import "errors"

var (
	// ErrUnauthenticated is returned before any network call when there is
	// no usable session.
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnavailable       = errors.New("server unavailable")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrMalformedResponse = errors.New("malformed response")
)

// IsTransient reports whether retrying the same call later may succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
