package client

import "errors"

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrInvalidRequest   = errors.New("invalid request")
)

// IsPermission reports whether err means the session can no longer write to
// the remote store.
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrUnauthorized)
}
