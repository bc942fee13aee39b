package model

import "errors"

var (
	// ErrSessionExpired means a silent refresh failed and the session was
	// cleared; the browser must sign in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrUpstreamUnavailable wraps transport failures reaching the backend.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
