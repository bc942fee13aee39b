package middleware

import (
	"net/http"
	"time"
)

func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	message := "<!doctype html><title>Timeout</title><h1>Request timed out</h1><p>Please try again.</p>"

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
