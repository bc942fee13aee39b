// Package apierror carries errors returned by the DealLens backend across the
// client/handler boundary, preserving the server-supplied detail message.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

// FromStatus builds an error for an upstream response, keeping the backend's
// detail message verbatim when one was supplied.
func FromStatus(status int, detail string) *APIError {
	code := "UPSTREAM_ERROR"
	switch {
	case status == http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case status == http.StatusForbidden:
		code = "FORBIDDEN"
	case status == http.StatusNotFound:
		code = "NOT_FOUND"
	case status == http.StatusPaymentRequired:
		code = "NO_CREDITS"
	case status >= 400 && status < 500:
		code = "BAD_REQUEST"
	}

	if detail == "" {
		detail = http.StatusText(status)
	}

	return &APIError{Code: code, Message: detail, HTTPStatus: status}
}

// StatusOf reports the HTTP status carried by err, or 0 when err is not an
// APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus
	}

	return 0
}

// MessageOf extracts the user-facing message from err, falling back to a
// generic line for transport and other unclassified failures.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return "Something went wrong. Please try again."
}
