// Package apperr holds domain-level errors shared by services and handlers.
//
// Services wrap these sentinels with a human-readable message:
//
//	return fmt.Errorf("%w: School not found", apperr.ErrNotFound)
//
// Handlers map them to HTTP statuses with Status and expose Message.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)

// Status maps an error chain to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing part of a wrapped sentinel error.
// Errors outside the taxonomy collapse to "Server error".
func Message(err error) string {
	for _, sentinel := range []error{ErrBadRequest, ErrNotFound, ErrUnauthorized, ErrRateLimited} {
		if !errors.Is(err, sentinel) {
			continue
		}
		msg := err.Error()
		if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
			return msg[i+len(sentinel.Error())+2:]
		}
		return msg
	}
	return "Server error"
}
