package auth

import (
	"errors"
	"net/http"
)

// Error is a sign-in failure that is safe to show the caller, with the
// status it should be relayed with.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrInvalidCredentials  = &Error{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	ErrInvalidRefreshToken = &Error{Status: http.StatusBadRequest, Message: "Invalid Refresh Token"}
)

// ErrInvalidToken is returned by Verify for missing, malformed, forged or
// expired access tokens.
var ErrInvalidToken = errors.New("invalid access token")
