package domain

import "errors"

// Common domain errors. Services return these (or wrap them) so controllers
// can map them to HTTP statuses without inspecting error strings.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	ErrAlreadyRegistered = errors.New("already registered for event")
	ErrNoSpotsLeft       = errors.New("no spots left")
	ErrNotRegistered     = errors.New("not registered for event")

	ErrAlreadyMember    = errors.New("already a member of group")
	ErrNotMember        = errors.New("not a member of group")
	ErrOwnerCannotLeave = errors.New("group owner cannot leave the group")
)

// ErrAuthenticationFailed is the uniform category for every authentication
// failure. The specific kinds below unwrap to it, so callers that do not care
// about the cause can match the category with errors.Is while logs keep the
// distinction.
var ErrAuthenticationFailed = errors.New("authentication failed")

var (
	ErrInvalidToken       = wrapAuthErr("invalid token")
	ErrMissingSubject     = wrapAuthErr("token has no subject claim")
	ErrProfileFetchFailed = wrapAuthErr("profile fetch failed")
	ErrPersistenceFailed  = wrapAuthErr("user persistence failed")
)

type authError struct {
	msg string
}

func (e *authError) Error() string { return e.msg }

func (e *authError) Unwrap() error { return ErrAuthenticationFailed }

func wrapAuthErr(msg string) error {
	return &authError{msg: msg}
}
