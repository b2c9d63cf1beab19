package domain

import "errors"

var (
	ErrValidation         = errors.New("missing required fields")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrProfileNotFound    = errors.New("user not found")
)

// Session validation failures. Each one is reported with its own status so
// clients can tell "log in" apart from "retry".
var (
	ErrTokenMissing   = errors.New("unauthorized access: no token")
	ErrTokenMalformed = errors.New("forbidden access: malformed token")
	ErrTokenInvalid   = errors.New("forbidden access: invalid or expired token")
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrOrganizerCannotJoin = errors.New("organizer cannot join own event")
	ErrInvalidFilter       = errors.New("invalid filter")
)
