package domain

import "time"

// AuthEventKind names a step of the authentication flow worth recording.
type AuthEventKind string

const (
	AuthCredentialRegistered AuthEventKind = "credential_registered"
	AuthProfileRegistered    AuthEventKind = "profile_registered"
	AuthLoginSucceeded       AuthEventKind = "login_succeeded"
	AuthLoginFailed          AuthEventKind = "login_failed"
	AuthLogout               AuthEventKind = "logout"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	Kind      AuthEventKind
	Email     string
	RequestID string
	At        time.Time
}
