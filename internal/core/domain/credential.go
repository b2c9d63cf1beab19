package domain

import "time"

// Credential is the login record for one email. SessionToken is nil unless
// the account currently holds a session; a new login overwrites it.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	SessionToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
