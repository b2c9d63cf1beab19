package ports

import (
	"context"

	"github.com/evenzaa/events-api/internal/core/domain"
)

// CredentialRepository persists login records keyed by email.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindByToken(ctx context.Context, token string) (*domain.Credential, error)
	// Insert stores a credential with no session. It returns
	// domain.ErrAlreadyExists when the email is taken.
	Insert(ctx context.Context, email, passwordHash string) (*domain.Credential, error)
	// SetToken replaces the session slot for email; a nil token clears it.
	SetToken(ctx context.Context, email string, token *string) (bool, error)
	// ClearTokenByToken empties the slot currently holding token.
	ClearTokenByToken(ctx context.Context, token string) (bool, error)
}
