package ports

import (
	"context"

	"github.com/evenzaa/events-api/internal/core/domain"
)

// RegisterProfileInput carries the profile fields accepted at sign-up.
type RegisterProfileInput struct {
	Email string
	Name  string
	Image string
}

type AuthService interface {
	RegisterCredential(ctx context.Context, email, password string) (string, error)
	RegisterProfile(ctx context.Context, input RegisterProfileInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}
