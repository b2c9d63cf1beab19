package ports

import (
	"context"

	"github.com/evenzaa/events-api/internal/core/domain"
)

// ProfileRepository persists user profiles keyed by email.
type ProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Insert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}
