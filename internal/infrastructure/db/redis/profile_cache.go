package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evenzaa/events-api/internal/core/domain"
)

const defaultProfileTTL = 10 * time.Minute

// ProfileCache keeps profiles read by the session validator.
// Key format: profile:<email>
type ProfileCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewProfileCache wraps client. A non-positive ttl falls back to defaultProfileTTL.
func NewProfileCache(client redis.Cmdable, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

type cachedProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Get returns (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, email string) (*domain.Profile, error) {
	raw, err := c.client.Get(ctx, c.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var cp cachedProfile
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return &domain.Profile{
		ID:        cp.ID,
		Email:     cp.Email,
		Name:      cp.Name,
		Image:     cp.Image,
		CreatedAt: cp.CreatedAt,
	}, nil
}

// Set stores p until the ttl elapses.
func (c *ProfileCache) Set(ctx context.Context, p *domain.Profile) error {
	raw, err := json.Marshal(cachedProfile{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(p.Email), raw, c.ttl).Err()
}

func (c *ProfileCache) key(email string) string {
	return fmt.Sprintf("profile:%s", email)
}
