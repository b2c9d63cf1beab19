package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evenzaa/events-api/internal/api/metrics"
	"github.com/evenzaa/events-api/internal/core/domain"
)

// Context keys set by Session.
const (
	IdentityKey     = "identity"
	SessionTokenKey = "session_token"
)

const bearerScheme = "Bearer"

// Authenticator resolves a session token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// Session guards a route with a bearer token. On success the identity and the
// raw token are stored in the echo context; failures are returned as domain
// errors for the HTTP error handler to render.
func Session(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			// Trailing whitespace is trimmed off header values, so a bare
			// "Bearer" is the empty-token case rather than a missing one.
			if header != bearerScheme && !strings.HasPrefix(header, bearerScheme+" ") {
				metrics.SessionValidationsTotal.WithLabelValues("token_missing").Inc()
				return domain.ErrTokenMissing
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, bearerScheme))
			if token == "" {
				metrics.SessionValidationsTotal.WithLabelValues("token_malformed").Inc()
				return domain.ErrTokenMalformed
			}

			identity, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				metrics.SessionValidationsTotal.WithLabelValues(outcome(err)).Inc()
				return err
			}
			metrics.SessionValidationsTotal.WithLabelValues("ok").Inc()

			c.Set(IdentityKey, identity)
			c.Set(SessionTokenKey, token)
			return next(c)
		}
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenInvalid):
		return "token_invalid"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "profile_not_found"
	default:
		return "error"
	}
}
