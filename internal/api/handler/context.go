package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/evenzaa/events-api/internal/api/middleware"
	"github.com/evenzaa/events-api/internal/core/domain"
)

// identityFrom returns the caller stored by the Session middleware. A route
// mounted without the middleware has no identity and is treated as
// unauthenticated.
func identityFrom(c echo.Context) (*domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(*domain.Identity)
	if !ok || identity == nil {
		return nil, domain.ErrTokenMissing
	}
	return identity, nil
}

func sessionTokenFrom(c echo.Context) string {
	token, _ := c.Get(middleware.SessionTokenKey).(string)
	return token
}
