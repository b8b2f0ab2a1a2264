package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

const identityKey = "identity"

// SetIdentity attaches the authenticated caller to the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller set by Authenticate. ok is false when the
// request did not pass through the authentication gate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok || id.ID == "" {
		return domain.Identity{}, false
	}
	return id, true
}
