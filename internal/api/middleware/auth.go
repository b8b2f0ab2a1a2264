package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-api/internal/api/metrics"
	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

// UserFinder resolves the subject of a verified token.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate validates the bearer token, loads the user it names and
// attaches its identity to the context. The role comes from the stored user,
// not from the token.
func Authenticate(tokens ports.TokenVerifier, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				metrics.AccessDeniedTotal.WithLabelValues("invalid_token").Inc()
				return domain.ErrInvalidToken
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.AccessDeniedTotal.WithLabelValues("token_user_not_found").Inc()
					return domain.ErrTokenUserNotFound
				}
				return err
			}

			SetIdentity(c, domain.IdentityOf(user))
			return next(c)
		}
	}
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-sensitive.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
