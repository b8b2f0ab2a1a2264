package ports

import (
	"context"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// RegisterInput carries the registration payload after validation.
type RegisterInput struct {
	Email    string
	Password string
	Role     string // empty means domain.RoleUser
}

// AuthResult is returned by both Register and Login.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier checks signature and expiry of identity tokens.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenClaims, error)
}
