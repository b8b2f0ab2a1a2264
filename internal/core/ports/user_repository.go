package ports

import (
	"context"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// UserRepository defines the credential store.
// Create must translate a unique-email violation into domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
