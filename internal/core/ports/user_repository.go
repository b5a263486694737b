package ports

import (
	"context"

	"github.com/videotube/backend/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// FindByUsernameOrEmail returns any user matching either value, or
	// domain.ErrUserNotFound.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	// Create inserts the user and returns the store-assigned id. A unique
	// index violation is reported as domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (string, error)
	// FindByID returns the user without password and refresh token.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
