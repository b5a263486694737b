package ports

import (
	"context"

	"github.com/videotube/backend/internal/core/domain"
)

// RegisterUserInput is the DTO passed from the transport layer to UserService.
// AvatarPath and CoverImagePath are local staged files; empty means absent.
// The sizes are in bytes.
type RegisterUserInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	AvatarSize     int64
	CoverImagePath string
	CoverImageSize int64
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
}
