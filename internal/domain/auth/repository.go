package auth

import "context"

// UserRepository defines user storage operations.
type UserRepository interface {
	// GetByUsername returns a NotFound AppError for an unknown username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	Create(ctx context.Context, user *User) error

	Update(ctx context.Context, user *User) error
}
