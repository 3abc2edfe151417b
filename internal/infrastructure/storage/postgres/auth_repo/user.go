// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/domain/auth"
	"airsolutions/internal/infrastructure/storage/postgres"
)

const userColumns = `id, username, password_hash, full_name, email, role,
	is_active, last_login_at, created_at, updated_at`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	db postgres.QuerierProvider
}

var _ auth.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(db postgres.QuerierProvider) *UserRepo {
	return &UserRepo{db: db}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	_, err := r.db.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		user.ID, user.Username, user.PasswordHash, user.FullName, user.Email, user.Role,
		user.IsActive, user.LastLoginAt, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("user", "username", user.Username).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	var user auth.User
	err := pgxscan.Get(ctx, r.db.GetQuerier(ctx), &user,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

// Update writes every mutable column; the username is the identity and never changes.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	result, err := r.db.GetQuerier(ctx).Exec(ctx, `
		UPDATE users SET
			password_hash = $2,
			full_name = $3,
			email = $4,
			role = $5,
			is_active = $6,
			last_login_at = $7,
			updated_at = $8
		WHERE id = $1
	`,
		user.ID, user.PasswordHash, user.FullName, user.Email, user.Role,
		user.IsActive, user.LastLoginAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}
	return nil
}
