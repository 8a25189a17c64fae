package user

import (
	"context"
	"time"
)

// Repository là data access của users collection
type Repository interface {
	// Create returns ErrEmailAlreadyExists / ErrUsernameAlreadyExists on a unique index conflict
	Create(ctx context.Context, u *User) (*User, error)

	// FindByID / FindByEmail / FindByUsername return ErrUserNotFound when absent
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)

	Update(ctx context.Context, u *User) (*User, error)

	// UpdateLastLogin chỉ set lastLoginAt
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
