package user

import (
	"context"

	"gallery-backend/internal/infrastructure/storage"
)

// Service định nghĩa business logic layer contract
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// Profile
	GetProfile(ctx context.Context, id string) (*User, error)

	// Update áp dụng cho cả self-update và admin update, quyền kiểm tra theo actor
	Update(ctx context.Context, actor Actor, id string, req UpdateUserRequest, image *storage.File) (*User, error)
	Deactivate(ctx context.Context, id string) (*User, error)

	// AccountStatus dùng cho auth middleware
	AccountStatus(ctx context.Context, id string) (role string, active bool, err error)
}
