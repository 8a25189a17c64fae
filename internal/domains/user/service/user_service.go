package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gallery-backend/internal/domains/user"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/pkg/cache"
	"gallery-backend/pkg/logger"
)

// bcrypt cost 12
const defaultHashCost = 12

// TokenIssuer is satisfied by *jwt.Manager
type TokenIssuer interface {
	GenerateAccessToken(userID, username, role string) (string, error)
}

// Options gom các tham số login throttle + token TTL
type Options struct {
	MaxLoginAttempts int
	LoginLockout     time.Duration
	TokenTTL         time.Duration
}

type userService struct {
	repo     user.Repository
	storage  storage.Provider
	tokens   TokenIssuer
	throttle *loginThrottle
	tokenTTL time.Duration
	hashCost int
	now      func() time.Time
}

func NewUserService(
	repo user.Repository,
	provider storage.Provider,
	tokens TokenIssuer,
	c cache.Cache,
	opts Options,
) user.Service {
	return &userService{
		repo:     repo,
		storage:  provider,
		tokens:   tokens,
		throttle: newLoginThrottle(c, opts.MaxLoginAttempts, opts.LoginLockout),
		tokenTTL: opts.TokenTTL,
		hashCost: defaultHashCost,
		now:      time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := user.NormalizeEmail(req.Email)

	// 2. BUSINESS RULE: email và username unique
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, req.Username, ""); err != nil {
		return nil, err
	}

	// 3. HASH PASSWORD
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	// 4. CREATE USER ENTITY, role luôn là user
	now := s.now()
	u := &user.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. PERSIST
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login xác thực user và trả JWT access token
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}
	key := user.NormalizeEmail(req.Email)

	// 2. CHECK LOCKOUT
	locked, err := s.throttle.Locked(ctx, key)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, user.ErrAccountLocked
	}

	// 3. FIND USER BY EMAIL, không phân biệt "không có email" với "sai password"
	u, err := s.repo.FindByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, s.failLogin(ctx, key)
		}
		return nil, err
	}

	// 4. VERIFY PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, s.failLogin(ctx, key)
	}

	// 5. CHECK USER STATUS
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	// 6. GENERATE JWT
	token, err := s.tokens.GenerateAccessToken(u.ID, u.Username, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	s.throttle.Reset(ctx, key)

	// 7. UPDATE LAST LOGIN, lỗi chỉ log
	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		logger.ErrorWithFields("Failed to update last login", err, map[string]interface{}{"user_id": u.ID})
	} else {
		u.LastLoginAt = &now
	}

	return &user.LoginResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(s.tokenTTL),
		User:        u,
	}, nil
}

func (s *userService) failLogin(ctx context.Context, key string) error {
	locked, err := s.throttle.Fail(ctx, key)
	if err != nil {
		return err
	}
	if locked {
		return user.ErrAccountLocked
	}
	return user.ErrInvalidCredentials
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, id string) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) AccountStatus(ctx context.Context, id string) (string, bool, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", false, err
	}
	return u.Role.String(), u.IsActive, nil
}

// Update: self-update hoặc admin update user khác
func (s *userService) Update(ctx context.Context, actor user.Actor, id string, req user.UpdateUserRequest, image *storage.File) (*user.User, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. PERMISSION: chỉ admin được sửa user khác
	if actor.ID != id && !actor.IsAdmin() {
		return nil, user.ErrForeignUpdateForbidden
	}

	// 3. LOAD CURRENT STATE
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 4. EMPTY PATCH
	if req.IsEmpty() && image == nil {
		return current, nil
	}

	// 5. PRIVILEGED FIELDS theo role hiện tại của actor
	if req.Role != nil && *req.Role != current.Role && !actor.IsAdmin() {
		return nil, user.ErrRoleChangeForbidden
	}
	if req.IsActive != nil && *req.IsActive != current.IsActive && !actor.IsAdmin() {
		return nil, user.ErrStatusChangeForbidden
	}

	// 6. MERGE
	updated := *current
	req.ApplyTo(&updated)

	// 7. NATURAL KEY CHANGE: check trùng, bỏ qua chính nó
	if updated.Email != current.Email {
		if err := s.ensureEmailFree(ctx, updated.Email, current.ID); err != nil {
			return nil, err
		}
	}
	if updated.Username != current.Username {
		if err := s.ensureUsernameFree(ctx, updated.Username, current.ID); err != nil {
			return nil, err
		}
	}

	// 8. PASSWORD REHASH
	if req.Password != nil {
		if updated.PasswordHash, err = s.hash(*req.Password); err != nil {
			return nil, err
		}
	}

	// 9. PROFILE IMAGE: delete cũ → upload mới
	if image != nil {
		img, err := s.replaceImage(ctx, current.ImageProfile, updated.ImageFolder(), *image)
		if err != nil {
			return nil, err
		}
		updated.ImageProfile = img
	}

	// 10. PERSIST
	updated.UpdatedAt = s.now()
	return s.repo.Update(ctx, &updated)
}

func (s *userService) Deactivate(ctx context.Context, id string) (*user.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsActive {
		return current, nil
	}

	updated := *current
	updated.IsActive = false
	updated.UpdatedAt = s.now()
	return s.repo.Update(ctx, &updated)
}

// ========================================
// HELPERS
// ========================================

func (s *userService) replaceImage(ctx context.Context, old user.ProfileImage, folder string, file storage.File) (user.ProfileImage, error) {
	if file.Kind() != "image" {
		return user.ProfileImage{}, apperror.Validation("validation failed", apperror.FieldError{
			Field:   "imageProfile",
			Message: fmt.Sprintf("unsupported content type %q", file.ContentType),
		})
	}

	if !old.IsEmpty() {
		if err := s.storage.Delete(ctx, old.PublicID); err != nil {
			return user.ProfileImage{}, err
		}
	}

	res, err := s.storage.Upload(ctx, file, storage.UploadOptions{Folder: folder})
	if err != nil {
		return user.ProfileImage{}, err
	}
	return user.ProfileImage{URL: res.SecureURL, PublicID: res.RemoteID, Extension: file.Extension()}, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email exists: %w", err)
	case existing.ID != selfID:
		return user.ErrEmailAlreadyExists
	}
	return nil
}

func (s *userService) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check username exists: %w", err)
	case existing.ID != selfID:
		return user.ErrUsernameAlreadyExists
	}
	return nil
}

func (s *userService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
