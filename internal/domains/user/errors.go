package user

import "gallery-backend/internal/shared/apperror"

var (
	ErrUserNotFound           = apperror.NotFound("USER_NOT_FOUND", "user not found")
	ErrEmailAlreadyExists     = apperror.AlreadyExists("EMAIL_ALREADY_EXISTS", "email already exists")
	ErrUsernameAlreadyExists  = apperror.AlreadyExists("USERNAME_ALREADY_EXISTS", "username already exists")
	ErrInvalidCredentials     = apperror.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrAccountLocked          = apperror.RateLimited("ACCOUNT_LOCKED", "too many login attempts, please try again later")
	ErrUserInactive           = apperror.PermissionDenied("ACCOUNT_INACTIVE", "account is deactivated")
	ErrRoleChangeForbidden    = apperror.PermissionDenied("ROLE_CHANGE_FORBIDDEN", "only admins can change roles")
	ErrStatusChangeForbidden  = apperror.PermissionDenied("STATUS_CHANGE_FORBIDDEN", "only admins can change the active flag")
	ErrForeignUpdateForbidden = apperror.PermissionDenied("FORBIDDEN", "only admins can update other users")
)
