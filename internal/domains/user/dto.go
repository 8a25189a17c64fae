package user

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"gallery-backend/internal/shared/apperror"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

	roles = []interface{}{RoleUser, RoleAdmin, RoleModerator}
)

// passwordRules: 8-128 ký tự, có chữ hoa, số và ký tự đặc biệt
var passwordRules = []validation.Rule{
	validation.Length(8, 128).Error("password must be 8-128 characters"),
	validation.Match(regexp.MustCompile(`[A-Z]`)).Error("password must contain at least one uppercase letter"),
	validation.Match(regexp.MustCompile(`[0-9]`)).Error("password must contain at least one number"),
	validation.Match(regexp.MustCompile(`[^A-Za-z0-9]`)).Error("password must contain at least one special character"),
}

// NormalizeEmail: email so sánh không phân biệt hoa thường
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(3, 50),
		),
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(3, 30),
			validation.Match(usernamePattern).Error("username may only contain letters, digits, '_' and '.'"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
		),
		validation.Field(&r.Password, append([]validation.Rule{validation.Required.Error("password is required")}, passwordRules...)...),
	))
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	))
}

// LoginResponse - JWT access token + user
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        *User     `json:"user"`
}

// ========================================
// UPDATE (partial)
// ========================================

// UpdateUserRequest: pointer nil = giữ nguyên giá trị cũ
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (r UpdateUserRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(3, 50)),
		validation.Field(&r.Username,
			validation.NilOrNotEmpty,
			validation.Length(3, 30),
			validation.Match(usernamePattern).Error("username may only contain letters, digits, '_' and '.'"),
		),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Password, append([]validation.Rule{validation.NilOrNotEmpty}, passwordRules...)...),
		validation.Field(&r.Role, validation.NilOrNotEmpty, validation.In(roles...)),
	))
}

func (r UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Username == nil && r.Email == nil &&
		r.Password == nil && r.Role == nil && r.IsActive == nil
}

// ApplyTo merge các field có mặt. Password được service hash riêng.
func (r UpdateUserRequest) ApplyTo(u *User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Username != nil {
		u.Username = *r.Username
	}
	if r.Email != nil {
		u.Email = NormalizeEmail(*r.Email)
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
}
