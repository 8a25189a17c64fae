package user

import "time"

// Role quyết định quyền của user, luôn đọc từ DB chứ không tin token
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ProfileImage là asset reference trên storage, PublicID rỗng = chưa có ảnh
type ProfileImage struct {
	URL       string `json:"url"`
	PublicID  string `json:"publicId"`
	Extension string `json:"extension"`
}

func (p ProfileImage) IsEmpty() bool {
	return p.PublicID == ""
}

// User là domain entity của users collection
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// Never expose in JSON
	PasswordHash string `json:"-"`

	Role         Role         `json:"role"`
	ImageProfile ProfileImage `json:"imageProfile"`
	IsActive     bool         `json:"isActive"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ImageFolder là folder trên storage cho ảnh profile của user
func (u *User) ImageFolder() string {
	return "user/" + u.Username
}

// Actor là user đang thực hiện request, role load từ DB bởi middleware
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
