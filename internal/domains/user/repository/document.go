package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gallery-backend/internal/domains/user"
)

type userDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"passwordHash"`
	Role         string               `bson:"role"`
	ImageProfile profileImageDocument `bson:"imageProfile"`
	IsActive     bool                 `bson:"isActive"`
	LastLoginAt  *time.Time           `bson:"lastLoginAt,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

type profileImageDocument struct {
	URL       string `bson:"url,omitempty"`
	PublicID  string `bson:"publicId,omitempty"`
	Extension string `bson:"extension,omitempty"`
}

// toEntity: role lạ trong DB được hạ xuống user
func toEntity(d *userDocument) *user.User {
	role := user.Role(d.Role)
	if !role.IsValid() {
		role = user.RoleUser
	}
	return &user.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         role,
		ImageProfile: user.ProfileImage{
			URL:       d.ImageProfile.URL,
			PublicID:  d.ImageProfile.PublicID,
			Extension: d.ImageProfile.Extension,
		},
		IsActive:    d.IsActive,
		LastLoginAt: d.LastLoginAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// toDocument không set _id
func toDocument(u *user.User) *userDocument {
	return &userDocument{
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		ImageProfile: profileImageDocument{
			URL:       u.ImageProfile.URL,
			PublicID:  u.ImageProfile.PublicID,
			Extension: u.ImageProfile.Extension,
		},
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
