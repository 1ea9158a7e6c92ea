package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal kinds. Admins and users live in separate tables but unify into
// one (id, user_type) identity after authentication.
const (
	UserTypeAdmin = "admin"
	UserTypeUser  = "user"
)

// User is a regular account. Usernames and emails are unique within this
// table only; the admins table has its own namespace.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;default:'user'" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	AvatarURL    *string   `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Admin is an administrator account, stored apart from users.
type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;default:'admin'" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	AvatarURL    *string   `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// Principal is the unified identity both account kinds collapse into after
// authentication. Services receive it as the acting identity.
type Principal struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	UserType  string    `json:"user_type"`
	IsActive  bool      `json:"is_active"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

func (p Principal) IsAdmin() bool {
	return p.UserType == UserTypeAdmin
}

func (u *User) AsPrincipal() Principal {
	return Principal{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		UserType:  UserTypeUser,
		IsActive:  u.IsActive,
		AvatarURL: u.AvatarURL,
	}
}

func (a *Admin) AsPrincipal() Principal {
	return Principal{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		UserType:  UserTypeAdmin,
		IsActive:  a.IsActive,
		AvatarURL: a.AvatarURL,
	}
}
