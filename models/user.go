package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"decor-marketplace-server/types"
)

type UserRole string

const (
	RoleUser      UserRole = types.RoleUser
	RoleDecorator UserRole = types.RoleDecorator
	RoleAdmin     UserRole = types.RoleAdmin
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	DisplayName  string    `json:"displayName" gorm:"size:255;not null"`
	PhotoURL     string    `json:"photoURL" gorm:"size:512"`
	Phone        string    `json:"phone" gorm:"size:32"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'user';check:role IN ('user','decorator','admin')"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate normalizes the email and defaults the role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsValid checks if the role is one of the known roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleDecorator, RoleAdmin:
		return true
	default:
		return false
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsDecorator() bool {
	return u.Role == RoleDecorator
}

// Actor returns the identity used by core operations
func (u *User) Actor() types.Actor {
	return types.Actor{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

// NormalizeEmail lowercases and trims an email so it can be used as a durable key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterRequest represents the account registration request
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required"`
	PhotoURL    string `json:"photoURL"`
	Phone       string `json:"phone"`
}

// LoginRequest represents the sign in request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdate is the self service profile body. Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Phone       *string `json:"phone"`
}

// RoleUpdate is the admin role change body
type RoleUpdate struct {
	Role UserRole `json:"role" binding:"required"`
}
