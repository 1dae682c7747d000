package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password,omitempty"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Claims struct {
	UserID     string
	UserName   string
	UserEmail  string
	UserRole   Role
	UserActive bool
	jwt.RegisteredClaims
}

// UpdateUserRequest traz apenas os campos que devem ser alterados
type UpdateUserRequest struct {
	ID     string  `json:"-"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *Role   `json:"role"`
	Active *bool   `json:"active"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSeller
}
