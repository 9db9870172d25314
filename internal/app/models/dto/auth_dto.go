package dto

import (
	"time"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	FullName string          `json:"fullName" binding:"required,min=2,max=100"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,strongpassword"`
	Role     models.RoleType `json:"role" binding:"required,role"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID          int64      `json:"id"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AuthResponse represents a successful registration or login
type AuthResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"tokenType" example:"Bearer"`
	ExpiresIn int64            `json:"expiresIn"`
	User      UserResponse     `json:"user"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}

// MeResponse is the current user with their profile
type MeResponse struct {
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
}

// FromUser converts a models.User into a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		Role:        string(user.RoleType),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
