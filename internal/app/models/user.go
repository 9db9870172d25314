package models

import (
	"time"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent        RoleType = "student"
	RoleIndustryExpert RoleType = "industry_expert"
)

// IsValid reports whether the role is one of the known roles
func (r RoleType) IsValid() bool {
	return r == RoleStudent || r == RoleIndustryExpert
}

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id"`
	FullName    string     `json:"fullName" db:"full_name"`
	Email       string     `json:"email" db:"email"`
	Password    string     `json:"-" db:"password_hash"`
	RoleType    RoleType   `json:"role" db:"role"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
