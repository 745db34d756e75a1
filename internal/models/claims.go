package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserClaims is the identity context supplied by the authentication
// collaborator. The core only consumes UserID and Role.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller carries the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
