package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the verified identity attached to a request by the auth middleware.
type AppClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *AppClaims) IsAdmin() bool {
	return c != nil && c.Role == string(RoleAdmin)
}
