package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uint
	Username    string
	IsStaff     bool
	IsSuperuser bool
	Permissions []string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	IsStaff     bool     `json:"is_staff"`
	IsSuperuser bool     `json:"is_superuser"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// HasPerm reports whether the claims carry the named permission. Superusers
// implicitly hold every permission.
func (c *AccessTokenClaims) HasPerm(perm string) bool {
	if c == nil {
		return false
	}
	if c.IsSuperuser {
		return true
	}
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
