package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the bearer token payload issued by the account service.
type Claims struct {
	jwt.RegisteredClaims        // sub, iss, aud, exp, iat
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	Plan                 Plan   `json:"plan,omitempty"`
}

// GetUserID returns the user ID from the subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
