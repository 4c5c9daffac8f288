package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// represents the claims the gateway reads from a session token. The token is
// minted by the hosted auth service; "sub" is the stable user identifier.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// returns the stable user identifier carried by the token
func (c *Claims) UserID() string {
	return c.Subject
}
