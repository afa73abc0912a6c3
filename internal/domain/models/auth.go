package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the JWT claims the API trusts after JWKS verification.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
