package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the identity carried by a signed access token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
