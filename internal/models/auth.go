package models

import "github.com/golang-jwt/jwt/v5"

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// JWTClaims represents the JWT payload for access tokens. Subject carries the user id.
type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
