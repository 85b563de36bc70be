package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by API tokens.
type Claims struct {
	Subject string `json:"sub_name"`
	Admin   bool   `json:"admin"`
	jwt.RegisteredClaims
}

// TokenService issues and validates API tokens.
type TokenService interface {
	GenerateToken(ctx context.Context, subject string, admin bool) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}
