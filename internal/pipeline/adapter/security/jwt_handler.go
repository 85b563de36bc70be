package security

import (
	"context"
	"errors"
	"time"

	"dataprep/internal/pipeline/config"
	"dataprep/internal/pipeline/domain/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrAdminKeyInvalid       = errors.New("admin key is invalid")
)

// JWTokenService implements JWT token generation and validation.
type JWTokenService struct {
	secretKey    []byte
	issuer       string
	ttl          time.Duration
	adminKeyHash []byte
}

// NewJWTokenService creates a new JWT token service.
func NewJWTokenService(cfg *config.AuthConfig) (*JWTokenService, error) {
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret key cannot be empty")
	}
	if cfg.JWTIssuer == "" {
		return nil, errors.New("jwt issuer cannot be empty")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("jwt token TTL must be positive")
	}

	return &JWTokenService{
		secretKey:    []byte(cfg.JWTSecretKey),
		issuer:       cfg.JWTIssuer,
		ttl:          cfg.TokenTTL,
		adminKeyHash: []byte(cfg.AdminKeyHash),
	}, nil
}

// GenerateToken issues a token for the given subject.
func (s *JWTokenService) GenerateToken(ctx context.Context, subject string, admin bool) (string, error) {
	now := time.Now()
	claims := &repository.Claims{
		Subject: subject,
		Admin:   admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken validates a token string and returns its claims.
func (s *JWTokenService) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &repository.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignatureInvalid
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenSignatureInvalid
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*repository.Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// CheckAdminKey compares a presented admin key against the configured
// bcrypt hash.
func (s *JWTokenService) CheckAdminKey(key string) error {
	if len(s.adminKeyHash) == 0 {
		return errors.New("admin key is not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.adminKeyHash, []byte(key)); err != nil {
		return ErrAdminKeyInvalid
	}
	return nil
}

// HashAdminKey derives the bcrypt hash to configure for an admin key.
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
