package security_test

import (
	"context"
	"testing"
	"time"

	"dataprep/internal/pipeline/adapter/security"
	"dataprep/internal/pipeline/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type JWTTestSuite struct {
	suite.Suite
	config  *config.AuthConfig
	service *security.JWTokenService
}

func (suite *JWTTestSuite) SetupTest() {
	hash, err := security.HashAdminKey("let-me-in")
	require.NoError(suite.T(), err)

	suite.config = &config.AuthConfig{
		JWTSecretKey: "test-secret-key-32-characters-long-12345",
		JWTIssuer:    "test-issuer",
		TokenTTL:     15 * time.Minute,
		AdminKeyHash: hash,
	}

	service, err := security.NewJWTokenService(suite.config)
	require.NoError(suite.T(), err)
	suite.service = service
}

func (suite *JWTTestSuite) TestNewJWTokenService_ValidationErrors() {
	testCases := []struct {
		name         string
		modifyConfig func(*config.AuthConfig)
		expectedErr  string
	}{
		{
			name:         "empty secret key",
			modifyConfig: func(cfg *config.AuthConfig) { cfg.JWTSecretKey = "" },
			expectedErr:  "jwt secret key cannot be empty",
		},
		{
			name:         "empty issuer",
			modifyConfig: func(cfg *config.AuthConfig) { cfg.JWTIssuer = "" },
			expectedErr:  "jwt issuer cannot be empty",
		},
		{
			name:         "zero TTL",
			modifyConfig: func(cfg *config.AuthConfig) { cfg.TokenTTL = 0 },
			expectedErr:  "jwt token TTL must be positive",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			cfg := *suite.config
			tc.modifyConfig(&cfg)

			service, err := security.NewJWTokenService(&cfg)

			assert.Error(suite.T(), err)
			assert.Nil(suite.T(), service)
			assert.Contains(suite.T(), err.Error(), tc.expectedErr)
		})
	}
}

func (suite *JWTTestSuite) TestGenerateToken_Claims() {
	ctx := context.Background()

	tokenString, err := suite.service.GenerateToken(ctx, "api-client", true)
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), tokenString)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(suite.config.JWTSecretKey), nil
	})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "api-client", claims["sub_name"])
	assert.Equal(suite.T(), true, claims["admin"])
	assert.Equal(suite.T(), suite.config.JWTIssuer, claims["iss"])
}

func (suite *JWTTestSuite) TestGenerateAndValidateToken_RoundTrip() {
	ctx := context.Background()

	tokenString, err := suite.service.GenerateToken(ctx, "api-client", false)
	require.NoError(suite.T(), err)

	claims, err := suite.service.ValidateToken(ctx, tokenString)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "api-client", claims.Subject)
	assert.False(suite.T(), claims.Admin)
	assert.Equal(suite.T(), suite.config.JWTIssuer, claims.Issuer)
}

func (suite *JWTTestSuite) TestValidateToken_InvalidSignature() {
	ctx := context.Background()

	differentConfig := *suite.config
	differentConfig.JWTSecretKey = "different-secret-key-32-chars-long"
	differentService, err := security.NewJWTokenService(&differentConfig)
	require.NoError(suite.T(), err)

	tokenString, err := differentService.GenerateToken(ctx, "api-client", false)
	require.NoError(suite.T(), err)

	claims, err := suite.service.ValidateToken(ctx, tokenString)
	assert.Nil(suite.T(), claims)
	assert.Equal(suite.T(), security.ErrTokenSignatureInvalid, err)
}

func (suite *JWTTestSuite) TestValidateToken_WrongIssuer() {
	ctx := context.Background()

	otherIssuer := *suite.config
	otherIssuer.JWTIssuer = "someone-else"
	otherService, err := security.NewJWTokenService(&otherIssuer)
	require.NoError(suite.T(), err)

	tokenString, err := otherService.GenerateToken(ctx, "api-client", false)
	require.NoError(suite.T(), err)

	claims, err := suite.service.ValidateToken(ctx, tokenString)
	assert.Nil(suite.T(), claims)
	assert.Equal(suite.T(), security.ErrTokenInvalid, err)
}

func (suite *JWTTestSuite) TestValidateToken_ExpiredToken() {
	ctx := context.Background()

	shortConfig := *suite.config
	shortConfig.TokenTTL = 1 * time.Millisecond
	shortService, err := security.NewJWTokenService(&shortConfig)
	require.NoError(suite.T(), err)

	tokenString, err := shortService.GenerateToken(ctx, "api-client", false)
	require.NoError(suite.T(), err)

	time.Sleep(10 * time.Millisecond)

	claims, err := shortService.ValidateToken(ctx, tokenString)
	assert.Nil(suite.T(), claims)
	assert.Equal(suite.T(), security.ErrTokenExpired, err)
}

func (suite *JWTTestSuite) TestValidateToken_MalformedTokens() {
	ctx := context.Background()

	testCases := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"invalid format", "invalid.token.format"},
		{"malformed jwt", "header.payload"},
		{"random string", "not-a-jwt-token"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			claims, err := suite.service.ValidateToken(ctx, tc.token)
			assert.Nil(suite.T(), claims)
			assert.Equal(suite.T(), security.ErrTokenInvalid, err)
		})
	}
}

func (suite *JWTTestSuite) TestCheckAdminKey() {
	assert.NoError(suite.T(), suite.service.CheckAdminKey("let-me-in"))
	assert.Equal(suite.T(), security.ErrAdminKeyInvalid, suite.service.CheckAdminKey("wrong-key"))
}

func (suite *JWTTestSuite) TestCheckAdminKey_Unconfigured() {
	cfg := *suite.config
	cfg.AdminKeyHash = ""
	service, err := security.NewJWTokenService(&cfg)
	require.NoError(suite.T(), err)

	err = service.CheckAdminKey("anything")
	assert.ErrorContains(suite.T(), err, "not configured")
}

func TestJWTTestSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
