package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dataprep/internal/pipeline/adapter/security"
	"dataprep/internal/pipeline/config"
	"dataprep/internal/pipeline/usecase"
	"dataprep/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebSocketTestApp(t *testing.T) (*fiber.App, *security.JWTokenService) {
	t.Helper()

	hash, err := security.HashAdminKey("let-me-in")
	require.NoError(t, err)

	tokens, err := security.NewJWTokenService(&config.AuthConfig{
		JWTSecretKey: "test-secret-key-32-characters-long-12345",
		JWTIssuer:    "test-issuer",
		TokenTTL:     15 * time.Minute,
		AdminKeyHash: hash,
	})
	require.NoError(t, err)

	handler := NewWebSocketHandler(
		usecase.NewRealtimeUsecase(nil), NewAuthMiddleware(tokens), 4, logger.NewLogger())

	app := fiber.New()
	handler.RegisterRoutes(app.Group("/api/v1"))
	return app, tokens
}

func upgradeRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

func TestWebSocketUpgradeRequiresToken(t *testing.T) {
	app, _ := newWebSocketTestApp(t)

	resp, err := app.Test(upgradeRequest("/api/v1/ws/jobs"), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketUpgradeRejectsBadToken(t *testing.T) {
	app, _ := newWebSocketTestApp(t)

	resp, err := app.Test(upgradeRequest("/api/v1/ws/jobs?token=not-a-token"), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketPlainRequestWithTokenNeedsUpgrade(t *testing.T) {
	app, tokens := newWebSocketTestApp(t)

	token, err := tokens.GenerateToken(context.Background(), "viewer", false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws/jobs?token="+token, nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
