package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/config"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"github.com/selimerdal/taskhub-backend/internal/principal"
	"github.com/selimerdal/taskhub-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func protectedApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTProtected(cfg), func(c *fiber.Ctx) error {
		p, err := principal.FromContext(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(p)
	})
	return app
}

func request(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestJWTProtectedAcceptsAccessToken(t *testing.T) {
	cfg := testConfig()
	tokens := services.NewTokenService(cfg)
	app := protectedApp(cfg)

	access, err := tokens.SignAccess(models.Principal{
		ID:       uuid.New(),
		Username: "dana",
		Email:    "dana@example.com",
		Role:     "user",
		UserType: models.UserTypeUser,
		IsActive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, request(t, app, access))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, ""))
}

// Refresh tokens are signed with a separate secret, so presenting one as a
// bearer token fails at the guard regardless of its ledger state.
func TestJWTProtectedRejectsRefreshToken(t *testing.T) {
	cfg := testConfig()
	tokens := services.NewTokenService(cfg)
	app := protectedApp(cfg)

	refresh, err := tokens.SignRefresh(uuid.New(), models.UserTypeUser)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, refresh))
}
