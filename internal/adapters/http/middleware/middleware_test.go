package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gadgethub-api/internal/adapters/cache"
	"gadgethub-api/internal/config"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRateLimiter_SharedRedisCounters(t *testing.T) {
	mr := miniredis.RunT(t)
	storage := cache.NewRedisStorage(cache.NewRedisClient(mr.Addr(), "", 0), "test:")

	app := fiber.New()
	app.Post("/login", AuthRateLimiter(storage), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, mr.Keys())
}

func TestAuthMiddleware_RoleGate(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "access"}}

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/root", AuthMiddleware(cfg), RootOnly(), func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		require.True(t, ok)
		return c.SendString(actor.Branch)
	})

	get := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/root", nil)
		if token != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	rootToken, err := jwt.GenerateAccessToken(1, "root@gmail.com", string(domain.RoleRoot), domain.BranchHQ, "access", 5)
	require.NoError(t, err)
	agentToken, err := jwt.GenerateAccessToken(2, "agent@gmail.com", string(domain.RoleAgent), domain.BranchBandung, "access", 5)
	require.NoError(t, err)
	foreign, err := jwt.GenerateAccessToken(1, "root@gmail.com", string(domain.RoleRoot), domain.BranchHQ, "other-secret", 5)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(""))
	assert.Equal(t, http.StatusUnauthorized, get(foreign))
	assert.Equal(t, http.StatusForbidden, get(agentToken))
	assert.Equal(t, http.StatusOK, get(rootToken))
}

func TestCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/public", PublicCache(30*time.Second), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/private", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=30", resp.Header.Get(fiber.HeaderCacheControl))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/private", nil), -1)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "no-store")
}
