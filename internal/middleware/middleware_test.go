package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	for _, h := range handlers {
		app.Use(h)
	}
	app.Get("/api/v1/health", func(c *fiber.Ctx) error { return c.SendString("OK") })
	app.Get("/api/v1/exports", func(c *fiber.Ctx) error { return c.SendString("list") })
	return app
}

func doGet(t *testing.T, app *fiber.App, path, key string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAPIKeyMiddleware(t *testing.T) {
	app := newTestApp(NewAPIKeyMiddleware([]string{"secret", " "}, []string{"/api/v1/health"}))

	assert.Equal(t, fiber.StatusUnauthorized, doGet(t, app, "/api/v1/exports", ""))
	assert.Equal(t, fiber.StatusUnauthorized, doGet(t, app, "/api/v1/exports", "wrong"))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", "secret"))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/health", ""))
}

func TestAPIKeyMiddlewareDisabled(t *testing.T) {
	app := newTestApp(NewAPIKeyMiddleware(nil, nil))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", ""))
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(RateLimit(testContext(t), 2, time.Hour))

	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", ""))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", ""))
	assert.Equal(t, fiber.StatusTooManyRequests, doGet(t, app, "/api/v1/exports", ""))
}

func TestRateLimitUnknownBearerCountsByIP(t *testing.T) {
	app := newTestApp(RateLimit(testContext(t), 2, time.Hour))

	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", "r1"))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", "r2"))
	assert.Equal(t, fiber.StatusTooManyRequests, doGet(t, app, "/api/v1/exports", "r3"))
}

func TestRateLimitAfterAPIKey(t *testing.T) {
	app := newTestApp(
		NewAPIKeyMiddleware([]string{"k1", "k2"}, []string{"/api/v1/health"}),
		RateLimit(testContext(t), 1, time.Hour),
	)

	assert.Equal(t, fiber.StatusUnauthorized, doGet(t, app, "/api/v1/exports", "forged"))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", "k1"))
	assert.Equal(t, fiber.StatusTooManyRequests, doGet(t, app, "/api/v1/exports", "k1"))
	// 校验通过的密钥各自计数
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/api/v1/exports", "k2"))
}

func TestStartCleanupStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := NewRateLimiter(1, time.Millisecond).StartCleanup(ctx, time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestRateLimitHeaders(t *testing.T) {
	app := newTestApp(RateLimit(testContext(t), 1, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/exports", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2025, 9, 5, 8, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, remaining, resetAt := rl.allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, now.Add(time.Minute), resetAt)

	ok, _, _ = rl.allow("a")
	assert.True(t, ok)
	ok, remaining, _ = rl.allow("a")
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, _ = rl.allow("b")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, remaining, _ = rl.allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	now = now.Add(2 * time.Minute)
	rl.cleanup()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.windows)
}
