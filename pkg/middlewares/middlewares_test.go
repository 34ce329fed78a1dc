package middlewares

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]uint

func (s stubResolver) Resolve(token string) (uint, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func newApp(pool *LimiterPool) *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware(stubResolver{"good": 7}))
	if pool != nil {
		app.Use(UserRateLimiter(pool))
	}
	app.Get("/me", func(c *fiber.Ctx) error {
		id, _ := UserID(c)
		return c.SendString(strconv.FormatUint(uint64(id), 10))
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	app := newApp(nil)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "7", string(body))
	})

	t.Run("query fallback", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me?auth=good", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: CookieToken, Value: "good"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUserRateLimiter(t *testing.T) {
	app := newApp(NewLimiterPool(0.001, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestLimiterPoolKeysAreIndependent(t *testing.T) {
	pool := NewLimiterPool(0.001, 1)
	assert.True(t, pool.Allow("a"))
	assert.False(t, pool.Allow("a"))
	assert.True(t, pool.Allow("b"))
}

func TestLimiterPoolEvictsIdleKeys(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pool := NewLimiterPool(0.001, 1)
	pool.now = func() time.Time { return now }

	assert.True(t, pool.Allow("idle"))
	assert.True(t, pool.Allow("busy"))
	require.Len(t, pool.m, 2)

	now = now.Add(9 * time.Minute)
	assert.False(t, pool.Allow("busy"))

	now = now.Add(2 * time.Minute)
	assert.False(t, pool.Allow("busy"))
	assert.Len(t, pool.m, 1)
	_, ok := pool.m["idle"]
	assert.False(t, ok)

	// evicted key starts with a fresh bucket
	assert.True(t, pool.Allow("idle"))
}
