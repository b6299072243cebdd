package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/cache"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/middleware"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

type fakeLimiter struct {
	result *cache.RateLimitResult
	err    error
	calls  int
}

func (f *fakeLimiter) Allow(context.Context, string, cache.RateLimitConfig) (*cache.RateLimitResult, error) {
	f.calls++
	return f.result, f.err
}

func serveLimited(t *testing.T, m *middleware.RateLimitMiddleware) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := m.ByIP(cache.RateLimitDocumentWrite)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusNoContent)
	})
	err := h(c)
	return rec, called, err
}

func TestRateLimitMiddleware_ByIP(t *testing.T) {
	resetAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("allowed sets headers", func(t *testing.T) {
		limiter := &fakeLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 7, ResetAt: resetAt}}

		rec, called, err := serveLimited(t, middleware.NewRateLimitMiddleware(limiter))

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "7", rec.Header().Get(middleware.HeaderRateLimitRemaining))
		assert.Equal(t, "2026-01-02T03:04:05Z", rec.Header().Get(middleware.HeaderRateLimitReset))
	})

	t.Run("blocked returns 429", func(t *testing.T) {
		limiter := &fakeLimiter{result: &cache.RateLimitResult{Allowed: false, ResetAt: resetAt}}

		rec, called, err := serveLimited(t, middleware.NewRateLimitMiddleware(limiter))

		assert.False(t, called)
		assert.True(t, apperror.Is(err, apperror.CodeRateLimitExceeded))
		assert.Equal(t, "0", rec.Header().Get(middleware.HeaderRateLimitRemaining))
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		limiter := &fakeLimiter{err: errors.New("connection refused")}

		_, called, err := serveLimited(t, middleware.NewRateLimitMiddleware(limiter))

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, 1, limiter.calls)
	})

	t.Run("nil limiter disables limiting", func(t *testing.T) {
		_, called, err := serveLimited(t, middleware.NewRateLimitMiddleware(nil))

		require.NoError(t, err)
		assert.True(t, called)
	})
}
