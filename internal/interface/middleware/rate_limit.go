package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/cache"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

const (
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// Limiter はレート制限の判定を行うインターフェースです
type Limiter interface {
	Allow(ctx context.Context, identifier string, config cache.RateLimitConfig) (*cache.RateLimitResult, error)
}

// RateLimitMiddleware はレート制限ミドルウェアを提供します
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware は新しいRateLimitMiddlewareを作成します
// limiterがnilの場合は制限しない
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// ByIP はIPアドレスでレート制限するミドルウェアを返します
func (m *RateLimitMiddleware) ByIP(config cache.RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil || m.limiter == nil {
				return next(c)
			}

			result, err := m.limiter.Allow(c.Request().Context(), c.RealIP(), config)
			if err != nil {
				// Redis障害時は書き込みを止めない
				slog.Warn("rate limit check failed", "request_id", GetRequestID(c), "error", err)
				return next(c)
			}

			setRateLimitHeaders(c, result)

			if !result.Allowed {
				return apperror.NewTooManyRequestsError("rate limit exceeded")
			}

			return next(c)
		}
	}
}

func setRateLimitHeaders(c echo.Context, result *cache.RateLimitResult) {
	c.Response().Header().Set(HeaderRateLimitRemaining, strconv.Itoa(result.Remaining))
	c.Response().Header().Set(HeaderRateLimitReset, result.ResetAt.UTC().Format(time.RFC3339))
}
