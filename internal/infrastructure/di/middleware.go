package di

import (
	"github.com/Vladislavlhp7/data-lineage/internal/interface/middleware"
)

// Middlewares はアプリケーションのミドルウェアを保持します
type Middlewares struct {
	RateLimit *middleware.RateLimitMiddleware
}

// NewMiddlewares はContainerから全てのミドルウェアを初期化します
// Redisが無効な場合、レート制限は素通しになる
func NewMiddlewares(c *Container) *Middlewares {
	var limiter middleware.Limiter
	if c.RateLimiter != nil {
		limiter = c.RateLimiter
	}
	return &Middlewares{
		RateLimit: middleware.NewRateLimitMiddleware(limiter),
	}
}
