package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vladislavlhp7/data-lineage/pkg/logger"
)

// Logger はリクエストロギングミドルウェアを返します
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// ステータスを確定させてから記録する
				c.Error(err)
			}

			req := c.Request()
			logger.Info(req.Context(), "request",
				"method", req.Method,
				"uri", req.RequestURI,
				"route", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
				"bytes_in", req.ContentLength,
				"bytes_out", c.Response().Size,
			)

			return nil
		}
	}
}
