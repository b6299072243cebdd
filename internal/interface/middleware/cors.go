package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORS は許可オリジンを指定したCORSミドルウェアを返します
// 空の場合はすべてのオリジンを許可する
func CORS(allowOrigins []string) echo.MiddlewareFunc {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, HeaderRequestID},
		ExposeHeaders: []string{
			HeaderRequestID,
			HeaderRateLimitRemaining,
			HeaderRateLimitReset,
		},
		MaxAge: 86400,
	})
}
