package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/cache"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/di"
)

// Router はルート定義を管理します
type Router struct {
	echo        *echo.Echo
	handlers    *di.Handlers
	middlewares *di.Middlewares
}

// NewRouter は新しいRouterを作成します
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares) *Router {
	return &Router{
		echo:        e,
		handlers:    handlers,
		middlewares: middlewares,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupDocumentRoutes(r.echo.Group("/api/v1"))
}

func (r *Router) setupHealthRoutes() {
	if r.handlers.Health == nil {
		return
	}
	r.echo.GET("/health", r.handlers.Health.Check)
	r.echo.GET("/ready", r.handlers.Health.Ready)
}

// setupDocumentRoutes はドキュメント関連ルートを設定します
// 書き込み系のみレート制限を掛ける
func (r *Router) setupDocumentRoutes(api *echo.Group) {
	h := r.handlers.Document
	writeLimit := r.middlewares.RateLimit.ByIP(cache.RateLimitDocumentWrite)

	files := api.Group("/files")
	files.POST("", h.Upload, writeLimit)
	files.GET("", h.List)
	files.GET("/:id", h.Get)
	files.PUT("/:id", h.Modify, writeLimit)
	files.DELETE("/:id", h.Delete, writeLimit)
	files.GET("/:id/versions", h.ListVersions)
	files.GET("/:id/versions/:version", h.GetVersion)
	files.GET("/:id/diff", h.Compare)
}
