package di

import (
	"github.com/Vladislavlhp7/data-lineage/internal/interface/handler"
)

// Handlers はアプリケーションのハンドラーを保持します
type Handlers struct {
	Health   *handler.HealthHandler
	Document *handler.DocumentHandler
}

// NewHandlers はContainerから全てのハンドラーを初期化します
func NewHandlers(c *Container) *Handlers {
	healthHandler := handler.NewHealthHandler()
	healthHandler.RegisterChecker(c.DatabaseDriver(), c.DatabaseHealth())
	if c.StorageHealth != nil {
		healthHandler.RegisterChecker("storage", c.StorageHealth)
	}
	if c.RedisClient != nil {
		healthHandler.RegisterChecker("redis", c.RedisClient)
	}

	return &Handlers{
		Health:   healthHandler,
		Document: newDocumentHandler(c),
	}
}

// NewHandlersForTest はテスト用にハンドラーを初期化します（HealthHandlerなし）
func NewHandlersForTest(c *Container) *Handlers {
	return &Handlers{
		Health:   nil,
		Document: newDocumentHandler(c),
	}
}

func newDocumentHandler(c *Container) *handler.DocumentHandler {
	return handler.NewDocumentHandler(
		c.Documents.Upload,
		c.Documents.Modify,
		c.Documents.Delete,
		c.Documents.Get,
		c.Documents.List,
		c.Documents.ListVersions,
		c.Documents.Compare,
	)
}
