package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// readyCheckTimeout は依存サービス1件あたりのチェック上限です
const readyCheckTimeout = 3 * time.Second

// HealthChecker はヘルスチェックを実行するインターフェースです
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler はヘルスチェック関連のHTTPハンドラーです
type HealthHandler struct {
	checkers map[string]HealthChecker
}

// NewHealthHandler は新しいHealthHandlerを作成します
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers: make(map[string]HealthChecker),
	}
}

// RegisterChecker はヘルスチェッカーを登録します（nilは無視）
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	if checker == nil {
		return
	}
	h.checkers[name] = checker
}

// HealthResponse はヘルスチェックレスポンスを定義します
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse はレディネスチェックレスポンスを定義します
type ReadyResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services,omitempty"`
}

// ServiceStatus はサービスのステータスを定義します
type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check はライブネスチェックを実行します
// GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready はDB・ストレージ・キャッシュの疎通を並列に確認します
// GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	var (
		mu       sync.Mutex
		services = make(map[string]ServiceStatus, len(h.checkers))
		healthy  = true
	)

	g, ctx := errgroup.WithContext(c.Request().Context())
	for name, checker := range h.checkers {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, readyCheckTimeout)
			defer cancel()

			status := ServiceStatus{Status: "healthy"}
			if err := checker.Health(checkCtx); err != nil {
				status = ServiceStatus{Status: "unhealthy", Message: err.Error()}
			}

			mu.Lock()
			defer mu.Unlock()
			services[name] = status
			if status.Status != "healthy" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, ReadyResponse{Status: "not_ready", Services: services})
	}
	return c.JSON(http.StatusOK, ReadyResponse{Status: "ready", Services: services})
}
