package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Vladislavlhp7/data-lineage/internal/interface/middleware"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/validator"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

// Config はサーバー設定を定義します
type Config struct {
	Host            string        // ホスト (default: "")
	Port            int           // ポート (default: 8080)
	ReadTimeout     time.Duration // 読み取りタイムアウト (default: 30s)
	WriteTimeout    time.Duration // 書き込みタイムアウト (default: 60s、外部要約の待ち時間を含む)
	ShutdownTimeout time.Duration // シャットダウンタイムアウト (default: 10s)
	BodyLimit       string        // リクエストボディ制限 (default: "10MB")
	CORSOrigins     []string
	Debug           bool
}

// DefaultConfig はデフォルト設定を返します
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		BodyLimit:       "10MB",
	}
}

// ConfigFrom はアプリケーション設定からサーバー設定を組み立てます
func ConfigFrom(cfg config.ServerConfig) Config {
	c := DefaultConfig()
	c.Port = cfg.Port
	c.Debug = cfg.Debug
	c.CORSOrigins = cfg.CORSOrigins
	if cfg.BodyLimit != "" {
		c.BodyLimit = cfg.BodyLimit
	}
	return c
}

// Server はHTTPサーバーを提供します
type Server struct {
	echo   *echo.Echo
	config Config
}

// NewServer は共通ミドルウェアを設定済みのServerを作成します
func NewServer(cfg Config) *Server {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS(cfg.CORSOrigins))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))

	return &Server{
		echo:   e,
		config: cfg,
	}
}

// Echo は内部のecho.Echoを返します
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Config は設定を返します
func (s *Server) Config() Config {
	return s.config
}

// Start はサーバーを開始します。Shutdownによる停止はエラーとしない
func (s *Server) Start() error {
	if err := s.echo.Start(s.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown はサーバーを停止します
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Address はサーバーのアドレスを返します
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
