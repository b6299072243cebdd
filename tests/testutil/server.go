package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/cache"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/di"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/storage"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/router"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/server"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

// TestServer holds all test server dependencies
type TestServer struct {
	Echo      *echo.Echo
	Container *di.Container
	Fs        afero.Fs
}

// ServerOption customizes the test server
type ServerOption func(*serverOptions)

type serverOptions struct {
	summaryBackend service.SummaryBackend
	redisClient    *cache.RedisClient
	fs             afero.Fs
}

// WithSummaryBackend plugs an external summarizer into the ledger
func WithSummaryBackend(b service.SummaryBackend) ServerOption {
	return func(o *serverOptions) { o.summaryBackend = b }
}

// WithRedis enables the latest-version cache and rate limiting
func WithRedis(c *cache.RedisClient) ServerOption {
	return func(o *serverOptions) { o.redisClient = c }
}

// WithFs replaces the in-memory filesystem backing the content store
func WithFs(fs afero.Fs) ServerOption {
	return func(o *serverOptions) { o.fs = fs }
}

// TestAppConfig returns an application config suitable for tests
func TestAppConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BodyLimit: "10MB"},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
		},
		Storage: config.StorageConfig{
			Backend:   config.StorageBackendLocal,
			LocalRoot: "/versions",
		},
		Redis:      config.RedisConfig{LatestTTL: time.Minute},
		Summarizer: config.SummarizerConfig{Timeout: time.Second},
		Worker:     config.WorkerConfig{OrphanGracePeriod: 10 * time.Minute},
	}
}

// NewTestServer creates a fully wired server backed by a temporary SQLite
// database and an in-memory content store
func NewTestServer(t *testing.T, opts ...ServerOption) *TestServer {
	t.Helper()

	o := serverOptions{fs: afero.NewMemMapFs()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := TestAppConfig()
	client, _ := NewSQLiteTestDB(t)

	container, err := di.NewContainerWithOptions(context.Background(), cfg, di.Options{
		SQLiteClient:   client,
		ContentStore:   storage.NewLocalContentStore(o.fs, cfg.Storage.LocalRoot),
		RedisClient:    o.redisClient,
		SummaryBackend: o.summaryBackend,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return newTestServer(container, cfg, o.fs)
}

// NewPostgresTestServer creates a server backed by TEST_DATABASE_URL
// Skips unless INTEGRATION_TEST=true
func NewPostgresTestServer(t *testing.T, opts ...ServerOption) *TestServer {
	t.Helper()
	RequireIntegration(t)

	o := serverOptions{fs: afero.NewMemMapFs()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := TestAppConfig()
	cfg.Database = config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		URL:      DefaultTestConfig().DatabaseURL,
		MaxConns: 8,
	}

	container, err := di.NewContainerWithOptions(context.Background(), cfg, di.Options{
		ContentStore:   storage.NewLocalContentStore(o.fs, cfg.Storage.LocalRoot),
		RedisClient:    o.redisClient,
		SummaryBackend: o.summaryBackend,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	require.NoError(t, container.Migrate())

	return newTestServer(container, cfg, o.fs)
}

func newTestServer(container *di.Container, cfg *config.Config, fs afero.Fs) *TestServer {
	srv := server.NewServer(server.ConfigFrom(cfg.Server))
	router.NewRouter(srv.Echo(), di.NewHandlers(container), di.NewMiddlewares(container)).Setup()

	return &TestServer{
		Echo:      srv.Echo(),
		Container: container,
		Fs:        fs,
	}
}

// Cleanup resets persisted state between tests (Postgres only)
func (s *TestServer) Cleanup(t *testing.T) {
	t.Helper()
	if s.Container.PgClient != nil {
		TruncateTables(t, s.Container.PgClient.Pool(), "file_versions", "files")
	}
}
