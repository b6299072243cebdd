package di

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/repository"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/cache"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/database"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/extractor"
	infraRepo "github.com/Vladislavlhp7/data-lineage/internal/infrastructure/repository"
	sqliteRepo "github.com/Vladislavlhp7/data-lineage/internal/infrastructure/repository/sqlite"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/storage"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/summarizer/openai"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient      *database.PostgresClient
	SQLiteClient  *database.SQLiteClient
	RedisClient   *cache.RedisClient
	StorageHealth storage.HealthChecker
	TxManager     repository.TransactionManager

	// Repositories
	FileRepo        repository.FileRepository
	FileVersionRepo repository.FileVersionRepository

	// Services
	ContentStore service.ContentStore
	Extractor    service.TextExtractor
	Differ       service.DiffEngine
	Summarizer   service.ChangeSummarizer
	LatestCache  service.LatestVersionCache
	RateLimiter  *cache.RateLimiter
	Ledger       service.VersionLedger

	// Document UseCases
	Documents *DocumentUseCases

	// config
	config *config.Config
}

// Options はContainer作成時のオプションを定義します
// 指定した依存は設定から作成せずそのまま使う
type Options struct {
	SQLiteClient   *database.SQLiteClient
	ContentStore   service.ContentStore
	RedisClient    *cache.RedisClient
	SummaryBackend service.SummaryBackend
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(ctx, cfg, Options{})
}

// NewContainerWithOptions はオプションを指定してContainerを作成します
func NewContainerWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{
		config: cfg,
	}

	if err := c.initDatabase(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}

	// Content Store
	if opts.ContentStore != nil {
		c.ContentStore = opts.ContentStore
	} else {
		slog.Info("initializing content store...", "backend", cfg.Storage.Backend)
		store, health, err := storage.NewContentStore(ctx, cfg.Storage)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize content store: %w", err)
		}
		c.ContentStore = store
		c.StorageHealth = health
		slog.Info("content store ready", "backend", cfg.Storage.Backend)
	}

	// Redis（任意）
	if err := c.initCache(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}

	// Summarizer
	c.Summarizer = service.NewLocalChangeSummarizer()
	backend := opts.SummaryBackend
	if backend == nil && cfg.Summarizer.APIKey != "" {
		client, err := openai.NewClient(cfg.Summarizer)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize summarizer: %w", err)
		}
		backend = client
	}
	if backend != nil {
		c.Summarizer = service.NewFallbackChangeSummarizer(backend, cfg.Summarizer.Timeout)
		slog.Info("external summarizer enabled", "model", cfg.Summarizer.Model)
	}

	c.Extractor = extractor.NewTextExtractor()
	c.Differ = service.NewDiffEngine()
	c.Ledger = service.NewVersionLedger(
		c.FileRepo,
		c.FileVersionRepo,
		c.TxManager,
		c.ContentStore,
		c.Differ,
		c.Summarizer,
	)
	c.Documents = NewDocumentUseCases(c)

	return c, nil
}

// initDatabase は設定されたドライバーでDB接続とリポジトリを初期化します
func (c *Container) initDatabase(ctx context.Context, opts Options) error {
	if opts.SQLiteClient != nil {
		c.useSQLite(opts.SQLiteClient)
		return nil
	}

	switch c.config.Database.Driver {
	case config.DriverSQLite:
		slog.Info("opening SQLite database...")
		client, err := database.NewSQLiteClient(ctx, c.config.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to open SQLite: %w", err)
		}
		c.SQLiteClient = client
		c.useSQLite(client)
		slog.Info("opened SQLite database")

	default:
		slog.Info("connecting to PostgreSQL...")
		pgClient, err := database.NewPostgresClient(ctx, c.config.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		c.PgClient = pgClient
		txManager := database.NewTxManager(pgClient.Pool())
		c.TxManager = txManager
		c.FileRepo = infraRepo.NewFileRepository(txManager)
		c.FileVersionRepo = infraRepo.NewFileVersionRepository(txManager)
		slog.Info("connected to PostgreSQL")
	}
	return nil
}

func (c *Container) useSQLite(client *database.SQLiteClient) {
	txManager := database.NewSQLiteTxManager(client.DB())
	c.TxManager = txManager
	c.FileRepo = sqliteRepo.NewFileRepository(txManager)
	c.FileVersionRepo = sqliteRepo.NewFileVersionRepository(txManager)
	if c.SQLiteClient == nil {
		c.SQLiteClient = client
	}
}

// initCache はRedisが設定されている場合のみキャッシュとレート制限を有効にします
func (c *Container) initCache(ctx context.Context, opts Options) error {
	c.LatestCache = service.NewNoopLatestVersionCache()

	client := opts.RedisClient
	if client == nil {
		if c.config.Redis.URL == "" {
			slog.Info("redis not configured, latest-version cache and rate limiting disabled")
			return nil
		}
		slog.Info("connecting to Redis...")
		var err error
		client, err = cache.NewRedisClient(ctx, cache.NewConfig(c.config.Redis.URL))
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = client
		slog.Info("connected to Redis")
	}

	c.LatestCache = cache.NewRedisLatestVersionCache(client, c.config.Redis.LatestTTL)
	c.RateLimiter = cache.NewRateLimiter(client)
	return nil
}

// DatabaseDriver は使用中のDBドライバー名を返します
func (c *Container) DatabaseDriver() string {
	if c.PgClient != nil {
		return config.DriverPostgres
	}
	return config.DriverSQLite
}

// DatabaseHealth は使用中のDBのヘルスチェッカーを返します
func (c *Container) DatabaseHealth() storage.HealthChecker {
	if c.PgClient != nil {
		return c.PgClient
	}
	return c.SQLiteClient
}

// SQLDB はマイグレーション用のdatabase/sqlハンドルを返します
// 戻り値のcloseは必ず呼び出すこと
func (c *Container) SQLDB() (*sql.DB, func()) {
	if c.PgClient != nil {
		db := c.PgClient.SQLDB()
		return db, func() { _ = db.Close() }
	}
	return c.SQLiteClient.DB().DB, func() {}
}

// Migrate は未適用のマイグレーションを適用します
func (c *Container) Migrate() error {
	db, closeDB := c.SQLDB()
	defer closeDB()
	return database.RunMigrations(db, c.DatabaseDriver())
}

// Close はリソースをクリーンアップします
func (c *Container) Close() error {
	var errs []error

	if c.PgClient != nil {
		c.PgClient.Close()
	}

	if c.SQLiteClient != nil {
		if err := c.SQLiteClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close SQLite: %w", err))
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
