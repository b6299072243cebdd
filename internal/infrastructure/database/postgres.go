package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

const (
	pgMaxConnLifetime   = time.Hour
	pgMaxConnIdleTime   = 15 * time.Minute
	pgHealthCheckPeriod = time.Minute
	pgConnectTimeout    = 10 * time.Second
)

// PostgresClient はPostgreSQLのコネクションプールを保持します
type PostgresClient struct {
	pool *pgxpool.Pool
}

// NewPostgresClient はDB設定からプールを作成し、疎通を確認します
func NewPostgresClient(ctx context.Context, cfg config.DatabaseConfig) (*PostgresClient, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MaxConnLifetime = pgMaxConnLifetime
	poolCfg.MaxConnIdleTime = pgMaxConnIdleTime
	poolCfg.HealthCheckPeriod = pgHealthCheckPeriod
	poolCfg.ConnConfig.ConnectTimeout = pgConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{pool: pool}, nil
}

// Pool はコネクションプールを返します
func (c *PostgresClient) Pool() *pgxpool.Pool {
	return c.pool
}

// SQLDB はgoose用にプールを共有するdatabase/sqlハンドルを返します
// 呼び出し側でCloseすること
func (c *PostgresClient) SQLDB() *sql.DB {
	return stdlib.OpenDBFromPool(c.pool)
}

func (c *PostgresClient) Close() {
	c.pool.Close()
}

// Health はヘルスチェック用にPingします
func (c *PostgresClient) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}
