package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteClient はSQLiteへの接続を管理する
type SQLiteClient struct {
	db *sqlx.DB
}

// NewSQLiteClient は新しいSQLiteClientを作成する
// dsn はファイルパス、file: URI、または ":memory:"
func NewSQLiteClient(ctx context.Context, dsn string) (*SQLiteClient, error) {
	if path := sqliteFilePath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// 単一接続: 書き込みを直列化し、PRAGMAを接続全体で有効にする
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// DB はsqlxのハンドルを返す
func (c *SQLiteClient) DB() *sqlx.DB {
	return c.db
}

// Close は接続を閉じる
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// Health はデータベースのヘルスチェックを行う
func (c *SQLiteClient) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// sqliteFilePath はDSNからディレクトリ作成が必要なファイルパスを取り出す
func sqliteFilePath(dsn string) string {
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	path, _, _ = strings.Cut(path, "?")
	return path
}
