package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// dialectMap はドライバ名をgooseのダイアレクト名に対応付ける
var dialectMap = map[string]string{
	"sqlite":   "sqlite3",
	"postgres": "postgres",
}

// setupGoose はダイアレクトとマイグレーションのファイルシステムを設定する
func setupGoose(driver string) error {
	dialect, ok := dialectMap[driver]
	if !ok {
		return fmt.Errorf("unsupported migration driver: %s", driver)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(migrationsDir)
	return nil
}

// RunMigrations は未適用のマイグレーションを全て適用する
func RunMigrations(db *sql.DB, driver string) error {
	if err := setupGoose(driver); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully", "driver", driver)
	return nil
}

// MigrateDown は直近のマイグレーションを1つ戻す
func MigrateDown(db *sql.DB, driver string) error {
	if err := setupGoose(driver); err != nil {
		return err
	}
	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("rolled back one migration", "driver", driver)
	return nil
}

// MigrationStatus は各マイグレーションの適用状況をログに出力する
func MigrationStatus(db *sql.DB, driver string) error {
	if err := setupGoose(driver); err != nil {
		return err
	}
	return goose.Status(db, ".")
}

// MigrationVersion は現在のスキーマバージョンを返す
func MigrationVersion(db *sql.DB, driver string) (int64, error) {
	if err := setupGoose(driver); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}
