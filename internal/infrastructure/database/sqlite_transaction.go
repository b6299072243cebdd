package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteTxKey はSQLiteトランザクションをコンテキストに保持するためのキー
type sqliteTxKey struct{}

// SQLiteQuerier は*sqlx.DBと*sqlx.Txの共通インターフェース
type SQLiteQuerier interface {
	sqlx.ExtContext
}

// SQLiteTxManager はSQLiteのトランザクションを管理する
type SQLiteTxManager struct {
	db *sqlx.DB
}

// NewSQLiteTxManager は新しいSQLiteTxManagerを作成する
func NewSQLiteTxManager(db *sqlx.DB) *SQLiteTxManager {
	return &SQLiteTxManager{db: db}
}

// WithTransaction はトランザクション内で関数を実行する
// 既存のトランザクションがある場合は再利用
func (m *SQLiteTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(sqliteTxKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, sqliteTxKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Ping は接続確認を行う
func (m *SQLiteTxManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// GetQuerier はトランザクション中であればTx、そうでなければDBを返す
func (m *SQLiteTxManager) GetQuerier(ctx context.Context) SQLiteQuerier {
	if tx, ok := ctx.Value(sqliteTxKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return m.db
}

// HandleSQLiteError はSQLiteのエラーを適切なドメインエラーに変換する
func HandleSQLiteError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrConflict
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.New("foreign key violation: " + sqliteErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return errors.New("check constraint violation: " + sqliteErr.Error())
		}
	}

	return err
}
