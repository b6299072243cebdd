package repository

import (
	"context"
)

// TransactionManager はトランザクション管理インターフェースを定義します
// fn に渡される ctx を使ったリポジトリ操作は同一トランザクションで実行されます
type TransactionManager interface {
	// WithTransaction はトランザクション内で処理を実行します
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Ping は接続先の死活を確認します
	Ping(ctx context.Context) error
}
