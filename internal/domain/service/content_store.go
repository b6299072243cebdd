package service

import (
	"context"
	"time"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// StoredNamespace はストレージ上のファイル単位ネームスペースを表します
type StoredNamespace struct {
	Name       string
	ModifiedAt time.Time // ネームスペース内で最も新しいオブジェクトの更新時刻
}

// ContentStore はバージョン本文を永続化するドメインサービスインターフェースです
type ContentStore interface {
	// Put は本文を書き込み、永続化が完了してから保存先を返します
	Put(ctx context.Context, key valueobject.StorageKey, content []byte) (location string, err error)

	// Get は保存先から本文を読み込みます
	Get(ctx context.Context, location string) ([]byte, error)

	// Delete は単一オブジェクトを削除します（存在しなくてもエラーにしない）
	Delete(ctx context.Context, location string) error

	// DeleteAll はネームスペース配下の全バージョンを削除します（冪等）
	DeleteAll(ctx context.Context, namespace string) error

	// ListNamespaces は保存済みのネームスペースを列挙します
	ListNamespaces(ctx context.Context) ([]StoredNamespace, error)
}
