package storage

import (
	"context"
	"fmt"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

// HealthChecker は接続確認が可能なバックエンドを表します
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewContentStore は設定に応じたContentStoreを作成します
// 戻り値のHealthCheckerはローカルバックエンドの場合nil
func NewContentStore(ctx context.Context, cfg config.StorageConfig) (service.ContentStore, HealthChecker, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal:
		return NewOSContentStore(cfg.LocalRoot), nil, nil

	case config.StorageBackendMinIO:
		store, err := NewMinIOContentStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.StorageBackendS3:
		store, err := NewS3ContentStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
}
