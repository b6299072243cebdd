package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
)

// LatestVersionCache は最新バージョンの読み取りキャッシュです
// キャッシュは最適化のみを目的とし、失敗しても呼び出し元の処理は継続します
type LatestVersionCache interface {
	Get(ctx context.Context, fileID uuid.UUID) (*entity.File, *entity.FileVersion, bool)

	// Generation はファイルの書き込み世代を返します
	// 読み込み元を参照する前に取得し、Setに渡す。okがfalseならSetしない
	Generation(ctx context.Context, fileID uuid.UUID) (generation int64, ok bool)

	// Set は世代がgenerationのまま変わっていない場合だけ書き込みます
	Set(ctx context.Context, file *entity.File, version *entity.FileVersion, generation int64)

	// Invalidate は世代を進めてキャッシュを破棄します
	Invalidate(ctx context.Context, fileID uuid.UUID)
}

// noopLatestVersionCache はキャッシュ無効時の実装
type noopLatestVersionCache struct{}

// NewNoopLatestVersionCache は何もしないキャッシュを返します
func NewNoopLatestVersionCache() LatestVersionCache {
	return noopLatestVersionCache{}
}

func (noopLatestVersionCache) Get(context.Context, uuid.UUID) (*entity.File, *entity.FileVersion, bool) {
	return nil, nil, false
}

func (noopLatestVersionCache) Generation(context.Context, uuid.UUID) (int64, bool) {
	return 0, false
}

func (noopLatestVersionCache) Set(context.Context, *entity.File, *entity.FileVersion, int64) {}

func (noopLatestVersionCache) Invalidate(context.Context, uuid.UUID) {}
