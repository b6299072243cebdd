package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// FileRepository はファイルリポジトリのインターフェース
type FileRepository interface {
	// 基本CRUD
	Create(ctx context.Context, file *entity.File) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// 検索
	FindByName(ctx context.Context, name valueobject.FileName) (*entity.File, error)
	FindAll(ctx context.Context) ([]*entity.File, error) // ファイル名順

	// 存在チェック
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByName(ctx context.Context, name valueobject.FileName) (bool, error)

	// AdvanceLatestVersion は latest_version = expected の場合のみ next に進めます（楽観ロック）
	// 更新できなかった場合は false を返します
	AdvanceLatestVersion(ctx context.Context, id uuid.UUID, expected, next int) (bool, error)

	// 孤立オブジェクト検出用
	FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// FileVersionRepository はファイルバージョンリポジトリのインターフェース
type FileVersionRepository interface {
	Create(ctx context.Context, version *entity.FileVersion) error

	// 検索
	FindByFileID(ctx context.Context, fileID uuid.UUID) ([]*entity.FileVersion, error) // バージョン番号昇順
	FindByFileAndVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*entity.FileVersion, error)
	FindLatestByFileIDs(ctx context.Context, fileIDs []uuid.UUID) (map[uuid.UUID]*entity.FileVersion, error)
}
