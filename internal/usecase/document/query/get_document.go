package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// GetDocumentInput はドキュメント取得の入力を定義します
type GetDocumentInput struct {
	FileID        uuid.UUID
	VersionNumber *int // nilなら最新
}

// GetDocumentOutput はドキュメント取得の出力を定義します
type GetDocumentOutput struct {
	File    *entity.File
	Version *entity.FileVersion
}

// GetDocumentQuery はドキュメントの最新または指定バージョンを取得するクエリです
type GetDocumentQuery struct {
	ledger service.VersionLedger
	cache  service.LatestVersionCache
}

// NewGetDocumentQuery は新しいGetDocumentQueryを作成します
func NewGetDocumentQuery(ledger service.VersionLedger, cache service.LatestVersionCache) *GetDocumentQuery {
	return &GetDocumentQuery{
		ledger: ledger,
		cache:  cache,
	}
}

// Execute はドキュメントを取得します
func (q *GetDocumentQuery) Execute(ctx context.Context, input GetDocumentInput) (*GetDocumentOutput, error) {
	if input.VersionNumber != nil && *input.VersionNumber < 1 {
		return nil, apperror.NewValidationError("version must be a positive integer", []apperror.FieldError{
			{Field: "version", Message: "must be >= 1"},
		})
	}

	// 1. 最新バージョン（キャッシュ優先）
	file, latest, err := q.latest(ctx, input.FileID)
	if err != nil {
		return nil, err
	}
	if input.VersionNumber == nil || *input.VersionNumber == latest.VersionNumber {
		return &GetDocumentOutput{File: file, Version: latest}, nil
	}

	// 2. 履歴バージョン
	version, err := q.ledger.GetVersion(ctx, input.FileID, *input.VersionNumber)
	if err != nil {
		return nil, err
	}
	return &GetDocumentOutput{File: file, Version: version}, nil
}

func (q *GetDocumentQuery) latest(ctx context.Context, fileID uuid.UUID) (*entity.File, *entity.FileVersion, error) {
	if file, version, ok := q.cache.Get(ctx, fileID); ok {
		return file, version, nil
	}

	// 読み込み中に更新・削除されたら世代が進み、Setは捨てられる
	generation, cacheable := q.cache.Generation(ctx, fileID)
	file, version, err := q.ledger.GetLatest(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if cacheable {
		q.cache.Set(ctx, file, version, generation)
	}
	return file, version, nil
}
