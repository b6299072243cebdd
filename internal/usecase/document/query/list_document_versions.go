package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
)

// ListDocumentVersionsInput はバージョン履歴取得の入力を定義します
type ListDocumentVersionsInput struct {
	FileID uuid.UUID
}

// ListDocumentVersionsOutput はバージョン履歴取得の出力を定義します
type ListDocumentVersionsOutput struct {
	File     *entity.File
	Versions []*entity.FileVersion // バージョン番号昇順
}

// ListDocumentVersionsQuery はバージョン履歴クエリです
type ListDocumentVersionsQuery struct {
	ledger service.VersionLedger
}

// NewListDocumentVersionsQuery は新しいListDocumentVersionsQueryを作成します
func NewListDocumentVersionsQuery(ledger service.VersionLedger) *ListDocumentVersionsQuery {
	return &ListDocumentVersionsQuery{ledger: ledger}
}

// Execute はバージョン履歴を取得します
func (q *ListDocumentVersionsQuery) Execute(ctx context.Context, input ListDocumentVersionsInput) (*ListDocumentVersionsOutput, error) {
	file, versions, err := q.ledger.ListVersions(ctx, input.FileID)
	if err != nil {
		return nil, err
	}
	return &ListDocumentVersionsOutput{File: file, Versions: versions}, nil
}
