package query

import (
	"context"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
)

// ListDocumentsOutput はドキュメント一覧の出力を定義します
type ListDocumentsOutput struct {
	Documents []*entity.FileSummary
}

// ListDocumentsQuery はドキュメント一覧クエリです
type ListDocumentsQuery struct {
	ledger service.VersionLedger
}

// NewListDocumentsQuery は新しいListDocumentsQueryを作成します
func NewListDocumentsQuery(ledger service.VersionLedger) *ListDocumentsQuery {
	return &ListDocumentsQuery{ledger: ledger}
}

// Execute は全ドキュメントを最新バージョンのメタデータ付きで取得します
func (q *ListDocumentsQuery) Execute(ctx context.Context) (*ListDocumentsOutput, error) {
	summaries, err := q.ledger.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	return &ListDocumentsOutput{Documents: summaries}, nil
}
