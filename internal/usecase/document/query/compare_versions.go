package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// CompareVersionsInput はバージョン比較の入力を定義します
type CompareVersionsInput struct {
	FileID uuid.UUID
	From   int
	To     int
}

// CompareVersionsOutput はバージョン比較の出力を定義します
type CompareVersionsOutput struct {
	FileID  uuid.UUID
	From    int
	To      int
	Lines   []valueobject.DiffLine
	Stats   valueobject.DiffStats
	Unified string
	Summary string
}

// CompareVersionsQuery は任意の2バージョン間の差分を計算するクエリです
// 要約は常にローカルの決定的な要約を使う
type CompareVersionsQuery struct {
	ledger     service.VersionLedger
	differ     service.DiffEngine
	summarizer service.ChangeSummarizer
}

// NewCompareVersionsQuery は新しいCompareVersionsQueryを作成します
func NewCompareVersionsQuery(ledger service.VersionLedger, differ service.DiffEngine) *CompareVersionsQuery {
	return &CompareVersionsQuery{
		ledger:     ledger,
		differ:     differ,
		summarizer: service.NewLocalChangeSummarizer(),
	}
}

// Execute は差分を計算します
func (q *CompareVersionsQuery) Execute(ctx context.Context, input CompareVersionsInput) (*CompareVersionsOutput, error) {
	var details []apperror.FieldError
	if input.From < 1 {
		details = append(details, apperror.FieldError{Field: "from", Message: "must be >= 1"})
	}
	if input.To < 1 {
		details = append(details, apperror.FieldError{Field: "to", Message: "must be >= 1"})
	}
	if len(details) > 0 {
		return nil, apperror.NewValidationError("invalid version range", details)
	}

	from, err := q.ledger.GetVersion(ctx, input.FileID, input.From)
	if err != nil {
		return nil, err
	}
	to, err := q.ledger.GetVersion(ctx, input.FileID, input.To)
	if err != nil {
		return nil, err
	}

	lines := q.differ.Diff(from.Content, to.Content)
	unified := q.differ.Unified(from.Content, to.Content, fmt.Sprintf("v%d", input.From), fmt.Sprintf("v%d", input.To))

	return &CompareVersionsOutput{
		FileID:  input.FileID,
		From:    input.From,
		To:      input.To,
		Lines:   lines,
		Stats:   valueobject.StatsOf(lines),
		Unified: unified,
		Summary: q.summarizer.Summarize(ctx, lines, unified),
	}, nil
}
