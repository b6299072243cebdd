package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
)

// ModifyDocumentInput はドキュメント更新の入力を定義します
type ModifyDocumentInput struct {
	FileID  uuid.UUID
	Content string
}

// ModifyDocumentOutput はドキュメント更新の出力を定義します
type ModifyDocumentOutput struct {
	FileID  uuid.UUID
	Version *entity.FileVersion
}

// ModifyDocumentCommand は既存ドキュメントに新しいバージョンを追加するコマンドです
// 内容を上書きすることはありません
type ModifyDocumentCommand struct {
	ledger service.VersionLedger
	cache  service.LatestVersionCache
}

// NewModifyDocumentCommand は新しいModifyDocumentCommandを作成します
func NewModifyDocumentCommand(ledger service.VersionLedger, cache service.LatestVersionCache) *ModifyDocumentCommand {
	return &ModifyDocumentCommand{
		ledger: ledger,
		cache:  cache,
	}
}

// Execute は新しいバージョンを追加します
func (c *ModifyDocumentCommand) Execute(ctx context.Context, input ModifyDocumentInput) (*ModifyDocumentOutput, error) {
	version, err := c.ledger.AddVersion(ctx, input.FileID, input.Content)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx, input.FileID)

	return &ModifyDocumentOutput{
		FileID:  input.FileID,
		Version: version,
	}, nil
}
