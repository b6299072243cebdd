package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
)

// DeleteDocumentInput はドキュメント削除の入力を定義します
type DeleteDocumentInput struct {
	FileID uuid.UUID
}

// DeleteDocumentCommand はドキュメントと全バージョンを削除するコマンドです
type DeleteDocumentCommand struct {
	ledger service.VersionLedger
	cache  service.LatestVersionCache
}

// NewDeleteDocumentCommand は新しいDeleteDocumentCommandを作成します
func NewDeleteDocumentCommand(ledger service.VersionLedger, cache service.LatestVersionCache) *DeleteDocumentCommand {
	return &DeleteDocumentCommand{
		ledger: ledger,
		cache:  cache,
	}
}

// Execute はドキュメントを削除します
func (c *DeleteDocumentCommand) Execute(ctx context.Context, input DeleteDocumentInput) error {
	if err := c.ledger.DeleteFile(ctx, input.FileID); err != nil {
		return err
	}
	c.cache.Invalidate(ctx, input.FileID)
	return nil
}
