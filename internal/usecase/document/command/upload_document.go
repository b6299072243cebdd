package command

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// UploadDocumentInput はドキュメントアップロードの入力を定義します
type UploadDocumentInput struct {
	Filename string
	Content  []byte
}

// UploadDocumentOutput はドキュメントアップロードの出力を定義します
type UploadDocumentOutput struct {
	FileID   uuid.UUID
	Filename string
	Version  *entity.FileVersion
	Created  bool // 新規ファイルとして作成されたか
}

// UploadDocumentCommand はドキュメントをアップロードするコマンドです
// 同名ファイルが存在する場合は新しいバージョンとして追加します
type UploadDocumentCommand struct {
	ledger    service.VersionLedger
	extractor service.TextExtractor
	cache     service.LatestVersionCache
}

// NewUploadDocumentCommand は新しいUploadDocumentCommandを作成します
func NewUploadDocumentCommand(
	ledger service.VersionLedger,
	extractor service.TextExtractor,
	cache service.LatestVersionCache,
) *UploadDocumentCommand {
	return &UploadDocumentCommand{
		ledger:    ledger,
		extractor: extractor,
		cache:     cache,
	}
}

// Execute はドキュメントをアップロードします
func (c *UploadDocumentCommand) Execute(ctx context.Context, input UploadDocumentInput) (*UploadDocumentOutput, error) {
	// 1. ファイル名のバリデーション
	name, err := valueobject.NewFileName(input.Filename)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "file", Message: err.Error()},
		})
	}

	// 2. テキスト抽出
	content, err := c.extractor.Extract(ctx, input.Content, name.Value())
	if err != nil {
		return nil, err
	}

	// 3. 既存ファイルなら新バージョン
	file, err := c.ledger.FindByName(ctx, name)
	if err == nil {
		return c.addVersion(ctx, file, content)
	}
	if !apperror.Is(err, apperror.CodeFileNotFound) {
		return nil, err
	}

	// 4. 新規作成
	file, version, err := c.ledger.CreateFile(ctx, name, content)
	if err != nil {
		if !apperror.Is(err, apperror.CodeDuplicateFile) {
			return nil, err
		}
		// 同名の並行アップロードが先に作成した
		slog.Info("concurrent upload created file first, adding version", "filename", name.Value())
		file, err = c.ledger.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return c.addVersion(ctx, file, content)
	}

	return &UploadDocumentOutput{
		FileID:   file.ID,
		Filename: file.Name.Value(),
		Version:  version,
		Created:  true,
	}, nil
}

func (c *UploadDocumentCommand) addVersion(ctx context.Context, file *entity.File, content string) (*UploadDocumentOutput, error) {
	version, err := c.ledger.AddVersion(ctx, file.ID, content)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx, file.ID)

	return &UploadDocumentOutput{
		FileID:   file.ID,
		Filename: file.Name.Value(),
		Version:  version,
		Created:  false,
	}, nil
}
