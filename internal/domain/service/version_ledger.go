package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/repository"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// VersionIntegrity は保存済み本文と記録の照合結果を表します
type VersionIntegrity struct {
	VersionNumber int
	Location      string
	Intact        bool
	Err           error
}

// VersionLedger はファイルとバージョン履歴の唯一の管理者です
// バージョン番号の連番と最新ポインタの整合性を保証します
type VersionLedger interface {
	// 更新系（ファイル単位で直列化される）
	CreateFile(ctx context.Context, name valueobject.FileName, content string) (*entity.File, *entity.FileVersion, error)
	AddVersion(ctx context.Context, fileID uuid.UUID, content string) (*entity.FileVersion, error)
	DeleteFile(ctx context.Context, fileID uuid.UUID) error

	// 参照系（ロックなし、コミット済みの行のみを読む）
	FindByName(ctx context.Context, name valueobject.FileName) (*entity.File, error)
	GetLatest(ctx context.Context, fileID uuid.UUID) (*entity.File, *entity.FileVersion, error)
	GetVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*entity.FileVersion, error)
	ListVersions(ctx context.Context, fileID uuid.UUID) (*entity.File, []*entity.FileVersion, error)
	ListFiles(ctx context.Context) ([]*entity.FileSummary, error)

	// VerifyFile は各バージョンの保存済み本文をチェックサムと照合します
	VerifyFile(ctx context.Context, fileID uuid.UUID) ([]VersionIntegrity, error)
}

// versionLedgerImpl はVersionLedgerの実装
type versionLedgerImpl struct {
	fileRepo    repository.FileRepository
	versionRepo repository.FileVersionRepository
	txManager   repository.TransactionManager
	store       ContentStore
	differ      DiffEngine
	summarizer  ChangeSummarizer
	locks       *KeyedMutex
}

// NewVersionLedger は新しいVersionLedgerを作成します
func NewVersionLedger(
	fileRepo repository.FileRepository,
	versionRepo repository.FileVersionRepository,
	txManager repository.TransactionManager,
	store ContentStore,
	differ DiffEngine,
	summarizer ChangeSummarizer,
) VersionLedger {
	return &versionLedgerImpl{
		fileRepo:    fileRepo,
		versionRepo: versionRepo,
		txManager:   txManager,
		store:       store,
		differ:      differ,
		summarizer:  summarizer,
		locks:       NewKeyedMutex(),
	}
}

func nameLockKey(name valueobject.FileName) string {
	return "name:" + name.Value()
}

func fileLockKey(fileID uuid.UUID) string {
	return "file:" + fileID.String()
}

// CreateFile は新しいファイルとバージョン1を作成します
func (l *versionLedgerImpl) CreateFile(
	ctx context.Context,
	name valueobject.FileName,
	content string,
) (*entity.File, *entity.FileVersion, error) {
	unlock := l.locks.Lock(nameLockKey(name))
	defer unlock()

	// 1. 重複チェック
	exists, err := l.fileRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, apperror.NewDuplicateFileError(name.Value())
	}

	// 2. 本文を永続化
	file := entity.NewFile(name)
	key, err := valueobject.NewStorageKey(file.ID, 1)
	if err != nil {
		return nil, nil, apperror.NewInternalError(err)
	}
	location, err := l.store.Put(ctx, key, []byte(content))
	if err != nil {
		return nil, nil, err
	}
	version := entity.NewInitialFileVersion(file.ID, content, location)

	// 3. トランザクションでレコード作成
	err = l.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := l.fileRepo.Create(ctx, file); err != nil {
			return err
		}
		return l.versionRepo.Create(ctx, version)
	})
	if err != nil {
		l.discard(ctx, location)
		return nil, nil, err
	}

	slog.Info("file created",
		"file_id", file.ID,
		"filename", name.Value(),
		"location", location,
	)
	return file, version, nil
}

// AddVersion は既存ファイルに新しいバージョンを追加します
func (l *versionLedgerImpl) AddVersion(ctx context.Context, fileID uuid.UUID, content string) (*entity.FileVersion, error) {
	unlock := l.locks.Lock(fileLockKey(fileID))
	defer unlock()

	// 1. ファイルと最新バージョン取得
	file, err := l.findFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	latest, err := l.versionRepo.FindByFileAndVersion(ctx, fileID, file.LatestVersion)
	if err != nil {
		return nil, err
	}

	// 2. 差分と要約
	next := file.NextVersionNumber()
	lines := l.differ.Diff(latest.Content, content)
	unified := l.differ.Unified(
		latest.Content,
		content,
		fmt.Sprintf("%s@v%d", file.Name.Value(), latest.VersionNumber),
		fmt.Sprintf("%s@v%d", file.Name.Value(), next),
	)
	summary := l.summarizer.Summarize(ctx, lines, unified)

	// 3. 本文を永続化
	key, err := valueobject.NewStorageKey(fileID, next)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	location, err := l.store.Put(ctx, key, []byte(content))
	if err != nil {
		return nil, err
	}
	version := entity.NewFileVersion(fileID, next, content, location, &summary)

	// 4. バージョン追加と最新ポインタ更新を同一トランザクションで
	err = l.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := l.versionRepo.Create(ctx, version); err != nil {
			return err
		}
		advanced, err := l.fileRepo.AdvanceLatestVersion(ctx, fileID, file.LatestVersion, next)
		if err != nil {
			return err
		}
		if !advanced {
			return apperror.NewConcurrencyConflictError(fileID)
		}
		return nil
	})
	if err != nil {
		// 競合時は同じキーを相手も書いているので消さない（別プロセス間では上書き済み）
		if !apperror.Is(err, apperror.CodeConcurrencyConflict) {
			l.discard(ctx, location)
		}
		return nil, err
	}

	if err := file.AdvanceTo(next); err != nil {
		return nil, apperror.NewInternalError(err)
	}

	slog.Info("file version added",
		"file_id", fileID,
		"version", next,
		"summary", summary,
	)
	return version, nil
}

// DeleteFile はファイルと全バージョンを削除します
// ストレージの削除が成功してからレコードを削除する
func (l *versionLedgerImpl) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	unlock := l.locks.Lock(fileLockKey(fileID))
	defer unlock()

	exists, err := l.fileRepo.ExistsByID(ctx, fileID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewFileNotFoundError(fileID)
	}

	if err := l.store.DeleteAll(ctx, valueobject.NamespaceOf(fileID)); err != nil {
		return err
	}

	err = l.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return l.fileRepo.Delete(ctx, fileID)
	})
	if err != nil {
		return err
	}

	slog.Info("file deleted", "file_id", fileID)
	return nil
}

// FindByName はファイル名でファイルを検索します
func (l *versionLedgerImpl) FindByName(ctx context.Context, name valueobject.FileName) (*entity.File, error) {
	file, err := l.fileRepo.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewFileNotFoundError(name)
		}
		return nil, err
	}
	return file, nil
}

// GetLatest はファイルと最新バージョンを返します
func (l *versionLedgerImpl) GetLatest(ctx context.Context, fileID uuid.UUID) (*entity.File, *entity.FileVersion, error) {
	file, err := l.findFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	version, err := l.versionRepo.FindByFileAndVersion(ctx, fileID, file.LatestVersion)
	if err != nil {
		return nil, nil, err
	}
	return file, version, nil
}

// GetVersion は指定番号のバージョンを返します
func (l *versionLedgerImpl) GetVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*entity.FileVersion, error) {
	if _, err := l.findFile(ctx, fileID); err != nil {
		return nil, err
	}
	version, err := l.versionRepo.FindByFileAndVersion(ctx, fileID, versionNumber)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewVersionNotFoundError(fileID, versionNumber)
		}
		return nil, err
	}
	return version, nil
}

// ListVersions はバージョン履歴を番号昇順で返します
func (l *versionLedgerImpl) ListVersions(ctx context.Context, fileID uuid.UUID) (*entity.File, []*entity.FileVersion, error) {
	file, err := l.findFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	versions, err := l.versionRepo.FindByFileID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	return file, versions, nil
}

// ListFiles は全ファイルを最新バージョンのメタデータ付きで返します
func (l *versionLedgerImpl) ListFiles(ctx context.Context) ([]*entity.FileSummary, error) {
	files, err := l.fileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []*entity.FileSummary{}, nil
	}

	ids := make([]uuid.UUID, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	latest, err := l.versionRepo.FindLatestByFileIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]*entity.FileSummary, 0, len(files))
	for _, f := range files {
		v, ok := latest[f.ID]
		if !ok {
			// ファイル一覧取得後に削除された
			continue
		}
		summaries = append(summaries, &entity.FileSummary{File: f, Latest: v})
	}
	return summaries, nil
}

// VerifyFile は各バージョンの保存済み本文をチェックサムと照合します
func (l *versionLedgerImpl) VerifyFile(ctx context.Context, fileID uuid.UUID) ([]VersionIntegrity, error) {
	_, versions, err := l.ListVersions(ctx, fileID)
	if err != nil {
		return nil, err
	}

	results := make([]VersionIntegrity, 0, len(versions))
	for _, v := range versions {
		result := VersionIntegrity{VersionNumber: v.VersionNumber, Location: v.StorageLocation}
		stored, err := l.store.Get(ctx, v.StorageLocation)
		if err != nil {
			result.Err = err
		} else {
			result.Intact = bytes.Equal(stored, []byte(v.Content)) &&
				entity.Checksum(string(stored)) == v.Checksum
		}
		results = append(results, result)
	}
	return results, nil
}

// findFile はIDでファイルを取得し、不在ならFileNotFoundErrorを返します
func (l *versionLedgerImpl) findFile(ctx context.Context, fileID uuid.UUID) (*entity.File, error) {
	file, err := l.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewFileNotFoundError(fileID)
		}
		return nil, err
	}
	return file, nil
}

// discard はコミットされなかった本文をベストエフォートで削除します
func (l *versionLedgerImpl) discard(ctx context.Context, location string) {
	if err := l.store.Delete(context.WithoutCancel(ctx), location); err != nil {
		slog.Warn("failed to discard uncommitted content",
			"location", location,
			"error", err,
		)
	}
}
