package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/database"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// fileVersionRow はfile_versionsテーブルの1行
type fileVersionRow struct {
	ID              uuid.UUID `db:"id"`
	FileID          uuid.UUID `db:"file_id"`
	VersionNumber   int       `db:"version_number"`
	Content         string    `db:"content"`
	Size            int64     `db:"size"`
	Checksum        string    `db:"checksum"`
	StorageLocation string    `db:"storage_location"`
	ChangeSummary   *string   `db:"change_summary"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r fileVersionRow) toEntity() *entity.FileVersion {
	return entity.ReconstructFileVersion(
		r.ID,
		r.FileID,
		r.VersionNumber,
		r.Content,
		r.Size,
		r.Checksum,
		r.StorageLocation,
		r.ChangeSummary,
		r.CreatedAt,
	)
}

// FileVersionRepository はファイルバージョンリポジトリのSQLite実装です
type FileVersionRepository struct {
	txManager *database.SQLiteTxManager
}

// NewFileVersionRepository は新しいFileVersionRepositoryを作成します
func NewFileVersionRepository(txManager *database.SQLiteTxManager) *FileVersionRepository {
	return &FileVersionRepository{txManager: txManager}
}

func (r *FileVersionRepository) querier(ctx context.Context) database.SQLiteQuerier {
	return r.txManager.GetQuerier(ctx)
}

// Create はファイルバージョンを作成します
func (r *FileVersionRepository) Create(ctx context.Context, version *entity.FileVersion) error {
	_, err := r.querier(ctx).ExecContext(ctx,
		`INSERT INTO file_versions (id, file_id, version_number, content, size, checksum, storage_location, change_summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		version.ID,
		version.FileID,
		version.VersionNumber,
		version.Content,
		version.Size,
		version.Checksum,
		version.StorageLocation,
		version.ChangeSummary,
		version.CreatedAt,
	)
	if err = database.HandleSQLiteError(err); err != nil {
		if database.IsConflictError(err) {
			return apperror.NewConcurrencyConflictError(version.FileID)
		}
		return err
	}
	return nil
}

// FindByFileID はファイルの全バージョンを番号昇順で返します
func (r *FileVersionRepository) FindByFileID(ctx context.Context, fileID uuid.UUID) ([]*entity.FileVersion, error) {
	var rows []fileVersionRow
	err := sqlx.SelectContext(ctx, r.querier(ctx), &rows,
		`SELECT * FROM file_versions WHERE file_id = ? ORDER BY version_number`, fileID)
	if err != nil {
		return nil, database.HandleSQLiteError(err)
	}
	return toEntities(rows), nil
}

// FindByFileAndVersion はファイルIDとバージョン番号でバージョンを検索します
func (r *FileVersionRepository) FindByFileAndVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*entity.FileVersion, error) {
	var row fileVersionRow
	err := sqlx.GetContext(ctx, r.querier(ctx), &row,
		`SELECT * FROM file_versions WHERE file_id = ? AND version_number = ?`, fileID, versionNumber)
	if err != nil {
		return nil, notFoundOr(err, "file version")
	}
	return row.toEntity(), nil
}

// FindLatestByFileIDs は複数ファイルの最新バージョンをファイルID単位で返します
func (r *FileVersionRepository) FindLatestByFileIDs(ctx context.Context, fileIDs []uuid.UUID) (map[uuid.UUID]*entity.FileVersion, error) {
	result := make(map[uuid.UUID]*entity.FileVersion, len(fileIDs))
	if len(fileIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(
		`SELECT v.* FROM file_versions v
		   JOIN files f ON f.id = v.file_id AND f.latest_version = v.version_number
		  WHERE f.id IN (?)`,
		fileIDs,
	)
	if err != nil {
		return nil, err
	}

	var rows []fileVersionRow
	if err := sqlx.SelectContext(ctx, r.querier(ctx), &rows, query, args...); err != nil {
		return nil, database.HandleSQLiteError(err)
	}
	for _, row := range rows {
		result[row.FileID] = row.toEntity()
	}
	return result, nil
}

func toEntities(rows []fileVersionRow) []*entity.FileVersion {
	versions := make([]*entity.FileVersion, len(rows))
	for i, row := range rows {
		versions[i] = row.toEntity()
	}
	return versions
}
