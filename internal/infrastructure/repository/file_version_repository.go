package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/database"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

const fileVersionColumns = `id, file_id, version_number, content, size, checksum, storage_location, change_summary, created_at`

// FileVersionRepository はファイルバージョンリポジトリのPostgreSQL実装です
type FileVersionRepository struct {
	*database.BaseRepository
}

// NewFileVersionRepository は新しいFileVersionRepositoryを作成します
func NewFileVersionRepository(txManager *database.TxManager) *FileVersionRepository {
	return &FileVersionRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create はファイルバージョンを作成します
func (r *FileVersionRepository) Create(ctx context.Context, version *entity.FileVersion) error {
	_, err := r.Querier(ctx).Exec(ctx,
		`INSERT INTO file_versions (`+fileVersionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
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
	if err = r.HandleError(err); err != nil {
		if database.IsConflictError(err) {
			return apperror.NewConcurrencyConflictError(version.FileID)
		}
		return err
	}
	return nil
}

// FindByFileID はファイルの全バージョンを番号昇順で返します
func (r *FileVersionRepository) FindByFileID(ctx context.Context, fileID uuid.UUID) ([]*entity.FileVersion, error) {
	rows, err := r.Querier(ctx).Query(ctx,
		`SELECT `+fileVersionColumns+` FROM file_versions WHERE file_id = $1 ORDER BY version_number`,
		fileID,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	return r.collect(rows)
}

// FindByFileAndVersion はファイルIDとバージョン番号でバージョンを検索します
func (r *FileVersionRepository) FindByFileAndVersion(ctx context.Context, fileID uuid.UUID, versionNumber int) (*entity.FileVersion, error) {
	row := r.Querier(ctx).QueryRow(ctx,
		`SELECT `+fileVersionColumns+` FROM file_versions WHERE file_id = $1 AND version_number = $2`,
		fileID, versionNumber,
	)
	version, err := scanFileVersion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("file version")
		}
		return nil, r.HandleError(err)
	}
	return version, nil
}

// FindLatestByFileIDs は複数ファイルの最新バージョンをファイルID単位で返します
func (r *FileVersionRepository) FindLatestByFileIDs(ctx context.Context, fileIDs []uuid.UUID) (map[uuid.UUID]*entity.FileVersion, error) {
	result := make(map[uuid.UUID]*entity.FileVersion, len(fileIDs))
	if len(fileIDs) == 0 {
		return result, nil
	}

	rows, err := r.Querier(ctx).Query(ctx,
		`SELECT v.id, v.file_id, v.version_number, v.content, v.size, v.checksum, v.storage_location, v.change_summary, v.created_at
		   FROM file_versions v
		   JOIN files f ON f.id = v.file_id AND f.latest_version = v.version_number
		  WHERE f.id = ANY($1)`,
		fileIDs,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	versions, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		result[v.FileID] = v
	}
	return result, nil
}

func (r *FileVersionRepository) collect(rows pgx.Rows) ([]*entity.FileVersion, error) {
	defer rows.Close()

	versions := []*entity.FileVersion{}
	for rows.Next() {
		version, err := scanFileVersion(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		versions = append(versions, version)
	}
	return versions, r.HandleError(rows.Err())
}

// scanFileVersion は1行をentity.FileVersionに変換します
func scanFileVersion(row pgx.Row) (*entity.FileVersion, error) {
	var v entity.FileVersion
	err := row.Scan(
		&v.ID,
		&v.FileID,
		&v.VersionNumber,
		&v.Content,
		&v.Size,
		&v.Checksum,
		&v.StorageLocation,
		&v.ChangeSummary,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
