package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/database"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

const fileColumns = `id, name, latest_version, created_at, updated_at`

// FileRepository はファイルリポジトリのPostgreSQL実装です
type FileRepository struct {
	*database.BaseRepository
}

// NewFileRepository は新しいFileRepositoryを作成します
func NewFileRepository(txManager *database.TxManager) *FileRepository {
	return &FileRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create はファイルを作成します
func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	_, err := r.Querier(ctx).Exec(ctx,
		`INSERT INTO files (`+fileColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		file.ID, file.Name.Value(), file.LatestVersion, file.CreatedAt, file.UpdatedAt,
	)
	if err = r.HandleError(err); err != nil {
		if database.IsConflictError(err) {
			return apperror.NewDuplicateFileError(file.Name.Value())
		}
		return err
	}
	return nil
}

// FindByID はIDでファイルを検索します
func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error) {
	row := r.Querier(ctx).QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	file, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("file")
		}
		return nil, r.HandleError(err)
	}
	return file, nil
}

// FindByName はファイル名でファイルを検索します
func (r *FileRepository) FindByName(ctx context.Context, name valueobject.FileName) (*entity.File, error) {
	row := r.Querier(ctx).QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE name = $1`, name.Value())
	file, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("file")
		}
		return nil, r.HandleError(err)
	}
	return file, nil
}

// FindAll は全ファイルをファイル名順で返します
func (r *FileRepository) FindAll(ctx context.Context) ([]*entity.File, error) {
	rows, err := r.Querier(ctx).Query(ctx, `SELECT `+fileColumns+` FROM files ORDER BY name`)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	files := []*entity.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		files = append(files, file)
	}
	return files, r.HandleError(rows.Err())
}

// Delete はファイルを削除します（バージョンはカスケード削除）
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Querier(ctx).Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return r.HandleError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("file")
	}
	return nil
}

// ExistsByID はファイルの存在チェックをします
func (r *FileRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.Querier(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM files WHERE id = $1)`, id).Scan(&exists)
	return exists, r.HandleError(err)
}

// ExistsByName は同名ファイルの存在チェックをします
func (r *FileRepository) ExistsByName(ctx context.Context, name valueobject.FileName) (bool, error) {
	var exists bool
	err := r.Querier(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM files WHERE name = $1)`, name.Value()).Scan(&exists)
	return exists, r.HandleError(err)
}

// AdvanceLatestVersion は最新バージョンを楽観ロック付きで進めます
func (r *FileRepository) AdvanceLatestVersion(ctx context.Context, id uuid.UUID, expected, next int) (bool, error) {
	tag, err := r.Querier(ctx).Exec(ctx,
		`UPDATE files SET latest_version = $3, updated_at = now() WHERE id = $1 AND latest_version = $2`,
		id, expected, next,
	)
	if err != nil {
		return false, r.HandleError(err)
	}
	return tag.RowsAffected() == 1, nil
}

// FilterExistingIDs は指定IDのうちレコードが存在するものを返します
func (r *FileRepository) FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	rows, err := r.Querier(ctx).Query(ctx, `SELECT id FROM files WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, r.HandleError(err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	return existing, r.HandleError(err)
}

// scanFile は1行をentity.Fileに変換します
func scanFile(row pgx.Row) (*entity.File, error) {
	var (
		file entity.File
		name string
	)
	if err := row.Scan(&file.ID, &name, &file.LatestVersion, &file.CreatedAt, &file.UpdatedAt); err != nil {
		return nil, err
	}
	file.Name = valueobject.ReconstructFileName(name)
	return &file, nil
}
