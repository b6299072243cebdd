// Package sqlite はSQLiteによるリポジトリ実装を提供します
package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/database"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// fileRow はfilesテーブルの1行
type fileRow struct {
	ID            uuid.UUID `db:"id"`
	Name          string    `db:"name"`
	LatestVersion int       `db:"latest_version"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r fileRow) toEntity() *entity.File {
	return entity.ReconstructFile(
		r.ID,
		valueobject.ReconstructFileName(r.Name),
		r.LatestVersion,
		r.CreatedAt,
		r.UpdatedAt,
	)
}

// FileRepository はファイルリポジトリのSQLite実装です
type FileRepository struct {
	txManager *database.SQLiteTxManager
}

// NewFileRepository は新しいFileRepositoryを作成します
func NewFileRepository(txManager *database.SQLiteTxManager) *FileRepository {
	return &FileRepository{txManager: txManager}
}

func (r *FileRepository) querier(ctx context.Context) database.SQLiteQuerier {
	return r.txManager.GetQuerier(ctx)
}

// Create はファイルを作成します
func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	_, err := r.querier(ctx).ExecContext(ctx,
		`INSERT INTO files (id, name, latest_version, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		file.ID, file.Name.Value(), file.LatestVersion, file.CreatedAt, file.UpdatedAt,
	)
	if err = database.HandleSQLiteError(err); err != nil {
		if database.IsConflictError(err) {
			return apperror.NewDuplicateFileError(file.Name.Value())
		}
		return err
	}
	return nil
}

// FindByID はIDでファイルを検索します
func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error) {
	var row fileRow
	err := sqlx.GetContext(ctx, r.querier(ctx), &row, `SELECT * FROM files WHERE id = ?`, id)
	if err != nil {
		return nil, notFoundOr(err, "file")
	}
	return row.toEntity(), nil
}

// FindByName はファイル名でファイルを検索します
func (r *FileRepository) FindByName(ctx context.Context, name valueobject.FileName) (*entity.File, error) {
	var row fileRow
	err := sqlx.GetContext(ctx, r.querier(ctx), &row, `SELECT * FROM files WHERE name = ?`, name.Value())
	if err != nil {
		return nil, notFoundOr(err, "file")
	}
	return row.toEntity(), nil
}

// FindAll は全ファイルをファイル名順で返します
func (r *FileRepository) FindAll(ctx context.Context) ([]*entity.File, error) {
	var rows []fileRow
	if err := sqlx.SelectContext(ctx, r.querier(ctx), &rows, `SELECT * FROM files ORDER BY name`); err != nil {
		return nil, database.HandleSQLiteError(err)
	}

	files := make([]*entity.File, len(rows))
	for i, row := range rows {
		files[i] = row.toEntity()
	}
	return files, nil
}

// Delete はファイルを削除します（バージョンはカスケード削除）
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier(ctx).ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return database.HandleSQLiteError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperror.NewNotFoundError("file")
	}
	return nil
}

// ExistsByID はファイルの存在チェックをします
func (r *FileRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.querier(ctx), &exists, `SELECT EXISTS (SELECT 1 FROM files WHERE id = ?)`, id)
	return exists, database.HandleSQLiteError(err)
}

// ExistsByName は同名ファイルの存在チェックをします
func (r *FileRepository) ExistsByName(ctx context.Context, name valueobject.FileName) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.querier(ctx), &exists, `SELECT EXISTS (SELECT 1 FROM files WHERE name = ?)`, name.Value())
	return exists, database.HandleSQLiteError(err)
}

// AdvanceLatestVersion は最新バージョンを楽観ロック付きで進めます
func (r *FileRepository) AdvanceLatestVersion(ctx context.Context, id uuid.UUID, expected, next int) (bool, error) {
	result, err := r.querier(ctx).ExecContext(ctx,
		`UPDATE files SET latest_version = ?, updated_at = ? WHERE id = ? AND latest_version = ?`,
		next, time.Now().UTC(), id, expected,
	)
	if err != nil {
		return false, database.HandleSQLiteError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// FilterExistingIDs は指定IDのうちレコードが存在するものを返します
func (r *FileRepository) FilterExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM files WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	existing := []uuid.UUID{}
	if err := sqlx.SelectContext(ctx, r.querier(ctx), &existing, query, args...); err != nil {
		return nil, database.HandleSQLiteError(err)
	}
	return existing, nil
}

// notFoundOr はレコード不在をapperrorに、それ以外をドメインエラーに変換します
func notFoundOr(err error, resource string) error {
	err = database.HandleSQLiteError(err)
	if errors.Is(err, database.ErrNotFound) {
		return apperror.NewNotFoundError(resource)
	}
	return err
}
