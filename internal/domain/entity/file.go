package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// ファイル関連エラー
var (
	ErrVersionNotSequential = errors.New("version number must follow the latest version")
)

// File はドキュメントの論理的な同一性を表すエンティティ（集約ルート）
// LatestVersion は常に所有するバージョンの最大番号と一致する
type File struct {
	ID            uuid.UUID
	Name          valueobject.FileName
	LatestVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewFile は新しいファイルを作成します（バージョン1を持つ状態で作成）
func NewFile(name valueobject.FileName) *File {
	now := time.Now().UTC()
	return &File{
		ID:            uuid.New(),
		Name:          name,
		LatestVersion: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ReconstructFile はDBからファイルを復元します
func ReconstructFile(
	id uuid.UUID,
	name valueobject.FileName,
	latestVersion int,
	createdAt time.Time,
	updatedAt time.Time,
) *File {
	return &File{
		ID:            id,
		Name:          name,
		LatestVersion: latestVersion,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// NextVersionNumber は次に採番されるバージョン番号を返します
func (f *File) NextVersionNumber() int {
	return f.LatestVersion + 1
}

// AdvanceTo は最新バージョンを進めます。欠番・巻き戻しは許可しない
func (f *File) AdvanceTo(versionNumber int) error {
	if versionNumber != f.NextVersionNumber() {
		return ErrVersionNotSequential
	}
	f.LatestVersion = versionNumber
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// StorageNamespace はストレージ上のファイル単位ネームスペースを返します
func (f *File) StorageNamespace() string {
	return valueobject.NamespaceOf(f.ID)
}
