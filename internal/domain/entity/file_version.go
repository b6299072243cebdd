package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// FileVersion はファイルのある時点の全文スナップショット（不変）
// 作成後に Content・VersionNumber・CreatedAt が変わることはない
type FileVersion struct {
	ID              uuid.UUID
	FileID          uuid.UUID
	VersionNumber   int
	Content         string
	Size            int64
	Checksum        string // SHA-256チェックサム
	StorageLocation string
	ChangeSummary   *string // 最初のバージョンではnil
	CreatedAt       time.Time
}

// NewFileVersion は新しいファイルバージョンを作成します
func NewFileVersion(
	fileID uuid.UUID,
	versionNumber int,
	content string,
	storageLocation string,
	changeSummary *string,
) *FileVersion {
	return &FileVersion{
		ID:              uuid.New(),
		FileID:          fileID,
		VersionNumber:   versionNumber,
		Content:         content,
		Size:            int64(len(content)),
		Checksum:        Checksum(content),
		StorageLocation: storageLocation,
		ChangeSummary:   changeSummary,
		CreatedAt:       time.Now().UTC(),
	}
}

// NewInitialFileVersion はバージョン1（変更要約なし）を作成します
func NewInitialFileVersion(fileID uuid.UUID, content string, storageLocation string) *FileVersion {
	return NewFileVersion(fileID, 1, content, storageLocation, nil)
}

// ReconstructFileVersion はDBからファイルバージョンを復元します
func ReconstructFileVersion(
	id uuid.UUID,
	fileID uuid.UUID,
	versionNumber int,
	content string,
	size int64,
	checksum string,
	storageLocation string,
	changeSummary *string,
	createdAt time.Time,
) *FileVersion {
	return &FileVersion{
		ID:              id,
		FileID:          fileID,
		VersionNumber:   versionNumber,
		Content:         content,
		Size:            size,
		Checksum:        checksum,
		StorageLocation: storageLocation,
		ChangeSummary:   changeSummary,
		CreatedAt:       createdAt,
	}
}

// IsLatest は最新バージョンかどうかを判定します（FileのLatestVersionと比較）
func (fv *FileVersion) IsLatest(latestVersion int) bool {
	return fv.VersionNumber == latestVersion
}

// IsInitial は最初のバージョンかどうかを判定します
func (fv *FileVersion) IsInitial() bool {
	return fv.VersionNumber == 1
}

// Checksum は内容のSHA-256チェックサムを返します
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "sha256:" + hex.EncodeToString(sum[:])
}
