package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// latestSnapshot はキャッシュに格納する最新バージョンの表現
type latestSnapshot struct {
	FileID          uuid.UUID `json:"file_id"`
	Name            string    `json:"name"`
	LatestVersion   int       `json:"latest_version"`
	FileCreatedAt   time.Time `json:"file_created_at"`
	FileUpdatedAt   time.Time `json:"file_updated_at"`
	VersionID       uuid.UUID `json:"version_id"`
	VersionNumber   int       `json:"version_number"`
	Content         string    `json:"content"`
	Size            int64     `json:"size"`
	Checksum        string    `json:"checksum"`
	StorageLocation string    `json:"storage_location"`
	ChangeSummary   *string   `json:"change_summary,omitempty"`
	VersionCreated  time.Time `json:"version_created_at"`
}

func newLatestSnapshot(file *entity.File, version *entity.FileVersion) latestSnapshot {
	return latestSnapshot{
		FileID:          file.ID,
		Name:            file.Name.Value(),
		LatestVersion:   file.LatestVersion,
		FileCreatedAt:   file.CreatedAt,
		FileUpdatedAt:   file.UpdatedAt,
		VersionID:       version.ID,
		VersionNumber:   version.VersionNumber,
		Content:         version.Content,
		Size:            version.Size,
		Checksum:        version.Checksum,
		StorageLocation: version.StorageLocation,
		ChangeSummary:   version.ChangeSummary,
		VersionCreated:  version.CreatedAt,
	}
}

func (s latestSnapshot) restore() (*entity.File, *entity.FileVersion) {
	file := entity.ReconstructFile(
		s.FileID,
		valueobject.ReconstructFileName(s.Name),
		s.LatestVersion,
		s.FileCreatedAt,
		s.FileUpdatedAt,
	)
	version := entity.ReconstructFileVersion(
		s.VersionID,
		s.FileID,
		s.VersionNumber,
		s.Content,
		s.Size,
		s.Checksum,
		s.StorageLocation,
		s.ChangeSummary,
		s.VersionCreated,
	)
	return file, version
}

// minGenerationTTL は世代キーの最短保持期間
// 読み込み中に世代キーが消えると古い値を書き戻せてしまうため、スナップショットより長く保持する
const minGenerationTTL = time.Hour

// RedisLatestVersionCache はRedisによるLatestVersionCacheの実装
// キャッシュ障害は読み込み元にフォールバックさせるため、エラーはログのみ
type RedisLatestVersionCache struct {
	cache         *Cache
	generationTTL time.Duration
}

// NewRedisLatestVersionCache は新しいRedisLatestVersionCacheを作成します
func NewRedisLatestVersionCache(client *RedisClient, ttl time.Duration) service.LatestVersionCache {
	return &RedisLatestVersionCache{
		cache:         NewCache(client.Client(), NamespaceLatest, ttl),
		generationTTL: max(ttl, minGenerationTTL),
	}
}

// Get はキャッシュ済みの最新バージョンを返します
func (c *RedisLatestVersionCache) Get(ctx context.Context, fileID uuid.UUID) (*entity.File, *entity.FileVersion, bool) {
	var snapshot latestSnapshot
	if err := c.cache.Get(ctx, fileID.String(), &snapshot); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("latest version cache read failed", "file_id", fileID, "error", err)
		}
		return nil, nil, false
	}
	if snapshot.FileID != fileID || snapshot.VersionNumber != snapshot.LatestVersion {
		return nil, nil, false
	}
	file, version := snapshot.restore()
	return file, version, true
}

// Generation はファイルの書き込み世代を返します
func (c *RedisLatestVersionCache) Generation(ctx context.Context, fileID uuid.UUID) (int64, bool) {
	generation, err := c.cache.Fence(ctx, LatestGenerationKey(fileID))
	if err != nil {
		slog.Warn("latest version generation read failed", "file_id", fileID, "error", err)
		return 0, false
	}
	return generation, true
}

// Set は世代が変わっていなければ最新バージョンをキャッシュします
func (c *RedisLatestVersionCache) Set(ctx context.Context, file *entity.File, version *entity.FileVersion, generation int64) {
	if !version.IsLatest(file.LatestVersion) {
		return
	}
	stored, err := c.cache.SetFenced(ctx, file.ID.String(), LatestGenerationKey(file.ID), generation, newLatestSnapshot(file, version))
	if err != nil {
		slog.Warn("latest version cache write failed", "file_id", file.ID, "error", err)
		return
	}
	if !stored {
		slog.Debug("latest version cache write skipped", "file_id", file.ID, "generation", generation)
	}
}

// Invalidate は世代を進めてファイルのキャッシュを破棄します
func (c *RedisLatestVersionCache) Invalidate(ctx context.Context, fileID uuid.UUID) {
	if err := c.cache.DeleteFenced(ctx, fileID.String(), LatestGenerationKey(fileID), c.generationTTL); err != nil {
		slog.Warn("latest version cache invalidation failed", "file_id", fileID, "error", err)
	}
}
