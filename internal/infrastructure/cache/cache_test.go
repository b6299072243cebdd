package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

func TestLatestVersionKey(t *testing.T) {
	id := uuid.MustParse("7f1f2a9e-2b7c-4d5e-9b0a-5d1e8c3f4a21")

	assert.Equal(t, "cache:latest:7f1f2a9e-2b7c-4d5e-9b0a-5d1e8c3f4a21", LatestVersionKey(id))
	assert.Equal(t, "ratelimit:documents:write:10.0.0.1", RateLimitKey("documents:write", "10.0.0.1"))
}

func TestLatestSnapshot_RoundTrip(t *testing.T) {
	name, err := valueobject.NewFileName("notes.txt")
	require.NoError(t, err)
	file := entity.NewFile(name)
	summary := "Added 1 line"
	version := entity.NewFileVersion(file.ID, 2, "a\nb", file.ID.String()+"/v2.txt", &summary)
	require.NoError(t, file.AdvanceTo(2))

	gotFile, gotVersion := newLatestSnapshot(file, version).restore()

	assert.Equal(t, file.ID, gotFile.ID)
	assert.Equal(t, "notes.txt", gotFile.Name.Value())
	assert.Equal(t, 2, gotFile.LatestVersion)
	assert.Equal(t, version.Checksum, gotVersion.Checksum)
	assert.Equal(t, "a\nb", gotVersion.Content)
	require.NotNil(t, gotVersion.ChangeSummary)
	assert.Equal(t, summary, *gotVersion.ChangeSummary)
}

// newTestRedis はTEST_REDIS_URLが設定されている場合のみRedisに接続します
func newTestRedis(t *testing.T) *RedisClient {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	client, err := NewRedisClient(context.Background(), NewConfig(url))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLatestVersionCache_SetGetInvalidate(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	c := NewRedisLatestVersionCache(client, time.Minute)

	name, _ := valueobject.NewFileName("cached.txt")
	file := entity.NewFile(name)
	version := entity.NewInitialFileVersion(file.ID, "hello", file.ID.String()+"/v1.txt")

	_, _, ok := c.Get(ctx, file.ID)
	assert.False(t, ok)

	generation, ok := c.Generation(ctx, file.ID)
	require.True(t, ok)
	c.Set(ctx, file, version, generation)
	gotFile, gotVersion, ok := c.Get(ctx, file.ID)
	require.True(t, ok)
	assert.Equal(t, file.ID, gotFile.ID)
	assert.Equal(t, "hello", gotVersion.Content)

	c.Invalidate(ctx, file.ID)
	_, _, ok = c.Get(ctx, file.ID)
	assert.False(t, ok)
}

func TestRedisLatestVersionCache_Set_RejectsStaleGeneration(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	c := NewRedisLatestVersionCache(client, time.Minute)

	name, _ := valueobject.NewFileName("raced.txt")
	file := entity.NewFile(name)
	version := entity.NewInitialFileVersion(file.ID, "before delete", file.ID.String()+"/v1.txt")

	// 読み込み開始後に削除が走った場合
	generation, ok := c.Generation(ctx, file.ID)
	require.True(t, ok)
	c.Invalidate(ctx, file.ID)
	c.Set(ctx, file, version, generation)

	_, _, ok = c.Get(ctx, file.ID)
	assert.False(t, ok)

	next, ok := c.Generation(ctx, file.ID)
	require.True(t, ok)
	assert.Equal(t, generation+1, next)
	c.Set(ctx, file, version, next)
	_, _, ok = c.Get(ctx, file.ID)
	assert.True(t, ok)
}

func TestLatestGenerationKey(t *testing.T) {
	id := uuid.MustParse("7f1f2a9e-2b7c-4d5e-9b0a-5d1e8c3f4a21")

	assert.Equal(t, "cache:latest-gen:7f1f2a9e-2b7c-4d5e-9b0a-5d1e8c3f4a21", LatestGenerationKey(id))
}

func TestRateLimiter_Allow_BlocksAfterLimit(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	limiter := NewRateLimiter(client)
	cfg := RateLimitConfig{Type: "test:" + uuid.NewString(), Requests: 2, Window: time.Minute}

	first, err := limiter.Allow(ctx, "client", cfg)
	require.NoError(t, err)
	second, err := limiter.Allow(ctx, "client", cfg)
	require.NoError(t, err)
	third, err := limiter.Allow(ctx, "client", cfg)
	require.NoError(t, err)

	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)
	assert.True(t, second.Allowed)
	assert.False(t, third.Allowed)
}
