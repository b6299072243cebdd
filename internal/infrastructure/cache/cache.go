package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss はキャッシュミスを表すエラーです
var ErrCacheMiss = errors.New("cache miss")

// Cache は名前空間付きのJSONキャッシュを提供します
type Cache struct {
	client     *redis.Client
	namespace  string
	defaultTTL time.Duration
}

// NewCache は新しいCacheを作成します
func NewCache(client *redis.Client, namespace string, defaultTTL time.Duration) *Cache {
	return &Cache{
		client:     client,
		namespace:  namespace,
		defaultTTL: defaultTTL,
	}
}

// Get はキャッシュから値を取得します
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, CacheKey(c.namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return nil
}

// 世代キーが取得時のままなら値を書き込む
var setFencedScript = redis.NewScript(`
    local current = redis.call('GET', KEYS[2]) or '0'
    if current ~= ARGV[1] then
        return 0
    end
    redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
    return 1
`)

// 世代を進めてから値を消す
var deleteFencedScript = redis.NewScript(`
    redis.call('INCR', KEYS[2])
    redis.call('PEXPIRE', KEYS[2], ARGV[1])
    redis.call('DEL', KEYS[1])
    return 1
`)

// Fence は世代キーの現在値を返します。未設定なら0
func (c *Cache) Fence(ctx context.Context, fenceKey string) (int64, error) {
	fence, err := c.client.Get(ctx, fenceKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get cache fence: %w", err)
	}
	return fence, nil
}

// SetFenced は世代キーがfenceのままの場合だけ値を設定し、設定したかを返します
func (c *Cache) SetFenced(ctx context.Context, key, fenceKey string, fence int64, value any) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal cache data: %w", err)
	}

	keys := []string{CacheKey(c.namespace, key), fenceKey}
	stored, err := setFencedScript.Run(ctx, c.client, keys,
		strconv.FormatInt(fence, 10), data, c.defaultTTL.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to set cache: %w", err)
	}
	return stored == 1, nil
}

// DeleteFenced は世代キーを進めてから値を削除します
func (c *Cache) DeleteFenced(ctx context.Context, key, fenceKey string, fenceTTL time.Duration) error {
	keys := []string{CacheKey(c.namespace, key), fenceKey}
	return deleteFencedScript.Run(ctx, c.client, keys, fenceTTL.Milliseconds()).Err()
}
