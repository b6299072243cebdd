package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitResult はレート制限チェックの結果を表します
type RateLimitResult struct {
	Allowed   bool      // リクエストが許可されたか
	Remaining int       // 残りリクエスト数
	ResetAt   time.Time // リセット時刻
}

// RateLimitConfig はレート制限の設定を定義します
type RateLimitConfig struct {
	Type     string        // 制限タイプ
	Requests int           // ウィンドウ内の最大リクエスト数
	Window   time.Duration // ウィンドウサイズ
}

// RateLimitDocumentWrite はアップロード・更新・削除に適用する制限
var RateLimitDocumentWrite = RateLimitConfig{
	Type:     "documents:write",
	Requests: 120,
	Window:   time.Minute,
}

// RateLimiter はスライディングウィンドウ方式のレート制限を提供します
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter は新しいRateLimiterを作成します
func NewRateLimiter(client *RedisClient) *RateLimiter {
	return &RateLimiter{client: client.Client()}
}

// Luaスクリプトでアトミックに処理
var slidingWindowScript = redis.NewScript(`
    local key = KEYS[1]
    local now = tonumber(ARGV[1])
    local window = tonumber(ARGV[2])
    local limit = tonumber(ARGV[3])

    redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

    local count = redis.call('ZCARD', key)

    if count < limit then
        redis.call('ZADD', key, now, now .. ':' .. math.random())
        redis.call('PEXPIRE', key, window)
        return {1, limit - count - 1, now + window}
    else
        local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
        return {0, 0, oldest[2] + window}
    end
`)

// Allow はリクエストが許可されるかチェックします
func (r *RateLimiter) Allow(ctx context.Context, identifier string, config RateLimitConfig) (*RateLimitResult, error) {
	key := RateLimitKey(config.Type, identifier)
	now := time.Now().UnixMilli()

	result, err := slidingWindowScript.Run(ctx, r.client, []string{key}, now, config.Window.Milliseconds(), config.Requests).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected rate limit result: %v", result)
	}

	allowed, _ := result[0].(int64)
	remaining, _ := result[1].(int64)
	resetAt, _ := result[2].(int64)

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetAt:   time.UnixMilli(resetAt),
	}, nil
}
