package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定を定義します
type Config struct {
	URL          string        // redis://[:password@]host:port/db
	MaxRetries   int           // 最大リトライ回数
	MinIdleConns int           // 最小アイドル接続数
	DialTimeout  time.Duration // 接続タイムアウト
	ReadTimeout  time.Duration // 読み取りタイムアウト
	WriteTimeout time.Duration // 書き込みタイムアウト
}

// NewConfig はURLにデフォルトの接続パラメータを補った設定を返します
func NewConfig(url string) Config {
	return Config{
		URL:          url,
		MaxRetries:   2,
		MinIdleConns: 2,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
}

// RedisClient はRedis接続を保持します
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient は新しいRedisClientを作成し、接続を確認します
func NewRedisClient(ctx context.Context, cfg Config) (*RedisClient, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	// キャッシュ用途なので短めのタイムアウトで上書き
	opt.MaxRetries = cfg.MaxRetries
	opt.MinIdleConns = cfg.MinIdleConns
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Client は内部のredis.Clientを返します
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// Close はRedis接続を閉じます
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Health はRedisの接続状態を確認します
func (r *RedisClient) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
