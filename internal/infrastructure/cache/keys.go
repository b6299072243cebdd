package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// KeyPrefix はRedisキーのプレフィックスを定義します
type KeyPrefix string

const (
	PrefixRateLimit KeyPrefix = "ratelimit" // ratelimit:{type}:{identifier}
	PrefixCache     KeyPrefix = "cache"     // cache:{namespace}:{key}
)

// 最新バージョンキャッシュの名前空間
const (
	NamespaceLatest           = "latest"
	NamespaceLatestGeneration = "latest-gen"
)

// CacheKey は汎用キャッシュキーを生成します
func CacheKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixCache, namespace, key)
}

// LatestVersionKey はファイルの最新バージョンキャッシュキーを生成します
func LatestVersionKey(fileID uuid.UUID) string {
	return CacheKey(NamespaceLatest, fileID.String())
}

// LatestGenerationKey はファイルの書き込み世代キーを生成します
func LatestGenerationKey(fileID uuid.UUID) string {
	return CacheKey(NamespaceLatestGeneration, fileID.String())
}

// RateLimitKey はレート制限キーを生成します
func RateLimitKey(limitType, identifier string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixRateLimit, limitType, identifier)
}
