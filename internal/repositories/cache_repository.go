package repositories

import (
	"context"
	"time"
)

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	// Keys возвращает ключи по glob-шаблону (через SCAN, без блокировки Redis).
	Keys(ctx context.Context, pattern string) ([]string, error)
}
