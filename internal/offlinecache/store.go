package offlinecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"testpark-console/internal/repositories"
	"testpark-console/pkg/constants"
)

// ErrMiss - в кеше нет записи для пути.
var ErrMiss = errors.New("offline cache miss")

// Entry - сохранённый ответ upstream.
type Entry struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	StoredAt    time.Time `json:"stored_at"`
}

type Store interface {
	Put(ctx context.Context, tag, path string, e Entry, ttl time.Duration) error
	Get(ctx context.Context, tag, path string) (*Entry, error)
	Tags(ctx context.Context) ([]string, error)
	DeleteTag(ctx context.Context, tag string) (int, error)
}

// RedisStore: одна запись на ключ offline:<tag>:<path>.
type RedisStore struct {
	cache repositories.CacheRepositoryInterface
}

func NewRedisStore(cache repositories.CacheRepositoryInterface) *RedisStore {
	return &RedisStore{cache: cache}
}

func entryKey(tag, path string) string {
	return fmt.Sprintf(constants.CacheKeyOfflineEntry, tag, path)
}

// tagOf извлекает версию из ключа offline:<tag>:<path>.
func tagOf(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "offline:")
	if !ok {
		return "", false
	}
	tag, _, ok := strings.Cut(rest, ":")
	return tag, ok && tag != ""
}

func (s *RedisStore) Put(ctx context.Context, tag, path string, e Entry, ttl time.Duration) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, entryKey(tag, path), raw, ttl)
}

func (s *RedisStore) Get(ctx context.Context, tag, path string) (*Entry, error) {
	raw, err := s.cache.Get(ctx, entryKey(tag, path))
	if errors.Is(err, repositories.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		_ = s.cache.Del(ctx, entryKey(tag, path))
		return nil, ErrMiss
	}
	return &e, nil
}

func (s *RedisStore) Tags(ctx context.Context) ([]string, error) {
	keys, err := s.cache.Keys(ctx, constants.CacheKeyOfflinePattern)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, k := range keys {
		tag, ok := tagOf(k)
		if !ok {
			continue
		}
		if _, dup := seen[tag]; !dup {
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (s *RedisStore) DeleteTag(ctx context.Context, tag string) (int, error) {
	keys, err := s.cache.Keys(ctx, fmt.Sprintf(constants.CacheKeyOfflineEntry, tag, "*"))
	if err != nil {
		return 0, err
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}
