package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/entities"
	apperrors "testpark-console/pkg/errors"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, CacheRepositoryInterface) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCacheRepository(client)
}

func TestSessionRepository_SaveFindDelete(t *testing.T) {
	_, cache := setupTestRedis(t)
	repo := NewSessionRepository(cache, 0, zap.NewNop())
	ctx := context.Background()

	p := authz.NewPrincipal("abc", entities.User{ID: 1, Username: "staff", IsStaff: true},
		backend.Credentials{SessionID: "dj", CSRFToken: "tok"}, time.Now())
	require.NoError(t, repo.Save(ctx, p, time.Hour))

	got, err := repo.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "staff", got.User.Username)
	assert.Equal(t, "dj", got.Credentials.SessionID)
	assert.True(t, got.Permissions[authz.OrdersView])

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Find(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionRepository_Expires(t *testing.T) {
	mr, cache := setupTestRedis(t)
	repo := NewSessionRepository(cache, 0, zap.NewNop())
	ctx := context.Background()

	p := authz.NewPrincipal("short", entities.User{Username: "staff"}, backend.Credentials{}, time.Now())
	require.NoError(t, repo.Save(ctx, p, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Find(ctx, "short")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionRepository_IdleTimeoutSlidesOnFind(t *testing.T) {
	mr, cache := setupTestRedis(t)
	repo := NewSessionRepository(cache, 30*time.Minute, zap.NewNop())
	ctx := context.Background()

	p := authz.NewPrincipal("busy", entities.User{Username: "staff"}, backend.Credentials{}, time.Now())
	require.NoError(t, repo.Save(ctx, p, 12*time.Hour))
	assert.Equal(t, 30*time.Minute, mr.TTL("console_session:busy"), "запись живёт не дольше idle")

	mr.FastForward(20 * time.Minute)
	_, err := repo.Find(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, mr.TTL("console_session:busy"))

	mr.FastForward(20 * time.Minute)
	_, err = repo.Find(ctx, "busy")
	require.NoError(t, err, "активная сессия не истекает по idle")

	mr.FastForward(31 * time.Minute)
	_, err = repo.Find(ctx, "busy")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionRepository_CorruptedEntryIsDropped(t *testing.T) {
	mr, cache := setupTestRedis(t)
	repo := NewSessionRepository(cache, 0, zap.NewNop())

	require.NoError(t, mr.Set("console_session:bad", "{not json"))

	_, err := repo.Find(context.Background(), "bad")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.False(t, mr.Exists("console_session:bad"))
}

func TestRedisCacheRepository_Keys(t *testing.T) {
	_, cache := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "offline:v1:/a", "1", 0))
	require.NoError(t, cache.Set(ctx, "offline:v2:/a", "2", 0))
	require.NoError(t, cache.Set(ctx, "console_session:x", "3", 0))

	keys, err := cache.Keys(ctx, "offline:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"offline:v1:/a", "offline:v2:/a"}, keys)

	_, err = cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
