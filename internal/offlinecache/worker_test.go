package offlinecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"testpark-console/internal/repositories"
)

type assetServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newAssetServer(t *testing.T) *assetServer {
	a := &assetServer{}
	a.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.hits.Add(1)
		if strings.HasPrefix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	}))
	t.Cleanup(a.Close)
	return a
}

func newStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisStore(repositories.NewRedisCacheRepository(rdb))
}

func TestFetch_NetworkFirstThenCacheFallback(t *testing.T) {
	assets := newAssetServer(t)
	_, store := newStore(t)
	w := NewWorker(store, assets.URL, "testpark-v2", time.Hour, zap.NewNop())
	ctx := context.Background()

	e, src, err := w.Fetch(ctx, http.MethodGet, "/index.html")
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, src)
	assert.Equal(t, "<html>/index.html</html>", string(e.Body))

	assets.Close()

	e, src, err = w.Fetch(ctx, http.MethodGet, "/index.html")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
	assert.Equal(t, "<html>/index.html</html>", string(e.Body))
	assert.Equal(t, "text/html; charset=utf-8", e.ContentType)

	_, _, err = w.Fetch(ctx, http.MethodGet, "/never-seen.js")
	assert.ErrorIs(t, err, ErrOffline)
}

func TestFetch_NetworkWinsWhenAvailable(t *testing.T) {
	assets := newAssetServer(t)
	_, store := newStore(t)
	w := NewWorker(store, assets.URL, "testpark-v2", time.Hour, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "testpark-v2", "/app.js", Entry{Status: 200, Body: []byte("stale")}, time.Hour))

	e, src, err := w.Fetch(ctx, http.MethodGet, "/app.js")
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, src)
	assert.Equal(t, "<html>/app.js</html>", string(e.Body))
	assert.Equal(t, int32(1), assets.hits.Load())
}

func TestFetch_APIPathsAreNeverCached(t *testing.T) {
	assets := newAssetServer(t)
	mr, store := newStore(t)
	w := NewWorker(store, assets.URL, "testpark-v2", time.Hour, zap.NewNop())
	ctx := context.Background()

	for _, path := range []string{"/api/ping", "/order/api/orders/", "/console/api/orders"} {
		_, src, err := w.Fetch(ctx, http.MethodGet, path)
		require.NoError(t, err, path)
		assert.Equal(t, SourceNetwork, src)
	}
	assert.Empty(t, mr.Keys())

	assets.Close()
	_, _, err := w.Fetch(ctx, http.MethodGet, "/order/api/orders/")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOffline, "API не откатывается на кеш")
}

func TestFetch_NonOKIsNotStored(t *testing.T) {
	assets := newAssetServer(t)
	mr, store := newStore(t)
	w := NewWorker(store, assets.URL, "testpark-v2", time.Hour, zap.NewNop())

	e, _, err := w.Fetch(context.Background(), http.MethodGet, "/missing.png")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Empty(t, mr.Keys())
}

func TestActivate_KeepsOnlyCurrentTag(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	for _, tag := range []string{"testpark-v1", "testpark-v2", "legacy"} {
		require.NoError(t, store.Put(ctx, tag, "/index.html", Entry{Status: 200}, time.Hour))
		require.NoError(t, store.Put(ctx, tag, "/app.js", Entry{Status: 200}, time.Hour))
	}

	w := NewWorker(store, "http://127.0.0.1:1", "testpark-v2", time.Hour, zap.NewNop())
	removed, err := w.Activate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	tags, err := store.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"testpark-v2"}, tags)
	assert.Len(t, mr.Keys(), 2)
}
