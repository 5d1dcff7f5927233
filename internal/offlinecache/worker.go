// Package offlinecache - серверная замена service worker консоли:
// статика отдаётся по схеме network-first с откатом на кеш,
// API всегда идёт в сеть.
package offlinecache

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"testpark-console/pkg/constants"
)

// Source - откуда взят ответ.
type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
)

// ErrOffline - upstream недоступен и в кеше ничего нет.
var ErrOffline = errors.New("upstream недоступен, кешированной копии нет")

type Worker struct {
	store    Store
	upstream *resty.Client
	tag      string
	ttl      time.Duration
	logger   *zap.Logger
}

func NewWorker(store Store, upstreamURL, tag string, ttl time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		store:    store,
		upstream: resty.New().SetBaseURL(upstreamURL).SetTimeout(10 * time.Second).SetRetryCount(0),
		tag:      tag,
		ttl:      ttl,
		logger:   logger,
	}
}

func (w *Worker) Tag() string { return w.tag }

// IsAPIPath - такие запросы никогда не кешируются.
func IsAPIPath(path string) bool {
	for _, prefix := range constants.APIPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Fetch: API и не-GET - только сеть. Остальное - сначала сеть,
// при сетевой ошибке - кеш текущей версии.
func (w *Worker) Fetch(ctx context.Context, method, path string) (*Entry, Source, error) {
	if method != http.MethodGet || IsAPIPath(path) {
		e, err := w.fromNetwork(ctx, method, path)
		return e, SourceNetwork, err
	}

	e, err := w.fromNetwork(ctx, method, path)
	if err == nil {
		if e.Status == http.StatusOK {
			if perr := w.store.Put(ctx, w.tag, path, *e, w.ttl); perr != nil {
				w.logger.Warn("Не удалось сохранить ресурс в офлайн-кеш", zap.String("path", path), zap.Error(perr))
			}
		}
		return e, SourceNetwork, nil
	}

	cached, cerr := w.store.Get(ctx, w.tag, path)
	if cerr != nil {
		if !errors.Is(cerr, ErrMiss) {
			w.logger.Warn("Ошибка чтения офлайн-кеша", zap.String("path", path), zap.Error(cerr))
		}
		return nil, SourceCache, ErrOffline
	}
	w.logger.Info("Ресурс отдан из офлайн-кеша", zap.String("path", path), zap.Error(err))
	return cached, SourceCache, nil
}

func (w *Worker) fromNetwork(ctx context.Context, method, path string) (*Entry, error) {
	resp, err := w.upstream.R().SetContext(ctx).Execute(method, path)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Status:      resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
		StoredAt:    time.Now(),
	}, nil
}

// Activate удаляет все версии кеша, кроме текущей.
func (w *Worker) Activate(ctx context.Context) (int, error) {
	tags, err := w.store.Tags(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, tag := range tags {
		if tag == w.tag {
			continue
		}
		n, err := w.store.DeleteTag(ctx, tag)
		if err != nil {
			return removed, err
		}
		w.logger.Info("Удалена устаревшая версия офлайн-кеша", zap.String("tag", tag), zap.Int("entries", n))
		removed += n
	}
	return removed, nil
}
