package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/offlinecache"
)

const headerCacheSource = "X-Cache-Source"

// OfflineController раздаёт статику консоли через офлайн-кеш.
type OfflineController struct {
	worker *offlinecache.Worker
	logger *zap.Logger
}

func NewOfflineController(worker *offlinecache.Worker, logger *zap.Logger) *OfflineController {
	return &OfflineController{worker: worker, logger: logger}
}

func (c *OfflineController) Serve(ctx echo.Context) error {
	req := ctx.Request()
	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path += "?" + req.URL.RawQuery
	}

	entry, source, err := c.worker.Fetch(req.Context(), req.Method, path)
	if err != nil {
		if errors.Is(err, offlinecache.ErrOffline) {
			return ctx.String(http.StatusServiceUnavailable, "오프라인 상태입니다")
		}
		c.logger.Warn("Статика недоступна", zap.String("path", path), zap.Error(err))
		return ctx.String(http.StatusBadGateway, "서버에 연결할 수 없습니다")
	}

	ctx.Response().Header().Set(headerCacheSource, string(source))
	contentType := entry.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return ctx.Blob(entry.Status, contentType, entry.Body)
}
