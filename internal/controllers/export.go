package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/services"
	"testpark-console/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	actionRunner
	exportService services.ExportServiceInterface
	now           func() time.Time
}

func NewExportController(exportService services.ExportServiceInterface, logger *zap.Logger) *ExportController {
	return &ExportController{
		actionRunner:  actionRunner{logger: logger},
		exportService: exportService,
		now:           time.Now,
	}
}

// ExportOrders отдаёт xlsx с тем же фильтром и поиском, что и список, но без пагинации.
func (c *ExportController) ExportOrders(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter.WithPagination = false

	var buf bytes.Buffer
	rows, err := c.exportService.ExportOrders(ctx.Request().Context(), p, filter, &buf)
	if err != nil {
		return c.fail(ctx, err)
	}
	if c.gone(ctx) {
		return nil
	}

	fileName := fmt.Sprintf("견적요청_%s.xlsx", c.now().Format("20060102"))
	c.logger.Info("Выгрузка заявок", zap.String("actor", p.Actor()), zap.Int("rows", rows))

	ctx.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=orders.xlsx; filename*=UTF-8''%s", url.PathEscape(fileName)))
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
