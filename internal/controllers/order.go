package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/dto"
	"testpark-console/internal/entities"
	"testpark-console/internal/events"
	"testpark-console/internal/services"
	"testpark-console/pkg/inflight"
	"testpark-console/pkg/utils"
)

type OrderController struct {
	actionRunner
	orderService services.OrderServiceInterface
	workflow     services.StatusWorkflowInterface
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	workflow services.StatusWorkflowInterface,
	guard *inflight.Guard,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		actionRunner: newActionRunner(guard, logger),
		orderService: orderService,
		workflow:     workflow,
	}
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, err := c.orderService.GetOrders(ctx.Request().Context(), p, filter)
	if err != nil {
		c.logger.Error("Ошибка при получении списка заявок", zap.Error(err))
		return c.fail(ctx, err)
	}
	return c.ok(ctx, res, "주문 목록을 불러왔습니다", http.StatusOK)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	no, err := parseOrderNo(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}

	order, err := c.orderService.FindOrder(ctx.Request().Context(), p, no)
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.ok(ctx, order, "주문을 불러왔습니다", http.StatusOK)
}

func (c *OrderController) GetCompanies(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	onlyAvailable := ctx.QueryParam("available") == "true"

	companies, err := c.orderService.GetCompanies(ctx.Request().Context(), p, onlyAvailable)
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.ok(ctx, companies, "업체 목록을 불러왔습니다", http.StatusOK)
}

func (c *OrderController) ChangeStatus(ctx echo.Context) error {
	var payload dto.StatusChangeDTO
	return c.mutateOrder(ctx, events.ActionStatus, &payload, "상태가 변경되었습니다",
		func(reqCtx context.Context, p *authz.Principal, no int64) (*entities.Order, error) {
			return c.workflow.ChangeStatus(reqCtx, p, no, payload)
		})
}

func (c *OrderController) UpdateField(ctx echo.Context) error {
	var payload dto.FieldUpdateDTO
	return c.mutateOrder(ctx, events.ActionField, &payload, "저장되었습니다",
		func(reqCtx context.Context, p *authz.Principal, no int64) (*entities.Order, error) {
			return c.orderService.UpdateField(reqCtx, p, no, payload)
		})
}

func (c *OrderController) AddMemo(ctx echo.Context) error {
	var payload dto.MemoDTO
	return c.mutateOrder(ctx, events.ActionMemo, &payload, "메모가 추가되었습니다",
		func(reqCtx context.Context, p *authz.Principal, no int64) (*entities.Order, error) {
			return c.orderService.AddMemo(reqCtx, p, no, payload)
		})
}

func (c *OrderController) AddQuoteLink(ctx echo.Context) error {
	var payload dto.QuoteLinkDTO
	return c.mutateOrder(ctx, events.ActionQuote, &payload, "견적 링크가 추가되었습니다",
		func(reqCtx context.Context, p *authz.Principal, no int64) (*entities.Order, error) {
			return c.orderService.AddQuoteLink(reqCtx, p, no, payload)
		})
}

func (c *OrderController) BulkDelete(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	var payload dto.BulkDeleteDTO
	if err := bindBody(ctx, &payload); err != nil {
		return c.fail(ctx, err)
	}

	var res *dto.BulkDeleteResponseDTO
	err = c.guarded(ctx, p, events.ActionBulkDelete, 0, func(reqCtx context.Context) error {
		var err error
		res, err = c.orderService.BulkDelete(reqCtx, p, payload)
		return err
	})
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.ok(ctx, res, "선택한 주문이 삭제되었습니다", http.StatusOK)
}

type orderMutation func(reqCtx context.Context, p *authz.Principal, no int64) (*entities.Order, error)

// mutateOrder: Principal, номер заявки, тело запроса, затем действие под флагом.
// Ответ - заявка в том виде, в каком её вернул бэкенд после изменения,
// либо RefetchDTO, если перечитать её не удалось.
func (c *OrderController) mutateOrder(ctx echo.Context, action string, payload interface{}, message string, fn orderMutation) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	no, err := parseOrderNo(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	if err := bindBody(ctx, payload); err != nil {
		return c.fail(ctx, err)
	}

	var order *entities.Order
	err = c.guarded(ctx, p, action, no, func(reqCtx context.Context) error {
		var err error
		order, err = fn(reqCtx, p, no)
		return err
	})
	if err != nil {
		c.logger.Warn("Действие над заявкой не выполнено",
			zap.String("action", action),
			zap.Int64("orderNo", no),
			zap.String("actor", p.Actor()),
			zap.Error(err),
		)
		return c.fail(ctx, err)
	}
	return c.changed(ctx, no, order, message)
}
