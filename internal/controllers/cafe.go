package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/dto"
	"testpark-console/internal/entities"
	"testpark-console/internal/events"
	"testpark-console/internal/services"
	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/inflight"
)

const actionCafePost = "cafe_post"

type CafeController struct {
	actionRunner
	cafeService services.CafePostServiceInterface
}

func NewCafeController(cafeService services.CafePostServiceInterface, guard *inflight.Guard, logger *zap.Logger) *CafeController {
	return &CafeController{
		actionRunner: newActionRunner(guard, logger),
		cafeService:  cafeService,
	}
}

// responseHandoff передаёт оператору инструкции через тело ответа:
// браузер сам кладёт текст в буфер обмена и открывает кафе.
type responseHandoff struct {
	dto.HandoffDTO
}

func (h *responseHandoff) CopyToClipboard(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if text == "" {
		return errors.New("пустой текст для буфера обмена")
	}
	h.Clipboard = text
	return nil
}

func (h *responseHandoff) OpenExternal(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.OpenURL = url
	h.Instruction = constants.CafeManualInstruction
	return nil
}

func previewDTO(post services.CafePost) dto.CafePostPreviewDTO {
	return dto.CafePostPreviewDTO{
		Title:     post.Title,
		Content:   post.Content,
		Clipboard: post.ClipboardText(),
	}
}

func (c *CafeController) Preview(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	no, err := parseOrderNo(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}

	post, err := c.cafeService.Preview(ctx.Request().Context(), p, no)
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.ok(ctx, previewDTO(post), "게시글 미리보기", http.StatusOK)
}

// Publish: manual_required - это не ошибка, а ответ 200 с инструкциями.
// При неудаче составленный пост всё равно возвращается в body.
func (c *CafeController) Publish(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	no, err := parseOrderNo(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}

	handoff := &responseHandoff{}
	var out *services.CafeOutcome
	err = c.guarded(ctx, p, actionCafePost, no, func(reqCtx context.Context) error {
		var err error
		out, err = c.cafeService.Publish(reqCtx, p, no, handoff)
		return err
	})
	if err != nil {
		if out == nil || errors.Is(err, apperrors.ErrInProgress) {
			return c.fail(ctx, err)
		}
		if be, expired := upstreamAuthError(err); expired {
			return c.fail(ctx, be)
		}
		herr := apperrors.NewHttpError(http.StatusBadGateway, apperrors.ErrActionFailed.Error(), err,
			map[string]interface{}{"orderNo": no, "actor": p.Actor()})
		herr.Details = dto.CafePostResponseDTO{
			Outcome: services.CafeOutcomeFailed,
			Message: out.Message,
			Post:    previewDTO(out.Post),
		}
		return c.fail(ctx, herr)
	}

	res := dto.CafePostResponseDTO{
		Outcome:  out.Outcome,
		PostLink: out.PostLink,
		Message:  out.Message,
		Post:     previewDTO(out.Post),
		Order:    out.Order,
		Refetch:  out.Outcome == services.CafeOutcomeSuccess && out.Order == nil,
	}
	message := "카페에 게시되었습니다"
	if out.Outcome == services.CafeOutcomeManualRequired {
		res.Handoff = &handoff.HandoffDTO
		message = constants.CafeManualInstruction
	}
	return c.ok(ctx, res, message, http.StatusOK)
}

func (c *CafeController) SetCafeLink(ctx echo.Context) error {
	p, err := c.principal(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	no, err := parseOrderNo(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	var payload dto.CafeLinkDTO
	if err := bindBody(ctx, &payload); err != nil {
		return c.fail(ctx, err)
	}

	var order *entities.Order
	err = c.guarded(ctx, p, events.ActionCafeLink, no, func(reqCtx context.Context) error {
		var err error
		order, err = c.cafeService.SetCafeLink(reqCtx, p, no, payload.Link)
		return err
	})
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.changed(ctx, no, order, "카페 링크가 저장되었습니다")
}

var _ services.OperatorHandoff = (*responseHandoff)(nil)
