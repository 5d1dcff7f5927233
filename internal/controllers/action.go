package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/dto"
	"testpark-console/internal/entities"
	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/inflight"
	"testpark-console/pkg/utils"
)

// actionRunner - общее для обработчиков консоли: Principal из контекста,
// флаг "идёт загрузка" и запись ответа только в живое соединение.
type actionRunner struct {
	guard  *inflight.Guard
	logger *zap.Logger
}

func newActionRunner(guard *inflight.Guard, logger *zap.Logger) actionRunner {
	return actionRunner{guard: guard, logger: logger}
}

func (r actionRunner) principal(ctx echo.Context) (*authz.Principal, error) {
	return utils.GetPrincipalFromContext(ctx.Request().Context())
}

// guarded выполняет fn под флагом (оператор, действие, заявка).
// Повтор до завершения первого вызова получает ErrInProgress.
func (r actionRunner) guarded(ctx echo.Context, p *authz.Principal, action string, target int64, fn func(reqCtx context.Context) error) error {
	key := inflight.Key{Actor: p.Actor(), Action: action, Target: target}
	busy, err := r.guard.Run(key, func() error {
		return fn(ctx.Request().Context())
	})
	if busy {
		r.logger.Info("Действие уже выполняется", zap.String("key", key.String()))
		return fmt.Errorf("%s: %w", key, apperrors.ErrInProgress)
	}
	return err
}

// ok пишет успешный ответ, если клиент ещё ждёт его.
func (r actionRunner) ok(ctx echo.Context, body interface{}, message string, code int) error {
	if r.gone(ctx) {
		return nil
	}
	return utils.SuccessResponse(ctx, body, message, code)
}

// changed отвечает заявкой после мутации. Если бэкенд принял изменение,
// а заявку перечитать не удалось, ответ всё равно 200 с подсказкой refetch.
func (r actionRunner) changed(ctx echo.Context, no int64, order *entities.Order, message string) error {
	if order == nil {
		return r.ok(ctx, dto.RefetchDTO{No: no, Refetch: true}, constants.RefetchHint, http.StatusOK)
	}
	return r.ok(ctx, order, message, http.StatusOK)
}

func (r actionRunner) fail(ctx echo.Context, err error) error {
	if r.gone(ctx) {
		return nil
	}
	return utils.ErrorResponse(ctx, err, r.logger)
}

func (r actionRunner) gone(ctx echo.Context) bool {
	if err := ctx.Request().Context().Err(); err != nil {
		r.logger.Info("Клиент отключился, ответ не отправлен",
			zap.String("path", ctx.Path()),
			zap.Error(err),
		)
		return true
	}
	return false
}

// upstreamAuthError - бэкенд отверг сессию (401/403). Такая ошибка
// не прячется за 502 действия: оператор должен вернуться ко входу.
func upstreamAuthError(err error) (*backend.Error, bool) {
	be, ok := backend.AsError(err)
	if !ok || be.Kind != backend.KindClient {
		return nil, false
	}
	return be, be.StatusCode == http.StatusUnauthorized || be.StatusCode == http.StatusForbidden
}

func parseOrderNo(ctx echo.Context) (int64, error) {
	no, err := strconv.ParseInt(ctx.Param("no"), 10, 64)
	if err != nil || no <= 0 {
		return 0, apperrors.NewValidationError("no", "올바른 주문 번호가 아닙니다")
	}
	return no, nil
}

func bindBody(ctx echo.Context, out interface{}) error {
	if err := ctx.Bind(out); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, apperrors.ErrBadRequest.Error(), err, nil)
	}
	return nil
}
