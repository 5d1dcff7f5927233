package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

const msgBackendUnreachable = "서버에 연결할 수 없습니다"

// CustomValidator подключает validator к echo (c.Validate).
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ParseFilterFromQuery разбирает ?search=&filter[x]=&sort[x]=&limit=&page=.
// Повторяющиеся filter[x] склеиваются через запятую.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]string),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filterReq.Limit = min(l, MaxLimit)
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	}

	filterReq.WithPagination = values.Get("withPagination") != "false"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = strings.TrimSpace(vals[0])
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = strings.Join(vals, ",")
		}
	}

	return filterReq
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

// ErrorResponse - единственное место, где ошибка превращается в HTTP-ответ.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": verr.Error(),
			"body":    map[string]string{"field": verr.Field},
		})
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, e := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("'%s': %s", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "입력값 검증 실패: " + strings.Join(msgs, "; "),
		})
	}

	if code, public, ok := apperrors.StatusFor(err); ok {
		if code >= http.StatusInternalServerError {
			logger.Error("Действие не выполнено", zap.Error(err))
		}
		response := map[string]interface{}{"status": false, "message": public.Error()}
		var denied *authz.DeniedError
		if errors.As(err, &denied) {
			response["body"] = map[string]string{"capability": denied.Capability, "reason": denied.Reason}
		}
		return c.JSON(code, response)
	}

	if be, ok := backend.AsError(err); ok {
		return backendErrorResponse(c, be, logger)
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, map[string]interface{}{"status": false, "message": fmt.Sprint(echoErr.Message)})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "서버 내부 오류가 발생했습니다",
	})
}

// backendErrorResponse: 4xx бэкенда отдаётся как есть с его текстом, всё остальное - 502.
func backendErrorResponse(c echo.Context, be *backend.Error, logger *zap.Logger) error {
	logger.Warn("Ошибка бэкенда",
		zap.String("op", be.Op),
		zap.String("kind", be.Kind.String()),
		zap.Int("status", be.StatusCode),
		zap.String("message", be.Message),
		zap.Error(be.Err),
	)

	code := http.StatusBadGateway
	message := be.Message
	switch be.Kind {
	case backend.KindNetwork:
		message = msgBackendUnreachable
	case backend.KindClient:
		code = be.StatusCode
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			// Сессия Django истекла раньше консольной.
			code = http.StatusUnauthorized
			message = apperrors.ErrSessionNotFound.Error()
		}
	case backend.KindApplication:
		code = http.StatusUnprocessableEntity
	}
	if message == "" {
		message = apperrors.ErrActionFailed.Error()
	}

	return c.JSON(code, map[string]interface{}{
		"status":  false,
		"message": message,
		"body":    map[string]string{"kind": be.Kind.String(), "op": be.Op},
	})
}
