package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/dto"
	"testpark-console/internal/entities"
	"testpark-console/internal/events"
	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
)

type StatusWorkflowInterface interface {
	ChangeStatus(ctx context.Context, p *authz.Principal, no int64, in dto.StatusChangeDTO) (*entities.Order, error)
	RenderTemplate(ctx context.Context, p *authz.Principal, no int64, template string) (string, error)
}

// StatusUpdateError - бэкенд не принял смену статуса. Статус заявки
// в представлении остаётся прежним, действие можно повторить.
type StatusUpdateError struct {
	OrderNo int64
	Target  string
	Err     error
}

func (e *StatusUpdateError) Error() string {
	return fmt.Sprintf("смена статуса заявки %d на %q не выполнена: %v", e.OrderNo, e.Target, e.Err)
}

func (e *StatusUpdateError) Unwrap() error { return e.Err }

// StatusWorkflow: статус и сообщение уходят одним запросом update_status,
// бэкенд фиксирует их вместе. Любой статус можно выставить из любого,
// включая повторное открытие 완료/취소.
type StatusWorkflow struct {
	*BaseService
}

func NewStatusWorkflow(base *BaseService) StatusWorkflowInterface {
	return &StatusWorkflow{BaseService: base}
}

func (w *StatusWorkflow) ChangeStatus(ctx context.Context, p *authz.Principal, no int64, in dto.StatusChangeDTO) (*entities.Order, error) {
	if err := w.CheckPermission(p, authz.OrdersStatus); err != nil {
		return nil, err
	}
	if !in.SendMessage {
		// Поля сообщения без флага - остаток формы, в запрос они не попадают.
		in.Recipient, in.Content, in.Template = "", "", ""
	}
	if err := w.validate(in); err != nil {
		return nil, err
	}

	req := backend.StatusUpdateRequest{Status: in.Status}

	if in.SendMessage {
		content := strings.TrimSpace(in.Content)
		if content == "" && in.Template == "" {
			return nil, apperrors.NewValidationError("content", "메시지 내용을 입력하거나 템플릿을 선택해 주세요")
		}
		if content == "" {
			rendered, err := w.RenderTemplate(ctx, p, no, in.Template)
			if err != nil {
				return nil, err
			}
			content = rendered
		}
		if content == "" {
			return nil, apperrors.NewValidationError("content", "메시지 내용이 비어 있습니다")
		}

		req.MessageSent = true
		req.MessageContent = content
		req.MessageRecipient = in.Recipient
	}

	res, err := w.gateway.UpdateStatus(ctx, p.Credentials, no, req)
	if err != nil {
		w.logger.Warn("Бэкенд отклонил смену статуса",
			zap.Int64("orderNo", no),
			zap.String("status", in.Status),
			zap.Bool("messageSent", req.MessageSent),
			zap.Error(err),
		)
		return nil, &StatusUpdateError{OrderNo: no, Target: in.Status, Err: err}
	}

	detail := in.Status
	if req.MessageSent {
		detail += " +message:" + req.MessageRecipient
	}
	w.publish(p, events.ActionStatus, detail, no)
	w.logger.Info("Статус заявки изменён",
		zap.Int64("orderNo", no),
		zap.String("status", in.Status),
		zap.String("actor", p.Actor()),
		zap.Bool("messageSent", req.MessageSent),
	)

	return w.refresh(ctx, p, no, res.Order), nil
}

// RenderTemplate подставляет поля заявки в шаблон сообщения.
func (w *StatusWorkflow) RenderTemplate(ctx context.Context, p *authz.Principal, no int64, template string) (string, error) {
	tmpl, ok := constants.MessageTemplates[template]
	if !ok {
		return "", apperrors.NewValidationError("template", "알 수 없는 메시지 템플릿입니다")
	}
	order, err := w.gateway.GetOrder(ctx, p.Credentials, no)
	if err != nil {
		return "", err
	}
	return RenderMessage(tmpl, *order), nil
}

// RenderMessage - чистая подстановка {плейсхолдеров}; неизвестные заменяются пустой строкой.
func RenderMessage(tmpl string, o entities.Order) string {
	values := map[string]interface{}{
		"no":           strconv.FormatInt(o.No, 10),
		"company":      o.AssignedCompany,
		"customer":     customerName(o),
		"phone":        o.Phone,
		"area":         o.Area,
		"schedule":     o.Schedule,
		"construction": o.ConstructionType,
	}
	return strings.TrimSpace(fasttemplate.ExecuteString(tmpl, "{", "}", values))
}

func customerName(o entities.Order) string {
	switch {
	case o.Name != "":
		return o.Name
	case o.Nickname != "":
		return o.Nickname
	}
	return "고객"
}
