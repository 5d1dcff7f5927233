package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/entities"
	"testpark-console/internal/events"
	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
)

// Исходы публикации в кафе.
const (
	CafeOutcomeSuccess        = constants.CafePostSuccess
	CafeOutcomeManualRequired = constants.CafePostManualRequired
	CafeOutcomeFailed         = "failed"
)

// OperatorHandoff - действия, которые выполняет браузер оператора.
type OperatorHandoff interface {
	CopyToClipboard(ctx context.Context, text string) error
	OpenExternal(ctx context.Context, url string) error
}

// CafePost - составленный пост. Составление не имеет побочных эффектов.
type CafePost struct {
	Title   string
	Content string
}

// ClipboardText - ровно то, что кладётся в буфер обмена при ручной публикации.
func (p CafePost) ClipboardText() string {
	return p.Title + "\n\n" + p.Content
}

// ComposeCafePost собирает заголовок и тело по полям заявки.
func ComposeCafePost(o entities.Order) CafePost {
	values := map[string]interface{}{
		"construction": orEmpty(o.ConstructionType),
		"area":         orEmpty(o.Area),
		"designation":  designationLabel(o),
		"schedule":     orEmpty(o.Schedule),
	}
	return CafePost{
		Title:   fasttemplate.ExecuteString(constants.CafePostTitleTemplate, "{", "}", values),
		Content: fasttemplate.ExecuteString(constants.CafePostContentTemplate, "{", "}", values),
	}
}

func designationLabel(o entities.Order) string {
	d := strings.TrimSpace(o.Designation)
	t := strings.TrimSpace(o.DesignationType)
	switch {
	case d != "" && t != "":
		return fmt.Sprintf("%s (%s)", t, d)
	case t != "":
		return t
	case d != "":
		return d
	}
	return constants.DesignationNone
}

func orEmpty(v string) string {
	if strings.TrimSpace(v) == "" {
		return constants.CafeEmptyValue
	}
	return v
}

// CafeOutcome - результат попытки публикации. Post заполнен всегда,
// даже если публикация не удалась.
type CafeOutcome struct {
	Outcome  string
	PostLink string
	Message  string
	Post     CafePost
	Order    *entities.Order
}

type CafePostServiceInterface interface {
	Preview(ctx context.Context, p *authz.Principal, no int64) (CafePost, error)
	Publish(ctx context.Context, p *authz.Principal, no int64, handoff OperatorHandoff) (*CafeOutcome, error)
	SetCafeLink(ctx context.Context, p *authz.Principal, no int64, link string) (*entities.Order, error)
	WriteURL() string
}

type CafePostService struct {
	*BaseService
	cafeID string
	menuID string
}

func NewCafePostService(base *BaseService, cafeID, menuID string) CafePostServiceInterface {
	return &CafePostService{BaseService: base, cafeID: cafeID, menuID: menuID}
}

// WriteURL - страница написания поста в нужном меню кафе.
func (s *CafePostService) WriteURL() string {
	return fmt.Sprintf(constants.CafeWriteURLFormat, s.cafeID, s.menuID)
}

func (s *CafePostService) Preview(ctx context.Context, p *authz.Principal, no int64) (CafePost, error) {
	if err := s.CheckPermission(p, authz.OrdersView); err != nil {
		return CafePost{}, err
	}
	order, err := s.gateway.GetOrder(ctx, p.Credentials, no)
	if err != nil {
		return CafePost{}, err
	}
	return ComposeCafePost(*order), nil
}

// Publish: автоматическая публикация через бэкенд, при отказе кафе -
// передача текста и ссылки оператору. Любой другой исход завершает действие
// ошибкой ErrActionFailed без дальнейших вызовов.
func (s *CafePostService) Publish(ctx context.Context, p *authz.Principal, no int64, handoff OperatorHandoff) (*CafeOutcome, error) {
	if err := s.CheckPermission(p, authz.OrdersCafe); err != nil {
		return nil, err
	}
	order, err := s.gateway.GetOrder(ctx, p.Credentials, no)
	if err != nil {
		return nil, err
	}

	post := ComposeCafePost(*order)
	out := &CafeOutcome{Outcome: CafeOutcomeFailed, Post: post}

	res, err := s.gateway.PostToCafe(ctx, p.Credentials, no, backend.CafePostRequest{
		Title:    post.Title,
		Content:  post.Content,
		AutoPost: true,
	})
	if err != nil {
		s.logger.Warn("Публикация в кафе не удалась", zap.Int64("orderNo", no), zap.Error(err))
		return out, fmt.Errorf("%w: %w", apperrors.ErrActionFailed, err)
	}
	out.Message = res.Message

	switch res.Status {
	case CafeOutcomeSuccess:
		return s.completeAutoPost(ctx, p, no, res, out)
	case CafeOutcomeManualRequired:
		return s.handOff(ctx, p, no, handoff, out)
	}

	s.logger.Warn("Неизвестный исход публикации в кафе",
		zap.Int64("orderNo", no),
		zap.String("status", res.Status),
		zap.String("message", res.Message),
	)
	return out, fmt.Errorf("%w: status=%q", apperrors.ErrActionFailed, res.Status)
}

func (s *CafePostService) completeAutoPost(ctx context.Context, p *authz.Principal, no int64, res *backend.CafePostResult, out *CafeOutcome) (*CafeOutcome, error) {
	if res.PostLink == "" {
		return out, fmt.Errorf("%w: пустая ссылка на пост", apperrors.ErrActionFailed)
	}
	order, err := s.persistCafeLink(ctx, p, no, res.PostLink)
	if err != nil {
		return out, fmt.Errorf("%w: %w", apperrors.ErrActionFailed, err)
	}
	out.Outcome = CafeOutcomeSuccess
	out.PostLink = res.PostLink
	out.Order = order

	s.logger.Info("Заявка опубликована в кафе",
		zap.Int64("orderNo", no),
		zap.String("postLink", res.PostLink),
		zap.String("actor", p.Actor()),
	)
	return out, nil
}

func (s *CafePostService) handOff(ctx context.Context, p *authz.Principal, no int64, handoff OperatorHandoff, out *CafeOutcome) (*CafeOutcome, error) {
	if handoff == nil {
		return out, fmt.Errorf("%w: нет канала передачи оператору", apperrors.ErrActionFailed)
	}
	if err := handoff.CopyToClipboard(ctx, out.Post.ClipboardText()); err != nil {
		return out, fmt.Errorf("%w: буфер обмена: %w", apperrors.ErrActionFailed, err)
	}
	if err := handoff.OpenExternal(ctx, s.WriteURL()); err != nil {
		return out, fmt.Errorf("%w: открытие кафе: %w", apperrors.ErrActionFailed, err)
	}
	out.Outcome = CafeOutcomeManualRequired

	s.logger.Info("Кафе требует ручной публикации",
		zap.Int64("orderNo", no),
		zap.String("actor", p.Actor()),
	)
	return out, nil
}

// SetCafeLink сохраняет ссылку, указанную оператором вручную.
func (s *CafePostService) SetCafeLink(ctx context.Context, p *authz.Principal, no int64, link string) (*entities.Order, error) {
	if err := s.CheckPermission(p, authz.OrdersCafe); err != nil {
		return nil, err
	}
	link = strings.TrimSpace(link)
	if err := s.validateVar(constants.FieldCafeLink, link, "required,http_url"); err != nil {
		return nil, err
	}
	return s.persistCafeLink(ctx, p, no, link)
}

func (s *CafePostService) persistCafeLink(ctx context.Context, p *authz.Principal, no int64, link string) (*entities.Order, error) {
	res, err := s.gateway.UpdateField(ctx, p.Credentials, no, backend.FieldUpdateRequest{
		Field: constants.FieldCafeLink,
		Value: link,
	})
	if err != nil {
		return nil, err
	}
	s.publish(p, events.ActionCafeLink, link, no)
	return s.refresh(ctx, p, no, res.Order), nil
}
