package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/entities"
	"testpark-console/internal/events"
	"testpark-console/pkg/customvalidator"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/eventbus"
)

// BaseService - общее для всех сервисов консоли: шлюз к Django, валидатор,
// шина событий и проверка прав.
type BaseService struct {
	gateway   backend.GatewayInterface
	validator *validator.Validate
	bus       *eventbus.Bus
	logger    *zap.Logger
	now       func() time.Time
}

func NewBaseService(gateway backend.GatewayInterface, v *validator.Validate, bus *eventbus.Bus, logger *zap.Logger) *BaseService {
	return &BaseService{
		gateway:   gateway,
		validator: v,
		bus:       bus,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckPermission - явная проверка права в точке входа действия.
func (s *BaseService) CheckPermission(p *authz.Principal, capability string) error {
	decision := authz.Check(p, capability)
	if !decision.Allowed {
		s.logger.Warn("Отказано в доступе",
			zap.String("actor", p.Actor()),
			zap.String("capability", capability),
			zap.String("reason", decision.Reason),
		)
	}
	return decision.Err()
}

// validate проверяет DTO до любого сетевого вызова.
func (s *BaseService) validate(v interface{}) error {
	return customvalidator.ToValidationError(s.validator.Struct(v))
}

func (s *BaseService) validateVar(field string, value interface{}, tag string) error {
	if err := s.validator.Var(value, tag); err != nil {
		verr := customvalidator.ToValidationError(err)
		if ve, ok := verr.(*apperrors.ValidationError); ok {
			ve.Field = field
		}
		return verr
	}
	return nil
}

// refresh перечитывает заявку после мутации: на сервере могли измениться
// поля, которых не было в запросе (например счётчик повторных обращений).
// Мутация к этому моменту уже принята, поэтому ошибка чтения не становится
// ошибкой действия: возвращается ответ мутации, а если его нет - nil.
// nil означает "изменено, перечитайте заявку".
func (s *BaseService) refresh(ctx context.Context, p *authz.Principal, no int64, fallback *entities.Order) *entities.Order {
	order, err := s.gateway.GetOrder(ctx, p.Credentials, no)
	if err == nil {
		return order
	}
	s.logger.Warn("Не удалось перечитать заявку после принятой мутации",
		zap.Int64("orderNo", no),
		zap.Bool("fallback", fallback != nil),
		zap.Error(err),
	)
	return fallback
}

func (s *BaseService) publish(p *authz.Principal, action, detail string, nos ...int64) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.OrderChangedEvent{
		EventID:  uuid.NewString(),
		OrderNos: nos,
		Action:   action,
		Actor:    p.Actor(),
		Detail:   detail,
		At:       s.now(),
	})
}
