package listeners

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"testpark-console/internal/events"
	"testpark-console/pkg/eventbus"
	"testpark-console/pkg/websocket"
)

// Broadcaster - то, куда уходят уведомления для открытых консолей.
type Broadcaster interface {
	Broadcast(payload interface{}, messageType string) error
}

// OrderChangeListener пишет строку аудита и рассылает консолям
// сигнал перечитать изменённые заявки.
type OrderChangeListener struct {
	hub    Broadcaster
	audit  *zap.Logger
	logger *zap.Logger
}

func NewOrderChangeListener(hub Broadcaster, audit, logger *zap.Logger) *OrderChangeListener {
	return &OrderChangeListener{hub: hub, audit: audit, logger: logger}
}

func (l *OrderChangeListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderChangedEventName, l.handleOrderChanged)
	l.logger.Info("OrderChangeListener подписан на событие", zap.String("event", events.OrderChangedEventName))
}

func (l *OrderChangeListener) handleOrderChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderChangedEvent)
	if !ok {
		return nil
	}

	l.audit.Info("audit",
		zap.String("eventID", e.EventID),
		zap.String("action", e.Action),
		zap.Int64s("orderNos", e.OrderNos),
		zap.String("actor", e.Actor),
		zap.String("detail", e.Detail),
		zap.Time("at", e.At),
	)

	payload := websocket.OrdersChangedPayload{
		EventID:  e.EventID,
		OrderNos: e.OrderNos,
		Action:   e.Action,
		Actor:    e.Actor,
		Message:  describe(e),
		At:       e.At,
	}
	if err := l.hub.Broadcast(payload, websocket.TypeOrdersChanged); err != nil {
		return fmt.Errorf("рассылка %s: %w", e.EventID, err)
	}
	return nil
}

// describe - короткая строка для всплывающего уведомления в консоли.
func describe(e events.OrderChangedEvent) string {
	target := "주문"
	if len(e.OrderNos) == 1 {
		target = fmt.Sprintf("주문 #%d", e.OrderNos[0])
	}

	switch e.Action {
	case events.ActionStatus:
		status, _, _ := strings.Cut(e.Detail, " ")
		return fmt.Sprintf("%s님이 %s 상태를 '%s'(으)로 변경했습니다", e.Actor, target, status)
	case events.ActionField:
		return fmt.Sprintf("%s님이 %s의 %s 항목을 수정했습니다", e.Actor, target, e.Detail)
	case events.ActionMemo:
		return fmt.Sprintf("%s님이 %s에 메모를 남겼습니다", e.Actor, target)
	case events.ActionQuote:
		return fmt.Sprintf("%s님이 %s에 견적(%s) 링크를 추가했습니다", e.Actor, target, e.Detail)
	case events.ActionCafeLink:
		return fmt.Sprintf("%s님이 %s의 카페 링크를 등록했습니다", e.Actor, target)
	case events.ActionBulkDelete:
		return fmt.Sprintf("%s님이 주문 %d건을 삭제했습니다", e.Actor, len(e.OrderNos))
	}
	return fmt.Sprintf("%s님이 %s을(를) 변경했습니다", e.Actor, target)
}
