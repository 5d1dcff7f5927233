package events

import "time"

const OrderChangedEventName = "order.changed"

// Действия, которые меняют заявку.
const (
	ActionStatus     = "status"
	ActionField      = "field"
	ActionMemo       = "memo"
	ActionQuote      = "quote"
	ActionCafeLink   = "cafe_link"
	ActionBulkDelete = "bulk_delete"
)

// OrderChangedEvent публикуется после успешной мутации. Открытые консоли
// получают его по WebSocket и перечитывают заявку.
type OrderChangedEvent struct {
	EventID  string    `json:"event_id"`
	OrderNos []int64   `json:"order_nos"`
	Action   string    `json:"action"`
	Actor    string    `json:"actor"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

func (e OrderChangedEvent) Name() string {
	return OrderChangedEventName
}
