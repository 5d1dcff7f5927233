package websocket

import "time"

// Envelope - конверт сообщения; по Type фронтенд решает, что делать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Тип сообщения: заявки изменились, их нужно перечитать.
const TypeOrdersChanged = "orders_changed"

// OrdersChangedPayload - что изменилось и кем.
type OrdersChangedPayload struct {
	EventID  string    `json:"eventId"`
	OrderNos []int64   `json:"orderNos"`
	Action   string    `json:"action"`
	Actor    string    `json:"actor"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}
