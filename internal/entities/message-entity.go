package entities

import "time"

type Message struct {
	ID        int64      `json:"id"`
	OrderNo   int64      `json:"order"`
	Content   string     `json:"content"`
	Recipient string     `json:"recipient"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	Status    string     `json:"status"`
}
