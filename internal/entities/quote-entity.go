package entities

import "time"

// Quote - ссылка на смету на одной из стадий (draft, 1st, 2nd, 3rd, final).
type Quote struct {
	ID        int64     `json:"id"`
	OrderNo   int64     `json:"order"`
	Stage     string    `json:"quote_type"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}
