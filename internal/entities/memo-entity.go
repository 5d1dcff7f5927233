package entities

import "time"

// Memo - внутренняя заметка сотрудника. После создания не меняется.
type Memo struct {
	ID        int64     `json:"id"`
	OrderNo   int64     `json:"order"`
	Content   string    `json:"memo"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
