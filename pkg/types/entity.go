package types

import "time"

// BaseEntity - аудиторские отметки, которые проставляет бэкенд.
type BaseEntity struct {
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
