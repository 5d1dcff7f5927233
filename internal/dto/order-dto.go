package dto

import (
	"testpark-console/internal/entities"
	"testpark-console/pkg/types"
)

// StatusChangeDTO - смена статуса с необязательным сообщением.
// Если send_message=true, recipient обязателен, а текст берётся из content
// или из шаблона template.
type StatusChangeDTO struct {
	Status      string `json:"status" validate:"required,order_status"`
	SendMessage bool   `json:"send_message"`
	Recipient   string `json:"recipient" validate:"required_if=SendMessage true,omitempty,recipient"`
	Content     string `json:"content" validate:"max=2000"`
	Template    string `json:"template" validate:"omitempty,message_template"`
}

type FieldUpdateDTO struct {
	Field string      `json:"field" validate:"required,order_field"`
	Value interface{} `json:"value"`
}

type MemoDTO struct {
	Memo string `json:"memo" validate:"required,max=2000"`
}

type QuoteLinkDTO struct {
	QuoteType string `json:"quote_type" validate:"required,quote_stage"`
	Link      string `json:"link" validate:"required,http_url"`
}

type BulkDeleteDTO struct {
	OrderIDs []int64 `json:"order_ids" validate:"required,min=1,max=500,dive,gt=0"`
}

type CafeLinkDTO struct {
	Link string `json:"link" validate:"required,http_url"`
}

// OrderListResponseDTO - тело ответа GET /orders: список, карточки статистики, пагинация.
type OrderListResponseDTO struct {
	List       []entities.Order `json:"list"`
	Stats      types.OrderStats `json:"stats"`
	Pagination types.Pagination `json:"pagination"`
}

type BulkDeleteResponseDTO struct {
	DeletedCount int     `json:"deleted_count"`
	OrderIDs     []int64 `json:"order_ids"`
}

// RefetchDTO - изменение принято, но перечитать заявку не удалось.
type RefetchDTO struct {
	No      int64 `json:"no"`
	Refetch bool  `json:"refetch"`
}
