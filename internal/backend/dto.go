package backend

import "testpark-console/internal/entities"

// Credentials - сессия сотрудника в Django. Передаётся в каждый вызов явно,
// клиент ничего не запоминает между запросами.
type Credentials struct {
	SessionID string `json:"session_id"`
	CSRFToken string `json:"csrf_token"`
}

type StatusUpdateRequest struct {
	Status           string `json:"status"`
	MessageSent      bool   `json:"message_sent"`
	MessageContent   string `json:"message_content,omitempty"`
	MessageRecipient string `json:"message_recipient,omitempty"`
}

type FieldUpdateRequest struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

type MemoRequest struct {
	Memo   string `json:"memo"`
	Author string `json:"author"`
}

type QuoteLinkRequest struct {
	QuoteType string `json:"quote_type"`
	Link      string `json:"link"`
}

type BulkDeleteRequest struct {
	OrderIDs []int64 `json:"order_ids"`
}

type CafePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	AutoPost bool   `json:"auto_post"`
}

// MutationResult - общий ответ POST-действий над заявкой.
type MutationResult struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Order   *entities.Order `json:"order,omitempty"`
}

type BulkDeleteResult struct {
	Success      *bool  `json:"success,omitempty"`
	Message      string `json:"message,omitempty"`
	DeletedCount int    `json:"deleted_count"`
}

// CafePostResult - Status: success | manual_required | что угодно ещё (ошибка).
type CafePostResult struct {
	Status   string `json:"status"`
	PostLink string `json:"post_link,omitempty"`
	Message  string `json:"message,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// envelope - поля, по которым распознаётся ошибка приложения в ответе 200
// и текст ошибки в ответах 4xx/5xx.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e envelope) text() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Message != "":
		return e.Message
	}
	return e.Detail
}
