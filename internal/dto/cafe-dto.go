package dto

import "testpark-console/internal/entities"

type CafePostPreviewDTO struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Clipboard string `json:"clipboard"`
}

// HandoffDTO - то, что браузер оператора должен сделать сам:
// положить текст в буфер обмена и открыть страницу кафе.
type HandoffDTO struct {
	Clipboard   string `json:"clipboard"`
	OpenURL     string `json:"open_url"`
	Instruction string `json:"instruction"`
}

type CafePostResponseDTO struct {
	Outcome  string             `json:"outcome"`
	PostLink string             `json:"post_link,omitempty"`
	Message  string             `json:"message,omitempty"`
	Post     CafePostPreviewDTO `json:"post"`
	Handoff  *HandoffDTO        `json:"handoff,omitempty"`
	Order    *entities.Order    `json:"order,omitempty"`
	Refetch  bool               `json:"refetch,omitempty"`
}
