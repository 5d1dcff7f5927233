package types

// OrderStats - данные для карточек статистики на главной странице консоли.
type OrderStats struct {
	TotalCount     int            `json:"total_count"`
	TodayCount     int            `json:"today_count"`
	ReRequestTotal int            `json:"re_request_total"`
	ByStatus       map[string]int `json:"by_status"`
}
