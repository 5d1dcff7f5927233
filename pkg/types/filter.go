package types

// Filter - параметры фильтрации списка заявок на стороне консоли.
// Бэкенд отдаёт список целиком, фильтрация и пагинация выполняются здесь.
type Filter struct {
	Search         string            `json:"search,omitempty"`
	Sort           map[string]string `json:"sort,omitempty"`
	Filter         map[string]string `json:"filter,omitempty"`
	Limit          int               `json:"limit"`
	Offset         int               `json:"offset"`
	Page           int               `json:"page"`
	WithPagination bool              `json:"with_pagination"`
}

// http://localhost:8080/console/api/orders?search=강남&filter[recent_status]=업체전달&sort[no]=desc&limit=50&page=1

type Pagination struct {
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}
