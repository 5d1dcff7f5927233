package entities

// Company - исполнитель. Справочник только для чтения.
type Company struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Contact     string   `json:"contact"`
	Areas       []string `json:"areas"`
	IsActive    bool     `json:"is_active"`
	Capacity    int      `json:"capacity"`
	CurrentLoad int      `json:"current_load"`
}

func (c Company) HasCapacity() bool {
	return c.IsActive && (c.Capacity == 0 || c.CurrentLoad < c.Capacity)
}
