// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ПРАВ КОНСОЛИ ---
// Значения совпадают с тем, что отдаёт /accounts/api/me/ в поле permissions.

const (
	// Глобальные
	Superuser = "superuser"

	// Заявки (Orders)
	OrdersView   = "orders:view"
	OrdersUpdate = "orders:update"
	OrdersStatus = "orders:status"
	OrdersMemo   = "orders:memo"
	OrdersQuote  = "orders:quote"
	OrdersDelete = "orders:delete"
	OrdersCafe   = "orders:cafe"
	OrdersExport = "orders:export"

	// Справочники
	CompaniesView = "companies:view"
)

// staffDefaults - права, которые есть у любого is_staff без явной выдачи.
var staffDefaults = []string{OrdersView, CompaniesView}
