// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ПЕРМИШЕНОВ В СИСТЕМЕ ---

const (
	// Глобальные
	Superuser = "superuser"

	// Справочники
	PestsView      = "pests:view"
	CustomersView  = "customers:view"
	EquipmentsView = "equipments:view"

	// Работы (backlog, followups, KIV)
	ServiceJobsView = "service_jobs:view"

	// Склад
	StockView          = "stock:view"
	PurchaseOrdersView = "purchase_orders:view"

	// Отчёты и дашборд
	ReportsView   = "reports:view"
	DashboardView = "dashboard:view"

	// Персонал
	EmployeesView  = "employees:view"
	AttendanceView = "attendance:view"
	ContractsView  = "contracts:view"

	// Списки
	ListsExport = "lists:export"
)
