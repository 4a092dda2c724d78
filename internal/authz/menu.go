package authz

// MenuItem - пункт бокового меню.
type MenuItem struct {
	Key        string     `json:"key"`
	Title      string     `json:"title"`
	Path       string     `json:"path,omitempty"`
	Permission string     `json:"-"`
	Children   []MenuItem `json:"children,omitempty"`
}

// Menu - статическая карта меню ERP: пункт -> право.
var Menu = []MenuItem{
	{Key: "dashboard", Title: "Dashboard", Path: "/dashboard", Permission: DashboardView},
	{Key: "masters", Title: "Masters", Children: []MenuItem{
		{Key: "pests", Title: "Pest List", Path: "/lists/pests", Permission: PestsView},
		{Key: "customers", Title: "Customers", Path: "/lists/customers", Permission: CustomersView},
		{Key: "equipments", Title: "Equipments", Path: "/lists/equipments", Permission: EquipmentsView},
	}},
	{Key: "jobs", Title: "Service Jobs", Children: []MenuItem{
		{Key: "backlog", Title: "Backlog Finder", Path: "/lists/backlog", Permission: ServiceJobsView},
		{Key: "followups", Title: "Followup Finder", Path: "/lists/followups", Permission: ServiceJobsView},
		{Key: "kiv", Title: "KIV Finder", Path: "/lists/kiv", Permission: ServiceJobsView},
		{Key: "contracts", Title: "Contracts", Path: "/contracts", Permission: ContractsView},
	}},
	{Key: "stock", Title: "Stock", Children: []MenuItem{
		{Key: "purchase-orders", Title: "Purchase Orders", Path: "/purchase-orders", Permission: PurchaseOrdersView},
		{Key: "material-issued", Title: "Material Issued", Path: "/lists/material-issued", Permission: StockView},
		{Key: "transfer-in", Title: "Transfer In", Path: "/lists/transfer-in", Permission: StockView},
		{Key: "transfer-out", Title: "Transfer Out", Path: "/lists/transfer-out", Permission: StockView},
	}},
	{Key: "reports", Title: "Reports", Children: []MenuItem{
		{Key: "stock-report", Title: "Stock Report", Path: "/lists/stock-report", Permission: StockView},
		{Key: "usage-report", Title: "Usage Report", Path: "/lists/usage-report", Permission: ReportsView},
	}},
	{Key: "hr", Title: "HR", Children: []MenuItem{
		{Key: "employees", Title: "Employees", Path: "/employees", Permission: EmployeesView},
		{Key: "attendance", Title: "Attendance", Path: "/attendance", Permission: AttendanceView},
	}},
}

// BuildMenu оставляет пункты, доступные сессии. Группа без видимых
// дочерних пунктов скрывается.
func BuildMenu(s Session) []MenuItem {
	return filterMenu(Menu, s)
}

func filterMenu(items []MenuItem, s Session) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if len(item.Children) > 0 {
			children := filterMenu(item.Children, s)
			if len(children) == 0 {
				continue
			}
			item.Children = children
			out = append(out, item)
			continue
		}
		if s.Has(item.Permission) {
			out = append(out, item)
		}
	}
	return out
}
