package lists

import (
	"pest-erp/internal/authz"
	"pest-erp/pkg/listing"
)

var newestFirst = listing.SortState{Field: listing.IDField, Direction: listing.Desc}

func idColumn() listing.Column {
	return listing.Column{Field: listing.IDField, Header: "ID", Numeric: true}
}

func serviceJobColumns() []listing.Column {
	return []listing.Column{
		idColumn(),
		{Field: "job_no", Header: "Job No"},
		{Field: "customer_name", Header: "Customer"},
		{Field: "service_type", Header: "Service"},
		{Field: "technician", Header: "Technician"},
		{Field: "city", Header: "City"},
		{Field: "status", Header: "Status"},
		{Field: "service_date", Header: "Service Date"},
		{Field: "amount", Header: "Amount", Numeric: true},
	}
}

func serviceJobList(name, title, stage string) Definition {
	return Definition{
		Name:         name,
		Title:        title,
		Table:        "service_jobs",
		Columns:      serviceJobColumns(),
		SearchFields: []string{"job_no", "customer_name", "technician", "city"},
		DateField:    "service_date",
		FilterFields: []string{"status", "service_type", "technician"},
		Permission:   authz.ServiceJobsView,
		Mode:         ModeServer,
		Scope:        map[string]interface{}{"stage": stage},
	}
}

func transferList(name, title, direction, branchFilter string) Definition {
	return Definition{
		Name:  name,
		Title: title,
		Table: "stock_transfers",
		Columns: []listing.Column{
			idColumn(),
			{Field: "transfer_no", Header: "Transfer No"},
			{Field: "from_branch", Header: "From"},
			{Field: "to_branch", Header: "To"},
			{Field: "material", Header: "Material"},
			{Field: "quantity", Header: "Qty", Numeric: true},
			{Field: "status", Header: "Status"},
			{Field: "transfer_date", Header: "Date"},
		},
		SearchFields: []string{"transfer_no", "material", "from_branch", "to_branch"},
		DateField:    "transfer_date",
		FilterFields: []string{"status", branchFilter},
		Permission:   authz.StockView,
		Mode:         ModeServer,
		Scope:        map[string]interface{}{"direction": direction},
	}
}

// Catalog - все страницы-списки ERP.
func Catalog() []Definition {
	return []Definition{
		{
			Name:  "pests",
			Title: "Pest List",
			Table: "pests",
			Columns: []listing.Column{
				idColumn(),
				{Field: "name", Header: "Pest"},
				{Field: "category", Header: "Category"},
				{Field: "treatment", Header: "Treatment"},
				{Field: "status", Header: "Status"},
				{Field: "created_at", Header: "Added On"},
			},
			SearchFields: []string{"name", "category", "treatment"},
			DateField:    "created_at",
			FilterFields: []string{"category", "status"},
			DefaultSort:  newestFirst,
			Permission:   authz.PestsView,
			Mode:         ModeClient,
		},
		serviceJobList("backlog", "Backlog Finder", "backlog"),
		serviceJobList("followups", "Followup Finder", "followup"),
		serviceJobList("kiv", "KIV Finder", "kiv"),
		{
			Name:  "material-issued",
			Title: "Material Issued",
			Table: "material_issues",
			Columns: []listing.Column{
				idColumn(),
				{Field: "issue_no", Header: "Issue No"},
				{Field: "material", Header: "Material"},
				{Field: "quantity", Header: "Qty", Numeric: true},
				{Field: "unit", Header: "Unit"},
				{Field: "technician", Header: "Technician"},
				{Field: "status", Header: "Status"},
				{Field: "issue_date", Header: "Issue Date"},
			},
			SearchFields: []string{"issue_no", "material", "technician"},
			DateField:    "issue_date",
			FilterFields: []string{"status", "technician"},
			Permission:   authz.StockView,
			Mode:         ModeServer,
		},
		transferList("transfer-in", "Transfer In", "in", "from_branch"),
		transferList("transfer-out", "Transfer Out", "out", "to_branch"),
		{
			Name:  "customers",
			Title: "Customers",
			Table: "customers",
			Columns: []listing.Column{
				idColumn(),
				{Field: "name", Header: "Name"},
				{Field: "phone", Header: "Phone"},
				{Field: "email", Header: "Email"},
				{Field: "city", Header: "City"},
				{Field: "customer_type", Header: "Type"},
				{Field: "status", Header: "Status"},
				{Field: "created_at", Header: "Created"},
			},
			SearchFields: []string{"name", "phone", "email", "city"},
			DateField:    "created_at",
			FilterFields: []string{"customer_type", "status", "city"},
			DefaultSort:  newestFirst,
			Permission:   authz.CustomersView,
			Mode:         ModeClient,
		},
		{
			Name:  "equipments",
			Title: "Equipments",
			Table: "equipments",
			Columns: []listing.Column{
				idColumn(),
				{Field: "name", Header: "Equipment"},
				{Field: "category", Header: "Category"},
				{Field: "serial_no", Header: "Serial No"},
				{Field: "status", Header: "Status"},
				{Field: "purchase_date", Header: "Purchased"},
			},
			SearchFields: []string{"name", "serial_no"},
			DateField:    "purchase_date",
			FilterFields: []string{"category", "status"},
			DefaultSort:  newestFirst,
			Permission:   authz.EquipmentsView,
			Mode:         ModeClient,
		},
		{
			Name:  "stock-report",
			Title: "Stock Report",
			Table: "stock_report",
			Columns: []listing.Column{
				idColumn(),
				{Field: "material", Header: "Material"},
				{Field: "category", Header: "Category"},
				{Field: "opening", Header: "Opening", Numeric: true},
				{Field: "received", Header: "Received", Numeric: true},
				{Field: "issued", Header: "Issued", Numeric: true},
				{Field: "closing", Header: "Closing", Numeric: true},
				{Field: "report_date", Header: "Date"},
			},
			SearchFields: []string{"material", "category"},
			DateField:    "report_date",
			FilterFields: []string{"category"},
			DefaultSort:  newestFirst,
			Permission:   authz.StockView,
			Mode:         ModeClient,
		},
		{
			Name:  "usage-report",
			Title: "Usage Report",
			Table: "usage_report",
			Columns: []listing.Column{
				idColumn(),
				{Field: "material", Header: "Material"},
				{Field: "technician", Header: "Technician"},
				{Field: "job_no", Header: "Job No"},
				{Field: "quantity", Header: "Qty", Numeric: true},
				{Field: "unit", Header: "Unit"},
				{Field: "usage_date", Header: "Date"},
			},
			SearchFields: []string{"material", "technician", "job_no"},
			DateField:    "usage_date",
			FilterFields: []string{"technician", "material"},
			DefaultSort:  newestFirst,
			Permission:   authz.ReportsView,
			Mode:         ModeClient,
		},
		{
			Name:  "dashboard",
			Title: "Dashboard List",
			Table: "service_jobs",
			Columns: []listing.Column{
				idColumn(),
				{Field: "job_no", Header: "Job No"},
				{Field: "customer_name", Header: "Customer"},
				{Field: "service_type", Header: "Service"},
				{Field: "status", Header: "Status"},
				{Field: "service_date", Header: "Service Date"},
			},
			SearchFields: []string{"job_no", "customer_name"},
			DateField:    "service_date",
			FilterFields: []string{"status", "service_type"},
			DefaultSort:  newestFirst,
			Permission:   authz.DashboardView,
			Mode:         ModeClient,
		},
	}
}

// Default - реестр со всеми списками каталога.
func Default() *Registry {
	r := NewRegistry()
	for _, def := range Catalog() {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}
