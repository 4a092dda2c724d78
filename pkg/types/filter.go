package types

import "time"

// Filter represents query parameters for filtering, sorting and pagination of a list.
type Filter struct {
	Search   string                 `json:"search,omitempty"`
	Sort     map[string]string      `json:"sort,omitempty"`
	Filter   map[string]interface{} `json:"filter,omitempty"`
	DateFrom *time.Time             `json:"date_from,omitempty"`
	DateTo   *time.Time             `json:"date_to,omitempty"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
	Page     int                    `json:"page"`
	// WithPagination=false отдаёт весь отфильтрованный набор (экспорт scope=all).
	WithPagination bool `json:"with_pagination"`
}

// HasDateRange - включён ли фильтр по датам.
func (f Filter) HasDateRange() bool {
	return f.DateFrom != nil || f.DateTo != nil
}

// Pagination represents pagination metadata.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// http://localhost:8080/api/lists/backlog?search=rat&sort=-service_date&filter[status]=Open&date_from=2025-01-01&date_to=2025-01-31&page=1&page_size=25
