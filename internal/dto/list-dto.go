package dto

import (
	"pest-erp/internal/lists"
	"pest-erp/pkg/listing"
)

// Форматы выгрузки.
const (
	FormatCSV  = "csv"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ListQueryDTO - параметры запроса, которые проверяет валидатор.
// Остальное (search, filter[f], sort, даты) разбирает utils.ParseFilterFromQuery.
type ListQueryDTO struct {
	PageSize int    `query:"page_size" validate:"omitempty,page_size"`
	Format   string `query:"format" validate:"omitempty,oneof=csv html xlsx pdf"`
	Scope    string `query:"scope" validate:"omitempty,oneof=page all"`
}

// AllRows - выгрузка всего отфильтрованного набора вместо видимой страницы.
func (q ListQueryDTO) AllRows() bool {
	return q.Scope == "all"
}

// ListPageDTO - одна страница списка. Page с единицы.
type ListPageDTO struct {
	List       string        `json:"list"`
	Rows       []listing.Row `json:"rows"`
	TotalCount uint64        `json:"total_count"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

type ListDefinitionDTO struct {
	lists.Definition
	CanExport bool `json:"can_export"`
}

type FieldOptionsDTO struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// ExportFile - готовый файл для отдачи через Content-Disposition.
type ExportFile struct {
	FileName    string
	ContentType string
	Body        []byte
}
