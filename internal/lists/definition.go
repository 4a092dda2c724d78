package lists

import (
	"fmt"
	"time"

	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
	"pest-erp/pkg/utils"
)

// Mode - откуда берутся строки списка.
type Mode string

const (
	// ModeClient - весь набор строк загружается один раз, фильтрация в памяти.
	ModeClient Mode = "client"
	// ModeServer - фильтрация, сортировка и страницы на стороне Postgres.
	ModeServer Mode = "server"
)

// Definition описывает одну страницу-список.
type Definition struct {
	Name         string            `json:"name"`
	Title        string            `json:"title"`
	Table        string            `json:"-"`
	Columns      []listing.Column  `json:"columns"`
	SearchFields []string          `json:"search_fields"`
	DateField    string            `json:"date_field,omitempty"`
	FilterFields []string          `json:"filter_fields,omitempty"`
	DefaultSort  listing.SortState `json:"default_sort"`
	Permission   string            `json:"-"`
	Mode         Mode              `json:"mode"`
	// Scope - постоянные условия равенства (например, stage = backlog).
	Scope map[string]interface{} `json:"-"`
}

func (d Definition) Validate() error {
	if d.Name == "" || d.Table == "" {
		return fmt.Errorf("список %q: имя и таблица обязательны", d.Name)
	}
	if d.Mode != ModeClient && d.Mode != ModeServer {
		return fmt.Errorf("список %q: неизвестный режим %q", d.Name, d.Mode)
	}
	if !d.HasColumn(listing.IDField) {
		return fmt.Errorf("список %q: нет колонки id", d.Name)
	}
	for _, f := range d.SearchFields {
		if !d.HasColumn(f) {
			return fmt.Errorf("список %q: поле поиска %q не объявлено", d.Name, f)
		}
	}
	for _, f := range d.FilterFields {
		if !d.HasColumn(f) {
			return fmt.Errorf("список %q: поле фильтра %q не объявлено", d.Name, f)
		}
	}
	if d.DateField != "" && !d.HasColumn(d.DateField) {
		return fmt.Errorf("список %q: поле даты %q не объявлено", d.Name, d.DateField)
	}
	return nil
}

func (d Definition) HasColumn(field string) bool {
	_, ok := d.Column(field)
	return ok
}

func (d Definition) Column(field string) (listing.Column, bool) {
	for _, c := range d.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return listing.Column{}, false
}

// Filterable - есть ли у поля выпадающий фильтр.
func (d Definition) Filterable(field string) bool {
	for _, f := range d.FilterFields {
		if f == field {
			return true
		}
	}
	return false
}

// ControllerConfig - параметры контроллера для этой страницы.
func (d Definition) ControllerConfig(pageSize int, loc *time.Location) listing.Config {
	return listing.Config{
		Columns:      d.Columns,
		SearchFields: d.SearchFields,
		DateField:    d.DateField,
		DefaultSort:  d.DefaultSort,
		PageSize:     pageSize,
		Location:     loc,
	}
}

// ApplyFilter переносит параметры запроса в состояние контроллера.
// Страница выставляется последней: любое изменение фильтра сбрасывает её на первую.
// Без явной сортировки и без DefaultSort - новые сверху, как ORDER BY id DESC
// у серверных списков.
func (d Definition) ApplyFilter(ctrl *listing.Controller, filter types.Filter) {
	ctrl.SetSearchText(filter.Search)
	if filter.HasDateRange() {
		ctrl.SetDateRange(filter.DateFrom, filter.DateTo)
	}
	for field, value := range filter.Filter {
		ctrl.SetFieldFilter(field, value)
	}
	if sortState, ok := utils.SortFromFilter(filter); ok {
		ctrl.SetSortState(sortState)
	} else if d.DefaultSort.Field == "" {
		ctrl.SetSortState(listing.SortState{Field: listing.IDField, Direction: listing.Desc})
	}
	if filter.Limit > 0 {
		ctrl.SetPageSize(filter.Limit)
	}
	if filter.Page > 0 {
		ctrl.SetPage(filter.Page - 1)
	}
}
