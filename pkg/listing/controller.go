package listing

import (
	"time"
)

// Column - колонка таблицы и экспорта.
type Column struct {
	Field   string `json:"field" yaml:"field"`
	Header  string `json:"header" yaml:"header"`
	Numeric bool   `json:"numeric,omitempty" yaml:"numeric,omitempty"`
}

// Config параметризует контроллер под конкретную страницу.
type Config struct {
	Columns      []Column
	SearchFields []string
	DateField    string
	DefaultSort  SortState
	PageSize     int
	Location     *time.Location
}

// FilterState - ввод пользователя. Не сохраняется между переходами.
type FilterState struct {
	SearchText   string                 `json:"search_text"`
	DateEnabled  bool                   `json:"date_enabled"`
	From         *time.Time             `json:"from,omitempty"`
	To           *time.Time             `json:"to,omitempty"`
	FieldFilters map[string]interface{} `json:"field_filters,omitempty"`
}

// DerivedPage - результат filter -> sort -> paginate. Только для чтения.
type DerivedPage struct {
	Rows       []Row `json:"rows"`
	TotalCount int   `json:"total_count"`
	PageCount  int   `json:"page_count"`
	PageIndex  int   `json:"page_index"`
	PageSize   int   `json:"page_size"`
}

// Empty - для отрисовки строки "No results found".
func (p DerivedPage) Empty() bool {
	return p.TotalCount == 0
}

// Controller владеет состоянием фильтра, сортировки и пагинации одной
// страницы-списка и пересчитывает видимый срез синхронно, без I/O.
// Не потокобезопасен: один экземпляр на одно представление.
type Controller struct {
	cfg     Config
	numeric map[string]bool
	rows    []Row
	filter  FilterState
	sort    SortState
	page    PaginationState
}

func NewController(cfg Config) *Controller {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	numeric := make(map[string]bool, len(cfg.Columns)+1)
	numeric[IDField] = true
	for _, col := range cfg.Columns {
		if col.Numeric {
			numeric[col.Field] = true
		}
	}
	return &Controller{
		cfg:     cfg,
		numeric: numeric,
		rows:    []Row{},
		filter:  FilterState{FieldFilters: map[string]interface{}{}},
		sort:    cfg.DefaultSort,
		page:    PaginationState{PageIndex: 0, PageSize: cfg.PageSize},
	}
}

func (c *Controller) Config() Config { return c.cfg }

// SetRows заменяет рабочий набор (после успешного fetch). Позиция страницы сохраняется.
func (c *Controller) SetRows(rows []Row) {
	if rows == nil {
		rows = []Row{}
	}
	c.rows = rows
}

// Rows - текущий рабочий набор.
func (c *Controller) Rows() []Row { return c.rows }

func (c *Controller) SetSearchText(text string) {
	c.filter.SearchText = text
	c.page.PageIndex = 0
}

// SetDateRange задаёт границы и включает фильтр по дате.
func (c *Controller) SetDateRange(from, to *time.Time) {
	c.filter.From = copyTime(from)
	c.filter.To = copyTime(to)
	c.filter.DateEnabled = true
	c.page.PageIndex = 0
}

// SetDateFilterEnabled включает/выключает фильтр, не трогая сохранённые границы.
func (c *Controller) SetDateFilterEnabled(enabled bool) {
	c.filter.DateEnabled = enabled
	c.page.PageIndex = 0
}

// ClearDateRange выключает фильтр и сбрасывает границы.
func (c *Controller) ClearDateRange() {
	c.filter.From, c.filter.To = nil, nil
	c.filter.DateEnabled = false
	c.page.PageIndex = 0
}

// SetFieldFilter: nil снимает фильтр по полю.
func (c *Controller) SetFieldFilter(field string, value interface{}) {
	if value == nil {
		delete(c.filter.FieldFilters, field)
	} else {
		c.filter.FieldFilters[field] = value
	}
	c.page.PageIndex = 0
}

// SetSort - клик по заголовку колонки.
func (c *Controller) SetSort(field string) {
	c.sort = c.sort.Toggle(field)
	c.page.PageIndex = 0
}

// SetSortState задаёт сортировку напрямую (например, из sort=-created_at).
func (c *Controller) SetSortState(s SortState) {
	if s.Direction != Desc {
		s.Direction = Asc
	}
	c.sort = s
	c.page.PageIndex = 0
}

func (c *Controller) SetPage(pageIndex int) {
	c.page.PageIndex = pageIndex
}

// SetPageSize всегда возвращает на первую страницу. Неположительный размер -> размер по умолчанию.
func (c *Controller) SetPageSize(pageSize int) {
	if pageSize <= 0 {
		pageSize = c.cfg.PageSize
	}
	c.page.PageSize = pageSize
	c.page.PageIndex = 0
}

func (c *Controller) Filter() FilterState {
	f := c.filter
	f.FieldFilters = make(map[string]interface{}, len(c.filter.FieldFilters))
	for k, v := range c.filter.FieldFilters {
		f.FieldFilters[k] = v
	}
	f.From, f.To = copyTime(c.filter.From), copyTime(c.filter.To)
	return f
}

func (c *Controller) Sort() SortState             { return c.sort }
func (c *Controller) Pagination() PaginationState { return c.page }

// Predicate собирает все активные условия: поиск И дата И каждый фильтр по полю.
func (c *Controller) Predicate() Predicate {
	preds := []Predicate{Search(c.filter.SearchText, c.cfg.SearchFields)}
	if c.filter.DateEnabled && c.cfg.DateField != "" {
		preds = append(preds, DateRange(c.cfg.DateField, c.filter.From, c.filter.To, c.cfg.Location))
	}
	for field, value := range c.filter.FieldFilters {
		preds = append(preds, FieldEquals(field, value))
	}
	return And(preds...)
}

// Matching - все строки рабочего набора, прошедшие фильтры, в порядке сортировки.
func (c *Controller) Matching() []Row {
	return SortRows(Filter(c.rows, c.Predicate()), c.sort, c.numeric)
}

// Page - чистая функция текущего состояния.
func (c *Controller) Page() DerivedPage {
	matching := c.Matching()
	return DerivedPage{
		Rows:       Paginate(matching, c.page.PageIndex, c.page.PageSize),
		TotalCount: len(matching),
		PageCount:  PageCount(len(matching), c.page.PageSize),
		PageIndex:  c.page.PageIndex,
		PageSize:   c.page.PageSize,
	}
}

// ExportCSV выгружает только видимую страницу.
func (c *Controller) ExportCSV() string {
	return RenderCSV(c.cfg.Columns, c.Page().Rows)
}

// ExportPrintHTML - HTML-документ для печати видимой страницы.
func (c *Controller) ExportPrintHTML(title string) string {
	return RenderPrintHTML(title, c.cfg.Columns, c.Page().Rows)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
