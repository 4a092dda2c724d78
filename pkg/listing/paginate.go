package listing

import "math"

// PageSizeOptions - стандартный набор размеров страницы.
var PageSizeOptions = []int{10, 25, 50, 100}

const DefaultPageSize = 10

// PaginationState хранит 0-based номер страницы и её размер.
type PaginationState struct {
	PageIndex int `json:"page_index"`
	PageSize  int `json:"page_size"`
}

// Offset - индекс первой строки страницы.
func (p PaginationState) Offset() int {
	return RowOffset(p.PageIndex, p.PageSize)
}

// RowOffset = pageIndex*pageSize с насыщением до math.MaxInt вместо переполнения.
func RowOffset(pageIndex, pageSize int) int {
	if pageIndex <= 0 || pageSize <= 0 {
		return 0
	}
	if pageIndex > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return pageIndex * pageSize
}

// PageCount = ceil(total/size), но не меньше 1, чтобы пустая таблица
// показывала "страница 1 из 1".
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Paginate возвращает срез страницы. Страница за пределами диапазона - пустой срез.
func Paginate(rows []Row, pageIndex, pageSize int) []Row {
	if pageIndex < 0 || pageSize <= 0 || len(rows) == 0 {
		return []Row{}
	}
	if pageIndex >= PageCount(len(rows), pageSize) {
		return []Row{}
	}
	start := pageIndex * pageSize
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end:end]
}
