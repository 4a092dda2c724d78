package db

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"pest-erp/pkg/types"
)

// ApplyListParams накладывает фильтры, сортировку и страницу из filter.
// allowedMap: поле API -> выражение SQL. Фильтр по полю вне карты даёт
// пустую выборку, сортировка по такому полю игнорируется.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	fields := make([]string, 0, len(filter.Filter))
	for jsonField := range filter.Filter {
		fields = append(fields, jsonField)
	}
	sort.Strings(fields)

	for _, jsonField := range fields {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			builder = builder.Where(sq.Expr("1 = 0"))
			continue
		}
		val := filter.Filter[jsonField]
		if val == nil {
			continue
		}
		builder = builder.Where(sq.Eq{dbCol: val})
	}

	if len(filter.Sort) > 0 {
		sortFields := make([]string, 0, len(filter.Sort))
		for jsonField := range filter.Sort {
			sortFields = append(sortFields, jsonField)
		}
		sort.Strings(sortFields)

		for _, jsonField := range sortFields {
			dbCol, ok := allowedMap[jsonField]
			if !ok {
				continue
			}
			sqlDir := "ASC"
			if strings.ToLower(filter.Sort[jsonField]) == "desc" {
				sqlDir = "DESC"
			}
			builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
		}
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset >= 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}
