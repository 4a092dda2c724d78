package utils

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "pest-erp/pkg/errors"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
)

const (
	DefaultLimit = 10
	MaxLimit     = 500
)

// ParseFilterFromQuery разбирает параметры списка:
//
//	search, date_from, date_to, filter[f]=v, sort=f | sort=-f | sort[f]=asc,
//	page (с единицы), page_size (или limit), scope=all.
//
// Границы дат - в часовом поясе loc.
func ParseFilterFromQuery(values url.Values, loc *time.Location) (types.Filter, error) {
	filterReq := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          DefaultLimit,
		Page:           1,
		WithPagination: true,
	}

	limitStr := values.Get("page_size")
	if limitStr == "" {
		limitStr = values.Get("limit")
	}
	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			return filterReq, apperrors.NewInvalidInputError("некорректный размер страницы: %q", limitStr)
		}
		if l > MaxLimit {
			l = MaxLimit
		}
		filterReq.Limit = l
	}

	if pageStr := values.Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return filterReq, apperrors.NewInvalidInputError("некорректный номер страницы: %q", pageStr)
		}
		filterReq.Page = p
	}
	// Страница за концом даёт пустой список, а не переполнение OFFSET.
	filterReq.Offset = listing.RowOffset(filterReq.Page-1, filterReq.Limit)

	if strings.EqualFold(values.Get("scope"), "all") {
		filterReq.WithPagination = false
	}

	if sort := strings.TrimSpace(values.Get("sort")); sort != "" {
		if strings.HasPrefix(sort, "-") {
			filterReq.Sort[sort[1:]] = "desc"
		} else {
			filterReq.Sort[strings.TrimPrefix(sort, "+")] = "asc"
		}
	}

	var err error
	if filterReq.DateFrom, err = parseDateParam(values, "date_from", loc); err != nil {
		return filterReq, err
	}
	if filterReq.DateTo, err = parseDateParam(values, "date_to", loc); err != nil {
		return filterReq, err
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = vals[0]
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			filterReq.Filter[key[7:len(key)-1]] = vals[0]
		}
	}

	return filterReq, nil
}

func parseDateParam(values url.Values, key string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	t, ok := listing.ParseDate(raw, loc)
	if !ok {
		return nil, apperrors.NewInvalidInputError("некорректная дата в параметре %s: %q", key, raw)
	}
	return &t, nil
}

// SortFromFilter выбирает одно поле сортировки. Если их несколько,
// берётся первое по алфавиту.
func SortFromFilter(filter types.Filter) (listing.SortState, bool) {
	var field string
	for f := range filter.Sort {
		if field == "" || f < field {
			field = f
		}
	}
	if field == "" {
		return listing.SortState{}, false
	}
	return listing.SortState{Field: field, Direction: listing.ParseDirection(filter.Sort[field])}, true
}
