package listing

import (
	"strings"
	"time"
)

// Predicate решает, остаётся ли строка в выборке.
type Predicate func(Row) bool

// Always пропускает любую строку.
func Always(Row) bool { return true }

// And объединяет предикаты: строка проходит, только если прошла все.
func And(preds ...Predicate) Predicate {
	active := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return Always
	}
	return func(r Row) bool {
		for _, p := range active {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Search: хотя бы одно из полей (в нижнем регистре) содержит text.
// Пустой text подходит под всё.
func Search(text string, fields []string) Predicate {
	needle := strings.ToLower(text)
	if needle == "" {
		return Always
	}
	return func(r Row) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(FormatValue(r[f])), needle) {
				return true
			}
		}
		return false
	}
}

// DateRange: startOfDay(from) <= row[field] <= endOfDay(to), nil-граница не ограничивает.
// Строка с неразборчивой датой не проходит.
func DateRange(field string, from, to *time.Time, loc *time.Location) Predicate {
	if from == nil && to == nil {
		return Always
	}
	if loc == nil {
		loc = time.UTC
	}
	var lo, hi time.Time
	if from != nil {
		lo = StartOfDay(from.In(loc))
	}
	if to != nil {
		hi = EndOfDay(to.In(loc))
	}
	return func(r Row) bool {
		d, ok := ParseDate(r[field], loc)
		if !ok {
			return false
		}
		if from != nil && d.Before(lo) {
			return false
		}
		if to != nil && d.After(hi) {
			return false
		}
		return true
	}
}

// FieldEquals - точное совпадение значения поля. nil снимает фильтр.
// Поле, которого нет в строке, не совпадает никогда.
func FieldEquals(field string, value interface{}) Predicate {
	if value == nil {
		return Always
	}
	return func(r Row) bool {
		v, ok := r[field]
		if !ok || v == nil {
			return false
		}
		return ValuesEqual(v, value)
	}
}

// ValuesEqual сравнивает строку со строкой, число с числом. Значения фильтра
// из query-string приходят текстом, поэтому число и строка сравниваются
// по каноническому тексту числа ("1" == 1, "1.0" != 1).
func ValuesEqual(a, b interface{}) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	switch {
	case aNum && bNum:
		return af == bf
	case aNum || bNum:
		return FormatValue(a) == FormatValue(b)
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return as == bs
	}
	return FormatValue(a) == FormatValue(b)
}

// Filter оставляет строки, прошедшие предикат, в исходном порядке.
func Filter(rows []Row, p Predicate) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if p(r) {
			out = append(out, r)
		}
	}
	return out
}
