package listing

import (
	"cmp"
	"slices"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection понимает "asc"/"desc" в любом регистре, всё остальное -> Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortState - текущая сортировка. Пустое Field означает "без сортировки".
type SortState struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Toggle применяет клик по заголовку колонки: тот же field меняет направление,
// новый field начинается с Asc.
func (s SortState) Toggle(field string) SortState {
	if field == s.Field && field != "" {
		if s.Direction == Desc {
			return SortState{Field: field, Direction: Asc}
		}
		return SortState{Field: field, Direction: Desc}
	}
	return SortState{Field: field, Direction: Asc}
}

// CompareValues сравнивает два значения поля. Числа сравниваются численно,
// остальное - как строки без учёта регистра, и в смешанном поле текст идёт раньше чисел. numeric=true дополнительно
// разрешает разбирать числа из строк (id из query-string и т.п.).
func CompareValues(a, b interface{}, numeric bool) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		return cmp.Compare(af, bf)
	}
	if numeric {
		af, aok := parseNumber(a)
		bf, bok := parseNumber(b)
		switch {
		case aok && bok:
			return cmp.Compare(af, bf)
		case aok:
			return 1
		case bok:
			return -1
		}
	}
	// В текстовом поле числа идут после текста, как в числовом поле.
	switch {
	case aNum && !bNum:
		return 1
	case bNum && !aNum:
		return -1
	}
	return strings.Compare(strings.ToLower(FormatValue(a)), strings.ToLower(FormatValue(b)))
}

// Comparator строит функцию сравнения строк для slices.SortStableFunc.
func Comparator(s SortState, numericFields map[string]bool) func(a, b Row) int {
	numeric := numericFields[s.Field] || s.Field == IDField
	return func(a, b Row) int {
		c := CompareValues(a[s.Field], b[s.Field], numeric)
		if s.Direction == Desc {
			return -c
		}
		return c
	}
}

// SortRows возвращает отсортированную копию. Исходный срез не меняется.
func SortRows(rows []Row, s SortState, numericFields map[string]bool) []Row {
	out := slices.Clone(rows)
	if s.Field == "" {
		return out
	}
	slices.SortStableFunc(out, Comparator(s, numericFields))
	return out
}
