package repositories

import (
	"context"
	"sort"

	"pest-erp/internal/lists"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
)

// RowSource - граница "загрузить строки" для списка.
type RowSource interface {
	FetchRows(ctx context.Context, def lists.Definition, filter types.Filter) ([]listing.Row, uint64, error)
}

// FixtureRowSource отдаёт весь набор строк списка из встроенных фикстур.
// filter не применяется: фильтрует контроллер в памяти.
type FixtureRowSource struct {
	store *lists.FixtureStore
}

func NewFixtureRowSource(store *lists.FixtureStore) *FixtureRowSource {
	return &FixtureRowSource{store: store}
}

func (s *FixtureRowSource) FetchRows(ctx context.Context, def lists.Definition, _ types.Filter) ([]listing.Row, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	rows, err := s.store.Rows(def.Table)
	if err != nil {
		return nil, 0, err
	}
	rows = listing.Filter(rows, scopePredicate(def.Scope))
	return rows, uint64(len(rows)), nil
}

func scopePredicate(scope map[string]interface{}) listing.Predicate {
	preds := make([]listing.Predicate, 0, len(scope))
	for _, field := range sortedKeys(scope) {
		preds = append(preds, listing.FieldEquals(field, scope[field]))
	}
	return listing.And(preds...)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
