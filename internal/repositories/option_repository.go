package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pest-erp/internal/lists"
	apperrors "pest-erp/pkg/errors"
	"pest-erp/pkg/listing"
)

type OptionRepositoryInterface interface {
	DistinctValues(ctx context.Context, def lists.Definition, field string) ([]string, error)
	Invalidate(ctx context.Context, def lists.Definition) error
}

// OptionRepository - значения выпадающих фильтров. Серверные списки читают
// DISTINCT из Postgres, остальные - из фикстур. Результат кешируется.
type OptionRepository struct {
	storage  querier
	fixtures *lists.FixtureStore
	cache    CacheRepositoryInterface
	ttl      time.Duration
	logger   *zap.Logger
}

// NewOptionRepository: storage и cache могут быть nil (режим только фикстур).
func NewOptionRepository(storage *pgxpool.Pool, fixtures *lists.FixtureStore, cache CacheRepositoryInterface, ttl time.Duration, logger *zap.Logger) *OptionRepository {
	r := &OptionRepository{fixtures: fixtures, cache: cache, ttl: ttl, logger: logger}
	if storage != nil {
		r.storage = storage
	}
	return r
}

func optionsCacheKey(list, field string) string {
	return fmt.Sprintf("lists:options:%s:%s", list, field)
}

func (r *OptionRepository) DistinctValues(ctx context.Context, def lists.Definition, field string) ([]string, error) {
	if !def.Filterable(field) {
		return nil, fmt.Errorf("%w: %s.%s", apperrors.ErrFieldNotFilterable, def.Name, field)
	}
	key := optionsCacheKey(def.Name, field)

	// 1. Кеш
	if r.cache != nil {
		cached, errGet := r.cache.Get(ctx, key)
		if errGet == nil {
			var values []string
			if err := json.Unmarshal([]byte(cached), &values); err == nil {
				r.logger.Debug("OptionRepository: значения найдены в кеше", zap.String("key", key))
				return values, nil
			} else {
				r.logger.Warn("OptionRepository: повреждённый кеш", zap.String("key", key), zap.Error(err))
			}
		}
	}

	// 2. Источник
	var (
		values []string
		err    error
	)
	if def.Mode == lists.ModeServer && r.storage != nil {
		values, err = r.fromPostgres(ctx, def, field)
	} else {
		values, err = r.fromFixtures(def, field)
	}
	if err != nil {
		return nil, err
	}

	// 3. Обратно в кеш
	if r.cache != nil {
		if payload, errMarshal := json.Marshal(values); errMarshal == nil {
			if errSet := r.cache.Set(ctx, key, string(payload), r.ttl); errSet != nil {
				r.logger.Warn("OptionRepository: не удалось сохранить в кеш", zap.String("key", key), zap.Error(errSet))
			}
		}
	}
	return values, nil
}

func (r *OptionRepository) distinctQuery(def lists.Definition, field string) sq.SelectBuilder {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("DISTINCT " + col(field) + "::text").
		From(def.Table + " AS " + tableAlias)
	for _, f := range sortedKeys(def.Scope) {
		b = b.Where(sq.Eq{col(f): def.Scope[f]})
	}
	return b.Where(sq.NotEq{col(field): nil}).OrderBy("1")
}

func (r *OptionRepository) fromPostgres(ctx context.Context, def lists.Definition, field string) ([]string, error) {
	query, args, err := r.distinctQuery(def, field).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("options %s.%s: %w", def.Name, field, err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *OptionRepository) fromFixtures(def lists.Definition, field string) ([]string, error) {
	rows, err := r.fixtures.Rows(def.Table)
	if err != nil {
		return nil, err
	}
	rows = listing.Filter(rows, scopePredicate(def.Scope))

	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, row := range rows {
		v := listing.FormatValue(row[field])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		return strings.ToLower(values[i]) < strings.ToLower(values[j])
	})
	return values, nil
}

// Invalidate сбрасывает кеш всех полей списка.
func (r *OptionRepository) Invalidate(ctx context.Context, def lists.Definition) error {
	if r.cache == nil {
		return nil
	}
	keys, err := r.cache.Keys(ctx, optionsCacheKey(def.Name, "*"))
	if err != nil {
		return err
	}
	return r.cache.Del(ctx, keys...)
}
