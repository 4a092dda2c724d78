package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	bd "pest-erp/internal/infrastructure/bd"
	"pest-erp/internal/lists"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
)

const tableAlias = "t"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresRowSource - серверные страницы: поиск, фильтры, сортировка и
// LIMIT/OFFSET выполняет Postgres, отдельный COUNT даёт total.
type PostgresRowSource struct {
	storage querier
	logger  *zap.Logger
}

func NewPostgresRowSource(storage *pgxpool.Pool, logger *zap.Logger) *PostgresRowSource {
	return &PostgresRowSource{storage: storage, logger: logger}
}

func col(field string) string {
	return tableAlias + "." + field
}

// filterMap: поле -> колонка для равенства.
func filterMap(def lists.Definition) map[string]string {
	m := make(map[string]string, len(def.Columns))
	for _, c := range def.Columns {
		m[c.Field] = col(c.Field)
	}
	return m
}

// sortMap: числа сортируются как числа, остальное без учёта регистра.
func sortMap(def lists.Definition) map[string]string {
	m := make(map[string]string, len(def.Columns))
	for _, c := range def.Columns {
		if c.Numeric || c.Field == listing.IDField || c.Field == def.DateField {
			m[c.Field] = col(c.Field)
		} else {
			m[c.Field] = "LOWER(" + col(c.Field) + "::text)"
		}
	}
	return m
}

func selectColumns(def lists.Definition) []string {
	out := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		if c.Numeric && c.Field != listing.IDField {
			out = append(out, fmt.Sprintf("%s::float8 AS %s", col(c.Field), c.Field))
		} else {
			out = append(out, col(c.Field))
		}
	}
	return out
}

func (s *PostgresRowSource) applyWhere(b sq.SelectBuilder, def lists.Definition, filter types.Filter) sq.SelectBuilder {
	for _, field := range sortedKeys(def.Scope) {
		b = b.Where(sq.Eq{col(field): def.Scope[field]})
	}

	if search := strings.TrimSpace(filter.Search); search != "" && len(def.SearchFields) > 0 {
		pat := "%" + likeEscaper.Replace(search) + "%"
		or := sq.Or{}
		for _, f := range def.SearchFields {
			or = append(or, sq.ILike{col(f) + "::text": pat})
		}
		b = b.Where(or)
	}

	if def.DateField != "" {
		if filter.DateFrom != nil {
			b = b.Where(sq.GtOrEq{col(def.DateField): filter.DateFrom.Format("2006-01-02")})
		}
		if filter.DateTo != nil {
			b = b.Where(sq.LtOrEq{col(def.DateField): filter.DateTo.Format("2006-01-02")})
		}
	}

	return bd.ApplyListParams(b, types.Filter{Filter: filter.Filter}, filterMap(def))
}

func (s *PostgresRowSource) buildQueries(def lists.Definition, filter types.Filter) (count sq.SelectBuilder, page sq.SelectBuilder) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	from := def.Table + " AS " + tableAlias

	count = s.applyWhere(psql.Select("COUNT(*)").From(from), def, filter)

	page = s.applyWhere(psql.Select(selectColumns(def)...).From(from), def, filter)

	sortFilter := types.Filter{
		Sort:           filter.Sort,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
		WithPagination: filter.WithPagination,
	}
	if len(sortFilter.Sort) == 0 && def.DefaultSort.Field != "" {
		sortFilter.Sort = map[string]string{def.DefaultSort.Field: string(def.DefaultSort.Direction)}
	}
	if len(sortFilter.Sort) == 0 {
		page = page.OrderBy(col(listing.IDField) + " DESC")
	}
	page = bd.ApplyListParams(page, sortFilter, sortMap(def))
	if _, byID := sortFilter.Sort[listing.IDField]; len(sortFilter.Sort) > 0 && !byID {
		page = page.OrderBy(col(listing.IDField) + " ASC")
	}

	return count, page
}

func (s *PostgresRowSource) FetchRows(ctx context.Context, def lists.Definition, filter types.Filter) ([]listing.Row, uint64, error) {
	countBuilder, pageBuilder := s.buildQueries(def, filter)

	// 1. COUNT
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := s.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", def.Name, err)
	}
	if total == 0 {
		return []listing.Row{}, 0, nil
	}

	// 2. SELECT
	query, args, err := pageBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	s.logger.Debug("PostgresRowSource: запрос страницы", zap.String("list", def.Name), zap.String("sql", query))

	rows, err := s.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select %s: %w", def.Name, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", def.Name, err)
	}

	out := make([]listing.Row, len(maps))
	for i, m := range maps {
		out[i] = listing.Row(m)
	}
	return out, total, nil
}
