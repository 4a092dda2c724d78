package seeders

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pest-erp/internal/lists"
	"pest-erp/pkg/listing"
)

// tableSeed - таблица серверного списка и её колонки в порядке вставки.
type tableSeed struct {
	Table       string
	Columns     []string
	DateColumns map[string]bool
}

// ListTables - таблицы, которые читают серверные списки (backlog, followups,
// kiv, material-issued, transfer-in/out).
var ListTables = []tableSeed{
	{
		Table:       "service_jobs",
		Columns:     []string{"id", "job_no", "customer_name", "service_type", "technician", "city", "status", "stage", "service_date", "amount"},
		DateColumns: map[string]bool{"service_date": true},
	},
	{
		Table:       "material_issues",
		Columns:     []string{"id", "issue_no", "material", "quantity", "unit", "technician", "status", "issue_date"},
		DateColumns: map[string]bool{"issue_date": true},
	},
	{
		Table:       "stock_transfers",
		Columns:     []string{"id", "transfer_no", "direction", "from_branch", "to_branch", "material", "quantity", "status", "transfer_date"},
		DateColumns: map[string]bool{"transfer_date": true},
	},
}

// Options - стратегия при конфликте по id.
type Options struct {
	// Upsert: true - обновить существующие строки, false - пропустить.
	Upsert bool
	Tables []string
}

func (o Options) wants(table string) bool {
	if len(o.Tables) == 0 {
		return true
	}
	for _, t := range o.Tables {
		if t == table {
			return true
		}
	}
	return false
}

// SeedListTables переносит строки фикстур в Postgres. Один источник данных
// для режима FIXTURES_ONLY и для базы.
func SeedListTables(ctx context.Context, db *pgxpool.Pool, store *lists.FixtureStore, opts Options, logger *zap.Logger) error {
	for _, seed := range ListTables {
		if !opts.wants(seed.Table) {
			continue
		}
		rows, err := store.Rows(seed.Table)
		if err != nil {
			return err
		}
		if err := seedTable(ctx, db, seed, rows, opts.Upsert); err != nil {
			return fmt.Errorf("таблица %s: %w", seed.Table, err)
		}
		logger.Info("Таблица наполнена", zap.String("table", seed.Table), zap.Int("rows", len(rows)), zap.Bool("upsert", opts.Upsert))
	}
	return nil
}

func seedTable(ctx context.Context, db *pgxpool.Pool, seed tableSeed, rows []listing.Row, upsert bool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		query, args, err := insertStatement(seed, row, upsert)
		if err != nil {
			return err
		}
		batch.Queue(query, args...)
	}
	// id задаются явно, последовательность надо сдвинуть за максимальный
	batch.Queue(fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))", seed.Table, seed.Table))

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertStatement(seed tableSeed, row listing.Row, upsert bool) (string, []interface{}, error) {
	values := make([]interface{}, 0, len(seed.Columns))
	for _, col := range seed.Columns {
		v := row[col]
		if seed.DateColumns[col] {
			t, ok := listing.ParseDate(v, time.UTC)
			if !ok {
				return "", nil, fmt.Errorf("строка %v: некорректная дата в %s: %v", row[listing.IDField], col, v)
			}
			v = t
		}
		values = append(values, v)
	}

	suffix := "ON CONFLICT (id) DO NOTHING"
	if upsert {
		sets := ""
		for i, col := range seed.Columns[1:] {
			if i > 0 {
				sets += ", "
			}
			sets += col + " = EXCLUDED." + col
		}
		suffix = "ON CONFLICT (id) DO UPDATE SET " + sets
	}

	return sq.Insert(seed.Table).
		Columns(seed.Columns...).
		Values(values...).
		Suffix(suffix).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
