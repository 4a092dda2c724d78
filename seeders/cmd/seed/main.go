package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pest-erp/internal/lists"
	"pest-erp/pkg/config"
	"pest-erp/pkg/database/postgresql"
	applogger "pest-erp/pkg/logger"
	"pest-erp/seeders"
)

func main() {
	var (
		upsert  bool
		migrate bool
		tables  []string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Наполнение таблиц серверных списков демо-данными из фикстур",
		Example: "  go run ./seeders/cmd/seed\n" +
			"  go run ./seeders/cmd/seed --upsert --tables service_jobs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			logger := applogger.NewLogger(cfg.Log.Level, "")
			defer logger.Sync()

			ctx := cmd.Context()
			dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
			if err != nil {
				return err
			}
			defer dbPool.Close()

			if migrate {
				if err := postgresql.Migrate(ctx, dbPool); err != nil {
					return err
				}
			}

			err = seeders.SeedListTables(ctx, dbPool, lists.NewFixtureStore(), seeders.Options{Upsert: upsert, Tables: tables}, logger)
			if err != nil {
				logger.Error("❌ Ошибка наполнения", zap.Error(err))
				return err
			}
			logger.Info("✅ Все указанные операции сидирования успешно завершены.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&upsert, "upsert", false, "обновлять существующие строки вместо пропуска")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "применить миграции перед наполнением")
	cmd.Flags().StringSliceVar(&tables, "tables", nil, "только указанные таблицы (service_jobs, material_issues, stock_transfers)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
