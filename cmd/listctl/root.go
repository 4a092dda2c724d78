package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pest-erp/internal/lists"
)

// app - общее состояние команд, заполняется в PersistentPreRunE.
type app struct {
	configDir string
	cfg       *viper.Viper
	registry  *lists.Registry
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{registry: lists.Default()}

	root := &cobra.Command{
		Use:           "listctl",
		Short:         "Просмотр и выгрузка списков ERP из фикстур",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.configDir)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newCLILogger(cfg.GetString(cfgKeyLogLevel))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "каталог с listctl.yaml (по умолчанию текущий)")

	root.AddCommand(newListsCmd(a))
	root.AddCommand(newPageCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newTokenCmd(a))
	return root
}

// newCLILogger пишет в stderr, чтобы не смешиваться с таблицей и выгрузкой в stdout.
func newCLILogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.WarnLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
