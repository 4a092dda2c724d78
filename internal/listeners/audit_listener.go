package listeners

import (
	"context"

	"go.uber.org/zap"

	"pest-erp/internal/events"
	"pest-erp/internal/lists"
	"pest-erp/internal/repositories"
	"pest-erp/pkg/eventbus"
)

// AuditListener пишет журнал выгрузок и ошибок загрузки. После ошибки
// загрузки значений фильтра кеш значений списка сбрасывается.
type AuditListener struct {
	registry   *lists.Registry
	optionRepo repositories.OptionRepositoryInterface
	logger     *zap.Logger
}

func NewAuditListener(registry *lists.Registry, optionRepo repositories.OptionRepositoryInterface, logger *zap.Logger) *AuditListener {
	return &AuditListener{registry: registry, optionRepo: optionRepo, logger: logger}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ListExportedName, l.handleListExported)
	bus.Subscribe(events.ListFetchFailedName, l.handleListFetchFailed)
	l.logger.Info("AuditListener подписан на события списков")
}

func (l *AuditListener) handleListExported(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ListExportedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Выгрузка списка",
		zap.String("export_id", e.ExportID),
		zap.String("list", e.List),
		zap.String("format", e.Format),
		zap.Uint64("userID", e.UserID),
		zap.Int("rows", e.Rows),
		zap.Bool("all_rows", e.AllRows),
		zap.Time("at", e.At),
	)
	return nil
}

func (l *AuditListener) handleListFetchFailed(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ListFetchFailedEvent)
	if !ok {
		return nil
	}
	l.logger.Warn("Ошибка загрузки списка",
		zap.String("list", e.List),
		zap.String("stage", string(e.Stage)),
		zap.String("field", e.Field),
		zap.Uint64("userID", e.UserID),
		zap.Error(e.Err),
	)

	if e.Stage != events.FetchStageOptions || l.optionRepo == nil {
		return nil
	}
	def, err := l.registry.Get(e.List)
	if err != nil {
		return err
	}
	return l.optionRepo.Invalidate(ctx, def)
}
