package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pest-erp/internal/authz"
	"pest-erp/internal/dto"
	"pest-erp/internal/events"
	"pest-erp/internal/lists"
	"pest-erp/internal/repositories"
	"pest-erp/pkg/config"
	apperrors "pest-erp/pkg/errors"
	"pest-erp/pkg/eventbus"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
)

type ListServiceInterface interface {
	Definitions(ctx context.Context) ([]dto.ListDefinitionDTO, error)
	GetPage(ctx context.Context, name string, filter types.Filter) (*dto.ListPageDTO, error)
	Export(ctx context.Context, name string, filter types.Filter, format string) (*dto.ExportFile, error)
	Options(ctx context.Context, name, field string) ([]string, error)
	AllOptions(ctx context.Context, name string) ([]dto.FieldOptionsDTO, error)
	Menu(ctx context.Context) ([]authz.MenuItem, error)
}

type listService struct {
	registry   *lists.Registry
	fixtures   repositories.RowSource
	storage    repositories.RowSource
	optionRepo repositories.OptionRepositoryInterface
	gate       *authz.Gatekeeper
	bus        *eventbus.Bus
	cfg        config.ListConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewListService: storage == nil означает, что и серверные списки читаются из фикстур.
func NewListService(
	registry *lists.Registry,
	fixtures repositories.RowSource,
	storage repositories.RowSource,
	optionRepo repositories.OptionRepositoryInterface,
	bus *eventbus.Bus,
	cfg config.ListConfig,
	logger *zap.Logger,
) ListServiceInterface {
	return &listService{
		registry:   registry,
		fixtures:   fixtures,
		storage:    storage,
		optionRepo: optionRepo,
		gate:       authz.NewGatekeeper(),
		bus:        bus,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *listService) Definitions(ctx context.Context) ([]dto.ListDefinitionDTO, error) {
	session, err := authz.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	visible := s.registry.Visible(func(permission string) bool {
		return s.gate.CanView(session, permission)
	})
	out := make([]dto.ListDefinitionDTO, 0, len(visible))
	for _, def := range visible {
		out = append(out, dto.ListDefinitionDTO{
			Definition: def,
			CanExport:  s.gate.CanExport(session, def.Permission),
		})
	}
	return out, nil
}

func (s *listService) Menu(ctx context.Context) ([]authz.MenuItem, error) {
	session, err := authz.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return authz.BuildMenu(session), nil
}

// authorize находит список и проверяет право на просмотр.
func (s *listService) authorize(ctx context.Context, name string) (authz.Session, lists.Definition, error) {
	session, err := authz.SessionFromContext(ctx)
	if err != nil {
		return authz.Session{}, lists.Definition{}, err
	}
	def, err := s.registry.Get(name)
	if err != nil {
		return session, def, err
	}
	if !s.gate.CanView(session, def.Permission) {
		s.logger.Warn("Попытка открыть список без права",
			zap.String("list", name), zap.Uint64("userID", session.UserID), zap.String("permission", def.Permission))
		return session, def, apperrors.ErrForbidden
	}
	return session, def, nil
}

func (s *listService) GetPage(ctx context.Context, name string, filter types.Filter) (*dto.ListPageDTO, error) {
	session, def, err := s.authorize(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.loadPage(ctx, session, def, filter)
}

func (s *listService) loadPage(ctx context.Context, session authz.Session, def lists.Definition, filter types.Filter) (*dto.ListPageDTO, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.DefaultPageSize
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	for field := range filter.Filter {
		if !def.Filterable(field) {
			return nil, fmt.Errorf("%w: %s.%s", apperrors.ErrFieldNotFilterable, def.Name, field)
		}
	}

	fetchCtx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	if def.Mode == lists.ModeServer && s.storage != nil {
		return s.loadServerPage(fetchCtx, session, def, filter)
	}
	return s.loadClientPage(fetchCtx, session, def, filter)
}

// loadServerPage: фильтры, сортировка и LIMIT/OFFSET выполняются в Postgres.
func (s *listService) loadServerPage(ctx context.Context, session authz.Session, def lists.Definition, filter types.Filter) (*dto.ListPageDTO, error) {
	rows, total, err := s.storage.FetchRows(ctx, def, filter)
	if err != nil {
		s.fetchFailed(ctx, session, def, "", events.FetchStageRows, err)
		return nil, err
	}

	page := &dto.ListPageDTO{List: def.Name, Rows: rows, TotalCount: total, Page: filter.Page, Limit: filter.Limit, TotalPages: 1}
	if filter.WithPagination {
		page.TotalPages = listing.PageCount(int(total), filter.Limit)
	} else {
		page.Page, page.Limit = 1, len(rows)
	}
	return page, nil
}

// loadClientPage загружает весь рабочий набор и считает страницу в памяти
// тем же контроллером, что и у клиентской таблицы.
func (s *listService) loadClientPage(ctx context.Context, session authz.Session, def lists.Definition, filter types.Filter) (*dto.ListPageDTO, error) {
	ctrl := listing.NewController(def.ControllerConfig(filter.Limit, s.cfg.Location()))
	def.ApplyFilter(ctrl, filter)

	refresher := listing.NewRefresher(ctrl, func(ctx context.Context, err error) {
		s.fetchFailed(ctx, session, def, "", events.FetchStageRows, err)
	}, s.logger)

	_, err := refresher.Refresh(ctx, func(ctx context.Context) ([]listing.Row, error) {
		rows, _, err := s.fixtures.FetchRows(ctx, def, filter)
		return rows, err
	})
	if err != nil {
		return nil, err
	}

	if !filter.WithPagination {
		rows := ctrl.Matching()
		return &dto.ListPageDTO{List: def.Name, Rows: rows, TotalCount: uint64(len(rows)), TotalPages: 1, Page: 1, Limit: len(rows)}, nil
	}

	derived := ctrl.Page()
	return &dto.ListPageDTO{
		List:       def.Name,
		Rows:       derived.Rows,
		TotalCount: uint64(derived.TotalCount),
		TotalPages: derived.PageCount,
		Page:       derived.PageIndex + 1,
		Limit:      derived.PageSize,
	}, nil
}

var exportContentTypes = map[string]string{
	dto.FormatCSV:  "text/csv; charset=utf-8",
	dto.FormatHTML: "text/html; charset=utf-8",
	dto.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	dto.FormatPDF:  "application/pdf",
}

// Export выгружает видимую страницу, а при filter.WithPagination == false - весь
// отфильтрованный набор.
func (s *listService) Export(ctx context.Context, name string, filter types.Filter, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = dto.FormatCSV
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format)
	}

	session, def, err := s.authorize(ctx, name)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanExport(session, def.Permission) {
		s.logger.Warn("Попытка выгрузки без права lists:export", zap.String("list", name), zap.Uint64("userID", session.UserID))
		return nil, apperrors.ErrForbidden
	}

	page, err := s.loadPage(ctx, session, def, filter)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.cfg.Location())
	var buf bytes.Buffer
	switch format {
	case dto.FormatCSV:
		err = listing.WriteCSV(&buf, def.Columns, page.Rows)
	case dto.FormatHTML:
		err = listing.WritePrintHTML(&buf, def.Title, def.Columns, page.Rows, now)
	case dto.FormatXLSX:
		err = listing.WriteXLSX(&buf, def.Title, def.Columns, page.Rows)
	case dto.FormatPDF:
		err = listing.WritePDF(&buf, def.Title, def.Columns, page.Rows, now)
	}
	if err != nil {
		s.logger.Error("Ошибка формирования файла выгрузки", zap.String("list", name), zap.String("format", format), zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось сформировать файл", err, nil)
	}

	exportID := uuid.NewString()
	file := &dto.ExportFile{
		FileName:    fmt.Sprintf("%s_%s_%s.%s", def.Name, now.Format("20060102"), exportID[:8], format),
		ContentType: contentType,
		Body:        buf.Bytes(),
	}

	s.publish(ctx, events.ListExportedEvent{
		ExportID: exportID,
		List:     def.Name,
		Format:   format,
		UserID:   session.UserID,
		Rows:     len(page.Rows),
		AllRows:  !filter.WithPagination,
		At:       now,
	})
	return file, nil
}

func (s *listService) Options(ctx context.Context, name, field string) ([]string, error) {
	session, def, err := s.authorize(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.fieldOptions(ctx, session, def, field)
}

// AllOptions загружает значения всех выпадающих фильтров списка параллельно.
func (s *listService) AllOptions(ctx context.Context, name string) ([]dto.FieldOptionsDTO, error) {
	session, def, err := s.authorize(ctx, name)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FieldOptionsDTO, len(def.FilterFields))
	g, gctx := errgroup.WithContext(ctx)
	for i, field := range def.FilterFields {
		i, field := i, field
		g.Go(func() error {
			values, err := s.fieldOptions(gctx, session, def, field)
			if err != nil {
				return err
			}
			out[i] = dto.FieldOptionsDTO{Field: field, Values: values}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *listService) fieldOptions(ctx context.Context, session authz.Session, def lists.Definition, field string) ([]string, error) {
	fetchCtx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	values, err := s.optionRepo.DistinctValues(fetchCtx, def, field)
	if err != nil {
		if errors.Is(err, apperrors.ErrFieldNotFilterable) {
			return nil, err
		}
		s.fetchFailed(ctx, session, def, field, events.FetchStageOptions, err)
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// fetchFailed: ошибка загрузки логируется и уходит событием; отменённые
// запросы пользователю не показываются.
func (s *listService) fetchFailed(ctx context.Context, session authz.Session, def lists.Definition, field string, stage events.FetchStage, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Warn("Не удалось загрузить данные списка",
		zap.String("list", def.Name), zap.String("stage", string(stage)), zap.String("field", field), zap.Error(err))
	s.publish(ctx, events.ListFetchFailedEvent{
		List:   def.Name,
		Field:  field,
		Stage:  stage,
		UserID: session.UserID,
		Err:    err,
		At:     s.now(),
	})
}

func (s *listService) withFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.FetchTimeout)
}

func (s *listService) publish(ctx context.Context, event eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}
