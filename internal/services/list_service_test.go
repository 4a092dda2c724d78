package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pest-erp/internal/authz"
	"pest-erp/internal/dto"
	"pest-erp/internal/events"
	"pest-erp/internal/lists"
	"pest-erp/internal/repositories"
	"pest-erp/internal/repositories/mocks"
	"pest-erp/pkg/config"
	apperrors "pest-erp/pkg/errors"
	"pest-erp/pkg/eventbus"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
	"pest-erp/pkg/utils"
)

type recorder struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recorder) listen(_ context.Context, e eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type fixture struct {
	svc     ListServiceInterface
	storage *mocks.RowSource
	options *mocks.OptionRepository
	bus     *eventbus.Bus
	events  *recorder
}

func newFixture(t *testing.T, withStorage bool) *fixture {
	t.Helper()
	f := &fixture{
		options: new(mocks.OptionRepository),
		bus:     eventbus.New(zap.NewNop()),
		events:  &recorder{},
	}
	f.bus.Subscribe(events.ListExportedName, f.events.listen)
	f.bus.Subscribe(events.ListFetchFailedName, f.events.listen)

	var storage repositories.RowSource
	if withStorage {
		f.storage = new(mocks.RowSource)
		storage = f.storage
	}
	cfg := config.ListConfig{DefaultPageSize: 10, PageSizes: []int{10, 25}, FetchTimeout: time.Second, TimeZone: "UTC"}
	f.svc = NewListService(lists.Default(), repositories.NewFixtureRowSource(lists.NewFixtureStore()),
		storage, f.options, f.bus, cfg, zap.NewNop())
	return f
}

func asUser(perms ...string) context.Context {
	return utils.WithUser(context.Background(), 42, perms)
}

func pageFilter(limit, page int) types.Filter {
	return types.Filter{
		Sort:           map[string]string{},
		Filter:         map[string]interface{}{},
		Limit:          limit,
		Page:           page,
		Offset:         (page - 1) * limit,
		WithPagination: true,
	}
}

func rowIDs(rows []listing.Row) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestGetPage_ClientListNewestFirst(t *testing.T) {
	f := newFixture(t, true)

	page, err := f.svc.GetPage(asUser(authz.PestsView), "pests", pageFilter(10, 1))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, []interface{}{7, 6, 5, 4, 3, 2, 1}, rowIDs(page.Rows))
	f.storage.AssertNotCalled(t, "FetchRows", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPage_ClientListPaginationAndSearch(t *testing.T) {
	f := newFixture(t, false)

	page, err := f.svc.GetPage(asUser(authz.PestsView), "pests", pageFilter(2, 2))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{5, 4}, rowIDs(page.Rows))
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 2, page.Page)

	filter := pageFilter(10, 1)
	filter.Search = "TERMITE"
	page, err = f.svc.GetPage(asUser(authz.PestsView), "pests", filter)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{7, 1}, rowIDs(page.Rows))
}

func TestGetPage_ClientListDateRangeSkipsMalformedDates(t *testing.T) {
	f := newFixture(t, false)

	filter := pageFilter(10, 1)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	filter.DateFrom = &from
	filter.Sort["id"] = "asc"

	page, err := f.svc.GetPage(asUser(authz.PestsView), "pests", filter)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{4, 5, 6}, rowIDs(page.Rows))
}

func TestGetPage_ServerListUsesStorage(t *testing.T) {
	f := newFixture(t, true)
	rows := []listing.Row{{"id": int64(11)}, {"id": int64(5)}}
	f.storage.On("FetchRows", mock.Anything, mock.MatchedBy(func(d lists.Definition) bool {
		return d.Name == "backlog"
	}), mock.Anything).Return(rows, uint64(23), nil)

	page, err := f.svc.GetPage(asUser(authz.ServiceJobsView), "backlog", pageFilter(10, 3))
	require.NoError(t, err)

	assert.Equal(t, uint64(23), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Rows, 2)
	f.storage.AssertExpectations(t)
}

func TestGetPage_ServerListFailurePublishesEvent(t *testing.T) {
	f := newFixture(t, true)
	boom := errors.New("connection refused")
	f.storage.On("FetchRows", mock.Anything, mock.Anything, mock.Anything).Return(nil, uint64(0), boom)

	_, err := f.svc.GetPage(asUser(authz.ServiceJobsView), "kiv", pageFilter(10, 1))
	assert.ErrorIs(t, err, boom)

	f.bus.Wait()
	require.Len(t, f.events.events, 1)
	e := f.events.events[0].(events.ListFetchFailedEvent)
	assert.Equal(t, "kiv", e.List)
	assert.Equal(t, events.FetchStageRows, e.Stage)
	assert.Equal(t, uint64(42), e.UserID)
}

func TestGetPage_ServerListFromFixturesWithoutStorage(t *testing.T) {
	f := newFixture(t, false)

	page, err := f.svc.GetPage(asUser(authz.ServiceJobsView), "backlog", pageFilter(10, 1))
	require.NoError(t, err)
	assert.Equal(t, uint64(6), page.TotalCount)
	assert.Equal(t, []interface{}{11, 5, 4, 3, 2, 1}, rowIDs(page.Rows))

	all := pageFilter(2, 1)
	all.WithPagination = false
	page, err = f.svc.GetPage(asUser(authz.ServiceJobsView), "kiv", all)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, 1, page.TotalPages)
}

func TestGetPage_Errors(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.GetPage(asUser(authz.StockView), "pests", pageFilter(10, 1))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.GetPage(asUser(authz.Superuser), "nope", pageFilter(10, 1))
	assert.ErrorIs(t, err, apperrors.ErrListNotFound)

	filter := pageFilter(10, 1)
	filter.Filter["name"] = "Bed Bug"
	_, err = f.svc.GetPage(asUser(authz.PestsView), "pests", filter)
	assert.ErrorIs(t, err, apperrors.ErrFieldNotFilterable)

	_, err = f.svc.GetPage(context.Background(), "pests", pageFilter(10, 1))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestExport_CSVOfVisiblePage(t *testing.T) {
	f := newFixture(t, false)

	filter := pageFilter(10, 1)
	filter.Search = "orchid"
	file, err := f.svc.Export(asUser(authz.ServiceJobsView, authz.ListsExport), "backlog", filter, "csv")
	require.NoError(t, err)

	body := string(file.Body)
	assert.True(t, strings.HasPrefix(body, "ID,Job No,Customer,"))
	assert.Contains(t, body, `"Hotel Orchid, Annexe"`)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.True(t, strings.HasPrefix(file.FileName, "backlog_"))
	assert.True(t, strings.HasSuffix(file.FileName, ".csv"))

	f.bus.Wait()
	require.Len(t, f.events.events, 1)
	e := f.events.events[0].(events.ListExportedEvent)
	assert.Equal(t, 1, e.Rows)
	assert.False(t, e.AllRows)
	assert.NotEmpty(t, e.ExportID)
}

func TestExport_AllFormats(t *testing.T) {
	f := newFixture(t, false)
	ctx := asUser(authz.Superuser)

	for _, format := range []string{dto.FormatHTML, dto.FormatXLSX, dto.FormatPDF} {
		file, err := f.svc.Export(ctx, "pests", pageFilter(10, 1), format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, file.Body, format)
	}
}

func TestExport_Rejections(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Export(asUser(authz.PestsView), "pests", pageFilter(10, 1), "csv")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.Export(asUser(authz.Superuser), "pests", pageFilter(10, 1), "docx")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestAllOptions(t *testing.T) {
	f := newFixture(t, false)
	f.options.On("DistinctValues", mock.Anything, mock.Anything, "category").Return([]string{"Rodent", "Termite"}, nil)
	f.options.On("DistinctValues", mock.Anything, mock.Anything, "status").Return(nil, nil)

	out, err := f.svc.AllOptions(asUser(authz.PestsView), "pests")
	require.NoError(t, err)
	assert.Equal(t, []dto.FieldOptionsDTO{
		{Field: "category", Values: []string{"Rodent", "Termite"}},
		{Field: "status", Values: []string{}},
	}, out)
}

func TestOptions_FailureIsReported(t *testing.T) {
	f := newFixture(t, false)
	boom := errors.New("redis down")
	f.options.On("DistinctValues", mock.Anything, mock.Anything, "status").Return(nil, boom)

	_, err := f.svc.Options(asUser(authz.PestsView), "pests", "status")
	assert.ErrorIs(t, err, boom)

	f.bus.Wait()
	require.Len(t, f.events.events, 1)
	e := f.events.events[0].(events.ListFetchFailedEvent)
	assert.Equal(t, events.FetchStageOptions, e.Stage)
	assert.Equal(t, "status", e.Field)
}

func TestDefinitionsAndMenu(t *testing.T) {
	f := newFixture(t, false)
	ctx := asUser(authz.PestsView)

	defs, err := f.svc.Definitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "pests", defs[0].Name)
	assert.False(t, defs[0].CanExport)

	menu, err := f.svc.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "masters", menu[0].Key)
}
