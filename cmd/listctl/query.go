package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pest-erp/internal/lists"
	"pest-erp/internal/repositories"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
	"pest-erp/pkg/utils"
)

// queryFlags - те же параметры, что у GET /api/lists/:name.
type queryFlags struct {
	list     string
	fixture  string
	search   string
	from     string
	to       string
	filters  map[string]string
	sort     string
	page     int
	pageSize int
	all      bool
}

func (q *queryFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&q.list, "list", "l", "", "имя списка (backlog, pests, ...)")
	f.StringVar(&q.fixture, "fixture", "", "YAML-файл со строками вместо встроенных фикстур")
	f.StringVarP(&q.search, "search", "s", "", "поиск по полям поиска списка")
	f.StringVar(&q.from, "from", "", "дата с (включительно)")
	f.StringVar(&q.to, "to", "", "дата по (включительно)")
	f.StringToStringVar(&q.filters, "filter", nil, "фильтр по полю, например status=Open")
	f.StringVar(&q.sort, "sort", "", "поле сортировки, -поле для убывания")
	f.IntVar(&q.page, "page", 1, "номер страницы с единицы")
	f.IntVar(&q.pageSize, "page-size", 0, "размер страницы (по умолчанию из конфига)")
	f.BoolVar(&q.all, "all", false, "все отфильтрованные строки без пагинации")
	_ = cmd.MarkFlagRequired("list")
}

// values собирает query-строку, чтобы разбор совпадал с HTTP API.
func (q *queryFlags) values(defaultPageSize int) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", q.search)
	set("date_from", q.from)
	set("date_to", q.to)
	set("sort", q.sort)
	for field, value := range q.filters {
		v.Set("filter["+field+"]", value)
	}
	pageSize := q.pageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	v.Set("page_size", strconv.Itoa(pageSize))
	v.Set("page", strconv.Itoa(q.page))
	if q.all {
		v.Set("scope", "all")
	}
	return v
}

// load строит контроллер списка и загружает строки через Refresher.
func (a *app) load(ctx context.Context, q *queryFlags) (lists.Definition, *listing.Controller, types.Filter, error) {
	def, err := a.registry.Get(q.list)
	if err != nil {
		return def, nil, types.Filter{}, err
	}

	loc := location(a.cfg)
	filter, err := utils.ParseFilterFromQuery(q.values(a.cfg.GetInt(cfgKeyPageSize)), loc)
	if err != nil {
		return def, nil, filter, err
	}
	for field := range filter.Filter {
		if !def.Filterable(field) {
			return def, nil, filter, fmt.Errorf("поле %q недоступно для фильтрации в списке %s (доступны: %v)", field, def.Name, def.FilterFields)
		}
	}

	ctrl := listing.NewController(def.ControllerConfig(filter.Limit, loc))
	def.ApplyFilter(ctrl, filter)

	refresher := listing.NewRefresher(ctrl, func(ctx context.Context, err error) {
		a.logger.Warn("Не удалось загрузить строки", zap.String("list", def.Name), zap.Error(err))
	}, a.logger)

	_, err = refresher.Refresh(ctx, func(ctx context.Context) ([]listing.Row, error) {
		return a.fetch(ctx, def, q.fixture)
	})
	return def, ctrl, filter, err
}

func (a *app) fetch(ctx context.Context, def lists.Definition, fixturePath string) ([]listing.Row, error) {
	if fixturePath != "" {
		fixture, err := lists.LoadFixtureFile(fixturePath)
		if err != nil {
			return nil, err
		}
		if fixture.Table != def.Table {
			return nil, fmt.Errorf("фикстура для таблицы %q, а список %s читает %q", fixture.Table, def.Name, def.Table)
		}
		return listing.Filter(fixture.Rows, scopeOf(def)), nil
	}

	store := lists.NewFixtureStore()
	if dir := a.cfg.GetString(cfgKeyFixturesDir); dir != "" {
		store = lists.NewFixtureStoreFS(os.DirFS(dir), ".")
	}
	rows, _, err := repositories.NewFixtureRowSource(store).FetchRows(ctx, def, types.Filter{})
	return rows, err
}

func scopeOf(def lists.Definition) listing.Predicate {
	preds := make([]listing.Predicate, 0, len(def.Scope))
	for field, value := range def.Scope {
		preds = append(preds, listing.FieldEquals(field, value))
	}
	return listing.And(preds...)
}

// visibleRows - видимая страница или, при --all, все совпавшие строки.
func visibleRows(ctrl *listing.Controller, filter types.Filter) []listing.Row {
	if !filter.WithPagination {
		return ctrl.Matching()
	}
	return ctrl.Page().Rows
}
