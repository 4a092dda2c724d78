package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pest-erp/internal/dto"
	"pest-erp/internal/services"
	"pest-erp/pkg/api"
	apperrors "pest-erp/pkg/errors"
	"pest-erp/pkg/middleware"
	"pest-erp/pkg/types"
	"pest-erp/pkg/utils"
)

type ListController struct {
	listService services.ListServiceInterface
	loc         *time.Location
	logger      *zap.Logger
}

func NewListController(listService services.ListServiceInterface, loc *time.Location, logger *zap.Logger) *ListController {
	return &ListController{
		listService: listService,
		loc:         loc,
		logger:      logger,
	}
}

// parseQuery проверяет page_size/format/scope и разбирает остальные параметры в Filter.
func (c *ListController) parseQuery(ctx echo.Context) (dto.ListQueryDTO, types.Filter, error) {
	var q dto.ListQueryDTO
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return q, types.Filter{}, apperrors.NewHttpError(http.StatusBadRequest, "Некорректные параметры запроса", err, nil)
	}
	if err := ctx.Validate(&q); err != nil {
		return q, types.Filter{}, err
	}
	filter, err := utils.ParseFilterFromQuery(ctx.QueryParams(), c.loc)
	if err != nil {
		return q, filter, err
	}
	if q.AllRows() {
		filter.WithPagination = false
	}
	return q, filter, nil
}

func (c *ListController) GetLists(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)
	defs, err := c.listService.Definitions(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, defs, "Списки получены", http.StatusOK)
}

func (c *ListController) GetList(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)
	name := ctx.Param("name")

	_, filter, err := c.parseQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	page, err := c.listService.GetPage(ctx.Request().Context(), name, filter)
	if err != nil {
		logger.Debug("Ошибка при получении списка", zap.String("list", name), zap.Error(err))
		return utils.ErrorResponse(ctx, err, logger)
	}

	return api.SuccessList(ctx, "Список успешно получен", page.Rows, page.TotalCount, page.TotalPages, page.Page, page.Limit)
}

func (c *ListController) GetOptions(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)
	name, field := ctx.Param("name"), ctx.Param("field")

	values, err := c.listService.Options(ctx.Request().Context(), name, field)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Значения фильтра получены", dto.FieldOptionsDTO{Field: field, Values: values})
}

func (c *ListController) GetAllOptions(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	options, err := c.listService.AllOptions(ctx.Request().Context(), ctx.Param("name"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, options, "Значения фильтров получены", http.StatusOK)
}

func (c *ListController) Export(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)
	name := ctx.Param("name")

	q, filter, err := c.parseQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	file, err := c.listService.Export(ctx.Request().Context(), name, filter, q.Format)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	logger.Info("Выгрузка списка отдана", zap.String("list", name), zap.String("file", file.FileName))
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+file.FileName)
	return ctx.Blob(http.StatusOK, file.ContentType, file.Body)
}
