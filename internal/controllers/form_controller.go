package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pest-erp/internal/dto"
	"pest-erp/pkg/api"
	apperrors "pest-erp/pkg/errors"
	"pest-erp/pkg/middleware"
	"pest-erp/pkg/utils"
)

// FormController - серверная проверка полей форм и расчёт сумм по строкам.
type FormController struct {
	logger *zap.Logger
}

func NewFormController(logger *zap.Logger) *FormController {
	return &FormController{logger: logger}
}

func (c *FormController) CheckCustomer(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	var form dto.CustomerFormDTO
	if err := ctx.Bind(&form); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil), logger)
	}
	form = form.Masked()
	if err := ctx.Validate(&form); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Данные формы корректны", form)
}

func (c *FormController) LineItemsTotal(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	var req dto.LineItemsRequestDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil), logger)
	}
	req.InvoiceNo = utils.MaskInvoiceNumber(req.InvoiceNo)
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	totals, err := dto.ComputeTotals(req)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("%s", err.Error()), logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Суммы рассчитаны", totals)
}
