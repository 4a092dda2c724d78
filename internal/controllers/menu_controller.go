package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pest-erp/internal/services"
	"pest-erp/pkg/utils"
)

type MenuController struct {
	listService services.ListServiceInterface
	logger      *zap.Logger
}

func NewMenuController(listService services.ListServiceInterface, logger *zap.Logger) *MenuController {
	return &MenuController{listService: listService, logger: logger}
}

func (c *MenuController) GetMenu(ctx echo.Context) error {
	menu, err := c.listService.Menu(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, menu, "Меню получено", http.StatusOK)
}
