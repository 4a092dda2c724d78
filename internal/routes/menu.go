package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pest-erp/internal/controllers"
	"pest-erp/internal/services"
)

func runMenuRouter(secureGroup *echo.Group, listService services.ListServiceInterface, logger *zap.Logger) {
	menuController := controllers.NewMenuController(listService, logger)

	secureGroup.GET("/menu", menuController.GetMenu)
}
