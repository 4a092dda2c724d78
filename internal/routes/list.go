package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pest-erp/internal/controllers"
	"pest-erp/internal/services"
	"pest-erp/pkg/config"
)

// Право на конкретный список проверяет сервис: оно зависит от :name.
func runListRouter(secureGroup *echo.Group, listService services.ListServiceInterface, cfg *config.Config, logger *zap.Logger) {
	listController := controllers.NewListController(listService, cfg.List.Location(), logger)

	secureGroup.GET("/lists", listController.GetLists)
	secureGroup.GET("/lists/:name", listController.GetList)
	secureGroup.GET("/lists/:name/export", listController.Export)
	secureGroup.GET("/lists/:name/options", listController.GetAllOptions)
	secureGroup.GET("/lists/:name/options/:field", listController.GetOptions)
}
