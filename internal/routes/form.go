package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pest-erp/internal/authz"
	"pest-erp/internal/controllers"
	"pest-erp/pkg/middleware"
)

func runFormRouter(secureGroup *echo.Group, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	formController := controllers.NewFormController(logger)

	secureGroup.POST("/forms/customer/check", formController.CheckCustomer, authMW.AuthorizeAny(authz.CustomersView))
	secureGroup.POST("/line-items/total", formController.LineItemsTotal, authMW.AuthorizeAny(authz.PurchaseOrdersView, authz.StockView))
}
