package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/controllers"
	"testpark-console/internal/services"
	"testpark-console/pkg/inflight"
)

func runOrderRouter(
	secureGroup *echo.Group,
	orderService services.OrderServiceInterface,
	workflow services.StatusWorkflowInterface,
	exportService services.ExportServiceInterface,
	guard *inflight.Guard,
	logger *zap.Logger,
) {
	orderCtrl := controllers.NewOrderController(orderService, workflow, guard, logger)
	exportCtrl := controllers.NewExportController(exportService, logger)
	{
		secureGroup.GET("/orders", orderCtrl.GetOrders)
		secureGroup.GET("/orders/export", exportCtrl.ExportOrders)
		secureGroup.POST("/orders/bulk-delete", orderCtrl.BulkDelete)
		secureGroup.GET("/orders/:no", orderCtrl.FindOrder)
		secureGroup.POST("/orders/:no/status", orderCtrl.ChangeStatus)
		secureGroup.POST("/orders/:no/field", orderCtrl.UpdateField)
		secureGroup.POST("/orders/:no/memos", orderCtrl.AddMemo)
		secureGroup.POST("/orders/:no/quotes", orderCtrl.AddQuoteLink)
		secureGroup.GET("/companies", orderCtrl.GetCompanies)
	}
}
