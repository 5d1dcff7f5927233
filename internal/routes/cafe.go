package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/controllers"
	"testpark-console/internal/services"
	"testpark-console/pkg/inflight"
)

func runCafeRouter(secureGroup *echo.Group, cafeService services.CafePostServiceInterface, guard *inflight.Guard, logger *zap.Logger) {
	cafeCtrl := controllers.NewCafeController(cafeService, guard, logger)

	cafeGroup := secureGroup.Group("/orders/:no/cafe")
	{
		cafeGroup.GET("/preview", cafeCtrl.Preview)
		cafeGroup.POST("/post", cafeCtrl.Publish)
		cafeGroup.PUT("/link", cafeCtrl.SetCafeLink)
	}
}
