package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/controllers"
	"testpark-console/internal/services"
	"testpark-console/pkg/middleware"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, logger)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/logout", authCtrl.Logout, authMW.Auth)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
	}
}
