package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/backend"
	"testpark-console/internal/controllers"
	"testpark-console/internal/offlinecache"
	"testpark-console/internal/repositories"
	"testpark-console/internal/services"
	"testpark-console/pkg/config"
	"testpark-console/pkg/eventbus"
	"testpark-console/pkg/inflight"
	"testpark-console/pkg/middleware"
	"testpark-console/pkg/service"
	appwebsocket "testpark-console/pkg/websocket"
)

type Loggers struct {
	Main  *zap.Logger
	Auth  *zap.Logger
	Order *zap.Logger
}

// Deps - уже поднятые внешние зависимости. Offline может быть nil:
// тогда статика консоли не раздаётся.
type Deps struct {
	Gateway   backend.GatewayInterface
	Cache     repositories.CacheRepositoryInterface
	JWT       service.JWTService
	Validator *validator.Validate
	Bus       *eventbus.Bus
	Hub       *appwebsocket.Hub
	Offline   *offlinecache.Worker
}

func InitRouter(e *echo.Echo, deps Deps, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/console/api")
	guard := inflight.New()

	// --- 1. РЕПОЗИТОРИИ ---
	sessionRepo := repositories.NewSessionRepository(deps.Cache, cfg.JWT.IdleTimeout, loggers.Auth)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(deps.Gateway, sessionRepo, deps.JWT, deps.Validator, loggers.Auth)
	base := services.NewBaseService(deps.Gateway, deps.Validator, deps.Bus, loggers.Order)
	orderService := services.NewOrderService(base)
	workflow := services.NewStatusWorkflow(base)
	cafeService := services.NewCafePostService(base, cfg.Cafe.CafeID, cfg.Cafe.MenuID)
	exportService := services.NewExportService(base)

	authMW := middleware.NewAuthMiddleware(authService, loggers.Auth)

	// --- 3. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authService, authMW, loggers.Auth)
	runOrderRouter(secureGroup, orderService, workflow, exportService, guard, loggers.Order)
	runCafeRouter(secureGroup, cafeService, guard, loggers.Order)

	wsCtrl := controllers.NewWebSocketController(deps.Hub, cfg.Server.AllowedOrigins, loggers.Main)
	e.GET("/ws", wsCtrl.ServeWs, authMW.Auth)

	if deps.Offline != nil {
		offlineCtrl := controllers.NewOfflineController(deps.Offline, loggers.Main)
		e.GET("/*", offlineCtrl.Serve)
	}

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
