// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"testpark-console/internal/backend"
	"testpark-console/internal/listeners"
	"testpark-console/internal/offlinecache"
	"testpark-console/internal/repositories"
	"testpark-console/internal/routes"
	"testpark-console/pkg/config"
	"testpark-console/pkg/customvalidator"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/eventbus"
	applogger "testpark-console/pkg/logger"
	appmiddleware "testpark-console/pkg/middleware"
	"testpark-console/pkg/service"
	"testpark-console/pkg/utils"
	appwebsocket "testpark-console/pkg/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogFile, cfg.LogDebug)
	defer func() { _ = logger.Sync() }()

	// 2. Echo и middleware
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "서버 내부 오류가 발생했습니다", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return nil
		},
	}))
	e.Use(appmiddleware.InjectLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition", echo.HeaderXRequestID},
	}))

	// 3. Валидатор
	v, err := customvalidator.New()
	if err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// 4. Redis: сессии и офлайн-кеш
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// 5. Шина событий, WebSocket и аудит
	hub := appwebsocket.NewHub(logger)
	go hub.Run(ctx)

	bus := eventbus.New(logger)
	listeners.NewOrderChangeListener(hub, logger.Named("audit"), logger).Register(bus)

	// 6. Офлайн-кеш: при старте новой версии старые удаляются
	worker := offlinecache.NewWorker(offlinecache.NewRedisStore(cacheRepo), cfg.Offline.UpstreamURL, cfg.Offline.Version, cfg.Offline.TTL, logger)
	if removed, err := worker.Activate(ctx); err != nil {
		logger.Warn("Не удалось очистить старые версии офлайн-кеша", zap.Error(err))
	} else {
		logger.Info("Офлайн-кеш активирован", zap.String("tag", worker.Tag()), zap.Int("removed", removed))
	}

	// 7. Роуты
	deps := routes.Deps{
		Gateway:   backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger.Named("backend")),
		Cache:     cacheRepo,
		JWT:       service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.SessionTTL, logger),
		Validator: v,
		Bus:       bus,
		Hub:       hub,
		Offline:   worker,
	}
	routes.InitRouter(e, deps, &routes.Loggers{
		Main:  logger,
		Auth:  logger.Named("auth"),
		Order: logger.Named("order"),
	}, cfg)

	// 8. Запуск и плавная остановка
	go func() {
		logger.Info("🚀 Консоль запущена", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend.BaseURL))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка консоли")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
}
