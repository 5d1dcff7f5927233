// pkg/middleware/logger.go

package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/pkg/contextkeys"
)

// InjectLogger кладёт логгер в echo-контекст и пишет строку на каждый запрос.
func InjectLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			ctx := context.WithValue(c.Request().Context(), contextkeys.RequestIDKey, requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			reqLogger := logger.With(zap.String("requestID", requestID))
			c.Set("logger", reqLogger)

			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			reqLogger.Info("HTTP",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(started)),
			)
			return nil
		}
	}
}
