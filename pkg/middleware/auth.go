package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/utils"
)

// SessionResolver превращает токен консоли в Principal.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*authz.Principal, error)
}

type AuthMiddleware struct {
	resolver SessionResolver
	logger   *zap.Logger
}

func NewAuthMiddleware(resolver SessionResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// Auth только аутентифицирует: права проверяются в сервисах
// для каждого действия отдельно.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// 1. Извлекаем токен из заголовка, для WebSocket - из ?token=
		tokenString, err := bearerToken(c)
		if err != nil {
			m.logger.Warn("AuthMiddleware: токен не передан", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		// 2. Токен -> сессия -> Principal
		principal, err := m.resolver.Resolve(c.Request().Context(), tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: сессия не найдена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		// 3. Principal явно кладётся в контекст запроса
		c.SetRequest(c.Request().WithContext(utils.WithPrincipal(c.Request().Context(), principal)))

		m.logger.Debug("AuthMiddleware: сотрудник аутентифицирован",
			zap.String("actor", principal.Actor()),
			zap.String("sessionID", principal.SessionID),
		)
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}
