// Файл: pkg/utils/context_utils.go

package utils

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"testpark-console/internal/authz"
	"testpark-console/pkg/contextkeys"
	apperrors "testpark-console/pkg/errors"
)

// WithPrincipal кладёт Principal в контекст запроса.
func WithPrincipal(ctx context.Context, p *authz.Principal) context.Context {
	ctx = context.WithValue(ctx, contextkeys.PrincipalKey, p)
	return context.WithValue(ctx, contextkeys.SessionIDKey, p.SessionID)
}

func GetPrincipalFromContext(ctx context.Context) (*authz.Principal, error) {
	p, ok := ctx.Value(contextkeys.PrincipalKey).(*authz.Principal)
	if !ok || p == nil {
		return nil, apperrors.ErrPrincipalNotFoundInContext
	}
	return p, nil
}

// ContextWithTimeout ограничивает время обработки, сохраняя отмену запроса клиентом.
func ContextWithTimeout(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), timeout)
}
