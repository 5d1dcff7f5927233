package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/internal/dto"
	"testpark-console/internal/services"
	"testpark-console/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindBody(c, &payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: вход не выполнен", zap.String("username", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "로그인되었습니다", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	p, err := utils.GetPrincipalFromContext(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	if err := ctrl.authService.Logout(c.Request().Context(), p); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "로그아웃되었습니다", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	p, err := utils.GetPrincipalFromContext(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, dto.SessionDTO{
		User:        p.User,
		Permissions: p.PermissionList(),
		IssuedAt:    p.IssuedAt,
	}, "세션 정보", http.StatusOK)
}
