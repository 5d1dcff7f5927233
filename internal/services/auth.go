package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/dto"
	"testpark-console/internal/repositories"
	"testpark-console/pkg/customvalidator"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/service"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, in dto.LoginDTO) (*dto.LoginResponseDTO, error)
	Logout(ctx context.Context, p *authz.Principal) error
	Resolve(ctx context.Context, token string) (*authz.Principal, error)
}

// AuthService: Principal создаётся один раз при логине, живёт в Redis
// до выхода или истечения TTL и удаляется при выходе.
type AuthService struct {
	gateway    backend.GatewayInterface
	sessions   repositories.SessionRepositoryInterface
	jwtService service.JWTService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

func NewAuthService(
	gateway backend.GatewayInterface,
	sessions repositories.SessionRepositoryInterface,
	jwtService service.JWTService,
	v *validator.Validate,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		gateway:    gateway,
		sessions:   sessions,
		jwtService: jwtService,
		validator:  v,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, in dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	if err := customvalidator.ToValidationError(s.validator.Struct(in)); err != nil {
		return nil, err
	}

	creds, err := s.gateway.Login(ctx, backend.LoginRequest{Username: in.Username, Password: in.Password})
	if err != nil {
		if be, ok := backend.AsError(err); ok && be.Kind == backend.KindClient &&
			(be.StatusCode == http.StatusBadRequest || be.StatusCode == http.StatusUnauthorized || be.StatusCode == http.StatusForbidden) {
			s.logger.Info("Неверный логин или пароль", zap.String("username", in.Username))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.gateway.Me(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("получение профиля: %w", err)
	}

	// Консоль только для сотрудников: чужую Django-сессию сразу закрываем.
	if !user.IsStaff && !user.IsSuperuser {
		s.logger.Warn("Вход в консоль без прав сотрудника", zap.String("username", user.Username))
		if err := s.gateway.Logout(ctx, creds); err != nil {
			s.logger.Warn("Не удалось закрыть сессию Django", zap.Error(err))
		}
		return nil, &authz.DeniedError{Capability: authz.OrdersView, Reason: authz.ReasonNotStaff}
	}

	principal := authz.NewPrincipal(uuid.NewString(), *user, creds, s.now())
	if err := s.sessions.Save(ctx, principal, s.jwtService.GetTokenTTL()); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(principal.SessionID, user.Username)
	if err != nil {
		_ = s.sessions.Delete(ctx, principal.SessionID)
		return nil, fmt.Errorf("выпуск токена: %w", err)
	}

	s.logger.Info("Сотрудник вошёл в консоль",
		zap.String("username", user.Username),
		zap.String("sessionID", principal.SessionID),
	)

	return &dto.LoginResponseDTO{
		Token:       token,
		ExpiresIn:   int64(s.jwtService.GetTokenTTL().Seconds()),
		User:        *user,
		Permissions: principal.PermissionList(),
	}, nil
}

// Logout закрывает сессию Django и удаляет Principal. Отказ Django
// не мешает удалить локальную сессию.
func (s *AuthService) Logout(ctx context.Context, p *authz.Principal) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	if err := s.gateway.Logout(ctx, p.Credentials); err != nil {
		s.logger.Warn("Django не подтвердил выход", zap.String("sessionID", p.SessionID), zap.Error(err))
	}
	if err := s.sessions.Delete(ctx, p.SessionID); err != nil {
		return fmt.Errorf("удаление сессии: %w", err)
	}
	s.logger.Info("Сотрудник вышел из консоли", zap.String("actor", p.Actor()))
	return nil
}

// Resolve: токен -> sid -> Principal из Redis.
func (s *AuthService) Resolve(ctx context.Context, token string) (*authz.Principal, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	principal, err := s.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("сессия %s: %w", claims.SessionID, err)
	}
	if principal.User.Username != claims.Username {
		s.logger.Warn("Токен не соответствует сессии",
			zap.String("sessionID", claims.SessionID),
			zap.String("tokenUser", claims.Username),
		)
		return nil, apperrors.ErrInvalidToken
	}
	return principal, nil
}
