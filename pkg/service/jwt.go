package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "testpark-console/pkg/errors"
)

// JwtCustomClaim - токен консоли указывает на серверную сессию,
// учётные данные Django в нём не хранятся.
type JwtCustomClaim struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(sessionID, username string) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey string
	TokenExp  time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewJWTService(secretKey string, tokenExp time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		SecretKey: secretKey,
		TokenExp:  tokenExp,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *jwtService) GenerateToken(sessionID, username string) (string, error) {
	issued := s.now()
	claims := &JwtCustomClaim{
		SessionID: sessionID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.TokenExp)),
			Issuer:    "testpark-console",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(s.SecretKey))
}

func (s *jwtService) GetTokenTTL() time.Duration {
	return s.TokenExp
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(s.SecretKey), nil
	})
	if err != nil {
		s.logger.Debug("Ошибка парсинга или проверки подписи токена", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
